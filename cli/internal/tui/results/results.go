// ABOUTME: Result table screen as a bubbletea model
// ABOUTME: Presents a computed grid in a scrollable bubbles table with warnings

package results

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/somemela/powercalc/cli/internal/tui/styles"
	"github.com/somemela/powercalc/models"
)

const maxVisibleRows = 12

// Results displays a computed size table with scrollable rows
type Results struct {
	table    table.Model
	warnings []models.Warning
	gridSize int
	width    int
}

// New builds the results screen from a computed table
func New(t *models.SizeTable) *Results {
	columns := []table.Column{
		{Title: "Power", Width: 7},
		{Title: "Theta", Width: 7},
		{Title: "P", Width: 7},
		{Title: "Psi", Width: 7},
		{Title: "Rho2", Width: 9},
		{Title: "Alpha", Width: 7},
		{Title: "Events", Width: 7},
		{Title: "Total", Width: 7},
		{Title: "Groups", Width: 10},
	}

	rows := make([]table.Row, len(t.Rows))
	for i, r := range t.Rows {
		events, total, groups := "-", "-", "-"
		if r.Finite {
			events = strconv.Itoa(r.D)
			total = strconv.Itoa(r.N)
			groups = r.GroupSizes()
		}
		rows[i] = table.Row{
			fmtCell(r.Power), fmtCell(r.Theta), fmtCell(r.P),
			fmtCell(r.Psi), fmtCell(r.Rho2), fmtCell(r.Alpha),
			events, total, groups,
		}
	}

	height := len(rows) + 1
	if height > maxVisibleRows {
		height = maxVisibleRows
	}

	tbl := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(styles.Muted).
		Bold(true).
		Foreground(styles.Primary)
	s.Selected = s.Selected.
		Foreground(styles.Text).
		Background(styles.Surface).
		Bold(true)
	tbl.SetStyles(s)

	return &Results{
		table:    tbl,
		warnings: t.Warnings,
		gridSize: t.GridSize,
	}
}

// fmtCell renders a parameter value compactly for a table cell
func fmtCell(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// SetWidth sets the component width for proper rendering
func (r *Results) SetWidth(width int) {
	r.width = width
}

// Init implements tea.Model
func (r *Results) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (r *Results) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	r.table, cmd = r.table.Update(msg)
	return r, cmd
}

// View implements tea.Model
func (r *Results) View() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render("Required sample sizes"))
	sb.WriteString("\n")
	sb.WriteString(styles.Subtitle.Render(fmt.Sprintf("%d combination(s)", r.gridSize)))
	sb.WriteString("\n")
	sb.WriteString(styles.Panel.Render(r.table.View()))

	if len(r.warnings) > 0 {
		sb.WriteString("\n\n")
		var lines []string
		for _, warn := range r.warnings {
			label := styles.SeverityStyle(warn.Severity).Render(fmt.Sprintf("[%s]", warn.Severity))
			lines = append(lines, fmt.Sprintf("%s %s", label, warn.Message))
		}
		sb.WriteString(strings.Join(lines, "\n"))
	}

	sb.WriteString("\n")
	sb.WriteString(styles.Help.Render("↑/↓ scroll · n new calculation · q quit"))
	return sb.String()
}
