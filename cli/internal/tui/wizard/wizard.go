// ABOUTME: Parameter entry wizard as a bubbletea model
// ABOUTME: Uses huh forms to collect the calculation grid step by step

package wizard

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/somemela/powercalc/cli/internal/tui/styles"
	"github.com/somemela/powercalc/models"
)

// WizardCompleteMsg is sent when the wizard finishes successfully
type WizardCompleteMsg struct {
	Params          models.SizeParams
	AllowDegenerate bool
}

// WizardCancelledMsg is sent when the wizard is cancelled
type WizardCancelledMsg struct{}

// Wizard collects calculation parameters as a bubbletea model.
// Every field accepts comma-separated values, so a single pass through the
// form can describe a whole grid.
type Wizard struct {
	form  *huh.Form
	width int

	// Form field values (strings for huh)
	theta           string
	psi             string
	p               string
	power           string
	alpha           string
	rho2            string
	allowDegenerate bool
}

// createTheme returns a custom huh theme matching the shared palette
func createTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Group.Title = lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		MarginBottom(1)
	t.Group.Description = lipgloss.NewStyle().
		Foreground(styles.Muted).
		MarginBottom(1)

	t.Focused.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(styles.Primary)
	t.Focused.Title = lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true)
	t.Focused.Description = lipgloss.NewStyle().
		Foreground(styles.Muted)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().
		Foreground(styles.Danger).
		SetString(" *")
	t.Focused.ErrorMessage = lipgloss.NewStyle().
		Foreground(styles.Danger)

	t.Focused.TextInput.Cursor = lipgloss.NewStyle().
		Foreground(styles.Primary)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().
		Foreground(styles.Muted)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().
		Foreground(styles.Primary)
	t.Focused.TextInput.Text = lipgloss.NewStyle().
		Foreground(styles.Text)

	t.Focused.FocusedButton = lipgloss.NewStyle().
		Foreground(styles.Text).
		Background(styles.Primary).
		Padding(0, 2).
		MarginRight(1)
	t.Focused.BlurredButton = lipgloss.NewStyle().
		Foreground(styles.Muted).
		Background(styles.Surface).
		Padding(0, 2).
		MarginRight(1)

	t.Blurred = t.Focused
	t.Blurred.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.HiddenBorder()).
		BorderLeft(true)
	t.Blurred.Title = lipgloss.NewStyle().
		Foreground(styles.Muted)

	return t
}

// New creates a wizard prefilled with the calculator defaults
func New() *Wizard {
	w := &Wizard{
		power: "0.8",
		p:     "0.5",
		rho2:  "0",
		alpha: "0.05",
	}
	w.form = w.createForm()
	return w
}

func (w *Wizard) createForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Hazard ratio (theta)").
				Description("Effect size the study must detect").
				Placeholder("e.g., 2 or 1.5,2,2.5").
				Value(&w.theta).
				Validate(validateFloatList),
			huh.NewInput().
				Title("Event probability (psi)").
				Description("Probability of observing the event of interest by end of study").
				Placeholder("e.g., 0.505").
				Value(&w.psi).
				Validate(validateFloatList),
			huh.NewInput().
				Title("Group allocation (p)").
				Description("Proportion of subjects in the exposed group").
				Value(&w.p).
				Validate(validateFloatList),
		).Title("Step 1: Design").
			Description("Comma-separated values evaluate a whole grid"),

		huh.NewGroup(
			huh.NewInput().
				Title("Target power").
				Description("Probability of detecting the effect if it exists").
				Value(&w.power).
				Validate(validateFloatList),
			huh.NewInput().
				Title("Type I error (alpha)").
				Description("Two-sided significance level").
				Value(&w.alpha).
				Validate(validateFloatList),
			huh.NewInput().
				Title("Covariate correlation (rho2)").
				Description("Squared multiple correlation with other model covariates").
				Value(&w.rho2).
				Validate(validateFloatList),
			huh.NewConfirm().
				Title("Accept degenerate hazard ratio?").
				Description("Report theta=1 rows as unbounded instead of rejecting the request").
				Value(&w.allowDegenerate),
		).Title("Step 2: Error rates").
			Description("Defaults match common practice"),
	).WithTheme(createTheme())
}

// validateFloatList checks that a field holds comma-separated numbers
func validateFloatList(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("enter a number or comma-separated numbers")
	}
	for _, part := range strings.Split(s, ",") {
		if _, err := strconv.ParseFloat(strings.TrimSpace(part), 64); err != nil {
			return fmt.Errorf("%q is not a number", strings.TrimSpace(part))
		}
	}
	return nil
}

// parseFloatList converts a validated field into parameter values
func parseFloatList(s string) models.FloatList {
	parts := strings.Split(s, ",")
	values := make(models.FloatList, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			continue
		}
		values = append(values, v)
	}
	return values
}

// Params returns the collected parameter grid
func (w *Wizard) Params() models.SizeParams {
	return models.SizeParams{
		Power: parseFloatList(w.power),
		Theta: parseFloatList(w.theta),
		P:     parseFloatList(w.p),
		Psi:   parseFloatList(w.psi),
		Rho2:  parseFloatList(w.rho2),
		Alpha: parseFloatList(w.alpha),
	}
}

// AllowDegenerate reports whether theta=1 rows should be flagged instead
// of rejected
func (w *Wizard) AllowDegenerate() bool {
	return w.allowDegenerate
}

// SetWidth sets the wizard width for proper rendering
func (w *Wizard) SetWidth(width int) {
	w.width = width
}

// Init implements tea.Model
func (w *Wizard) Init() tea.Cmd {
	return w.form.Init()
}

// Update implements tea.Model
func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		form, cmd := w.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			w.form = f
		}
		return w, cmd

	case tea.KeyMsg:
		if msg.String() == "esc" {
			return w, func() tea.Msg { return WizardCancelledMsg{} }
		}
	}

	form, cmd := w.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		w.form = f
	}

	if w.form.State == huh.StateCompleted {
		return w, func() tea.Msg {
			return WizardCompleteMsg{
				Params:          w.Params(),
				AllowDegenerate: w.allowDegenerate,
			}
		}
	}

	return w, cmd
}

// Reset returns the wizard to a fresh form keeping the entered values
func (w *Wizard) Reset() tea.Cmd {
	w.form = w.createForm()
	return w.form.Init()
}

// View implements tea.Model
func (w *Wizard) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Plan a study"))
	sb.WriteString("\n")
	sb.WriteString(w.form.View())
	return sb.String()
}
