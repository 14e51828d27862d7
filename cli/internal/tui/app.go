// ABOUTME: Root bubbletea model for the interactive planner
// ABOUTME: Routes between the parameter wizard and the results table

package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/somemela/powercalc/cli/internal/tui/results"
	"github.com/somemela/powercalc/cli/internal/tui/styles"
	"github.com/somemela/powercalc/cli/internal/tui/wizard"
	"github.com/somemela/powercalc/models"
	"github.com/somemela/powercalc/services"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenWizard Screen = iota
	ScreenResults
)

// calculatedMsg is sent when a grid calculation completes
type calculatedMsg struct {
	table *models.SizeTable
	err   error
}

// App is the root model for the TUI
type App struct {
	screen  Screen
	wizard  *wizard.Wizard
	results *results.Results
	err     error
	width   int
	height  int
}

// New creates the root model showing the parameter wizard
func New() *App {
	return &App{
		screen: ScreenWizard,
		wizard: wizard.New(),
	}
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return a.wizard.Init()
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.wizard.SetWidth(msg.Width)
		if a.results != nil {
			a.results.SetWidth(msg.Width)
		}

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.screen == ScreenResults {
			switch msg.String() {
			case "q", "esc":
				return a, tea.Quit
			case "n":
				// Back to the form, keeping the entered values
				a.screen = ScreenWizard
				a.err = nil
				return a, a.wizard.Reset()
			}
		}

	case wizard.WizardCancelledMsg:
		return a, tea.Quit

	case wizard.WizardCompleteMsg:
		return a, calculate(msg.Params, msg.AllowDegenerate)

	case calculatedMsg:
		if msg.err != nil {
			// Show the rejection and let the user fix the form
			a.err = msg.err
			a.screen = ScreenWizard
			return a, a.wizard.Reset()
		}
		a.err = nil
		a.results = results.New(msg.table)
		a.results.SetWidth(a.width)
		a.screen = ScreenResults
		return a, a.results.Init()
	}

	return a.updateChild(msg)
}

// updateChild forwards a message to the active screen's model
func (a *App) updateChild(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch a.screen {
	case ScreenWizard:
		model, cmd := a.wizard.Update(msg)
		if w, ok := model.(*wizard.Wizard); ok {
			a.wizard = w
		}
		return a, cmd
	case ScreenResults:
		model, cmd := a.results.Update(msg)
		if r, ok := model.(*results.Results); ok {
			a.results = r
		}
		return a, cmd
	}
	return a, nil
}

// calculate runs the grid computation off the update loop
func calculate(params models.SizeParams, allowDegenerate bool) tea.Cmd {
	return func() tea.Msg {
		calc := services.NewSizeCalculator()
		calc.AllowDegenerate = allowDegenerate
		table, err := calc.Calculate(context.Background(), params)
		return calculatedMsg{table: table, err: err}
	}
}

// View implements tea.Model
func (a *App) View() string {
	switch a.screen {
	case ScreenResults:
		return a.results.View()
	default:
		view := ""
		if a.err != nil {
			view += styles.ErrorBanner.Render("Rejected: "+a.err.Error()) + "\n"
		}
		return view + a.wizard.View()
	}
}

// Run starts the TUI
func Run() error {
	p := tea.NewProgram(
		New(),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
