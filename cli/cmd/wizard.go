// ABOUTME: Wizard command for powercalc CLI
// ABOUTME: Launches the interactive terminal planner

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/somemela/powercalc/cli/internal/tui"
)

var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive study planner",
	Long: `Launch an interactive terminal wizard that collects the design
parameters step by step and presents the required sample sizes in a
scrollable table.

Use comma-separated values in any field to evaluate a grid of designs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Run()
	},
}

func init() {
	rootCmd.AddCommand(wizardCmd)
}
