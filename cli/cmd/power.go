// ABOUTME: Power command for powercalc CLI
// ABOUTME: Computes achieved power for given sample sizes

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/somemela/powercalc/cli/internal/client"
	"github.com/somemela/powercalc/models"
	"github.com/somemela/powercalc/services"
)

var (
	powerN      []float64
	powerTheta  []float64
	powerP      []float64
	powerPsi    []float64
	powerRho2   []float64
	powerAlpha  []float64
	powerRemote bool
)

var powerCmd = &cobra.Command{
	Use:   "power",
	Short: "Compute achieved power",
	Long: `Compute the power achieved by a given total sample size.

This inverts the size calculation: feed the total subject count back in to
see how much power the design actually buys. Parameter flags accept
multiple values and every combination is evaluated.

Example:
  powercalc power --n 139 --theta 2 --psi 0.505 --p 0.39 --rho2 0.017424
  powercalc power --n 100,150,200 --theta 2 --psi 0.5 --json`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runPower(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(powerCmd)
	powerCmd.Flags().Float64SliceVar(&powerN, "n", nil, "Total sample size (required)")
	powerCmd.Flags().Float64SliceVar(&powerTheta, "theta", nil, "Hazard ratio to detect (required)")
	powerCmd.Flags().Float64SliceVar(&powerP, "p", nil, "Proportion of subjects in the exposed group (default 0.5)")
	powerCmd.Flags().Float64SliceVar(&powerPsi, "psi", nil, "Probability of observing the event of interest (required)")
	powerCmd.Flags().Float64SliceVar(&powerRho2, "rho2", nil, "Squared correlation with other covariates (default 0)")
	powerCmd.Flags().Float64SliceVar(&powerAlpha, "alpha", nil, "Two-sided type I error rate (default 0.05)")
	powerCmd.Flags().BoolVar(&powerRemote, "remote", false, "Compute on the backend instead of locally")
}

// runPower executes the calculation and returns exit code
func runPower(ctx context.Context, w io.Writer) int {
	params := models.PowerParams{
		N:     powerN,
		Theta: powerTheta,
		P:     powerP,
		Psi:   powerPsi,
		Rho2:  powerRho2,
		Alpha: powerAlpha,
	}

	table, err := computePower(ctx, params)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatPowerJSON(table))
	} else {
		fmt.Fprintln(w, formatPowerHuman(table))
	}

	return 0
}

// computePower runs the calculation locally or against the backend
func computePower(ctx context.Context, params models.PowerParams) (*models.PowerTable, error) {
	if powerRemote {
		return client.New(GetAPIURL()).Power(ctx, &params)
	}

	calc := services.NewPowerCalculator()
	table, err := calc.Calculate(ctx, params)
	if err != nil {
		return nil, err
	}
	return table, nil
}

// formatPowerHuman formats a power table for human readability
func formatPowerHuman(table *models.PowerTable) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%8s %8s %8s %8s %8s %8s %10s %8s\n",
		"N", "Theta", "P", "Psi", "Rho2", "Alpha", "Events", "Power")

	for _, row := range table.Rows {
		fmt.Fprintf(&sb, "%8s %8s %8s %8s %8s %8s %10.1f %8.4f\n",
			fmtFloat(row.N), fmtFloat(row.Theta), fmtFloat(row.P),
			fmtFloat(row.Psi), fmtFloat(row.Rho2), fmtFloat(row.Alpha),
			row.ExpectedEvents, row.Power)
	}

	sb.WriteString(formatWarnings(table.Warnings))
	return strings.TrimRight(sb.String(), "\n")
}

// formatPowerJSON formats a power table as JSON
func formatPowerJSON(table *models.PowerTable) string {
	data, _ := json.MarshalIndent(table, "", "  ")
	return string(data)
}
