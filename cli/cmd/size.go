// ABOUTME: Size command for powercalc CLI
// ABOUTME: Computes required events and subjects for a parameter grid

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/somemela/powercalc/cli/internal/client"
	"github.com/somemela/powercalc/models"
	"github.com/somemela/powercalc/services"
)

var (
	sizePower           []float64
	sizeTheta           []float64
	sizeP               []float64
	sizePsi             []float64
	sizeRho2            []float64
	sizeAlpha           []float64
	sizeAllowDegenerate bool
	sizeRemote          bool
)

var sizeCmd = &cobra.Command{
	Use:   "size",
	Short: "Compute required sample size",
	Long: `Compute the number of events and subjects required to detect a hazard
ratio with the requested power.

Each parameter flag accepts multiple values (repeat the flag or separate
values with commas); the command evaluates every combination. The first
flag listed varies fastest in the output.

Example:
  powercalc size --theta 2 --psi 0.505 --p 0.39 --rho2 0.017424
  powercalc size --theta 1.5,2,2.5 --psi 0.5 --power 0.8,0.9 --json`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runSize(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(sizeCmd)
	sizeCmd.Flags().Float64SliceVar(&sizePower, "power", nil, "Target power, e.g. 0.8 (default 0.8)")
	sizeCmd.Flags().Float64SliceVar(&sizeTheta, "theta", nil, "Hazard ratio to detect (required)")
	sizeCmd.Flags().Float64SliceVar(&sizeP, "p", nil, "Proportion of subjects in the exposed group (default 0.5)")
	sizeCmd.Flags().Float64SliceVar(&sizePsi, "psi", nil, "Probability of observing the event of interest (required)")
	sizeCmd.Flags().Float64SliceVar(&sizeRho2, "rho2", nil, "Squared correlation with other covariates (default 0)")
	sizeCmd.Flags().Float64SliceVar(&sizeAlpha, "alpha", nil, "Two-sided type I error rate (default 0.05)")
	sizeCmd.Flags().BoolVar(&sizeAllowDegenerate, "allow-degenerate", false, "Flag theta=1 rows instead of rejecting them")
	sizeCmd.Flags().BoolVar(&sizeRemote, "remote", false, "Compute on the backend instead of locally")
}

// runSize executes the calculation and returns exit code
func runSize(ctx context.Context, w io.Writer) int {
	params := models.SizeParams{
		Power: sizePower,
		Theta: sizeTheta,
		P:     sizeP,
		Psi:   sizePsi,
		Rho2:  sizeRho2,
		Alpha: sizeAlpha,
	}

	table, err := computeSize(ctx, params)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatSizeJSON(table))
	} else {
		fmt.Fprintln(w, formatSizeHuman(table))
	}

	return 0
}

// computeSize runs the calculation locally or against the backend
func computeSize(ctx context.Context, params models.SizeParams) (*models.SizeTable, error) {
	if sizeRemote {
		return client.New(GetAPIURL()).SampleSize(ctx, &params)
	}

	calc := services.NewSizeCalculator()
	calc.AllowDegenerate = sizeAllowDegenerate
	table, err := calc.Calculate(ctx, params)
	if err != nil {
		return nil, err
	}
	return table, nil
}

// formatSizeHuman formats a size table for human readability
func formatSizeHuman(table *models.SizeTable) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%8s %8s %8s %8s %8s %8s %8s %8s %9s\n",
		"Power", "Theta", "P", "Psi", "Rho2", "Alpha", "Events", "Total", "Groups")

	for _, row := range table.Rows {
		events, total, groups := "-", "-", "-"
		if row.Finite {
			events = strconv.Itoa(row.D)
			total = strconv.Itoa(row.N)
			groups = row.GroupSizes()
		}
		fmt.Fprintf(&sb, "%8s %8s %8s %8s %8s %8s %8s %8s %9s\n",
			fmtFloat(row.Power), fmtFloat(row.Theta), fmtFloat(row.P),
			fmtFloat(row.Psi), fmtFloat(row.Rho2), fmtFloat(row.Alpha),
			events, total, groups)
	}

	sb.WriteString(formatWarnings(table.Warnings))
	return strings.TrimRight(sb.String(), "\n")
}

// formatSizeJSON formats a size table as JSON
func formatSizeJSON(table *models.SizeTable) string {
	data, _ := json.MarshalIndent(table, "", "  ")
	return string(data)
}

// fmtFloat renders a parameter value compactly for table output
func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// formatWarnings renders advisory messages below a result table
func formatWarnings(warnings []models.Warning) string {
	if len(warnings) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\nWarnings:\n")
	for _, warn := range warnings {
		fmt.Fprintf(&sb, "  [%s] %s\n", warn.Severity, warn.Message)
	}
	return sb.String()
}
