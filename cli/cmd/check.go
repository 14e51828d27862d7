// ABOUTME: Check command for powercalc CLI
// ABOUTME: Validates study designs against budget thresholds for CI/CD pipelines

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/somemela/powercalc/models"
	"github.com/somemela/powercalc/services"
)

var (
	checkPower    []float64
	checkTheta    []float64
	checkP        []float64
	checkPsi      []float64
	checkRho2     []float64
	checkAlpha    []float64
	checkMaxN     int
	checkMinPower float64
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check a study design against thresholds",
	Long: `Check a study design against recruitment thresholds and exit non-zero
if any are exceeded.

--max-n caps the total sample size the design may require. --min-power
asserts the power that a cohort of max-n subjects achieves under the same
assumptions, so a pipeline can fail before a study is committed to an
underpowered budget.

Exit codes:
  0 - All checks passed
  1 - One or more thresholds exceeded
  2 - Error (invalid parameters, no finite design, invalid thresholds)`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runCheck(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().Float64SliceVar(&checkPower, "power", nil, "Target power, e.g. 0.8 (default 0.8)")
	checkCmd.Flags().Float64SliceVar(&checkTheta, "theta", nil, "Hazard ratio to detect (required)")
	checkCmd.Flags().Float64SliceVar(&checkP, "p", nil, "Proportion of subjects in the exposed group (default 0.5)")
	checkCmd.Flags().Float64SliceVar(&checkPsi, "psi", nil, "Probability of observing the event of interest (required)")
	checkCmd.Flags().Float64SliceVar(&checkRho2, "rho2", nil, "Squared correlation with other covariates (default 0)")
	checkCmd.Flags().Float64SliceVar(&checkAlpha, "alpha", nil, "Two-sided type I error rate (default 0.05)")
	checkCmd.Flags().IntVar(&checkMaxN, "max-n", 0, "Maximum acceptable total sample size")
	checkCmd.Flags().Float64Var(&checkMinPower, "min-power", 0, "Minimum power a cohort of max-n subjects must achieve")
}

// checkResult represents the result of a single threshold check
type checkResult struct {
	name      string
	value     float64
	threshold float64
	passed    bool
}

// runCheck executes the threshold checks and returns exit code
func runCheck(ctx context.Context, w io.Writer) int {
	if err := validateThresholds(checkMaxN, checkMinPower); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	params := models.SizeParams{
		Power: checkPower,
		Theta: checkTheta,
		P:     checkP,
		Psi:   checkPsi,
		Rho2:  checkRho2,
		Alpha: checkAlpha,
	}

	table, err := services.NewSizeCalculator().Calculate(ctx, params)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	results, err := performChecks(ctx, params, table)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatCheckJSON(results))
	} else {
		fmt.Fprintln(w, formatCheckHuman(results))
	}

	_, failed := countResults(results)
	if failed > 0 {
		return 1
	}
	return 0
}

// validateThresholds ensures threshold values are valid
func validateThresholds(maxN int, minPower float64) error {
	if maxN == 0 && minPower == 0 {
		return fmt.Errorf("at least one of --max-n or --min-power must be set")
	}
	if maxN < 0 {
		return fmt.Errorf("--max-n must be positive")
	}
	if minPower < 0 || minPower >= 1 {
		return fmt.Errorf("--min-power must be in (0, 1)")
	}
	if minPower > 0 && maxN == 0 {
		return fmt.Errorf("--min-power requires --max-n")
	}
	return nil
}

// performChecks runs all threshold checks against the computed design
func performChecks(ctx context.Context, params models.SizeParams, table *models.SizeTable) ([]checkResult, error) {
	var results []checkResult

	// Largest required sample size across the grid
	largestN := 0
	for _, row := range table.Rows {
		if !row.Finite {
			return nil, fmt.Errorf("no finite sample size for some combinations")
		}
		if row.N > largestN {
			largestN = row.N
		}
	}

	if checkMaxN > 0 {
		results = append(results, checkResult{
			name:      "Largest total sample size",
			value:     float64(largestN),
			threshold: float64(checkMaxN),
			passed:    largestN <= checkMaxN,
		})
	}

	// Power achieved by the budgeted cohort under the worst-case combination
	if checkMinPower > 0 {
		powerParams := models.PowerParams{
			N:     models.FloatList{float64(checkMaxN)},
			Theta: params.Theta,
			P:     params.P,
			Psi:   params.Psi,
			Rho2:  params.Rho2,
			Alpha: params.Alpha,
		}
		powerTable, err := services.NewPowerCalculator().Calculate(ctx, powerParams)
		if err != nil {
			return nil, err
		}

		worst := 1.0
		for _, row := range powerTable.Rows {
			if row.Power < worst {
				worst = row.Power
			}
		}

		results = append(results, checkResult{
			name:      "Power at budgeted size",
			value:     worst,
			threshold: checkMinPower,
			passed:    worst >= checkMinPower,
		})
	}

	return results, nil
}

// countResults returns the count of passed and failed checks
func countResults(results []checkResult) (passed, failed int) {
	for _, r := range results {
		if r.passed {
			passed++
		} else {
			failed++
		}
	}
	return
}

// formatCheckHuman formats check results for human readability
func formatCheckHuman(results []checkResult) string {
	var output string

	for _, r := range results {
		symbol := "✓"
		if !r.passed {
			symbol = "✗"
		}
		output += fmt.Sprintf("%s %s: %s (threshold: %s)\n",
			symbol, r.name, fmtFloat(r.value), fmtFloat(r.threshold))
	}

	passed, failed := countResults(results)
	if failed > 0 {
		output += fmt.Sprintf("\nFAILED: %d check(s) exceeded threshold", failed)
	} else {
		output += fmt.Sprintf("\nPASSED: All %d check(s) within thresholds", passed)
	}

	return output
}

// formatCheckJSON formats check results as JSON
func formatCheckJSON(results []checkResult) string {
	_, failed := countResults(results)

	checks := make([]map[string]interface{}, len(results))
	for i, r := range results {
		checks[i] = map[string]interface{}{
			"name":      r.name,
			"value":     r.value,
			"threshold": r.threshold,
			"passed":    r.passed,
		}
	}

	status := "passed"
	if failed > 0 {
		status = "failed"
	}

	output := map[string]interface{}{
		"status": status,
		"checks": checks,
	}

	data, _ := json.MarshalIndent(output, "", "  ")
	return string(data)
}
