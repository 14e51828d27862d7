// ABOUTME: Root command for powercalc CLI
// ABOUTME: Handles global flags and configuration

package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	apiURL     string
	jsonOutput bool
)

const defaultAPIURL = "http://localhost:8080"

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "powercalc",
	Short: "Sample size and power calculator for survival analysis",
	Long: `powercalc plans studies with survival endpoints and competing risks.

It computes the number of events and subjects required to detect a given
hazard ratio in a proportional hazards model, and the power achieved by a
given sample size. Calculations run locally; the remote mode and the health
command talk to a powercalc backend.

Environment Variables:
  POWERCALC_API_URL  Backend API URL (default: http://localhost:8080)`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides POWERCALC_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// GetAPIURL returns the API URL from flag, env, or default (in priority order)
func GetAPIURL() string {
	if apiURL != "" {
		return apiURL
	}
	if envURL := os.Getenv("POWERCALC_API_URL"); envURL != "" {
		return envURL
	}
	return defaultAPIURL
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}
