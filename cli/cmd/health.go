// ABOUTME: Health command for powercalc CLI
// ABOUTME: Checks backend connectivity and service status

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

	"github.com/somemela/powercalc/cli/internal/client"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check backend connectivity",
	Long:  `Check connectivity to the powercalc backend and verify service status.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runHealth(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

// runHealth executes the health check and returns exit code
func runHealth(ctx context.Context, w io.Writer) int {
	url := GetAPIURL()
	c := client.New(url)

	resp, err := c.Health(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatHealthJSON(url, resp))
	} else {
		fmt.Fprintln(w, formatHealthHuman(url, resp))
	}

	return 0
}

// formatHealthHuman formats health response for human readability
func formatHealthHuman(url string, resp *client.HealthStatus) string {
	return fmt.Sprintf(`Backend:          %s
Status:           %s
Cached Results:   %d
Max Grid Rows:    %d
Degenerate Theta: %t`, url, resp.Status, resp.CacheEntries, resp.MaxGridRows, resp.AllowDegenerateTheta)
}

// formatHealthJSON formats health response as JSON
func formatHealthJSON(url string, resp *client.HealthStatus) string {
	output := map[string]interface{}{
		"backend":                url,
		"status":                 resp.Status,
		"cache_entries":          resp.CacheEntries,
		"max_grid_rows":          resp.MaxGridRows,
		"allow_degenerate_theta": resp.AllowDegenerateTheta,
	}
	data, _ := json.MarshalIndent(output, "", "  ")
	return string(data)
}
