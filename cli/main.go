// ABOUTME: Entry point for powercalc CLI
// ABOUTME: Command-line tool for study planning and CI/CD integration

package main

import (
	"fmt"
	"os"

	"github.com/somemela/powercalc/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
