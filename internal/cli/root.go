// Package cli implements the questlog command-line interface using Cobra.
// Each subcommand maps to a goal or gamification operation.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "questlog",
	Short: "questlog — Track goals, earn XP",
	Long: `questlog is a local-first personal goal tracker with a gamification
engine: XP, levels, daily streaks, and achievements across life modules
(fitness, learning, scripture, home, work).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
