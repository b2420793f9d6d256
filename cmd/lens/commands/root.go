package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	env        string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lens",
	Short: "EquityLens - equity scoring engine",
	Long: `EquityLens Unified CLI

Composite 1-10 equity scoring built from technical indicators,
fundamental models, and qualitative factor assessments.

Usage:
  go run ./cmd/lens [command]

Examples:
  go run ./cmd/lens api
  go run ./cmd/lens score AAPL MSFT
  go run ./cmd/lens scheduler start`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
