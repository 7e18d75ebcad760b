// driftwood is the schema drift and repair CLI: drift a canonical
// structure, excerpt it for a planner, execute repair plans, verify
// equivalence, and run accuracy trials.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"driftwood/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	logLevel  string
	logFormat string
}

var rootCmd = &cobra.Command{
	Use:   "driftwood",
	Short: "Seeded schema drift and plan-driven structural repair",
	Long: "Driftwood mutates structured data with seeded, reproducible drift,\n" +
		"hands schema-only excerpts to a repair planner, executes the proposed\n" +
		"plan, and verifies the result against the canonical structure.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// Missing .env is fine; the environment may already be set.
		_ = godotenv.Load()
		level, err := logging.ParseLevel(rootFlags.logLevel)
		if err != nil {
			return err
		}
		logging.Init(level, rootFlags.logFormat)
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&rootFlags.logFormat, "log-format", "text", "log format (text, json)")

	rootCmd.AddCommand(driftCmd)
	rootCmd.AddCommand(excerptCmd)
	rootCmd.AddCommand(repairCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(trialCmd)
	rootCmd.AddCommand(scenarioCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
