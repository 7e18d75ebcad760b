package main

import (
	"github.com/spf13/cobra"

	"driftwood/internal/excerpt"
)

var excerptFlags struct {
	in       string
	out      string
	scenario string
	summary  bool
}

var excerptCmd = &cobra.Command{
	Use:   "excerpt",
	Short: "Replace every leaf value in a structure with its type tag",
	Long: `Excerpt strips payload values from a JSON structure, leaving only the
key layout and per-leaf type tags. The output is safe to hand to an
external planner: no data values survive. With --summary the top-level
shape analysis (container key, wrapper suspect) is emitted instead.`,
	RunE: runExcerpt,
}

func init() {
	f := excerptCmd.Flags()
	f.StringVar(&excerptFlags.in, "in", "-", "Input structure JSON (- = stdin)")
	f.StringVar(&excerptFlags.out, "out", "-", "Output path (- = stdout)")
	f.StringVar(&excerptFlags.scenario, "scenario", "function-patch", "Scenario supplying the schema for --summary")
	f.BoolVar(&excerptFlags.summary, "summary", false, "Emit the shape summary instead of the full excerpt")
}

func runExcerpt(cmd *cobra.Command, _ []string) error {
	structure, err := readStructure(excerptFlags.in)
	if err != nil {
		return err
	}

	if excerptFlags.summary {
		sc, err := loadScenario(excerptFlags.scenario)
		if err != nil {
			return err
		}
		return writeJSON(excerptFlags.out, excerpt.Summarize(structure, sc.Schema))
	}
	return writeJSON(excerptFlags.out, excerpt.Extract(structure))
}
