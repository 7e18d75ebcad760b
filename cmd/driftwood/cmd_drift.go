package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"driftwood/internal/drift"
	"driftwood/internal/logging"
)

var driftFlags struct {
	scenario string
	seed     int64
	order    string
	variant  string
	section  string
	out      string
	record   string
}

var driftCmd = &cobra.Command{
	Use:   "drift",
	Short: "Apply seeded drift to a scenario's canonical structure",
	Long: `Drift mutates the scenario's canonical structure with a seeded random
subset of the variant catalog and prints the result. The ground-truth
record of applied variants goes to --record (or stderr via logs).
The same seed always reproduces the same mutation.`,
	RunE: runDrift,
}

func init() {
	f := driftCmd.Flags()
	f.StringVar(&driftFlags.scenario, "scenario", "function-patch", "Scenario name or path to a scenario YAML file")
	f.Int64Var(&driftFlags.seed, "seed", 0, "Drift seed")
	f.StringVar(&driftFlags.order, "order", "random", "Rename/wrap ordering (rename-then-wrap, wrap-then-rename, random)")
	f.StringVar(&driftFlags.variant, "variant", "", "Apply exactly one named variant instead of a random subset (rename, wrap, flatten, reorder, coerce-type, extra-key)")
	f.StringVar(&driftFlags.section, "section", "", "Section for --variant (default: first schema section)")
	f.StringVar(&driftFlags.out, "out", "-", "Write the mutated structure here (- = stdout)")
	f.StringVar(&driftFlags.record, "record", "", "Write the drift record JSON here (empty = skip)")
}

func runDrift(cmd *cobra.Command, _ []string) error {
	sc, err := loadScenario(driftFlags.scenario)
	if err != nil {
		return err
	}

	var sel drift.Selector
	if driftFlags.variant != "" {
		sel = drift.Named{Kind: drift.Kind(driftFlags.variant), Section: driftFlags.section}
	} else {
		sel = drift.Randomized{Seed: driftFlags.seed, Order: drift.Order(driftFlags.order)}
	}

	mutated, rec, err := drift.New(sc.Schema).Apply(sc.Canonical, sel)
	if err != nil {
		return fmt.Errorf("drift: %w", err)
	}

	logger := logging.New("drift")
	for _, a := range rec.Applied {
		logger.Info("variant applied", "kind", a.Kind, "path", a.Path.String())
	}
	if len(rec.Applied) == 0 {
		logger.Warn("no variant preconditions were met; structure is unchanged")
	}

	if driftFlags.record != "" {
		if err := writeJSON(driftFlags.record, rec); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	return writeJSON(driftFlags.out, mutated)
}
