package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"driftwood/internal/verify"
)

var verifyFlags struct {
	expected string
	actual   string
	scenario string
	ignore   []string
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Compare two structures for exhaustive equivalence",
	Long: `Verify compares an actual structure against an expected one. Object
key order never matters; sequence order always does. Every mismatch is
reported with its path, not just the first. Exit status is non-zero
when the structures differ.

--scenario adds the scenario's ignore list (structural noise keys) to
the top-level keys excluded from comparison.`,
	RunE: runVerify,
}

func init() {
	f := verifyCmd.Flags()
	f.StringVar(&verifyFlags.expected, "expected", "", "Expected structure JSON file (required)")
	f.StringVar(&verifyFlags.actual, "actual", "-", "Actual structure JSON (- = stdin)")
	f.StringVar(&verifyFlags.scenario, "scenario", "", "Scenario whose ignore list applies (empty = none)")
	f.StringSliceVar(&verifyFlags.ignore, "ignore", nil, "Additional top-level keys to exclude from comparison")
	_ = verifyCmd.MarkFlagRequired("expected")
}

func runVerify(cmd *cobra.Command, _ []string) error {
	expected, err := readStructure(verifyFlags.expected)
	if err != nil {
		return err
	}
	actual, err := readStructure(verifyFlags.actual)
	if err != nil {
		return err
	}

	ignore := verifyFlags.ignore
	if verifyFlags.scenario != "" {
		sc, err := loadScenario(verifyFlags.scenario)
		if err != nil {
			return err
		}
		ignore = append(ignore, sc.Schema.Ignore...)
	}

	rep := verify.CompareIgnoring(expected, actual, ignore)
	if rep.Pass {
		fmt.Println("equivalent")
		return nil
	}
	for _, m := range rep.Mismatches {
		fmt.Printf("mismatch at %s: expected %s, got %s\n", m.Path, m.Expected, m.Actual)
	}
	return fmt.Errorf("structures differ (%d mismatches)", len(rep.Mismatches))
}
