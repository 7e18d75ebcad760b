package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"driftwood/internal/excerpt"
	"driftwood/internal/infer"
	"driftwood/internal/logging"
	"driftwood/internal/repair"
	"driftwood/internal/scenario"
)

var repairFlags struct {
	in       string
	plan     string
	scenario string
	out      string
	infer    string
	model    string
}

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Execute a repair plan against a drifted structure",
	Long: `Repair applies an ordered plan of structural operations (rename, move,
unwrap, reorder, coerce-type, no-op) to a drifted structure. Each
operation is checked against the current intermediate structure;
inapplicable operations are skipped with a logged reason. The final
structure is validated against the scenario schema.

With --infer the plan is proposed by a planner from a schema-only
excerpt instead of read from --plan (stub = offline heuristic,
gemini = Gemini API; set GEMINI_API_KEY).`,
	RunE: runRepair,
}

func init() {
	f := repairCmd.Flags()
	f.StringVar(&repairFlags.in, "in", "-", "Drifted structure JSON (- = stdin)")
	f.StringVar(&repairFlags.plan, "plan", "", "Repair plan JSON file")
	f.StringVar(&repairFlags.scenario, "scenario", "function-patch", "Scenario name or path to a scenario YAML file")
	f.StringVar(&repairFlags.out, "out", "-", "Write the repaired structure here (- = stdout)")
	f.StringVar(&repairFlags.infer, "infer", "", "Infer the plan instead of reading --plan (stub, gemini)")
	f.StringVar(&repairFlags.model, "model", "", "Gemini model for --infer=gemini (default "+infer.DefaultGeminiModel+")")
}

func runRepair(cmd *cobra.Command, _ []string) error {
	sc, err := loadScenario(repairFlags.scenario)
	if err != nil {
		return err
	}
	structure, err := readStructure(repairFlags.in)
	if err != nil {
		return err
	}

	plan, err := resolvePlan(cmd, structure, sc)
	if err != nil {
		return err
	}

	logger := logging.New("repair")
	res, execErr := repair.Execute(structure, plan, sc.Schema)
	for _, sk := range res.Skips {
		logger.Warn("operation skipped", "index", sk.Index, "op", sk.Op, "path", sk.Path.String(), "reason", sk.Reason)
	}

	if err := writeJSON(repairFlags.out, res.Repaired); err != nil {
		return err
	}

	if execErr != nil {
		var vErr *repair.ValidationError
		if errors.As(execErr, &vErr) {
			for _, v := range vErr.Violations {
				fmt.Fprintf(os.Stderr, "violation: %s\n", v)
			}
		}
		return execErr
	}
	logger.Info("repair complete", "ops", len(plan), "skips", len(res.Skips))
	return nil
}

func resolvePlan(cmd *cobra.Command, structure any, sc *scenario.Scenario) (repair.Plan, error) {
	switch repairFlags.infer {
	case "":
		if repairFlags.plan == "" {
			return nil, fmt.Errorf("either --plan or --infer is required")
		}
		data, err := os.ReadFile(repairFlags.plan)
		if err != nil {
			return nil, fmt.Errorf("read plan: %w", err)
		}
		return repair.ParsePlan(data)
	case "stub":
		return infer.NewStub(sc.Schema).Propose(cmd.Context(), excerpt.Summarize(structure, sc.Schema))
	case "gemini":
		planner, err := infer.NewGemini(cmd.Context(), sc.Schema, repairFlags.model)
		if err != nil {
			return nil, err
		}
		return planner.Propose(cmd.Context(), excerpt.Summarize(structure, sc.Schema))
	default:
		return nil, fmt.Errorf("unknown planner %q (want stub or gemini)", repairFlags.infer)
	}
}
