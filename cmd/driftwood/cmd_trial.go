package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"driftwood/internal/drift"
	"driftwood/internal/format"
	"driftwood/internal/infer"
	"driftwood/internal/store"
	"driftwood/internal/trial"
)

var trialFlags struct {
	scenario string
	planner  string
	model    string
	trials   int
	seed     int64
	parallel int
	order    string
	csv      string
	dbPath   string
	save     bool
	markdown bool
}

var trialCmd = &cobra.Command{
	Use:   "trial",
	Short: "Run seeded drift/repair trials and measure plan accuracy",
	Long: `Trial runs N independent drift→plan→repair→verify loops against a
scenario. Trial i uses seed (base seed + i), so any failing trial can
be replayed in isolation with the drift command.

Planners: oracle inverts the ground-truth drift record (sanity
baseline, always 100%), stub is an offline heuristic, gemini asks the
Gemini API (set GEMINI_API_KEY).`,
	RunE: runTrial,
}

func init() {
	f := trialCmd.Flags()
	f.StringVar(&trialFlags.scenario, "scenario", "function-patch", "Scenario name or path to a scenario YAML file")
	f.StringVar(&trialFlags.planner, "planner", "stub", "Plan source (oracle, stub, gemini)")
	f.StringVar(&trialFlags.model, "model", "", "Gemini model for --planner=gemini")
	f.IntVar(&trialFlags.trials, "trials", 20, "Number of trials")
	f.Int64Var(&trialFlags.seed, "seed", 1, "Base seed; trial i uses seed+i")
	f.IntVar(&trialFlags.parallel, "parallel", 1, "Number of parallel workers (1 = serial)")
	f.StringVar(&trialFlags.order, "order", "random", "Rename/wrap ordering (rename-then-wrap, wrap-then-rename, random)")
	f.StringVar(&trialFlags.csv, "csv", "", "Write per-trial results CSV to path (empty = disabled)")
	f.StringVar(&trialFlags.dbPath, "db", store.DefaultDBPath, "Suite DB path for --save")
	f.BoolVar(&trialFlags.save, "save", false, "Persist the run as a suite in the DB")
	f.BoolVar(&trialFlags.markdown, "markdown", false, "Render the report table as Markdown")
}

func runTrial(cmd *cobra.Command, _ []string) error {
	sc, err := loadScenario(trialFlags.scenario)
	if err != nil {
		return err
	}

	cfg := trial.Config{
		Scenario: sc,
		Trials:   trialFlags.trials,
		BaseSeed: trialFlags.seed,
		Parallel: trialFlags.parallel,
		Order:    drift.Order(trialFlags.order),
	}
	switch trialFlags.planner {
	case "oracle":
		cfg.Oracle = true
	case "stub":
		cfg.Planner = infer.NewStub(sc.Schema)
	case "gemini":
		planner, err := infer.NewGemini(cmd.Context(), sc.Schema, trialFlags.model)
		if err != nil {
			return err
		}
		cfg.Planner = planner
	default:
		return fmt.Errorf("unknown planner %q (want oracle, stub, or gemini)", trialFlags.planner)
	}

	report, err := trial.Run(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	mode := format.ASCII
	if trialFlags.markdown {
		mode = format.Markdown
	}
	fmt.Println(report.Table(mode))

	if trialFlags.csv != "" {
		f, err := os.Create(trialFlags.csv)
		if err != nil {
			return fmt.Errorf("create CSV: %w", err)
		}
		defer f.Close()
		if err := report.WriteCSV(f); err != nil {
			return fmt.Errorf("write CSV: %w", err)
		}
		fmt.Printf("Results: %s\n", trialFlags.csv)
	}

	if trialFlags.save {
		st, err := store.Open(trialFlags.dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()
		suiteID, err := trial.Persist(st, report)
		if err != nil {
			return err
		}
		fmt.Printf("Saved suite #%d to %s\n", suiteID, trialFlags.dbPath)
	}
	return nil
}
