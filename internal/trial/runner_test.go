package trial

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"driftwood/internal/format"
	"driftwood/internal/infer"
	"driftwood/internal/scenario"
	"driftwood/internal/store"
)

func loadScenario(t *testing.T) *scenario.Scenario {
	t.Helper()
	sc, err := scenario.Load("function-patch")
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	return sc
}

func TestRunOracleIsPerfect(t *testing.T) {
	sc := loadScenario(t)
	report, err := Run(context.Background(), Config{
		Scenario: sc,
		Oracle:   true,
		Trials:   25,
		BaseSeed: 1,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := report.Accuracy(); got != 1.0 {
		for _, res := range report.Results {
			if !res.Pass {
				t.Logf("seed %d: variants=%v violations=%d mismatches=%d err=%q",
					res.Seed, res.Variants, res.Violations, res.Mismatches, res.Err)
			}
		}
		t.Fatalf("oracle accuracy = %.3f, want 1.0", got)
	}
}

func TestRunSeedsAreSequential(t *testing.T) {
	sc := loadScenario(t)
	report, err := Run(context.Background(), Config{
		Scenario: sc,
		Oracle:   true,
		Trials:   5,
		BaseSeed: 100,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i, res := range report.Results {
		if res.Seq != i || res.Seed != int64(100+i) {
			t.Errorf("result %d: seq=%d seed=%d", i, res.Seq, res.Seed)
		}
	}
}

func TestRunParallelMatchesSerial(t *testing.T) {
	sc := loadScenario(t)
	serial, err := Run(context.Background(), Config{
		Scenario: sc, Oracle: true, Trials: 10, BaseSeed: 7, Parallel: 1,
	})
	if err != nil {
		t.Fatalf("serial: %v", err)
	}
	parallel, err := Run(context.Background(), Config{
		Scenario: sc, Oracle: true, Trials: 10, BaseSeed: 7, Parallel: 4,
	})
	if err != nil {
		t.Fatalf("parallel: %v", err)
	}
	for i := range serial.Results {
		s, p := serial.Results[i], parallel.Results[i]
		if s.Seed != p.Seed || s.Pass != p.Pass || s.VariantsLabel() != p.VariantsLabel() {
			t.Errorf("trial %d diverged: serial=%+v parallel=%+v", i, s, p)
		}
	}
}

func TestRunStubPlanner(t *testing.T) {
	sc := loadScenario(t)
	report, err := Run(context.Background(), Config{
		Scenario: sc,
		Planner:  infer.NewStub(sc.Schema),
		Trials:   10,
		BaseSeed: 1,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Planner != "stub" {
		t.Errorf("planner name = %q", report.Planner)
	}
	// The stub only knows rename and unwrap; it must at least produce a
	// verdict for every trial without erroring out.
	for _, res := range report.Results {
		if res.Err != "" {
			t.Errorf("seed %d errored: %s", res.Seed, res.Err)
		}
	}
}

func TestRunRequiresPlannerOrOracle(t *testing.T) {
	sc := loadScenario(t)
	if _, err := Run(context.Background(), Config{Scenario: sc, Trials: 1}); err == nil {
		t.Fatal("a run without a plan source should fail")
	}
	if _, err := Run(context.Background(), Config{Oracle: true, Trials: 1}); err == nil {
		t.Fatal("a run without a scenario should fail")
	}
}

func TestWriteCSV(t *testing.T) {
	sc := loadScenario(t)
	report, err := Run(context.Background(), Config{
		Scenario: sc, Oracle: true, Trials: 3, BaseSeed: 42,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back CSV: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want header + 3", len(rows))
	}
	if rows[0][0] != "seq" || rows[0][5] != "pass" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][1] != "42" {
		t.Errorf("first trial seed column = %q, want 42", rows[1][1])
	}
}

func TestPersist(t *testing.T) {
	sc := loadScenario(t)
	report, err := Run(context.Background(), Config{
		Scenario: sc, Oracle: true, Trials: 4, BaseSeed: 9,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	st := store.NewMemStore()
	suiteID, err := Persist(st, report)
	if err != nil {
		t.Fatalf("Persist: %v", err)
	}

	su, err := st.GetSuite(suiteID)
	if err != nil {
		t.Fatalf("GetSuite: %v", err)
	}
	if su.Trials != 4 || su.Accuracy != report.Accuracy() {
		t.Errorf("suite = %+v", su)
	}
	trials, err := st.ListTrials(suiteID)
	if err != nil {
		t.Fatalf("ListTrials: %v", err)
	}
	if len(trials) != 4 {
		t.Fatalf("got %d trials, want 4", len(trials))
	}
	for i, tr := range trials {
		if tr.Seed != int64(9+i) {
			t.Errorf("trial %d seed = %d", i, tr.Seed)
		}
		if tr.PlanJSON == "" {
			t.Errorf("trial %d has no plan JSON", i)
		}
	}
}

func TestReportTable(t *testing.T) {
	sc := loadScenario(t)
	report, err := Run(context.Background(), Config{
		Scenario: sc, Oracle: true, Trials: 2, BaseSeed: 3,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	table := report.Table(format.ASCII)
	for _, must := range []string{"Seed", "Pass", "function-patch", "100.0%"} {
		if !strings.Contains(table, must) {
			t.Errorf("table is missing %q:\n%s", must, table)
		}
	}
}
