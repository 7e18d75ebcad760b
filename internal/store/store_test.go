package store

import (
	"path/filepath"
	"testing"
)

// Both implementations must satisfy the same contract; every case runs
// against the in-memory store and a fresh SQLite file.
func runStoreTests(t *testing.T, open func(t *testing.T) Store) {
	t.Run("suite lifecycle", func(t *testing.T) {
		st := open(t)
		defer st.Close()

		id, err := st.CreateSuite("function-patch", "stub")
		if err != nil {
			t.Fatalf("CreateSuite: %v", err)
		}
		if err := st.FinishSuite(id, 20, 0.85); err != nil {
			t.Fatalf("FinishSuite: %v", err)
		}

		su, err := st.GetSuite(id)
		if err != nil {
			t.Fatalf("GetSuite: %v", err)
		}
		if su.Scenario != "function-patch" || su.Planner != "stub" || su.Trials != 20 || su.Accuracy != 0.85 {
			t.Errorf("suite = %+v", su)
		}
		if su.CreatedAt == "" {
			t.Error("suite has no creation timestamp")
		}
	})

	t.Run("finish missing suite", func(t *testing.T) {
		st := open(t)
		defer st.Close()
		if err := st.FinishSuite(999, 1, 1.0); err == nil {
			t.Fatal("finishing a missing suite should fail")
		}
	})

	t.Run("get missing suite", func(t *testing.T) {
		st := open(t)
		defer st.Close()
		if _, err := st.GetSuite(999); err == nil {
			t.Fatal("getting a missing suite should fail")
		}
	})

	t.Run("trials round trip", func(t *testing.T) {
		st := open(t)
		defer st.Close()

		suiteID, err := st.CreateSuite("sensor-batch", "oracle")
		if err != nil {
			t.Fatalf("CreateSuite: %v", err)
		}
		for seq := 0; seq < 3; seq++ {
			_, err := st.SaveTrial(&Trial{
				SuiteID:    suiteID,
				Seq:        seq,
				Seed:       int64(100 + seq),
				Variants:   "rename,wrap",
				PlanJSON:   `[{"op":"no-op"}]`,
				Skips:      seq,
				Pass:       seq != 1,
				Violations: seq,
				DurationMs: int64(5 * seq),
			})
			if err != nil {
				t.Fatalf("SaveTrial seq %d: %v", seq, err)
			}
		}

		trials, err := st.ListTrials(suiteID)
		if err != nil {
			t.Fatalf("ListTrials: %v", err)
		}
		if len(trials) != 3 {
			t.Fatalf("got %d trials, want 3", len(trials))
		}
		for i, tr := range trials {
			if tr.Seq != i {
				t.Errorf("trial %d has seq %d; list must be seq-ordered", i, tr.Seq)
			}
			if tr.SuiteID != suiteID || tr.Seed != int64(100+i) {
				t.Errorf("trial %d = %+v", i, tr)
			}
		}
		if trials[1].Pass {
			t.Error("pass flag did not round-trip")
		}
	})

	t.Run("list suites in creation order", func(t *testing.T) {
		st := open(t)
		defer st.Close()
		for _, sc := range []string{"a", "b", "c"} {
			if _, err := st.CreateSuite(sc, "stub"); err != nil {
				t.Fatalf("CreateSuite: %v", err)
			}
		}
		suites, err := st.ListSuites()
		if err != nil {
			t.Fatalf("ListSuites: %v", err)
		}
		if len(suites) != 3 {
			t.Fatalf("got %d suites, want 3", len(suites))
		}
		for i, want := range []string{"a", "b", "c"} {
			if suites[i].Scenario != want {
				t.Errorf("suite %d = %q, want %q", i, suites[i].Scenario, want)
			}
		}
	})
}

func TestMemStore(t *testing.T) {
	runStoreTests(t, func(t *testing.T) Store { return NewMemStore() })
}

func TestSqlStore(t *testing.T) {
	runStoreTests(t, func(t *testing.T) Store {
		st, err := Open(filepath.Join(t.TempDir(), "driftwood.db"))
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		return st
	})
}

func TestSqlStoreReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "driftwood.db")
	st, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	id, err := st.CreateSuite("function-patch", "stub")
	if err != nil {
		t.Fatalf("CreateSuite: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	st2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer st2.Close()
	if _, err := st2.GetSuite(id); err != nil {
		t.Errorf("suite did not survive reopen: %v", err)
	}
}
