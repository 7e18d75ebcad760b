package trial

import (
	"fmt"

	"driftwood/internal/store"
)

// Persist records the report as a suite in st and returns the suite ID.
func Persist(st store.Store, r *Report) (int64, error) {
	suiteID, err := st.CreateSuite(r.Scenario, r.Planner)
	if err != nil {
		return 0, fmt.Errorf("create suite: %w", err)
	}
	for _, res := range r.Results {
		t := &store.Trial{
			SuiteID:    suiteID,
			Seq:        res.Seq,
			Seed:       res.Seed,
			Variants:   res.VariantsLabel(),
			PlanJSON:   res.PlanJSON(),
			Skips:      len(res.Skips),
			Pass:       res.Pass,
			Violations: res.Violations,
			Error:      res.Err,
			DurationMs: res.Duration.Milliseconds(),
		}
		if _, err := st.SaveTrial(t); err != nil {
			return 0, fmt.Errorf("save trial %d: %w", res.Seq, err)
		}
	}
	if err := st.FinishSuite(suiteID, len(r.Results), r.Accuracy()); err != nil {
		return 0, fmt.Errorf("finish suite: %w", err)
	}
	return suiteID, nil
}
