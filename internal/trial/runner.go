// Package trial drives the full drift→infer→repair→verify loop over many
// seeded runs and measures how often the proposed plans restore the
// canonical layout. Trials share nothing but read-only inputs, so they
// parallelize without coordination; each trial derives its own random
// source from the base seed.
package trial

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"driftwood/internal/drift"
	"driftwood/internal/excerpt"
	"driftwood/internal/infer"
	"driftwood/internal/logging"
	"driftwood/internal/repair"
	"driftwood/internal/scenario"
	"driftwood/internal/verify"
)

// Config holds one trial run's parameters.
type Config struct {
	Scenario *scenario.Scenario
	Planner  infer.Planner // nil when Oracle is set
	Oracle   bool          // bypass inference and invert the drift record
	Trials   int
	BaseSeed int64
	Parallel int // worker count; <=1 means serial
	Order    drift.Order
}

// Result is one trial's outcome.
type Result struct {
	Seq        int           `json:"seq"`
	Seed       int64         `json:"seed"`
	Variants   []string      `json:"variants"`
	Plan       repair.Plan   `json:"plan"`
	Skips      []repair.Skip `json:"skips,omitempty"`
	Pass       bool          `json:"pass"`
	Violations int           `json:"violations"`
	Mismatches int           `json:"mismatches"`
	Err        string        `json:"error,omitempty"`
	Duration   time.Duration `json:"duration"`
}

// Report aggregates a run.
type Report struct {
	Scenario string   `json:"scenario"`
	Planner  string   `json:"planner"`
	BaseSeed int64    `json:"base_seed"`
	Results  []Result `json:"results"`
}

// Accuracy is the fraction of passing trials.
func (r *Report) Accuracy() float64 {
	if len(r.Results) == 0 {
		return 0
	}
	passed := 0
	for _, res := range r.Results {
		if res.Pass {
			passed++
		}
	}
	return float64(passed) / float64(len(r.Results))
}

// PlannerName names the plan source for reports and persistence.
func (c Config) PlannerName() string {
	if c.Oracle {
		return "oracle"
	}
	if c.Planner != nil {
		return c.Planner.Name()
	}
	return "none"
}

// Run executes cfg.Trials independent trials. Trial i uses seed
// BaseSeed+i, so any single trial can be replayed in isolation.
func Run(ctx context.Context, cfg Config) (*Report, error) {
	if cfg.Scenario == nil {
		return nil, fmt.Errorf("trial: scenario is required")
	}
	if !cfg.Oracle && cfg.Planner == nil {
		return nil, fmt.Errorf("trial: planner is required unless oracle mode is set")
	}
	if cfg.Trials <= 0 {
		cfg.Trials = 1
	}

	logger := logging.New("trial")
	logger.Info("starting run",
		"scenario", cfg.Scenario.Name,
		"planner", cfg.PlannerName(),
		"trials", cfg.Trials,
		"base_seed", cfg.BaseSeed,
	)

	report := &Report{
		Scenario: cfg.Scenario.Name,
		Planner:  cfg.PlannerName(),
		BaseSeed: cfg.BaseSeed,
		Results:  make([]Result, cfg.Trials),
	}

	g, gctx := errgroup.WithContext(ctx)
	limit := cfg.Parallel
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for i := 0; i < cfg.Trials; i++ {
		g.Go(func() error {
			report.Results[i] = runOne(gctx, cfg, i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Info("run complete",
		"accuracy", fmt.Sprintf("%.3f", report.Accuracy()),
		"trials", cfg.Trials,
	)
	return report, nil
}

func runOne(ctx context.Context, cfg Config, seq int) Result {
	start := time.Now()
	res := Result{Seq: seq, Seed: cfg.BaseSeed + int64(seq)}

	engine := drift.New(cfg.Scenario.Schema)
	mutated, rec, err := engine.Apply(cfg.Scenario.Canonical, drift.Randomized{
		Seed:  res.Seed,
		Order: cfg.Order,
	})
	if err != nil {
		res.Err = err.Error()
		res.Duration = time.Since(start)
		return res
	}
	for _, a := range rec.Applied {
		res.Variants = append(res.Variants, string(a.Kind))
	}

	plan, err := proposePlan(ctx, cfg, mutated, rec)
	if err != nil {
		res.Err = err.Error()
		res.Duration = time.Since(start)
		return res
	}
	res.Plan = plan

	execRes, execErr := repair.Execute(mutated, plan, cfg.Scenario.Schema)
	res.Skips = execRes.Skips
	var vErr *repair.ValidationError
	if execErr != nil {
		if !errors.As(execErr, &vErr) {
			res.Err = execErr.Error()
			res.Duration = time.Since(start)
			return res
		}
		res.Violations = len(vErr.Violations)
	}

	cmp := verify.CompareIgnoring(cfg.Scenario.Canonical, execRes.Repaired, cfg.Scenario.Schema.Ignore)
	res.Mismatches = len(cmp.Mismatches)
	res.Pass = cmp.Pass && res.Violations == 0
	res.Duration = time.Since(start)
	return res
}

func proposePlan(ctx context.Context, cfg Config, mutated any, rec *drift.Record) (repair.Plan, error) {
	if cfg.Oracle {
		return drift.InversePlan(rec), nil
	}
	sum := excerpt.Summarize(mutated, cfg.Scenario.Schema)
	return cfg.Planner.Propose(ctx, sum)
}

// VariantsLabel renders the fired-variant list for tables and storage.
func (r Result) VariantsLabel() string {
	if len(r.Variants) == 0 {
		return "(none)"
	}
	return strings.Join(r.Variants, ",")
}

// PlanJSON renders the executed plan for persistence.
func (r Result) PlanJSON() string {
	data, err := json.Marshal(r.Plan)
	if err != nil {
		return "[]"
	}
	return string(data)
}
