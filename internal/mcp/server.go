// Package mcp exposes the drift/repair engine over the Model Context
// Protocol so agent clients can drive drift runs, request excerpts,
// execute repair plans, and verify the results without shelling out.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"driftwood/internal/drift"
	"driftwood/internal/excerpt"
	"driftwood/internal/infer"
	"driftwood/internal/logging"
	"driftwood/internal/repair"
	"driftwood/internal/scenario"
	"driftwood/internal/trial"
	"driftwood/internal/verify"
)

// Server wraps the MCP SDK server and registers the engine tools. All
// tools are stateless: every call names its scenario and carries its
// structures inline, so concurrent clients never interfere.
type Server struct {
	MCPServer *sdkmcp.Server
}

// NewServer creates an MCP server with the drift, excerpt, repair,
// verify, and trial tools registered.
func NewServer(version string) *Server {
	s := &Server{}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "driftwood", Version: version},
		nil,
	)
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "apply_drift",
		Description: "Apply seeded random drift to a scenario's canonical structure. Returns the mutated structure and the ground-truth record of applied variants.",
	}, s.handleApplyDrift)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "extract_excerpt",
		Description: "Replace every leaf value in a structure with its type tag and summarize the top-level shape. Safe to hand to an untrusted planner: no payload values survive.",
	}, s.handleExtractExcerpt)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "execute_plan",
		Description: "Execute an ordered repair plan against a structure. Inapplicable ops are skipped with reasons; the result is validated against the scenario schema.",
	}, s.handleExecutePlan)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "compare",
		Description: "Exhaustively compare two structures for equivalence: key-order-independent for objects, ordered for sequences. Returns every mismatch.",
	}, s.handleCompare)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "run_trials",
		Description: "Run N seeded drift/repair trials against a scenario and report plan accuracy. Planner is oracle (invert the drift record) or stub (offline heuristic).",
	}, s.handleRunTrials)
}

// --- Tool input/output types ---

type applyDriftInput struct {
	Scenario string `json:"scenario" jsonschema:"scenario name (see scenario list command)"`
	Seed     int64  `json:"seed" jsonschema:"drift seed; the same seed always yields the same mutation"`
	Order    string `json:"order,omitempty" jsonschema:"rename/wrap ordering: rename-then-wrap, wrap-then-rename, or random (default)"`
}

type applyDriftOutput struct {
	Mutated json.RawMessage `json:"mutated"`
	Record  *drift.Record   `json:"record"`
}

type extractExcerptInput struct {
	Scenario      string `json:"scenario" jsonschema:"scenario name supplying the schema for the summary"`
	StructureJSON string `json:"structure_json" jsonschema:"JSON structure to excerpt"`
}

type extractExcerptOutput struct {
	Excerpt json.RawMessage `json:"excerpt"`
	Summary excerpt.Summary `json:"summary"`
}

type executePlanInput struct {
	Scenario      string `json:"scenario" jsonschema:"scenario name supplying the schema for final validation"`
	StructureJSON string `json:"structure_json" jsonschema:"drifted JSON structure to repair"`
	PlanJSON      string `json:"plan_json" jsonschema:"ordered repair plan: a JSON array of ops, or an object with an ops array"`
}

type executePlanOutput struct {
	Repaired   json.RawMessage `json:"repaired"`
	Skips      []repair.Skip   `json:"skips,omitempty"`
	Valid      bool            `json:"valid"`
	Violations []string        `json:"violations,omitempty"`
}

type compareInput struct {
	ExpectedJSON string   `json:"expected_json" jsonschema:"expected JSON structure"`
	ActualJSON   string   `json:"actual_json" jsonschema:"actual JSON structure"`
	Ignore       []string `json:"ignore,omitempty" jsonschema:"top-level keys to exclude from comparison on both sides"`
}

type compareOutput struct {
	Pass       bool              `json:"pass"`
	Mismatches []verify.Mismatch `json:"mismatches,omitempty"`
}

type runTrialsInput struct {
	Scenario string `json:"scenario" jsonschema:"scenario name"`
	Planner  string `json:"planner,omitempty" jsonschema:"plan source: oracle (default) or stub"`
	Trials   int    `json:"trials,omitempty" jsonschema:"number of trials (default 10)"`
	Seed     int64  `json:"seed,omitempty" jsonschema:"base seed; trial i uses seed+i"`
	Parallel int    `json:"parallel,omitempty" jsonschema:"worker count (default 1 = serial)"`
	Order    string `json:"order,omitempty" jsonschema:"rename/wrap ordering: rename-then-wrap, wrap-then-rename, or random"`
}

type runTrialsOutput struct {
	Scenario string         `json:"scenario"`
	Planner  string         `json:"planner"`
	Accuracy float64        `json:"accuracy"`
	Results  []trial.Result `json:"results"`
}

// --- Tool handlers ---

func (s *Server) handleApplyDrift(ctx context.Context, _ *sdkmcp.CallToolRequest, input applyDriftInput) (*sdkmcp.CallToolResult, applyDriftOutput, error) {
	sc, err := scenario.Load(input.Scenario)
	if err != nil {
		return nil, applyDriftOutput{}, err
	}

	engine := drift.New(sc.Schema)
	mutated, rec, err := engine.Apply(sc.Canonical, drift.Randomized{
		Seed:  input.Seed,
		Order: drift.Order(input.Order),
	})
	if err != nil {
		return nil, applyDriftOutput{}, fmt.Errorf("apply_drift: %w", err)
	}

	raw, err := json.Marshal(mutated)
	if err != nil {
		return nil, applyDriftOutput{}, err
	}

	logging.New("mcp").Info("drift applied",
		"scenario", input.Scenario, "seed", input.Seed, "variants", len(rec.Applied))
	return nil, applyDriftOutput{Mutated: raw, Record: rec}, nil
}

func (s *Server) handleExtractExcerpt(ctx context.Context, _ *sdkmcp.CallToolRequest, input extractExcerptInput) (*sdkmcp.CallToolResult, extractExcerptOutput, error) {
	sc, err := scenario.Load(input.Scenario)
	if err != nil {
		return nil, extractExcerptOutput{}, err
	}

	structure, err := decodeStructure(input.StructureJSON)
	if err != nil {
		return nil, extractExcerptOutput{}, err
	}

	ex := excerpt.Extract(structure)
	raw, err := json.Marshal(ex)
	if err != nil {
		return nil, extractExcerptOutput{}, err
	}

	return nil, extractExcerptOutput{
		Excerpt: raw,
		Summary: excerpt.Summarize(structure, sc.Schema),
	}, nil
}

func (s *Server) handleExecutePlan(ctx context.Context, _ *sdkmcp.CallToolRequest, input executePlanInput) (*sdkmcp.CallToolResult, executePlanOutput, error) {
	sc, err := scenario.Load(input.Scenario)
	if err != nil {
		return nil, executePlanOutput{}, err
	}

	structure, err := decodeStructure(input.StructureJSON)
	if err != nil {
		return nil, executePlanOutput{}, err
	}

	plan, err := repair.ParsePlan([]byte(input.PlanJSON))
	if err != nil {
		return nil, executePlanOutput{}, fmt.Errorf("plan_json: %w", err)
	}

	res, execErr := repair.Execute(structure, plan, sc.Schema)
	out := executePlanOutput{Skips: res.Skips, Valid: execErr == nil}
	if execErr != nil {
		var vErr *repair.ValidationError
		if !errors.As(execErr, &vErr) {
			return nil, executePlanOutput{}, execErr
		}
		for _, v := range vErr.Violations {
			out.Violations = append(out.Violations, v.String())
		}
	}

	raw, err := json.Marshal(res.Repaired)
	if err != nil {
		return nil, executePlanOutput{}, err
	}
	out.Repaired = raw

	logging.New("mcp").Info("plan executed",
		"scenario", input.Scenario, "ops", len(plan), "skips", len(res.Skips), "valid", out.Valid)
	return nil, out, nil
}

func (s *Server) handleCompare(ctx context.Context, _ *sdkmcp.CallToolRequest, input compareInput) (*sdkmcp.CallToolResult, compareOutput, error) {
	expected, err := decodeStructure(input.ExpectedJSON)
	if err != nil {
		return nil, compareOutput{}, fmt.Errorf("expected_json: %w", err)
	}
	actual, err := decodeStructure(input.ActualJSON)
	if err != nil {
		return nil, compareOutput{}, fmt.Errorf("actual_json: %w", err)
	}

	rep := verify.CompareIgnoring(expected, actual, input.Ignore)
	return nil, compareOutput{Pass: rep.Pass, Mismatches: rep.Mismatches}, nil
}

func (s *Server) handleRunTrials(ctx context.Context, _ *sdkmcp.CallToolRequest, input runTrialsInput) (*sdkmcp.CallToolResult, runTrialsOutput, error) {
	sc, err := scenario.Load(input.Scenario)
	if err != nil {
		return nil, runTrialsOutput{}, err
	}

	cfg := trial.Config{
		Scenario: sc,
		Trials:   input.Trials,
		BaseSeed: input.Seed,
		Parallel: input.Parallel,
		Order:    drift.Order(input.Order),
	}
	if cfg.Trials == 0 {
		cfg.Trials = 10
	}
	switch input.Planner {
	case "", "oracle":
		cfg.Oracle = true
	case "stub":
		cfg.Planner = infer.NewStub(sc.Schema)
	default:
		return nil, runTrialsOutput{}, fmt.Errorf("unknown planner %q (want oracle or stub)", input.Planner)
	}

	report, err := trial.Run(ctx, cfg)
	if err != nil {
		return nil, runTrialsOutput{}, fmt.Errorf("run_trials: %w", err)
	}

	return nil, runTrialsOutput{
		Scenario: report.Scenario,
		Planner:  report.Planner,
		Accuracy: report.Accuracy(),
		Results:  report.Results,
	}, nil
}

func decodeStructure(raw string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("structure is not valid JSON: %w", err)
	}
	return v, nil
}
