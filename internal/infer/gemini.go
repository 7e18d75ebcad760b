package infer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	genai "google.golang.org/genai"

	"driftwood/internal/excerpt"
	"driftwood/internal/repair"
	"driftwood/internal/schema"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.0-flash"

// Gemini proposes repair plans via the Gemini API. The client reads its
// API key from the environment (GEMINI_API_KEY / GOOGLE_API_KEY).
type Gemini struct {
	cli    *genai.Client
	model  string
	schema *schema.Schema
}

// NewGemini creates a Gemini-backed planner.
func NewGemini(ctx context.Context, s *schema.Schema, model string) (*Gemini, error) {
	if model == "" {
		model = DefaultGeminiModel
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, &Error{Provider: "gemini", Cause: err}
	}
	return &Gemini{cli: cli, model: model, schema: s}, nil
}

func (p *Gemini) Name() string { return "gemini:" + p.model }

// Propose renders the diagnosis prompt, asks for JSON, and parses the
// returned plan. Any provider failure comes back as an *Error, untouched.
func (p *Gemini) Propose(ctx context.Context, sum excerpt.Summary) (repair.Plan, error) {
	prompt, err := buildPrompt(p.schema, sum)
	if err != nil {
		return nil, &Error{Provider: p.Name(), Cause: err}
	}

	resp, err := p.cli.Models.GenerateContent(ctx, p.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		return nil, &Error{Provider: p.Name(), Cause: err}
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, &Error{Provider: p.Name(), Cause: fmt.Errorf("empty response")}
	}

	raw := resp.Candidates[0].Content.Parts[0].Text
	payload, err := ExtractJSON(raw)
	if err != nil {
		return nil, &Error{Provider: p.Name(), Cause: err}
	}
	plan, err := repair.ParsePlan([]byte(payload))
	if err != nil {
		return nil, &Error{Provider: p.Name(), Cause: err}
	}
	return plan, nil
}

// buildPrompt describes the canonical layout and the observed excerpt, and
// pins the exact plan wire format the executor accepts.
func buildPrompt(s *schema.Schema, sum excerpt.Summary) (string, error) {
	sumJSON, err := json.MarshalIndent(sum, "", "  ")
	if err != nil {
		return "", err
	}

	var req strings.Builder
	for _, sec := range s.Sections {
		opt := "required"
		if sec.Field.Optional {
			opt = "optional"
		}
		fmt.Fprintf(&req, "- section %q: key %q, type %s, depth %d, %s\n",
			sec.Name, sec.Field.Key, sec.Field.Type, sec.Field.Depth, opt)
	}

	return fmt.Sprintf(`You are diagnosing schema drift in a nested data structure.

Canonical layout requirements:
%s
The structure must not carry extra wrapper layers around section containers.
Extra top-level keys may exist as ignorable noise; never emit operations for them.

Observed excerpt (schema-only, leaf values replaced by type tags):
%s

Return ONLY a JSON array of repair operations with this shape:
[{"op": "rename"|"move"|"unwrap"|"reorder"|"coerce-type"|"no-op",
  "path": ["key", ...], "target": <new key, path, or type tag>,
  "params": {...}}]

Rules:
- "rename": path addresses the misnamed key, target is the canonical key name.
- "unwrap": path addresses the wrapped container, params.wrapper names the wrapper key.
- Include ONLY operations justified by the excerpt; an empty array means no repair needed.
- At most one rename and one unwrap per container.
- Rename before unwrap when both apply.`, req.String(), sumJSON), nil
}

// ExtractJSON pulls the first JSON value out of raw model output: fenced
// blocks are stripped, then the whole text is tried, then the first
// bracketed array or object substring.
func ExtractJSON(text string) (string, error) {
	stripped := strings.TrimSpace(text)
	if strings.HasPrefix(stripped, "```") {
		lines := strings.Split(stripped, "\n")
		if len(lines) >= 3 {
			stripped = strings.TrimSpace(strings.Join(lines[1:len(lines)-1], "\n"))
		}
	}
	if json.Valid([]byte(stripped)) {
		return stripped, nil
	}
	for _, pair := range [][2]string{{"[", "]"}, {"{", "}"}} {
		start := strings.Index(stripped, pair[0])
		end := strings.LastIndex(stripped, pair[1])
		if start == -1 || end <= start {
			continue
		}
		candidate := stripped[start : end+1]
		if json.Valid([]byte(candidate)) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no JSON value found in model output")
}
