// Package infer defines the plan-inference boundary. The engine hands an
// excerpt summary out and receives a candidate repair plan back; the
// provider behind the boundary is opaque. Latency, retries, and backoff
// are the orchestrator's concern — nothing in this package retries.
package infer

import (
	"context"
	"fmt"

	"driftwood/internal/excerpt"
	"driftwood/internal/repair"
)

// Planner proposes a repair plan from a schema-only excerpt summary.
// Implementations must not receive leaf values; the summary is all they
// get. A failed proposal is an *Error, propagated unchanged.
type Planner interface {
	Name() string
	Propose(ctx context.Context, sum excerpt.Summary) (repair.Plan, error)
}

// Error is an opaque inference failure. The engine never interprets the
// cause; it surfaces the provider's message as-is.
type Error struct {
	Provider string
	Cause    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("inference (%s): %v", e.Provider, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }
