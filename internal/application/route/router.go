// Package route implements the confidence router.
package route

import (
	"context"
	"errors"

	"github.com/doeshing/aurora-go/internal/domain"
	"github.com/doeshing/aurora-go/internal/ports"
)

// Router maps an intent result to a three-way decision and, on
// DecisionExecute, drives the executor itself. It holds no state across calls
// beyond its two thresholds.
type Router struct {
	Thresholds domain.Thresholds
	Executor   ports.CommandExecutor
}

// NewRouter builds a router over validated thresholds.
func NewRouter(thresholds domain.Thresholds, executor ports.CommandExecutor) *Router {
	return &Router{Thresholds: thresholds, Executor: executor}
}

// Route decides what to do with intent. On DecisionExecute the executor is
// invoked and its errors propagate unchanged; on DecisionConfirm and
// DecisionReject the caller owns the user-facing response and no process is
// spawned here.
func (r *Router) Route(ctx context.Context, intent domain.IntentResult) (domain.Decision, *domain.ExecutionOutcome, error) {
	if r.Executor == nil {
		return "", nil, errors.New("route.Router executor not set")
	}

	decision := r.Thresholds.Decide(intent.Confidence)
	if decision != domain.DecisionExecute {
		return decision, nil, nil
	}

	outcome, err := r.Executor.Execute(ctx, intent.IntentID)
	return decision, &outcome, err
}
