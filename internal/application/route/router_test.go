package route

import (
	"context"
	"errors"
	"testing"

	"github.com/doeshing/aurora-go/internal/domain"
)

type stubExecutor struct {
	outcome domain.ExecutionOutcome
	err     error
	calls   int
	lastID  string
}

func (s *stubExecutor) Execute(_ context.Context, commandID string) (domain.ExecutionOutcome, error) {
	s.calls++
	s.lastID = commandID
	return s.outcome, s.err
}

func mustThresholds(t *testing.T) domain.Thresholds {
	t.Helper()
	thresholds, err := domain.NewThresholds(0.4, 0.75)
	if err != nil {
		t.Fatalf("NewThresholds error: %v", err)
	}
	return thresholds
}

func TestRouteExecutesHighConfidence(t *testing.T) {
	executor := &stubExecutor{outcome: domain.ExecutionOutcome{CommandID: "show_date", Ran: true}}
	router := NewRouter(mustThresholds(t), executor)

	decision, outcome, err := router.Route(context.Background(), domain.IntentResult{IntentID: "show_date", Confidence: 0.9})
	if err != nil {
		t.Fatalf("Route error: %v", err)
	}
	if decision != domain.DecisionExecute {
		t.Fatalf("decision = %v, want execute", decision)
	}
	if outcome == nil || !outcome.Ran {
		t.Fatalf("expected executed outcome, got %+v", outcome)
	}
	if executor.lastID != "show_date" {
		t.Fatalf("executor called with %q", executor.lastID)
	}
}

func TestRouteConfirmDoesNotExecute(t *testing.T) {
	executor := &stubExecutor{}
	router := NewRouter(mustThresholds(t), executor)

	decision, outcome, err := router.Route(context.Background(), domain.IntentResult{IntentID: "show_date", Confidence: 0.5})
	if err != nil {
		t.Fatalf("Route error: %v", err)
	}
	if decision != domain.DecisionConfirm {
		t.Fatalf("decision = %v, want confirm", decision)
	}
	if outcome != nil {
		t.Fatalf("expected no execution outcome, got %+v", outcome)
	}
	if executor.calls != 0 {
		t.Fatalf("executor called %d times on confirm", executor.calls)
	}
}

func TestRouteRejectDoesNotExecute(t *testing.T) {
	executor := &stubExecutor{}
	router := NewRouter(mustThresholds(t), executor)

	decision, _, err := router.Route(context.Background(), domain.IntentResult{IntentID: "show_date", Confidence: 0.1})
	if err != nil {
		t.Fatalf("Route error: %v", err)
	}
	if decision != domain.DecisionReject {
		t.Fatalf("decision = %v, want reject", decision)
	}
	if executor.calls != 0 {
		t.Fatalf("executor called %d times on reject", executor.calls)
	}
}

func TestRoutePropagatesExecutorError(t *testing.T) {
	wantErr := errors.New("spawn failed")
	executor := &stubExecutor{err: wantErr}
	router := NewRouter(mustThresholds(t), executor)

	decision, _, err := router.Route(context.Background(), domain.IntentResult{IntentID: "show_date", Confidence: 0.9})
	if decision != domain.DecisionExecute {
		t.Fatalf("decision = %v, want execute", decision)
	}
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected executor error to propagate, got %v", err)
	}
}
