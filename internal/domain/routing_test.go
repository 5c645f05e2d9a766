package domain

import "testing"

func TestNewThresholdsValidation(t *testing.T) {
	cases := []struct {
		name         string
		confirmation float64
		autoExecute  float64
		wantErr      bool
	}{
		{"defaults", 0.4, 0.75, false},
		{"equal cut points", 0.5, 0.5, false},
		{"full range", 0, 1, false},
		{"confirmation negative", -0.1, 0.75, true},
		{"confirmation above one", 1.1, 1, true},
		{"auto above one", 0.4, 1.5, true},
		{"inverted", 0.8, 0.4, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewThresholds(tc.confirmation, tc.autoExecute)
			if (err != nil) != tc.wantErr {
				t.Fatalf("NewThresholds(%v, %v) error = %v, wantErr %v", tc.confirmation, tc.autoExecute, err, tc.wantErr)
			}
		})
	}
}

func TestDecideBoundaries(t *testing.T) {
	thresholds, err := NewThresholds(0.4, 0.75)
	if err != nil {
		t.Fatalf("NewThresholds error: %v", err)
	}

	cases := []struct {
		confidence float64
		want       Decision
	}{
		{0.0, DecisionReject},
		{0.39, DecisionReject},
		{0.4, DecisionConfirm},
		{0.74, DecisionConfirm},
		{0.75, DecisionExecute},
		{1.0, DecisionExecute},
	}

	for _, tc := range cases {
		if got := thresholds.Decide(tc.confidence); got != tc.want {
			t.Errorf("Decide(%v) = %v, want %v", tc.confidence, got, tc.want)
		}
	}
}

func TestDecideCollapsedBands(t *testing.T) {
	thresholds, err := NewThresholds(0.6, 0.6)
	if err != nil {
		t.Fatalf("NewThresholds error: %v", err)
	}
	if got := thresholds.Decide(0.6); got != DecisionExecute {
		t.Fatalf("collapsed confirm band: Decide(0.6) = %v, want execute", got)
	}
	if got := thresholds.Decide(0.59); got != DecisionReject {
		t.Fatalf("collapsed confirm band: Decide(0.59) = %v, want reject", got)
	}
}

func TestUtteranceStatusResolved(t *testing.T) {
	resolved := []UtteranceStatus{StatusExecuted, StatusCancelled, StatusRejected}
	for _, s := range resolved {
		if !s.Resolved() {
			t.Errorf("%s should be resolved", s)
		}
	}
	unresolved := []UtteranceStatus{StatusUnauthorized, StatusFailed}
	for _, s := range unresolved {
		if s.Resolved() {
			t.Errorf("%s should not be resolved", s)
		}
	}
}
