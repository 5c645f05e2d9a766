package domain

import "fmt"

// Decision is the confidence router's three-way verdict for one utterance.
// It is a plain value, not an error: Confirm and Reject are first-class
// outcomes with defined user-visible behavior.
type Decision string

const (
	DecisionReject  Decision = "reject"
	DecisionConfirm Decision = "confirm"
	DecisionExecute Decision = "execute"
)

// Thresholds holds the two calibrated confidence cut points partitioning the
// routing decision space. Fixed at construction for the lifetime of one
// orchestrator; never adjusted adaptively.
type Thresholds struct {
	Confirmation float64
	AutoExecute  float64
}

// NewThresholds validates and builds routing thresholds. Both values must lie
// in [0,1] with Confirmation <= AutoExecute; a violation is a configuration
// error and the pipeline refuses to start.
func NewThresholds(confirmation, autoExecute float64) (Thresholds, error) {
	if confirmation < 0 || confirmation > 1 {
		return Thresholds{}, fmt.Errorf("confirmation threshold %.2f outside [0,1]", confirmation)
	}
	if autoExecute < 0 || autoExecute > 1 {
		return Thresholds{}, fmt.Errorf("auto-execute threshold %.2f outside [0,1]", autoExecute)
	}
	if confirmation > autoExecute {
		return Thresholds{}, fmt.Errorf("confirmation threshold %.2f exceeds auto-execute threshold %.2f", confirmation, autoExecute)
	}
	return Thresholds{Confirmation: confirmation, AutoExecute: autoExecute}, nil
}

// Decide maps a confidence value to a routing decision. Pure function of the
// confidence and the two thresholds; no side effects.
func (t Thresholds) Decide(confidence float64) Decision {
	switch {
	case confidence < t.Confirmation:
		return DecisionReject
	case confidence < t.AutoExecute:
		return DecisionConfirm
	default:
		return DecisionExecute
	}
}
