package domain

// UtteranceStatus is the terminal state of one utterance's trip through the
// pipeline.
type UtteranceStatus string

const (
	// StatusExecuted means the command ran (auto-executed or confirmed).
	StatusExecuted UtteranceStatus = "executed"
	// StatusCancelled means confirmation was requested and declined.
	StatusCancelled UtteranceStatus = "cancelled"
	// StatusRejected means classifier confidence fell below the confirmation threshold.
	StatusRejected UtteranceStatus = "rejected"
	// StatusUnauthorized means the speaker trust gate vetoed the utterance.
	StatusUnauthorized UtteranceStatus = "unauthorized"
	// StatusFailed means classification, verification, or execution errored.
	StatusFailed UtteranceStatus = "failed"
)

// Resolved reports whether the utterance reached a clean end state (executed
// or deliberately declined), as opposed to an error.
func (s UtteranceStatus) Resolved() bool {
	switch s {
	case StatusExecuted, StatusCancelled, StatusRejected:
		return true
	default:
		return false
	}
}

// UtteranceOutcome is the canonical per-utterance result propagated back to
// the CLI and the audit log.
type UtteranceOutcome struct {
	ID         string
	SourceText string
	CleanText  string
	Intent     *IntentResult
	Speaker    *VerificationResult
	Decision   Decision
	Status     UtteranceStatus
	Execution  *ExecutionOutcome
}
