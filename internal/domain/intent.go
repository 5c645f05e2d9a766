package domain

import "fmt"

// IntentResult is the classifier's verdict for one utterance. It is an
// immutable value consumed exactly once by the confidence router.
type IntentResult struct {
	// IntentID names the registered command the utterance requests.
	IntentID string
	// Confidence is the calibrated probability in [0,1] assigned by the
	// classifier to its top prediction.
	Confidence float64
	// SourceText is the original utterance, retained for audit and logging.
	SourceText string
}

func (r IntentResult) String() string {
	return fmt.Sprintf("IntentResult(intent=%s, confidence=%.2f, text=%q)", r.IntentID, r.Confidence, r.SourceText)
}
