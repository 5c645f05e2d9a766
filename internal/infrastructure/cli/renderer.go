package cli

import (
	"fmt"
	"io"

	"github.com/doeshing/aurora-go/internal/domain"
)

// RenderOutcome prints the per-utterance result in a friendly, ASCII-only format.
func RenderOutcome(out io.Writer, outcome domain.UtteranceOutcome, err error) {
	switch outcome.Status {
	case domain.StatusExecuted:
		fmt.Fprintf(out, "Executed: %s\n", outcome.Intent.IntentID)
		if outcome.Execution != nil && outcome.Execution.Stdout != "" {
			fmt.Fprint(out, outcome.Execution.Stdout)
		}
	case domain.StatusCancelled:
		fmt.Fprintln(out, "Cancelled")
	case domain.StatusRejected:
		fmt.Fprintf(out, "Confidence too low: %s (%.0f%%)\n", outcome.Intent.IntentID, outcome.Intent.Confidence*100)
	case domain.StatusUnauthorized:
		if outcome.Speaker != nil {
			fmt.Fprintf(out, "Speaker not authorized (confidence %.0f%%)\n", outcome.Speaker.Confidence*100)
		} else {
			fmt.Fprintln(out, "Speaker not authorized")
		}
	case domain.StatusFailed:
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		} else {
			fmt.Fprintln(out, "Error: utterance failed")
		}
	default:
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		}
	}
}
