package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/doeshing/aurora-go/internal/domain"
	"github.com/doeshing/aurora-go/internal/ports"
)

// Prompter implements ConfirmationPrompter using stdin/stdout.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter constructs a prompter referencing stdio.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Prompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Enabled indicates the prompter is interactive.
func (p *Prompter) Enabled() bool {
	return true
}

// Confirm asks the user whether a mid-confidence intent should run. Anything
// but y/yes cancels.
func (p *Prompter) Confirm(intent domain.IntentResult, entry domain.CommandEntry) (bool, error) {
	fmt.Fprintf(p.out, "\nConfirmation required for %q (confidence %.0f%%)\n", intent.IntentID, intent.Confidence*100)
	fmt.Fprintf(p.out, "Command:\n  %s\n", entry.Raw)
	fmt.Fprint(p.out, "Execute? [y/N]: ")

	line, err := p.in.ReadString('\n')
	if err != nil {
		return false, err
	}
	line = strings.ToLower(strings.TrimSpace(line))
	return line == "y" || line == "yes", nil
}

var _ ports.ConfirmationPrompter = (*Prompter)(nil)
