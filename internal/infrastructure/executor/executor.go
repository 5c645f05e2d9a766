// Package executor runs registry-listed commands on the host.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/doeshing/aurora-go/internal/domain"
	"github.com/doeshing/aurora-go/internal/ports"
)

// Sandbox executes only commands present in its registry, using the
// pre-tokenized argv directly. No shell interpreter is ever involved, so
// nothing in the command string or the user's utterance can be reinterpreted
// as shell syntax.
type Sandbox struct {
	registry domain.Registry
}

// NewSandbox builds an executor bound to a validated registry.
func NewSandbox(registry domain.Registry) *Sandbox {
	return &Sandbox{registry: registry}
}

// Execute implements ports.CommandExecutor. The registry membership check
// happens here, before any process is spawned, regardless of what callers
// already verified. Exactly one child process runs per call, synchronously.
func (s *Sandbox) Execute(ctx context.Context, commandID string) (domain.ExecutionOutcome, error) {
	entry, ok := s.registry.Lookup(commandID)
	if !ok {
		return domain.ExecutionOutcome{CommandID: commandID},
			fmt.Errorf("%w: %q", domain.ErrNotAllowed, commandID)
	}

	cmd := exec.CommandContext(ctx, entry.Argv[0], entry.Argv[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	outcome := domain.ExecutionOutcome{
		CommandID:  commandID,
		Stdout:     stdout.String(),
		Stderr:     stderr.String(),
		DurationMS: time.Since(start).Milliseconds(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.As(err, &exitErr):
			outcome.ExitCode = exitErr.ExitCode()
			return outcome, &domain.ExecutionError{
				CommandID: commandID,
				Stderr:    strings.TrimSpace(stderr.String()),
				Err:       err,
			}
		case errors.Is(err, exec.ErrNotFound):
			return outcome, &domain.ExecutionError{
				CommandID: commandID,
				Stderr:    "executable not found",
				Err:       err,
			}
		default:
			return outcome, &domain.ExecutionError{CommandID: commandID, Err: err}
		}
	}

	outcome.Ran = true
	outcome.ExitCode = 0
	return outcome, nil
}

var _ ports.CommandExecutor = (*Sandbox)(nil)
