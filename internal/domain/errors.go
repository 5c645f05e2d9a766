package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across pipeline stages. They live in the domain
// layer so the orchestrator can classify collaborator failures without
// importing infrastructure packages.
var (
	// ErrNotAllowed is returned when an identifier is absent from the registry.
	ErrNotAllowed = errors.New("command not allowed")
	// ErrNotTrained is returned by Verify before any successful enrollment.
	ErrNotTrained = errors.New("speaker model not trained")
	// ErrCaptureTimeout means no speech was detected within the capture window.
	// Retryable up to a bounded attempt count in voice mode.
	ErrCaptureTimeout = errors.New("no speech detected before timeout")
	// ErrUnintelligible means the transcriber could not make out any words.
	ErrUnintelligible = errors.New("could not understand audio")
)

// ExecutionError reports a registry-listed command that failed to run.
type ExecutionError struct {
	CommandID string
	Stderr    string
	Err       error
}

func (e *ExecutionError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("command %q failed: %s", e.CommandID, e.Stderr)
	}
	return fmt.Sprintf("command %q failed: %v", e.CommandID, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// TrustGateError wraps any internal feature-extraction or model failure inside
// the speaker trust gate. The gate never downgrades such a failure to a
// default authorization.
type TrustGateError struct {
	Op  string
	Err error
}

func (e *TrustGateError) Error() string {
	return fmt.Sprintf("speaker gate %s: %v", e.Op, e.Err)
}

func (e *TrustGateError) Unwrap() error { return e.Err }
