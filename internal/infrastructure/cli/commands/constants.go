package commands

import (
	"context"

	"github.com/doeshing/aurora-go/internal/app"
	"github.com/doeshing/aurora-go/internal/domain"
)

// Builder constructs the dependency graph for a command after flag parsing.
// Commands build lazily so persistent overrides (thresholds, registry path)
// reach the container.
type Builder func(ctx context.Context) (*app.Container, error)

// CLI-specific constants
const (
	DefaultHistoryLimit  = domain.DefaultAuditLimit
	DefaultEnrollSamples = 3
)

// Error messages
const (
	ErrAuditDisabled       = "audit log is disabled (set audit.enabled: true)"
	ErrSamplesMustBePos    = "--samples must be > 0"
	ErrSpeakerNotTrained   = "no speaker enrolled yet; run 'aurora speaker enroll' first"
	ErrRegistrySourceUnset = "registry.source_file is not configured"
)

// Success messages
const (
	MsgNoHistoryRecorded = "No history recorded yet."
	MsgHistoryCleared    = "History cleared."
	MsgSpeakerReset      = "Speaker trust state removed."
)
