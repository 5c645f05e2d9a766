// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and external
// adapters (infrastructure). Following the Ports and Adapters (Hexagonal) pattern,
// these interfaces allow the pipeline to remain independent of the concrete
// speech, classification, and storage implementations plugged into it.
//
// Key architectural concepts:
//   - Ports: Interfaces defined here (e.g., IntentClassifier, SpeakerGate)
//   - Adapters: Concrete implementations in the infrastructure layer
//   - Dependency inversion: Application depends on abstractions, not implementations
package ports

import (
	"context"
	"time"

	"github.com/doeshing/aurora-go/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.aurora/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// IntentClassifier maps normalized utterance text to a registered intent with
// a calibrated confidence. Fails when model artifacts are missing or when the
// predicted class is absent from the command registry.
type IntentClassifier interface {
	Classify(ctx context.Context, text string) (domain.IntentResult, error)
}

// WakewordStripper removes the configured wakeword from raw utterance text.
// Strip is pure, total, and idempotent when no wakeword is present.
type WakewordStripper interface {
	Strip(text string) string
}

// CommandExecutor runs a registry-listed command by identifier. The executor
// itself rejects unregistered identifiers before spawning any process; it
// never trusts a caller's prior check.
type CommandExecutor interface {
	Execute(ctx context.Context, commandID string) (domain.ExecutionOutcome, error)
}

// SpeakerGate is the accumulative speaker-verification protocol. Its mutable
// trust state (model, scaler, counters) is owned exclusively by the gate; the
// orchestrator only ever calls these four operations.
type SpeakerGate interface {
	Enroll(sample domain.AudioSample) (domain.TrustStatus, error)
	Verify(sample domain.AudioSample) (domain.VerificationResult, error)
	Reset() error
	Status() domain.TrustStatus
}

// FeatureExtractor turns raw audio into a fixed-length feature vector for the
// speaker gate. The acoustic mechanics behind it are replaceable.
type FeatureExtractor interface {
	Extract(sample domain.AudioSample) ([]float64, error)
}

// AudioCapturer records one utterance from the microphone. It fails with
// domain.ErrCaptureTimeout when no speech arrives in time, and with a device
// error (not retryable) when the microphone itself is broken.
type AudioCapturer interface {
	Capture(ctx context.Context, timeout, phraseLimit time.Duration) (domain.AudioSample, error)
}

// Transcriber converts captured audio to text. It fails with
// domain.ErrUnintelligible when nothing could be made out, or with a service
// error when the backing recognizer is unreachable.
type Transcriber interface {
	Transcribe(ctx context.Context, sample domain.AudioSample) (string, error)
}

// ConfirmationPrompter handles the interactive confirmation step for
// mid-confidence intents. Driving it through a port lets a text console, a
// voice loop, or a test harness supply the responses.
type ConfirmationPrompter interface {
	Confirm(intent domain.IntentResult, entry domain.CommandEntry) (bool, error)
	Enabled() bool
}

// AuditRepository persists per-utterance audit records.
type AuditRepository interface {
	Save(record domain.AuditRecord) error
	Records(limit int, search string) ([]domain.AuditRecord, error)
	Clear() error
	ExportJSON(dest string) error
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
