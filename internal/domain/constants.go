package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Routing defaults
const (
	// DefaultAutoExecuteThreshold auto-executes above this confidence
	DefaultAutoExecuteThreshold = 0.75
	// DefaultConfirmationThreshold asks for confirmation above this confidence
	DefaultConfirmationThreshold = 0.4
)

// Audio capture defaults
const (
	// DefaultCaptureTimeout bounds the wait for speech onset
	DefaultCaptureTimeout = 5 * time.Second
	// DefaultPhraseLimit bounds the duration of a single phrase
	DefaultPhraseLimit = 10 * time.Second
	// DefaultCaptureRetries is how many timeouts are retried in voice mode
	DefaultCaptureRetries = 3
)

// Speaker gate defaults
const (
	// DefaultSpeakerThreshold is the minimum predicted-class probability
	DefaultSpeakerThreshold = 0.5
)

// Audit constants
const (
	// DefaultAuditLimit is the default number of audit records to display
	DefaultAuditLimit = 20
)

// Time formats
const (
	// TimestampFormat is the standard timestamp format
	TimestampFormat = time.RFC3339
)
