package domain

// ExecutionOutcome wraps details from one sandboxed command invocation.
// Ephemeral; it is reported and audited but never persisted as state.
type ExecutionOutcome struct {
	CommandID  string
	Ran        bool
	Stdout     string
	Stderr     string
	ExitCode   int
	DurationMS int64
}
