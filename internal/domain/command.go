// Package domain defines core business entities and value objects for Aurora.
//
// The domain layer is independent of infrastructure concerns and represents pure
// business logic and data structures: the command registry, intent results,
// routing thresholds, and the outcomes flowing through the pipeline.
package domain

import "sort"

// DangerLevel classifies a registered command for policy decisions.
// Every entry currently carries DangerUnknown; the field is reserved for
// future per-command routing policy.
type DangerLevel string

const (
	DangerUnknown DangerLevel = "unknown"
)

// CommandEntry is a single validated command in the registry.
// Argv holds the pre-tokenized words of the command line; the executor runs
// them directly, never through a shell interpreter.
type CommandEntry struct {
	ID     string
	Raw    string
	Argv   []string
	Danger DangerLevel
}

// Registry is the immutable identifier -> entry mapping produced by a
// successful load. It is the trust boundary of the whole pipeline: an
// identifier absent from the registry can never be executed, regardless of
// what the classifier predicted.
type Registry struct {
	entries map[string]CommandEntry
}

// NewRegistry copies the given entries into an immutable registry.
func NewRegistry(entries map[string]CommandEntry) Registry {
	copied := make(map[string]CommandEntry, len(entries))
	for id, entry := range entries {
		copied[id] = entry
	}
	return Registry{entries: copied}
}

// Lookup returns the entry for id, if registered.
func (r Registry) Lookup(id string) (CommandEntry, bool) {
	entry, ok := r.entries[id]
	return entry, ok
}

// Contains reports whether id is registered.
func (r Registry) Contains(id string) bool {
	_, ok := r.entries[id]
	return ok
}

// IDs returns all registered identifiers in sorted order.
func (r Registry) IDs() []string {
	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered commands.
func (r Registry) Len() int {
	return len(r.entries)
}
