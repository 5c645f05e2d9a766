package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/shlex"

	"github.com/doeshing/aurora-go/internal/domain"
)

// compiledEntry is the persisted per-command record.
type compiledEntry struct {
	Cmd    string `json:"cmd"`
	Danger string `json:"danger"`
}

// Compile writes the registry's structured form to dest so later runs can
// load it without re-parsing the declarative source. Identifiers round-trip
// unmodified.
func Compile(reg domain.Registry, dest string) error {
	out := make(map[string]compiledEntry, reg.Len())
	for _, id := range reg.IDs() {
		entry, _ := reg.Lookup(id)
		out[id] = compiledEntry{Cmd: entry.Raw, Danger: string(entry.Danger)}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), domain.DirectoryPermissions); err != nil {
		return err
	}
	return os.WriteFile(dest, data, 0o644)
}

// LoadCompiled reads a compiled registry document. The same validation rules
// apply as for the declarative source; a compiled file is convenience, not a
// way around the trust boundary.
func LoadCompiled(path string) (domain.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Registry{}, fmt.Errorf("read compiled registry: %w", err)
	}
	var raw map[string]compiledEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return domain.Registry{}, fmt.Errorf("parse compiled registry: %w", err)
	}
	if len(raw) == 0 {
		return domain.Registry{}, ErrEmptyRegistry
	}

	entries := make(map[string]domain.CommandEntry, len(raw))
	for id, ce := range raw {
		if !identifierPattern.MatchString(id) {
			return domain.Registry{}, fmt.Errorf("compiled registry: invalid command ID %q", id)
		}
		if token, ok := findForbiddenToken(ce.Cmd); ok {
			return domain.Registry{}, fmt.Errorf("compiled registry: forbidden shell token %q in command for %q", token, id)
		}
		argv, err := shlex.Split(ce.Cmd)
		if err != nil {
			return domain.Registry{}, fmt.Errorf("compiled registry: tokenize command for %q: %w", id, err)
		}
		if len(argv) == 0 {
			return domain.Registry{}, fmt.Errorf("compiled registry: empty command for %q", id)
		}
		entries[id] = domain.CommandEntry{
			ID:     id,
			Raw:    ce.Cmd,
			Argv:   argv,
			Danger: domain.DangerLevel(ce.Danger),
		}
	}
	return domain.NewRegistry(entries), nil
}
