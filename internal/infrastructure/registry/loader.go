// Package registry parses and validates the declarative command source.
//
// The source is line-oriented text, `IDENTIFIER = command line`, with blank
// lines and #-comments ignored. A successful load produces the immutable
// domain.Registry that bounds everything the executor may ever run.
package registry

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/google/shlex"

	"github.com/doeshing/aurora-go/internal/domain"
)

// ErrEmptyRegistry is returned when the source contains no valid entries.
var ErrEmptyRegistry = errors.New("no commands found in registry source")

// forbiddenTokens is a syntactic denylist, not a full shell grammar. It stops
// the obvious injection shapes; it is documented as a limitation, not as a
// guarantee against every shell-escaping trick. Commands are additionally
// executed without any shell, which is the real barrier.
var forbiddenTokens = []string{";", "&&", "||", "|", "`", "$(", ">", "<"}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// LineError is a validation failure carrying the offending line number.
type LineError struct {
	Line int
	Msg  string
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// LoadFile parses and validates the declarative source at path.
func LoadFile(path string) (domain.Registry, error) {
	file, err := os.Open(path)
	if err != nil {
		return domain.Registry{}, fmt.Errorf("open registry source: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return domain.Registry{}, fmt.Errorf("read registry source: %w", err)
	}
	return Parse(lines)
}

// Parse validates the given source lines in order. Any per-line failure
// aborts the whole load with a line-numbered diagnostic; loading the same
// lines twice yields identical registries.
func Parse(lines []string) (domain.Registry, error) {
	entries := make(map[string]domain.CommandEntry)

	for i, raw := range lines {
		lineno := i + 1
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		sep := strings.Index(line, "=")
		if sep < 0 {
			return domain.Registry{}, &LineError{Line: lineno, Msg: "missing '='"}
		}

		id := strings.TrimSpace(line[:sep])
		value := strings.TrimSpace(line[sep+1:])

		if !identifierPattern.MatchString(id) {
			return domain.Registry{}, &LineError{Line: lineno, Msg: fmt.Sprintf("invalid command ID %q", id)}
		}
		if _, exists := entries[id]; exists {
			return domain.Registry{}, &LineError{Line: lineno, Msg: fmt.Sprintf("duplicate command ID %q", id)}
		}
		if value == "" {
			return domain.Registry{}, &LineError{Line: lineno, Msg: fmt.Sprintf("empty command for %q", id)}
		}
		if token, ok := findForbiddenToken(value); ok {
			return domain.Registry{}, &LineError{Line: lineno, Msg: fmt.Sprintf("forbidden shell token %q in command %q", token, value)}
		}

		argv, err := shlex.Split(value)
		if err != nil {
			return domain.Registry{}, &LineError{Line: lineno, Msg: fmt.Sprintf("shell tokenization failed: %v", err)}
		}
		if len(argv) == 0 {
			return domain.Registry{}, &LineError{Line: lineno, Msg: fmt.Sprintf("command for %q tokenized to nothing", id)}
		}

		entries[id] = domain.CommandEntry{
			ID:     id,
			Raw:    value,
			Argv:   argv,
			Danger: domain.DangerUnknown,
		}
	}

	if len(entries) == 0 {
		return domain.Registry{}, ErrEmptyRegistry
	}
	return domain.NewRegistry(entries), nil
}

func findForbiddenToken(value string) (string, bool) {
	for _, token := range forbiddenTokens {
		if strings.Contains(value, token) {
			return token, true
		}
	}
	return "", false
}
