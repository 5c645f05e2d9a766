// Package wakeword strips the configured activation word from utterances.
package wakeword

import (
	"regexp"
	"strings"

	"github.com/doeshing/aurora-go/internal/domain"
	"github.com/doeshing/aurora-go/internal/ports"
)

var whitespacePattern = regexp.MustCompile(`\s+`)

// Stripper removes at most one wakeword occurrence per call and normalizes
// whitespace. Strip is pure and idempotent on text without a wakeword.
type Stripper struct {
	word      string
	startOnly bool
	pattern   *regexp.Regexp
}

// NewStripper builds a stripper from settings. An empty wakeword produces a
// pass-through stripper.
func NewStripper(settings domain.WakewordSettings) *Stripper {
	word := strings.TrimSpace(settings.Word)
	s := &Stripper{word: word, startOnly: settings.StartOnly}
	if word == "" {
		return s
	}

	expr := regexp.QuoteMeta(word)
	if settings.StartOnly {
		expr = `^` + expr + `\s*`
	}
	if !settings.CaseSensitive {
		expr = `(?i)` + expr
	}
	s.pattern = regexp.MustCompile(expr)
	return s
}

// Strip implements ports.WakewordStripper.
func (s *Stripper) Strip(text string) string {
	result := strings.TrimSpace(text)
	if s.pattern != nil {
		if loc := s.pattern.FindStringIndex(result); loc != nil {
			result = result[:loc[0]] + result[loc[1]:]
		}
	}
	result = whitespacePattern.ReplaceAllString(strings.TrimSpace(result), " ")
	return result
}

var _ ports.WakewordStripper = (*Stripper)(nil)
