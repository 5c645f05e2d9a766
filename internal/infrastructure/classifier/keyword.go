// Package classifier provides the local intent classifier adapter.
//
// The shipped implementation scores an utterance against a YAML phrase corpus
// with bag-of-words overlap. It satisfies the IntentClassifier contract; a
// better-trained model can replace it behind the same port without touching
// the pipeline.
package classifier

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/aurora-go/internal/domain"
	"github.com/doeshing/aurora-go/internal/ports"
)

// phrasesFile is the YAML schema root for the phrase corpus.
type phrasesFile struct {
	Intents map[string][]string `yaml:"intents"`
}

// Keyword classifies by the best token-overlap between the utterance and the
// example phrases registered per intent. Confidence is the winner's share of
// the total score mass, so a lone exact match scores 1.0 and ambiguous
// matches score lower.
type Keyword struct {
	registry domain.Registry
	phrases  map[string][][]string
}

// NewKeyword loads the phrase corpus at path and validates that every intent
// in it references a registered command.
func NewKeyword(path string, registry domain.Registry) (*Keyword, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read phrase corpus: %w", err)
	}
	var file phrasesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse phrase corpus: %w", err)
	}
	if len(file.Intents) == 0 {
		return nil, fmt.Errorf("phrase corpus %s declares no intents", path)
	}

	phrases := make(map[string][][]string, len(file.Intents))
	for intentID, examples := range file.Intents {
		if !registry.Contains(intentID) {
			return nil, fmt.Errorf("phrase corpus intent %q not found in command registry", intentID)
		}
		for _, example := range examples {
			tokens := tokenize(example)
			if len(tokens) == 0 {
				continue
			}
			phrases[intentID] = append(phrases[intentID], tokens)
		}
		if len(phrases[intentID]) == 0 {
			return nil, fmt.Errorf("phrase corpus intent %q has no usable phrases", intentID)
		}
	}
	return &Keyword{registry: registry, phrases: phrases}, nil
}

// Classify implements ports.IntentClassifier.
func (k *Keyword) Classify(_ context.Context, text string) (domain.IntentResult, error) {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return domain.IntentResult{}, fmt.Errorf("classify: empty utterance")
	}

	scores := make(map[string]float64, len(k.phrases))
	var total float64
	for intentID, examples := range k.phrases {
		best := 0.0
		for _, phrase := range examples {
			if s := overlap(tokens, phrase); s > best {
				best = s
			}
		}
		if best > 0 {
			scores[intentID] = best
			total += best
		}
	}
	if total == 0 {
		return domain.IntentResult{}, fmt.Errorf("classify: no registered intent matches %q", text)
	}

	intentIDs := make([]string, 0, len(scores))
	for id := range scores {
		intentIDs = append(intentIDs, id)
	}
	// deterministic winner on score ties
	sort.Strings(intentIDs)
	winner := intentIDs[0]
	for _, id := range intentIDs[1:] {
		if scores[id] > scores[winner] {
			winner = id
		}
	}

	confidence := scores[winner] * (scores[winner] / total)
	if confidence > 1 {
		confidence = 1
	}
	return domain.IntentResult{
		IntentID:   winner,
		Confidence: confidence,
		SourceText: text,
	}, nil
}

// overlap is the Jaccard similarity between two token sets.
func overlap(a, b []string) float64 {
	set := make(map[string]bool, len(a))
	for _, t := range a {
		set[t] = true
	}
	union := make(map[string]bool, len(a)+len(b))
	for _, t := range a {
		union[t] = true
	}
	shared := 0
	for _, t := range b {
		if set[t] {
			shared++
		}
		union[t] = true
	}
	if len(union) == 0 {
		return 0
	}
	return float64(shared) / float64(len(union))
}

func tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(text)))
	out := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, ".,!?;:\"'")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

var _ ports.IntentClassifier = (*Keyword)(nil)
