// Package classify turns raw personality descriptions into a structured
// classification: a specific name, a descriptive phrase, a combination, or
// an ambiguous/unclear input that needs caller follow-up.
package classify

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kalambet/quirk/internal/combine"
	"github.com/kalambet/quirk/internal/knowledge"
	"github.com/kalambet/quirk/internal/match"
)

// Classification tags the shape of the input.
type Classification string

const (
	SpecificName      Classification = "specific_name"
	DescriptivePhrase Classification = "descriptive_phrase"
	Combination       Classification = "combination"
	Ambiguous         Classification = "ambiguous"
	Unclear           Classification = "unclear"
)

// Decision thresholds for fuzzy-match scores.
const (
	exactThreshold  = 0.95
	typoThreshold   = 0.8
	lowestThreshold = 0.6
)

const maxSuggestions = 3

// Analysis is the immutable result of classifying one input. Exactly one is
// produced per Classify call; fields beyond Classification and Confidence
// are populated only where they apply.
type Analysis struct {
	Classification Classification `json:"classification"`
	Confidence     float64        `json:"confidence"`
	Primary        string         `json:"primary,omitempty"`
	Modifiers      []string       `json:"modifiers,omitempty"`
	Kind           combine.Kind   `json:"kind,omitempty"`
	Secondary      string         `json:"secondary,omitempty"`
	Suggestions    []string       `json:"suggestions,omitempty"`
	Questions      []string       `json:"questions,omitempty"`
}

// Classifier composes the combination parser and fuzzy matcher over the
// knowledge base. Stateless; safe for concurrent use.
type Classifier struct {
	kb *knowledge.Base
}

// New creates a Classifier over the given knowledge base.
func New(kb *knowledge.Base) *Classifier {
	return &Classifier{kb: kb}
}

var (
	markupRe     = regexp.MustCompile(`<[^>]*>|[*_` + "`" + `#\[\]()~]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// sanitize strips markup and collapses whitespace. If that empties the
// string, the original trimmed input is used instead so pathological markup
// never silently discards the request.
func sanitize(input string) string {
	s := markupRe.ReplaceAllString(input, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return strings.ToLower(strings.TrimSpace(input))
	}
	return s
}

// Classify produces exactly one Analysis for the input. No retries: an
// ambiguous or unclear result is returned to the caller with suggestions
// and clarification questions rather than re-attempted.
func (c *Classifier) Classify(input string) Analysis {
	text := sanitize(input)

	// Combinations first: "x but more y" would otherwise fuzzy-match
	// poorly against every known name.
	if m, ok := combine.Parse(text); ok {
		a := Analysis{
			Classification: Combination,
			Confidence:     0.9,
			Primary:        m.Primary,
			Modifiers:      []string{m.Modifier},
			Kind:           m.Kind,
		}
		if m.Kind == combine.KindMixedWith {
			a.Secondary = m.Modifier
		}
		return a
	}

	if matches := match.FindBestMatches(text, c.kb.AllNames(), lowestThreshold); len(matches) > 0 {
		top := matches[0]
		switch {
		case top.Score >= exactThreshold:
			return Analysis{
				Classification: SpecificName,
				Confidence:     top.Score,
				Primary:        top.Name,
			}
		default:
			// Both the likely-typo tier (>= 0.8) and the true-ambiguity
			// tier (>= 0.6) surface the same suggestion shape.
			suggestions := suggestionNames(matches)
			return Analysis{
				Classification: Ambiguous,
				Confidence:     top.Score,
				Suggestions:    suggestions,
				Questions:      ambiguityQuestions(suggestions),
			}
		}
	}

	if containsAny(text, c.kb.DescriptiveKeywords()) {
		return Analysis{
			Classification: DescriptivePhrase,
			Confidence:     0.7,
			Primary:        text,
		}
	}

	return Analysis{
		Classification: Unclear,
		Confidence:     0.3,
		Questions:      clarificationHints(text),
	}
}

func suggestionNames(matches []match.Candidate) []string {
	n := len(matches)
	if n > maxSuggestions {
		n = maxSuggestions
	}
	out := make([]string, 0, n)
	for _, m := range matches[:n] {
		out = append(out, m.Name)
	}
	return out
}

func ambiguityQuestions(suggestions []string) []string {
	qs := []string{fmt.Sprintf("Did you mean '%s'?", suggestions[0])}
	if len(suggestions) > 1 {
		qs = append(qs, fmt.Sprintf("Other possibilities: %s", strings.Join(suggestions[1:], ", ")))
	}
	return qs
}

// hintTriggers map vocabulary in unclear input to a concrete suggestion.
var hintTriggers = []struct {
	words []string
	hint  string
}{
	{[]string{"smart", "intelligent", "clever"}, "Try 'genius', or a known genius like 'Tony Stark'."},
	{[]string{"funny", "joke", "humor"}, "Try a witty character, or describe the humor you want (e.g. 'sarcastic but kind')."},
	{[]string{"nice", "good"}, "Try 'friendly mentor' or 'patient teacher' to pin down the tone."},
}

func clarificationHints(text string) []string {
	var qs []string
	for _, trigger := range hintTriggers {
		if containsAny(text, trigger.words) {
			qs = append(qs, trigger.hint)
		}
	}
	qs = append(qs,
		"Could you name a specific character or person (e.g. 'Tony Stark')?",
		"Or describe the tone you want (e.g. 'friendly and patient teacher').",
	)
	return qs
}

// containsAny reports whether text contains any keyword. Single words must
// match on word boundaries; multi-word keywords match as substrings.
func containsAny(text string, keywords []string) bool {
	words := make(map[string]bool)
	for _, w := range strings.Fields(text) {
		words[strings.Trim(w, ".,!?'\"")] = true
	}
	for _, kw := range keywords {
		if strings.Contains(kw, " ") {
			if strings.Contains(text, kw) {
				return true
			}
			continue
		}
		if words[kw] {
			return true
		}
	}
	return false
}
