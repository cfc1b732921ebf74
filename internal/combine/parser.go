// Package combine decomposes comparative personality phrases such as
// "tony stark but more patient" into a primary subject, a modifier, and a
// combination kind.
package combine

import (
	"regexp"
	"strings"
)

// Kind identifies how the modifier combines with the primary subject.
type Kind string

const (
	KindButMore   Kind = "but_more"
	KindButLess   Kind = "but_less"
	KindMixedWith Kind = "mixed_with"
	KindLikeBut   Kind = "like_but"
)

// Match is a successful decomposition. Primary and Modifier are trimmed,
// lower-cased fragments of the input.
type Match struct {
	Kind     Kind
	Primary  string
	Modifier string
}

// patternTable is the full pattern priority order. Parsing walks it top to
// bottom and the first hit wins, so "but more" is consumed before the
// generic "but" of like_but can collide with it, and "but less" before
// "but not as". Do not reorder without updating the parser tests that pin
// this order down.
var patternTable = []struct {
	kind    Kind
	pattern *regexp.Regexp
}{
	{KindButMore, regexp.MustCompile(`^(?:like\s+)?(.+?)\s+but\s+more\s+(.+)$`)},
	{KindButMore, regexp.MustCompile(`^(?:like\s+)?(.+?)\s+but\s+extra\s+(.+)$`)},
	{KindButMore, regexp.MustCompile(`^(.+?),?\s+only\s+more\s+(.+)$`)},

	{KindButLess, regexp.MustCompile(`^(?:like\s+)?(.+?)\s+but\s+less\s+(.+)$`)},
	{KindButLess, regexp.MustCompile(`^(?:like\s+)?(.+?)\s+but\s+not\s+(?:so|as)\s+(.+)$`)},
	{KindButLess, regexp.MustCompile(`^(.+?),?\s+only\s+less\s+(.+)$`)},

	{KindMixedWith, regexp.MustCompile(`^(.+?)\s+mixed\s+with\s+(.+)$`)},
	{KindMixedWith, regexp.MustCompile(`^(.+?)\s+combined\s+with\s+(.+)$`)},
	{KindMixedWith, regexp.MustCompile(`^(.+?)\s+crossed\s+with\s+(.+)$`)},
	{KindMixedWith, regexp.MustCompile(`^(.+?)\s+meets\s+(.+)$`)},

	{KindLikeBut, regexp.MustCompile(`^like\s+(.+?)\s+but\s+(.+)$`)},
	{KindLikeBut, regexp.MustCompile(`^(.+?)\s+style,?\s+but\s+(.+)$`)},
}

// Parse tries every pattern in priority order against the lower-cased,
// trimmed text. Returns false when nothing matches.
func Parse(text string) (Match, bool) {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return Match{}, false
	}

	for _, entry := range patternTable {
		groups := entry.pattern.FindStringSubmatch(normalized)
		if groups == nil {
			continue
		}
		m := Match{
			Kind:     entry.kind,
			Primary:  strings.TrimSpace(groups[1]),
			Modifier: strings.TrimSpace(groups[2]),
		}
		if m.Primary == "" || m.Modifier == "" {
			continue
		}
		return m, true
	}
	return Match{}, false
}
