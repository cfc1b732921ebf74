// Package resolve turns a classified primary subject into a personality
// profile, either by archetype lookup or by blending two resolved profiles
// for combination requests.
package resolve

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kalambet/quirk/internal/combine"
	"github.com/kalambet/quirk/internal/knowledge"
	"github.com/kalambet/quirk/internal/profile"
)

// Lookup confidences. Direct archetype-key hits outrank keyword aliases,
// which outrank synthesized fallback bases.
const (
	directConfidence    = 0.9
	aliasConfidence     = 0.7
	syntheticConfidence = 0.6
	blendedTraitCount   = 2
)

const archetypeSource = "archetype-database"

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Resolver builds profiles from the knowledge base. Stateless apart from
// its injected dependencies; safe for concurrent use.
type Resolver struct {
	kb    *knowledge.Base
	clock Clock
}

// New creates a Resolver over the given knowledge base.
func New(kb *knowledge.Base) *Resolver {
	return &Resolver{kb: kb, clock: realClock{}}
}

// NewWithClock creates a Resolver with a custom clock (for testing).
func NewWithClock(kb *knowledge.Base, clock Clock) *Resolver {
	return &Resolver{kb: kb, clock: clock}
}

// Resolve attempts archetype lookup for the subject. A direct archetype-key
// substring hit scores 0.9; a keyword-alias hit scores 0.7; no hit returns
// ok=false with confidence 0.
func (r *Resolver) Resolve(subject string) (profile.Profile, float64, bool) {
	lower := strings.ToLower(strings.TrimSpace(subject))
	if lower == "" {
		return profile.Profile{}, 0, false
	}

	for _, key := range r.kb.ArchetypeKeys() {
		if strings.Contains(lower, key) {
			arch, _ := r.kb.Archetype(key)
			return r.buildProfile(arch, directConfidence), directConfidence, true
		}
	}

	for _, pair := range r.kb.KeywordAliases() {
		if containsKeyword(lower, pair[0]) {
			arch, ok := r.kb.Archetype(pair[1])
			if !ok {
				continue
			}
			return r.buildProfile(arch, aliasConfidence), aliasConfidence, true
		}
	}

	return profile.Profile{}, 0, false
}

// ResolveCombination resolves the primary subject and applies the modifier
// according to the combination kind. A primary the archetype lookup misses
// falls back to a synthesized base, so "tony stark but more patient" still
// carries the patient trait instead of silently dropping the modifier. All
// mutation happens on a clone of the primary profile; a cached primary is
// never touched.
func (r *Resolver) ResolveCombination(kind combine.Kind, primary, modifier string) (profile.Profile, float64, bool) {
	base, conf, ok := r.Resolve(primary)
	if !ok {
		base, ok = r.Synthesize(primary)
		if !ok {
			return profile.Profile{}, 0, false
		}
		conf = syntheticConfidence
	}

	p := base.Clone()
	switch kind {
	case combine.KindButMore, combine.KindLikeBut:
		r.enhanceTrait(&p, modifier)
	case combine.KindButLess:
		r.reduceTrait(&p, modifier)
	case combine.KindMixedWith:
		r.blend(&p, modifier)
	}
	return p, conf, true
}

// Synthesize builds a minimal fallback profile for a subject the knowledge
// base knows by name but cannot map to an archetype. Provenance stays
// empty: no real resolution method backs these traits.
func (r *Resolver) Synthesize(subject string) (profile.Profile, bool) {
	typ, ok := r.kb.TypeOf(subject)
	if !ok {
		return profile.Profile{}, false
	}
	return profile.Profile{
		ID:   uuid.New().String(),
		Name: titleCase(subject),
		Type: typ,
		Traits: []profile.Trait{
			{Category: "core", Name: "helpful", Intensity: 6, Examples: []string{exampleSentence("helpful")}},
			{Category: "core", Name: "knowledgeable", Intensity: 6, Examples: []string{exampleSentence("knowledgeable")}},
		},
		Style: profile.CommunicationStyle{
			Tone:           "balanced and helpful",
			Formality:      profile.FormalityMixed,
			Verbosity:      profile.VerbosityModerate,
			TechnicalLevel: profile.TechIntermediate,
		},
	}, true
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// containsKeyword matches multi-word keywords as substrings but single
// words only on word boundaries, so "ai" cannot fire inside "sailor".
func containsKeyword(text, keyword string) bool {
	if strings.Contains(keyword, " ") {
		return strings.Contains(text, keyword)
	}
	for _, w := range strings.Fields(text) {
		if strings.Trim(w, ".,!?'\"") == keyword {
			return true
		}
	}
	return false
}

// buildProfile converts an archetype into a full profile. Trait intensity
// is fixed at 8 for archetype-derived traits; style fields fall back to
// neutral defaults when the archetype leaves them unset.
func (r *Resolver) buildProfile(arch knowledge.Archetype, confidence float64) profile.Profile {
	traits := make([]profile.Trait, 0, len(arch.Traits))
	for _, name := range arch.Traits {
		traits = append(traits, profile.Trait{
			Category:  "core",
			Name:      name,
			Intensity: 8,
			Examples:  []string{exampleSentence(name)},
		})
	}

	style := profile.CommunicationStyle{
		Tone:           arch.Tone,
		Formality:      arch.Formality,
		Verbosity:      arch.Verbosity,
		TechnicalLevel: arch.TechnicalLevel,
	}
	if style.Tone == "" {
		style.Tone = "balanced and helpful"
	}
	if style.Formality == "" {
		style.Formality = profile.FormalityMixed
	}
	if style.Verbosity == "" {
		style.Verbosity = profile.VerbosityModerate
	}
	if style.TechnicalLevel == "" {
		style.TechnicalLevel = profile.TechIntermediate
	}

	return profile.Profile{
		ID:         uuid.New().String(),
		Name:       arch.Name,
		Type:       profile.TypeArchetype,
		Traits:     traits,
		Style:      style,
		Mannerisms: append([]string(nil), arch.Mannerisms...),
		Provenance: []profile.Provenance{{
			SourceType: archetypeSource,
			Confidence: confidence,
			ObservedAt: r.clock.Now(),
		}},
	}
}

func exampleSentence(trait string) string {
	return fmt.Sprintf("Responds in a distinctly %s way.", trait)
}

// modifierSynonyms normalizes modifier words onto trait names. Unlisted
// modifiers are used verbatim.
var modifierSynonyms = map[string]string{
	"funny":      "humor",
	"funnier":    "humor",
	"nicer":      "kindness",
	"kinder":     "kindness",
	"smarter":    "intelligence",
	"chill":      "calmness",
	"calmer":     "calmness",
	"friendlier": "friendliness",
	"formal":     "formality",
	"serious":    "seriousness",
}

func traitName(modifier string) string {
	m := strings.ToLower(strings.TrimSpace(modifier))
	if mapped, ok := modifierSynonyms[m]; ok {
		return mapped
	}
	return m
}

func (r *Resolver) enhanceTrait(p *profile.Profile, modifier string) {
	name := traitName(modifier)
	if i := p.FindTrait(name); i >= 0 {
		p.Traits[i].Intensity = profile.ClampIntensity(p.Traits[i].Intensity + 2)
	} else {
		p.Traits = append(p.Traits, profile.Trait{
			Category:  "modifier",
			Name:      name,
			Intensity: 8,
			Examples:  []string{exampleSentence(name)},
		})
	}
	p.Mannerisms = append(p.Mannerisms, fmt.Sprintf("Shows enhanced %s", name))
}

func (r *Resolver) reduceTrait(p *profile.Profile, modifier string) {
	name := traitName(modifier)
	if i := p.FindTrait(name); i >= 0 {
		p.Traits[i].Intensity = profile.ClampIntensity(p.Traits[i].Intensity - 2)
	} else {
		p.Traits = append(p.Traits, profile.Trait{
			Category:  "modifier",
			Name:      name,
			Intensity: 3,
			Examples:  []string{exampleSentence(name)},
		})
	}
	p.Mannerisms = append(p.Mannerisms, fmt.Sprintf("Shows reduced %s", name))
}

// blend resolves the secondary subject and folds its leading traits and
// mannerisms into the primary. Like the primary, a secondary the archetype
// lookup misses falls back to a synthesized profile; only a fully unknown
// secondary makes the blend a no-op, leaving the caller the unmodified
// primary clone.
func (r *Resolver) blend(p *profile.Profile, secondary string) {
	sec, secConf, ok := r.Resolve(secondary)
	if !ok {
		sec, ok = r.Synthesize(secondary)
		if !ok {
			slog.Debug("secondary resolution failed, skipping blend", "secondary", secondary)
			return
		}
		secConf = syntheticConfidence
	}

	n := blendedTraitCount
	if len(sec.Traits) < n {
		n = len(sec.Traits)
	}
	for _, tr := range sec.Traits[:n] {
		copied := tr
		copied.Intensity = profile.ClampIntensity(tr.Intensity - 2)
		copied.Examples = append([]string(nil), tr.Examples...)
		p.Traits = append(p.Traits, copied)
	}

	m := blendedTraitCount
	if len(sec.Mannerisms) < m {
		m = len(sec.Mannerisms)
	}
	p.Mannerisms = append(p.Mannerisms, sec.Mannerisms[:m]...)

	p.Provenance = append(p.Provenance, profile.Provenance{
		SourceType: fmt.Sprintf("blended from %s", sec.Name),
		Confidence: secConf,
		ObservedAt: r.clock.Now(),
	})
	p.Name = fmt.Sprintf("%s + %s", p.Name, sec.Name)
}
