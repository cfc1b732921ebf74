// Package profile defines the personality profile value types produced by
// resolution. Profiles are copy-on-blend: anything that mutates traits or
// mannerisms must work on a Clone so cached instances stay untouched.
package profile

import (
	"strings"
	"time"
)

// Type classifies where a personality comes from.
type Type string

const (
	TypeCelebrity Type = "celebrity"
	TypeFictional Type = "fictional"
	TypeArchetype Type = "archetype"
	TypeCustom    Type = "custom"
)

// Formality levels for communication style.
const (
	FormalityCasual = "casual"
	FormalityFormal = "formal"
	FormalityMixed  = "mixed"
)

// Verbosity levels for communication style.
const (
	VerbosityConcise  = "concise"
	VerbosityModerate = "moderate"
	VerbosityVerbose  = "verbose"
)

// Technical levels for communication style.
const (
	TechBeginner     = "beginner"
	TechIntermediate = "intermediate"
	TechExpert       = "expert"
)

// Intensity bounds for traits. Every mutation clamps into this range.
const (
	MinIntensity = 1
	MaxIntensity = 10
)

// Trait is a single personality trait with a bounded intensity.
type Trait struct {
	Category  string   `json:"category"`
	Name      string   `json:"name"`
	Intensity int      `json:"intensity"`
	Examples  []string `json:"examples,omitempty"`
}

// CommunicationStyle captures how a personality communicates.
type CommunicationStyle struct {
	Tone           string `json:"tone"`
	Formality      string `json:"formality"`
	Verbosity      string `json:"verbosity"`
	TechnicalLevel string `json:"technical_level"`
}

// Provenance records which resolution method produced a profile and with
// what confidence.
type Provenance struct {
	SourceType string    `json:"source_type"`
	URL        string    `json:"url,omitempty"`
	Confidence float64   `json:"confidence"`
	ObservedAt time.Time `json:"observed_at"`
}

// Profile is a resolved personality. Traits and Mannerisms are ordered and
// mutated only during blending, always on a clone.
type Profile struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Type       Type               `json:"type"`
	Traits     []Trait            `json:"traits"`
	Style      CommunicationStyle `json:"style"`
	Mannerisms []string           `json:"mannerisms,omitempty"`
	Provenance []Provenance       `json:"provenance,omitempty"`
}

// ClampIntensity bounds v into [MinIntensity, MaxIntensity].
func ClampIntensity(v int) int {
	if v < MinIntensity {
		return MinIntensity
	}
	if v > MaxIntensity {
		return MaxIntensity
	}
	return v
}

// Clone returns a deep copy of the profile. Slices are duplicated so blend
// operations on the copy never alias the original's backing arrays.
func (p Profile) Clone() Profile {
	out := p
	if p.Traits != nil {
		out.Traits = make([]Trait, len(p.Traits))
		for i, tr := range p.Traits {
			out.Traits[i] = tr
			if tr.Examples != nil {
				out.Traits[i].Examples = append([]string(nil), tr.Examples...)
			}
		}
	}
	if p.Mannerisms != nil {
		out.Mannerisms = append([]string(nil), p.Mannerisms...)
	}
	if p.Provenance != nil {
		out.Provenance = append([]Provenance(nil), p.Provenance...)
	}
	return out
}

// Summary returns a one-line description: the profile name followed by its
// trait names.
func (p Profile) Summary() string {
	if len(p.Traits) == 0 {
		return p.Name
	}
	names := make([]string, len(p.Traits))
	for i, tr := range p.Traits {
		names[i] = tr.Name
	}
	return p.Name + ": " + strings.Join(names, ", ")
}

// FindTrait returns the index of the trait with the given name
// (case-insensitive), or -1 if absent.
func (p Profile) FindTrait(name string) int {
	for i, tr := range p.Traits {
		if strings.EqualFold(tr.Name, name) {
			return i
		}
	}
	return -1
}
