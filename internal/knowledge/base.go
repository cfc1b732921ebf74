// Package knowledge holds the static registry of known personalities:
// named characters, celebrities, and generic archetypes with their traits.
// The registry is built once at startup and read-only afterwards.
package knowledge

import (
	"strings"

	"github.com/kalambet/quirk/internal/profile"
)

// Category distinguishes named characters from generic archetypes.
type Category string

const (
	CategoryCharacter Category = "character"
	CategoryArchetype Category = "archetype"
)

// KnownEntity is a registry entry: a canonical name plus aliases, all
// matched case-insensitively.
type KnownEntity struct {
	Name     string
	Aliases  []string
	Category Category
	Type     profile.Type
}

// Archetype is a generic personality template that resolution can turn
// directly into a profile.
type Archetype struct {
	Key            string
	Name           string
	Traits         []string
	Tone           string
	Formality      string
	Verbosity      string
	TechnicalLevel string
	Mannerisms     []string
}

// Base is the read-only knowledge base. Construct with New; do not mutate
// after construction; it is shared across concurrent requests.
type Base struct {
	entities   []KnownEntity
	archetypes []Archetype
	names      []string                // lower-cased canonical names + aliases
	nameIndex  map[string]profile.Type // lower-cased name/alias → type
	archIndex  map[string]int          // key → index into archetypes
}

// New builds the built-in knowledge base.
func New() *Base {
	b := &Base{
		entities:   builtinEntities,
		archetypes: builtinArchetypes,
		nameIndex:  make(map[string]profile.Type),
		archIndex:  make(map[string]int),
	}
	for _, e := range b.entities {
		lower := strings.ToLower(e.Name)
		b.names = append(b.names, lower)
		b.nameIndex[lower] = e.Type
		for _, a := range e.Aliases {
			la := strings.ToLower(a)
			b.names = append(b.names, la)
			b.nameIndex[la] = e.Type
		}
	}
	for i, a := range b.archetypes {
		b.archIndex[a.Key] = i
	}
	return b
}

// AllNames returns every canonical name and alias, lower-cased, in
// registration order. This is the fuzzy-match candidate pool.
func (b *Base) AllNames() []string {
	return b.names
}

// TypeOf does an exact case-insensitive lookup of name against canonical
// names and aliases.
func (b *Base) TypeOf(name string) (profile.Type, bool) {
	t, ok := b.nameIndex[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}

// Archetype returns the archetype registered under key.
func (b *Base) Archetype(key string) (Archetype, bool) {
	i, ok := b.archIndex[key]
	if !ok {
		return Archetype{}, false
	}
	return b.archetypes[i], true
}

// ArchetypeKeys returns archetype keys in registration order. Resolution
// scans these in order, so the order is part of the lookup contract.
func (b *Base) ArchetypeKeys() []string {
	keys := make([]string, len(b.archetypes))
	for i, a := range b.archetypes {
		keys[i] = a.Key
	}
	return keys
}

// KeywordAlias maps an indirect keyword (e.g. "android") to the archetype
// key it implies. Matches are whole-word within the subject.
func (b *Base) KeywordAlias(word string) (string, bool) {
	for _, ka := range keywordAliases {
		if ka.keyword == word {
			return ka.archetype, true
		}
	}
	return "", false
}

// KeywordAliases returns the (keyword, archetype) pairs in declared order.
func (b *Base) KeywordAliases() [][2]string {
	out := make([][2]string, len(keywordAliases))
	for i, ka := range keywordAliases {
		out[i] = [2]string{ka.keyword, ka.archetype}
	}
	return out
}

// DescriptiveKeywords returns words whose presence marks an input as a
// descriptive phrase rather than a name.
func (b *Base) DescriptiveKeywords() []string {
	return descriptiveKeywords
}
