package knowledge

import (
	"strings"
	"testing"

	"github.com/kalambet/quirk/internal/profile"
)

func TestAllNames_ContainsCanonicalAndAliases(t *testing.T) {
	b := New()
	names := b.AllNames()

	want := []string{"tony stark", "iron man", "yoda", "cowboy", "drill sergeant"}
	for _, w := range want {
		found := false
		for _, n := range names {
			if n == w {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("AllNames missing %q", w)
		}
	}

	for _, n := range names {
		if n != strings.ToLower(n) {
			t.Errorf("AllNames entry not lower-cased: %q", n)
		}
	}
}

func TestTypeOf(t *testing.T) {
	b := New()

	cases := []struct {
		name string
		want profile.Type
		ok   bool
	}{
		{"tony stark", profile.TypeFictional, true},
		{"Tony Stark", profile.TypeFictional, true},
		{"iron man", profile.TypeFictional, true},
		{"  Yoda  ", profile.TypeFictional, true},
		{"albert einstein", profile.TypeCelebrity, true},
		{"cowboy", profile.TypeArchetype, true},
		{"nobody at all", "", false},
	}
	for _, c := range cases {
		got, ok := b.TypeOf(c.name)
		if ok != c.ok || got != c.want {
			t.Errorf("TypeOf(%q) = (%q, %v), want (%q, %v)", c.name, got, ok, c.want, c.ok)
		}
	}
}

func TestArchetype_CowboyTraits(t *testing.T) {
	b := New()
	a, ok := b.Archetype("cowboy")
	if !ok {
		t.Fatal("cowboy archetype not registered")
	}
	if a.Name != "Cowboy" {
		t.Errorf("Name = %q, want Cowboy", a.Name)
	}
	found := false
	for _, tr := range a.Traits {
		if tr == "independent" {
			found = true
		}
	}
	if !found {
		t.Errorf("cowboy traits %v missing 'independent'", a.Traits)
	}
}

func TestKeywordAlias(t *testing.T) {
	b := New()
	cases := []struct {
		word, want string
		ok         bool
	}{
		{"android", "robot", true},
		{"military", "drill sergeant", true},
		{"teacher", "mentor", true},
		{"banana", "", false},
	}
	for _, c := range cases {
		got, ok := b.KeywordAlias(c.word)
		if ok != c.ok || got != c.want {
			t.Errorf("KeywordAlias(%q) = (%q, %v), want (%q, %v)", c.word, got, ok, c.want, c.ok)
		}
	}
}

func TestArchetypeKeys_EveryKeyResolves(t *testing.T) {
	b := New()
	keys := b.ArchetypeKeys()
	if len(keys) == 0 {
		t.Fatal("no archetype keys")
	}
	for _, k := range keys {
		if _, ok := b.Archetype(k); !ok {
			t.Errorf("ArchetypeKeys lists %q but Archetype(%q) misses", k, k)
		}
	}
}
