package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/kalambet/quirk/internal/profile"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestCache(maxEntries int) (*Cache, *fakeClock) {
	clk := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	return NewWithClock(clk, maxEntries), clk
}

func res(name string) Resolution {
	return Resolution{
		Profile:    profile.Profile{ID: "id-" + name, Name: name, Traits: []profile.Trait{{Name: "wise", Intensity: 8}}},
		Confidence: 0.9,
	}
}

func TestGet_Miss(t *testing.T) {
	c, _ := newTestCache(0)
	if _, ok := c.Get("nothing"); ok {
		t.Error("Get on empty cache returned a value")
	}
}

func TestSetGet_CaseNormalizedKey(t *testing.T) {
	c, _ := newTestCache(0)
	c.Set("Tony Stark", res("Tony Stark"), time.Hour)

	got, ok := c.Get("  tony stark  ")
	if !ok {
		t.Fatal("case/whitespace variant missed")
	}
	if got.Profile.Name != "Tony Stark" {
		t.Errorf("Name = %q, want Tony Stark", got.Profile.Name)
	}
}

func TestGet_ZeroTTLIsImmediatelyExpired(t *testing.T) {
	c, _ := newTestCache(0)
	c.Set("Tony Stark", res("Tony Stark"), 0)

	if _, ok := c.Get("tony stark"); ok {
		t.Error("zero-TTL entry survived a read")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry not evicted on read: Len = %d", c.Len())
	}
}

func TestGet_WithinTTL(t *testing.T) {
	c, clk := newTestCache(0)
	c.Set("k", res("mentor"), 24*time.Hour)

	clk.advance(23 * time.Hour)
	got, ok := c.Get("k")
	if !ok {
		t.Fatal("entry expired before its TTL")
	}
	if got.Profile.Name != "mentor" || got.Confidence != 0.9 {
		t.Errorf("got %+v, want cached resolution data", got)
	}
}

func TestGet_AfterTTL(t *testing.T) {
	c, clk := newTestCache(0)
	c.Set("k", res("mentor"), time.Hour)

	clk.advance(time.Hour)
	if _, ok := c.Get("k"); ok {
		t.Error("entry readable exactly at TTL boundary")
	}
}

func TestGet_ReturnsClone(t *testing.T) {
	c, _ := newTestCache(0)
	c.Set("k", res("mentor"), time.Hour)

	first, _ := c.Get("k")
	first.Profile.Traits[0].Intensity = 1
	first.Profile.Name = "changed"

	second, _ := c.Get("k")
	if second.Profile.Traits[0].Intensity != 8 || second.Profile.Name != "mentor" {
		t.Errorf("cached value mutated through a returned copy: %+v", second.Profile)
	}
}

func TestClearExpired(t *testing.T) {
	c, clk := newTestCache(0)
	c.Set("fresh", res("a"), 24*time.Hour)
	c.Set("stale", res("b"), time.Minute)

	clk.advance(time.Hour)
	if removed := c.ClearExpired(); removed != 1 {
		t.Errorf("ClearExpired = %d, want 1", removed)
	}
	if _, ok := c.Get("fresh"); !ok {
		t.Error("ClearExpired removed a live entry")
	}
}

func TestClearAll(t *testing.T) {
	c, _ := newTestCache(0)
	c.Set("a", res("a"), time.Hour)
	c.Set("b", res("b"), time.Hour)

	if removed := c.ClearAll(); removed != 2 {
		t.Errorf("ClearAll = %d, want 2", removed)
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d after ClearAll", c.Len())
	}
}

func TestSet_MaxEntriesEvictsOldestFirst(t *testing.T) {
	c, _ := newTestCache(3)
	for i := 0; i < 4; i++ {
		c.Set(fmt.Sprintf("k%d", i), res("x"), time.Hour)
	}

	if _, ok := c.Get("k0"); ok {
		t.Error("oldest entry survived eviction")
	}
	for i := 1; i < 4; i++ {
		if _, ok := c.Get(fmt.Sprintf("k%d", i)); !ok {
			t.Errorf("entry k%d evicted out of order", i)
		}
	}
}

func TestSet_OverwriteDoesNotGrow(t *testing.T) {
	c, _ := newTestCache(2)
	c.Set("a", res("a"), time.Hour)
	c.Set("a", res("a2"), time.Hour)
	c.Set("b", res("b"), time.Hour)

	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
	got, ok := c.Get("a")
	if !ok || got.Profile.Name != "a2" {
		t.Errorf("overwrite lost: %+v, %v", got, ok)
	}
}
