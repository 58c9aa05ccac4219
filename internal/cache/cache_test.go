package cache

import (
	"testing"
	"time"

	"github.com/joebwd/mental-wellness-prompts/internal/detection"
)

func TestKeyDependsOnTextAndRecentHistory(t *testing.T) {
	base := Key("I feel fine", []string{"a", "b", "c"})

	if Key("I feel fine", []string{"a", "b", "c"}) != base {
		t.Fatalf("key must be stable for identical input")
	}
	if Key("something else", []string{"a", "b", "c"}) == base {
		t.Fatalf("key must depend on the text")
	}
	if Key("I feel fine", []string{"a", "b", "changed"}) == base {
		t.Fatalf("key must depend on recent history")
	}
	// Only the trailing three turns participate.
	if Key("I feel fine", []string{"older", "a", "b", "c"}) != base {
		t.Fatalf("turns past the window must not affect the key")
	}
}

func TestKeyNormalizes(t *testing.T) {
	if Key("  Hello There ", nil) != Key("hello there", nil) {
		t.Fatalf("key should fold case and trim")
	}
}

func TestGetPutRoundTrip(t *testing.T) {
	c := New(DefaultTTL)
	res := &detection.Result{
		Severity:   detection.SeverityModerate,
		Confidence: 0.7,
		Tier:       detection.TierStatistical,
		Indicators: []string{"model:moderate"},
	}
	key := Key("so tired of everything", nil)

	if _, ok := c.Get(key); ok {
		t.Fatalf("unexpected hit on empty cache")
	}
	c.Put(key, res)

	got, ok := c.Get(key)
	if !ok {
		t.Fatalf("expected a hit")
	}
	if !got.CacheHit {
		t.Fatalf("returned result must be marked as a cache hit")
	}
	if got.Severity != res.Severity || got.Confidence != res.Confidence {
		t.Fatalf("cached result diverged: %+v", got)
	}
	if res.CacheHit {
		t.Fatalf("the stored original must not be mutated")
	}
}

func TestTTLExpiry(t *testing.T) {
	c := New(time.Minute)
	clock := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	c.SetClock(func() time.Time { return clock })

	key := Key("hello", nil)
	c.Put(key, &detection.Result{Severity: detection.SeverityNone})

	clock = clock.Add(30 * time.Second)
	if _, ok := c.Get(key); !ok {
		t.Fatalf("entry should live inside the TTL")
	}

	clock = clock.Add(45 * time.Second)
	if _, ok := c.Get(key); ok {
		t.Fatalf("entry should expire past the TTL")
	}
	if c.Len() != 0 {
		t.Fatalf("expired entry should be dropped, len=%d", c.Len())
	}
}

func TestPartialResultsNotCached(t *testing.T) {
	c := New(DefaultTTL)
	key := Key("hello", nil)
	c.Put(key, &detection.Result{Severity: detection.SeverityModerate, Partial: true})
	if _, ok := c.Get(key); ok {
		t.Fatalf("partial results must never be cached")
	}
	c.Put(key, nil)
	if c.Len() != 0 {
		t.Fatalf("nil results must be ignored")
	}
}

func TestEvictionKeepsCacheBounded(t *testing.T) {
	c := New(DefaultTTL)
	c.max = 8

	for i := 0; i < 20; i++ {
		c.Put(Key(string(rune('a'+i)), nil), &detection.Result{})
	}
	if c.Len() > c.max {
		t.Fatalf("cache exceeded its bound: %d > %d", c.Len(), c.max)
	}
}
