package redact

import (
	"strings"
	"testing"
)

func TestSessionHashStable(t *testing.T) {
	a := SessionHash("session-123")
	b := SessionHash("session-123")
	if a != b {
		t.Fatalf("hash must be stable: %q vs %q", a, b)
	}
	if len(a) != 16 {
		t.Fatalf("expected 16 hex characters, got %d", len(a))
	}
	if a == SessionHash("session-124") {
		t.Fatalf("distinct ids must not collide trivially")
	}
	if SessionHash("") != "" {
		t.Fatalf("empty id hashes to empty")
	}
}

func TestStringRedactsBearerToken(t *testing.T) {
	got := String("authorization: Bearer abc123.def456")
	if strings.Contains(got, "abc123") {
		t.Fatalf("bearer token leaked: %q", got)
	}
	if !strings.Contains(got, "[REDACTED]") {
		t.Fatalf("expected redaction marker: %q", got)
	}
}

func TestStringRedactsAPIKey(t *testing.T) {
	got := String("calling provider with api_key=sk-very-secret-value")
	if strings.Contains(got, "sk-very-secret-value") {
		t.Fatalf("api key leaked: %q", got)
	}
}

func TestStringScrubsTextField(t *testing.T) {
	got := String(`classify failed for text="I want to die" after retry`)
	if strings.Contains(got, "I want to die") {
		t.Fatalf("message text leaked: %q", got)
	}
	if !strings.Contains(got, "[SCRUBBED]") {
		t.Fatalf("expected scrub marker: %q", got)
	}
}

func TestStringHashesSessionID(t *testing.T) {
	got := String("turn complete session_id=user-abc-42")
	if strings.Contains(got, "user-abc-42") {
		t.Fatalf("session id leaked: %q", got)
	}
	want := "sh_" + SessionHash("user-abc-42")
	if !strings.Contains(got, want) {
		t.Fatalf("expected hashed id %q in %q", want, got)
	}
	// Already-hashed ids pass through unchanged.
	if String(got) != got {
		t.Fatalf("redaction must be idempotent: %q", String(got))
	}
}

func TestStringLeavesPlainLinesAlone(t *testing.T) {
	line := "server listening on :8080"
	if String(line) != line {
		t.Fatalf("plain line was altered: %q", String(line))
	}
}

func TestExcerptBounds(t *testing.T) {
	short := "hello"
	if Excerpt(short) != short {
		t.Fatalf("short text should pass through")
	}

	long := strings.Repeat("é", 150)
	got := Excerpt(long)
	if len([]rune(got)) != 100 {
		t.Fatalf("expected 100 runes, got %d", len([]rune(got)))
	}
}

func TestSprintfRedacts(t *testing.T) {
	got := Sprintf("session_id=%s failed", "raw-id-1")
	if strings.Contains(got, "raw-id-1") {
		t.Fatalf("formatted id leaked: %q", got)
	}
}
