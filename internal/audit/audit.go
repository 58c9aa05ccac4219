// Package audit records every escalation decision for later review.
// Events carry hashed session identifiers; how much utterance detail
// rides along is controlled by the audit level.
package audit

import (
	"time"

	"github.com/google/uuid"

	"github.com/joebwd/mental-wellness-prompts/internal/redact"
)

// Level controls how much of the utterance an event may carry.
type Level string

const (
	// LevelMetadata records decision metadata only.
	LevelMetadata Level = "metadata"
	// LevelRedacted adds pattern indicators but never message text.
	LevelRedacted Level = "redacted"
	// LevelFull adds a bounded excerpt of the utterance.
	LevelFull Level = "full"
)

// ParseLevel maps a config string onto a Level, defaulting to redacted.
func ParseLevel(s string) (Level, bool) {
	switch Level(s) {
	case LevelMetadata, LevelRedacted, LevelFull:
		return Level(s), true
	case "":
		return LevelRedacted, true
	default:
		return LevelRedacted, false
	}
}

// Event is the canonical audit payload, one per classification turn.
type Event struct {
	Version     string    `json:"version"`
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	SessionHash string    `json:"session_hash"`

	Severity   string   `json:"severity"`
	Confidence float64  `json:"confidence"`
	Tier       int      `json:"tier"`
	Decision   string   `json:"decision"`
	Indicators []string `json:"indicators,omitempty"`
	Excerpt    string   `json:"excerpt,omitempty"`

	Partial      bool   `json:"partial"`
	CacheHit     bool   `json:"cache_hit"`
	CircuitState string `json:"circuit_state"`
	Mode         string `json:"mode"`
	Language     string `json:"language,omitempty"`
	Region       string `json:"region,omitempty"`
	LatencyMs    float64 `json:"latency_ms"`
}

// EventVersion tags the payload schema.
const EventVersion = "1"

// NewEvent stamps identity fields and applies the audit level to the
// sensitive ones. sessionID is hashed before it is stored; text is
// dropped or truncated per the level.
func NewEvent(level Level, sessionID, text string) *Event {
	ev := &Event{
		Version:     EventVersion,
		ID:          uuid.NewString(),
		Timestamp:   time.Now().UTC(),
		SessionHash: redact.SessionHash(sessionID),
	}
	if level == LevelFull {
		ev.Excerpt = redact.Excerpt(text)
	}
	return ev
}

// ApplyLevel strips fields the level does not permit. Called once more
// before delivery so a mis-populated event cannot leak detail.
func (ev *Event) ApplyLevel(level Level) {
	switch level {
	case LevelMetadata:
		ev.Indicators = nil
		ev.Excerpt = ""
	case LevelRedacted:
		ev.Excerpt = ""
	}
}
