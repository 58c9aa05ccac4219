package detection

import (
	"fmt"
	"strings"
	"time"
)

// Severity is the ordinal risk classification assigned to an utterance.
type Severity int8

const (
	SeverityNone Severity = iota
	SeverityModerate
	SeverityHigh
	SeverityCritical
)

var severityLabels = map[Severity]string{
	SeverityNone:     "none",
	SeverityModerate: "moderate",
	SeverityHigh:     "high",
	SeverityCritical: "critical",
}

func (s Severity) String() string {
	if label, ok := severityLabels[s]; ok {
		return label
	}
	return "none"
}

// ParseSeverity maps a label to a Severity. Unknown labels map to none so
// that a malformed provider response degrades instead of failing.
func ParseSeverity(label string) (Severity, bool) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "none", "":
		return SeverityNone, label != ""
	case "low":
		// Some providers report a "low" band; it carries no escalation
		// semantics here and folds into none.
		return SeverityNone, true
	case "moderate":
		return SeverityModerate, true
	case "high":
		return SeverityHigh, true
	case "critical":
		return SeverityCritical, true
	default:
		return SeverityNone, false
	}
}

// MarshalYAML emits the label form used in pattern tables.
func (s Severity) MarshalYAML() (any, error) {
	return s.String(), nil
}

// UnmarshalYAML accepts severity labels in pattern and config files.
func (s *Severity) UnmarshalYAML(unmarshal func(any) error) error {
	var label string
	if err := unmarshal(&label); err != nil {
		return err
	}
	parsed, ok := ParseSeverity(label)
	if !ok {
		return fmt.Errorf("unknown severity %q", label)
	}
	*s = parsed
	return nil
}

// Clamp bounds a raw ordinal to the valid severity range.
func Clamp(v int) Severity {
	if v < int(SeverityNone) {
		return SeverityNone
	}
	if v > int(SeverityCritical) {
		return SeverityCritical
	}
	return Severity(v)
}

// Tier identifiers. Later tiers see more context.
const (
	TierLexical     = 0
	TierStatistical = 1
	TierContextual  = 2
)

// Utterance is one incoming user message. Immutable once created.
type Utterance struct {
	Text      string
	Language  string
	SessionID string
	Timestamp time.Time
}

// TierResult is produced once per tier invocation and never mutated.
type TierResult struct {
	Tier       int
	Severity   Severity
	Confidence float64
	Indicators []string
	Elapsed    time.Duration

	// Unavailable marks a tier that timed out or failed; it contributes
	// none/0 but must never block aggregation.
	Unavailable bool

	// Adjustment is set only by the contextual tier: a signed severity
	// delta applied on top of the statistical tier's result.
	Adjustment int
}

// Result is the aggregated decision for one utterance.
type Result struct {
	Severity   Severity
	Confidence float64
	// Tier names the tier that produced the final severity, for audit.
	Tier       int
	Indicators []string
	// Partial marks a result aggregated after the overall deadline with
	// one or more tiers still outstanding.
	Partial bool
	Elapsed time.Duration
	// CacheHit is informational only; it never changes semantics.
	CacheHit bool
}
