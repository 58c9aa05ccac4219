// Package aggregate merges tier results into a single detection decision.
//
// Tie-break policy, evaluated in order: any critical wins outright; then
// the contextual adjustment is applied on top of the statistical tier
// (never erasing a direct lexical high/critical); then maximum severity
// across completed tiers, preferring higher confidence and, at equal
// confidence, the later-numbered tier.
package aggregate

import (
	"time"

	"github.com/joebwd/mental-wellness-prompts/internal/detection"
)

const maxIndicators = 5

// candidate is one tier's contribution after adjustments.
type candidate struct {
	severity   detection.Severity
	confidence float64
	tier       int
	indicators []string
}

// Merge combines the available tier results. lexical must be non-nil;
// statistical and contextual may be nil when they missed the overall
// deadline (partial should then be true) or were skipped entirely.
func Merge(lexical, statistical, contextual *detection.TierResult, partial bool, elapsed time.Duration) *detection.Result {
	candidates := make([]candidate, 0, 3)
	var indicators []string

	if lexical != nil && !lexical.Unavailable {
		candidates = append(candidates, candidate{
			severity:   lexical.Severity,
			confidence: lexical.Confidence,
			tier:       lexical.Tier,
			indicators: lexical.Indicators,
		})
	}

	if statistical != nil && !statistical.Unavailable {
		adjusted := candidate{
			severity:   statistical.Severity,
			confidence: statistical.Confidence,
			tier:       detection.TierStatistical,
			indicators: statistical.Indicators,
		}
		if contextual != nil && !contextual.Unavailable && contextual.Adjustment != 0 {
			next := detection.Clamp(int(statistical.Severity) + contextual.Adjustment)
			if next != statistical.Severity {
				// The contextual tier produced this severity; attribute it.
				adjusted.severity = next
				adjusted.tier = detection.TierContextual
				if contextual.Confidence > 0 {
					adjusted.confidence = contextual.Confidence
				}
			}
		}
		candidates = append(candidates, adjusted)
	}

	if contextual != nil && !contextual.Unavailable {
		candidates = append(candidates, candidate{
			severity:   contextual.Severity,
			confidence: contextual.Confidence,
			tier:       detection.TierContextual,
			indicators: contextual.Indicators,
		})
	}

	for _, c := range candidates {
		indicators = appendIndicators(indicators, c.indicators)
	}

	// Rule 1: a critical tier wins outright.
	for _, c := range candidates {
		if c.severity == detection.SeverityCritical {
			return &detection.Result{
				Severity:   detection.SeverityCritical,
				Confidence: c.confidence,
				Tier:       c.tier,
				Indicators: indicators,
				Partial:    partial,
				Elapsed:    elapsed,
			}
		}
	}

	winner := candidate{severity: detection.SeverityNone, tier: detection.TierLexical}
	found := false
	for _, c := range candidates {
		if !found || better(c, winner) {
			winner = c
			found = true
		}
	}

	// No-erasure: a direct lexical high is a floor the later tiers can
	// raise but never remove.
	if lexical != nil && lexical.Severity >= detection.SeverityHigh && winner.severity < lexical.Severity {
		winner = candidate{
			severity:   lexical.Severity,
			confidence: lexical.Confidence,
			tier:       lexical.Tier,
		}
	}

	return &detection.Result{
		Severity:   winner.severity,
		Confidence: winner.confidence,
		Tier:       winner.tier,
		Indicators: indicators,
		Partial:    partial,
		Elapsed:    elapsed,
	}
}

func better(a, b candidate) bool {
	if a.severity != b.severity {
		return a.severity > b.severity
	}
	if a.confidence != b.confidence {
		return a.confidence > b.confidence
	}
	return a.tier > b.tier
}

func appendIndicators(dst, src []string) []string {
	for _, s := range src {
		if len(dst) >= maxIndicators {
			return dst
		}
		if s == "" || contains(dst, s) {
			continue
		}
		dst = append(dst, s)
	}
	return dst
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
