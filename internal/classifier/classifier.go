// Package classifier implements the tiered Classifier capability: one
// lexical tier that runs inline and two model-backed tiers with
// independent budgets. A tier never propagates an error into the
// pipeline; timeouts and provider failures degrade to an unavailable
// result so a decision always reaches the dispatcher.
package classifier

import (
	"context"
	"errors"

	"github.com/joebwd/mental-wellness-prompts/internal/detection"
)

// ErrTierTimeout marks a tier that exceeded its budget. It is recovered
// locally and surfaces only in logs.
var ErrTierTimeout = errors.New("tier timed out")

// ErrTierFailure marks a provider error. Same local recovery as timeout.
var ErrTierFailure = errors.New("tier provider failed")

// Classifier is one stage of the detection pipeline.
type Classifier interface {
	Tier() int
	Classify(ctx context.Context, utt detection.Utterance, history []string) *detection.TierResult
}

// unavailableResult is the degraded output for a failed or timed-out tier.
func unavailableResult(tier int) *detection.TierResult {
	return &detection.TierResult{
		Tier:        tier,
		Severity:    detection.SeverityNone,
		Confidence:  0,
		Unavailable: true,
	}
}
