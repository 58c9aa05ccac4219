package classifier

import (
	"context"
	"errors"
	"time"

	"github.com/joebwd/mental-wellness-prompts/internal/detection"
	"github.com/joebwd/mental-wellness-prompts/internal/provider"
	"github.com/joebwd/mental-wellness-prompts/internal/redact"
)

const defaultStatisticalBudget = 200 * time.Millisecond

// StatisticalClassifier is tier 1: it delegates to an external model for
// paraphrased and indirect expressions the pattern tables miss.
type StatisticalClassifier struct {
	provider provider.Provider
	budget   time.Duration
}

func NewStatistical(p provider.Provider, budget time.Duration) *StatisticalClassifier {
	if budget <= 0 {
		budget = defaultStatisticalBudget
	}
	return &StatisticalClassifier{provider: p, budget: budget}
}

func (c *StatisticalClassifier) Tier() int { return detection.TierStatistical }

func (c *StatisticalClassifier) Classify(ctx context.Context, utt detection.Utterance, history []string) *detection.TierResult {
	start := time.Now()
	if c.provider == nil {
		return unavailableResult(detection.TierStatistical)
	}

	tierCtx, cancel := context.WithTimeout(ctx, c.budget)
	defer cancel()

	cls, err := c.provider.ClassifyText(tierCtx, utt.Text, nil)
	elapsed := time.Since(start)
	if err != nil {
		logTierError(detection.TierStatistical, utt.SessionID, err)
		res := unavailableResult(detection.TierStatistical)
		res.Elapsed = elapsed
		return res
	}

	severity, _ := detection.ParseSeverity(cls.Severity)
	return &detection.TierResult{
		Tier:       detection.TierStatistical,
		Severity:   severity,
		Confidence: cls.Confidence,
		Indicators: cls.Indicators,
		Elapsed:    elapsed,
	}
}

func logTierError(tier int, sessionID string, err error) {
	kind := ErrTierFailure
	if errors.Is(err, context.DeadlineExceeded) {
		kind = ErrTierTimeout
	}
	redact.Logf("classifier: tier %d session=%s %v: %v", tier, redact.SessionHash(sessionID), kind, err)
}
