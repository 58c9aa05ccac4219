package classifier

import (
	"context"
	"time"

	"github.com/joebwd/mental-wellness-prompts/internal/detection"
	"github.com/joebwd/mental-wellness-prompts/internal/lexical"
	"github.com/joebwd/mental-wellness-prompts/internal/provider"
)

const (
	defaultContextualBudget = 400 * time.Millisecond
	defaultHistoryTurns     = 4

	// corroborationTurns is how many prior turns must independently carry
	// distress signals before the tier upgrades an ambiguous finding.
	corroborationTurns = 2
)

// ContextualClassifier is tier 2: it disambiguates using surrounding
// conversation turns. Its result carries a severity adjustment applied
// on top of tier 1: it can suppress an idiomatic false positive or
// upgrade when history corroborates risk, but the aggregator never lets
// it erase a direct lexical signal.
type ContextualClassifier struct {
	provider     provider.Provider
	table        *lexical.Table
	budget       time.Duration
	historyTurns int
}

func NewContextual(p provider.Provider, table *lexical.Table, budget time.Duration, historyTurns int) *ContextualClassifier {
	if table == nil {
		table = lexical.NewTable()
	}
	if budget <= 0 {
		budget = defaultContextualBudget
	}
	if historyTurns <= 0 {
		historyTurns = defaultHistoryTurns
	}
	return &ContextualClassifier{
		provider:     p,
		table:        table,
		budget:       budget,
		historyTurns: historyTurns,
	}
}

func (c *ContextualClassifier) Tier() int { return detection.TierContextual }

func (c *ContextualClassifier) Classify(ctx context.Context, utt detection.Utterance, history []string) *detection.TierResult {
	start := time.Now()
	turns := lastTurns(history, c.historyTurns)

	// Idiom suppression is decided locally: the false-positive table is
	// authoritative and does not spend the model budget.
	if local := c.table.Classify(utt.Text, utt.Language); isFalsePositive(local) {
		return &detection.TierResult{
			Tier:       detection.TierContextual,
			Severity:   detection.SeverityNone,
			Confidence: 0.9,
			Indicators: []string{"idiomatic_use"},
			Adjustment: -int(detection.SeverityCritical),
			Elapsed:    time.Since(start),
		}
	}

	corroborated := c.historyCorroborates(turns, utt.Language)

	var (
		severity   detection.Severity
		confidence float64
		indicators []string
	)
	if c.provider != nil {
		tierCtx, cancel := context.WithTimeout(ctx, c.budget)
		cls, err := c.provider.ClassifyText(tierCtx, utt.Text, turns)
		cancel()
		if err != nil {
			logTierError(detection.TierContextual, utt.SessionID, err)
			res := unavailableResult(detection.TierContextual)
			if corroborated {
				// History evidence survives a model failure; the upgrade
				// hint still flows to the aggregator.
				res.Adjustment = 1
				res.Unavailable = false
				res.Indicators = []string{"history_corroboration"}
				res.Confidence = 0.5
			}
			res.Elapsed = time.Since(start)
			return res
		}
		severity, _ = detection.ParseSeverity(cls.Severity)
		confidence = cls.Confidence
		indicators = cls.Indicators
	} else if !corroborated {
		return unavailableResult(detection.TierContextual)
	}

	adjustment := 0
	if corroborated {
		adjustment = 1
		indicators = append(indicators, "history_corroboration")
		if confidence < 0.5 {
			confidence = 0.5
		}
	}

	return &detection.TierResult{
		Tier:       detection.TierContextual,
		Severity:   severity,
		Confidence: confidence,
		Indicators: indicators,
		Adjustment: adjustment,
		Elapsed:    time.Since(start),
	}
}

// historyCorroborates scans prior turns for independent distress signals.
func (c *ContextualClassifier) historyCorroborates(turns []string, language string) bool {
	hits := 0
	for _, turn := range turns {
		res := c.table.Classify(turn, language)
		if isFalsePositive(res) {
			continue
		}
		if res.Severity >= detection.SeverityModerate {
			hits++
		}
	}
	return hits >= corroborationTurns
}

func isFalsePositive(res *detection.TierResult) bool {
	for _, ind := range res.Indicators {
		if ind == "false_positive" {
			return true
		}
	}
	return false
}

func lastTurns(history []string, n int) []string {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}
