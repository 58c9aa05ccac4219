package classifier

import (
	"context"

	"github.com/joebwd/mental-wellness-prompts/internal/detection"
	"github.com/joebwd/mental-wellness-prompts/internal/lexical"
)

// LexicalClassifier is tier 0: synchronous pattern matching, no model
// calls, sub-millisecond.
type LexicalClassifier struct {
	table *lexical.Table
}

func NewLexical(table *lexical.Table) *LexicalClassifier {
	if table == nil {
		table = lexical.NewTable()
	}
	return &LexicalClassifier{table: table}
}

func (c *LexicalClassifier) Tier() int { return detection.TierLexical }

func (c *LexicalClassifier) Classify(_ context.Context, utt detection.Utterance, _ []string) *detection.TierResult {
	return c.table.Classify(utt.Text, utt.Language)
}
