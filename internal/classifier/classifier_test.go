package classifier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/joebwd/mental-wellness-prompts/internal/detection"
	"github.com/joebwd/mental-wellness-prompts/internal/provider"
)

func utterance(text string) detection.Utterance {
	return detection.Utterance{SessionID: "s1", Text: text, Language: "en"}
}

func TestLexicalClassifier(t *testing.T) {
	c := NewLexical(nil)
	if c.Tier() != detection.TierLexical {
		t.Fatalf("wrong tier: %d", c.Tier())
	}
	res := c.Classify(context.Background(), utterance("I want to die"), nil)
	if res.Severity != detection.SeverityCritical {
		t.Fatalf("expected critical, got %v", res.Severity)
	}
}

func TestStatisticalClassifier(t *testing.T) {
	c := NewStatistical(provider.NewFake("moderate", 0.7), 200*time.Millisecond)
	res := c.Classify(context.Background(), utterance("everything is heavy lately"), nil)
	if res.Unavailable {
		t.Fatalf("healthy provider should not be unavailable")
	}
	if res.Severity != detection.SeverityModerate || res.Confidence != 0.7 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Tier != detection.TierStatistical {
		t.Fatalf("wrong tier attribution: %d", res.Tier)
	}
}

func TestStatisticalTimeoutDegrades(t *testing.T) {
	slow := &provider.FakeProvider{
		Result: &provider.Classification{Severity: "critical", Confidence: 0.9},
		Delay:  200 * time.Millisecond,
	}
	c := NewStatistical(slow, 20*time.Millisecond)

	start := time.Now()
	res := c.Classify(context.Background(), utterance("hello"), nil)
	if !res.Unavailable {
		t.Fatalf("timeout must degrade to unavailable, got %+v", res)
	}
	if res.Severity != detection.SeverityNone {
		t.Fatalf("unavailable tier must carry no severity, got %v", res.Severity)
	}
	if elapsed := time.Since(start); elapsed > 150*time.Millisecond {
		t.Fatalf("budget not enforced, took %v", elapsed)
	}
}

func TestStatisticalProviderErrorDegrades(t *testing.T) {
	c := NewStatistical(&provider.FakeProvider{Err: errors.New("backend down")}, 0)
	res := c.Classify(context.Background(), utterance("hello"), nil)
	if !res.Unavailable {
		t.Fatalf("provider error must degrade to unavailable")
	}
}

func TestStatisticalNilProvider(t *testing.T) {
	c := NewStatistical(nil, 0)
	res := c.Classify(context.Background(), utterance("hello"), nil)
	if !res.Unavailable {
		t.Fatalf("missing provider must report unavailable")
	}
}

func TestContextualIdiomSuppression(t *testing.T) {
	c := NewContextual(provider.NewFake("high", 0.8), nil, 0, 0)
	res := c.Classify(context.Background(), utterance("This deadline is killing me"), nil)
	if res.Adjustment != -int(detection.SeverityCritical) {
		t.Fatalf("expected full downward adjustment, got %d", res.Adjustment)
	}
	if len(res.Indicators) != 1 || res.Indicators[0] != "idiomatic_use" {
		t.Fatalf("expected idiomatic_use indicator, got %v", res.Indicators)
	}
	if res.Unavailable {
		t.Fatalf("suppression is a definite answer, not a degraded one")
	}
}

func TestContextualHistoryCorroboration(t *testing.T) {
	history := []string{
		"I feel hopeless",
		"nothing matters",
		"I can't cope anymore",
	}
	c := NewContextual(provider.NewFake("moderate", 0.6), nil, 0, 4)
	res := c.Classify(context.Background(), utterance("today was hard again"), history)
	if res.Adjustment != 1 {
		t.Fatalf("expected upgrade adjustment, got %d", res.Adjustment)
	}
	found := false
	for _, ind := range res.Indicators {
		if ind == "history_corroboration" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected history_corroboration indicator, got %v", res.Indicators)
	}
}

func TestContextualCorroborationSurvivesProviderFailure(t *testing.T) {
	history := []string{
		"I feel hopeless",
		"I can't cope anymore",
	}
	c := NewContextual(&provider.FakeProvider{Err: errors.New("backend down")}, nil, 0, 4)
	res := c.Classify(context.Background(), utterance("today was hard again"), history)
	if res.Unavailable {
		t.Fatalf("corroborated history must survive a provider failure")
	}
	if res.Adjustment != 1 {
		t.Fatalf("expected upgrade adjustment, got %d", res.Adjustment)
	}
	if res.Confidence != 0.5 {
		t.Fatalf("expected floor confidence, got %v", res.Confidence)
	}
}

func TestContextualNoProviderNoCorroboration(t *testing.T) {
	c := NewContextual(nil, nil, 0, 4)
	res := c.Classify(context.Background(), utterance("today was fine"), []string{"great day"})
	if !res.Unavailable {
		t.Fatalf("no provider and no history evidence means unavailable")
	}
}

func TestContextualHistoryWindow(t *testing.T) {
	// Distress turns outside the window must not corroborate.
	history := []string{
		"I feel hopeless",
		"I can't cope anymore",
		"fine", "fine", "fine", "fine",
	}
	c := NewContextual(provider.NewFake("moderate", 0.6), nil, 0, 4)
	res := c.Classify(context.Background(), utterance("today was hard again"), history)
	if res.Adjustment != 0 {
		t.Fatalf("turns past the window must not corroborate, got %d", res.Adjustment)
	}
}
