package provider

import (
	"context"
	"time"
)

// FakeProvider returns a scripted classification, optionally after a
// delay, for tests and local development.
type FakeProvider struct {
	Result *Classification
	Err    error
	Delay  time.Duration
}

func (f *FakeProvider) ClassifyText(ctx context.Context, text string, history []string) (*Classification, error) {
	if f.Delay > 0 {
		select {
		case <-time.After(f.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.Err != nil {
		return nil, f.Err
	}
	if f.Result == nil {
		return &Classification{Severity: "none"}, nil
	}
	out := *f.Result
	return &out, nil
}

// NewFake builds a provider that always reports the given severity.
func NewFake(severity string, confidence float64) *FakeProvider {
	return &FakeProvider{
		Result: &Classification{Severity: severity, Confidence: confidence},
	}
}
