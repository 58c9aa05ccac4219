// Package provider defines the contract the pipeline holds against any
// external classification model. The core depends on nothing beyond this
// interface; concrete providers (HTTP, local ONNX, fakes) plug in behind it.
package provider

import "context"

// Classification is the normalized model output for one text.
type Classification struct {
	Severity   string   `json:"severity"`
	Confidence float64  `json:"confidence"`
	Indicators []string `json:"indicators,omitempty"`
	Reasoning  string   `json:"reasoning,omitempty"`
}

// Provider classifies text with optional surrounding conversation turns.
// Implementations must respect ctx cancellation; the caller imposes the
// timeout.
type Provider interface {
	ClassifyText(ctx context.Context, text string, history []string) (*Classification, error)
}
