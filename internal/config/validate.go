package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate checks the loaded config for required fields and safe values.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return errors.New("server.addr must be set")
	}

	if cfg.Pipeline.Tier1BudgetMs > cfg.Pipeline.OverallDeadlineMs {
		return fmt.Errorf("pipeline.tier1_budget_ms (%d) exceeds overall deadline (%d)",
			cfg.Pipeline.Tier1BudgetMs, cfg.Pipeline.OverallDeadlineMs)
	}
	if cfg.Pipeline.Tier2BudgetMs > cfg.Pipeline.OverallDeadlineMs {
		return fmt.Errorf("pipeline.tier2_budget_ms (%d) exceeds overall deadline (%d)",
			cfg.Pipeline.Tier2BudgetMs, cfg.Pipeline.OverallDeadlineMs)
	}

	for slot, p := range cfg.Providers {
		if slot != SlotStatistical && slot != SlotContextual {
			return fmt.Errorf("providers key must be %q or %q, got %q", SlotStatistical, SlotContextual, slot)
		}
		if err := validateProviderConfig(slot, p); err != nil {
			return err
		}
	}

	if err := validateAuditConfig(cfg.Audit); err != nil {
		return err
	}

	if err := validateTelemetryConfig(cfg.Telemetry); err != nil {
		return err
	}

	return nil
}

func validateProviderConfig(slot string, p ProviderConfig) error {
	switch strings.ToLower(strings.TrimSpace(p.Type)) {
	case "http":
		if strings.TrimSpace(p.BaseURL) == "" {
			return fmt.Errorf("provider %q missing base_url", slot)
		}
		u, err := url.Parse(p.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("provider %q has invalid base_url", slot)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("provider %q base_url must be http or https", slot)
		}
	case "onnx":
		if strings.TrimSpace(p.ModelPath) == "" {
			return fmt.Errorf("provider %q missing model_path", slot)
		}
		if strings.TrimSpace(p.VocabPath) == "" {
			return fmt.Errorf("provider %q missing vocab_path", slot)
		}
	case "fake":
	case "":
		return fmt.Errorf("provider %q missing type", slot)
	default:
		return fmt.Errorf("provider %q has unknown type %q", slot, p.Type)
	}
	return nil
}

func validateAuditConfig(a AuditConfig) error {
	switch strings.ToLower(strings.TrimSpace(a.Level)) {
	case "", "metadata", "redacted", "full":
	default:
		return fmt.Errorf("audit.level must be metadata, redacted, or full, got %q", a.Level)
	}
	for i, s := range a.Sinks {
		switch strings.ToLower(strings.TrimSpace(s.Type)) {
		case "file_jsonl":
			if strings.TrimSpace(s.Path) == "" {
				return fmt.Errorf("audit sink %d (file_jsonl) missing path", i)
			}
		case "webhook":
			if strings.TrimSpace(s.URL) == "" {
				return fmt.Errorf("audit sink %d (webhook) missing url", i)
			}
			u, err := url.Parse(s.URL)
			if err != nil || u.Scheme == "" || u.Host == "" {
				return fmt.Errorf("audit sink %d (webhook) has invalid url", i)
			}
			if u.Scheme != "http" && u.Scheme != "https" {
				return fmt.Errorf("audit sink %d (webhook) url must be http or https", i)
			}
		default:
			return fmt.Errorf("audit sink %d has unknown type %q", i, s.Type)
		}
	}
	return nil
}

func validateTelemetryConfig(t TelemetryConfig) error {
	if !t.Enabled {
		return nil
	}
	if strings.TrimSpace(t.Endpoint) == "" {
		return errors.New("telemetry enabled but endpoint is empty")
	}
	if t.Protocol != "" {
		switch strings.ToLower(strings.TrimSpace(t.Protocol)) {
		case "grpc", "http":
		default:
			return fmt.Errorf("telemetry.protocol must be grpc or http, got %q", t.Protocol)
		}
	}
	return nil
}
