package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should return defaults: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("expected default addr, got %q", cfg.Server.Addr)
	}
	if cfg.Pipeline.OverallDeadline() != 500*time.Millisecond {
		t.Fatalf("expected 500ms deadline, got %v", cfg.Pipeline.OverallDeadline())
	}
	if cfg.Pipeline.Tier1Budget() != 200*time.Millisecond || cfg.Pipeline.Tier2Budget() != 400*time.Millisecond {
		t.Fatalf("unexpected tier budgets: %v/%v", cfg.Pipeline.Tier1Budget(), cfg.Pipeline.Tier2Budget())
	}
	if cfg.Circuit.TripThreshold != 3 || cfg.Circuit.TripWindow() != 10*time.Minute {
		t.Fatalf("unexpected circuit defaults: %+v", cfg.Circuit)
	}
	if cfg.Circuit.Recovery() != 15*time.Minute || cfg.Circuit.PostCrisisHold() != 10*time.Minute {
		t.Fatalf("unexpected circuit timings: %+v", cfg.Circuit)
	}
	if cfg.Audit.Level != "redacted" {
		t.Fatalf("expected redacted audit level, got %q", cfg.Audit.Level)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crisisd.yaml")
	content := `server:
  addr: ":9090"
pipeline:
  overall_deadline_ms: 800
  tier1_budget_ms: 250
  default_language: es
  default_region: MX
cache:
  enabled: true
  ttl_seconds: 60
providers:
  statistical:
    type: http
    base_url: http://127.0.0.1:18080
    timeout_ms: 150
  contextual:
    type: fake
    severity: none
audit:
  level: full
  sinks:
    - type: file_jsonl
      path: /tmp/audit.jsonl
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Fatalf("addr not loaded: %q", cfg.Server.Addr)
	}
	if cfg.Pipeline.OverallDeadlineMs != 800 || cfg.Pipeline.Tier1BudgetMs != 250 {
		t.Fatalf("pipeline not loaded: %+v", cfg.Pipeline)
	}
	// Unset fields still pick up defaults.
	if cfg.Pipeline.Tier2BudgetMs != 400 || cfg.Pipeline.HistoryTurns != 4 {
		t.Fatalf("defaults not applied: %+v", cfg.Pipeline)
	}
	if cfg.Pipeline.DefaultLanguage != "es" || cfg.Pipeline.DefaultRegion != "MX" {
		t.Fatalf("locale not loaded: %+v", cfg.Pipeline)
	}
	if !cfg.Cache.Enabled || cfg.Cache.TTL() != time.Minute {
		t.Fatalf("cache not loaded: %+v", cfg.Cache)
	}
	p := cfg.Providers[SlotStatistical]
	if p.Type != "http" || p.BaseURL != "http://127.0.0.1:18080" || p.Timeout() != 150*time.Millisecond {
		t.Fatalf("provider not loaded: %+v", p)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("server: [not: a: map"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = " " }},
		{"tier1 over deadline", func(c *Config) { c.Pipeline.Tier1BudgetMs = 900 }},
		{"tier2 over deadline", func(c *Config) { c.Pipeline.Tier2BudgetMs = 900 }},
		{"bad provider slot", func(c *Config) {
			c.Providers["tertiary"] = ProviderConfig{Type: "fake"}
		}},
		{"http provider without url", func(c *Config) {
			c.Providers[SlotStatistical] = ProviderConfig{Type: "http"}
		}},
		{"http provider bad scheme", func(c *Config) {
			c.Providers[SlotStatistical] = ProviderConfig{Type: "http", BaseURL: "ftp://x"}
		}},
		{"onnx provider without model", func(c *Config) {
			c.Providers[SlotStatistical] = ProviderConfig{Type: "onnx", VocabPath: "v.txt"}
		}},
		{"unknown provider type", func(c *Config) {
			c.Providers[SlotStatistical] = ProviderConfig{Type: "magic"}
		}},
		{"bad audit level", func(c *Config) { c.Audit.Level = "verbose" }},
		{"file sink without path", func(c *Config) {
			c.Audit.Sinks = []SinkConfig{{Type: "file_jsonl"}}
		}},
		{"webhook sink bad url", func(c *Config) {
			c.Audit.Sinks = []SinkConfig{{Type: "webhook", URL: "not a url"}}
		}},
		{"telemetry without endpoint", func(c *Config) {
			c.Telemetry = TelemetryConfig{Enabled: true}
		}},
		{"telemetry bad protocol", func(c *Config) {
			c.Telemetry = TelemetryConfig{Enabled: true, Endpoint: "localhost:4317", Protocol: "udp"}
		}},
	}

	for _, tc := range cases {
		cfg := defaultConfig()
		tc.mutate(cfg)
		if err := Validate(cfg); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}
