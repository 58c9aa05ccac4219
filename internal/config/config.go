// Package config loads the crisisd YAML configuration.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds crisisd configuration.
type Config struct {
	Server    ServerConfig              `yaml:"server"`
	Pipeline  PipelineConfig            `yaml:"pipeline"`
	Circuit   CircuitConfig             `yaml:"circuit"`
	Cache     CacheConfig               `yaml:"cache"`
	Providers map[string]ProviderConfig `yaml:"providers"`
	Patterns  string                    `yaml:"patterns"`  // optional patterns YAML path
	Resources string                    `yaml:"resources"` // optional resource directory YAML path
	Audit     AuditConfig               `yaml:"audit"`
	Telemetry TelemetryConfig           `yaml:"telemetry"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"` // HTTP listen address, e.g. ":8080"
}

// PipelineConfig tunes the detection tiers. Durations are milliseconds.
type PipelineConfig struct {
	OverallDeadlineMs int    `yaml:"overall_deadline_ms"`
	Tier1BudgetMs     int    `yaml:"tier1_budget_ms"`
	Tier2BudgetMs     int    `yaml:"tier2_budget_ms"`
	HistoryTurns      int    `yaml:"history_turns"`
	DefaultLanguage   string `yaml:"default_language"`
	DefaultRegion     string `yaml:"default_region"`
}

func (p PipelineConfig) OverallDeadline() time.Duration {
	return time.Duration(p.OverallDeadlineMs) * time.Millisecond
}
func (p PipelineConfig) Tier1Budget() time.Duration {
	return time.Duration(p.Tier1BudgetMs) * time.Millisecond
}
func (p PipelineConfig) Tier2Budget() time.Duration {
	return time.Duration(p.Tier2BudgetMs) * time.Millisecond
}

// CircuitConfig tunes the escalation breaker. Durations are minutes.
type CircuitConfig struct {
	TripThreshold     int `yaml:"trip_threshold"`
	TripWindowMin     int `yaml:"trip_window_minutes"`
	RecoveryMin       int `yaml:"recovery_minutes"`
	PostCrisisHoldMin int `yaml:"post_crisis_hold_minutes"`
}

func (c CircuitConfig) TripWindow() time.Duration {
	return time.Duration(c.TripWindowMin) * time.Minute
}
func (c CircuitConfig) Recovery() time.Duration {
	return time.Duration(c.RecoveryMin) * time.Minute
}
func (c CircuitConfig) PostCrisisHold() time.Duration {
	return time.Duration(c.PostCrisisHoldMin) * time.Minute
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	TTLSec  int  `yaml:"ttl_seconds"`
}

func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSec) * time.Second
}

// ProviderConfig describes one model backend. Keys in the Providers map
// are the tier slots: "statistical" and "contextual".
type ProviderConfig struct {
	Type      string `yaml:"type"`        // http | onnx | fake
	BaseURL   string `yaml:"base_url"`    // http: classification endpoint base
	APIKeyEnv string `yaml:"api_key_env"` // http: env var holding the key
	TimeoutMs int    `yaml:"timeout_ms"`

	// onnx fields
	ModelPath string `yaml:"model_path"`
	VocabPath string `yaml:"vocab_path"`
	LabelPath string `yaml:"label_path"`

	// fake fields, for local development
	Severity   string  `yaml:"severity"`
	Confidence float64 `yaml:"confidence"`
}

func (p ProviderConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutMs) * time.Millisecond
}

type AuditConfig struct {
	Level     string       `yaml:"level"` // metadata | redacted | full
	QueueSize int          `yaml:"queue_size"`
	Workers   int          `yaml:"workers"`
	Sinks     []SinkConfig `yaml:"sinks"`
}

type SinkConfig struct {
	Type    string            `yaml:"type"` // file_jsonl | webhook
	Path    string            `yaml:"path"`
	URL     string            `yaml:"url"`
	Headers map[string]string `yaml:"headers"`
}

type TelemetryConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
	Protocol string `yaml:"protocol"` // grpc | http
}

// ProviderSlot names for the Providers map.
const (
	SlotStatistical = "statistical"
	SlotContextual  = "contextual"
)

// Load reads configuration from a YAML file.
// If the file doesn't exist, it returns a default config and no error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		// If file doesn't exist, return default config
		if os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

func defaultConfig() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Addr: ":8080",
		},
		Providers: map[string]ProviderConfig{},
	}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}

	if cfg.Pipeline.OverallDeadlineMs <= 0 {
		cfg.Pipeline.OverallDeadlineMs = 500
	}
	if cfg.Pipeline.Tier1BudgetMs <= 0 {
		cfg.Pipeline.Tier1BudgetMs = 200
	}
	if cfg.Pipeline.Tier2BudgetMs <= 0 {
		cfg.Pipeline.Tier2BudgetMs = 400
	}
	if cfg.Pipeline.HistoryTurns <= 0 {
		cfg.Pipeline.HistoryTurns = 4
	}
	if cfg.Pipeline.DefaultLanguage == "" {
		cfg.Pipeline.DefaultLanguage = "en"
	}
	if cfg.Pipeline.DefaultRegion == "" {
		cfg.Pipeline.DefaultRegion = "US"
	}

	if cfg.Circuit.TripThreshold <= 0 {
		cfg.Circuit.TripThreshold = 3
	}
	if cfg.Circuit.TripWindowMin <= 0 {
		cfg.Circuit.TripWindowMin = 10
	}
	if cfg.Circuit.RecoveryMin <= 0 {
		cfg.Circuit.RecoveryMin = 15
	}
	if cfg.Circuit.PostCrisisHoldMin <= 0 {
		cfg.Circuit.PostCrisisHoldMin = 10
	}

	if cfg.Cache.TTLSec <= 0 {
		cfg.Cache.TTLSec = 300
	}

	if cfg.Audit.Level == "" {
		cfg.Audit.Level = "redacted"
	}
	if cfg.Audit.QueueSize <= 0 {
		cfg.Audit.QueueSize = 1000
	}
	if cfg.Audit.Workers <= 0 {
		cfg.Audit.Workers = 1
	}
}
