package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joebwd/mental-wellness-prompts/internal/audit"
	"github.com/joebwd/mental-wellness-prompts/internal/cache"
	"github.com/joebwd/mental-wellness-prompts/internal/classifier"
	"github.com/joebwd/mental-wellness-prompts/internal/config"
	"github.com/joebwd/mental-wellness-prompts/internal/dispatch"
	"github.com/joebwd/mental-wellness-prompts/internal/lexical"
	"github.com/joebwd/mental-wellness-prompts/internal/provider"
	"github.com/joebwd/mental-wellness-prompts/internal/redact"
	"github.com/joebwd/mental-wellness-prompts/internal/resources"
	"github.com/joebwd/mental-wellness-prompts/internal/screener"
	"github.com/joebwd/mental-wellness-prompts/internal/server"
	"github.com/joebwd/mental-wellness-prompts/internal/session"
	"github.com/joebwd/mental-wellness-prompts/internal/supervisor"
	"github.com/joebwd/mental-wellness-prompts/internal/telemetry"
)

func main() {
	addrFlag := flag.String("addr", "", "HTTP listen address (overrides config)")
	configPath := flag.String("config", "crisisd.yaml", "Path to crisisd config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		redact.Fatalf("failed to load config: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		redact.Fatalf("invalid config: %v", err)
	}

	addr := cfg.Server.Addr
	if *addrFlag != "" {
		addr = *addrFlag
	}

	table, err := lexical.LoadTable(cfg.Patterns)
	if err != nil {
		redact.Fatalf("failed to load patterns: %v", err)
	}
	resolver, err := resources.LoadResolver(cfg.Resources)
	if err != nil {
		redact.Fatalf("failed to load resources: %v", err)
	}

	statProvider, err := buildProvider(cfg.Providers[config.SlotStatistical])
	if err != nil {
		redact.Fatalf("failed to build statistical provider: %v", err)
	}
	ctxProvider, err := buildProvider(cfg.Providers[config.SlotContextual])
	if err != nil {
		redact.Fatalf("failed to build contextual provider: %v", err)
	}

	var statistical, contextual classifier.Classifier
	if statProvider != nil {
		statistical = classifier.NewStatistical(statProvider, cfg.Pipeline.Tier1Budget())
	} else {
		redact.Logf("no statistical provider configured; tier 1 disabled")
	}
	if ctxProvider != nil || statProvider != nil {
		contextual = classifier.NewContextual(ctxProvider, table, cfg.Pipeline.Tier2Budget(), cfg.Pipeline.HistoryTurns)
	}

	level, ok := audit.ParseLevel(cfg.Audit.Level)
	if !ok {
		redact.Logf("unknown audit level %q; using redacted", cfg.Audit.Level)
	}
	sinks, err := buildSinks(cfg.Audit.Sinks)
	if err != nil {
		redact.Fatalf("failed to build audit sinks: %v", err)
	}
	emitter := audit.NewEmitter(audit.EmitterConfig{
		QueueSize: cfg.Audit.QueueSize,
		Workers:   cfg.Audit.Workers,
		Level:     level,
	}, sinks)

	tel, err := telemetry.NewProvider(context.Background(), telemetry.Config{
		Enabled:  cfg.Telemetry.Enabled,
		Endpoint: cfg.Telemetry.Endpoint,
		Protocol: cfg.Telemetry.Protocol,
		Service:  "crisisd",
		Version:  os.Getenv("CRISISD_VERSION"),
	})
	if err != nil {
		redact.Fatalf("failed to init telemetry: %v", err)
	}

	var resultCache *cache.Cache
	if cfg.Cache.Enabled {
		resultCache = cache.New(cfg.Cache.TTL())
	}

	sup := supervisor.New(supervisor.Config{
		Lexical:     classifier.NewLexical(table),
		Statistical: statistical,
		Contextual:  contextual,
		Store: session.NewStore(session.Config{
			TripThreshold:  cfg.Circuit.TripThreshold,
			TripWindow:     cfg.Circuit.TripWindow(),
			Recovery:       cfg.Circuit.Recovery(),
			PostCrisisHold: cfg.Circuit.PostCrisisHold(),
		}),
		Dispatcher:      dispatch.New(resolver),
		Cache:           resultCache,
		Audit:           emitter,
		Telemetry:       tel,
		OverallDeadline: cfg.Pipeline.OverallDeadline(),
		HistoryTurns:    cfg.Pipeline.HistoryTurns,
		DefaultLanguage: cfg.Pipeline.DefaultLanguage,
		DefaultRegion:   cfg.Pipeline.DefaultRegion,
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           server.New(sup).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		redact.Logf("crisisd listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			redact.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	redact.Logf("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	emitter.Close(ctx)
	tel.Shutdown(ctx)
}

// buildProvider constructs a model backend from one provider slot.
// An empty slot returns nil; the tier runs degraded.
func buildProvider(pc config.ProviderConfig) (provider.Provider, error) {
	switch pc.Type {
	case "":
		return nil, nil
	case "http":
		apiKey := ""
		if pc.APIKeyEnv != "" {
			apiKey = os.Getenv(pc.APIKeyEnv)
		}
		return provider.NewHTTP(pc.BaseURL, apiKey, pc.Timeout(), 0), nil
	case "onnx":
		s, err := screener.New(screener.Config{
			ModelPath: pc.ModelPath,
			VocabPath: pc.VocabPath,
			LabelPath: pc.LabelPath,
		})
		if err != nil {
			return nil, err
		}
		if err := s.Warmup(); err != nil {
			redact.Logf("screener warmup failed: %v", err)
		}
		return s, nil
	case "fake":
		return provider.NewFake(pc.Severity, pc.Confidence), nil
	default:
		return nil, nil
	}
}

func buildSinks(cfgs []config.SinkConfig) ([]audit.Sink, error) {
	sinks := make([]audit.Sink, 0, len(cfgs))
	for _, sc := range cfgs {
		switch sc.Type {
		case "file_jsonl":
			s, err := audit.NewFileSink(sc.Path)
			if err != nil {
				return nil, err
			}
			sinks = append(sinks, s)
		case "webhook":
			s, err := audit.NewWebhookSink(sc.URL, sc.Headers, 0)
			if err != nil {
				return nil, err
			}
			sinks = append(sinks, s)
		}
	}
	return sinks, nil
}
