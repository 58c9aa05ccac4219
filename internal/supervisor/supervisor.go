// Package supervisor orchestrates one classification turn: the inline
// lexical tier, the concurrent model tiers under the overall deadline,
// aggregation, session state transitions, dispatch, and the audit and
// telemetry fan-out. Turns for the same session run serialized; turns
// for different sessions run independently.
package supervisor

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/joebwd/mental-wellness-prompts/internal/aggregate"
	"github.com/joebwd/mental-wellness-prompts/internal/audit"
	"github.com/joebwd/mental-wellness-prompts/internal/cache"
	"github.com/joebwd/mental-wellness-prompts/internal/classifier"
	"github.com/joebwd/mental-wellness-prompts/internal/detection"
	"github.com/joebwd/mental-wellness-prompts/internal/dispatch"
	"github.com/joebwd/mental-wellness-prompts/internal/redact"
	"github.com/joebwd/mental-wellness-prompts/internal/session"
	"github.com/joebwd/mental-wellness-prompts/internal/telemetry"
)

const defaultOverallDeadline = 500 * time.Millisecond

var (
	ErrEmptySession = errors.New("session id is empty")
	ErrEmptyText    = errors.New("text is empty")
)

// Config wires the supervisor's collaborators. Lexical, Store, and
// Dispatcher are required; the rest degrade gracefully when nil.
type Config struct {
	Lexical     classifier.Classifier
	Statistical classifier.Classifier
	Contextual  classifier.Classifier

	Store      *session.Store
	Dispatcher *dispatch.Dispatcher
	Cache      *cache.Cache
	Audit      *audit.Emitter
	Telemetry  *telemetry.Provider

	OverallDeadline time.Duration
	HistoryTurns    int
	DefaultLanguage string
	DefaultRegion   string
}

// Request is one utterance to classify.
type Request struct {
	SessionID string
	Text      string
	Language  string
	Region    string
	History   []string
}

// Response pairs the aggregated detection with the dispatched action.
type Response struct {
	Result  *detection.Result
	Outcome dispatch.Outcome
}

// Supervisor runs the detection pipeline.
type Supervisor struct {
	lexical     classifier.Classifier
	statistical classifier.Classifier
	contextual  classifier.Classifier

	store      *session.Store
	dispatcher *dispatch.Dispatcher
	cache      *cache.Cache
	audit      *audit.Emitter
	telemetry  *telemetry.Provider

	deadline        time.Duration
	historyTurns    int
	defaultLanguage string
	defaultRegion   string
}

// New builds a supervisor from the config, filling defaults.
func New(cfg Config) *Supervisor {
	deadline := cfg.OverallDeadline
	if deadline <= 0 {
		deadline = defaultOverallDeadline
	}
	historyTurns := cfg.HistoryTurns
	if historyTurns <= 0 {
		historyTurns = 4
	}
	lang := cfg.DefaultLanguage
	if lang == "" {
		lang = "en"
	}
	region := cfg.DefaultRegion
	if region == "" {
		region = "US"
	}
	lex := cfg.Lexical
	if lex == nil {
		lex = classifier.NewLexical(nil)
	}
	store := cfg.Store
	if store == nil {
		store = session.NewStore(session.Config{})
	}
	disp := cfg.Dispatcher
	if disp == nil {
		disp = dispatch.New(nil)
	}
	return &Supervisor{
		lexical:         lex,
		statistical:     cfg.Statistical,
		contextual:      cfg.Contextual,
		store:           store,
		dispatcher:      disp,
		cache:           cfg.Cache,
		audit:           cfg.Audit,
		telemetry:       cfg.Telemetry,
		deadline:        deadline,
		historyTurns:    historyTurns,
		defaultLanguage: lang,
		defaultRegion:   region,
	}
}

// OnSessionStart resets the session's crisis state.
func (s *Supervisor) OnSessionStart(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return ErrEmptySession
	}
	s.store.Start(sessionID)
	return nil
}

// OnSessionEnd drops the session's crisis state.
func (s *Supervisor) OnSessionEnd(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return ErrEmptySession
	}
	s.store.End(sessionID)
	return nil
}

// Classify runs the full pipeline for one utterance.
func (s *Supervisor) Classify(ctx context.Context, req Request) (*Response, error) {
	if strings.TrimSpace(req.SessionID) == "" {
		return nil, ErrEmptySession
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, ErrEmptyText
	}
	language := req.Language
	if language == "" {
		language = s.defaultLanguage
	}
	region := req.Region
	if region == "" {
		region = s.defaultRegion
	}
	history := lastTurns(req.History, s.historyTurns)

	start := time.Now()
	sess := s.store.Acquire(req.SessionID)
	defer sess.Release()

	if st := sess.State(); st.Corrupted {
		redact.Logf("supervisor: session=%s state reset after corruption", redact.SessionHash(req.SessionID))
	}

	// An open circuit bypasses classification entirely.
	if sess.Suppressed() {
		outcome := s.dispatcher.Suppressed(sess, region, language)
		result := &detection.Result{
			Severity: detection.SeverityNone,
			Tier:     detection.TierLexical,
			Elapsed:  time.Since(start),
		}
		s.observe(req, language, region, result, outcome, nil, nil, nil)
		return &Response{Result: result, Outcome: outcome}, nil
	}

	utt := detection.Utterance{
		Text:      req.Text,
		Language:  language,
		SessionID: req.SessionID,
		Timestamp: start,
	}

	// Cache applies only in steady state: mode or circuit deviations
	// change how identical text must be handled.
	st := sess.State()
	cacheable := s.cache != nil && st.Mode == session.ModeNormal && st.Circuit == session.CircuitClosed
	var key string
	if cacheable {
		key = cache.Key(req.Text, history)
		if hit, ok := s.cache.Get(key); ok {
			hit.Elapsed = time.Since(start)
			outcome := s.dispatcher.Dispatch(hit, sess, region, language)
			s.observe(req, language, region, hit, outcome, nil, nil, nil)
			return &Response{Result: hit, Outcome: outcome}, nil
		}
	}

	lexRes := s.lexical.Classify(ctx, utt, history)

	var statRes, ctxRes *detection.TierResult
	partial := false
	if lexRes.Severity == detection.SeverityCritical {
		// Direct critical signal short-circuits the model tiers.
	} else if s.statistical != nil || s.contextual != nil {
		statRes, ctxRes, partial = s.runModelTiers(ctx, utt, history)
	}

	result := aggregate.Merge(lexRes, statRes, ctxRes, partial, time.Since(start))
	if cacheable {
		s.cache.Put(key, result)
	}

	outcome := s.dispatcher.Dispatch(result, sess, region, language)
	s.observe(req, language, region, result, outcome, lexRes, statRes, ctxRes)
	return &Response{Result: result, Outcome: outcome}, nil
}

// runModelTiers runs tiers 1 and 2 concurrently under the overall
// deadline. A tier that misses the deadline is dropped; its goroutine
// finishes against the cancelled context and the late result is
// discarded.
func (s *Supervisor) runModelTiers(ctx context.Context, utt detection.Utterance, history []string) (statRes, ctxRes *detection.TierResult, partial bool) {
	deadlineCtx, cancel := context.WithTimeout(ctx, s.deadline)
	defer cancel()

	statCh := make(chan *detection.TierResult, 1)
	ctxCh := make(chan *detection.TierResult, 1)

	pending := 0
	if s.statistical != nil {
		pending++
		go func() { statCh <- s.statistical.Classify(deadlineCtx, utt, history) }()
	} else {
		statCh = nil
	}
	if s.contextual != nil {
		pending++
		go func() { ctxCh <- s.contextual.Classify(deadlineCtx, utt, history) }()
	} else {
		ctxCh = nil
	}

	for pending > 0 {
		select {
		case r := <-statCh:
			statRes = r
			statCh = nil
			pending--
		case r := <-ctxCh:
			ctxRes = r
			ctxCh = nil
			pending--
		case <-deadlineCtx.Done():
			partial = true
			return statRes, ctxRes, partial
		}
	}
	return statRes, ctxRes, partial
}

// observe emits telemetry and the audit event for one turn.
func (s *Supervisor) observe(req Request, language, region string, result *detection.Result, outcome dispatch.Outcome, tiers ...*detection.TierResult) {
	durMs := float64(result.Elapsed) / float64(time.Millisecond)

	if s.telemetry != nil {
		for _, tr := range tiers {
			if tr == nil {
				continue
			}
			s.telemetry.RecordTier(tr.Tier, tr.Unavailable, float64(tr.Elapsed)/float64(time.Millisecond))
		}
		s.telemetry.RecordClassification(outcome.Decision.String(), result.Severity.String(), result.Tier, result.Partial, result.CacheHit, durMs)
		if result.Severity >= detection.SeverityHigh {
			s.telemetry.RecordEscalation(result.Severity.String(), outcome.Tripped)
		}
	}

	if s.audit != nil {
		ev := audit.NewEvent(s.audit.Level(), req.SessionID, req.Text)
		ev.Severity = result.Severity.String()
		ev.Confidence = result.Confidence
		ev.Tier = result.Tier
		ev.Decision = outcome.Decision.String()
		ev.Indicators = result.Indicators
		ev.Partial = result.Partial
		ev.CacheHit = result.CacheHit
		ev.CircuitState = outcome.State.Circuit.String()
		ev.Mode = outcome.State.Mode.String()
		ev.Language = language
		ev.Region = region
		ev.LatencyMs = durMs
		s.audit.Emit(context.Background(), ev)
	}
}

func lastTurns(history []string, n int) []string {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}
