// Package session tracks per-session crisis state: the conversation
// mode, the monotonic escalation count, and a circuit breaker that
// suppresses repeated escalations inside a short window.
package session

import (
	"sync"
	"time"
)

// Mode is the conversation mode after recent escalations.
type Mode int8

const (
	ModeNormal Mode = iota
	ModePostCrisis
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModePostCrisis:
		return "post_crisis"
	default:
		return "unknown"
	}
}

// CircuitState is the escalation circuit breaker state.
type CircuitState int8

const (
	CircuitClosed CircuitState = iota
	CircuitOpen
	CircuitHalfOpen
)

func (c CircuitState) String() string {
	switch c {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// Config tunes the breaker and mode transitions.
type Config struct {
	// TripThreshold escalations within TripWindow open the circuit.
	TripThreshold int
	TripWindow    time.Duration

	// Recovery is how long the circuit stays open before probing.
	Recovery time.Duration

	// PostCrisisHold is how long the post-crisis mode outlasts the most
	// recent escalation.
	PostCrisisHold time.Duration
}

// DefaultConfig returns the transition timings used in production.
func DefaultConfig() Config {
	return Config{
		TripThreshold:  3,
		TripWindow:     10 * time.Minute,
		Recovery:       15 * time.Minute,
		PostCrisisHold: 10 * time.Minute,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.TripThreshold <= 0 {
		c.TripThreshold = d.TripThreshold
	}
	if c.TripWindow <= 0 {
		c.TripWindow = d.TripWindow
	}
	if c.Recovery <= 0 {
		c.Recovery = d.Recovery
	}
	if c.PostCrisisHold <= 0 {
		c.PostCrisisHold = d.PostCrisisHold
	}
	return c
}

// State is a snapshot of one session's crisis state.
type State struct {
	SessionID       string
	Mode            Mode
	Circuit         CircuitState
	EscalationCount int
	FirstEscalation time.Time
	LastEscalation  time.Time
	TrippedAt       time.Time
	Corrupted       bool // state failed validation and was reset this turn
}

// Store owns the session table. All access goes through Acquire, which
// hands out a session handle holding that session's lock so the caller
// can run an entire classification turn serialized per session.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	cfg      Config
	now      func() time.Time
}

// NewStore builds a store with the given transition config.
func NewStore(cfg Config) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		cfg:      cfg.withDefaults(),
		now:      time.Now,
	}
}

// SetClock replaces the store's time source. Test use only.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// Acquire locks and returns the session, creating fresh state on first
// use. The caller must Release when the turn is done.
func (s *Store) Acquire(sessionID string) *Session {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &Session{
			store: s,
			state: State{SessionID: sessionID},
		}
		s.sessions[sessionID] = sess
	}
	s.mu.Unlock()

	sess.mu.Lock()
	sess.repair()
	sess.advance(s.now())
	return sess
}

// Start resets the session to fresh state. Starting an already-active
// session is allowed and discards the previous state.
func (s *Store) Start(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = &Session{
		store: s,
		state: State{SessionID: sessionID},
	}
}

// End drops the session's state. Ending an unknown session is a no-op.
func (s *Store) End(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Len reports how many sessions are tracked.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Session is a locked handle onto one session's state.
type Session struct {
	store  *Store
	mu     sync.Mutex
	state  State
	recent []time.Time // escalation times inside the trip window
}

// Release unlocks the session.
func (sess *Session) Release() {
	sess.mu.Unlock()
}

// State returns a copy of the current state.
func (sess *Session) State() State {
	return sess.state
}

// Suppressed reports whether the open circuit is still inside its
// recovery period, meaning classification should be bypassed.
func (sess *Session) Suppressed() bool {
	return sess.state.Circuit == CircuitOpen
}

// RecordEscalation notes a high or critical detection. It returns true
// when this escalation trips (or re-trips) the circuit.
func (sess *Session) RecordEscalation() (tripped bool) {
	now := sess.store.now()
	st := &sess.state

	st.EscalationCount++
	if st.FirstEscalation.IsZero() {
		st.FirstEscalation = now
	}
	st.LastEscalation = now
	st.Mode = ModePostCrisis

	switch st.Circuit {
	case CircuitHalfOpen:
		// A probe turn that escalates reopens immediately.
		st.Circuit = CircuitOpen
		st.TrippedAt = now
		sess.recent = nil
		return true
	case CircuitClosed:
		sess.recent = append(sess.recent, now)
		sess.prune(now)
		if len(sess.recent) >= sess.store.cfg.TripThreshold {
			st.Circuit = CircuitOpen
			st.TrippedAt = now
			sess.recent = nil
			return true
		}
	}
	return false
}

// RecordClean notes a turn with no escalation. A clean probe turn in
// half-open closes the circuit.
func (sess *Session) RecordClean() {
	if sess.state.Circuit == CircuitHalfOpen {
		sess.state.Circuit = CircuitClosed
		sess.recent = nil
	}
}

// advance applies the time-based transitions: open circuits move to
// half-open after the recovery period, and post-crisis mode decays back
// to normal after the hold.
func (sess *Session) advance(now time.Time) {
	st := &sess.state
	cfg := sess.store.cfg

	if st.Circuit == CircuitOpen && !st.TrippedAt.IsZero() && now.Sub(st.TrippedAt) >= cfg.Recovery {
		st.Circuit = CircuitHalfOpen
	}
	if st.Mode == ModePostCrisis && !st.LastEscalation.IsZero() && now.Sub(st.LastEscalation) >= cfg.PostCrisisHold {
		st.Mode = ModeNormal
	}
	sess.prune(now)
}

// repair resets state that fails validation rather than acting on it.
// A corrupted record must never suppress an escalation response.
func (sess *Session) repair() {
	st := &sess.state
	st.Corrupted = false

	valid := st.Mode >= ModeNormal && st.Mode <= ModePostCrisis &&
		st.Circuit >= CircuitClosed && st.Circuit <= CircuitHalfOpen &&
		st.EscalationCount >= 0 &&
		(st.LastEscalation.IsZero() || st.FirstEscalation.IsZero() || !st.LastEscalation.Before(st.FirstEscalation)) &&
		(st.Circuit != CircuitOpen || !st.TrippedAt.IsZero()) &&
		(st.EscalationCount == 0 || !st.LastEscalation.IsZero())

	if !valid {
		sess.state = State{SessionID: st.SessionID, Corrupted: true}
		sess.recent = nil
	}
}

func (sess *Session) prune(now time.Time) {
	window := sess.store.cfg.TripWindow
	i := 0
	for ; i < len(sess.recent); i++ {
		if now.Sub(sess.recent[i]) < window {
			break
		}
	}
	if i > 0 {
		sess.recent = append([]time.Time(nil), sess.recent[i:]...)
	}
}
