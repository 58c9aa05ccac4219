// Package dispatch turns a detection result plus session state into the
// action the chat layer should take.
package dispatch

import (
	"github.com/joebwd/mental-wellness-prompts/internal/detection"
	"github.com/joebwd/mental-wellness-prompts/internal/resources"
	"github.com/joebwd/mental-wellness-prompts/internal/session"
)

// Decision is the action handed back to the caller.
type Decision int8

const (
	// NoAction means the conversation proceeds untouched.
	NoAction Decision = iota
	// ShowResources means the client must surface crisis resources now.
	ShowResources
	// PostCrisisDirective means the conversation continues under
	// post-crisis tone guidance, without a fresh resource card.
	PostCrisisDirective
	// CircuitSuppressed means repeated escalations tripped the breaker;
	// resources stay available but the full escalation flow is held.
	CircuitSuppressed
)

func (d Decision) String() string {
	switch d {
	case NoAction:
		return "no_action"
	case ShowResources:
		return "show_resources"
	case PostCrisisDirective:
		return "post_crisis_directive"
	case CircuitSuppressed:
		return "circuit_suppressed"
	default:
		return "unknown"
	}
}

// Outcome is what the dispatcher decided for one turn.
type Outcome struct {
	Decision  Decision
	Severity  detection.Severity
	Resources []resources.Entry
	Tripped   bool // the circuit opened or reopened on this turn
	State     session.State
}

// Dispatcher applies the escalation policy.
type Dispatcher struct {
	resolver *resources.Resolver
}

// New builds a dispatcher over the given resource resolver.
func New(resolver *resources.Resolver) *Dispatcher {
	if resolver == nil {
		resolver = resources.NewResolver()
	}
	return &Dispatcher{resolver: resolver}
}

// Suppressed is the outcome for a turn bypassed by an open circuit.
// The session lock must be held. Resources ride along so the client is
// never left without a path to help.
func (d *Dispatcher) Suppressed(sess *session.Session, region, language string) Outcome {
	return Outcome{
		Decision:  CircuitSuppressed,
		Severity:  detection.SeverityNone,
		Resources: d.resolver.Resolve(region, language, detection.SeverityHigh),
		State:     sess.State(),
	}
}

// Dispatch records the detection against the session and returns the
// action to take. The session lock must be held by the caller.
func (d *Dispatcher) Dispatch(result *detection.Result, sess *session.Session, region, language string) Outcome {
	if result.Severity >= detection.SeverityHigh {
		// The escalation that trips the breaker still gets the full
		// resource response; suppression starts on the next turn.
		tripped := sess.RecordEscalation()
		return Outcome{
			Decision:  ShowResources,
			Severity:  result.Severity,
			Resources: d.resolver.Resolve(region, language, result.Severity),
			Tripped:   tripped,
			State:     sess.State(),
		}
	}

	sess.RecordClean()
	st := sess.State()
	if st.Mode == session.ModePostCrisis {
		return Outcome{
			Decision: PostCrisisDirective,
			Severity: result.Severity,
			State:    st,
		}
	}
	return Outcome{
		Decision: NoAction,
		Severity: result.Severity,
		State:    st,
	}
}
