package dispatch

import (
	"testing"
	"time"

	"github.com/joebwd/mental-wellness-prompts/internal/detection"
	"github.com/joebwd/mental-wellness-prompts/internal/session"
)

func result(sev detection.Severity) *detection.Result {
	return &detection.Result{Severity: sev, Confidence: 0.9, Tier: detection.TierLexical}
}

func TestDispatchHighShowsResources(t *testing.T) {
	store := session.NewStore(session.DefaultConfig())
	d := New(nil)

	sess := store.Acquire("s1")
	defer sess.Release()

	out := d.Dispatch(result(detection.SeverityHigh), sess, "US", "en")
	if out.Decision != ShowResources {
		t.Fatalf("expected show_resources, got %v", out.Decision)
	}
	if len(out.Resources) == 0 {
		t.Fatalf("expected resources attached")
	}
	if out.Tripped {
		t.Fatalf("first escalation must not trip")
	}
	if out.State.Mode != session.ModePostCrisis {
		t.Fatalf("expected post_crisis after escalation, got %v", out.State.Mode)
	}
}

func TestDispatchTrippingTurnStillShowsResources(t *testing.T) {
	store := session.NewStore(session.DefaultConfig())
	d := New(nil)

	var out Outcome
	for i := 0; i < 3; i++ {
		sess := store.Acquire("s1")
		out = d.Dispatch(result(detection.SeverityCritical), sess, "US", "en")
		sess.Release()
	}
	if out.Decision != ShowResources {
		t.Fatalf("the tripping turn keeps the full response, got %v", out.Decision)
	}
	if !out.Tripped {
		t.Fatalf("third escalation should trip the circuit")
	}
	if out.State.Circuit != session.CircuitOpen {
		t.Fatalf("expected open circuit, got %v", out.State.Circuit)
	}
}

func TestSuppressedKeepsResources(t *testing.T) {
	store := session.NewStore(session.DefaultConfig())
	d := New(nil)

	for i := 0; i < 3; i++ {
		sess := store.Acquire("s1")
		d.Dispatch(result(detection.SeverityCritical), sess, "US", "en")
		sess.Release()
	}

	sess := store.Acquire("s1")
	defer sess.Release()
	if !sess.Suppressed() {
		t.Fatalf("expected suppression after the trip")
	}
	out := d.Suppressed(sess, "US", "en")
	if out.Decision != CircuitSuppressed {
		t.Fatalf("expected circuit_suppressed, got %v", out.Decision)
	}
	if len(out.Resources) == 0 {
		t.Fatalf("suppressed turns still carry resources")
	}
}

func TestDispatchPostCrisisDirective(t *testing.T) {
	store := session.NewStore(session.DefaultConfig())
	d := New(nil)

	sess := store.Acquire("s1")
	d.Dispatch(result(detection.SeverityHigh), sess, "US", "en")
	sess.Release()

	sess = store.Acquire("s1")
	defer sess.Release()
	out := d.Dispatch(result(detection.SeverityModerate), sess, "US", "en")
	if out.Decision != PostCrisisDirective {
		t.Fatalf("expected post_crisis_directive, got %v", out.Decision)
	}
	if len(out.Resources) != 0 {
		t.Fatalf("post-crisis turns do not re-send resources")
	}
}

func TestDispatchNoAction(t *testing.T) {
	store := session.NewStore(session.DefaultConfig())
	d := New(nil)

	sess := store.Acquire("s1")
	defer sess.Release()
	out := d.Dispatch(result(detection.SeverityNone), sess, "US", "en")
	if out.Decision != NoAction {
		t.Fatalf("expected no_action, got %v", out.Decision)
	}
}

func TestDispatchCleanProbeCloses(t *testing.T) {
	clock := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	store := session.NewStore(session.DefaultConfig())
	store.SetClock(func() time.Time { return clock })
	d := New(nil)

	for i := 0; i < 3; i++ {
		sess := store.Acquire("s1")
		d.Dispatch(result(detection.SeverityCritical), sess, "US", "en")
		sess.Release()
	}

	clock = clock.Add(16 * time.Minute)
	sess := store.Acquire("s1")
	defer sess.Release()
	if sess.Suppressed() {
		t.Fatalf("half-open probe should not be suppressed")
	}
	out := d.Dispatch(result(detection.SeverityNone), sess, "US", "en")
	if out.State.Circuit != session.CircuitClosed {
		t.Fatalf("a clean probe should close the circuit, got %v", out.State.Circuit)
	}
}

func TestDecisionString(t *testing.T) {
	cases := map[Decision]string{
		NoAction:            "no_action",
		ShowResources:       "show_resources",
		PostCrisisDirective: "post_crisis_directive",
		CircuitSuppressed:   "circuit_suppressed",
	}
	for d, want := range cases {
		if d.String() != want {
			t.Fatalf("Decision(%d).String() = %q, want %q", d, d.String(), want)
		}
	}
}
