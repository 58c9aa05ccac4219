package telemetry

import (
	"testing"
)

func TestSafeAttributesFiltersSensitiveKeys(t *testing.T) {
	kvs := map[string]interface{}{
		"text":        "should drop",
		"excerpt":     "drop",
		"session_id":  "raw-id",
		"api_key":     "sk-123",
		"phone":       "555-0100",
		"severity":    "high",
		"tier":        2,
		"partial":     false,
		"long_string": string(make([]byte, 600)),
		"latency_ms":  12.5,
	}

	attrs := SafeAttributes(kvs)
	for _, a := range attrs {
		switch string(a.Key) {
		case "text", "excerpt", "session_id", "api_key", "phone":
			t.Fatalf("unexpected unsafe attribute %s", a.Key)
		case "long_string":
			t.Fatalf("expected long string to be skipped")
		}
	}

	want := map[string]bool{"severity": false, "tier": false, "partial": false, "latency_ms": false}
	for _, a := range attrs {
		if _, ok := want[string(a.Key)]; ok {
			want[string(a.Key)] = true
		}
	}
	for k, seen := range want {
		if !seen {
			t.Fatalf("expected safe attribute %s to survive", k)
		}
	}
}

func TestSafeAttributesEmpty(t *testing.T) {
	if attrs := SafeAttributes(nil); attrs != nil {
		t.Fatalf("expected nil for empty input, got %v", attrs)
	}
}
