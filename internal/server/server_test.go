package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/joebwd/mental-wellness-prompts/internal/supervisor"
)

func newTestServer() *httptest.Server {
	sup := supervisor.New(supervisor.Config{})
	return httptest.NewServer(New(sup).Handler())
}

func postJSON(t *testing.T, url string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	return resp
}

func TestHealthz(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestClassifyCritical(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/v1/classify", map[string]any{
		"session_id": "s1",
		"text":       "I want to die",
		"region":     "US",
		"language":   "en",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Severity != "critical" {
		t.Fatalf("expected critical, got %q", body.Severity)
	}
	if body.Decision != "show_resources" {
		t.Fatalf("expected show_resources, got %q", body.Decision)
	}
	if len(body.Resources) == 0 {
		t.Fatalf("expected resources in the response")
	}
	if body.RequestID == "" {
		t.Fatalf("expected a request id")
	}
	if body.Mode != "post_crisis" {
		t.Fatalf("expected post_crisis mode after escalation, got %q", body.Mode)
	}
}

func TestClassifyBenign(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/v1/classify", map[string]any{
		"session_id": "s2",
		"text":       "lovely weather today",
	})
	defer resp.Body.Close()

	var body classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Decision != "no_action" || body.Severity != "none" {
		t.Fatalf("unexpected response: %+v", body)
	}
}

func TestClassifyMissingFields(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	cases := []map[string]any{
		{"text": "hello"},
		{"session_id": "s1"},
	}
	for _, payload := range cases {
		resp := postJSON(t, srv.URL+"/v1/classify", payload)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("payload %v: expected 400, got %d", payload, resp.StatusCode)
		}
		var body errorBody
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decode error body: %v", err)
		}
		resp.Body.Close()
		if body.Error.Type != "invalid_request" {
			t.Fatalf("expected invalid_request, got %q", body.Error.Type)
		}
	}
}

func TestClassifyRejectsBadJSON(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/v1/classify", "application/json", bytes.NewReader([]byte("{not json")))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestClassifyMethodNotAllowed(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/classify")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
}

func TestSessionLifecycleRoutes(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/v1/session/start", map[string]any{"session_id": "s1"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("start: expected 200, got %d", resp.StatusCode)
	}

	resp = postJSON(t, srv.URL+"/v1/session/end", map[string]any{"session_id": "s1"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("end: expected 200, got %d", resp.StatusCode)
	}

	resp = postJSON(t, srv.URL+"/v1/session/start", map[string]any{})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("start without id: expected 400, got %d", resp.StatusCode)
	}
}

func TestCircuitSuppressionOverHTTP(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	var body classifyResponse
	for i := 0; i < 4; i++ {
		resp := postJSON(t, srv.URL+"/v1/classify", map[string]any{
			"session_id": "s-loop",
			"text":       "I want to kill myself",
		})
		body = classifyResponse{}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		resp.Body.Close()
	}
	if body.Decision != "circuit_suppressed" {
		t.Fatalf("fourth repeat should be suppressed, got %q", body.Decision)
	}
	if body.Circuit != "open" {
		t.Fatalf("expected open circuit, got %q", body.Circuit)
	}
	if len(body.Resources) == 0 {
		t.Fatalf("suppressed responses still carry resources")
	}
}
