package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHTTPProviderClassify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/classify" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("missing auth header, got %q", got)
		}
		var req classifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Text != "I feel trapped" || len(req.Context) != 1 {
			t.Errorf("unexpected payload: %+v", req)
		}
		json.NewEncoder(w).Encode(Classification{
			Severity:   "high",
			Confidence: 0.82,
			Indicators: []string{"model:high"},
		})
	}))
	defer srv.Close()

	p := NewHTTP(srv.URL, "test-key", time.Second, 0)
	cls, err := p.ClassifyText(context.Background(), "I feel trapped", []string{"prior turn"})
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if cls.Severity != "high" || cls.Confidence != 0.82 {
		t.Fatalf("unexpected classification: %+v", cls)
	}
}

func TestHTTPProviderErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "model loading", "type": "unavailable"},
		})
	}))
	defer srv.Close()

	p := NewHTTP(srv.URL, "", time.Second, 0)
	_, err := p.ClassifyText(context.Background(), "hello", nil)
	if err == nil {
		t.Fatalf("expected error on 503")
	}
	if !strings.Contains(err.Error(), "model loading") {
		t.Fatalf("error should carry the backend message: %v", err)
	}
}

func TestHTTPProviderResponseLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"severity":"none","reasoning":"` + strings.Repeat("x", 2048) + `"}`))
	}))
	defer srv.Close()

	p := NewHTTP(srv.URL, "", time.Second, 512)
	if _, err := p.ClassifyText(context.Background(), "hello", nil); err == nil {
		t.Fatalf("expected oversized response to fail")
	}
}

func TestHTTPProviderContextCancel(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	p := NewHTTP(srv.URL, "", time.Second, 0)
	if _, err := p.ClassifyText(ctx, "hello", nil); err == nil {
		t.Fatalf("expected context deadline to abort the call")
	}
}

func TestFakeProviderHonorsContext(t *testing.T) {
	f := &FakeProvider{Result: &Classification{Severity: "high"}, Delay: time.Second}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := f.ClassifyText(ctx, "hello", nil)
	if err == nil {
		t.Fatalf("expected context error")
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Fatalf("fake provider ignored cancellation")
	}
}
