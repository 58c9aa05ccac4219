// Package mockmodel runs a lightweight classification backend for local
// development and benchmarks. It speaks the same /classify contract as
// a real model server but scores with a keyword table.
package mockmodel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort    = 18080
	defaultDelayMS = 50
)

// StartMockModel launches the mock classification server.
// If addr is empty, it listens on 127.0.0.1:MOCK_MODEL_PORT (default 18080).
// It returns a shutdown function and the base URL (e.g., http://127.0.0.1:18080).
func StartMockModel(addr string) (func(context.Context) error, string, error) {
	if strings.TrimSpace(addr) == "" {
		port := strings.TrimSpace(os.Getenv("MOCK_MODEL_PORT"))
		if port == "" {
			port = fmt.Sprintf("%d", defaultPort)
		}
		addr = "127.0.0.1:" + port
	}

	delay := defaultDelayMS
	if val := strings.TrimSpace(os.Getenv("MOCK_DELAY_MS")); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed >= 0 {
			delay = parsed
		}
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, "", fmt.Errorf("listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		log.Printf("mock model request method=%s path=%s", r.Method, r.URL.Path)

		p := r.URL.Path
		if len(p) > 1 {
			p = strings.TrimSuffix(p, "/")
		}

		if r.Method == http.MethodPost && (p == "/classify" || p == "/v1/classify") {
			writeClassification(w, r, delay)
			return
		}
		if r.Method == http.MethodGet && p == "/healthz" {
			fmt.Fprintln(w, "ok")
			return
		}

		writeNotFoundJSON(w)
	})

	srv := &http.Server{
		Handler: mux,
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("mock model server error: %v", err)
		}
	}()

	shutdown := func(ctx context.Context) error {
		return srv.Shutdown(ctx)
	}

	return shutdown, "http://" + ln.Addr().String(), nil
}

type classifyRequest struct {
	Text    string   `json:"text"`
	Context []string `json:"context,omitempty"`
}

type classification struct {
	Severity   string   `json:"severity"`
	Confidence float64  `json:"confidence"`
	Indicators []string `json:"indicators,omitempty"`
	Reasoning  string   `json:"reasoning,omitempty"`
}

// severityKeywords drives the mock scoring, highest band first.
var severityKeywords = []struct {
	severity   string
	confidence float64
	words      []string
}{
	{"critical", 0.93, []string{"kill myself", "end my life", "suicide", "want to die"}},
	{"high", 0.78, []string{"hopeless", "can't go on", "no way out", "self harm"}},
	{"moderate", 0.61, []string{"overwhelmed", "worthless", "give up", "so tired of everything"}},
}

func writeClassification(w http.ResponseWriter, r *http.Request, delayMS int) {
	var req classifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "invalid JSON body", "type": "invalid_request"},
		})
		return
	}

	if delayMS > 0 {
		time.Sleep(time.Duration(delayMS) * time.Millisecond)
	}

	out := classification{Severity: "none", Confidence: 0.9, Reasoning: "no risk keywords"}
	lower := strings.ToLower(req.Text)
	for _, band := range severityKeywords {
		for _, word := range band.words {
			if strings.Contains(lower, word) {
				out = classification{
					Severity:   band.severity,
					Confidence: band.confidence,
					Indicators: []string{"keyword:" + strings.ReplaceAll(word, " ", "_")},
					Reasoning:  "keyword match",
				}
				break
			}
		}
		if out.Severity != "none" {
			break
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func writeNotFoundJSON(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"message": "not found", "type": "invalid_request"},
	})
}
