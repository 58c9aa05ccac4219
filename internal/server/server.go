// Package server exposes the detection pipeline over HTTP.
package server

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/joebwd/mental-wellness-prompts/internal/redact"
	"github.com/joebwd/mental-wellness-prompts/internal/resources"
	"github.com/joebwd/mental-wellness-prompts/internal/supervisor"
)

// maxBodyBytes bounds request bodies; utterances are chat messages,
// not documents.
const maxBodyBytes = 64 << 10

// Server wraps the HTTP routes over a supervisor.
type Server struct {
	mux *http.ServeMux
	sup *supervisor.Supervisor
}

// New creates a server with all routes registered.
func New(sup *supervisor.Supervisor) *Server {
	s := &Server{
		mux: http.NewServeMux(),
		sup: sup,
	}

	s.mux.HandleFunc("/healthz", s.handleHealth)
	s.mux.HandleFunc("/v1/classify", s.handleClassify)
	s.mux.HandleFunc("/v1/session/start", s.handleSessionStart)
	s.mux.HandleFunc("/v1/session/end", s.handleSessionEnd)

	return s
}

// Handler returns the root handler for http.Server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintln(w, "ok")
}

type classifyRequest struct {
	SessionID string   `json:"session_id"`
	Text      string   `json:"text"`
	Language  string   `json:"language,omitempty"`
	Region    string   `json:"region,omitempty"`
	History   []string `json:"history,omitempty"`
}

type resourceEntry struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Text  string `json:"text,omitempty"`
	Web   string `json:"web,omitempty"`
}

type classifyResponse struct {
	RequestID  string          `json:"request_id"`
	Decision   string          `json:"decision"`
	Severity   string          `json:"severity"`
	Confidence float64         `json:"confidence"`
	Tier       int             `json:"tier"`
	Partial    bool            `json:"partial"`
	CacheHit   bool            `json:"cache_hit"`
	Mode       string          `json:"mode"`
	Circuit    string          `json:"circuit_state"`
	Resources  []resourceEntry `json:"resources,omitempty"`
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "invalid_request")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req classifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "invalid_request")
		return
	}

	requestID := newRequestID()
	resp, err := s.sup.Classify(r.Context(), supervisor.Request{
		SessionID: req.SessionID,
		Text:      req.Text,
		Language:  req.Language,
		Region:    req.Region,
		History:   req.History,
	})
	if err != nil {
		switch {
		case errors.Is(err, supervisor.ErrEmptySession):
			writeError(w, http.StatusBadRequest, "missing session_id", "invalid_request")
		case errors.Is(err, supervisor.ErrEmptyText):
			writeError(w, http.StatusBadRequest, "missing text", "invalid_request")
		default:
			redact.Logf("server: classify request=%s failed: %v", requestID, err)
			writeError(w, http.StatusInternalServerError, "classification failed", "internal_error")
		}
		return
	}

	body := classifyResponse{
		RequestID:  requestID,
		Decision:   resp.Outcome.Decision.String(),
		Severity:   resp.Result.Severity.String(),
		Confidence: resp.Result.Confidence,
		Tier:       resp.Result.Tier,
		Partial:    resp.Result.Partial,
		CacheHit:   resp.Result.CacheHit,
		Mode:       resp.Outcome.State.Mode.String(),
		Circuit:    resp.Outcome.State.Circuit.String(),
		Resources:  toResourceEntries(resp.Outcome.Resources),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		redact.Logf("server: failed to write classify response: %v", err)
	}
}

type sessionRequest struct {
	SessionID string `json:"session_id"`
}

func (s *Server) handleSessionStart(w http.ResponseWriter, r *http.Request) {
	s.handleSession(w, r, s.sup.OnSessionStart)
}

func (s *Server) handleSessionEnd(w http.ResponseWriter, r *http.Request) {
	s.handleSession(w, r, s.sup.OnSessionEnd)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request, op func(string) error) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "invalid_request")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "invalid_request")
		return
	}
	if err := op(req.SessionID); err != nil {
		writeError(w, http.StatusBadRequest, "missing session_id", "invalid_request")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func toResourceEntries(entries []resources.Entry) []resourceEntry {
	if len(entries) == 0 {
		return nil
	}
	out := make([]resourceEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, resourceEntry{
			Name:  e.Name,
			Phone: e.Phone,
			Text:  e.Text,
			Web:   e.Web,
		})
	}
	return out
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// writeError writes a JSON error envelope.
func writeError(w http.ResponseWriter, status int, message, typ string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{
		Error: errorDetail{
			Message: message,
			Type:    typ,
		},
	})
}

func newRequestID() string {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return hex.EncodeToString(buf[:])
	}
	return hex.EncodeToString(buf[:])
}
