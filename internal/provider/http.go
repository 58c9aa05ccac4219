package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// httpProvider implements Provider against a JSON classify endpoint.
type httpProvider struct {
	baseURL          string
	apiKey           string
	client           *http.Client
	maxResponseBytes int64
}

// NewHTTP creates a provider for a remote classification service exposing
// POST {base_url}/classify.
func NewHTTP(baseURL, apiKey string, timeout time.Duration, maxResponseBytes int64) Provider {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	if maxResponseBytes <= 0 {
		maxResponseBytes = 256 * 1024
	}
	return &httpProvider{
		baseURL:          baseURL,
		apiKey:           apiKey,
		maxResponseBytes: maxResponseBytes,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type classifyRequest struct {
	Text    string   `json:"text"`
	Context []string `json:"context,omitempty"`
}

type classifyErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (p *httpProvider) ClassifyText(ctx context.Context, text string, history []string) (*Classification, error) {
	body, err := json.Marshal(classifyRequest{Text: text, Context: history})
	if err != nil {
		return nil, fmt.Errorf("marshal classify request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		fmt.Sprintf("%s/classify", p.baseURL),
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, fmt.Errorf("create classify request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call classify endpoint: %w", err)
	}
	defer resp.Body.Close()

	limited := io.LimitReader(resp.Body, p.maxResponseBytes+1)
	respBody, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("read classify response: %w", err)
	}
	if int64(len(respBody)) > p.maxResponseBytes {
		return nil, fmt.Errorf("classify response exceeded limit (%d bytes)", p.maxResponseBytes)
	}

	if resp.StatusCode >= 400 {
		var errBody classifyErrorResponse
		if err := json.Unmarshal(respBody, &errBody); err != nil {
			return nil, fmt.Errorf("classify endpoint status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("classify endpoint error: %s (type=%s)", errBody.Error.Message, errBody.Error.Type)
	}

	var result Classification
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("decode classify response: %w", err)
	}
	return &result, nil
}
