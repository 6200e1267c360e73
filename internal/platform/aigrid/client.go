// Package aigrid is a minimal client for the AIGrid OpenAI-compatible chat
// completions API. It supports one-shot completion and SSE streaming.
package aigrid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/omnichat-backend/internal/domain"
	"github.com/yungbote/omnichat-backend/internal/platform/logger"
)

const (
	DefaultBaseURL   = "https://api.ai-grid.org/v1"
	DefaultModel     = "openai/gpt-oss-20b"
	defaultTimeout   = 120 * time.Second
	maxAttempts      = 3
	baseRetryBackoff = 500 * time.Millisecond
)

// TurnMessage is a single entry of the wire-format history sent upstream.
type TurnMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Config struct {
	APIKey  string
	BaseURL string
	Model   string

	Temperature float64
	MaxTokens   int

	// Timeout bounds one whole request, stream reads included. Zero means
	// the default.
	Timeout    time.Duration
	HTTPClient *http.Client
}

type Client struct {
	cfg Config
	hc  *http.Client
	log *logger.Logger
}

// HTTPError is returned for non-2xx upstream responses. Retryable status
// codes are retried internally before this surfaces.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("aigrid: upstream status %d: %s", e.Status, e.Body)
}

// NewClient fails fast when the API key is absent, so misconfiguration
// surfaces at startup rather than on the first send.
func NewClient(cfg Config, log *logger.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, domain.ErrMissingAPIKey
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.1
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 8000
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Client{cfg: cfg, hc: hc, log: log.With("client", "aigrid")}, nil
}

func (c *Client) Model() string { return c.cfg.Model }

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []TurnMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Stream      bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type chatStreamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// Complete sends the history and returns the full assistant reply.
func (c *Client) Complete(ctx context.Context, history []TurnMessage) (string, error) {
	resp, err := c.post(ctx, history, false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("aigrid: decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("aigrid: response had no choices")
	}
	return out.Choices[0].Message.Content, nil
}

// Stream sends the history and invokes onDelta for every content fragment,
// in arrival order. It returns the concatenated full reply. A nil onDelta
// is allowed.
func (c *Client) Stream(ctx context.Context, history []TurnMessage, onDelta func(delta string) error) (string, error) {
	resp, err := c.post(ctx, history, true)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var full strings.Builder
	err = streamSSE(resp.Body, func(_ string, data string) error {
		if data == "[DONE]" {
			return errStreamDone
		}
		var chunk chatStreamChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			// Skip malformed keep-alive frames.
			return nil
		}
		if len(chunk.Choices) == 0 {
			return nil
		}
		delta := chunk.Choices[0].Delta.Content
		if delta == "" {
			return nil
		}
		full.WriteString(delta)
		if onDelta != nil {
			return onDelta(delta)
		}
		return nil
	})
	if err != nil && err != errStreamDone {
		return full.String(), err
	}
	return full.String(), nil
}

func (c *Client) post(ctx context.Context, history []TurnMessage, stream bool) (*http.Response, error) {
	payload, err := json.Marshal(chatRequest{
		Model:       c.cfg.Model,
		Messages:    history,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
		Stream:      stream,
	})
	if err != nil {
		return nil, fmt.Errorf("aigrid: marshal request: %w", err)
	}

	url := c.cfg.BaseURL + "/chat/completions"
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			backoff := baseRetryBackoff * time.Duration(1<<(attempt-2))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
		if stream {
			req.Header.Set("Accept", "text/event-stream")
		}

		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			c.log.Warn("aigrid request failed", "attempt", attempt, "error", err)
			continue
		}
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}

		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		resp.Body.Close()
		herr := &HTTPError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
		if !retryableStatus(resp.StatusCode) {
			return nil, herr
		}
		lastErr = herr
		c.log.Warn("aigrid retryable status", "attempt", attempt, "status", resp.StatusCode)
	}
	return nil, lastErr
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
