package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/comigor/portfolio-chat/internal/config"
)

// APIKeyHeader carries the static key shared between widget and endpoint.
const APIKeyHeader = "X-API-Key"

// ErrStatus is wrapped by errors for non-2xx responses.
var ErrStatus = errors.New("unexpected status code")

// Request is the body sent to the assistant endpoint.
type Request struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId,omitempty"`
}

// Response is the body returned by the assistant endpoint.
type Response struct {
	Reply      string    `json:"reply"`
	SessionID  string    `json:"sessionId"`
	MessageID  string    `json:"messageId"`
	Timestamp  time.Time `json:"timestamp"`
	Intent     string    `json:"intent,omitempty"`
	Confidence float64   `json:"confidence,omitempty"`
	Sources    []string  `json:"sources,omitempty"`
}

// Client talks to the remote assistant endpoint.
type Client struct {
	url    string
	apiKey string
	client *http.Client
}

// NewClient creates a Client from the widget configuration. A zero timeout
// leaves the transport default in place.
func NewClient(cfg config.WidgetConfig) *Client {
	return &Client{
		url:    strings.TrimRight(cfg.AssistantURL, "/") + "/api/chat",
		apiKey: cfg.APIKey,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Ask sends one user message and decodes the assistant reply.
func (c *Client) Ask(ctx context.Context, in Request) (*Response, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(APIKeyHeader, c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("assistant request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: %d %s", ErrStatus, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode assistant response: %w", err)
	}
	return &out, nil
}
