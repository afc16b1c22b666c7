package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Request is the payload the NLP collaborator accepts on POST /api/chat.
type Request struct {
	Message      string `json:"message"`
	UserID       string `json:"user_id"`
	SessionToken string `json:"session_token"`
}

// Response mirrors the collaborator's reply shape. AppointmentDetails is kept
// loose; its contents are entirely the collaborator's business.
type Response struct {
	Response           string         `json:"response"`
	Action             string         `json:"action,omitempty"`
	AppointmentDetails map[string]any `json:"appointment_details,omitempty"`
}

// Client is an HTTP client for the NLP collaborator.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client with a bounded per-call timeout. Collaborator
// calls are never retried.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Send forwards a chat message and returns the decoded reply along with the
// raw body, which handlers pass back to the caller unchanged.
func (c *Client) Send(ctx context.Context, reqBody Request) (*Response, []byte, error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("nlp request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil, fmt.Errorf("nlp request failed: status %d", resp.StatusCode)
	}

	var out Response
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, nil, fmt.Errorf("decode response: %w", err)
	}

	return &out, raw, nil
}

// HealthCheck verifies the collaborator is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/api/health", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed: status %d", resp.StatusCode)
	}
	return nil
}
