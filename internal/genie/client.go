// Package genie is a thin client for the conversational data-query service
// the admin console's chat panel talks to. It forwards a free-text question
// and polls until the answer is ready or the attempt budget runs out.
package genie

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
	StatusCancelled Status = "CANCELLED"
)

// ErrTimeout is returned when the poll budget is exhausted before the
// service reaches a terminal status.
var ErrTimeout = fmt.Errorf("genie: answer not ready in time")

type Client struct {
	httpClient   *http.Client
	baseURL      string
	apiKey       string
	pollInterval time.Duration
	maxPolls     int
}

func NewClient(baseURL, apiKey string, pollInterval time.Duration, maxPolls int) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		apiKey:       apiKey,
		pollInterval: pollInterval,
		maxPolls:     maxPolls,
	}
}

// IsConfigured reports whether a service endpoint was supplied.
func (c *Client) IsConfigured() bool {
	return c.baseURL != ""
}

type postRequest struct {
	Question string `json:"question"`
}

type postResponse struct {
	ConversationID string `json:"conversationId"`
	MessageID      string `json:"messageId"`
}

type pollResponse struct {
	Status Status     `json:"status"`
	Text   string     `json:"text,omitempty"`
	Rows   [][]string `json:"rows,omitempty"`
}

// Ask forwards question, then polls with a fixed delay until the service
// reports a terminal status. The returned string is the textual answer;
// tabular results are rendered one row per line, tab-separated.
func (c *Client) Ask(ctx context.Context, question string) (string, error) {
	if !c.IsConfigured() {
		return "", fmt.Errorf("genie: not configured")
	}

	conv, err := c.post(ctx, question)
	if err != nil {
		return "", err
	}

	for attempt := 0; attempt < c.maxPolls; attempt++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.pollInterval):
		}

		res, err := c.poll(ctx, conv)
		if err != nil {
			return "", err
		}

		switch res.Status {
		case StatusCompleted:
			return render(res), nil
		case StatusFailed, StatusCancelled:
			return "", fmt.Errorf("genie: query %s", strings.ToLower(string(res.Status)))
		case StatusPending:
			// keep polling
		default:
			return "", fmt.Errorf("genie: unexpected status %q", res.Status)
		}
	}

	return "", ErrTimeout
}

func (c *Client) post(ctx context.Context, question string) (postResponse, error) {
	var out postResponse

	body, err := json.Marshal(postRequest{Question: question})
	if err != nil {
		return out, fmt.Errorf("genie: encoding question: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/conversations", bytes.NewReader(body))
	if err != nil {
		return out, fmt.Errorf("genie: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return out, fmt.Errorf("genie: posting question: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return out, fmt.Errorf("genie: post returned %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, fmt.Errorf("genie: decoding post response: %w", err)
	}
	return out, nil
}

func (c *Client) poll(ctx context.Context, conv postResponse) (pollResponse, error) {
	var out pollResponse

	url := fmt.Sprintf("%s/conversations/%s/messages/%s", c.baseURL, conv.ConversationID, conv.MessageID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return out, fmt.Errorf("genie: building poll request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return out, fmt.Errorf("genie: polling: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return out, fmt.Errorf("genie: poll returned %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, fmt.Errorf("genie: decoding poll response: %w", err)
	}
	return out, nil
}

func render(res pollResponse) string {
	if len(res.Rows) == 0 {
		return res.Text
	}
	lines := make([]string, 0, len(res.Rows)+1)
	if res.Text != "" {
		lines = append(lines, res.Text)
	}
	for _, row := range res.Rows {
		lines = append(lines, strings.Join(row, "\t"))
	}
	return strings.Join(lines, "\n")
}
