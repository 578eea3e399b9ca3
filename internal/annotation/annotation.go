// Package annotation submits analysis predictions to an external labeling
// service so humans can validate and correct the model over time. Submission
// is strictly best-effort: the service being down, misconfigured, or slow
// never affects the user-facing analysis.
package annotation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Task is the payload submitted for human validation.
type Task struct {
	Project    string   `json:"project"`
	ImageRef   string   `json:"image_ref"`
	Labels     []string `json:"labels"`
	Confidence float64  `json:"confidence"`
	Strategy   string   `json:"strategy"`
}

type taskResponse struct {
	ID string `json:"id"`
}

// Client posts prediction tasks to a configured annotation endpoint.
type Client struct {
	endpoint string
	token    string
	project  string
	client   *http.Client
	logger   *slog.Logger
}

// New creates an annotation client. Returns nil when no endpoint is
// configured; callers treat a nil client as the feature being disabled.
func New(endpoint, token, project string, timeout time.Duration, logger *slog.Logger) *Client {
	if endpoint == "" {
		return nil
	}
	return &Client{
		endpoint: endpoint,
		token:    token,
		project:  project,
		client:   &http.Client{Timeout: timeout},
		logger:   logger.With("system", "annotation"),
	}
}

// Submit posts a task and returns the external task id. Errors are returned
// for the caller to log; callers never propagate them to users.
func (c *Client) Submit(ctx context.Context, task Task) (string, error) {
	task.Project = c.project

	body, err := json.Marshal(task)
	if err != nil {
		return "", fmt.Errorf("marshal annotation task: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build annotation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Token "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("submit annotation task: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("submit annotation task: status %d: %s", resp.StatusCode, msg)
	}

	var parsed taskResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode annotation response: %w", err)
	}

	c.logger.Debug("annotation task submitted", "task_id", parsed.ID)
	return parsed.ID, nil
}
