// Package suggest calls the hosted exercise-suggestion model. The prompt
// and model choice live behind the remote endpoint; this client treats it
// as an opaque collaborator.
package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/meltforce/repbook/internal/models"
)

// Request is the suggestion input: a plain-text history summary and the
// muscle group the user wants to train.
type Request struct {
	WorkoutHistory    string `json:"workoutHistory"`
	TargetMuscleGroup string `json:"targetMuscleGroup"`
}

// Response is the model's suggestion.
type Response struct {
	ExerciseName string `json:"exerciseName"`
	Sets         int    `json:"sets"`
	Reps         int    `json:"reps"`
	Weight       string `json:"weight"`
	Reasoning    string `json:"reasoning"`
}

// Client posts suggestion requests to the configured endpoint.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a Client targeting the given endpoint URL.
func NewClient(endpoint, apiKey string) *Client {
	return &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Suggest requests one exercise suggestion.
func (c *Client) Suggest(ctx context.Context, req Request) (*Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("suggest: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("suggest: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("suggest: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("suggest: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("suggest: endpoint returned %d: %s", resp.StatusCode, respBody)
	}

	var out Response
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("suggest: decode response: %w", err)
	}
	return &out, nil
}

// SummarizeHistory renders recent history rows as the plain-text summary the
// suggestion model expects, most recent session first.
func SummarizeHistory(entries []models.HistoryEntry, limit int) string {
	if len(entries) == 0 {
		return "No workout history yet."
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "Week %d Day %d: %s", e.Week, e.Day, e.Exercise)
		if e.Tool != nil && *e.Tool != "" {
			fmt.Fprintf(&b, " (%s)", *e.Tool)
		}
		fmt.Fprintf(&b, " set %d", e.SetNumber)
		if e.Weight != nil {
			fmt.Fprintf(&b, " %gkg", *e.Weight)
		}
		if e.Reps != nil {
			fmt.Fprintf(&b, " x%d", *e.Reps)
		}
		b.WriteString("\n")
	}
	return b.String()
}
