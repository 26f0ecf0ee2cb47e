package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/meltforce/repbook/internal/models"
)

// HTTPClient implements DataSource by calling the RepBook REST API. Used
// for remote MCP mode where the binary runs locally (stdio) but the data
// lives on the service.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}
	return body, nil
}

func (c *HTTPClient) FetchTemplate(ctx context.Context, day int) (*models.Template, error) {
	body, err := c.get(ctx, fmt.Sprintf("/api/v1/template/%d", day))
	if err != nil || body == nil {
		return nil, err
	}

	var tpl models.Template
	if err := json.Unmarshal(body, &tpl); err != nil {
		return nil, fmt.Errorf("httpclient: decode template: %w", err)
	}
	return &tpl, nil
}

func (c *HTTPClient) FetchHistory(ctx context.Context) ([]models.HistoryEntry, error) {
	body, err := c.get(ctx, "/api/v1/history")
	if err != nil || body == nil {
		return nil, err
	}

	var entries []models.HistoryEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("httpclient: decode history: %w", err)
	}
	return entries, nil
}

// GetSnapshot reads the service's current state. The owner argument is
// ignored in remote mode: the service already scopes state to its own owner.
func (c *HTTPClient) GetSnapshot(ctx context.Context, _ string) (*models.Snapshot, error) {
	body, err := c.get(ctx, "/api/v1/state")
	if err != nil || body == nil {
		return nil, err
	}

	var state struct {
		Week         int               `json:"week"`
		Day          int               `json:"day"`
		TemplateName string            `json:"templateName"`
		Workout      []models.Exercise `json:"workout"`
	}
	if err := json.Unmarshal(body, &state); err != nil {
		return nil, fmt.Errorf("httpclient: decode state: %w", err)
	}
	return &models.Snapshot{
		SelectedWeek:       state.Week,
		SelectedDay:        state.Day,
		LoadedTemplateName: state.TemplateName,
		CurrentWorkout:     state.Workout,
	}, nil
}
