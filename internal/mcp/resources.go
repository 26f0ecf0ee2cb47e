package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/meltforce/repbook/internal/models"
)

// session groups history rows sharing a (week, day) pair. Sessions are a
// derived view; only the flat rows are stored.
type session struct {
	Week int                   `json:"week"`
	Day  int                   `json:"day"`
	Sets []models.HistoryEntry `json:"sets"`
}

// GroupSessions folds flat history rows into sessions, preserving the
// most-recent-first order of the input.
func GroupSessions(entries []models.HistoryEntry, limit int) []session {
	index := map[string]int{}
	var out []session
	for _, e := range entries {
		key := fmt.Sprintf("%d-%d", e.Week, e.Day)
		i, ok := index[key]
		if !ok {
			if limit > 0 && len(out) >= limit {
				continue
			}
			i = len(out)
			index[key] = i
			out = append(out, session{Week: e.Week, Day: e.Day})
		}
		out[i].Sets = append(out[i].Sets, e)
	}
	return out
}

func (h *handlers) recentSessions(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	entries, err := h.ds.FetchHistory(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(GroupSessions(entries, 10))
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
