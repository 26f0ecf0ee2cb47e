package mcp

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/meltforce/repbook/internal/models"
)

// --- Tool definitions ---

var toolGetWorkoutHistory = mcp.NewTool("get_workout_history",
	mcp.WithDescription("Query logged workout sets, most recent first. Each row is one completed set with week, day, exercise, tool, weight, and reps."),
	mcp.WithNumber("week", mcp.Description("Filter by week number")),
	mcp.WithNumber("day", mcp.Description("Filter by day number")),
	mcp.WithString("exercise", mcp.Description("Filter by exercise name (partial match, e.g. 'squat')")),
	mcp.WithNumber("limit", mcp.Description("Maximum rows to return. Defaults to 200.")),
)

var toolGetTemplate = mcp.NewTool("get_template",
	mcp.WithDescription("Get the planned exercise/set structure for a day of the training cycle."),
	mcp.WithNumber("day", mcp.Required(), mcp.Description("Day number (1-based)")),
)

var toolGetCurrentState = mcp.NewTool("get_current_state",
	mcp.WithDescription("Get the saved app state snapshot: selected week/day, the in-progress workout, and the loaded template."),
)

var toolGetExerciseProgress = mcp.NewTool("get_exercise_progress",
	mcp.WithDescription("Session-by-session progression for one exercise: logged weight and reps per set across weeks."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name (partial match)")),
	mcp.WithString("tool", mcp.Description("Filter by tool (e.g. 'Barbell')")),
)

// --- Tool handlers ---

func (h *handlers) getWorkoutHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries, err := h.ds.FetchHistory(ctx)
	if err != nil {
		h.log.Error("mcp get_workout_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	week := req.GetInt("week", 0)
	day := req.GetInt("day", 0)
	exercise := strings.ToLower(req.GetString("exercise", ""))
	limit := req.GetInt("limit", 200)

	filtered := make([]models.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		if week > 0 && e.Week != week {
			continue
		}
		if day > 0 && e.Day != day {
			continue
		}
		if exercise != "" && !strings.Contains(strings.ToLower(e.Exercise), exercise) {
			continue
		}
		filtered = append(filtered, e)
		if limit > 0 && len(filtered) >= limit {
			break
		}
	}

	result, err := mcp.NewToolResultJSON(filtered)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	day, err := req.RequireInt("day")
	if err != nil {
		return mcp.NewToolResultError("day parameter is required"), nil
	}

	tpl, err := h.ds.FetchTemplate(ctx, day)
	if err != nil {
		h.log.Error("mcp get_template", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if tpl == nil {
		return mcp.NewToolResultText("no template exists for that day"), nil
	}

	result, err := mcp.NewToolResultJSON(tpl)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getCurrentState(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := h.ds.GetSnapshot(ctx, h.owner)
	if err != nil {
		h.log.Error("mcp get_current_state", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if snap == nil {
		return mcp.NewToolResultText("no saved state"), nil
	}

	result, err := mcp.NewToolResultJSON(snap)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// progressPoint is one logged set in an exercise's progression.
type progressPoint struct {
	Week      int      `json:"week"`
	Day       int      `json:"day"`
	SetNumber int      `json:"setNumber"`
	Weight    *float64 `json:"weight"`
	Reps      *int     `json:"reps"`
	Tool      *string  `json:"tool,omitempty"`
}

func (h *handlers) getExerciseProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}
	toolFilter := strings.ToLower(req.GetString("tool", ""))

	entries, err := h.ds.FetchHistory(ctx)
	if err != nil {
		h.log.Error("mcp get_exercise_progress", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	needle := strings.ToLower(name)
	var points []progressPoint
	for _, e := range entries {
		if !strings.Contains(strings.ToLower(e.Exercise), needle) {
			continue
		}
		if toolFilter != "" {
			if e.Tool == nil || !strings.Contains(strings.ToLower(*e.Tool), toolFilter) {
				continue
			}
		}
		points = append(points, progressPoint{
			Week:      e.Week,
			Day:       e.Day,
			SetNumber: e.SetNumber,
			Weight:    e.Weight,
			Reps:      e.Reps,
			Tool:      e.Tool,
		})
	}

	result, err := mcp.NewToolResultJSON(points)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
