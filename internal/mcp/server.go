// Package mcp exposes the workout log to AI assistants over the Model
// Context Protocol: history queries, templates, saved state, and
// per-exercise progression.
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, owner, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("RepBook", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("RepBook workout log. Query logged sets, day templates, per-exercise progression, and the saved app state."),
	)

	h := &handlers{ds: ds, owner: owner, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolGetWorkoutHistory, Handler: h.getWorkoutHistory},
		server.ServerTool{Tool: toolGetTemplate, Handler: h.getTemplate},
		server.ServerTool{Tool: toolGetCurrentState, Handler: h.getCurrentState},
		server.ServerTool{Tool: toolGetExerciseProgress, Handler: h.getExerciseProgress},
	)

	s.AddResources(
		server.ServerResource{Resource: resRecentSessions, Handler: h.recentSessions},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds    DataSource
	owner string
	log   *slog.Logger
}

// --- Resource definitions ---

var resRecentSessions = mcp.NewResource(
	"repbook://recent_sessions",
	"Recent Sessions",
	mcp.WithResourceDescription("The most recent logged workout sessions, grouped by week and day"),
	mcp.WithMIMEType("application/json"),
)
