// Package server exposes the workout logger's page-level operations as a
// REST API.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/repbook/internal/controller"
	"github.com/meltforce/repbook/internal/models"
	"github.com/meltforce/repbook/internal/suggest"
	"github.com/meltforce/repbook/internal/syncer"
)

// TemplateSource is the read-only template/history surface used by the
// passthrough endpoints.
type TemplateSource interface {
	FetchTemplate(ctx context.Context, day int) (*models.Template, error)
}

// Suggester requests an AI exercise suggestion.
type Suggester interface {
	Suggest(ctx context.Context, req suggest.Request) (*suggest.Response, error)
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	ctrl      *controller.Controller
	engine    *syncer.Engine
	templates TemplateSource
	suggester Suggester
	log       *slog.Logger
	apiKey    string
	router    chi.Router
}

// New creates a new Server with all routes configured. An empty apiKey
// leaves the mutating routes unauthenticated (dev mode).
func New(ctrl *controller.Controller, engine *syncer.Engine, templates TemplateSource, suggester Suggester, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		ctrl:      ctrl,
		engine:    engine,
		templates: templates,
		suggester: suggester,
		log:       log,
		apiKey:    apiKey,
		router:    chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Read endpoints
	s.router.Get("/api/v1/state", s.handleState)
	s.router.Get("/api/v1/history", s.handleHistory)
	s.router.Get("/api/v1/template/{day}", s.handleTemplate)

	// Mutating endpoints (API key required when configured)
	s.router.Group(func(r chi.Router) {
		if s.apiKey != "" {
			r.Use(APIKeyAuth(s.apiKey))
		}

		r.Post("/api/v1/day", s.handleSelectDay)
		r.Post("/api/v1/workout/log", s.handleLogWorkout)
		r.Post("/api/v1/workout/reset", s.handleResetWorkout)
		r.Put("/api/v1/workout", s.handleReplaceWorkout)

		r.Post("/api/v1/workout/exercises", s.handleAddExercise)
		r.Patch("/api/v1/workout/exercises/{id}", s.handleUpdateExercise)
		r.Delete("/api/v1/workout/exercises/{id}", s.handleRemoveExercise)
		r.Post("/api/v1/workout/exercises/{id}/sets", s.handleAddSet)
		r.Patch("/api/v1/workout/exercises/{id}/sets/{setID}", s.handleUpdateSet)
		r.Delete("/api/v1/workout/exercises/{id}/sets/{setID}", s.handleRemoveSet)

		r.Post("/api/v1/snapshot/save", s.handleSaveState)
		r.Post("/api/v1/snapshot/restore", s.handleRestoreWeekDay)
		r.Post("/api/v1/snapshot/populate", s.handlePopulate)

		r.Post("/api/v1/sync", s.handleSync)
		r.Post("/api/v1/suggest", s.handleSuggest)
	})
}
