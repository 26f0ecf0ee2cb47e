package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/repbook/internal/controller"
	"github.com/meltforce/repbook/internal/suggest"
	"github.com/meltforce/repbook/internal/workout"
)

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	state := s.ctrl.State()
	writeJSON(w, http.StatusOK, map[string]any{
		"week":         state.Week,
		"day":          state.Day,
		"phase":        state.Phase,
		"online":       state.Online,
		"templateName": state.TemplateName,
		"workout":      state.Workout,
		"pendingSync":  state.PendingSync,
		"syncing":      s.engine.Draining(),
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ctrl.History())
}

func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	day, err := strconv.Atoi(chi.URLParam(r, "day"))
	if err != nil || day < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid day"})
		return
	}

	tpl, err := s.templates.FetchTemplate(r.Context(), day)
	if err != nil {
		s.log.Warn("template fetch failed", "day", day, "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "template fetch failed"})
		return
	}
	if tpl == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no template for day"})
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}

func (s *Server) handleSelectDay(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Week int `json:"week"`
		Day  int `json:"day"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Week < 1 || req.Day < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "week and day must be positive"})
		return
	}

	if err := s.ctrl.SelectDay(r.Context(), req.Week, req.Day); err != nil {
		s.writeControllerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.ctrl.State())
}

func (s *Server) handleLogWorkout(w http.ResponseWriter, r *http.Request) {
	res, err := s.ctrl.LogWorkout(r.Context())
	if err != nil {
		s.writeControllerError(w, err)
		return
	}
	if res.Queued {
		writeJSON(w, http.StatusAccepted, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleResetWorkout(w http.ResponseWriter, r *http.Request) {
	s.ctrl.ResetToTemplate()
	writeJSON(w, http.StatusOK, s.ctrl.State())
}

func (s *Server) handleReplaceWorkout(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reading body: " + err.Error()})
		return
	}
	exercises := workout.Decode(body)
	if exercises == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid workout document"})
		return
	}
	s.ctrl.ReplaceWorkout(exercises)
	writeJSON(w, http.StatusOK, s.ctrl.State())
}

func (s *Server) handleAddExercise(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, s.ctrl.AddExercise())
}

func (s *Server) handleUpdateExercise(w http.ResponseWriter, r *http.Request) {
	var upd controller.ExerciseUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if err := s.ctrl.UpdateExercise(chi.URLParam(r, "id"), upd); err != nil {
		s.writeControllerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.ctrl.State())
}

func (s *Server) handleRemoveExercise(w http.ResponseWriter, r *http.Request) {
	if err := s.ctrl.RemoveExercise(chi.URLParam(r, "id")); err != nil {
		s.writeControllerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.ctrl.State())
}

func (s *Server) handleAddSet(w http.ResponseWriter, r *http.Request) {
	set, err := s.ctrl.AddSet(chi.URLParam(r, "id"))
	if err != nil {
		s.writeControllerError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, set)
}

func (s *Server) handleUpdateSet(w http.ResponseWriter, r *http.Request) {
	var upd controller.SetUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if err := s.ctrl.UpdateSet(chi.URLParam(r, "id"), chi.URLParam(r, "setID"), upd); err != nil {
		s.writeControllerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.ctrl.State())
}

func (s *Server) handleRemoveSet(w http.ResponseWriter, r *http.Request) {
	if err := s.ctrl.RemoveSet(chi.URLParam(r, "id"), chi.URLParam(r, "setID")); err != nil {
		s.writeControllerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.ctrl.State())
}

func (s *Server) handleSaveState(w http.ResponseWriter, r *http.Request) {
	if err := s.ctrl.SaveState(r.Context()); err != nil {
		s.writeControllerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"saved": true})
}

func (s *Server) handleRestoreWeekDay(w http.ResponseWriter, r *http.Request) {
	if err := s.ctrl.LoadWeekDay(r.Context()); err != nil {
		s.writeControllerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.ctrl.State())
}

func (s *Server) handlePopulate(w http.ResponseWriter, r *http.Request) {
	if err := s.ctrl.PopulateLoggedInfo(r.Context()); err != nil {
		s.writeControllerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.ctrl.State())
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	res, err := s.engine.Drain(r.Context())
	if err != nil {
		s.log.Error("drain failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TargetMuscleGroup string `json:"targetMuscleGroup"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.TargetMuscleGroup == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "targetMuscleGroup required"})
		return
	}
	if s.suggester == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "suggestions not configured"})
		return
	}

	out, err := s.suggester.Suggest(r.Context(), suggest.Request{
		WorkoutHistory:    suggest.SummarizeHistory(s.ctrl.History(), 100),
		TargetMuscleGroup: req.TargetMuscleGroup,
	})
	if err != nil {
		s.log.Error("suggestion failed", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "suggestion unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// writeControllerError maps controller errors onto HTTP statuses: busy is a
// conflict, validation failures are unprocessable, unknown ids are 404.
func (s *Server) writeControllerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, controller.ErrBusy):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, controller.ErrEmptyWorkout),
		errors.Is(err, controller.ErrNoCompletedSets):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	case errors.Is(err, controller.ErrExerciseNotFound),
		errors.Is(err, controller.ErrSetNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		s.log.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
