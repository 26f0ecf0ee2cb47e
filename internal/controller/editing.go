package controller

import (
	"github.com/google/uuid"
	"github.com/meltforce/repbook/internal/models"
	"github.com/meltforce/repbook/internal/workout"
)

// Editing operations mutate the in-memory workout synchronously under the
// controller lock. They do not take a phase: the original UI allowed edits
// regardless of background fetches, and last-write-wins is the accepted
// model for the single writer.

// State is a read-only view of the controller for status endpoints.
type State struct {
	Week         int               `json:"week"`
	Day          int               `json:"day"`
	Phase        Phase             `json:"phase"`
	Online       bool              `json:"online"`
	TemplateName string            `json:"templateName"`
	Workout      []models.Exercise `json:"workout"`
	PendingSync  int               `json:"pendingSync"`
}

// State returns a deep-copied view of the current controller state.
func (c *Controller) State() State {
	c.mu.Lock()
	s := State{
		Week:         c.week,
		Day:          c.day,
		Phase:        c.phase,
		TemplateName: c.templateName,
		Workout:      workout.Clone(c.current),
	}
	c.mu.Unlock()

	s.Online = c.online.Load()
	if snap, err := c.local.Load(); err == nil && snap != nil {
		s.PendingSync = len(snap.QueuedWorkouts)
	}
	return s
}

// History returns the cached history rows, most recent first.
func (c *Controller) History() []models.HistoryEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.HistoryEntry, len(c.history))
	copy(out, c.history)
	return out
}

// ReplaceWorkout swaps in a whole new current workout, normalized.
func (c *Controller) ReplaceWorkout(exercises []models.Exercise) {
	normalized := workout.NormalizeForDisplay(exercises)
	c.mu.Lock()
	c.current = normalized
	c.mu.Unlock()
}

// AddExercise appends a blank exercise with one set and returns it.
func (c *Controller) AddExercise() models.Exercise {
	ex := models.Exercise{
		ID:   uuid.NewString(),
		Name: "New Exercise",
		Sets: []models.Set{{
			ID:        uuid.NewString(),
			SetNumber: 1,
		}},
	}
	c.mu.Lock()
	c.current = append(c.current, ex)
	c.mu.Unlock()
	return ex
}

// RemoveExercise deletes an exercise by id.
func (c *Controller) RemoveExercise(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, ex := range c.current {
		if ex.ID == id {
			c.current = append(c.current[:i], c.current[i+1:]...)
			return nil
		}
	}
	return ErrExerciseNotFound
}

// ExerciseUpdate is a partial update to an exercise's own fields.
type ExerciseUpdate struct {
	Name              *string `json:"name"`
	Tool              *string `json:"tool"`
	TargetMuscleGroup *string `json:"targetMuscleGroup"`
}

// UpdateExercise applies a partial update to an exercise.
func (c *Controller) UpdateExercise(id string, upd ExerciseUpdate) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	ex := c.findExercise(id)
	if ex == nil {
		return ErrExerciseNotFound
	}
	if upd.Name != nil {
		ex.Name = *upd.Name
	}
	if upd.Tool != nil {
		ex.Tool = *upd.Tool
	}
	if upd.TargetMuscleGroup != nil {
		ex.TargetMuscleGroup = *upd.TargetMuscleGroup
	}
	return nil
}

// AddSet appends a set to an exercise, numbered after the last.
func (c *Controller) AddSet(exerciseID string) (models.Set, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ex := c.findExercise(exerciseID)
	if ex == nil {
		return models.Set{}, ErrExerciseNotFound
	}
	s := models.Set{
		ID:        uuid.NewString(),
		SetNumber: len(ex.Sets) + 1,
	}
	ex.Sets = append(ex.Sets, s)
	return s, nil
}

// RemoveSet deletes a set and renumbers the remainder to a contiguous 1..N.
func (c *Controller) RemoveSet(exerciseID, setID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	ex := c.findExercise(exerciseID)
	if ex == nil {
		return ErrExerciseNotFound
	}
	for i, s := range ex.Sets {
		if s.ID == setID {
			ex.Sets = append(ex.Sets[:i], ex.Sets[i+1:]...)
			workout.Renumber(ex.Sets)
			return nil
		}
	}
	return ErrSetNotFound
}

// SetUpdate is a partial update to a set. Flex fields tolerate string or
// numeric JSON input; absent fields are left untouched.
type SetUpdate struct {
	TargetWeight *models.FlexString `json:"targetWeight"`
	TargetReps   *models.FlexInt    `json:"targetReps"`
	LoggedWeight *models.FlexString `json:"loggedWeight"`
	LoggedReps   *models.FlexInt    `json:"loggedReps"`
	IsCompleted  *bool              `json:"isCompleted"`
	Notes        *string            `json:"notes"`
}

// UpdateSet applies a partial update to a set.
func (c *Controller) UpdateSet(exerciseID, setID string, upd SetUpdate) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	ex := c.findExercise(exerciseID)
	if ex == nil {
		return ErrExerciseNotFound
	}
	for i := range ex.Sets {
		s := &ex.Sets[i]
		if s.ID != setID {
			continue
		}
		if upd.TargetWeight != nil {
			s.TargetWeight = upd.TargetWeight.String()
		}
		if upd.TargetReps != nil {
			s.TargetReps = upd.TargetReps.Ptr()
		}
		if upd.LoggedWeight != nil {
			s.LoggedWeight = upd.LoggedWeight.String()
		}
		if upd.LoggedReps != nil {
			s.LoggedReps = upd.LoggedReps.Ptr()
		}
		if upd.IsCompleted != nil {
			s.IsCompleted = *upd.IsCompleted
		}
		if upd.Notes != nil {
			s.Notes = *upd.Notes
		}
		return nil
	}
	return ErrSetNotFound
}

// findExercise returns a pointer into c.current. Caller holds the lock.
func (c *Controller) findExercise(id string) *models.Exercise {
	for i := range c.current {
		if c.current[i].ID == id {
			return &c.current[i]
		}
	}
	return nil
}
