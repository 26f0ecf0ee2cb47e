// Package workout holds the pure functions that coerce loosely-typed
// exercise records into the one canonical in-memory shape, in both
// directions: load-time and persist-time.
package workout

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/meltforce/repbook/internal/models"
)

// NormalizeForDisplay coerces exercises into canonical display form: every
// exercise and set gets a non-empty id, optional text fields default to "",
// and logged weight keeps whatever text the user typed. The result shares no
// memory with the input, and the function is idempotent: applying it twice
// equals applying it once.
func NormalizeForDisplay(exercises []models.Exercise) []models.Exercise {
	out := make([]models.Exercise, 0, len(exercises))
	for _, ex := range exercises {
		n := models.Exercise{
			ID:                ex.ID,
			Name:              ex.Name,
			Tool:              ex.Tool,
			TargetMuscleGroup: ex.TargetMuscleGroup,
			Sets:              make([]models.Set, 0, len(ex.Sets)),
		}
		if n.ID == "" {
			n.ID = uuid.NewString()
		}
		for _, s := range ex.Sets {
			ns := models.Set{
				ID:           s.ID,
				SetNumber:    s.SetNumber,
				TargetWeight: s.TargetWeight,
				TargetReps:   copyInt(s.TargetReps),
				LoggedWeight: s.LoggedWeight,
				LoggedReps:   copyInt(s.LoggedReps),
				IsCompleted:  s.IsCompleted,
				Notes:        s.Notes,
			}
			if ns.ID == "" {
				ns.ID = uuid.NewString()
			}
			n.Sets = append(n.Sets, ns)
		}
		out = append(out, n)
	}
	return out
}

// NormalizeForPersistence applies the same coercions as NormalizeForDisplay
// and guarantees the result is plain data with no references shared with
// live state, so it can be serialized safely.
func NormalizeForPersistence(exercises []models.Exercise) []models.Exercise {
	return NormalizeForDisplay(exercises)
}

// Clone deep-copies a workout without altering any field. Used for the
// immutable initial-template snapshot and for reset.
func Clone(exercises []models.Exercise) []models.Exercise {
	out := make([]models.Exercise, 0, len(exercises))
	for _, ex := range exercises {
		n := ex
		n.Sets = make([]models.Set, 0, len(ex.Sets))
		for _, s := range ex.Sets {
			ns := s
			ns.TargetReps = copyInt(s.TargetReps)
			ns.LoggedReps = copyInt(s.LoggedReps)
			n.Sets = append(n.Sets, ns)
		}
		out = append(out, n)
	}
	return out
}

// Renumber rewrites set numbers to a contiguous 1..N sequence in place,
// preserving order. Called after a set is removed.
func Renumber(sets []models.Set) {
	for i := range sets {
		sets[i].SetNumber = i + 1
	}
}

// HasAnySet reports whether at least one exercise has at least one set.
func HasAnySet(exercises []models.Exercise) bool {
	for _, ex := range exercises {
		if len(ex.Sets) > 0 {
			return true
		}
	}
	return false
}

// HasCompletedSet reports whether any set is marked completed.
func HasCompletedSet(exercises []models.Exercise) bool {
	for _, ex := range exercises {
		for _, s := range ex.Sets {
			if s.IsCompleted {
				return true
			}
		}
	}
	return false
}

// ParseDecimal parses a free-text weight or rep entry into a number.
// Returns nil for blank or non-numeric text; a trailing unit ("80kg") does
// not make the whole entry numeric.
func ParseDecimal(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// DefaultWorkout returns the blank single-exercise structure used when no
// template exists for a day.
func DefaultWorkout() []models.Exercise {
	return []models.Exercise{{
		ID:   uuid.NewString(),
		Name: "New Exercise",
		Sets: []models.Set{{
			ID:        uuid.NewString(),
			SetNumber: 1,
		}},
	}}
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
