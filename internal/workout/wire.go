package workout

import (
	"encoding/json"

	"github.com/meltforce/repbook/internal/models"
)

// RawSet is the tolerant wire shape of a set. Weight and rep fields accept
// strings, numbers, or null; anything unparsable degrades to blank.
type RawSet struct {
	ID           string            `json:"id"`
	SetNumber    models.FlexInt    `json:"setNumber"`
	TargetWeight models.FlexString `json:"targetWeight"`
	TargetReps   models.FlexInt    `json:"targetReps"`
	LoggedWeight models.FlexString `json:"loggedWeight"`
	LoggedReps   models.FlexInt    `json:"loggedReps"`
	IsCompleted  models.FlexBool   `json:"isCompleted"`
	Notes        string            `json:"notes"`
}

// RawExercise is the tolerant wire shape of an exercise.
type RawExercise struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Tool              string   `json:"tool"`
	TargetMuscleGroup string   `json:"targetMuscleGroup"`
	Sets              []RawSet `json:"sets"`
}

// Decode parses a loosely-typed workout document into canonical exercises.
// This is the single boundary where duck-typed JSON enters the system. A
// document that is not an array of objects returns nil; an empty or null
// array decodes as an empty workout.
func Decode(data []byte) []models.Exercise {
	var raw []RawExercise
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	return FromRaw(raw)
}

// FromRaw converts wire exercises into canonical form. Ids are left as-is;
// NormalizeForDisplay fills the blanks.
func FromRaw(raw []RawExercise) []models.Exercise {
	out := make([]models.Exercise, 0, len(raw))
	for _, re := range raw {
		ex := models.Exercise{
			ID:                re.ID,
			Name:              re.Name,
			Tool:              re.Tool,
			TargetMuscleGroup: re.TargetMuscleGroup,
			Sets:              make([]models.Set, 0, len(re.Sets)),
		}
		for i, rs := range re.Sets {
			num := i + 1
			if n := rs.SetNumber.Ptr(); n != nil && *n > 0 {
				num = *n
			}
			ex.Sets = append(ex.Sets, models.Set{
				ID:           rs.ID,
				SetNumber:    num,
				TargetWeight: rs.TargetWeight.String(),
				TargetReps:   rs.TargetReps.Ptr(),
				LoggedWeight: rs.LoggedWeight.String(),
				LoggedReps:   rs.LoggedReps.Ptr(),
				IsCompleted:  bool(rs.IsCompleted),
				Notes:        rs.Notes,
			})
		}
		out = append(out, ex)
	}
	return out
}
