package storage

import (
	"testing"

	"github.com/meltforce/repbook/internal/models"
)

// TestFlattenCompletedOnlyCompletedSets verifies that incomplete sets
// produce no rows, and a workout with zero completed sets flattens to an
// empty slice.
func TestFlattenCompletedOnlyCompletedSets(t *testing.T) {
	reps := 5
	exercises := []models.Exercise{{
		Name: "Squat",
		Tool: "Barbell",
		Sets: []models.Set{
			{SetNumber: 1, LoggedWeight: "80", LoggedReps: &reps, IsCompleted: true},
			{SetNumber: 2, LoggedWeight: "85"},
		},
	}}
	got := FlattenCompleted(1, 2, exercises)
	if len(got) != 1 {
		t.Fatalf("rows = %d, want 1", len(got))
	}
	r := got[0]
	if r.Week != 1 || r.Day != 2 || r.Exercise != "Squat" || r.SetNumber != 1 {
		t.Errorf("row = %+v, want week 1 day 2 Squat set 1", r)
	}
	if r.Weight == nil || *r.Weight != 80 {
		t.Errorf("weight = %v, want 80", r.Weight)
	}
	if r.Reps == nil || *r.Reps != 5 {
		t.Errorf("reps = %v, want 5", r.Reps)
	}
	if r.Tool == nil || *r.Tool != "Barbell" {
		t.Errorf("tool = %v, want Barbell", r.Tool)
	}

	none := []models.Exercise{{Name: "Squat", Sets: []models.Set{{SetNumber: 1}}}}
	if got := FlattenCompleted(1, 2, none); len(got) != 0 {
		t.Errorf("rows = %d for zero completed sets, want 0", len(got))
	}
}

// TestFlattenCompletedNonNumericDegradesToNull verifies that free-text
// logged weight becomes a NULL weight rather than dropping the row.
func TestFlattenCompletedNonNumericDegradesToNull(t *testing.T) {
	exercises := []models.Exercise{{
		Name: "Pull Up",
		Sets: []models.Set{{SetNumber: 1, LoggedWeight: "bodyweight", IsCompleted: true}},
	}}
	got := FlattenCompleted(3, 1, exercises)
	if len(got) != 1 {
		t.Fatalf("rows = %d, want 1", len(got))
	}
	if got[0].Weight != nil {
		t.Errorf("weight = %v, want nil", got[0].Weight)
	}
	if got[0].Reps != nil {
		t.Errorf("reps = %v, want nil", got[0].Reps)
	}
	if got[0].TargetGroup != nil {
		t.Errorf("target group = %v, want nil for blank", got[0].TargetGroup)
	}
}

// TestFlattenCompletedSeqIsContiguous verifies that seq numbers run 1..N in
// flattening order across exercises. Seq pairs with the submission id for
// replay idempotency, so it must be stable for the same workout.
func TestFlattenCompletedSeqIsContiguous(t *testing.T) {
	exercises := []models.Exercise{
		{Name: "Squat", Sets: []models.Set{
			{SetNumber: 1, IsCompleted: true},
			{SetNumber: 2, IsCompleted: true},
		}},
		{Name: "Lunge", Sets: []models.Set{
			{SetNumber: 1},
			{SetNumber: 2, IsCompleted: true},
		}},
	}
	got := FlattenCompleted(1, 1, exercises)
	if len(got) != 3 {
		t.Fatalf("rows = %d, want 3", len(got))
	}
	for i, r := range got {
		if r.Seq != i+1 {
			t.Errorf("row %d seq = %d, want %d", i, r.Seq, i+1)
		}
	}
	if got[2].Exercise != "Lunge" || got[2].SetNumber != 2 {
		t.Errorf("last row = %+v, want Lunge set 2", got[2])
	}
}
