package workout

import (
	"testing"

	"github.com/meltforce/repbook/internal/models"
)

// TestNormalizeForDisplayFillsIDs verifies that exercises and sets without
// ids get fresh ones, and existing ids are preserved.
func TestNormalizeForDisplayFillsIDs(t *testing.T) {
	in := []models.Exercise{{
		Name: "Squat",
		Sets: []models.Set{
			{ID: "keep-me", SetNumber: 1},
			{SetNumber: 2},
		},
	}}
	got := NormalizeForDisplay(in)
	if got[0].ID == "" {
		t.Error("exercise id not filled")
	}
	if got[0].Sets[0].ID != "keep-me" {
		t.Errorf("set id = %q, want keep-me", got[0].Sets[0].ID)
	}
	if got[0].Sets[1].ID == "" {
		t.Error("set id not filled")
	}
}

// TestNormalizeForDisplayIdempotent verifies that normalizing an already
// normalized workout changes nothing, ids included.
func TestNormalizeForDisplayIdempotent(t *testing.T) {
	reps := 5
	once := NormalizeForDisplay([]models.Exercise{{
		Name: "Bench Press",
		Tool: "Barbell",
		Sets: []models.Set{{SetNumber: 1, TargetWeight: "60", TargetReps: &reps, LoggedWeight: "60kg"}},
	}})
	twice := NormalizeForDisplay(once)
	if twice[0].ID != once[0].ID {
		t.Errorf("exercise id changed: %q -> %q", once[0].ID, twice[0].ID)
	}
	if twice[0].Sets[0].ID != once[0].Sets[0].ID {
		t.Errorf("set id changed: %q -> %q", once[0].Sets[0].ID, twice[0].Sets[0].ID)
	}
	if twice[0].Sets[0].LoggedWeight != "60kg" {
		t.Errorf("logged weight = %q, want 60kg", twice[0].Sets[0].LoggedWeight)
	}
}

// TestNormalizeForDisplayNoSharedMemory verifies that mutating the result
// does not leak into the input. The controller relies on this to keep the
// initial template snapshot immutable.
func TestNormalizeForDisplayNoSharedMemory(t *testing.T) {
	reps := 8
	in := []models.Exercise{{
		ID:   "ex1",
		Name: "Row",
		Sets: []models.Set{{ID: "s1", SetNumber: 1, TargetReps: &reps}},
	}}
	got := NormalizeForDisplay(in)
	got[0].Name = "changed"
	got[0].Sets[0].LoggedWeight = "100"
	*got[0].Sets[0].TargetReps = 99

	if in[0].Name != "Row" {
		t.Errorf("input name mutated to %q", in[0].Name)
	}
	if in[0].Sets[0].LoggedWeight != "" {
		t.Errorf("input logged weight mutated to %q", in[0].Sets[0].LoggedWeight)
	}
	if reps != 8 {
		t.Errorf("input target reps mutated to %d", reps)
	}
}

// TestCloneIndependence verifies that a clone shares no set slices or
// pointer fields with the original.
func TestCloneIndependence(t *testing.T) {
	reps := 10
	orig := []models.Exercise{{
		ID:   "ex1",
		Name: "Deadlift",
		Sets: []models.Set{{ID: "s1", SetNumber: 1, LoggedReps: &reps}},
	}}
	cl := Clone(orig)
	cl[0].Sets[0].IsCompleted = true
	*cl[0].Sets[0].LoggedReps = 1

	if orig[0].Sets[0].IsCompleted {
		t.Error("original set completed flag mutated through clone")
	}
	if reps != 10 {
		t.Errorf("original logged reps mutated to %d", reps)
	}
}

// TestRenumberContiguous verifies that after removal, set numbers are
// rewritten to 1..N preserving order.
func TestRenumberContiguous(t *testing.T) {
	sets := []models.Set{
		{ID: "a", SetNumber: 1},
		{ID: "c", SetNumber: 3},
		{ID: "d", SetNumber: 4},
	}
	Renumber(sets)
	for i, s := range sets {
		if s.SetNumber != i+1 {
			t.Errorf("set %s number = %d, want %d", s.ID, s.SetNumber, i+1)
		}
	}
}

// TestHasCompletedSet verifies the completed-set scan used to validate a
// workout before submission.
func TestHasCompletedSet(t *testing.T) {
	none := []models.Exercise{{Sets: []models.Set{{SetNumber: 1}}}}
	if HasCompletedSet(none) {
		t.Error("got true for workout with no completed sets")
	}
	one := []models.Exercise{{Sets: []models.Set{{SetNumber: 1}, {SetNumber: 2, IsCompleted: true}}}}
	if !HasCompletedSet(one) {
		t.Error("got false for workout with a completed set")
	}
}

// TestHasAnySet verifies the empty-workout validation.
func TestHasAnySet(t *testing.T) {
	if HasAnySet([]models.Exercise{{Name: "Empty"}}) {
		t.Error("got true for exercise with no sets")
	}
	if !HasAnySet([]models.Exercise{{Sets: []models.Set{{SetNumber: 1}}}}) {
		t.Error("got false for exercise with a set")
	}
}

// TestParseDecimal verifies the free-text weight coercion. Only clean
// numeric text parses; a trailing unit makes the entry non-numeric.
func TestParseDecimal(t *testing.T) {
	tests := []struct {
		input string
		want  *float64
	}{
		{"80", floatp(80)},
		{"82.5", floatp(82.5)},
		{" 90 ", floatp(90)},
		{"", nil},
		{"   ", nil},
		{"80kg", nil},
		{"bodyweight", nil},
	}
	for _, tt := range tests {
		got := ParseDecimal(tt.input)
		if (got == nil) != (tt.want == nil) {
			t.Errorf("ParseDecimal(%q) = %v, want %v", tt.input, got, tt.want)
			continue
		}
		if got != nil && *got != *tt.want {
			t.Errorf("ParseDecimal(%q) = %f, want %f", tt.input, *got, *tt.want)
		}
	}
}

// TestDefaultWorkout verifies the blank fallback structure: one placeholder
// exercise with a single empty set.
func TestDefaultWorkout(t *testing.T) {
	got := DefaultWorkout()
	if len(got) != 1 {
		t.Fatalf("exercises = %d, want 1", len(got))
	}
	if got[0].Name != "New Exercise" {
		t.Errorf("name = %q, want New Exercise", got[0].Name)
	}
	if len(got[0].Sets) != 1 || got[0].Sets[0].SetNumber != 1 {
		t.Errorf("sets = %+v, want single set numbered 1", got[0].Sets)
	}
	if got[0].ID == "" || got[0].Sets[0].ID == "" {
		t.Error("default workout missing ids")
	}
}

func floatp(v float64) *float64 { return &v }
