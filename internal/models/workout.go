package models

// Set is one logged or planned set within an exercise. Logged weight is a
// free-text string so unit-bearing entries ("80kg", "BW+10") survive the
// round trip; logged reps are nil while blank.
type Set struct {
	ID           string `json:"id"`
	SetNumber    int    `json:"setNumber"`
	TargetWeight string `json:"targetWeight"`
	TargetReps   *int   `json:"targetReps,omitempty"`
	LoggedWeight string `json:"loggedWeight"`
	LoggedReps   *int   `json:"loggedReps"`
	IsCompleted  bool   `json:"isCompleted"`
	Notes        string `json:"notes"`
}

// Exercise is a named movement with an ordered sequence of sets.
type Exercise struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Tool              string `json:"tool"`
	TargetMuscleGroup string `json:"targetMuscleGroup"`
	Sets              []Set  `json:"sets"`
}

// Template is the canonical exercise/set structure for a day-of-cycle,
// independent of week.
type Template struct {
	Name      string     `json:"name"`
	Day       int        `json:"day"`
	Exercises []Exercise `json:"exercises"`
}

// HistoryEntry is one persisted row of the "Workout History" table.
// Immutable once written; most recent rows come first when fetched.
type HistoryEntry struct {
	ID          int64    `json:"id"`
	Week        int      `json:"week"`
	Day         int      `json:"day"`
	TargetGroup *string  `json:"targetGroup"`
	Exercise    string   `json:"exercise"`
	SetNumber   int      `json:"setNumber"`
	Weight      *float64 `json:"weight"`
	Reps        *int     `json:"reps"`
	Completed   bool     `json:"completed"`
	Tool        *string  `json:"tool"`
}
