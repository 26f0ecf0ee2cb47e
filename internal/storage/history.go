package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/meltforce/repbook/internal/models"
	"github.com/meltforce/repbook/internal/workout"
)

// FetchHistory returns all "Workout History" rows, most recent first.
func (db *DB) FetchHistory(ctx context.Context) ([]models.HistoryEntry, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, "Week", "Day", "Target Group", "Exercise", "Set Number",
		 "Weight", "Reps", "Completed", "Tool"
		 FROM "Workout History"
		 ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying workout history: %w", err)
	}
	defer rows.Close()

	var result []models.HistoryEntry
	for rows.Next() {
		var e models.HistoryEntry
		if err := rows.Scan(&e.ID, &e.Week, &e.Day, &e.TargetGroup, &e.Exercise,
			&e.SetNumber, &e.Weight, &e.Reps, &e.Completed, &e.Tool); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// HistoryInsert is one flattened completed set ready for insertion.
type HistoryInsert struct {
	Week        int
	Day         int
	TargetGroup *string
	Exercise    string
	SetNumber   int
	Weight      *float64
	Reps        *int
	Tool        *string
	Seq         int
}

// FlattenCompleted converts a workout into history rows, one per completed
// set. Non-numeric weight or rep text becomes NULL rather than failing the
// row. Seq is assigned in flattening order and pairs with the submission id
// to make replays idempotent.
func FlattenCompleted(week, day int, exercises []models.Exercise) []HistoryInsert {
	var out []HistoryInsert
	for _, ex := range exercises {
		for _, s := range ex.Sets {
			if !s.IsCompleted {
				continue
			}
			out = append(out, HistoryInsert{
				Week:        week,
				Day:         day,
				TargetGroup: nullIfEmpty(ex.TargetMuscleGroup),
				Exercise:    ex.Name,
				SetNumber:   s.SetNumber,
				Weight:      workout.ParseDecimal(s.LoggedWeight),
				Reps:        copyIntPtr(s.LoggedReps),
				Tool:        nullIfEmpty(ex.Tool),
				Seq:         len(out) + 1,
			})
		}
	}
	return out
}

// SubmitWorkout flattens completed sets into "Workout History" rows and
// inserts them in one batch. Zero completed sets is a successful no-op with
// no remote write. The (submission_id, seq) unique index plus ON CONFLICT DO
// NOTHING makes a replayed submission insert nothing the second time.
func (db *DB) SubmitWorkout(ctx context.Context, week, day int, submissionID uuid.UUID, exercises []models.Exercise) (int, error) {
	inserts := FlattenCompleted(week, day, exercises)
	if len(inserts) == 0 {
		return 0, nil
	}

	query := `INSERT INTO "Workout History"
		("Week", "Day", "Target Group", "Exercise", "Set Number", "Weight", "Reps", "Completed", "Tool", submission_id, seq) VALUES `
	args := make([]any, 0, len(inserts)*11)
	valueStrings := make([]string, 0, len(inserts))

	for i, r := range inserts {
		base := i * 11
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9, base+10, base+11,
		))
		args = append(args, r.Week, r.Day, r.TargetGroup, r.Exercise, r.SetNumber,
			r.Weight, r.Reps, true, r.Tool, submissionID, r.Seq)
	}

	query += strings.Join(valueStrings, ",") + " ON CONFLICT (submission_id, seq) DO NOTHING"

	if _, err := db.Pool.Exec(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("inserting workout history: %w", err)
	}
	return len(inserts), nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func copyIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
