package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/meltforce/repbook/internal/models"
)

// TemplateRow is one row of the "Templates" table: a single planned set.
type TemplateRow struct {
	Exercise string
	Tool     *string
}

// FetchTemplate loads the exercise structure for a day. Rows are grouped
// into exercises keyed by (exercise, tool) in first-seen order, each row
// contributing one set. Returns (nil, nil) when the day has no template.
func (db *DB) FetchTemplate(ctx context.Context, day int) (*models.Template, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT "Exercise", "Tool" FROM "Templates" WHERE "Day" = $1 ORDER BY id`,
		day)
	if err != nil {
		return nil, fmt.Errorf("querying templates: %w", err)
	}
	defer rows.Close()

	var raw []TemplateRow
	for rows.Next() {
		var r TemplateRow
		if err := rows.Scan(&r.Exercise, &r.Tool); err != nil {
			return nil, fmt.Errorf("scanning template row: %w", err)
		}
		raw = append(raw, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return GroupTemplateRows(day, raw), nil
}

// GroupTemplateRows assembles flat template rows into a Template. Exported
// for tests; FetchTemplate is a thin query wrapper around it.
func GroupTemplateRows(day int, raw []TemplateRow) *models.Template {
	if len(raw) == 0 {
		return nil
	}

	index := map[string]int{}
	var exercises []models.Exercise

	for _, r := range raw {
		tool := ""
		if r.Tool != nil {
			tool = *r.Tool
		}
		key := r.Exercise + "\x00" + tool

		i, ok := index[key]
		if !ok {
			i = len(exercises)
			index[key] = i
			exercises = append(exercises, models.Exercise{
				ID:   uuid.NewString(),
				Name: r.Exercise,
				Tool: tool,
			})
		}
		exercises[i].Sets = append(exercises[i].Sets, models.Set{
			ID:        uuid.NewString(),
			SetNumber: len(exercises[i].Sets) + 1,
		})
	}

	return &models.Template{
		Name:      fmt.Sprintf("Day %d Workout", day),
		Day:       day,
		Exercises: exercises,
	}
}
