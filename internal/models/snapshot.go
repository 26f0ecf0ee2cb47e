package models

import (
	"time"

	"github.com/google/uuid"
)

// QueuedWorkout is a pending submission awaiting replay against the remote
// store. SubmissionID is the client-generated idempotency key: replaying the
// same submission twice inserts nothing the second time.
type QueuedWorkout struct {
	SubmissionID uuid.UUID  `json:"submissionId"`
	Week         int        `json:"week"`
	Day          int        `json:"day"`
	Workout      []Exercise `json:"workout"`
	QueuedAt     time.Time  `json:"queuedAt"`
}

// Snapshot is the full serializable app state persisted for resume. Exactly
// one snapshot exists per owner; it is overwritten wholesale on save.
type Snapshot struct {
	SelectedWeek           int             `json:"selectedWeek"`
	SelectedDay            int             `json:"selectedDay"`
	CurrentWorkout         []Exercise      `json:"currentWorkout"`
	LoadedTemplateName     string          `json:"loadedTemplateName,omitempty"`
	InitialTemplateWorkout []Exercise      `json:"initialTemplateWorkout"`
	QueuedWorkouts         []QueuedWorkout `json:"queuedWorkouts,omitempty"`
}

// SnapshotPatch is a partial snapshot update. Nil fields are left untouched
// by a merge-save, so callers can update the queue without clobbering the
// working workout, and vice versa.
type SnapshotPatch struct {
	SelectedWeek           *int
	SelectedDay            *int
	CurrentWorkout         *[]Exercise
	LoadedTemplateName     *string
	InitialTemplateWorkout *[]Exercise
	QueuedWorkouts         *[]QueuedWorkout
}

// Apply merges the patch into the snapshot.
func (p SnapshotPatch) Apply(s *Snapshot) {
	if p.SelectedWeek != nil {
		s.SelectedWeek = *p.SelectedWeek
	}
	if p.SelectedDay != nil {
		s.SelectedDay = *p.SelectedDay
	}
	if p.CurrentWorkout != nil {
		s.CurrentWorkout = *p.CurrentWorkout
	}
	if p.LoadedTemplateName != nil {
		s.LoadedTemplateName = *p.LoadedTemplateName
	}
	if p.InitialTemplateWorkout != nil {
		s.InitialTemplateWorkout = *p.InitialTemplateWorkout
	}
	if p.QueuedWorkouts != nil {
		s.QueuedWorkouts = *p.QueuedWorkouts
	}
}
