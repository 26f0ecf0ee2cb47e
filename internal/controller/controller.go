// Package controller is the page-level reconciliation state machine. It is
// the single owner of the in-memory workout and decides, on every trigger
// (day change, user action, restored snapshot), whether to fetch a template,
// populate from history, restore saved state, or suspend those actions
// because a competing operation is in flight.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/repbook/internal/models"
	"github.com/meltforce/repbook/internal/workout"
)

// Phase names the controller's current operation. Phases are mutually
// exclusive; a trigger that would start a second async operation while the
// controller is non-idle is ignored.
type Phase string

const (
	PhaseIdle            Phase = "idle"
	PhaseLoadingTemplate Phase = "loading-template"
	PhaseLogging         Phase = "logging"
	PhaseSavingState     Phase = "saving-state"
	PhaseLoadingHistory  Phase = "loading-history"
	PhaseLoadingWeekDay  Phase = "loading-specific-day"
	PhasePopulating      Phase = "populating-history"
)

var (
	// ErrBusy is returned when another operation holds the controller.
	ErrBusy = errors.New("controller: another operation is in progress")
	// ErrEmptyWorkout rejects logging a workout with no sets at all.
	ErrEmptyWorkout = errors.New("controller: add some exercises and sets first")
	// ErrNoCompletedSets rejects logging when nothing is marked completed.
	ErrNoCompletedSets = errors.New("controller: mark at least one set as completed")
	// ErrExerciseNotFound reports an unknown exercise id.
	ErrExerciseNotFound = errors.New("controller: exercise not found")
	// ErrSetNotFound reports an unknown set id.
	ErrSetNotFound = errors.New("controller: set not found")
)

// RemoteStore is the persistence adapter surface the controller needs.
type RemoteStore interface {
	FetchTemplate(ctx context.Context, day int) (*models.Template, error)
	FetchHistory(ctx context.Context) ([]models.HistoryEntry, error)
	SubmitWorkout(ctx context.Context, week, day int, submissionID uuid.UUID, exercises []models.Exercise) (int, error)
	GetSnapshot(ctx context.Context, owner string) (*models.Snapshot, error)
	PutSnapshot(ctx context.Context, owner string, snap *models.Snapshot) error
}

// StateStore is the local durable queue surface the controller needs.
type StateStore interface {
	Load() (*models.Snapshot, error)
	Save(patch models.SnapshotPatch) error
}

// Notifier carries user-visible notifications, distinct from logs.
type Notifier interface {
	Notify(title, detail string)
}

// LogNotifier routes notifications to slog. The default when no UI channel
// is attached.
type LogNotifier struct {
	Log *slog.Logger
}

func (n LogNotifier) Notify(title, detail string) {
	n.Log.Info("notify", "title", title, "detail", detail)
}

// Controller owns the in-memory workout and snapshot.
type Controller struct {
	remote RemoteStore
	local  StateStore
	owner  string
	notify Notifier
	log    *slog.Logger

	online atomic.Bool

	mu                sync.Mutex
	phase             Phase
	suppressNextFetch bool
	week, day         int
	current           []models.Exercise
	initial           []models.Exercise
	templateName      string
	history           []models.HistoryEntry
}

// New creates a Controller starting at week 1, day 1, idle.
func New(remote RemoteStore, local StateStore, owner string, notify Notifier, log *slog.Logger) *Controller {
	c := &Controller{
		remote: remote,
		local:  local,
		owner:  owner,
		notify: notify,
		log:    log,
		phase:  PhaseIdle,
		week:   1,
		day:    1,
	}
	return c
}

// SetOnline records the connectivity state reported by the monitor.
func (c *Controller) SetOnline(online bool) {
	c.online.Store(online)
}

// Online reports the last known connectivity state.
func (c *Controller) Online() bool {
	return c.online.Load()
}

// begin transitions idle → phase, or reports ErrBusy.
func (c *Controller) begin(p Phase) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseIdle {
		return ErrBusy
	}
	c.phase = p
	return nil
}

// end returns the controller to idle. Deferred by every phase-guarded
// operation so idle is restored on success, failure, or panic unwind.
func (c *Controller) end() {
	c.mu.Lock()
	c.phase = PhaseIdle
	c.mu.Unlock()
}

// SelectDay records a new week/day selection and evaluates the day-change
// transition: the template fetch is skipped while another operation is in
// flight, and skipped exactly once after a populate/restore transition set
// the suppression flag. Suppression is consumed only when it is observed,
// never by the busy path.
func (c *Controller) SelectDay(ctx context.Context, week, day int) error {
	c.mu.Lock()
	c.week = week
	c.day = day
	if c.phase != PhaseIdle {
		c.mu.Unlock()
		return nil
	}
	if c.suppressNextFetch {
		c.suppressNextFetch = false
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	return c.LoadTemplate(ctx)
}

// LoadTemplate fetches the selected day's template, pre-fills logged values
// from history, and replaces both the current workout and the immutable
// initial-template snapshot.
func (c *Controller) LoadTemplate(ctx context.Context) error {
	if err := c.begin(PhaseLoadingTemplate); err != nil {
		return err
	}
	defer c.end()

	c.mu.Lock()
	day := c.day
	history := c.history
	c.mu.Unlock()

	var exercises []models.Exercise
	var name string

	tpl, err := c.remote.FetchTemplate(ctx, day)
	switch {
	case err != nil:
		c.log.Warn("template fetch failed", "day", day, "error", err)
		c.notify.Notify("Error Loading Workout", "Could not load the workout template.")
		exercises = workout.DefaultWorkout()
		name = fmt.Sprintf("Day %d (Error Loading)", day)
	case tpl == nil:
		c.notify.Notify("No Template Found", fmt.Sprintf("Loaded blank structure for Day %d.", day))
		exercises = workout.DefaultWorkout()
		name = fmt.Sprintf("Day %d (Default Blank)", day)
	default:
		exercises = workout.NormalizeForDisplay(tpl.Exercises)
		name = tpl.Name
		c.notify.Notify("Template Loaded", name)
	}

	exercises = PopulateFromHistory(exercises, history, day)

	c.mu.Lock()
	c.current = exercises
	c.initial = workout.Clone(exercises)
	c.templateName = name
	c.mu.Unlock()
	return nil
}

// PopulateFromHistory pre-fills each template set's logged weight and reps
// from the most recent matching history entry (same exercise name, tool, and
// set number), narrowed to the most recent week that has entries for the
// selected day when one exists. Sets without a match keep blank values.
func PopulateFromHistory(exercises []models.Exercise, history []models.HistoryEntry, day int) []models.Exercise {
	if len(history) == 0 {
		return exercises
	}

	// History arrives most recent first; the first entry for this day names
	// the session week to narrow to.
	pool := history
	for _, h := range history {
		if h.Day == day {
			week := h.Week
			narrowed := make([]models.HistoryEntry, 0)
			for _, e := range history {
				if e.Day == day && e.Week == week {
					narrowed = append(narrowed, e)
				}
			}
			pool = narrowed
			break
		}
	}

	out := workout.Clone(exercises)
	for i := range out {
		for j := range out[i].Sets {
			set := &out[i].Sets[j]
			for _, h := range pool {
				if h.Exercise != out[i].Name {
					continue
				}
				if strOrEmpty(h.Tool) != out[i].Tool {
					continue
				}
				if h.SetNumber != set.SetNumber {
					continue
				}
				if h.Weight != nil {
					set.LoggedWeight = formatWeight(*h.Weight)
				}
				if h.Reps != nil {
					reps := *h.Reps
					set.LoggedReps = &reps
				}
				break
			}
		}
	}
	return out
}

// RefreshHistory refetches all history rows. On failure the previous cache
// is kept and the failure is surfaced as a notification, not an error.
func (c *Controller) RefreshHistory(ctx context.Context) error {
	if err := c.begin(PhaseLoadingHistory); err != nil {
		return err
	}
	defer c.end()

	entries, err := c.remote.FetchHistory(ctx)
	if err != nil {
		c.log.Warn("history fetch failed", "error", err)
		c.notify.Notify("Error Loading History", "Could not load workout history.")
		return nil
	}

	c.mu.Lock()
	c.history = entries
	c.mu.Unlock()
	return nil
}

// LogResult reports what happened to a log request.
type LogResult struct {
	Queued     bool `json:"queued"`
	LoggedSets int  `json:"loggedSets"`
}

// LogWorkout validates and submits the current workout. Preconditions (at
// least one set, at least one completed) are rejected locally before any
// remote call. When offline, or when the remote write fails, the submission
// is queued for the sync engine instead.
func (c *Controller) LogWorkout(ctx context.Context) (LogResult, error) {
	res, err := c.logWorkout(ctx)
	if err == nil && !res.Queued {
		if err := c.RefreshHistory(ctx); err != nil && !errors.Is(err, ErrBusy) {
			c.log.Warn("history refresh after log failed", "error", err)
		}
	}
	return res, err
}

func (c *Controller) logWorkout(ctx context.Context) (LogResult, error) {
	c.mu.Lock()
	if !workout.HasAnySet(c.current) {
		c.mu.Unlock()
		return LogResult{}, ErrEmptyWorkout
	}
	if !workout.HasCompletedSet(c.current) {
		c.mu.Unlock()
		return LogResult{}, ErrNoCompletedSets
	}
	c.mu.Unlock()

	if err := c.begin(PhaseLogging); err != nil {
		return LogResult{}, err
	}
	defer c.end()

	c.mu.Lock()
	week, day := c.week, c.day
	exercises := workout.NormalizeForPersistence(c.current)
	c.mu.Unlock()

	if !c.online.Load() {
		if err := c.enqueue(week, day, exercises); err != nil {
			return LogResult{}, err
		}
		c.notify.Notify("Offline", "Workout queued and will sync when you're back online.")
		return LogResult{Queued: true}, nil
	}

	count, err := c.remote.SubmitWorkout(ctx, week, day, uuid.New(), exercises)
	if err != nil {
		c.log.Warn("workout submit failed, queueing", "week", week, "day", day, "error", err)
		if qerr := c.enqueue(week, day, exercises); qerr != nil {
			return LogResult{}, qerr
		}
		c.notify.Notify("Logging Failed", "Could not reach the server; workout queued for retry.")
		return LogResult{Queued: true}, nil
	}

	c.notify.Notify("Workout Logged!",
		fmt.Sprintf("%d sets for Week %d, Day %d saved.", count, week, day))
	return LogResult{LoggedSets: count}, nil
}

func (c *Controller) enqueue(week, day int, exercises []models.Exercise) error {
	snap, err := c.local.Load()
	if err != nil {
		return fmt.Errorf("loading queue: %w", err)
	}
	var items []models.QueuedWorkout
	if snap != nil {
		items = snap.QueuedWorkouts
	}
	items = append(items, models.QueuedWorkout{
		SubmissionID: uuid.New(),
		Week:         week,
		Day:          day,
		Workout:      exercises,
		QueuedAt:     time.Now().UTC(),
	})
	if err := c.local.Save(models.SnapshotPatch{QueuedWorkouts: &items}); err != nil {
		return fmt.Errorf("queueing workout: %w", err)
	}
	return nil
}

// SaveState persists the working snapshot: always to the local store, and to
// the remote "Current State" slot when online. The pending queue is not part
// of the patch, so a save cannot clobber it.
func (c *Controller) SaveState(ctx context.Context) error {
	if err := c.begin(PhaseSavingState); err != nil {
		return err
	}
	defer c.end()

	c.mu.Lock()
	week, day := c.week, c.day
	name := c.templateName
	current := workout.NormalizeForPersistence(c.current)
	initial := workout.NormalizeForPersistence(c.initial)
	c.mu.Unlock()

	patch := models.SnapshotPatch{
		SelectedWeek:           &week,
		SelectedDay:            &day,
		CurrentWorkout:         &current,
		LoadedTemplateName:     &name,
		InitialTemplateWorkout: &initial,
	}
	if err := c.local.Save(patch); err != nil {
		c.notify.Notify("Save State Failed", "Could not save your current state.")
		return fmt.Errorf("saving local state: %w", err)
	}

	if c.online.Load() {
		snap := &models.Snapshot{
			SelectedWeek:           week,
			SelectedDay:            day,
			CurrentWorkout:         current,
			LoadedTemplateName:     name,
			InitialTemplateWorkout: initial,
		}
		if err := c.remote.PutSnapshot(ctx, c.owner, snap); err != nil {
			c.notify.Notify("Save State Failed", "Saved locally, but the server copy failed.")
			return fmt.Errorf("saving remote state: %w", err)
		}
	}

	c.notify.Notify("State Saved", "Your current progress has been saved.")
	return nil
}

// loadSnapshot reads the saved snapshot, preferring the local copy and
// falling back to the remote slot when online.
func (c *Controller) loadSnapshot(ctx context.Context) *models.Snapshot {
	snap, err := c.local.Load()
	if err != nil {
		c.log.Warn("local state load failed", "error", err)
	}
	if snap != nil {
		return snap
	}
	if !c.online.Load() {
		return nil
	}
	snap, err = c.remote.GetSnapshot(ctx, c.owner)
	if err != nil {
		c.log.Warn("remote state load failed", "error", err)
		return nil
	}
	return snap
}

// LoadWeekDay restores the saved week/day selection, then loads that day's
// template through the normal day-change path (suppression intentionally
// cleared: the restored day should fetch).
func (c *Controller) LoadWeekDay(ctx context.Context) error {
	if err := c.begin(PhaseLoadingWeekDay); err != nil {
		return err
	}

	snap := c.loadSnapshot(ctx)
	if snap == nil {
		c.end()
		c.notify.Notify("No Saved State", "No saved state found to load week/day from.")
		return nil
	}

	c.mu.Lock()
	c.week = snap.SelectedWeek
	c.day = snap.SelectedDay
	c.suppressNextFetch = false
	c.mu.Unlock()
	c.end()

	c.notify.Notify("Week & Day Loaded",
		fmt.Sprintf("Switched to Week %d, Day %d.", snap.SelectedWeek, snap.SelectedDay))
	return c.LoadTemplate(ctx)
}

// PopulateLoggedInfo restores the saved workout data onto the current day
// without changing the day selector, and arms the one-shot suppression so
// the next day-change evaluation does not overwrite the populated data with
// a fresh template fetch.
func (c *Controller) PopulateLoggedInfo(ctx context.Context) error {
	if err := c.begin(PhasePopulating); err != nil {
		return err
	}
	defer c.end()

	snap := c.loadSnapshot(ctx)
	if snap == nil || len(snap.CurrentWorkout) == 0 {
		c.notify.Notify("No Workout Data", "No saved workout data found to populate.")
		return nil
	}

	current := workout.NormalizeForDisplay(snap.CurrentWorkout)
	initial := workout.NormalizeForDisplay(snap.InitialTemplateWorkout)

	c.mu.Lock()
	c.current = current
	c.initial = initial
	c.templateName = snap.LoadedTemplateName
	c.suppressNextFetch = true
	c.mu.Unlock()

	c.notify.Notify("Workout Info Populated", "Logged data applied to the current day.")
	return nil
}

// ResetToTemplate discards edits and restores the initial template snapshot.
func (c *Controller) ResetToTemplate() {
	c.mu.Lock()
	if len(c.initial) > 0 {
		c.current = workout.Clone(c.initial)
	} else {
		c.current = workout.DefaultWorkout()
		c.initial = workout.Clone(c.current)
	}
	c.mu.Unlock()
	c.notify.Notify("Workout Reset", "Exercises reset to the loaded template.")
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// formatWeight renders a stored numeric weight the way the user would have
// typed it: no trailing zeros, no forced decimal point.
func formatWeight(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
