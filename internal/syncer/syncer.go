// Package syncer drains the local queue of offline workout submissions
// against the remote store whenever connectivity is restored. Delivery is
// at-least-once; the client-generated submission ids make replays harmless.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/meltforce/repbook/internal/controller"
	"github.com/meltforce/repbook/internal/models"
)

// Remote is the submission surface of the persistence adapter.
type Remote interface {
	SubmitWorkout(ctx context.Context, week, day int, submissionID uuid.UUID, exercises []models.Exercise) (int, error)
}

// QueueStore is the pending-queue surface of the local durable store.
type QueueStore interface {
	Queue() ([]models.QueuedWorkout, error)
	ReplaceQueue(items []models.QueuedWorkout) error
}

// HistoryRefresher refetches history after a drain so newly-synced entries
// become visible.
type HistoryRefresher interface {
	RefreshHistory(ctx context.Context) error
}

// Engine replays queued submissions. It runs independently of the
// controller's phase; re-entry is guarded only by the draining flag.
type Engine struct {
	remote    Remote
	queue     QueueStore
	refresher HistoryRefresher
	notify    controller.Notifier
	log       *slog.Logger

	online   atomic.Bool
	draining atomic.Bool
}

// New creates an Engine. refresher may be nil in tests.
func New(remote Remote, queue QueueStore, refresher HistoryRefresher, notify controller.Notifier, log *slog.Logger) *Engine {
	return &Engine{
		remote:    remote,
		queue:     queue,
		refresher: refresher,
		notify:    notify,
		log:       log,
	}
}

// SetOnline records connectivity as reported by the monitor.
func (e *Engine) SetOnline(online bool) {
	e.online.Store(online)
}

// Draining reports whether a drain is in progress.
func (e *Engine) Draining() bool {
	return e.draining.Load()
}

// Result summarizes one drain.
type Result struct {
	Attempted int `json:"attempted"`
	Synced    int `json:"synced"`
	Failed    int `json:"failed"`
}

// Drain replays every queued submission, partitions successes from failures,
// and writes the failed remainder back as the entire new queue — replacing,
// never appending, so items removed earlier in the same drain cannot run
// twice. No-ops when offline, when the queue is empty, or when another drain
// is already running. Partial failure is reported as a count, not an error.
func (e *Engine) Drain(ctx context.Context) (Result, error) {
	if !e.online.Load() {
		return Result{}, nil
	}
	if !e.draining.CompareAndSwap(false, true) {
		return Result{}, nil
	}
	defer e.draining.Store(false)

	items, err := e.queue.Queue()
	if err != nil {
		return Result{}, fmt.Errorf("reading sync queue: %w", err)
	}
	if len(items) == 0 {
		return Result{}, nil
	}

	e.log.Info("draining sync queue", "pending", len(items))

	var failed []models.QueuedWorkout
	synced := 0
	for _, q := range items {
		if _, err := e.remote.SubmitWorkout(ctx, q.Week, q.Day, q.SubmissionID, q.Workout); err != nil {
			e.log.Warn("queued submission failed",
				"submission", q.SubmissionID,
				"week", q.Week,
				"day", q.Day,
				"error", err,
			)
			failed = append(failed, q)
			continue
		}
		synced++
	}

	if err := e.queue.ReplaceQueue(failed); err != nil {
		return Result{Attempted: len(items), Synced: synced, Failed: len(failed)},
			fmt.Errorf("writing back sync queue: %w", err)
	}

	if len(failed) > 0 {
		e.notify.Notify("Partial Sync",
			fmt.Sprintf("%d workout(s) synced, %d could not be synced and will retry later.", synced, len(failed)))
	} else {
		e.notify.Notify("Synced", fmt.Sprintf("%d offline workout(s) synced.", synced))
	}

	if e.refresher != nil {
		if err := e.refresher.RefreshHistory(ctx); err != nil && !errors.Is(err, controller.ErrBusy) {
			e.log.Warn("history refresh after drain failed", "error", err)
		}
	}

	return Result{Attempted: len(items), Synced: synced, Failed: len(failed)}, nil
}
