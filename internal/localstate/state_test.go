package localstate

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/meltforce/repbook/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir(), "local")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// TestLoadMissingRow verifies that an empty store loads as (nil, nil), not
// an error.
func TestLoadMissingRow(t *testing.T) {
	s := openTestStore(t)
	snap, err := s.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap != nil {
		t.Errorf("got %+v, want nil", snap)
	}
}

// TestSaveAndLoadRoundTrip verifies that a full snapshot survives a
// save/load cycle.
func TestSaveAndLoadRoundTrip(t *testing.T) {
	s := openTestStore(t)
	week, day := 2, 3
	name := "Day 3 Workout"
	workout := []models.Exercise{{
		ID:   "ex1",
		Name: "Squat",
		Tool: "Barbell",
		Sets: []models.Set{{ID: "s1", SetNumber: 1, TargetWeight: "80"}},
	}}
	err := s.Save(models.SnapshotPatch{
		SelectedWeek:       &week,
		SelectedDay:        &day,
		CurrentWorkout:     &workout,
		LoadedTemplateName: &name,
	})
	if err != nil {
		t.Fatalf("save error: %v", err)
	}

	snap, err := s.Load()
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if snap == nil {
		t.Fatal("got nil snapshot after save")
	}
	if snap.SelectedWeek != 2 || snap.SelectedDay != 3 {
		t.Errorf("week/day = %d/%d, want 2/3", snap.SelectedWeek, snap.SelectedDay)
	}
	if snap.LoadedTemplateName != "Day 3 Workout" {
		t.Errorf("template name = %q, want Day 3 Workout", snap.LoadedTemplateName)
	}
	if len(snap.CurrentWorkout) != 1 || snap.CurrentWorkout[0].Name != "Squat" {
		t.Errorf("workout = %+v, want the saved Squat", snap.CurrentWorkout)
	}
}

// TestMergeSavePreservesQueue verifies that saving a snapshot patch without
// queue fields leaves pending submissions intact. A state save racing a
// queued workout must not wipe the queue.
func TestMergeSavePreservesQueue(t *testing.T) {
	s := openTestStore(t)
	queued := []models.QueuedWorkout{{
		SubmissionID: uuid.New(),
		Week:         1,
		Day:          2,
		Workout:      []models.Exercise{{ID: "ex1", Name: "Squat"}},
	}}
	if err := s.ReplaceQueue(queued); err != nil {
		t.Fatalf("queueing: %v", err)
	}

	week := 5
	if err := s.Save(models.SnapshotPatch{SelectedWeek: &week}); err != nil {
		t.Fatalf("save error: %v", err)
	}

	got, err := s.Queue()
	if err != nil {
		t.Fatalf("queue error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("queue length = %d, want 1", len(got))
	}
	if got[0].SubmissionID != queued[0].SubmissionID {
		t.Errorf("submission id = %s, want %s", got[0].SubmissionID, queued[0].SubmissionID)
	}

	snap, err := s.Load()
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if snap.SelectedWeek != 5 {
		t.Errorf("week = %d, want 5", snap.SelectedWeek)
	}
}

// TestCorruptStateSelfHeals verifies that a row holding unparsable JSON is
// deleted on load and treated as missing, instead of erroring forever.
func TestCorruptStateSelfHeals(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, "local")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	defer s.Close()

	// Corrupt the stored row directly.
	db, err := sql.Open("sqlite", filepath.Join(dir, "state.db"))
	if err != nil {
		t.Fatalf("opening raw db: %v", err)
	}
	defer db.Close()
	if _, err := db.Exec(`INSERT INTO app_state (owner, data) VALUES ('local', '{truncated')`); err != nil {
		t.Fatalf("inserting corrupt row: %v", err)
	}

	snap, err := s.Load()
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if snap != nil {
		t.Errorf("got %+v, want nil for corrupt state", snap)
	}

	// The corrupt row is gone: a fresh save starts clean.
	week := 1
	if err := s.Save(models.SnapshotPatch{SelectedWeek: &week}); err != nil {
		t.Fatalf("save after heal: %v", err)
	}
	snap, err = s.Load()
	if err != nil || snap == nil {
		t.Fatalf("load after heal: snap=%v err=%v", snap, err)
	}
	if snap.SelectedWeek != 1 {
		t.Errorf("week = %d, want 1", snap.SelectedWeek)
	}
}

// TestReplaceQueueNeverAppends verifies that ReplaceQueue overwrites the
// stored queue wholesale, and that clearing leaves an empty queue.
func TestReplaceQueueNeverAppends(t *testing.T) {
	s := openTestStore(t)
	first := []models.QueuedWorkout{{SubmissionID: uuid.New(), Week: 1, Day: 1}}
	second := []models.QueuedWorkout{{SubmissionID: uuid.New(), Week: 1, Day: 2}}

	if err := s.ReplaceQueue(first); err != nil {
		t.Fatalf("first replace: %v", err)
	}
	if err := s.ReplaceQueue(second); err != nil {
		t.Fatalf("second replace: %v", err)
	}

	got, err := s.Queue()
	if err != nil {
		t.Fatalf("queue error: %v", err)
	}
	if len(got) != 1 || got[0].SubmissionID != second[0].SubmissionID {
		t.Errorf("queue = %+v, want only the second item", got)
	}

	if err := s.ClearQueue(); err != nil {
		t.Fatalf("clear error: %v", err)
	}
	got, err = s.Queue()
	if err != nil {
		t.Fatalf("queue error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("queue length = %d after clear, want 0", len(got))
	}
}

// TestConcurrentMergeSaves verifies that two handles on the same database
// merge-saving different fields never lose each other's writes. The
// transaction takes the write lock before its read, so a read-modify-write
// cannot base its merge on a snapshot another writer is replacing.
func TestConcurrentMergeSaves(t *testing.T) {
	dir := t.TempDir()
	a, err := Open(dir, "local")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	defer a.Close()
	b, err := Open(dir, "local")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	defer b.Close()

	const rounds = 25
	errc := make(chan error, 2)
	go func() {
		for i := 1; i <= rounds; i++ {
			week := i
			if err := a.Save(models.SnapshotPatch{SelectedWeek: &week}); err != nil {
				errc <- err
				return
			}
		}
		errc <- nil
	}()
	go func() {
		for i := 1; i <= rounds; i++ {
			day := i
			if err := b.Save(models.SnapshotPatch{SelectedDay: &day}); err != nil {
				errc <- err
				return
			}
		}
		errc <- nil
	}()
	for i := 0; i < 2; i++ {
		if err := <-errc; err != nil {
			t.Fatalf("concurrent save: %v", err)
		}
	}

	snap, err := a.Load()
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if snap == nil {
		t.Fatal("got nil snapshot after saves")
	}
	if snap.SelectedWeek != rounds || snap.SelectedDay != rounds {
		t.Errorf("week/day = %d/%d, want %d/%d", snap.SelectedWeek, snap.SelectedDay, rounds, rounds)
	}
}

// TestOwnersAreIsolated verifies that two owners sharing one database file
// do not see each other's snapshots.
func TestOwnersAreIsolated(t *testing.T) {
	dir := t.TempDir()
	a, err := Open(dir, "alice")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	defer a.Close()
	b, err := Open(dir, "bob")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	defer b.Close()

	week := 4
	if err := a.Save(models.SnapshotPatch{SelectedWeek: &week}); err != nil {
		t.Fatalf("save error: %v", err)
	}

	snap, err := b.Load()
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if snap != nil {
		t.Errorf("bob sees alice's state: %+v", snap)
	}
}
