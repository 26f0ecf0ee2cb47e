package mcp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestHTTPClientFetchHistory verifies decoding history rows from the REST
// API.
func TestHTTPClientFetchHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/history" {
			t.Errorf("path = %s, want /api/v1/history", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":2,"week":1,"day":2,"exercise":"Squat","setNumber":1,"weight":80,"reps":5}]`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	got, err := c.FetchHistory(context.Background())
	if err != nil {
		t.Fatalf("fetch history: %v", err)
	}
	if len(got) != 1 || got[0].Exercise != "Squat" {
		t.Errorf("history = %+v, want one Squat row", got)
	}
	if got[0].Weight == nil || *got[0].Weight != 80 {
		t.Errorf("weight = %v, want 80", got[0].Weight)
	}
}

// TestHTTPClientTemplateNotFound verifies a 404 maps to (nil, nil), the same
// missing-template signal the direct database mode uses.
func TestHTTPClientTemplateNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	tpl, err := c.FetchTemplate(context.Background(), 9)
	if err != nil {
		t.Fatalf("fetch template: %v", err)
	}
	if tpl != nil {
		t.Errorf("template = %+v, want nil", tpl)
	}
}

// TestHTTPClientGetSnapshotAdaptsState verifies that the /state response is
// adapted into a snapshot.
func TestHTTPClientGetSnapshotAdaptsState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/state" {
			t.Errorf("path = %s, want /api/v1/state", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"week":3,"day":2,"templateName":"Day 2 Workout","workout":[{"id":"ex1","name":"Squat","sets":[]}]}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	snap, err := c.GetSnapshot(context.Background(), "ignored")
	if err != nil {
		t.Fatalf("get snapshot: %v", err)
	}
	if snap.SelectedWeek != 3 || snap.SelectedDay != 2 {
		t.Errorf("week/day = %d/%d, want 3/2", snap.SelectedWeek, snap.SelectedDay)
	}
	if snap.LoadedTemplateName != "Day 2 Workout" {
		t.Errorf("template name = %q, want Day 2 Workout", snap.LoadedTemplateName)
	}
	if len(snap.CurrentWorkout) != 1 {
		t.Errorf("workout = %+v, want one exercise", snap.CurrentWorkout)
	}
}

// TestHTTPClientServerError verifies that a 5xx surfaces as an error naming
// the status.
func TestHTTPClientServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	if _, err := c.FetchHistory(context.Background()); err == nil {
		t.Fatal("expected error for 500 response")
	}
}
