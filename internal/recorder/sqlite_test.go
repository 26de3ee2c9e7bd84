package recorder

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestSQLiteRecorder_RecordFetch(t *testing.T) {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "log.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	evt := &FetchEvent{
		Source:   "mock",
		Tickers:  []string{"GOLDBEES.NS", "NIFTYBEES.NS"},
		Years:    7,
		Start:    time.Date(2017, 10, 21, 0, 0, 0, 0, time.UTC),
		End:      time.Date(2024, 10, 19, 0, 0, 0, 0, time.UTC),
		Returned: 2,
		Points:   728,
		Duration: 120 * time.Millisecond,
	}
	if err := r.RecordFetch(evt); err != nil {
		t.Fatalf("record fetch: %v", err)
	}
	if evt.ID == "" {
		t.Error("expected an id to be assigned")
	}
	if err := r.RecordFetch(&FetchEvent{Source: "mock", Error: errors.New("boom").Error()}); err != nil {
		t.Fatalf("record failed fetch: %v", err)
	}

	n, err := r.FetchCount()
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("expected 2 fetches, got %d", n)
	}
}

func TestSQLiteRecorder_RecordRender(t *testing.T) {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "log.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if err := r.RecordRender(&RenderEvent{Years: 7, Charts: 5, Warnings: []string{"MON 100 (MON100.NS)"}}); err != nil {
		t.Fatalf("record render: %v", err)
	}
}
