package telemetry

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/fractalforge/dagsched/tss"
	"github.com/fractalforge/dagsched/workunit"
)

func TestOpenCreatesTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.db")
	rec, err := Open(path, 1, func() []*workunit.WorkUnit { return nil })
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rec.Close()

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	defer db.Close()
	if _, err := db.Exec(`SELECT frame, unit_id, unit_name, average_micros FROM frame_stats LIMIT 1`); err != nil {
		t.Fatalf("frame_stats table missing expected columns: %v", err)
	}
}

func TestRunSamplesOnlyOnInterval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.db")
	unit := workunit.NewFunc("probe", 8, func(ts *tss.Storage) {})

	rec, err := Open(path, 2, func() []*workunit.WorkUnit { return []*workunit.WorkUnit{unit} })
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rec.Close()

	rec.Run(nil) // frame 0: sampled
	rec.Run(nil) // frame 1: skipped
	rec.Run(nil) // frame 2: sampled

	var count int
	if err := rec.db.QueryRow(`SELECT COUNT(*) FROM frame_stats`).Scan(&count); err != nil {
		t.Fatalf("QueryRow: %v", err)
	}
	if count != 2 {
		t.Fatalf("frame_stats row count = %d, want 2 (frames 0 and 2 only)", count)
	}
}

func TestOpenDefaultsNonPositiveEveryToOne(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.db")
	rec, err := Open(path, 0, func() []*workunit.WorkUnit { return nil })
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rec.Close()
	if rec.every != 1 {
		t.Fatalf("every = %d, want 1 for a non-positive input", rec.every)
	}
}
