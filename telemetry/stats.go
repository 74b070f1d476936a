// ════════════════════════════════════════════════════════════════════════════════════════════════
// StatsRecorder
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: DAG Frame Scheduler
// Component: Optional Profiling Sink
//
// Description:
//   Persists each registered work unit's rolling-average execution time to a sqlite table once
//   every N frames, for offline profiling across runs. Grounded on the teacher's main.go/router.go
//   sql.Open("sqlite3", ...) usage; opt-in via config.Options.StatsDB, never required for the
//   scheduler to run.
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package telemetry

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/fractalforge/dagsched/tss"
	"github.com/fractalforge/dagsched/workunit"
)

// Source reports the current set of work units a StatsRecorder should
// sample every time it runs. A *scheduler.Scheduler does not implement
// this directly; callers pass a small closure or wrapper so this
// package never needs to import scheduler.
type Source func() []*workunit.WorkUnit

// StatsRecorder is a work unit that, once every Every frames, writes one
// row per unit returned by its Source into the frame_stats table of a
// sqlite database.
type StatsRecorder struct {
	db      *sql.DB
	source  Source
	every   uint64
	frame   uint64
}

// Open creates (if needed) the frame_stats table in the sqlite database
// at path and returns a recorder that samples src every frames frames.
func Open(path string, every int, src Source) (*StatsRecorder, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("telemetry: open %s: %w", path, err)
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS frame_stats (
			frame          INTEGER NOT NULL,
			unit_id        INTEGER NOT NULL,
			unit_name      TEXT NOT NULL,
			average_micros INTEGER NOT NULL
		)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("telemetry: create frame_stats: %w", err)
	}
	if every < 1 {
		every = 1
	}
	return &StatsRecorder{db: db, source: src, every: uint64(every)}, nil
}

// Close releases the underlying database handle.
func (r *StatsRecorder) Close() error {
	return r.db.Close()
}

// Run samples r.source and writes one row per unit if this frame falls
// on the sampling interval; otherwise it is a no-op frame.
func (r *StatsRecorder) Run(ts *tss.Storage) {
	defer func() { r.frame++ }()
	if r.frame%r.every != 0 {
		return
	}

	tx, err := r.db.Begin()
	if err != nil {
		return
	}
	stmt, err := tx.Prepare(`INSERT INTO frame_stats (frame, unit_id, unit_name, average_micros) VALUES (?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return
	}
	defer stmt.Close()

	for _, u := range r.source() {
		if _, err := stmt.Exec(r.frame, u.ID(), u.Name(), u.AverageMicros()); err != nil {
			tx.Rollback()
			return
		}
	}
	tx.Commit()
}
