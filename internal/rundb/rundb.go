// Package rundb maintains an SQLite index of conversion runs, so large
// batch jobs can be audited and partially re-run.
package rundb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/3dlg-hcvc/r2v-to-plan2scene/api/schemas"
)

// DB wraps the run index database. Safe for concurrent use.
type DB struct {
	db *sql.DB
}

// RunRecord is one floorplan conversion outcome.
type RunRecord struct {
	Floorplan  string
	Source     string
	StartedAt  time.Time
	FinishedAt time.Time
	Rooms      int
	Walls      int
	Openings   int
	Status     string
	Error      string
	Anomalies  []schemas.Anomaly
}

// Run statuses.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	floorplan TEXT NOT NULL,
	source TEXT NOT NULL,
	started_at TEXT NOT NULL,
	finished_at TEXT NOT NULL,
	rooms INTEGER NOT NULL,
	walls INTEGER NOT NULL,
	openings INTEGER NOT NULL,
	status TEXT NOT NULL,
	error TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS anomalies (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id INTEGER NOT NULL REFERENCES runs(id),
	kind TEXT NOT NULL,
	detail TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_floorplan ON runs(floorplan);
CREATE INDEX IF NOT EXISTS idx_anomalies_run ON anomalies(run_id);
`

// Open opens (creating if necessary) the run index at path.
func Open(ctx context.Context, path string) (*DB, error) {
	db, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("open run index: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate run index: %w", err)
	}
	return &DB{db: db}, nil
}

// Record inserts one run with its anomalies and returns the run id.
func (d *DB) Record(ctx context.Context, rec RunRecord) (int64, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin run insert: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (floorplan, source, started_at, finished_at, rooms, walls, openings, status, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Floorplan, rec.Source,
		rec.StartedAt.UTC().Format(time.RFC3339Nano),
		rec.FinishedAt.UTC().Format(time.RFC3339Nano),
		rec.Rooms, rec.Walls, rec.Openings, rec.Status, rec.Error)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}
	for _, a := range rec.Anomalies {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO anomalies (run_id, kind, detail) VALUES (?, ?, ?)`,
			id, string(a.Kind), a.Detail); err != nil {
			return 0, fmt.Errorf("insert anomaly: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit run insert: %w", err)
	}
	return id, nil
}

// AnomalyCount returns the number of recorded anomalies for a floorplan
// across all runs.
func (d *DB) AnomalyCount(ctx context.Context, floorplan string) (int, error) {
	var n int
	err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM anomalies a JOIN runs r ON a.run_id = r.id WHERE r.floorplan = ?`,
		floorplan).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count anomalies: %w", err)
	}
	return n, nil
}

// Close closes the database.
func (d *DB) Close() error { return d.db.Close() }
