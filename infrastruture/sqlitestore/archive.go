// Package sqlitestore archives run reports in a local SQLite database.
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/beka-birhanu/vinom-biolab/game"
	"github.com/beka-birhanu/vinom-biolab/service/i"
	"github.com/google/uuid"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

var ErrEmptyPath = errors.New("empty db path")

var _ i.RunArchive = (*RunArchive)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	mission     TEXT NOT NULL,
	started_at  TEXT NOT NULL,
	finished_at TEXT NOT NULL,
	steps       INTEGER NOT NULL,
	complete    INTEGER NOT NULL,
	processed   INTEGER NOT NULL,
	journal     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_finished_at ON runs(finished_at);
`

// RunArchive is a SQLite backed i.RunArchive.
type RunArchive struct {
	db *sql.DB
}

// Open opens or creates the archive at path, creating parent directories.
func Open(path string) (*RunArchive, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single connection keeps writes serialized and an in-memory db alive.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &RunArchive{db: db}, nil
}

// Save inserts or replaces a report.
func (a *RunArchive) Save(ctx context.Context, report *game.Report) error {
	journal, err := json.Marshal(report.Journal)
	if err != nil {
		return err
	}

	_, err = a.db.ExecContext(ctx, `
INSERT INTO runs (id, mission, started_at, finished_at, steps, complete, processed, journal)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	mission = excluded.mission,
	started_at = excluded.started_at,
	finished_at = excluded.finished_at,
	steps = excluded.steps,
	complete = excluded.complete,
	processed = excluded.processed,
	journal = excluded.journal`,
		report.ID.String(),
		report.Mission,
		report.StartedAt.UTC().Format(time.RFC3339Nano),
		report.FinishedAt.UTC().Format(time.RFC3339Nano),
		report.Steps,
		boolToInt(report.Complete),
		report.Processed,
		string(journal),
	)
	return err
}

// ByID retrieves a report by its session ID.
func (a *RunArchive) ByID(ctx context.Context, id uuid.UUID) (*game.Report, error) {
	var (
		mission, startedAt, finishedAt, journal string
		steps, complete, processed              int
	)
	err := a.db.QueryRowContext(ctx, `
SELECT mission, started_at, finished_at, steps, complete, processed, journal
FROM runs WHERE id = ?`, id.String()).
		Scan(&mission, &startedAt, &finishedAt, &steps, &complete, &processed, &journal)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, i.ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}

	report := &game.Report{
		ID:        id,
		Mission:   mission,
		Steps:     steps,
		Complete:  complete != 0,
		Processed: processed,
	}
	if report.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
		return nil, fmt.Errorf("run %s: started_at: %w", id, err)
	}
	if report.FinishedAt, err = time.Parse(time.RFC3339Nano, finishedAt); err != nil {
		return nil, fmt.Errorf("run %s: finished_at: %w", id, err)
	}
	if err := json.Unmarshal([]byte(journal), &report.Journal); err != nil {
		return nil, fmt.Errorf("run %s: journal: %w", id, err)
	}
	return report, nil
}

// Close closes the database.
func (a *RunArchive) Close() error {
	return a.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
