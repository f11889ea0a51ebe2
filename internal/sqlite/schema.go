package sqlite

import (
	"database/sql"
	"fmt"
)

// Files kept in the data directory.
const (
	dbFile     = "pretenst.db"
	runsFile   = "runs.jsonl"
	framesFile = "frames.jsonl"
)

const (
	createRuns = `CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,
    blueprint TEXT NOT NULL,
    world TEXT NOT NULL,
    stage TEXT NOT NULL,
    frames INTEGER NOT NULL DEFAULT 0,
    age INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    finished_at TEXT
);`

	createFrames = `CREATE TABLE IF NOT EXISTS frames (
    run_id TEXT NOT NULL,
    frame INTEGER NOT NULL,
    age INTEGER NOT NULL,
    reported TEXT NOT NULL,
    persisted TEXT NOT NULL,
    settling INTEGER NOT NULL,
    snapshot TEXT,
    PRIMARY KEY (run_id, frame)
);`

	idxRunsCreated    = `CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);`
	idxFramesReported = `CREATE INDEX IF NOT EXISTS idx_frames_reported ON frames(run_id, reported);`
)

var schemaDDL = []string{createRuns, createFrames, idxRunsCreated, idxFramesReported}

func createSchema(db *sql.DB) error {
	for _, stmt := range schemaDDL {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}
