package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/mesh-intelligence/pretenst/pkg/types"
)

const selectRun = "SELECT run_id, blueprint, world, stage, frames, age, created_at, finished_at FROM runs"

// CreateRun records a new run of blueprint under world and returns it with
// a fresh UUID v7 and the Busy stage.
func (b *Backend) CreateRun(ctx context.Context, blueprint string, world types.World) (*types.Run, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	id, err := generateUUID()
	if err != nil {
		return nil, err
	}
	worldJSON, err := json.Marshal(world)
	if err != nil {
		return nil, fmt.Errorf("encoding world: %w", err)
	}

	run := &types.Run{
		RunID:     id,
		Blueprint: blueprint,
		World:     world,
		Stage:     types.StageBusy,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	_, err = b.db.ExecContext(ctx,
		"INSERT INTO runs (run_id, blueprint, world, stage, frames, age, created_at, finished_at) VALUES (?, ?, ?, ?, 0, 0, ?, NULL)",
		run.RunID, run.Blueprint, string(worldJSON), run.Stage.String(), run.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting run: %w", err)
	}
	if err := b.persistRunsLocked(ctx); err != nil {
		return nil, err
	}
	return run, nil
}

// FinishRun stamps the final stage and counters on run id. Returns
// ErrRunFinished if the run already finished.
func (b *Backend) FinishRun(ctx context.Context, id string, stage types.Stage, frames, age int) (*types.Run, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	run, err := b.getRunLocked(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := run.Finish(stage, frames, age); err != nil {
		return nil, err
	}
	_, err = b.db.ExecContext(ctx,
		"UPDATE runs SET stage = ?, frames = ?, age = ?, finished_at = ? WHERE run_id = ?",
		run.Stage.String(), run.Frames, run.Age, run.FinishedAt.Format(time.RFC3339), id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating run %s: %w", id, err)
	}
	if err := b.persistRunsLocked(ctx); err != nil {
		return nil, err
	}
	return run, nil
}

// GetRun retrieves a run by ID. Returns ErrInvalidID for a malformed ID and
// ErrNotFound if no run has it.
func (b *Backend) GetRun(ctx context.Context, id string) (*types.Run, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	return b.getRunLocked(ctx, id)
}

// ListRuns returns every run, newest first.
func (b *Backend) ListRuns(ctx context.Context) ([]*types.Run, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	rows, err := b.db.QueryContext(ctx, selectRun+" ORDER BY created_at DESC, run_id DESC")
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []*types.Run
	for rows.Next() {
		run, err := hydrateRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (b *Backend) getRunLocked(ctx context.Context, id string) (*types.Run, error) {
	row := b.db.QueryRowContext(ctx, selectRun+" WHERE run_id = ?", id)
	run, err := hydrateRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", types.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("getting run %s: %w", id, err)
	}
	return run, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func hydrateRun(row rowScanner) (*types.Run, error) {
	var (
		run        types.Run
		world      string
		stage      string
		createdAt  string
		finishedAt sql.NullString
	)
	if err := row.Scan(&run.RunID, &run.Blueprint, &world, &stage, &run.Frames, &run.Age, &createdAt, &finishedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(world), &run.World); err != nil {
		return nil, fmt.Errorf("decoding world of run %s: %w", run.RunID, err)
	}
	parsed, err := types.ParseStage(stage)
	if err != nil {
		return nil, err
	}
	run.Stage = parsed
	if run.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at of run %s: %w", run.RunID, err)
	}
	if finishedAt.Valid {
		t, err := time.Parse(time.RFC3339, finishedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parsing finished_at of run %s: %w", run.RunID, err)
		}
		run.FinishedAt = &t
	}
	return &run, nil
}

// persistRunsLocked rewrites runs.jsonl from the runs table.
func (b *Backend) persistRunsLocked(ctx context.Context) error {
	rows, err := b.db.QueryContext(ctx, selectRun+" ORDER BY created_at, run_id")
	if err != nil {
		return fmt.Errorf("reading runs for persist: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		run, err := hydrateRun(rows)
		if err != nil {
			return err
		}
		rec := runJSON{
			RunID:     run.RunID,
			Blueprint: run.Blueprint,
			World:     run.World,
			Stage:     run.Stage.String(),
			Frames:    run.Frames,
			Age:       run.Age,
			CreatedAt: run.CreatedAt.Format(time.RFC3339),
		}
		if run.FinishedAt != nil {
			s := run.FinishedAt.Format(time.RFC3339)
			rec.FinishedAt = &s
		}
		line, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encoding run %s: %w", run.RunID, err)
		}
		records = append(records, line)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if err := writeJSONL(filepath.Join(b.config.DataDir, runsFile), records); err != nil {
		return fmt.Errorf("persisting %s: %w", runsFile, err)
	}
	return nil
}
