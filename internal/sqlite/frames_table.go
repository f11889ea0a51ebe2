package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/mesh-intelligence/pretenst/pkg/types"
)

// RecordFrame stores one frame of a run and appends it to frames.jsonl.
// Recording the same frame twice replaces the earlier record.
func (b *Backend) RecordFrame(ctx context.Context, rec types.FrameRecord) error {
	if err := checkID(rec.RunID); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}
	if _, err := b.getRunLocked(ctx, rec.RunID); err != nil {
		return err
	}

	var snapshot sql.NullString
	if rec.Snapshot != nil {
		data, err := json.Marshal(rec.Snapshot)
		if err != nil {
			return fmt.Errorf("encoding snapshot: %w", err)
		}
		snapshot = sql.NullString{String: string(data), Valid: true}
	}
	_, err := b.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO frames (run_id, frame, age, reported, persisted, settling, snapshot) VALUES (?, ?, ?, ?, ?, ?, ?)",
		rec.RunID, rec.Frame, rec.Age, rec.Reported.String(), rec.Persisted.String(), rec.Settling, snapshot,
	)
	if err != nil {
		return fmt.Errorf("inserting frame %d of run %s: %w", rec.Frame, rec.RunID, err)
	}
	if err := appendJSONL(filepath.Join(b.config.DataDir, framesFile), toFrameJSON(rec)); err != nil {
		return fmt.Errorf("persisting %s: %w", framesFile, err)
	}
	return nil
}

// Frames returns the recorded frames of a run in frame order. With
// snapshotsOnly set, frames recorded without a snapshot are left out.
func (b *Backend) Frames(ctx context.Context, runID string, snapshotsOnly bool) ([]types.FrameRecord, error) {
	if err := checkID(runID); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	if _, err := b.getRunLocked(ctx, runID); err != nil {
		return nil, err
	}

	query := "SELECT run_id, frame, age, reported, persisted, settling, snapshot FROM frames WHERE run_id = ?"
	if snapshotsOnly {
		query += " AND snapshot IS NOT NULL"
	}
	rows, err := b.db.QueryContext(ctx, query+" ORDER BY frame", runID)
	if err != nil {
		return nil, fmt.Errorf("querying frames of run %s: %w", runID, err)
	}
	defer rows.Close()

	var frames []types.FrameRecord
	for rows.Next() {
		rec, err := hydrateFrame(rows)
		if err != nil {
			return nil, err
		}
		frames = append(frames, rec)
	}
	return frames, rows.Err()
}

// ExportFrames writes the frames of a run to path as JSONL, replacing the
// file atomically.
func (b *Backend) ExportFrames(ctx context.Context, runID, path string, snapshotsOnly bool) (int, error) {
	frames, err := b.Frames(ctx, runID, snapshotsOnly)
	if err != nil {
		return 0, err
	}
	records := make([]json.RawMessage, 0, len(frames))
	for _, rec := range frames {
		line, err := json.Marshal(toFrameJSON(rec))
		if err != nil {
			return 0, fmt.Errorf("encoding frame %d: %w", rec.Frame, err)
		}
		records = append(records, line)
	}
	if err := writeJSONL(path, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

func hydrateFrame(row rowScanner) (types.FrameRecord, error) {
	var (
		rec                 types.FrameRecord
		reported, persisted string
		snapshot            sql.NullString
	)
	if err := row.Scan(&rec.RunID, &rec.Frame, &rec.Age, &reported, &persisted, &rec.Settling, &snapshot); err != nil {
		return rec, fmt.Errorf("scanning frame: %w", err)
	}
	var err error
	if rec.Reported, err = types.ParseStage(reported); err != nil {
		return rec, err
	}
	if rec.Persisted, err = types.ParseStage(persisted); err != nil {
		return rec, err
	}
	if snapshot.Valid {
		rec.Snapshot = &types.Snapshot{}
		if err := json.Unmarshal([]byte(snapshot.String), rec.Snapshot); err != nil {
			return rec, fmt.Errorf("decoding snapshot of frame %d: %w", rec.Frame, err)
		}
	}
	return rec, nil
}
