package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/pretenst/pkg/types"
)

func attachTemp(t *testing.T) (*Backend, string) {
	t.Helper()
	dir := t.TempDir()
	b := NewBackend()
	require.NoError(t, b.Attach(types.StoreConfig{Backend: types.BackendSQLite, DataDir: dir}))
	t.Cleanup(func() { b.Detach() })
	return b, dir
}

func TestBackend_Attach(t *testing.T) {
	b, dir := attachTemp(t)

	for _, name := range []string{dbFile, runsFile, framesFile} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
	assert.Equal(t, dir, b.DataDir())

	err := b.Attach(types.StoreConfig{Backend: types.BackendSQLite, DataDir: dir})
	assert.ErrorIs(t, err, types.ErrAlreadyAttached)
}

func TestBackend_AttachRejectsConfig(t *testing.T) {
	b := NewBackend()
	assert.ErrorIs(t, b.Attach(types.StoreConfig{DataDir: t.TempDir()}), types.ErrBackendEmpty)
	assert.ErrorIs(t, b.Attach(types.StoreConfig{Backend: "postgres", DataDir: t.TempDir()}), types.ErrBackendUnknown)
}

func TestBackend_Detach(t *testing.T) {
	b, _ := attachTemp(t)
	ctx := context.Background()

	require.NoError(t, b.Detach())
	assert.NoError(t, b.Detach(), "second Detach is a no-op")

	_, err := b.ListRuns(ctx)
	assert.ErrorIs(t, err, types.ErrStoreDetached)
	_, err = b.CreateRun(ctx, "prism", types.DefaultWorld())
	assert.ErrorIs(t, err, types.ErrStoreDetached)
}

func TestRunLifecycle(t *testing.T) {
	b, _ := attachTemp(t)
	ctx := context.Background()
	world := types.DefaultWorld()
	world.Gravity = 0

	run, err := b.CreateRun(ctx, "prism", world)
	require.NoError(t, err)
	assert.Len(t, run.RunID, 36)
	assert.Equal(t, types.StageBusy, run.Stage)
	assert.Nil(t, run.FinishedAt)

	got, err := b.GetRun(ctx, run.RunID)
	require.NoError(t, err)
	assert.Equal(t, "prism", got.Blueprint)
	assert.Equal(t, world, got.World)
	assert.True(t, run.CreatedAt.Equal(got.CreatedAt))

	done, err := b.FinishRun(ctx, run.RunID, types.StageRealized, 120, 4800)
	require.NoError(t, err)
	assert.Equal(t, types.StageRealized, done.Stage)
	require.NotNil(t, done.FinishedAt)

	got, err = b.GetRun(ctx, run.RunID)
	require.NoError(t, err)
	assert.Equal(t, types.StageRealized, got.Stage)
	assert.Equal(t, 120, got.Frames)
	assert.Equal(t, 4800, got.Age)
	require.NotNil(t, got.FinishedAt)

	_, err = b.FinishRun(ctx, run.RunID, types.StageRealized, 1, 1)
	assert.ErrorIs(t, err, types.ErrRunFinished)
}

func TestGetRunErrors(t *testing.T) {
	b, _ := attachTemp(t)
	ctx := context.Background()

	tests := []struct {
		name string
		id   string
		want error
	}{
		{"empty", "", types.ErrInvalidID},
		{"malformed", "not-a-uuid", types.ErrInvalidID},
		{"missing", "0192f0a4-8c4b-7cc3-9f1e-3b7f6a5d2e10", types.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.GetRun(ctx, tt.id)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestListRuns(t *testing.T) {
	b, _ := attachTemp(t)
	ctx := context.Background()

	runs, err := b.ListRuns(ctx)
	require.NoError(t, err)
	assert.Empty(t, runs)

	first, err := b.CreateRun(ctx, "prism", types.DefaultWorld())
	require.NoError(t, err)
	second, err := b.CreateRun(ctx, "tripod", types.DefaultWorld())
	require.NoError(t, err)

	runs, err = b.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second.RunID, runs[0].RunID)
	assert.Equal(t, first.RunID, runs[1].RunID)
}

func sampleSnapshot() *types.Snapshot {
	return &types.Snapshot{
		Age:   40,
		Stage: types.StageGrowing,
		Joints: []types.JointState{
			{Position: [3]float64{0, 0, 0}},
			{Position: [3]float64{1, 0, 0}, Velocity: [3]float64{0.5, 0, 0}},
		},
		Intervals: []types.IntervalState{
			{Alpha: [3]float64{0, 0, 0}, Omega: [3]float64{1, 0, 0}, Role: types.RolePull, RestLength: 0.9, Strain: 0.111},
		},
	}
}

func TestRecordFrames(t *testing.T) {
	b, _ := attachTemp(t)
	ctx := context.Background()

	run, err := b.CreateRun(ctx, "prism", types.DefaultWorld())
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		rec := types.FrameRecord{
			RunID:     run.RunID,
			Frame:     i,
			Age:       i * 40,
			Reported:  types.StageBusy,
			Persisted: types.StageGrowing,
			Settling:  i < 3,
		}
		if i == 2 {
			rec.Snapshot = sampleSnapshot()
		}
		require.NoError(t, b.RecordFrame(ctx, rec))
	}

	frames, err := b.Frames(ctx, run.RunID, false)
	require.NoError(t, err)
	require.Len(t, frames, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{frames[0].Frame, frames[1].Frame, frames[2].Frame})
	assert.True(t, frames[0].Settling)
	assert.False(t, frames[2].Settling)
	assert.Equal(t, types.StageGrowing, frames[1].Persisted)
	assert.Nil(t, frames[0].Snapshot)
	require.NotNil(t, frames[1].Snapshot)
	assert.Equal(t, *sampleSnapshot(), *frames[1].Snapshot)

	sampled, err := b.Frames(ctx, run.RunID, true)
	require.NoError(t, err)
	require.Len(t, sampled, 1)
	assert.Equal(t, 2, sampled[0].Frame)
}

func TestRecordFrameUnknownRun(t *testing.T) {
	b, _ := attachTemp(t)
	err := b.RecordFrame(context.Background(), types.FrameRecord{RunID: "0192f0a4-8c4b-7cc3-9f1e-3b7f6a5d2e10", Frame: 1})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestReattachReloadsJSONL(t *testing.T) {
	b, dir := attachTemp(t)
	ctx := context.Background()

	run, err := b.CreateRun(ctx, "tripod", types.DefaultWorld())
	require.NoError(t, err)
	require.NoError(t, b.RecordFrame(ctx, types.FrameRecord{RunID: run.RunID, Frame: 1, Age: 40, Snapshot: sampleSnapshot()}))
	require.NoError(t, b.RecordFrame(ctx, types.FrameRecord{RunID: run.RunID, Frame: 2, Age: 80, Persisted: types.StageShaping}))
	_, err = b.FinishRun(ctx, run.RunID, types.StageShaping, 2, 80)
	require.NoError(t, err)
	require.NoError(t, b.Detach())

	// A torn line at the end of the frame log is skipped.
	f, err := os.OpenFile(filepath.Join(dir, framesFile), os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(`{"run_id": "` + run.RunID + `", "frame": 3`)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	reopened := NewBackend()
	require.NoError(t, reopened.Attach(types.StoreConfig{Backend: types.BackendSQLite, DataDir: dir}))
	defer reopened.Detach()

	got, err := reopened.GetRun(ctx, run.RunID)
	require.NoError(t, err)
	assert.Equal(t, types.StageShaping, got.Stage)
	assert.Equal(t, 2, got.Frames)
	assert.NotNil(t, got.FinishedAt)

	frames, err := reopened.Frames(ctx, run.RunID, false)
	require.NoError(t, err)
	require.Len(t, frames, 2)
	require.NotNil(t, frames[0].Snapshot)
	assert.Equal(t, sampleSnapshot().Joints, frames[0].Snapshot.Joints)
	assert.Equal(t, types.StageShaping, frames[1].Persisted)
}

func TestExportFrames(t *testing.T) {
	b, dir := attachTemp(t)
	ctx := context.Background()

	run, err := b.CreateRun(ctx, "prism", types.DefaultWorld())
	require.NoError(t, err)
	for i := 1; i <= 4; i++ {
		rec := types.FrameRecord{RunID: run.RunID, Frame: i, Age: i * 40}
		if i%2 == 0 {
			rec.Snapshot = sampleSnapshot()
		}
		require.NoError(t, b.RecordFrame(ctx, rec))
	}

	out := filepath.Join(dir, "export.jsonl")
	n, err := b.ExportFrames(ctx, run.RunID, out, true)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	lines, err := readJSONL(out)
	require.NoError(t, err)
	assert.Len(t, lines, 2)
	assert.Contains(t, string(lines[0]), `"frame":2`)
	assert.Contains(t, string(lines[0]), `"role":"pull"`)
}
