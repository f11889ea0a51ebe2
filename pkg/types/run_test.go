package types

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestRunFinish(t *testing.T) {
	run := &Run{RunID: "finish-test", Stage: StageBusy, CreatedAt: time.Now()}

	err := run.Finish(StageRealized, 120, 4800)
	assert.NoError(t, err)
	assert.Equal(t, StageRealized, run.Stage)
	assert.Equal(t, 120, run.Frames)
	assert.Equal(t, 4800, run.Age)
	if assert.NotNil(t, run.FinishedAt) {
		assert.WithinDuration(t, time.Now(), *run.FinishedAt, time.Second)
	}

	err = run.Finish(StageSlack, 1, 1)
	assert.ErrorIs(t, err, ErrRunFinished)
	assert.Equal(t, StageRealized, run.Stage, "stage should not change on error")
}

func TestRunFinishInvalidStage(t *testing.T) {
	run := &Run{RunID: "invalid"}
	assert.ErrorIs(t, run.Finish(Stage(99), 0, 0), ErrInvalidStage)
	assert.Nil(t, run.FinishedAt)
}

func TestSnapshotMidpoint(t *testing.T) {
	assert.Equal(t, mgl64.Vec3{}, Snapshot{}.Midpoint())

	s := Snapshot{Joints: []JointState{
		{Position: mgl64.Vec3{0, 0, 0}},
		{Position: mgl64.Vec3{2, 4, -2}},
	}}
	assert.Equal(t, mgl64.Vec3{1, 2, -1}, s.Midpoint())
}
