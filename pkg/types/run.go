package types

import (
	"errors"
	"time"
)

// ErrRunFinished is returned when finishing a run that already finished.
var ErrRunFinished = errors.New("run already finished")

// Run is one recorded simulation of a blueprint. Frames holds the number of
// frames stepped and Age the substep count at the end of the run.
type Run struct {
	RunID      string     `json:"run_id"`
	Blueprint  string     `json:"blueprint"`
	World      World      `json:"world"`
	Stage      Stage      `json:"stage"`
	Frames     int        `json:"frames"`
	Age        int        `json:"age"`
	CreatedAt  time.Time  `json:"created_at"`
	FinishedAt *time.Time `json:"finished_at"`
}

// Finish records the final stage and counters and stamps FinishedAt. A run
// finishes once; later calls return ErrRunFinished and change nothing.
func (r *Run) Finish(stage Stage, frames, age int) error {
	if r.FinishedAt != nil {
		return ErrRunFinished
	}
	if !stage.Valid() {
		return ErrInvalidStage
	}
	now := time.Now().UTC()
	r.Stage = stage
	r.Frames = frames
	r.Age = age
	r.FinishedAt = &now
	return nil
}

// FrameRecord is one stepped frame as stored for a run. Snapshot is only
// present on sampled frames.
type FrameRecord struct {
	RunID     string    `json:"run_id"`
	Frame     int       `json:"frame"`
	Age       int       `json:"age"`
	Reported  Stage     `json:"reported"`
	Persisted Stage     `json:"persisted"`
	Settling  bool      `json:"settling"`
	Snapshot  *Snapshot `json:"snapshot,omitempty"`
}
