// Package runner drives a fabric through its lifecycle frame by frame:
// growing, shaping, adopting its lengths, pretensioning and realizing.
package runner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mesh-intelligence/pretenst/internal/fabric"
	"github.com/mesh-intelligence/pretenst/internal/logging"
	"github.com/mesh-intelligence/pretenst/pkg/types"
)

// Script sets how many frames each phase of a run takes.
type Script struct {
	// GrowFrames is the number of frames stepped while requesting Growing
	// before FinishGrowing.
	GrowFrames int `json:"grow_frames" yaml:"grow_frames" mapstructure:"grow_frames"`
	// ShapeFrames is the number of frames stepped in Shaping before the
	// lengths are adopted.
	ShapeFrames int `json:"shape_frames" yaml:"shape_frames" mapstructure:"shape_frames"`
	// Adopt freezes the shaped geometry with AdoptLengths, leaving the
	// fabric Slack.
	Adopt bool `json:"adopt" yaml:"adopt" mapstructure:"adopt"`
	// Pretension lengthens the push intervals from Slack and waits for
	// them to settle before realizing. Ignored without Adopt.
	Pretension bool `json:"pretension" yaml:"pretension" mapstructure:"pretension"`
	// MaxFrames bounds the whole run.
	MaxFrames int `json:"max_frames" yaml:"max_frames" mapstructure:"max_frames"`
	// SnapshotEvery attaches a snapshot to every Nth recorded frame and to
	// the last one. Zero records the last frame only.
	SnapshotEvery int `json:"snapshot_every" yaml:"snapshot_every" mapstructure:"snapshot_every"`
}

// DefaultScript returns the script used when configuration sets none.
func DefaultScript() Script {
	return Script{
		GrowFrames:    10,
		ShapeFrames:   20,
		Adopt:         true,
		Pretension:    true,
		MaxFrames:     2000,
		SnapshotEvery: 10,
	}
}

// Validate rejects negative frame counts and a non-positive frame limit.
func (s Script) Validate() error {
	switch {
	case s.GrowFrames < 0 || s.ShapeFrames < 0:
		return fmt.Errorf("script: phase frame counts must not be negative")
	case s.MaxFrames <= 0:
		return fmt.Errorf("script: max frames must be positive")
	case s.SnapshotEvery < 0:
		return fmt.Errorf("script: snapshot interval must not be negative")
	}
	return nil
}

// Recorder receives every stepped frame. The run store implements it.
type Recorder interface {
	RecordFrame(ctx context.Context, rec types.FrameRecord) error
}

// Transition is a change of the persisted stage observed after a frame.
type Transition struct {
	Frame int
	From  types.Stage
	To    types.Stage
}

// Result summarizes a run.
type Result struct {
	Frames      int
	Final       types.Stage
	Age         int
	Transitions []Transition
}

// Option configures a Runner.
type Option func(*Runner)

// WithRecorder sends every frame to rec.
func WithRecorder(rec Recorder) Option {
	return func(r *Runner) { r.recorder = rec }
}

// WithLogger sets the logger for stage transitions and frame progress.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) { r.logger = logging.ForComponent(logger, "runner") }
}

// Runner owns a fabric for the duration of a run. It is the only goroutine
// that touches the fabric.
type Runner struct {
	fabric   *fabric.Fabric
	world    types.World
	script   Script
	recorder Recorder
	logger   *slog.Logger

	runID  string
	frames int
	last   types.Stage
	result Result
}

// New creates a runner for f.
func New(f *fabric.Fabric, world types.World, script Script, opts ...Option) *Runner {
	r := &Runner{
		fabric: f,
		world:  world,
		script: script,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run steps the script to completion and returns once the fabric reports
// Realized. It stops early with ctx.Err() when the context ends, and with
// ErrFrameLimit when MaxFrames is reached first. The Result describes the
// run up to that point in every case.
func (r *Runner) Run(ctx context.Context, runID string) (Result, error) {
	if err := r.world.Validate(); err != nil {
		return Result{}, err
	}
	if err := r.script.Validate(); err != nil {
		return Result{}, err
	}
	r.runID = runID
	r.frames = 0
	r.last = r.fabric.Stage()
	r.result = Result{Final: r.last, Age: r.fabric.Age()}

	err := r.run(ctx)
	r.result.Frames = r.frames
	r.result.Final = r.fabric.Stage()
	r.result.Age = r.fabric.Age()
	if err != nil {
		r.logger.Warn("run stopped", "run", runID, "frame", r.frames, "stage", r.result.Final, "error", err)
		return r.result, err
	}
	r.logger.Info("run realized", "run", runID, "frames", r.frames, "age", r.result.Age)
	return r.result, nil
}

func (r *Runner) run(ctx context.Context) error {
	for range r.script.GrowFrames {
		if _, err := r.step(ctx, types.StageGrowing); err != nil {
			return err
		}
	}
	r.fabric.FinishGrowing()
	r.observe()

	for range r.script.ShapeFrames {
		if _, err := r.step(ctx, types.StageShaping); err != nil {
			return err
		}
	}

	if r.script.Adopt {
		r.fabric.AdoptLengths()
		r.observe()
		if r.script.Pretension {
			for {
				frame, err := r.step(ctx, types.StageShaping)
				if err != nil {
					return err
				}
				if !frame.Settling {
					break
				}
			}
		}
	}

	for {
		frame, err := r.step(ctx, types.StageRealizing)
		if err != nil {
			return err
		}
		if frame.Reported == types.StageRealized {
			return nil
		}
	}
}

// step runs one frame, records it and notes any stage change.
func (r *Runner) step(ctx context.Context, requested types.Stage) (fabric.Frame, error) {
	if err := ctx.Err(); err != nil {
		return fabric.Frame{}, err
	}
	if r.frames >= r.script.MaxFrames {
		return fabric.Frame{}, fmt.Errorf("%w: %d frames, stage %s", types.ErrFrameLimit, r.frames, r.fabric.Stage())
	}

	frame := r.fabric.Step(requested, r.world)
	r.frames++
	r.logger.Debug("frame",
		"run", r.runID,
		"frame", r.frames,
		"requested", requested,
		"reported", frame.Reported,
		"settling", frame.Settling,
		"busy", r.fabric.BusyCountdown(),
	)
	r.observe()

	if r.recorder != nil {
		rec := types.FrameRecord{
			RunID:     r.runID,
			Frame:     r.frames,
			Age:       frame.Age,
			Reported:  frame.Reported,
			Persisted: frame.Persisted,
			Settling:  frame.Settling,
		}
		if r.wantSnapshot(frame) {
			snap := r.fabric.Snapshot()
			rec.Snapshot = &snap
		}
		if err := r.recorder.RecordFrame(ctx, rec); err != nil {
			return frame, fmt.Errorf("recording frame %d: %w", r.frames, err)
		}
	}
	return frame, nil
}

func (r *Runner) wantSnapshot(frame fabric.Frame) bool {
	if frame.Reported == types.StageRealized || r.frames == r.script.MaxFrames {
		return true
	}
	return r.script.SnapshotEvery > 0 && r.frames%r.script.SnapshotEvery == 0
}

// observe records a transition when the persisted stage has changed since
// the last look.
func (r *Runner) observe() {
	stage := r.fabric.Stage()
	if stage == r.last {
		return
	}
	r.result.Transitions = append(r.result.Transitions, Transition{Frame: r.frames, From: r.last, To: stage})
	r.logger.Info("stage transition", "run", r.runID, "frame", r.frames, "from", r.last, "to", stage)
	r.last = stage
}
