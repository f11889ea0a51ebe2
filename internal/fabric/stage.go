package fabric

import "github.com/mesh-intelligence/pretenst/pkg/types"

// Frame is the outcome of one frame step. Reported is what the caller
// should show: Busy while anything is settling, otherwise the persisted
// stage.
type Frame struct {
	Reported  types.Stage
	Persisted types.Stage
	Settling  bool
	Age       int
}

// Iterate steps one frame and returns the stage to report for it.
func (f *Fabric) Iterate(requested types.Stage, world types.World) types.Stage {
	return f.Step(requested, world).Reported
}

// Step runs world.IterationsPerFrame substeps, then evaluates the stage
// machine once against the requested stage.
func (f *Fabric) Step(requested types.Stage, world types.World) Frame {
	nuance := f.realizingNuance(world)
	for range world.IterationsPerFrame {
		f.tick(world, nuance)
	}
	f.age += world.IterationsPerFrame
	f.advance(requested, world)
	reported := f.gate(world.IterationsPerFrame)
	return Frame{
		Reported:  reported,
		Persisted: f.stage,
		Settling:  f.Settling(),
		Age:       f.age,
	}
}

// tick is one substep. Every interval reads joint positions before any
// joint moves.
func (f *Fabric) tick(world types.World, nuance float64) {
	for i := range f.intervals {
		f.intervals[i].physics(f.joints, f.faces, world, f.stage, nuance)
	}
	for i := range f.joints {
		f.joints[i].integrate(world)
	}
}

// realizingNuance is the fraction of the realizing period already elapsed,
// in [0, 1) while realizing.
func (f *Fabric) realizingNuance(world types.World) float64 {
	countdown := float64(world.RealizingCountdown)
	if countdown <= 0 {
		return 1
	}
	return (countdown - float64(f.busyCountdown)) / countdown
}

// advance applies the stage transition table. Each step sees the stage the
// previous one left behind.
func (f *Fabric) advance(requested types.Stage, world types.World) {
	if f.stage == types.StageBusy && requested == types.StageGrowing {
		f.setStage(types.StageGrowing)
	}
	if f.stage == types.StageGrowing {
		f.SetAltitude(0)
	}
	if f.stage == types.StageShaping {
		f.SetAltitude(0)
		switch requested {
		case types.StageRealizing:
			f.startRealizing(world)
		case types.StageSlack:
			f.setStage(types.StageSlack)
		}
	}
	if f.stage == types.StageSlack {
		switch requested {
		case types.StageRealizing:
			f.startRealizing(world)
		case types.StageShaping:
			f.slackToShaping(world)
		}
	}
}

// gate decides the reported stage and runs down the busy countdown.
func (f *Fabric) gate(substeps int) types.Stage {
	if f.Settling() {
		return types.StageBusy
	}
	if f.busyCountdown == 0 {
		return f.stage
	}
	f.busyCountdown = max(f.busyCountdown-substeps, 0)
	if f.busyCountdown > 0 {
		return types.StageBusy
	}
	if f.stage == types.StageRealizing {
		f.setStage(types.StageRealized)
	}
	return f.stage
}

func (f *Fabric) startRealizing(world types.World) {
	f.busyCountdown = world.RealizingCountdown
	f.setStage(types.StageRealizing)
}

// slackToShaping pretensions every push interval in the rest shape.
func (f *Fabric) slackToShaping(world types.World) {
	for i := range f.intervals {
		in := &f.intervals[i]
		if in.IsPush() {
			in.multiplyRestLength(world.ShapingPretenstFactor, world.IntervalCountdown, RestShape)
		}
	}
	f.setStage(types.StageShaping)
}
