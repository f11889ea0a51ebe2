package fabric

import "github.com/mesh-intelligence/pretenst/pkg/types"

// Snapshot copies the fabric's renderable state. The result shares no
// memory with the fabric.
func (f *Fabric) Snapshot() types.Snapshot {
	snap := types.Snapshot{
		Age:       f.age,
		Stage:     f.stage,
		Joints:    make([]types.JointState, len(f.joints)),
		Intervals: make([]types.IntervalState, len(f.intervals)),
		Faces:     make([]types.FaceState, len(f.faces)),
	}
	for i, j := range f.joints {
		snap.Joints[i] = types.JointState{Position: j.Position, Velocity: j.Velocity}
	}
	for i := range f.intervals {
		in := &f.intervals[i]
		alpha, omega := in.ends(f.joints, f.faces)
		snap.Intervals[i] = types.IntervalState{
			Alpha:      alpha,
			Omega:      omega,
			Role:       in.Role,
			RestLength: in.RestLength,
			Strain:     in.Strain,
		}
	}
	for i, face := range f.faces {
		snap.Faces[i] = types.FaceState{Joints: face.Joints}
	}
	return snap
}
