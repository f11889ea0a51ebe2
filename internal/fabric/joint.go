package fabric

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/mesh-intelligence/pretenst/pkg/types"
)

// Joint is a point mass. Force and Mass accumulate contributions from the
// intervals during a substep and are cleared by integration.
type Joint struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Force    mgl64.Vec3
	Mass     float64
}

func (j *Joint) accumulate(force mgl64.Vec3, mass float64) {
	j.Force = j.Force.Add(force)
	j.Mass += mass
}

// integrate advances the joint by one substep: semi-implicit Euler with
// gravity along -y and velocity drag, then clears the accumulators.
func (j *Joint) integrate(world types.World) {
	dt := world.TimeStep
	if j.Mass > 0 {
		j.Velocity = j.Velocity.Add(j.Force.Mul(dt / j.Mass))
	}
	j.Velocity[1] -= world.Gravity * dt
	j.Velocity = j.Velocity.Mul(1 - world.Drag)
	j.Position = j.Position.Add(j.Velocity.Mul(dt))
	if world.Surface && j.Position[1] < 0 {
		j.Position[1] = 0
		if j.Velocity[1] < 0 {
			j.Velocity[1] = 0
		}
	}
	j.clear()
}

func (j *Joint) clear() {
	j.Force = mgl64.Vec3{}
	j.Mass = 0
}
