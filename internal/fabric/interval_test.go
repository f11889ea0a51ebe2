package fabric

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/pretenst/pkg/types"
)

// forcesOf runs the force phase of a single interval on a fresh copy of the
// fabric's joints and returns the accumulated forces.
func forcesOf(f *Fabric, i int, stage types.Stage, nuance float64) []mgl64.Vec3 {
	joints := make([]Joint, len(f.joints))
	copy(joints, f.joints)
	in := f.intervals[i]
	in.physics(joints, f.faces, quietWorld(), stage, nuance)
	forces := make([]mgl64.Vec3, len(joints))
	for k := range joints {
		forces[k] = joints[k].Force
	}
	return forces
}

func TestPullPairStrainAndAttraction(t *testing.T) {
	f := pullPair()
	world := quietWorld()

	forces := forcesOf(f, 0, types.StageSlack, 1)
	f.intervals[0].physics(f.joints, f.faces, world, f.stage, 1)
	assert.InDelta(t, 1.0, f.intervals[0].Strain, 1e-12)

	// magnitude = strain * stiffness * stiffness factor * density * rest length
	want := 1.0 * 1 * world.StiffnessFactor * 0.5
	assert.InDelta(t, want, forces[0][1], 1e-9, "alpha pulled up toward omega")
	assert.InDelta(t, -want, forces[1][1], 1e-9, "omega pulled down toward alpha")

	before := f.Interval(0).CurrentLength(f.joints, f.faces)
	g := pullPair()
	g.tick(world, 1)
	after := g.Interval(0).CurrentLength(g.joints, g.faces)
	assert.Less(t, after, before, "one substep draws the joints together")
}

func TestRoleAsymmetry(t *testing.T) {
	tests := []struct {
		name       string
		role       types.IntervalRole
		restLength float64
		wantStrain float64
		wantForce  bool
	}{
		{name: "pull extended bears load", role: types.RolePull, restLength: 0.5, wantStrain: 1, wantForce: true},
		{name: "pull compressed is slack", role: types.RolePull, restLength: 2, wantStrain: -0.5},
		{name: "push compressed bears load", role: types.RolePush, restLength: 2, wantStrain: -0.5, wantForce: true},
		{name: "push extended is slack", role: types.RolePush, restLength: 0.5, wantStrain: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New(2)
			f.AddJoint(0, 0, 0)
			f.AddJoint(0, 1, 0)
			f.AddInterval(0, 1, tt.role, tt.restLength, 1, 1, 0)

			forces := forcesOf(f, 0, types.StageSlack, 1)
			f.intervals[0].physics(f.joints, f.faces, quietWorld(), types.StageSlack, 1)
			assert.InDelta(t, tt.wantStrain, f.intervals[0].Strain, 1e-12, "strain is recorded either way")

			if !tt.wantForce {
				assert.Equal(t, mgl64.Vec3{}, forces[0])
				assert.Equal(t, mgl64.Vec3{}, forces[1])
				return
			}
			if tt.wantStrain > 0 {
				assert.Greater(t, forces[0][1], 0.0, "extended pull draws alpha toward omega")
			} else {
				assert.Less(t, forces[0][1], 0.0, "compressed push drives alpha away from omega")
			}
		})
	}
}

func TestForceConservation(t *testing.T) {
	f := prism()
	f.AddFaceInterval(0, 1, types.RolePull, 0.5, 1, 1, 0)
	f.AddFaceInterval(4, 0, types.RolePush, 3, 1, 1, 0)
	// Disturb the geometry so every interval carries load in some direction.
	f.joints[4].Position = f.joints[4].Position.Add(mgl64.Vec3{0.3, -0.2, 0.1})

	for i := range f.intervals {
		forces := forcesOf(f, i, types.StageSlack, 1)
		var total mgl64.Vec3
		for _, force := range forces {
			total = total.Add(force)
		}
		assert.InDelta(t, 0, total.Len(), 1e-9, "interval %d must not create net force", i)

		in := f.intervals[i]
		if !in.FaceBound {
			assert.InDelta(t, forces[in.Alpha].Len(), forces[in.Omega].Len(), 1e-9)
		}
	}
}

func TestFaceBoundInterval(t *testing.T) {
	f := New(4)
	f.AddJoint(0, 0, 0)
	f.AddJoint(3, 0, 0)
	f.AddJoint(0, 0, 3)
	apex := f.AddJoint(1, 4, 1)
	face := f.AddFace(0, 1, 2)
	i := f.AddFaceInterval(apex, face, types.RolePull, 2, 1, 1, 0)

	mid := f.Face(face).Midpoint(f.joints)
	assert.InDelta(t, 1.0, mid[0], 1e-12)
	assert.InDelta(t, 0.0, mid[1], 1e-12)
	assert.InDelta(t, 1.0, mid[2], 1e-12)
	assert.InDelta(t, 4.0, f.Interval(i).CurrentLength(f.joints, f.faces), 1e-12)

	forces := forcesOf(f, i, types.StageSlack, 1)
	assert.Less(t, forces[apex][1], 0.0, "apex pulled toward the face")
	for _, j := range f.Face(face).Joints {
		assert.InDelta(t, -forces[apex][1]/3, forces[j][1], 1e-9, "face joints share the reaction")
	}
}

func TestZeroLengthProducesNoForce(t *testing.T) {
	f := New(2)
	f.AddJoint(1, 1, 1)
	f.AddJoint(1, 1, 1)
	f.AddInterval(0, 1, types.RolePush, 1, 1, 1, 0)

	forces := forcesOf(f, 0, types.StageSlack, 1)
	assert.Equal(t, mgl64.Vec3{}, forces[0])
	assert.Equal(t, mgl64.Vec3{}, forces[1])
}

func TestRealizingScalesForce(t *testing.T) {
	f := pullPair()
	full := forcesOf(f, 0, types.StageRealizing, 1)
	half := forcesOf(f, 0, types.StageRealizing, 0.5)
	none := forcesOf(f, 0, types.StageRealizing, 0)
	slack := forcesOf(f, 0, types.StageSlack, 0)

	assert.InDelta(t, full[0][1]/2, half[0][1], 1e-12)
	assert.Equal(t, mgl64.Vec3{}, none[0])
	assert.Equal(t, full[0], slack[0], "nuance only applies while realizing")
}

func TestRestLengthRamp(t *testing.T) {
	in := Interval{RestLength: 1}
	in.rampTo(2, 4)
	require.Equal(t, 4, in.Countdown)

	steps := []float64{1.25, 1.5, 1.75, 2}
	for k, want := range steps {
		in.advance()
		assert.InDelta(t, want, in.RestLength, 1e-12, "substep %d", k+1)
	}
	assert.Zero(t, in.Countdown)
	assert.Equal(t, 2.0, in.RestLength, "ramp lands exactly on the target")

	in.advance()
	assert.Equal(t, 2.0, in.RestLength, "no drift once stable")
	assert.Zero(t, in.Countdown, "countdown never goes below zero")
}

func TestRampInstant(t *testing.T) {
	in := Interval{RestLength: 1, Countdown: 3}
	in.rampTo(0.25, 0)
	assert.Equal(t, 0.25, in.RestLength)
	assert.Zero(t, in.Countdown)
}
