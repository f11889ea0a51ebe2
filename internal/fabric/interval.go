package fabric

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/mesh-intelligence/pretenst/pkg/types"
)

// ShapeCount is the number of stored rest-length slots per interval.
const ShapeCount = 4

// RestShape is the shape a new fabric starts in.
const RestShape = 0

// Interval connects the Alpha joint to either the Omega joint or, when
// FaceBound is set, to the midpoint of face Omega.
type Interval struct {
	Alpha     int
	Omega     int
	FaceBound bool

	Role          types.IntervalRole
	RestLength    float64
	Stiffness     float64
	LinearDensity float64

	// Countdown is the number of substeps left in a rest-length ramp.
	Countdown int
	// Strain is the value computed in the most recent substep.
	Strain float64
	// ShapeLengths holds a stored rest length per shape; zero means unset.
	ShapeLengths [ShapeCount]float64

	target float64
	delta  float64
}

// ends returns the two reference points of the interval.
func (in Interval) ends(joints []Joint, faces []Face) (alpha, omega mgl64.Vec3) {
	alpha = joints[in.Alpha].Position
	if in.FaceBound {
		return alpha, faces[in.Omega].Midpoint(joints)
	}
	return alpha, joints[in.Omega].Position
}

// CurrentLength measures the distance between the interval's reference
// points.
func (in Interval) CurrentLength(joints []Joint, faces []Face) float64 {
	alpha, omega := in.ends(joints, faces)
	return omega.Sub(alpha).Len()
}

// IsPush reports whether the interval is a compression member.
func (in Interval) IsPush() bool {
	return in.Role == types.RolePush
}

// bearsLoad reports whether the current strain produces force. A push
// member resists only compression and a pull member only extension.
func (in Interval) bearsLoad() bool {
	if in.IsPush() {
		return in.Strain < 0
	}
	return in.Strain > 0
}

// physics accumulates this interval's force and mass onto its joints for
// one substep and advances any rest-length ramp. nuance scales the force
// while the fabric is realizing.
func (in *Interval) physics(joints []Joint, faces []Face, world types.World, stage types.Stage, nuance float64) {
	alpha, omega := in.ends(joints, faces)
	axis := omega.Sub(alpha)
	length := axis.Len()
	in.Strain = 0
	if in.RestLength > 0 {
		in.Strain = (length - in.RestLength) / in.RestLength
	}

	mass := in.LinearDensity * in.RestLength
	var force mgl64.Vec3
	if length > 0 && in.bearsLoad() {
		magnitude := in.Strain * in.Stiffness * world.StiffnessFactor * mass
		if stage == types.StageRealizing {
			magnitude *= nuance
		}
		force = axis.Mul(magnitude / length)
	}
	in.apply(joints, faces, force, mass)
	in.advance()
}

// apply adds force to alpha and its opposite to the omega end, spreading
// the omega share over the three joints of a face.
func (in *Interval) apply(joints []Joint, faces []Face, force mgl64.Vec3, mass float64) {
	half := mass / 2
	joints[in.Alpha].accumulate(force, half)
	if !in.FaceBound {
		joints[in.Omega].accumulate(force.Mul(-1), half)
		return
	}
	third := force.Mul(-1.0 / 3)
	for _, j := range faces[in.Omega].Joints {
		joints[j].accumulate(third, half/3)
	}
}

// advance moves the rest length one substep along its ramp. The final
// substep lands exactly on the target.
func (in *Interval) advance() {
	if in.Countdown <= 0 {
		in.Countdown = 0
		return
	}
	in.Countdown--
	if in.Countdown == 0 {
		in.RestLength = in.target
		in.delta = 0
		return
	}
	in.RestLength += in.delta
}

// rampTo schedules a linear ramp from the current rest length to target
// over countdown substeps. A countdown of zero applies the change at once.
func (in *Interval) rampTo(target float64, countdown int) {
	in.target = target
	if countdown <= 0 {
		in.RestLength = target
		in.Countdown = 0
		in.delta = 0
		return
	}
	in.delta = (target - in.RestLength) / float64(countdown)
	in.Countdown = countdown
}

func (in *Interval) changeRestLength(target float64, countdown, shape int) {
	in.ShapeLengths[shape] = target
	in.rampTo(target, countdown)
}

func (in *Interval) multiplyRestLength(factor float64, countdown, shape int) {
	in.changeRestLength(in.RestLength*factor, countdown, shape)
}
