package fabric

import (
	"fmt"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/mesh-intelligence/pretenst/pkg/types"
)

// Fabric owns the joints, intervals and faces of one structure and its
// lifecycle state. A Fabric is not safe for concurrent use.
type Fabric struct {
	age           int
	stage         types.Stage
	shape         int
	busyCountdown int
	joints        []Joint
	intervals     []Interval
	faces         []Face
}

// New creates an empty fabric in the Busy stage. jointCapacity sizes the
// collections up front.
func New(jointCapacity int) *Fabric {
	return &Fabric{
		stage:     types.StageBusy,
		shape:     RestShape,
		joints:    make([]Joint, 0, jointCapacity),
		intervals: make([]Interval, 0, jointCapacity*3),
		faces:     make([]Face, 0, jointCapacity),
	}
}

// Age returns the number of substeps run so far.
func (f *Fabric) Age() int { return f.age }

// Stage returns the persisted lifecycle stage.
func (f *Fabric) Stage() types.Stage { return f.stage }

// Shape returns the active shape.
func (f *Fabric) Shape() int { return f.shape }

// BusyCountdown returns the substeps left in the fabric-level busy period.
func (f *Fabric) BusyCountdown() int { return f.busyCountdown }

// JointCount returns the number of joints.
func (f *Fabric) JointCount() int { return len(f.joints) }

// IntervalCount returns the number of intervals.
func (f *Fabric) IntervalCount() int { return len(f.intervals) }

// FaceCount returns the number of faces.
func (f *Fabric) FaceCount() int { return len(f.faces) }

// Joint returns a copy of joint i.
func (f *Fabric) Joint(i int) Joint { return f.joints[i] }

// Interval returns a copy of interval i.
func (f *Fabric) Interval(i int) Interval { return f.intervals[i] }

// Face returns a copy of face i.
func (f *Fabric) Face(i int) Face { return f.faces[i] }

// Settling reports whether any interval still has a rest-length ramp in
// flight.
func (f *Fabric) Settling() bool {
	return f.maxCountdown() > 0
}

func (f *Fabric) maxCountdown() int {
	longest := 0
	for i := range f.intervals {
		longest = max(longest, f.intervals[i].Countdown)
	}
	return longest
}

// AddJoint appends a joint at rest and returns its index.
func (f *Fabric) AddJoint(x, y, z float64) int {
	f.joints = append(f.joints, Joint{Position: mgl64.Vec3{x, y, z}})
	return len(f.joints) - 1
}

// AddInterval connects joints alpha and omega and returns the new index.
// With a positive countdown the interval starts at the measured distance
// between its joints and ramps to restLength.
func (f *Fabric) AddInterval(alpha, omega int, role types.IntervalRole, restLength, stiffness, linearDensity float64, countdown int) int {
	f.checkJoint("add interval", alpha)
	f.checkJoint("add interval", omega)
	return f.addInterval(Interval{Alpha: alpha, Omega: omega}, role, restLength, stiffness, linearDensity, countdown)
}

// AddFaceInterval connects joint alpha to the midpoint of face and returns
// the new index.
func (f *Fabric) AddFaceInterval(alpha, face int, role types.IntervalRole, restLength, stiffness, linearDensity float64, countdown int) int {
	f.checkJoint("add face interval", alpha)
	if face < 0 || face >= len(f.faces) {
		panic(fmt.Errorf("add face interval: %w: %d of %d", types.ErrFaceIndex, face, len(f.faces)))
	}
	return f.addInterval(Interval{Alpha: alpha, Omega: face, FaceBound: true}, role, restLength, stiffness, linearDensity, countdown)
}

func (f *Fabric) addInterval(in Interval, role types.IntervalRole, restLength, stiffness, linearDensity float64, countdown int) int {
	switch {
	case !role.Valid():
		panic(fmt.Errorf("add interval: %w: %d", types.ErrInvalidRole, int(role)))
	case restLength <= 0:
		panic(fmt.Errorf("add interval: %w: %g", types.ErrInvalidRestLength, restLength))
	case stiffness <= 0:
		panic(fmt.Errorf("add interval: %w: %g", types.ErrInvalidStiffness, stiffness))
	case linearDensity <= 0:
		panic(fmt.Errorf("add interval: %w: %g", types.ErrInvalidDensity, linearDensity))
	}
	in.Role = role
	in.Stiffness = stiffness
	in.LinearDensity = linearDensity
	in.RestLength = restLength
	in.ShapeLengths[RestShape] = restLength
	if countdown > 0 {
		if measured := in.CurrentLength(f.joints, f.faces); measured > 0 {
			in.RestLength = measured
		}
	}
	in.rampTo(restLength, countdown)
	f.intervals = append(f.intervals, in)
	return len(f.intervals) - 1
}

// RemoveInterval deletes interval i; later intervals shift down by one.
func (f *Fabric) RemoveInterval(i int) {
	f.intervals = slices.Delete(f.intervals, i, i+1)
}

// AddFace appends a face over three joints and returns its index.
func (f *Fabric) AddFace(j0, j1, j2 int) int {
	for _, j := range []int{j0, j1, j2} {
		f.checkJoint("add face", j)
	}
	f.faces = append(f.faces, Face{Joints: [3]int{j0, j1, j2}})
	return len(f.faces) - 1
}

// RemoveFace deletes face i; later faces shift down by one.
func (f *Fabric) RemoveFace(i int) {
	f.faces = slices.Delete(f.faces, i, i+1)
}

func (f *Fabric) checkJoint(op string, j int) {
	if j < 0 || j >= len(f.joints) {
		panic(fmt.Errorf("%s: %w: %d of %d", op, types.ErrJointIndex, j, len(f.joints)))
	}
}

// ChangeRestLength ramps interval i to restLength over countdown substeps.
func (f *Fabric) ChangeRestLength(i int, restLength float64, countdown int) {
	if restLength <= 0 {
		panic(fmt.Errorf("change rest length: %w: %g", types.ErrInvalidRestLength, restLength))
	}
	f.intervals[i].changeRestLength(restLength, countdown, f.shape)
}

// MultiplyRestLength ramps interval i to factor times its rest length over
// countdown substeps.
func (f *Fabric) MultiplyRestLength(i int, factor float64, countdown int) {
	if factor <= 0 {
		panic(fmt.Errorf("multiply rest length: %w: factor %g", types.ErrInvalidRestLength, factor))
	}
	f.intervals[i].multiplyRestLength(factor, countdown, f.shape)
}

// SetIntervalRole reclassifies interval i without touching its length or
// countdown.
func (f *Fabric) SetIntervalRole(i int, role types.IntervalRole) {
	if !role.Valid() {
		panic(fmt.Errorf("set interval role: %w: %d", types.ErrInvalidRole, int(role)))
	}
	f.intervals[i].Role = role
}

// SetShape makes shape active and ramps every interval that has a stored
// length for it toward that length over countdown substeps.
func (f *Fabric) SetShape(shape, countdown int) {
	if shape < 0 || shape >= ShapeCount {
		panic(fmt.Errorf("set shape: %w: %d", types.ErrInvalidShape, shape))
	}
	f.shape = shape
	for i := range f.intervals {
		in := &f.intervals[i]
		if length := in.ShapeLengths[shape]; length > 0 {
			in.rampTo(length, countdown)
		}
	}
}

// FinishGrowing moves the fabric to Shaping.
func (f *Fabric) FinishGrowing() types.Stage {
	return f.setStage(types.StageShaping)
}

// AdoptLengths freezes the current geometry: each interval's rest length
// becomes its measured length (stored in the active shape) with any ramp
// cancelled, all joints come to rest on the ground, and the fabric moves to
// Slack.
func (f *Fabric) AdoptLengths() types.Stage {
	for i := range f.intervals {
		in := &f.intervals[i]
		length := in.CurrentLength(f.joints, f.faces)
		in.RestLength = length
		in.ShapeLengths[f.shape] = length
		in.target = length
		in.delta = 0
		in.Countdown = 0
	}
	for i := range f.joints {
		f.joints[i].clear()
		f.joints[i].Velocity = mgl64.Vec3{}
	}
	f.SetAltitude(0)
	return f.setStage(types.StageSlack)
}

// Centralize shifts every joint so the centroid sits at the origin.
func (f *Fabric) Centralize() {
	if len(f.joints) == 0 {
		return
	}
	var mid mgl64.Vec3
	for i := range f.joints {
		mid = mid.Add(f.joints[i].Position)
	}
	mid = mid.Mul(1 / float64(len(f.joints)))
	for i := range f.joints {
		f.joints[i].Position = f.joints[i].Position.Sub(mid)
	}
}

// SetAltitude moves the fabric vertically so its lowest joint sits at
// altitude, stops every joint, and returns the applied shift.
func (f *Fabric) SetAltitude(altitude float64) float64 {
	if len(f.joints) == 0 {
		return 0
	}
	low := math.Inf(1)
	for i := range f.joints {
		low = math.Min(low, f.joints[i].Position[1])
	}
	shift := altitude - low
	for i := range f.joints {
		f.joints[i].Position[1] += shift
		f.joints[i].Velocity = mgl64.Vec3{}
	}
	return shift
}

func (f *Fabric) setStage(stage types.Stage) types.Stage {
	f.stage = stage
	return stage
}
