package types

import "github.com/go-gl/mathgl/mgl64"

// Snapshot is the read-only view of a fabric handed to renderers after a
// frame step. Interval endpoints are resolved to positions so a renderer
// needs no access to faces.
type Snapshot struct {
	Age       int             `json:"age"`
	Stage     Stage           `json:"stage"`
	Joints    []JointState    `json:"joints"`
	Intervals []IntervalState `json:"intervals"`
	Faces     []FaceState     `json:"faces"`
}

// JointState is a joint's position and velocity.
type JointState struct {
	Position mgl64.Vec3 `json:"position"`
	Velocity mgl64.Vec3 `json:"velocity"`
}

// IntervalState is one interval as seen by a renderer.
type IntervalState struct {
	Alpha      mgl64.Vec3   `json:"alpha"`
	Omega      mgl64.Vec3   `json:"omega"`
	Role       IntervalRole `json:"role"`
	RestLength float64      `json:"rest_length"`
	Strain     float64      `json:"strain"`
}

// FaceState lists a face's joint indices.
type FaceState struct {
	Joints [3]int `json:"joints"`
}

// Midpoint returns the centroid of all joint positions, or the zero vector
// for an empty snapshot.
func (s Snapshot) Midpoint() mgl64.Vec3 {
	var mid mgl64.Vec3
	if len(s.Joints) == 0 {
		return mid
	}
	for _, j := range s.Joints {
		mid = mid.Add(j.Position)
	}
	return mid.Mul(1 / float64(len(s.Joints)))
}
