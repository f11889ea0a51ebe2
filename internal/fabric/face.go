package fabric

import "github.com/go-gl/mathgl/mgl64"

// Face is a triangle of three joint indices. Its midpoint is the reference
// point for face-bound intervals.
type Face struct {
	Joints [3]int
}

// Midpoint returns the centroid of the face's joints.
func (f Face) Midpoint(joints []Joint) mgl64.Vec3 {
	var mid mgl64.Vec3
	for _, j := range f.Joints {
		mid = mid.Add(joints[j].Position)
	}
	return mid.Mul(1.0 / 3)
}
