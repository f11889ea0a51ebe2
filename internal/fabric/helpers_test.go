package fabric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/pretenst/pkg/types"
)

// quietWorld returns constants with no gravity, drag or ground so that only
// interval forces move joints.
func quietWorld() types.World {
	w := types.DefaultWorld()
	w.IterationsPerFrame = 10
	w.RealizingCountdown = 35
	w.IntervalCountdown = 20
	w.Gravity = 0
	w.Drag = 0
	w.Surface = false
	return w
}

// pullPair is two joints one unit apart joined by a pull interval of rest
// length 0.5.
func pullPair() *Fabric {
	f := New(2)
	a := f.AddJoint(0, 0, 0)
	b := f.AddJoint(0, 1, 0)
	f.AddInterval(a, b, types.RolePull, 0.5, 1, 1, 0)
	return f
}

// prism builds a small three-strut structure with pulls around the top and
// bottom triangles, raised off the ground.
func prism() *Fabric {
	f := New(6)
	f.AddJoint(1, 2, 0)
	f.AddJoint(-0.5, 2, 0.866)
	f.AddJoint(-0.5, 2, -0.866)
	f.AddJoint(-0.866, 3.5, 0.5)
	f.AddJoint(0, 3.5, -1)
	f.AddJoint(0.866, 3.5, 0.5)
	for i := range 3 {
		f.AddInterval(i, 3+i, types.RolePush, 2.4, 2, 1, 0)
		f.AddInterval(i, (i+1)%3, types.RolePull, 1.6, 1, 0.2, 0)
		f.AddInterval(3+i, 3+(i+1)%3, types.RolePull, 1.6, 1, 0.2, 0)
		f.AddInterval(i, 3+(i+2)%3, types.RolePull, 1.5, 1, 0.2, 0)
	}
	f.AddFace(0, 1, 2)
	f.AddFace(3, 4, 5)
	return f
}

// requirePanicIs runs fn and checks that it panics with an error wrapping
// target.
func requirePanicIs(t *testing.T, target error, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		require.NotNil(t, r, "expected panic wrapping %v", target)
		err, ok := r.(error)
		require.True(t, ok, "panic value should be an error, got %T", r)
		assert.ErrorIs(t, err, target)
	}()
	fn()
}

func minAltitude(f *Fabric) float64 {
	low := f.joints[0].Position[1]
	for _, j := range f.joints[1:] {
		low = min(low, j.Position[1])
	}
	return low
}
