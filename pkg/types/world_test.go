package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorldValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(w *World)
		wantErr bool
	}{
		{name: "defaults are valid", modify: func(w *World) {}},
		{name: "zero iterations", modify: func(w *World) { w.IterationsPerFrame = 0 }, wantErr: true},
		{name: "zero realizing countdown", modify: func(w *World) { w.RealizingCountdown = 0 }, wantErr: true},
		{name: "negative interval countdown", modify: func(w *World) { w.IntervalCountdown = -1 }, wantErr: true},
		{name: "zero interval countdown is instant", modify: func(w *World) { w.IntervalCountdown = 0 }},
		{name: "zero pretenst factor", modify: func(w *World) { w.ShapingPretenstFactor = 0 }, wantErr: true},
		{name: "drag of one", modify: func(w *World) { w.Drag = 1 }, wantErr: true},
		{name: "negative drag", modify: func(w *World) { w.Drag = -0.1 }, wantErr: true},
		{name: "zero time step", modify: func(w *World) { w.TimeStep = 0 }, wantErr: true},
		{name: "zero stiffness factor", modify: func(w *World) { w.StiffnessFactor = 0 }, wantErr: true},
		{name: "zero gravity", modify: func(w *World) { w.Gravity = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := DefaultWorld()
			tt.modify(&w)
			err := w.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidWorld)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
