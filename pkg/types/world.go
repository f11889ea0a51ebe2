package types

import "fmt"

// World holds the physical constants and pacing values supplied to every
// frame. Countdowns are measured in substeps.
type World struct {
	IterationsPerFrame    int     `json:"iterations_per_frame" yaml:"iterations_per_frame" mapstructure:"iterations_per_frame"`
	RealizingCountdown    int     `json:"realizing_countdown" yaml:"realizing_countdown" mapstructure:"realizing_countdown"`
	IntervalCountdown     int     `json:"interval_countdown" yaml:"interval_countdown" mapstructure:"interval_countdown"`
	ShapingPretenstFactor float64 `json:"shaping_pretenst_factor" yaml:"shaping_pretenst_factor" mapstructure:"shaping_pretenst_factor"`
	Gravity               float64 `json:"gravity" yaml:"gravity" mapstructure:"gravity"`
	Drag                  float64 `json:"drag" yaml:"drag" mapstructure:"drag"`
	TimeStep              float64 `json:"time_step" yaml:"time_step" mapstructure:"time_step"`
	StiffnessFactor       float64 `json:"stiffness_factor" yaml:"stiffness_factor" mapstructure:"stiffness_factor"`
	Surface               bool    `json:"surface" yaml:"surface" mapstructure:"surface"`
}

// DefaultWorld returns the constants used when configuration sets none.
func DefaultWorld() World {
	return World{
		IterationsPerFrame:    40,
		RealizingCountdown:    4000,
		IntervalCountdown:     1000,
		ShapingPretenstFactor: 1.1,
		Gravity:               0.1,
		Drag:                  0.02,
		TimeStep:              0.02,
		StiffnessFactor:       50,
		Surface:               true,
	}
}

// Validate checks that the constants can drive a simulation. It returns an
// error wrapping ErrInvalidWorld on failure.
func (w World) Validate() error {
	switch {
	case w.IterationsPerFrame <= 0:
		return fmt.Errorf("%w: iterations per frame must be positive", ErrInvalidWorld)
	case w.RealizingCountdown <= 0:
		return fmt.Errorf("%w: realizing countdown must be positive", ErrInvalidWorld)
	case w.IntervalCountdown < 0:
		return fmt.Errorf("%w: interval countdown must not be negative", ErrInvalidWorld)
	case w.ShapingPretenstFactor <= 0:
		return fmt.Errorf("%w: shaping pretenst factor must be positive", ErrInvalidWorld)
	case w.Drag < 0 || w.Drag >= 1:
		return fmt.Errorf("%w: drag must be in [0, 1)", ErrInvalidWorld)
	case w.TimeStep <= 0:
		return fmt.Errorf("%w: time step must be positive", ErrInvalidWorld)
	case w.StiffnessFactor <= 0:
		return fmt.Errorf("%w: stiffness factor must be positive", ErrInvalidWorld)
	}
	return nil
}
