package anim

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
)

// Spring drives a scalar toward a target with a damped harmonic spring.
type Spring struct {
	Pos    float64
	Vel    float64
	Target float64

	freq    float64
	damping float64
	fixed   harmonica.Spring
	step    harmonica.Spring
	stepDt  time.Duration
}

// NewSpring creates a spring at rest at pos. Update advances one frame at
// fps; Step advances by an arbitrary duration.
func NewSpring(fps int, freq, damping, pos float64) *Spring {
	return &Spring{
		Pos:     pos,
		Target:  pos,
		freq:    freq,
		damping: damping,
		fixed:   harmonica.NewSpring(harmonica.FPS(fps), freq, damping),
	}
}

// SetTarget changes where the spring is heading. Velocity is kept.
func (s *Spring) SetTarget(target float64) {
	s.Target = target
}

// Update advances the spring by one frame and returns the new position.
func (s *Spring) Update() float64 {
	s.Pos, s.Vel = s.fixed.Update(s.Pos, s.Vel, s.Target)
	return s.Pos
}

// Step advances the spring by dt and returns the new position.
func (s *Spring) Step(dt time.Duration) float64 {
	if dt <= 0 {
		return s.Pos
	}
	if dt != s.stepDt {
		s.step = harmonica.NewSpring(dt.Seconds(), s.freq, s.damping)
		s.stepDt = dt
	}
	s.Pos, s.Vel = s.step.Update(s.Pos, s.Vel, s.Target)
	return s.Pos
}

// Settled reports whether the spring is within eps of its target and
// moving slower than eps per second.
func (s *Spring) Settled(eps float64) bool {
	return math.Abs(s.Pos-s.Target) < eps && math.Abs(s.Vel) < eps
}

// Snap jumps to the target and stops.
func (s *Spring) Snap() {
	s.Pos = s.Target
	s.Vel = 0
}
