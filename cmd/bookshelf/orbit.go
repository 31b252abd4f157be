package main

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/bookshelf/pkg/render"
)

// OrbitAxis tracks one orbit angle and its velocity. The velocity decays
// toward zero through a harmonica spring so a drag keeps coasting briefly.
type OrbitAxis struct {
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64 // spring velocity of Velocity itself
}

// NewOrbitAxis creates an axis that decays at the given spring settings.
func NewOrbitAxis(fps int, freq, damping float64) OrbitAxis {
	return OrbitAxis{
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), freq, damping),
	}
}

// Step returns this frame's angle change and decays the velocity.
func (a *OrbitAxis) Step() float64 {
	delta := a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
	return delta
}

// Orbit drives the camera's yaw and pitch from mouse drags.
type Orbit struct {
	Yaw, Pitch OrbitAxis

	fps           int
	freq, damping float64
}

// NewOrbit creates an orbit at rest.
func NewOrbit(fps int, freq, damping float64) *Orbit {
	o := &Orbit{fps: fps, freq: freq, damping: damping}
	o.Stop()
	return o
}

// Impulse adds angular velocity in radians per frame.
func (o *Orbit) Impulse(yaw, pitch float64) {
	o.Yaw.Velocity += yaw
	o.Pitch.Velocity += pitch
}

// Apply advances both axes one frame and rotates the camera.
func (o *Orbit) Apply(c *render.Camera) {
	c.Orbit(o.Yaw.Step(), o.Pitch.Step())
}

// Moving reports whether the camera is still coasting.
func (o *Orbit) Moving() bool {
	const eps = 1e-4
	return math.Abs(o.Yaw.Velocity) > eps || math.Abs(o.Pitch.Velocity) > eps
}

// Stop kills any remaining velocity.
func (o *Orbit) Stop() {
	o.Yaw = NewOrbitAxis(o.fps, o.freq, o.damping)
	o.Pitch = NewOrbitAxis(o.fps, o.freq, o.damping)
}
