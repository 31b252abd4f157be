package render

import (
	"math"

	"github.com/taigrr/bookshelf/pkg/math3d"
)

// maxPitch keeps the orbit away from the poles where LookAt degenerates.
const maxPitch = math.Pi/2 - 0.01

// Camera is a perspective camera orbiting a target point.
type Camera struct {
	// Orbit parameters. Position is derived from these.
	Target   math3d.Vec3
	Distance float64
	Yaw      float64 // Rotation around +Y, 0 looks down -Z
	Pitch    float64 // Elevation above the target's XZ plane

	// Projection parameters
	FOV         float64 // Vertical field of view in radians
	AspectRatio float64 // Width / Height
	Near        float64 // Near clipping plane
	Far         float64 // Far clipping plane

	// Cached matrices (computed on demand)
	position       math3d.Vec3
	viewMatrix     math3d.Mat4
	projMatrix     math3d.Mat4
	viewProjMatrix math3d.Mat4
	dirty          bool
}

// NewCamera creates a camera 10 units in front of the origin.
func NewCamera() *Camera {
	return &Camera{
		Distance:    10,
		FOV:         math.Pi / 4, // 45 degrees
		AspectRatio: 16.0 / 9.0,
		Near:        0.1,
		Far:         1000,
		dirty:       true,
	}
}

// SetOrbit places the camera distance units from target at the given angles.
func (c *Camera) SetOrbit(target math3d.Vec3, distance, yaw, pitch float64) {
	c.Target = target
	c.Distance = math.Max(distance, c.Near)
	c.Yaw = yaw
	c.Pitch = math.Max(-maxPitch, math.Min(maxPitch, pitch))
	c.dirty = true
}

// Orbit rotates the camera around its target by the given angles (radians).
func (c *Camera) Orbit(deltaYaw, deltaPitch float64) {
	c.SetOrbit(c.Target, c.Distance, c.Yaw+deltaYaw, c.Pitch+deltaPitch)
}

// Zoom multiplies the orbit distance by factor.
func (c *Camera) Zoom(factor float64) {
	if factor <= 0 {
		return
	}
	c.SetOrbit(c.Target, c.Distance*factor, c.Yaw, c.Pitch)
}

// LookAt keeps the current position and orbits around target instead.
func (c *Camera) LookAt(target math3d.Vec3) {
	offset := c.Position().Sub(target)
	dist := offset.Len()
	if dist == 0 {
		c.SetOrbit(target, c.Distance, c.Yaw, c.Pitch)
		return
	}
	c.SetOrbit(target, dist, math.Atan2(offset.X, offset.Z), math.Asin(offset.Y/dist))
}

// SetFOV sets the field of view (in radians).
func (c *Camera) SetFOV(fov float64) {
	c.FOV = fov
	c.dirty = true
}

// SetAspectRatio sets the aspect ratio.
func (c *Camera) SetAspectRatio(aspect float64) {
	c.AspectRatio = aspect
	c.dirty = true
}

// SetClipPlanes sets the near and far clipping planes.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.Near = near
	c.Far = far
	c.dirty = true
}

// Position returns the eye position in world space.
func (c *Camera) Position() math3d.Vec3 {
	c.update()
	return c.position
}

// Forward returns the unit view direction.
func (c *Camera) Forward() math3d.Vec3 {
	return c.Target.Sub(c.Position()).Normalize()
}

// ViewMatrix returns the view matrix.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	c.update()
	return c.viewMatrix
}

// ProjectionMatrix returns the projection matrix.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	c.update()
	return c.projMatrix
}

// ViewProjectionMatrix returns the combined view-projection matrix.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	c.update()
	return c.viewProjMatrix
}

func (c *Camera) update() {
	if !c.dirty {
		return
	}
	cp := math.Cos(c.Pitch)
	offset := math3d.V3(cp*math.Sin(c.Yaw), math.Sin(c.Pitch), cp*math.Cos(c.Yaw))
	c.position = c.Target.AddScaled(offset, c.Distance)

	c.viewMatrix = math3d.LookAt(c.position, c.Target, math3d.Up())
	c.projMatrix = math3d.Perspective(c.FOV, c.AspectRatio, c.Near, c.Far)
	c.viewProjMatrix = c.projMatrix.Mul(c.viewMatrix)
	c.dirty = false
}

// WorldToScreen transforms a world point to screen coordinates.
// Returns (screenX, screenY, depth, visible).
func (c *Camera) WorldToScreen(worldPos math3d.Vec3, screenWidth, screenHeight int) (x, y, depth float64, visible bool) {
	clipPos := c.ViewProjectionMatrix().MulVec4(math3d.V4FromV3(worldPos, 1))

	// Check if behind camera
	if clipPos.W <= 0 {
		return 0, 0, 0, false
	}

	ndc := clipPos.PerspectiveDivide()
	if ndc.X < -1 || ndc.X > 1 || ndc.Y < -1 || ndc.Y > 1 || ndc.Z < -1 || ndc.Z > 1 {
		return 0, 0, 0, false
	}

	x = (ndc.X + 1) * 0.5 * float64(screenWidth)
	y = (1 - ndc.Y) * 0.5 * float64(screenHeight) // Y is flipped
	depth = ndc.Z

	return x, y, depth, true
}
