package math3d

// Vec2 is a 2D vector, used for texture coordinates and screen-space math.
type Vec2 struct {
	X, Y float64
}

// V2 creates a new Vec2.
func V2(x, y float64) Vec2 {
	return Vec2{x, y}
}

// Add returns a + b.
func (a Vec2) Add(b Vec2) Vec2 {
	return Vec2{a.X + b.X, a.Y + b.Y}
}

// Sub returns a - b.
func (a Vec2) Sub(b Vec2) Vec2 {
	return Vec2{a.X - b.X, a.Y - b.Y}
}

// Scale multiplies both components by s.
func (a Vec2) Scale(s float64) Vec2 {
	return Vec2{a.X * s, a.Y * s}
}

// Cross returns the z component of the 3D cross product of a and b.
// Its sign gives the winding of the triangle (0, a, b).
func (a Vec2) Cross(b Vec2) float64 {
	return a.X*b.Y - a.Y*b.X
}

// Float32 returns the vector as a float32 pair.
func (a Vec2) Float32() [2]float32 {
	return [2]float32{float32(a.X), float32(a.Y)}
}
