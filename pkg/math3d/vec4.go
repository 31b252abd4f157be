package math3d

// Vec4 is a homogeneous 3D point in clip space.
type Vec4 struct {
	X, Y, Z, W float64
}

// V4FromV3 extends v with the given W.
func V4FromV3(v Vec3, w float64) Vec4 {
	return Vec4{v.X, v.Y, v.Z, w}
}

// Vec3 drops W.
func (v Vec4) Vec3() Vec3 {
	return Vec3{v.X, v.Y, v.Z}
}

// PerspectiveDivide returns the point divided by W. A zero W leaves the
// coordinates untouched.
func (v Vec4) PerspectiveDivide() Vec3 {
	if v.W == 0 {
		return v.Vec3()
	}
	return Vec3{v.X / v.W, v.Y / v.W, v.Z / v.W}
}
