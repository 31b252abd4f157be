package math3d

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min Vec3
	Max Vec3
}

// NewAABB creates an AABB from two opposite corners in any order.
func NewAABB(a, b Vec3) AABB {
	return AABB{Min: a.Min(b), Max: a.Max(b)}
}

// AABBFromCenter creates an AABB of the given full size around center.
func AABBFromCenter(center, size Vec3) AABB {
	half := size.Scale(0.5)
	return AABB{Min: center.Sub(half), Max: center.Add(half)}
}

// BoundPoints returns the smallest AABB containing every point.
// The zero AABB is returned for an empty slice.
func BoundPoints(pts []Vec3) AABB {
	if len(pts) == 0 {
		return AABB{}
	}
	b := AABB{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		b.Min = b.Min.Min(p)
		b.Max = b.Max.Max(p)
	}
	return b
}

// Center returns the center of the box.
func (b AABB) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the dimensions of the box.
func (b AABB) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// Expand grows the box by d on each side of every axis. Components of d
// may differ, so a box can be padded by different tolerances per axis.
func (b AABB) Expand(d Vec3) AABB {
	return AABB{Min: b.Min.Sub(d), Max: b.Max.Add(d)}
}

// Union returns the smallest box containing both b and o.
func (b AABB) Union(o AABB) AABB {
	return AABB{Min: b.Min.Min(o.Min), Max: b.Max.Max(o.Max)}
}

// ContainsPoint reports whether p lies inside or on the box.
func (b AABB) ContainsPoint(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Intersects reports whether b and o overlap. Touching faces count as
// overlapping. The test is symmetric: b.Intersects(o) == o.Intersects(b).
func (b AABB) Intersects(o AABB) bool {
	return b.Min.X <= o.Max.X && o.Min.X <= b.Max.X &&
		b.Min.Y <= o.Max.Y && o.Min.Y <= b.Max.Y &&
		b.Min.Z <= o.Max.Z && o.Min.Z <= b.Max.Z
}

// Corners returns the eight corners of the box.
func (b AABB) Corners() [8]Vec3 {
	return [8]Vec3{
		{b.Min.X, b.Min.Y, b.Min.Z},
		{b.Max.X, b.Min.Y, b.Min.Z},
		{b.Max.X, b.Max.Y, b.Min.Z},
		{b.Min.X, b.Max.Y, b.Min.Z},
		{b.Min.X, b.Min.Y, b.Max.Z},
		{b.Max.X, b.Min.Y, b.Max.Z},
		{b.Max.X, b.Max.Y, b.Max.Z},
		{b.Min.X, b.Max.Y, b.Max.Z},
	}
}

// Transform returns the box bounding all eight corners after m is applied.
func (b AABB) Transform(m Mat4) AABB {
	corners := b.Corners()
	out := corners[:]
	for i := range out {
		out[i] = m.MulVec3(out[i])
	}
	return BoundPoints(out)
}
