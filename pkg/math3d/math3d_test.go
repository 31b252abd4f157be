package math3d

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestRotateYQuarterTurn(t *testing.T) {
	got := RotateY(math.Pi / 2).MulVec3(V3(1, 0, 0))
	want := V3(0, 0, -1)
	if !got.ApproxEqual(want, eps) {
		t.Errorf("RotateY(pi/2) * +X = %v, want %v", got, want)
	}
}

func TestTRSOrder(t *testing.T) {
	m := TRS(V3(10, 0, 0), V3(0, 0, math.Pi/2), V3(2, 2, 2))
	// Scale first, then rotate +X onto +Y, then translate.
	got := m.MulVec3(V3(1, 0, 0))
	want := V3(10, 2, 0)
	if !got.ApproxEqual(want, eps) {
		t.Errorf("TRS * +X = %v, want %v", got, want)
	}
}

func TestMulVec3DirIgnoresTranslation(t *testing.T) {
	m := Translate(V3(5, 6, 7))
	got := m.MulVec3Dir(V3(0, 1, 0))
	if !got.ApproxEqual(V3(0, 1, 0), eps) {
		t.Errorf("direction changed by translation: %v", got)
	}
	if tr := m.Translation(); tr != V3(5, 6, 7) {
		t.Errorf("Translation() = %v", tr)
	}
}

func TestNormalizeZero(t *testing.T) {
	if n := Zero3().Normalize(); n != Zero3() {
		t.Errorf("Normalize(0) = %v, want zero", n)
	}
}

func TestIsFinite(t *testing.T) {
	if !V3(1, 2, 3).IsFinite() {
		t.Error("finite vector reported as non-finite")
	}
	if V3(math.NaN(), 0, 0).IsFinite() {
		t.Error("NaN reported as finite")
	}
	if V3(0, math.Inf(-1), 0).IsFinite() {
		t.Error("-Inf reported as finite")
	}
}

func TestNewAABBOrdersCorners(t *testing.T) {
	b := NewAABB(V3(1, -1, 3), V3(-1, 1, -3))
	if b.Min != V3(-1, -1, -3) || b.Max != V3(1, 1, 3) {
		t.Errorf("NewAABB = %+v", b)
	}
	if b.Center() != Zero3() {
		t.Errorf("Center = %v", b.Center())
	}
	if b.Size() != V3(2, 2, 6) {
		t.Errorf("Size = %v", b.Size())
	}
}

func TestAABBIntersects(t *testing.T) {
	a := NewAABB(V3(0, 0, 0), V3(1, 1, 1))
	tests := []struct {
		name string
		b    AABB
		want bool
	}{
		{"overlap", NewAABB(V3(0.5, 0.5, 0.5), V3(2, 2, 2)), true},
		{"contained", NewAABB(V3(0.25, 0.25, 0.25), V3(0.75, 0.75, 0.75)), true},
		{"touching", NewAABB(V3(1, 0, 0), V3(2, 1, 1)), true},
		{"apart on x", NewAABB(V3(1.1, 0, 0), V3(2, 1, 1)), false},
		{"apart on y", NewAABB(V3(0, -2, 0), V3(1, -0.1, 1)), false},
		{"apart on z", NewAABB(V3(0, 0, 3), V3(1, 1, 4)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Intersects(tt.b); got != tt.want {
				t.Errorf("a.Intersects(b) = %v, want %v", got, tt.want)
			}
			if got := tt.b.Intersects(a); got != tt.want {
				t.Errorf("b.Intersects(a) = %v, want %v (asymmetric)", got, tt.want)
			}
		})
	}
}

func TestAABBExpand(t *testing.T) {
	b := NewAABB(V3(0, 0, 0), V3(1, 1, 1)).Expand(V3(1, 0.5, 0))
	if b.Min != V3(-1, -0.5, 0) || b.Max != V3(2, 1.5, 1) {
		t.Errorf("Expand = %+v", b)
	}
}

func TestAABBTransformRotated(t *testing.T) {
	b := NewAABB(V3(0, -1, -1), V3(2, 1, 1))
	got := b.Transform(RotateY(math.Pi / 2))
	// +X maps to -Z, so the box now spans z in [-2, 0].
	if !got.Min.ApproxEqual(V3(-1, -1, -2), eps) || !got.Max.ApproxEqual(V3(1, 1, 0), eps) {
		t.Errorf("Transform = %+v", got)
	}
}

func TestBoundPointsEmpty(t *testing.T) {
	if b := BoundPoints(nil); b != (AABB{}) {
		t.Errorf("BoundPoints(nil) = %+v", b)
	}
	if !NewAABB(V3(0, 0, 0), V3(1, 1, 1)).ContainsPoint(V3(1, 0.5, 0)) {
		t.Error("boundary point should be contained")
	}
}
