package models

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/taigrr/bookshelf/pkg/math3d"
)

func TestLoadGLTFInvalidPath(t *testing.T) {
	_, err := LoadGLTF("/nonexistent/path.glb")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestGLTFLoaderCreation(t *testing.T) {
	loader := NewGLTFLoader()
	if !loader.CalculateNormals {
		t.Error("CalculateNormals should default to true")
	}
	if !loader.SmoothNormals {
		t.Error("SmoothNormals should default to true")
	}
}

func TestExportNoGeometry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.glb")
	if err := ExportGLB(path, []*Mesh{NewMesh("empty"), nil}); !errors.Is(err, ErrNoGeometry) {
		t.Errorf("ExportGLB(empty) = %v, want ErrNoGeometry", err)
	}
}

func TestExportRoundTrip(t *testing.T) {
	box := NewBox("box", 1, 2, 3)
	box.SetMaterial(Material{
		Name:        "paper",
		BaseColor:   [4]float64{0.5, 0.25, 1, 1},
		Roughness:   0.5,
		DoubleSided: true,
	})

	for _, name := range []string{"scene.glb", "scene.gltf"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			export := ExportGLB
			if filepath.Ext(name) == ".gltf" {
				export = ExportGLTF
			}
			if err := export(path, []*Mesh{box}); err != nil {
				t.Fatalf("export: %v", err)
			}

			got, err := LoadGLTF(path)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if got.VertexCount() != box.VertexCount() || got.TriangleCount() != box.TriangleCount() {
				t.Errorf("got %d vertices / %d faces, want %d / %d",
					got.VertexCount(), got.TriangleCount(), box.VertexCount(), box.TriangleCount())
			}
			if !got.BoundsMin.ApproxEqual(box.BoundsMin, 1e-6) || !got.BoundsMax.ApproxEqual(box.BoundsMax, 1e-6) {
				t.Errorf("bounds = %v %v, want %v %v", got.BoundsMin, got.BoundsMax, box.BoundsMin, box.BoundsMax)
			}
			if got.MaterialCount() != 1 || got.Materials[0] != box.Materials[0] {
				t.Errorf("materials = %+v, want %+v", got.Materials, box.Materials)
			}
			for i := range got.Faces {
				if got.FaceNormal(i).Normalize().Dot(box.FaceNormal(i).Normalize()) < 0.999 {
					t.Errorf("face %d winding changed", i)
				}
			}
		})
	}
}

func TestExportKeepsFaceUVs(t *testing.T) {
	m := FromSurface("spine", flatSurface(t, 1, 1), -1)
	path := filepath.Join(t.TempDir(), "spine.glb")
	if err := ExportGLB(path, []*Mesh{m}); err != nil {
		t.Fatalf("export: %v", err)
	}

	got, err := LoadGLTF(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	// The two triangles of the cell disagree on the UVs of two corners,
	// so those vertices are split.
	if got.VertexCount() != 6 {
		t.Errorf("got %d vertices, want 6", got.VertexCount())
	}
	for i := range got.Faces {
		want := m.GetFaceUV(i)
		have := got.GetFaceUV(i)
		for k := range 3 {
			if math3d.V3(want[k].X, want[k].Y, 0).Distance(math3d.V3(have[k].X, have[k].Y, 0)) > 1e-6 {
				t.Errorf("face %d corner %d UV = %v, want %v", i, k, have[k], want[k])
			}
		}
	}
}
