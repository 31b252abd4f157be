package shelf

import (
	"image/color"

	"github.com/taigrr/bookshelf/pkg/math3d"
	"github.com/taigrr/bookshelf/pkg/models"
)

// Part is one mesh of the scene with its world transform and surface color.
// Meshes are shared between parts and must not be modified.
type Part struct {
	Name        string
	Mesh        *models.Mesh
	Transform   math3d.Mat4
	Color       color.RGBA
	Emissive    color.RGBA // zero when not highlighted
	DoubleSided bool
}

// Bounds returns the part's bounding box in world space.
func (p Part) Bounds() math3d.AABB {
	return p.Mesh.Bounds().Transform(p.Transform)
}

// Material describes the part for export.
func (p Part) Material() models.Material {
	glow := toUnit4(p.Emissive)
	return models.Material{
		Name:        p.Name,
		BaseColor:   toUnit4(p.Color),
		Roughness:   1,
		Emissive:    [3]float64{glow[0], glow[1], glow[2]},
		DoubleSided: p.DoubleSided,
	}
}

// Merge bakes parts into one world-space mesh with a material per part.
func Merge(name string, parts []Part) *models.Mesh {
	out := models.NewMesh(name)
	for _, p := range parts {
		m := p.Mesh.Clone()
		m.SetMaterial(p.Material())
		out.Append(m, p.Transform)
	}
	return out
}

func toUnit4(c color.RGBA) [4]float64 {
	return [4]float64{
		float64(c.R) / 255,
		float64(c.G) / 255,
		float64(c.B) / 255,
		float64(c.A) / 255,
	}
}
