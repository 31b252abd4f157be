package models

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/taigrr/bookshelf/pkg/math3d"
)

// ErrNoGeometry is returned when an export has no triangles to write.
var ErrNoGeometry = errors.New("no geometry to export")

// GLTFLoader loads GLTF/GLB files into Mesh format.
type GLTFLoader struct {
	// Options
	CalculateNormals bool
	SmoothNormals    bool
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		CalculateNormals: true,
		SmoothNormals:    true,
	}
}

// LoadGLTF loads a .gltf or .glb file with the default options.
func LoadGLTF(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load loads a GLTF or GLB file and merges every triangle primitive into
// one Mesh. Materials are carried over by index.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(filepath.Base(path))
	for _, mat := range doc.Materials {
		mesh.Materials = append(mesh.Materials, readMaterial(mat))
	}

	for _, m := range doc.Meshes {
		if err := l.processMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}

	hasNormals := false
	for _, v := range mesh.Vertices {
		if v.Normal.Len() > 0.001 {
			hasNormals = true
			break
		}
	}

	if l.CalculateNormals && !hasNormals {
		if l.SmoothNormals {
			mesh.CalculateSmoothNormals()
		} else {
			mesh.CalculateNormals()
		}
	}

	mesh.CalculateBounds()

	return mesh, nil
}

// processMesh extracts geometry from a GLTF mesh.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Skip non-triangle primitives (lines, points, etc)
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var normals [][3]float32
		if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
			normals, err = modeler.ReadNormal(doc, doc.Accessors[normIdx], nil)
			if err != nil {
				return fmt.Errorf("read normals: %w", err)
			}
		}

		var uvs [][2]float32
		if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[uvIdx], nil)
			if err != nil {
				return fmt.Errorf("read uvs: %w", err)
			}
		}

		material := -1
		if prim.Material != nil && *prim.Material < len(mesh.Materials) {
			material = *prim.Material
		}

		baseVertex := len(mesh.Vertices)
		for i, p := range positions {
			v := MeshVertex{
				Position: math3d.V3(float64(p[0]), float64(p[1]), float64(p[2])),
			}
			if i < len(normals) {
				n := normals[i]
				v.Normal = math3d.V3(float64(n[0]), float64(n[1]), float64(n[2]))
			}
			if i < len(uvs) {
				// GLTF uses top-left origin (V=0 at top), flip V for bottom-left origin
				v.UV = math3d.V2(float64(uvs[i][0]), 1.0-float64(uvs[i][1]))
			}
			mesh.Vertices = append(mesh.Vertices, v)
		}

		// GLTF front faces are counter-clockwise, same as ours.
		if prim.Indices != nil {
			indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
			for i := 0; i+2 < len(indices); i += 3 {
				f := Face{Material: material}
				for k := range 3 {
					idx := int(indices[i+k])
					if idx >= len(positions) {
						return fmt.Errorf("index %d out of range for %d vertices", idx, len(positions))
					}
					f.V[k] = baseVertex + idx
				}
				mesh.Faces = append(mesh.Faces, f)
			}
		} else {
			// No indices, assume sequential triangles
			for i := 0; i+2 < len(positions); i += 3 {
				mesh.Faces = append(mesh.Faces, Face{
					V:        [3]int{baseVertex + i, baseVertex + i + 1, baseVertex + i + 2},
					Material: material,
				})
			}
		}
	}

	return nil
}

func readMaterial(mat *gltf.Material) Material {
	out := Material{
		Name:        mat.Name,
		BaseColor:   [4]float64{1, 1, 1, 1},
		Metallic:    1,
		Roughness:   1,
		Emissive:    mat.EmissiveFactor,
		DoubleSided: mat.DoubleSided,
	}
	if pbr := mat.PBRMetallicRoughness; pbr != nil {
		if pbr.BaseColorFactor != nil {
			out.BaseColor = *pbr.BaseColorFactor
		}
		if pbr.MetallicFactor != nil {
			out.Metallic = *pbr.MetallicFactor
		}
		if pbr.RoughnessFactor != nil {
			out.Roughness = *pbr.RoughnessFactor
		}
	}
	return out
}

// ExportGLB writes meshes to a binary glTF file, one node per mesh.
func ExportGLB(path string, meshes []*Mesh) error {
	doc, err := buildDocument(meshes)
	if err != nil {
		return err
	}
	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("save glb: %w", err)
	}
	return nil
}

// ExportGLTF writes meshes to a JSON glTF file with the buffer embedded
// as a data URI.
func ExportGLTF(path string, meshes []*Mesh) error {
	doc, err := buildDocument(meshes)
	if err != nil {
		return err
	}
	doc.Buffers[0].EmbeddedResource()
	if err := gltf.Save(doc, path); err != nil {
		return fmt.Errorf("save gltf: %w", err)
	}
	return nil
}

func buildDocument(meshes []*Mesh) (*gltf.Document, error) {
	doc := gltf.NewDocument()

	for _, m := range meshes {
		if m == nil || len(m.Faces) == 0 {
			continue
		}

		materialBase := len(doc.Materials)
		for _, mat := range m.Materials {
			doc.Materials = append(doc.Materials, writeMaterial(mat))
		}

		attrs := flatten(m)
		position := modeler.WritePosition(doc, attrs.positions)
		normal := modeler.WriteNormal(doc, attrs.normals)
		texcoord := modeler.WriteTextureCoord(doc, attrs.uvs)

		gm := &gltf.Mesh{Name: m.Name}
		for _, group := range attrs.groups {
			prim := &gltf.Primitive{
				Mode:    gltf.PrimitiveTriangles,
				Indices: gltf.Index(modeler.WriteIndices(doc, group.indices)),
				Attributes: map[string]int{
					gltf.POSITION:   position,
					gltf.NORMAL:     normal,
					gltf.TEXCOORD_0: texcoord,
				},
			}
			if group.material >= 0 && group.material < len(m.Materials) {
				prim.Material = gltf.Index(materialBase + group.material)
			}
			gm.Primitives = append(gm.Primitives, prim)
		}

		doc.Meshes = append(doc.Meshes, gm)
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name: m.Name,
			Mesh: gltf.Index(len(doc.Meshes) - 1),
		})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)
	}

	if len(doc.Meshes) == 0 {
		return nil, ErrNoGeometry
	}
	return doc, nil
}

func writeMaterial(mat Material) *gltf.Material {
	base := mat.BaseColor
	metallic := mat.Metallic
	roughness := mat.Roughness
	return &gltf.Material{
		Name:           mat.Name,
		DoubleSided:    mat.DoubleSided,
		EmissiveFactor: mat.Emissive,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &base,
			MetallicFactor:  &metallic,
			RoughnessFactor: &roughness,
		},
	}
}

// indexGroup is the index list of one glTF primitive.
type indexGroup struct {
	material int
	indices  []uint32
}

type vertexArrays struct {
	positions [][3]float32
	normals   [][3]float32
	uvs       [][2]float32
	groups    []indexGroup
}

type vertexKey struct {
	index int
	uv    math3d.Vec2
}

// flatten converts a mesh to glTF vertex arrays. A vertex is duplicated
// once for every distinct face UV it is used with, so per-face UVs survive
// the per-vertex attribute model. Faces are grouped by material in order
// of first use.
func flatten(m *Mesh) vertexArrays {
	var out vertexArrays
	remap := make(map[vertexKey]uint32, len(m.Vertices))
	groupOf := make(map[int]int)

	for fi, f := range m.Faces {
		gi, ok := groupOf[f.Material]
		if !ok {
			gi = len(out.groups)
			groupOf[f.Material] = gi
			out.groups = append(out.groups, indexGroup{material: f.Material})
		}

		uvs := m.GetFaceUV(fi)
		for k, vi := range f.V {
			key := vertexKey{index: vi, uv: uvs[k]}
			idx, ok := remap[key]
			if !ok {
				v := m.Vertices[vi]
				idx = uint32(len(out.positions))
				remap[key] = idx
				out.positions = append(out.positions, v.Position.Float32())
				out.normals = append(out.normals, v.Normal.Float32())
				// Flip back to GLTF's top-left origin.
				out.uvs = append(out.uvs, math3d.V2(uvs[k].X, 1-uvs[k].Y).Float32())
			}
			out.groups[gi].indices = append(out.groups[gi].indices, idx)
		}
	}
	return out
}
