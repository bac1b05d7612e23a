// Package models turns levels into triangle meshes and moves meshes and
// textures in and out of glTF files.
package models

import (
	"image"
)

// Mesh represents a triangle mesh with vertices, faces, and materials.
type Mesh struct {
	Name      string
	Vertices  []MeshVertex
	Faces     []Face
	Materials []Material

	// Bounding box (calculated on load)
	BoundsMin Vec3
	BoundsMax Vec3
}

// MeshVertex holds all vertex attributes.
type MeshVertex struct {
	Position Vec3
	Normal   Vec3
	UV       Vec2
}

// Face represents a triangle face with vertex indices and material reference.
type Face struct {
	V        [3]int // Indices into Mesh.Vertices
	Material int    // Index into Mesh.Materials (-1 for no material)
}

// Material is a flat color with an optional texture that repeats once per
// unit of UV.
type Material struct {
	Name      string
	BaseColor [4]float64 // RGBA in 0-1 range
	Texture   image.Image
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// AddQuad appends two triangles spanning a, b, c and d, given in
// counter-clockwise order seen from the front, with UVs to match.
func (m *Mesh) AddQuad(a, b, c, d Vec3, uv [4]Vec2, material int) {
	n := b.Sub(a).Cross(c.Sub(a)).Normalize()
	base := len(m.Vertices)
	for i, p := range [4]Vec3{a, b, c, d} {
		m.Vertices = append(m.Vertices, MeshVertex{Position: p, Normal: n, UV: uv[i]})
	}
	m.Faces = append(m.Faces,
		Face{V: [3]int{base, base + 1, base + 2}, Material: material},
		Face{V: [3]int{base, base + 2, base + 3}, Material: material},
	)
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		m.BoundsMin, m.BoundsMax = Vec3{}, Vec3{}
		return
	}

	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// CalculateNormals computes face normals and assigns them to vertices.
// Vertices shared between faces end up with the normal of the last face.
func (m *Mesh) CalculateNormals() {
	for _, f := range m.Faces {
		v0 := m.Vertices[f.V[0]].Position
		v1 := m.Vertices[f.V[1]].Position
		v2 := m.Vertices[f.V[2]].Position

		normal := v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()

		m.Vertices[f.V[0]].Normal = normal
		m.Vertices[f.V[1]].Normal = normal
		m.Vertices[f.V[2]].Normal = normal
	}
}

// Clone creates a deep copy of the mesh. Material textures are shared.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Vertices:  make([]MeshVertex, len(m.Vertices)),
		Faces:     make([]Face, len(m.Faces)),
		Materials: make([]Material, len(m.Materials)),
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.Faces, m.Faces)
	copy(clone.Materials, m.Materials)
	return clone
}

// GetFaceMaterial returns the material index for face i.
// Returns -1 if no material assigned.
func (m *Mesh) GetFaceMaterial(i int) int {
	return m.Faces[i].Material
}

// GetMaterial returns the material at index i.
// Returns nil if index is out of bounds or -1.
func (m *Mesh) GetMaterial(i int) *Material {
	if i < 0 || i >= len(m.Materials) {
		return nil
	}
	return &m.Materials[i]
}

// MaterialCount returns the number of materials.
func (m *Mesh) MaterialCount() int {
	return len(m.Materials)
}
