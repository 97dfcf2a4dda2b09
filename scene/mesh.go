package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"rendering-engine/core"
	"rendering-engine/internal/gfx"
)

// Mesh is one drawable: geometry, textures and material plus the GPU objects
// created from them. The mesh owns those objects; Release frees them.
type Mesh struct {
	Name      string
	Vertices  []core.Vertex
	Indices   []uint32
	Textures  []*Texture
	Material  Material
	Transform Transform
	Visible   bool

	// Box is the local-space bounding box of Vertices.
	Box BoundingBox

	VertexArray gfx.VertexArray
}

// NewMesh builds a visible mesh with an identity transform.
func NewMesh(name string, vertices []core.Vertex, indices []uint32) *Mesh {
	m := &Mesh{
		Name:      name,
		Vertices:  vertices,
		Indices:   indices,
		Material:  DefaultPhongMaterial(),
		Transform: NewTransform(),
		Visible:   true,
	}
	m.UpdateBox()
	return m
}

// UpdateBox recomputes Box from the vertex positions.
func (m *Mesh) UpdateBox() {
	b := EmptyBox()
	for _, v := range m.Vertices {
		b = b.Extend(v.Position)
	}
	m.Box = b
}

// WorldBox is Box moved by the mesh transform.
func (m *Mesh) WorldBox() BoundingBox {
	return m.Box.Transform(m.Transform.Matrix())
}

func (m *Mesh) Model() mgl32.Mat4 {
	return m.Transform.Matrix()
}

// IndexCount is the element count of the indexed draw.
func (m *Mesh) IndexCount() int32 {
	return int32(len(m.Indices))
}

// HasTexture reports whether any mesh texture has the given kind.
func (m *Mesh) HasTexture(kind TextureKind) bool {
	for _, t := range m.Textures {
		if t.Kind == kind {
			return true
		}
	}
	return false
}

// Uploaded reports whether the vertex array exists.
func (m *Mesh) Uploaded() bool { return m.VertexArray != 0 }

// Upload creates the vertex array and textures on dev. Meshes without
// indices get sequential ones so every draw is indexed.
func (m *Mesh) Upload(dev gfx.Device) error {
	if m.Uploaded() {
		return nil
	}
	if len(m.Indices) == 0 {
		m.Indices = make([]uint32, len(m.Vertices))
		for i := range m.Indices {
			m.Indices[i] = uint32(i)
		}
	}
	va, err := dev.NewVertexArray(core.FlattenVertices(m.Vertices), core.VertexLayout, m.Indices)
	if err != nil {
		return fmt.Errorf("upload mesh %q: %w", m.Name, err)
	}
	m.VertexArray = va
	for _, t := range m.Textures {
		if err := t.Upload(dev); err != nil {
			return fmt.Errorf("mesh %q: %w", m.Name, err)
		}
	}
	return nil
}

// Release frees every GPU object of the mesh. Calling it twice is harmless.
func (m *Mesh) Release(dev gfx.Device) {
	if m.VertexArray != 0 {
		dev.DeleteVertexArray(m.VertexArray)
		m.VertexArray = 0
	}
	for _, t := range m.Textures {
		t.Release(dev)
	}
}
