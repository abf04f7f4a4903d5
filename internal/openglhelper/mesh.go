package openglhelper

import (
	"github.com/go-gl/gl/v4.6-core/gl"

	"github.com/leterax/go-skyview/pkg/asset"
)

// Attribute locations shared with the shaders
const (
	AttribPosition uint32 = 0
	AttribNormal   uint32 = 1
	AttribTexCoord uint32 = 2
)

// Mesh is an un-indexed triangle list with one buffer per attribute
type Mesh struct {
	vao        *VertexArrayObject
	vbos       []*BufferObject
	pointCount int32
}

// NewMesh uploads mesh data. Normals and texture coordinates are bound to
// their attribute only when present.
func NewMesh(data *asset.MeshData) *Mesh {
	m := &Mesh{
		vao:        NewVAO(),
		pointCount: int32(data.PointCount),
	}
	m.vao.Bind()

	m.addAttribute(AttribPosition, 3, data.Points)
	if data.HasNormals() {
		m.addAttribute(AttribNormal, 3, data.Normals)
	}
	if data.HasTexCoords() {
		m.addAttribute(AttribTexCoord, 2, data.TexCoords)
	}

	m.vao.Unbind()
	return m
}

func (m *Mesh) addAttribute(index uint32, size int32, data []float32) {
	vbo := NewVBO(data, StaticDraw)
	m.vao.SetVertexAttribPointer(index, size, gl.FLOAT, false, 0, 0)
	// the VAO has captured the binding
	vbo.Unbind()
	m.vbos = append(m.vbos, vbo)
}

// PointCount returns the number of vertices drawn
func (m *Mesh) PointCount() int {
	return int(m.pointCount)
}

// Draw renders the mesh with the currently bound program
func (m *Mesh) Draw() {
	m.vao.Bind()
	gl.DrawArrays(gl.TRIANGLES, 0, m.pointCount)
	m.vao.Unbind()
}

// Delete releases all resources
func (m *Mesh) Delete() {
	m.vao.Delete()
	for _, vbo := range m.vbos {
		vbo.Delete()
	}
}

// NewSkyboxCube creates the 36 vertex cube drawn around the camera for the
// sky-box
func NewSkyboxCube(half float32) *Mesh {
	points := SkyboxPoints(half)
	return NewMesh(&asset.MeshData{Points: points, PointCount: len(points) / 3})
}

// SkyboxPoints returns the sky-box triangles. Every face winds counter-clockwise
// when seen from inside the cube.
func SkyboxPoints(half float32) []float32 {
	h := half
	return []float32{
		-h, h, -h, -h, -h, -h, h, -h, -h,
		h, -h, -h, h, h, -h, -h, h, -h,

		-h, -h, h, -h, -h, -h, -h, h, -h,
		-h, h, -h, -h, h, h, -h, -h, h,

		h, -h, -h, h, -h, h, h, h, h,
		h, h, h, h, h, -h, h, -h, -h,

		-h, -h, h, -h, h, h, h, h, h,
		h, h, h, h, -h, h, -h, -h, h,

		-h, h, -h, h, h, -h, h, h, h,
		h, h, h, -h, h, h, -h, h, -h,

		-h, -h, -h, -h, -h, h, h, -h, -h,
		h, -h, -h, -h, -h, h, h, -h, h,
	}
}
