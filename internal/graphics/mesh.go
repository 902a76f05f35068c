package graphics

import (
	"caves/internal/surface"

	"github.com/go-gl/gl/v4.3-core/gl"
)

// Geometry is a vertex source the Renderer can draw from. Bind is called
// with the vertex count right before the draw call.
type Geometry interface {
	Bind(count uint32)
}

// HostMesh streams vertices produced on the CPU into a vertex buffer.
type HostMesh struct {
	source func() []surface.Vertex
	vao    uint32
	vbo    uint32
}

// NewHostMesh uploads from source on every Bind.
func NewHostMesh(source func() []surface.Vertex) *HostMesh {
	m := &HostMesh{source: source}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 4, gl.FLOAT, false, surface.VertexStride, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, surface.VertexStride, 16)

	gl.BindVertexArray(0)
	return m
}

func (m *HostMesh) Bind(count uint32) {
	gl.BindVertexArray(m.vao)
	verts := m.source()
	n := min(int(count), len(verts))
	if n == 0 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, n*surface.VertexStride, gl.Ptr(verts[:n]), gl.STREAM_DRAW)
}

func (m *HostMesh) Dispose() {
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
	}
	if m.vbo != 0 {
		gl.DeleteBuffers(1, &m.vbo)
	}
}
