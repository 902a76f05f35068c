package graphics

import (
	"fmt"
	"unsafe"

	"caves/internal/lattice"
	"caves/internal/surface"
	"caves/internal/tables"

	"github.com/go-gl/gl/v4.3-core/gl"
)

// Storage buffer binding points shared with the compute shaders.
const (
	BindingDensity   = 0
	BindingVertices  = 1
	BindingEdgeTable = 2
	BindingTriTable  = 3
	BindingCounter   = 4
)

// Surface owns the GPU storage of one pipeline: density lattice, vertex
// buffer, lookup tables and the output counter. The vertex buffer doubles
// as the vertex array source for drawing.
type Surface struct {
	gridSize int
	capacity uint32

	density   uint32
	vertices  uint32
	edgeTable uint32
	triTable  uint32
	counter   uint32
	vao       uint32
}

// NewSurface allocates storage for gridSize cells per axis.
func NewSurface(gridSize int) (*Surface, error) {
	if gridSize <= 0 {
		return nil, fmt.Errorf("%w: %d", lattice.ErrGridSize, gridSize)
	}
	d := lattice.SizeFor(gridSize)
	s := &Surface{
		gridSize: gridSize,
		capacity: uint32(surface.Capacity(gridSize)),
	}

	s.density = newStorage(BindingDensity, d*d*d*4, nil, gl.DYNAMIC_DRAW)
	s.vertices = newStorage(BindingVertices, int(s.capacity)*surface.VertexStride, nil, gl.DYNAMIC_DRAW)

	edges := tables.EdgeTableInt32()
	s.edgeTable = newStorage(BindingEdgeTable, len(edges)*4, gl.Ptr(edges), gl.STATIC_DRAW)
	tris := tables.FlatTriTable()
	s.triTable = newStorage(BindingTriTable, len(tris)*4, gl.Ptr(tris), gl.STATIC_DRAW)

	zero := uint32(0)
	s.counter = newStorage(BindingCounter, 4, gl.Ptr(&zero), gl.DYNAMIC_DRAW)

	if code := gl.GetError(); code != gl.NO_ERROR {
		s.Destroy()
		return nil, fmt.Errorf("allocating surface storage for grid %d: gl error 0x%x", gridSize, code)
	}

	s.setupVAO()
	return s, nil
}

func newStorage(binding uint32, size int, data unsafe.Pointer, usage uint32) uint32 {
	var id uint32
	gl.GenBuffers(1, &id)
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, id)
	gl.BufferData(gl.SHADER_STORAGE_BUFFER, size, data, usage)
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, binding, id)
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, 0)
	return id
}

func (s *Surface) setupVAO() {
	gl.GenVertexArrays(1, &s.vao)
	gl.BindVertexArray(s.vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, s.vertices)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 4, gl.FLOAT, false, surface.VertexStride, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, surface.VertexStride, 16)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

// BindBases re-attaches every buffer to its binding point. Needed when
// another pipeline shares the context.
func (s *Surface) BindBases() {
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, BindingDensity, s.density)
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, BindingVertices, s.vertices)
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, BindingEdgeTable, s.edgeTable)
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, BindingTriTable, s.triTable)
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, BindingCounter, s.counter)
}

// Reset zeroes the output counter.
func (s *Surface) Reset() {
	zero := uint32(0)
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, s.counter)
	gl.BufferSubData(gl.SHADER_STORAGE_BUFFER, 0, 4, gl.Ptr(&zero))
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, 0)
}

// Load reads the output counter back to the host. This stalls until the
// extraction dispatch has finished.
func (s *Surface) Load() uint32 {
	var n uint32
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, s.counter)
	gl.GetBufferSubData(gl.SHADER_STORAGE_BUFFER, 0, 4, gl.Ptr(&n))
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, 0)
	return n
}

func (s *Surface) Capacity() uint32 { return s.capacity }

// ReadVertices copies the first n vertices back to the host.
func (s *Surface) ReadVertices(n uint32) []surface.Vertex {
	n = min(n, s.capacity)
	if n == 0 {
		return nil
	}
	out := make([]surface.Vertex, n)
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, s.vertices)
	gl.GetBufferSubData(gl.SHADER_STORAGE_BUFFER, 0, int(n)*surface.VertexStride, gl.Ptr(out))
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, 0)
	return out
}

// Bind makes the vertex buffer the current vertex array source.
func (s *Surface) Bind(uint32) {
	gl.BindVertexArray(s.vao)
}

// Destroy releases every buffer.
func (s *Surface) Destroy() {
	for _, id := range []*uint32{&s.density, &s.vertices, &s.edgeTable, &s.triTable, &s.counter} {
		if *id != 0 {
			gl.DeleteBuffers(1, id)
			*id = 0
		}
	}
	if s.vao != 0 {
		gl.DeleteVertexArrays(1, &s.vao)
		s.vao = 0
	}
}
