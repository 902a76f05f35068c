// Package surface turns a density lattice into a non-indexed triangle soup.
package surface

import (
	"sync/atomic"

	"caves/internal/tables"
)

// Vertex mirrors the std430 layout of the GPU vertex buffer: a vec4
// position followed by a vec3 normal padded to 16 bytes.
type Vertex struct {
	Position [4]float32
	Normal   [3]float32
	_        float32
}

// VertexStride is the size of one Vertex in bytes.
const VertexStride = 32

// Capacity is the worst-case vertex count for a grid of gridSize cells per axis.
func Capacity(gridSize int) int {
	return tables.MaxVertices * gridSize * gridSize * gridSize
}

// Buffer is a fixed-capacity vertex store with a single atomic output
// counter. Writers claim ranges with Reserve and then fill exactly those
// slots, so concurrent extraction never touches the same slot twice.
type Buffer struct {
	vertices []Vertex
	count    atomic.Uint32
}

func NewBuffer(gridSize int) *Buffer {
	return &Buffer{vertices: make([]Vertex, Capacity(gridSize))}
}

// Reset sets the output counter back to zero. Slots past the counter are
// stale and must not be read.
func (b *Buffer) Reset() { b.count.Store(0) }

// Reserve claims n consecutive slots and returns the index of the first.
func (b *Buffer) Reserve(n uint32) uint32 {
	return b.count.Add(n) - n
}

// Count is the number of vertices written in the current pass.
func (b *Buffer) Count() uint32 { return b.count.Load() }

func (b *Buffer) Cap() uint32 { return uint32(len(b.vertices)) }

func (b *Buffer) Write(i uint32, v Vertex) { b.vertices[i] = v }

// Vertices returns the live region of the buffer.
func (b *Buffer) Vertices() []Vertex {
	n := min(b.Count(), b.Cap())
	return b.vertices[:n]
}
