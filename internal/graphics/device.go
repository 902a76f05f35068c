package graphics

import (
	"fmt"

	"caves/internal/compute"

	"github.com/go-gl/gl/v4.3-core/gl"
)

// Device dispatches compute programs on the current GL context.
type Device struct{}

func (Device) Bind(p compute.Program) {
	s, ok := p.(*Shader)
	if !ok {
		panic(fmt.Sprintf("graphics: cannot bind %T", p))
	}
	s.Use()
}

func (Device) Dispatch(x, y, z uint32) {
	gl.DispatchCompute(x, y, z)
}

// Barrier makes storage writes visible to later dispatches, buffer reads
// and vertex fetches.
func (Device) Barrier() {
	gl.MemoryBarrier(gl.SHADER_STORAGE_BARRIER_BIT | gl.BUFFER_UPDATE_BARRIER_BIT | gl.VERTEX_ATTRIB_ARRAY_BARRIER_BIT)
}

// Backend bundles the GL compute programs and storage for one grid size.
type Backend struct {
	Device  Device
	Density *Shader
	Extract *Shader
	Surface *Surface
}

// NewBackend compiles both compute programs and allocates storage. It needs
// a current GL 4.3 context.
func NewBackend(gridSize int) (*Backend, error) {
	density, err := NewComputeShader(DensityShader)
	if err != nil {
		return nil, fmt.Errorf("gl backend: %w", err)
	}
	extract, err := NewComputeShader(MarchingShader)
	if err != nil {
		density.Delete()
		return nil, fmt.Errorf("gl backend: %w", err)
	}
	s, err := NewSurface(gridSize)
	if err != nil {
		density.Delete()
		extract.Delete()
		return nil, fmt.Errorf("gl backend: %w", err)
	}
	return &Backend{Density: density, Extract: extract, Surface: s}, nil
}

func (b *Backend) Close() {
	b.Density.Delete()
	b.Extract.Delete()
	b.Surface.Destroy()
}
