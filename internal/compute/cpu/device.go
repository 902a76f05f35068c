// Package cpu runs the compute programs on a goroutine pool. Each work
// group is one pool task; Barrier waits for all submitted groups.
package cpu

import (
	"fmt"
	"runtime"
	"slices"
	"sync"

	"caves/internal/compute"
	"caves/internal/field"
	"caves/internal/lattice"
	"caves/internal/surface"

	"github.com/alitto/pond/v2"
)

type Device struct {
	pool    pond.Pool
	pending sync.WaitGroup
	bound   Kernel
}

// NewDevice starts a pool of the given size; workers <= 0 uses one per CPU.
func NewDevice(workers int) *Device {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Device{pool: pond.NewPool(workers)}
}

func (d *Device) Bind(p compute.Program) {
	k, ok := p.(Kernel)
	if !ok {
		panic(fmt.Sprintf("cpu: cannot bind %T", p))
	}
	d.bound = k
}

func (d *Device) Dispatch(x, y, z uint32) {
	if d.bound == nil {
		panic("cpu: dispatch with no program bound")
	}
	run := d.bound.Prepare()
	for gz := range int(z) {
		for gy := range int(y) {
			for gx := range int(x) {
				d.pending.Add(1)
				d.pool.Submit(func() {
					defer d.pending.Done()
					runGroup(run, gx, gy, gz)
				})
			}
		}
	}
}

func runGroup(run func(x, y, z int), gx, gy, gz int) {
	const n = compute.LocalSize
	for lz := range n {
		for ly := range n {
			for lx := range n {
				run(gx*n+lx, gy*n+ly, gz*n+lz)
			}
		}
	}
}

func (d *Device) Barrier() { d.pending.Wait() }

// Close waits for outstanding groups and stops the pool.
func (d *Device) Close() {
	d.Barrier()
	d.pool.StopAndWait()
}

// Backend bundles everything the driver needs to run on the CPU.
type Backend struct {
	Device  *Device
	Density *DensityKernel
	Extract *ExtractKernel
	Counter Counter
	Lattice *lattice.Lattice
	Buffer  *surface.Buffer
}

// NewBackend allocates the lattice and surface buffer for gridSize cells.
func NewBackend(gridSize, workers int, src field.Source) (*Backend, error) {
	l, err := lattice.New(gridSize)
	if err != nil {
		return nil, fmt.Errorf("cpu backend: %w", err)
	}
	buf := surface.NewBuffer(gridSize)
	return &Backend{
		Device:  NewDevice(workers),
		Density: NewDensityKernel(l, src),
		Extract: NewExtractKernel(l, buf),
		Counter: NewCounter(buf),
		Lattice: l,
		Buffer:  buf,
	}, nil
}

// ReadVertices copies the first n vertices of the current pass.
func (b *Backend) ReadVertices(n uint32) []surface.Vertex {
	live := b.Buffer.Vertices()
	return slices.Clone(live[:min(int(n), len(live))])
}

func (b *Backend) Close() { b.Device.Close() }
