package cpu

import (
	"caves/internal/compute"
	"caves/internal/field"
	"caves/internal/lattice"
	"caves/internal/surface"
)

// Kernel is a program the CPU device can run. Prepare snapshots the current
// parameters and returns the per-invocation function; invocations outside
// the program's domain must return without side effects.
type Kernel interface {
	compute.Program
	Prepare() func(x, y, z int)
}

// DensityKernel writes one density value per lattice point.
type DensityKernel struct {
	Uniforms
	lattice *lattice.Lattice
	source  field.Source
}

// NewDensityKernel evaluates src into l. A nil src uses field.Evaluate.
func NewDensityKernel(l *lattice.Lattice, src field.Source) *DensityKernel {
	if src == nil {
		src = field.Evaluate
	}
	return &DensityKernel{lattice: l, source: src}
}

// Params decodes the field parameters from the bound uniforms.
func (k *DensityKernel) Params() field.Params {
	p := field.Params{
		Seed:    k.Int(compute.ParamSeed),
		Ceiling: k.Float(compute.ParamCeiling),
		Offset:  k.Vec3(compute.ParamOffset),
	}
	n := min(int(k.Int(compute.ParamCaveCount)), field.MaxCaves)
	for i := range n {
		p.Caves = append(p.Caves, field.CaveLayer{
			Offset:    k.Vec3(compute.CaveOffsetParam(i)),
			Gain:      k.Float(compute.CaveGainParam(i)),
			Frequency: k.Float(compute.CaveFrequencyParam(i)),
		})
	}
	return p
}

func (k *DensityKernel) Prepare() func(x, y, z int) {
	p := k.Params()
	l, src := k.lattice, k.source
	d := min(int(k.Int(compute.ParamDensitySize)), l.Size())
	return func(x, y, z int) {
		if x >= d || y >= d || z >= d {
			return
		}
		l.Set(x, y, z, src(p, x-lattice.Pad, y-lattice.Pad, z-lattice.Pad))
	}
}

// ExtractKernel polygonises one cell per invocation into a shared buffer.
type ExtractKernel struct {
	Uniforms
	lattice *lattice.Lattice
	buf     *surface.Buffer
}

func NewExtractKernel(l *lattice.Lattice, buf *surface.Buffer) *ExtractKernel {
	return &ExtractKernel{lattice: l, buf: buf}
}

func (k *ExtractKernel) Prepare() func(x, y, z int) {
	l, buf := k.lattice, k.buf
	g := min(int(k.Int(compute.ParamGridSize)), l.GridSize())
	offset := k.Vec3(compute.ParamOffset)
	return func(x, y, z int) {
		if x >= g || y >= g || z >= g {
			return
		}
		surface.ExtractCell(l, x, y, z, offset, buf)
	}
}

// Counter exposes a surface.Buffer's output counter.
type Counter struct {
	buf *surface.Buffer
}

func NewCounter(buf *surface.Buffer) Counter { return Counter{buf: buf} }

func (c Counter) Reset()           { c.buf.Reset() }
func (c Counter) Load() uint32     { return c.buf.Count() }
func (c Counter) Capacity() uint32 { return c.buf.Cap() }
