// Package pipeline drives one density-and-surface pass: reset the output
// counter, evaluate the density lattice, extract the surface, read back the
// vertex count and draw exactly that many vertices.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"caves/internal/compute"
	"caves/internal/field"
	"caves/internal/lattice"
	"caves/internal/profiling"
	"caves/internal/surface"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrCapacity = errors.New("pipeline: surface buffer smaller than worst case")
	ErrConfig   = errors.New("pipeline: incomplete configuration")
)

// Stage is one step of a pass, in execution order.
type Stage int

const (
	StageReset Stage = iota
	StageEvaluate
	StageBarrierA
	StageExtract
	StageBarrierB
	StageReadback
	StageDraw
)

var stageNames = [...]string{"reset", "evaluate", "barrier-a", "extract", "barrier-b", "readback", "draw"}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("Stage(%d)", int(s))
	}
	return stageNames[s]
}

// View is the per-frame camera input for the draw stage.
type View struct {
	View       mgl32.Mat4
	Projection mgl32.Mat4
	Eye        mgl32.Vec3
}

// Drawer renders count vertices from the surface buffer as independent
// triangles.
type Drawer interface {
	Draw(count uint32, v View)
}

// VertexReader copies vertices back out of the surface buffer.
type VertexReader interface {
	ReadVertices(n uint32) []surface.Vertex
}

type Config struct {
	GridSize int
	Device   compute.Device
	Density  compute.Program
	Extract  compute.Program
	Counter  compute.Counter
	// Drawer may be nil for headless runs; the pass still reads back the count.
	Drawer Drawer
	// Reader is optional and only used by Debug.
	Reader VertexReader
}

// Result describes the outcome of a pass.
type Result struct {
	Vertices    uint32
	Drawn       bool
	Regenerated bool
}

// Driver owns the sequencing of passes. Passes are strictly sequential; a
// Driver must only be used from one goroutine.
type Driver struct {
	cfg         Config
	densitySize int
	onStage     func(Stage)

	valid       bool
	fingerprint uint64
	last        uint32
}

func New(cfg Config) (*Driver, error) {
	if cfg.GridSize <= 0 {
		return nil, fmt.Errorf("%w: %d", lattice.ErrGridSize, cfg.GridSize)
	}
	if cfg.Device == nil || cfg.Density == nil || cfg.Extract == nil || cfg.Counter == nil {
		return nil, ErrConfig
	}
	if need := surface.Capacity(cfg.GridSize); int(cfg.Counter.Capacity()) < need {
		return nil, fmt.Errorf("%w: have %d vertices, need %d", ErrCapacity, cfg.Counter.Capacity(), need)
	}
	return &Driver{cfg: cfg, densitySize: lattice.SizeFor(cfg.GridSize)}, nil
}

// OnStage installs a hook called as each stage begins.
func (d *Driver) OnStage(fn func(Stage)) { d.onStage = fn }

func (d *Driver) enter(s Stage) {
	if d.onStage != nil {
		d.onStage(s)
	}
}

// Run executes a full pass with p and draws the result.
func (d *Driver) Run(p field.Params, v View) Result {
	dev := d.cfg.Device
	log := Logger()

	d.enter(StageReset)
	func() {
		defer profiling.Track("pipeline.Reset")()
		d.cfg.Counter.Reset()
	}()

	d.enter(StageEvaluate)
	groups := compute.Groups(d.densitySize)
	func() {
		defer profiling.Track("pipeline.Evaluate")()
		dev.Bind(d.cfg.Density)
		d.setGrid(d.cfg.Density, p.Offset)
		setField(d.cfg.Density, p)
		dev.Dispatch(groups, groups, groups)
	}()

	d.enter(StageBarrierA)
	func() {
		defer profiling.Track("pipeline.BarrierA")()
		dev.Barrier()
	}()

	d.enter(StageExtract)
	cells := compute.Groups(d.cfg.GridSize)
	func() {
		defer profiling.Track("pipeline.Extract")()
		dev.Bind(d.cfg.Extract)
		d.setGrid(d.cfg.Extract, p.Offset)
		dev.Dispatch(cells, cells, cells)
	}()

	d.enter(StageBarrierB)
	func() {
		defer profiling.Track("pipeline.BarrierB")()
		dev.Barrier()
	}()

	d.enter(StageReadback)
	var count uint32
	func() {
		defer profiling.Track("pipeline.Readback")()
		count = d.cfg.Counter.Load()
	}()

	if c := d.cfg.Counter.Capacity(); count > c {
		log.Warn("vertex counter past buffer capacity, clamping", "count", count, "capacity", c)
		count = c - c%3
	}

	d.valid = true
	d.fingerprint = p.Fingerprint()
	d.last = count

	if log.Enabled(context.Background(), slog.LevelDebug) {
		log.Debug("pass complete",
			"vertices", count,
			"triangles", count/3,
			"densityGroups", groups,
			"extractGroups", cells,
		)
	}

	res := Result{Vertices: count, Regenerated: true}
	res.Drawn = d.draw(count, v)
	return res
}

// RunIfChanged re-runs the pass only when p differs from the last pass;
// otherwise it redraws the previous vertex count.
func (d *Driver) RunIfChanged(p field.Params, v View) Result {
	if d.valid && p.Fingerprint() == d.fingerprint {
		return Result{Vertices: d.last, Drawn: d.draw(d.last, v)}
	}
	return d.Run(p, v)
}

// Invalidate forces the next RunIfChanged to regenerate.
func (d *Driver) Invalidate() { d.valid = false }

// LastCount is the vertex count read back by the most recent pass.
func (d *Driver) LastCount() uint32 { return d.last }

func (d *Driver) draw(count uint32, v View) bool {
	if count == 0 {
		Logger().Debug("no vertices generated, skipping draw")
		return false
	}
	if d.cfg.Drawer == nil {
		return false
	}
	d.enter(StageDraw)
	defer profiling.Track("pipeline.Draw")()
	d.cfg.Drawer.Draw(count, v)
	return true
}

func (d *Driver) setGrid(prog compute.Program, offset mgl32.Vec3) {
	prog.SetInt(compute.ParamGridSize, int32(d.cfg.GridSize))
	prog.SetInt(compute.ParamDensitySize, int32(d.densitySize))
	prog.SetVec3(compute.ParamOffset, offset)
}

func setField(prog compute.Program, p field.Params) {
	prog.SetInt(compute.ParamSeed, p.Seed)
	prog.SetFloat(compute.ParamCeiling, p.Ceiling)
	n := min(len(p.Caves), field.MaxCaves)
	prog.SetInt(compute.ParamCaveCount, int32(n))
	for i, c := range p.Caves[:n] {
		prog.SetVec3(compute.CaveOffsetParam(i), c.Offset)
		prog.SetFloat(compute.CaveGainParam(i), c.Gain)
		prog.SetFloat(compute.CaveFrequencyParam(i), c.Frequency)
	}
}

// Debug reads back up to n vertices written by the most recent pass. It
// returns nil when no reader is configured or nothing was generated.
func (d *Driver) Debug(n uint32) []surface.Vertex {
	if d.cfg.Reader == nil || !d.valid {
		return nil
	}
	n = min(n, d.last)
	if n == 0 {
		return nil
	}
	defer profiling.Track("pipeline.Readback")()
	return d.cfg.Reader.ReadVertices(n)
}
