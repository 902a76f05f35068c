package pipeline

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"

	"caves/internal/compute"
	"caves/internal/compute/cpu"
	"caves/internal/field"
	"caves/internal/lattice"
	"caves/internal/surface"

	"github.com/go-gl/mathgl/mgl32"
)

type recorder struct {
	events []string
}

func (r *recorder) add(format string, args ...any) {
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

type fakeProgram struct {
	name string
	rec  *recorder
	ints map[string]int32
}

func newFakeProgram(name string, rec *recorder) *fakeProgram {
	return &fakeProgram{name: name, rec: rec, ints: map[string]int32{}}
}

func (p *fakeProgram) SetInt(name string, v int32) { p.ints[name] = v }
func (p *fakeProgram) SetFloat(string, float32)    {}
func (p *fakeProgram) SetVec3(string, mgl32.Vec3)  {}
func (p *fakeProgram) String() string              { return p.name }

type fakeDevice struct{ rec *recorder }

func (d fakeDevice) Bind(p compute.Program)  { d.rec.add("bind %v", p) }
func (d fakeDevice) Dispatch(x, y, z uint32) { d.rec.add("dispatch %d %d %d", x, y, z) }
func (d fakeDevice) Barrier()                { d.rec.add("barrier") }

type fakeCounter struct {
	rec   *recorder
	value uint32
	cap   uint32
}

func (c *fakeCounter) Reset()           { c.rec.add("reset") }
func (c *fakeCounter) Load() uint32     { c.rec.add("load"); return c.value }
func (c *fakeCounter) Capacity() uint32 { return c.cap }

type fakeDrawer struct {
	rec   *recorder
	calls int
	last  uint32
}

func (d *fakeDrawer) Draw(count uint32, _ View) {
	d.rec.add("draw %d", count)
	d.calls++
	d.last = count
}

func newFakeDriver(t *testing.T, g int, value uint32) (*Driver, *recorder, *fakeDrawer) {
	t.Helper()
	rec := &recorder{}
	drawer := &fakeDrawer{rec: rec}
	d, err := New(Config{
		GridSize: g,
		Device:   fakeDevice{rec},
		Density:  newFakeProgram("density", rec),
		Extract:  newFakeProgram("extract", rec),
		Counter:  &fakeCounter{rec: rec, value: value, cap: uint32(surface.Capacity(g))},
		Drawer:   drawer,
	})
	if err != nil {
		t.Fatal(err)
	}
	return d, rec, drawer
}

func TestRunStageOrder(t *testing.T) {
	d, rec, _ := newFakeDriver(t, 16, 42)

	var stages []Stage
	d.OnStage(func(s Stage) { stages = append(stages, s) })

	res := d.Run(field.DefaultParams(), View{})
	if !res.Drawn || res.Vertices != 42 || !res.Regenerated {
		t.Fatalf("Run = %+v", res)
	}

	want := []string{
		"reset",
		"bind density", "dispatch 3 3 3", "barrier",
		"bind extract", "dispatch 2 2 2", "barrier",
		"load",
		"draw 42",
	}
	if !slices.Equal(rec.events, want) {
		t.Errorf("events:\n got %s\nwant %s", strings.Join(rec.events, ", "), strings.Join(want, ", "))
	}

	wantStages := []Stage{StageReset, StageEvaluate, StageBarrierA, StageExtract, StageBarrierB, StageReadback, StageDraw}
	if !slices.Equal(stages, wantStages) {
		t.Errorf("stages = %v, want %v", stages, wantStages)
	}
}

func TestRunSetsGridParams(t *testing.T) {
	rec := &recorder{}
	density := newFakeProgram("density", rec)
	extract := newFakeProgram("extract", rec)
	d, err := New(Config{
		GridSize: 8,
		Device:   fakeDevice{rec},
		Density:  density,
		Extract:  extract,
		Counter:  &fakeCounter{rec: rec, cap: uint32(surface.Capacity(8))},
	})
	if err != nil {
		t.Fatal(err)
	}

	p := field.DefaultParams()
	for range 10 {
		p.Caves = append(p.Caves, field.DefaultCave())
	}
	d.Run(p, View{})

	for _, prog := range []*fakeProgram{density, extract} {
		if g := prog.ints[compute.ParamGridSize]; g != 8 {
			t.Errorf("%s gridSize = %d", prog.name, g)
		}
		if ds := prog.ints[compute.ParamDensitySize]; ds != 11 {
			t.Errorf("%s densitySize = %d", prog.name, ds)
		}
	}
	if n := density.ints[compute.ParamCaveCount]; n != field.MaxCaves {
		t.Errorf("cave count = %d, want %d", n, field.MaxCaves)
	}
}

func TestRunSkipsDrawOnEmptySurface(t *testing.T) {
	d, rec, drawer := newFakeDriver(t, 8, 0)
	res := d.Run(field.DefaultParams(), View{})
	if res.Drawn || res.Vertices != 0 {
		t.Errorf("Run = %+v", res)
	}
	if drawer.calls != 0 {
		t.Errorf("drawer called %d times", drawer.calls)
	}
	if last := rec.events[len(rec.events)-1]; last != "load" {
		t.Errorf("last event = %q", last)
	}
}

func TestRunClampsOverflowingCounter(t *testing.T) {
	d, _, drawer := newFakeDriver(t, 1, 1000)
	res := d.Run(field.DefaultParams(), View{})
	if res.Vertices != 15 || drawer.last != 15 {
		t.Errorf("Run = %+v, drew %d", res, drawer.last)
	}
}

func TestRunIfChanged(t *testing.T) {
	d, rec, drawer := newFakeDriver(t, 8, 9)
	dispatches := func() int {
		n := 0
		for _, e := range rec.events {
			if strings.HasPrefix(e, "dispatch") {
				n++
			}
		}
		return n
	}

	p := field.DefaultParams()
	if res := d.RunIfChanged(p, View{}); !res.Regenerated {
		t.Fatal("first call did not regenerate")
	}
	if dispatches() != 2 {
		t.Fatalf("dispatches = %d", dispatches())
	}

	res := d.RunIfChanged(p.Clone(), View{})
	if res.Regenerated || !res.Drawn || res.Vertices != 9 {
		t.Errorf("unchanged params: %+v", res)
	}
	if dispatches() != 2 {
		t.Errorf("unchanged params re-dispatched")
	}
	if drawer.calls != 2 {
		t.Errorf("draw calls = %d", drawer.calls)
	}

	p.Seed++
	if res := d.RunIfChanged(p, View{}); !res.Regenerated {
		t.Error("seed change did not regenerate")
	}

	d.Invalidate()
	if res := d.RunIfChanged(p, View{}); !res.Regenerated {
		t.Error("Invalidate did not force regeneration")
	}
	if dispatches() != 6 {
		t.Errorf("dispatches = %d, want 6", dispatches())
	}
}

func TestNewValidates(t *testing.T) {
	rec := &recorder{}
	base := Config{
		GridSize: 4,
		Device:   fakeDevice{rec},
		Density:  newFakeProgram("density", rec),
		Extract:  newFakeProgram("extract", rec),
		Counter:  &fakeCounter{rec: rec, cap: uint32(surface.Capacity(4))},
	}

	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"ok", func(*Config) {}, nil},
		{"zero grid", func(c *Config) { c.GridSize = 0 }, lattice.ErrGridSize},
		{"no device", func(c *Config) { c.Device = nil }, ErrConfig},
		{"no counter", func(c *Config) { c.Counter = nil }, ErrConfig},
		{"small buffer", func(c *Config) { c.Counter = &fakeCounter{rec: rec, cap: 100} }, ErrCapacity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.modify(&cfg)
			_, err := New(cfg)
			if !errors.Is(err, tt.want) {
				t.Errorf("New() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestStageString(t *testing.T) {
	if s := StageBarrierB.String(); s != "barrier-b" {
		t.Errorf("StageBarrierB = %q", s)
	}
	if s := Stage(99).String(); s != "Stage(99)" {
		t.Errorf("Stage(99) = %q", s)
	}
}

type countingDrawer struct{ counts []uint32 }

func (d *countingDrawer) Draw(count uint32, _ View) { d.counts = append(d.counts, count) }

func newCPUDriver(t *testing.T, g int, src field.Source) (*Driver, *cpu.Backend, *countingDrawer) {
	t.Helper()
	b, err := cpu.NewBackend(g, 4, src)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(b.Close)

	drawer := &countingDrawer{}
	d, err := New(Config{
		GridSize: g,
		Device:   b.Device,
		Density:  b.Density,
		Extract:  b.Extract,
		Counter:  b.Counter,
		Drawer:   drawer,
		Reader:   b,
	})
	if err != nil {
		t.Fatal(err)
	}
	return d, b, drawer
}

func TestCPUPlane(t *testing.T) {
	plane := func(_ field.Params, _, y, _ int) float32 { return float32(y) - 4 }
	d, _, drawer := newCPUDriver(t, 8, plane)

	p := field.Params{Seed: 1, Ceiling: 1000}
	res := d.Run(p, View{})

	// One quad of two triangles per cell in the y=3 layer.
	const want = 8 * 8 * 2 * 3
	if res.Vertices != want {
		t.Fatalf("vertices = %d, want %d", res.Vertices, want)
	}
	if len(drawer.counts) != 1 || drawer.counts[0] != want {
		t.Errorf("draw counts = %v", drawer.counts)
	}

	verts := d.Debug(want)
	if len(verts) != want {
		t.Fatalf("Debug returned %d vertices", len(verts))
	}
	for i, v := range verts {
		if v.Position[1] != 4 || v.Position[3] != 1 {
			t.Fatalf("vertex %d position %v", i, v.Position)
		}
		if v.Normal != [3]float32{0, 1, 0} {
			t.Fatalf("vertex %d normal %v", i, v.Normal)
		}
	}
}

func TestCPUAllOutside(t *testing.T) {
	solid := func(field.Params, int, int, int) float32 { return 1 }
	d, _, drawer := newCPUDriver(t, 8, solid)

	res := d.Run(field.DefaultParams(), View{})
	if res.Vertices != 0 || res.Drawn {
		t.Errorf("Run = %+v", res)
	}
	if len(drawer.counts) != 0 {
		t.Errorf("draw called with %v", drawer.counts)
	}
	if v := d.Debug(10); v != nil {
		t.Errorf("Debug = %v", v)
	}
}

func triangleKeys(verts []surface.Vertex) []string {
	keys := make([]string, 0, len(verts)/3)
	for i := 0; i+2 < len(verts); i += 3 {
		keys = append(keys, fmt.Sprint(verts[i].Position, verts[i+1].Position, verts[i+2].Position))
	}
	slices.Sort(keys)
	return keys
}

func TestCPUIdempotent(t *testing.T) {
	d, b, _ := newCPUDriver(t, 16, nil)

	p := field.DefaultParams()
	first := d.Run(p, View{})
	if first.Vertices%3 != 0 {
		t.Fatalf("vertex count %d not a multiple of 3", first.Vertices)
	}
	if first.Vertices > b.Counter.Capacity() {
		t.Fatalf("vertex count %d exceeds capacity", first.Vertices)
	}
	a := triangleKeys(b.ReadVertices(first.Vertices))

	second := d.Run(p, View{})
	if second.Vertices != first.Vertices {
		t.Fatalf("second pass wrote %d vertices, first %d", second.Vertices, first.Vertices)
	}
	if !slices.Equal(a, triangleKeys(b.ReadVertices(second.Vertices))) {
		t.Error("triangle sets differ between identical passes")
	}
}

func TestCPUOffsetRegenerates(t *testing.T) {
	d, _, _ := newCPUDriver(t, 8, nil)
	p := field.DefaultParams()
	d.RunIfChanged(p, View{})

	p.Offset = mgl32.Vec3{8, 0, 0}
	if res := d.RunIfChanged(p, View{}); !res.Regenerated {
		t.Error("offset change did not regenerate")
	}
}
