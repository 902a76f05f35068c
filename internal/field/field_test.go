package field

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func sampleParams() Params {
	p := DefaultParams()
	p.Seed = 1
	p.Ceiling = 1000
	_ = p.AddCave(CaveLayer{Offset: mgl32.Vec3{3, 0, -2}, Gain: 0.75, Frequency: 0.1})
	_ = p.AddCave(CaveLayer{Offset: mgl32.Vec3{0, 5, 0}, Gain: -0.5, Frequency: 0.2})
	return p
}

func TestEvaluateDeterministic(t *testing.T) {
	p := sampleParams()
	for x := -1; x < 6; x++ {
		for y := -1; y < 6; y++ {
			for z := -1; z < 6; z++ {
				a := Evaluate(p, x, y, z)
				b := Evaluate(p.Clone(), x, y, z)
				if math.Float32bits(a) != math.Float32bits(b) {
					t.Fatalf("Evaluate(%d,%d,%d) = %v then %v", x, y, z, a, b)
				}
			}
		}
	}
}

func TestEvaluateCeilingClamp(t *testing.T) {
	p := DefaultParams()
	p.Ceiling = 10
	if d := Evaluate(p, 4, 11, 4); d != CeilingDensity {
		t.Errorf("above ceiling: got %f, want %f", d, CeilingDensity)
	}
	if d := Evaluate(p, 4, 10, 4); d == CeilingDensity {
		t.Errorf("at ceiling: density should come from noise, got clamp value")
	}
}

func TestEvaluateCeilingUsesWorldHeight(t *testing.T) {
	p := DefaultParams()
	p.Ceiling = 10
	p.Offset = mgl32.Vec3{0, 5, 0}
	if d := Evaluate(p, 0, 6, 0); d != CeilingDensity {
		t.Errorf("offset y=6+5 above ceiling 10: got %f", d)
	}
}

func TestEvaluateCaveLayersAdd(t *testing.T) {
	base := DefaultParams()
	base.Ceiling = 1000
	withCave := base.Clone()
	_ = withCave.AddCave(CaveLayer{Gain: 0, Frequency: 0.3})
	if Evaluate(base, 3, 4, 5) != Evaluate(withCave, 3, 4, 5) {
		t.Errorf("zero-gain cave layer changed density")
	}

	_ = withCave.SetCave(0, CaveLayer{Gain: 2, Frequency: 0.3})
	differs := false
	for x := 0; x < 8 && !differs; x++ {
		differs = Evaluate(base, x, 4, 5) != Evaluate(withCave, x, 4, 5)
	}
	if !differs {
		t.Errorf("cave layer with gain 2 never changed density")
	}
}

func TestEvaluateIgnoresCavesPastCapacity(t *testing.T) {
	p := DefaultParams()
	p.Ceiling = 1000
	for range MaxCaves {
		_ = p.AddCave(DefaultCave())
	}
	over := p.Clone()
	over.Caves = append(over.Caves, CaveLayer{Gain: 50, Frequency: 1})
	if Evaluate(p, 2, 2, 2) != Evaluate(over, 2, 2, 2) {
		t.Errorf("ninth cave layer was evaluated")
	}
}

func TestAddCaveRejectsNinth(t *testing.T) {
	p := DefaultParams()
	for i := range MaxCaves {
		if err := p.AddCave(DefaultCave()); err != nil {
			t.Fatalf("AddCave %d: %v", i, err)
		}
	}
	if err := p.AddCave(DefaultCave()); !errors.Is(err, ErrTooManyCaves) {
		t.Errorf("ninth AddCave error = %v, want ErrTooManyCaves", err)
	}
	if len(p.Caves) != MaxCaves {
		t.Errorf("len(Caves) = %d, want %d", len(p.Caves), MaxCaves)
	}
}

func TestRemoveAndSetCave(t *testing.T) {
	p := DefaultParams()
	_ = p.AddCave(CaveLayer{Gain: 1})
	_ = p.AddCave(CaveLayer{Gain: 2})
	_ = p.AddCave(CaveLayer{Gain: 3})

	if err := p.RemoveCave(1); err != nil {
		t.Fatal(err)
	}
	if len(p.Caves) != 2 || p.Caves[0].Gain != 1 || p.Caves[1].Gain != 3 {
		t.Errorf("after remove: %+v", p.Caves)
	}
	if err := p.RemoveCave(5); !errors.Is(err, ErrCaveIndex) {
		t.Errorf("RemoveCave(5) error = %v", err)
	}
	if err := p.SetCave(-1, DefaultCave()); !errors.Is(err, ErrCaveIndex) {
		t.Errorf("SetCave(-1) error = %v", err)
	}
	if err := p.SetCave(1, CaveLayer{Gain: 9}); err != nil || p.Caves[1].Gain != 9 {
		t.Errorf("SetCave(1) = %v, caves %+v", err, p.Caves)
	}
}

func TestRemoveCaveLeavesCopiesIntact(t *testing.T) {
	p := DefaultParams()
	_ = p.AddCave(CaveLayer{Gain: 1})
	_ = p.AddCave(CaveLayer{Gain: 2})

	q := p
	if err := q.RemoveCave(0); err != nil {
		t.Fatal(err)
	}
	if len(q.Caves) != 1 || q.Caves[0].Gain != 2 {
		t.Errorf("copy after remove: %+v", q.Caves)
	}
	if len(p.Caves) != 2 || p.Caves[0].Gain != 1 || p.Caves[1].Gain != 2 {
		t.Errorf("original changed to %+v", p.Caves)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	p := sampleParams()
	c := p.Clone()
	c.Caves[0].Gain = 42
	if p.Caves[0].Gain == 42 {
		t.Errorf("Clone shares cave storage")
	}
}

func TestFingerprint(t *testing.T) {
	p := sampleParams()
	if p.Fingerprint() != p.Clone().Fingerprint() {
		t.Fatalf("equal params fingerprint differently")
	}

	mutations := map[string]func(*Params){
		"seed":        func(p *Params) { p.Seed++ },
		"ceiling":     func(p *Params) { p.Ceiling += 0.5 },
		"offset":      func(p *Params) { p.Offset[1] = 3 },
		"cave gain":   func(p *Params) { p.Caves[0].Gain = 0.1 },
		"cave freq":   func(p *Params) { p.Caves[1].Frequency = 0.9 },
		"cave offset": func(p *Params) { p.Caves[1].Offset[2] = 1 },
		"cave added":  func(p *Params) { _ = p.AddCave(DefaultCave()) },
		"cave gone":   func(p *Params) { _ = p.RemoveCave(0) },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			q := p.Clone()
			mutate(&q)
			if q.Fingerprint() == p.Fingerprint() {
				t.Errorf("fingerprint unchanged after %s", name)
			}
		})
	}
}
