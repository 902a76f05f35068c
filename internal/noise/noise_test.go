package noise

import (
	"math"
	"math/rand"
	"testing"

	"github.com/chewxy/math32"
)

func TestHash3Deterministic(t *testing.T) {
	first := hash3(10, 20, 30, 42)
	for i := 0; i < 100; i++ {
		if h := hash3(10, 20, 30, 42); h != first {
			t.Fatalf("hash3 not deterministic: %d != %d", h, first)
		}
	}
}

func TestHash3DifferentInputs(t *testing.T) {
	cases := []struct {
		name string
		a, b [4]int32
	}{
		{"x", [4]int32{1, 0, 0, 7}, [4]int32{2, 0, 0, 7}},
		{"y", [4]int32{0, 1, 0, 7}, [4]int32{0, 2, 0, 7}},
		{"z", [4]int32{0, 0, 1, 7}, [4]int32{0, 0, 2, 7}},
		{"seed", [4]int32{1, 1, 1, 100}, [4]int32{1, 1, 1, 200}},
		{"axis swap", [4]int32{1, 2, 3, 7}, [4]int32{3, 2, 1, 7}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h1 := hash3(tc.a[0], tc.a[1], tc.a[2], tc.a[3])
			h2 := hash3(tc.b[0], tc.b[1], tc.b[2], tc.b[3])
			if h1 == h2 {
				t.Errorf("hash3%v == hash3%v = %d", tc.a, tc.b, h1)
			}
		})
	}
}

func TestNoise3Range(t *testing.T) {
	rng := rand.New(rand.NewSource(12345))
	for i := 0; i < 2000; i++ {
		x := rng.Float32()*200 - 100
		y := rng.Float32()*200 - 100
		z := rng.Float32()*200 - 100
		v := Noise3(x, y, z, 42)
		if v < -1 || v > 1 {
			t.Fatalf("Noise3(%f, %f, %f) = %f, want [-1,1]", x, y, z, v)
		}
	}
}

func TestNoise3Deterministic(t *testing.T) {
	a := Noise3(1.25, -3.5, 7.75, 9)
	b := Noise3(1.25, -3.5, 7.75, 9)
	if math.Float32bits(a) != math.Float32bits(b) {
		t.Errorf("Noise3 not bit-identical: %v vs %v", a, b)
	}
}

func TestNoise3MatchesLatticeAtIntegers(t *testing.T) {
	for _, p := range [][3]int32{{0, 0, 0}, {3, -2, 5}, {-7, 1, -1}} {
		got := Noise3(float32(p[0]), float32(p[1]), float32(p[2]), 5)
		want := latticeValue(p[0], p[1], p[2], 5)
		if got != want {
			t.Errorf("Noise3(%v) = %f, want lattice value %f", p, got, want)
		}
	}
}

func TestNoise3Continuity(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const step = 1e-3
	for i := 0; i < 500; i++ {
		x := rng.Float32()*50 - 25
		y := rng.Float32()*50 - 25
		z := rng.Float32()*50 - 25
		d := math32.Abs(Noise3(x, y, z, 3) - Noise3(x+step, y, z, 3))
		if d > 0.05 {
			t.Fatalf("Noise3 jumps by %f over %g at (%f,%f,%f)", d, step, x, y, z)
		}
	}
}

func TestFractal3Range(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for i := 0; i < 1000; i++ {
		v := Fractal3(rng.Float32()*64, rng.Float32()*64, rng.Float32()*64, 11, 4)
		if v < -1 || v > 1 {
			t.Fatalf("Fractal3 = %f, want [-1,1]", v)
		}
	}
	if v := Fractal3(1, 2, 3, 11, 0); v != 0 {
		t.Errorf("Fractal3 with no octaves = %f, want 0", v)
	}
}

func BenchmarkNoise3(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = Noise3(float32(i)*0.37, 1.5, -2.25, 1)
	}
}
