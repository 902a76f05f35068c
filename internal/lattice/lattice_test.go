package lattice

import (
	"errors"
	"testing"
)

func TestNewSizes(t *testing.T) {
	l, err := New(8)
	if err != nil {
		t.Fatal(err)
	}
	if l.Size() != 11 {
		t.Errorf("Size() = %d, want 11", l.Size())
	}
	if len(l.Values()) != 11*11*11 {
		t.Errorf("len(Values()) = %d", len(l.Values()))
	}
	if _, err := New(0); !errors.Is(err, ErrGridSize) {
		t.Errorf("New(0) error = %v, want ErrGridSize", err)
	}
}

func TestIndexIsXFastest(t *testing.T) {
	l, _ := New(4)
	d := l.Size()
	if l.Index(1, 0, 0) != 1 || l.Index(0, 1, 0) != d || l.Index(0, 0, 1) != d*d {
		t.Errorf("unexpected strides")
	}
}

func TestFillUsesCellSpace(t *testing.T) {
	l, _ := New(4)
	l.Fill(func(x, y, z int) float32 { return float32(100*x + 10*y + z) })
	if got := l.At(0, 0, 0); got != -111 {
		t.Errorf("At(0,0,0) = %f, want -111 (cell-space -1,-1,-1)", got)
	}
	if got := l.Sample(2, 3, 1); got != 231 {
		t.Errorf("Sample(2,3,1) = %f, want 231", got)
	}
	g := l.GridSize()
	if got := l.Sample(g+1, g+1, g+1); got != float32(111*(g+1)) {
		t.Errorf("far padding = %f", got)
	}
}

func TestGradientOfLinearField(t *testing.T) {
	l, _ := New(6)
	l.Fill(func(x, y, z int) float32 { return 2*float32(x) - float32(y) + 0.5*float32(z) })
	for _, c := range [][3]int{{0, 0, 0}, {3, 2, 1}, {6, 6, 6}} {
		g := l.Gradient(c[0], c[1], c[2])
		if g != [3]float32{2, -1, 0.5} {
			t.Errorf("Gradient%v = %v, want [2 -1 0.5]", c, g)
		}
	}
}
