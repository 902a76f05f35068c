// Package lattice stores the padded density grid.
//
// A grid of G cells per axis has corners 0..G. One extra point on the low
// side and one on the high side let central differences run at every corner,
// so the lattice is D = G + 3 points per axis. Lattice point (i, j, k) holds
// the density at cell-space coordinate (i-Pad, j-Pad, k-Pad).
package lattice

import (
	"errors"
	"fmt"
)

// Pad is the number of lattice points before cell-space coordinate 0.
const Pad = 1

var ErrGridSize = errors.New("lattice: grid size must be positive")

// SizeFor returns the lattice size D for a grid of g cells.
func SizeFor(g int) int {
	return g + 3
}

type Lattice struct {
	grid   int
	size   int
	values []float32
}

func New(gridSize int) (*Lattice, error) {
	if gridSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrGridSize, gridSize)
	}
	d := SizeFor(gridSize)
	return &Lattice{
		grid:   gridSize,
		size:   d,
		values: make([]float32, d*d*d),
	}, nil
}

// GridSize is the number of renderable cells per axis.
func (l *Lattice) GridSize() int { return l.grid }

// Size is the number of lattice points per axis.
func (l *Lattice) Size() int { return l.size }

// Index flattens lattice coordinates x-fastest, matching the storage buffer layout.
func (l *Lattice) Index(x, y, z int) int {
	return x + y*l.size + z*l.size*l.size
}

func (l *Lattice) At(x, y, z int) float32 {
	return l.values[l.Index(x, y, z)]
}

func (l *Lattice) Set(x, y, z int, v float32) {
	l.values[l.Index(x, y, z)] = v
}

// Sample reads the density at a cell-space coordinate.
func (l *Lattice) Sample(x, y, z int) float32 {
	return l.At(x+Pad, y+Pad, z+Pad)
}

// Values exposes the backing slice in Index order.
func (l *Lattice) Values() []float32 { return l.values }

// Fill evaluates f at every lattice point, passing cell-space coordinates.
func (l *Lattice) Fill(f func(x, y, z int) float32) {
	for z := 0; z < l.size; z++ {
		for y := 0; y < l.size; y++ {
			for x := 0; x < l.size; x++ {
				l.values[l.Index(x, y, z)] = f(x-Pad, y-Pad, z-Pad)
			}
		}
	}
}

// Gradient is the central difference of the density at a cell-space
// corner. Neighbours outside the lattice are clamped to the edge.
func (l *Lattice) Gradient(x, y, z int) [3]float32 {
	lx, ly, lz := x+Pad, y+Pad, z+Pad
	return [3]float32{
		(l.At(l.clamp(lx+1), ly, lz) - l.At(l.clamp(lx-1), ly, lz)) * 0.5,
		(l.At(lx, l.clamp(ly+1), lz) - l.At(lx, l.clamp(ly-1), lz)) * 0.5,
		(l.At(lx, ly, l.clamp(lz+1)) - l.At(lx, ly, l.clamp(lz-1))) * 0.5,
	}
}

func (l *Lattice) clamp(i int) int {
	return max(0, min(i, l.size-1))
}
