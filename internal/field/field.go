// Package field evaluates the terrain density function.
//
// Negative density is inside the rock, positive is open air. The value at a
// lattice point depends only on its coordinate and the Params, so identical
// inputs always produce bit-identical output.
package field

import (
	"caves/internal/noise"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// VoxelScale is the world-space distance between neighbouring lattice points.
	VoxelScale = 1.0
	// BaseFrequency scales world positions before the base noise is sampled.
	BaseFrequency = 1.0 / 16.0
	// BaseOctaves is the number of octaves summed for the base noise.
	BaseOctaves = 3
	// CeilingDensity is forced above the ceiling so nothing generates there.
	CeilingDensity = 100.0
)

// Source produces the density at a cell-space grid coordinate. Coordinates
// may be -1 or up to gridSize+1 because of the lattice padding.
type Source func(p Params, x, y, z int) float32

// WorldPosition converts a cell-space grid coordinate to world space.
func WorldPosition(x, y, z int, offset mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(x), float32(y), float32(z)}.Mul(VoxelScale).Add(offset)
}

// Evaluate is the default Source: fractal base noise plus one additive noise
// sample per cave layer, truncated above the ceiling.
func Evaluate(p Params, x, y, z int) float32 {
	pos := WorldPosition(x, y, z, p.Offset)
	if pos.Y() > p.Ceiling {
		return CeilingDensity
	}

	b := pos.Mul(BaseFrequency)
	d := noise.Fractal3(b.X(), b.Y(), b.Z(), p.Seed, BaseOctaves)

	for i, c := range p.Caves {
		if i == MaxCaves {
			break
		}
		q := pos.Add(c.Offset).Mul(c.Frequency)
		d += noise.Noise3(q.X(), q.Y(), q.Z(), caveSeed(p.Seed, i)) * c.Gain
	}
	return d
}

func caveSeed(seed int32, layer int) int32 {
	return seed + int32(layer+1)*7919
}
