// Package noise provides deterministic seeded 3D value noise in float32.
//
// The hash and interpolation only use 32-bit integer and float operations so
// the same function can be reproduced in a compute shader.
package noise

import "github.com/chewxy/math32"

// fade is the quintic smoothstep 6t^5 - 15t^4 + 10t^3.
func fade(t float32) float32 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float32) float32 {
	return a + t*(b-a)
}

func hash3(x, y, z, seed int32) uint32 {
	h := uint32(x)*0x8da6b343 ^ uint32(y)*0xd8163841 ^ uint32(z)*0xcb1ab31f ^ uint32(seed)*0x165667b1
	h ^= h >> 16
	h *= 0x7feb352d
	h ^= h >> 15
	h *= 0x846ca68b
	h ^= h >> 16
	return h
}

// latticeValue maps the hash to [-1,1]. Only 24 bits are kept so the
// conversion to float32 is exact.
func latticeValue(x, y, z, seed int32) float32 {
	h := hash3(x, y, z, seed) & 0xFFFFFF
	return float32(h)/float32(0xFFFFFF)*2 - 1
}

// Noise3 samples smooth value noise at (x, y, z). The result lies in [-1,1]
// and is continuous: nearby inputs give nearby outputs.
func Noise3(x, y, z float32, seed int32) float32 {
	x0 := math32.Floor(x)
	y0 := math32.Floor(y)
	z0 := math32.Floor(z)

	fx := fade(x - x0)
	fy := fade(y - y0)
	fz := fade(z - z0)

	ix, iy, iz := int32(x0), int32(y0), int32(z0)

	v000 := latticeValue(ix, iy, iz, seed)
	v100 := latticeValue(ix+1, iy, iz, seed)
	v010 := latticeValue(ix, iy+1, iz, seed)
	v110 := latticeValue(ix+1, iy+1, iz, seed)
	v001 := latticeValue(ix, iy, iz+1, seed)
	v101 := latticeValue(ix+1, iy, iz+1, seed)
	v011 := latticeValue(ix, iy+1, iz+1, seed)
	v111 := latticeValue(ix+1, iy+1, iz+1, seed)

	i00 := lerp(v000, v100, fx)
	i10 := lerp(v010, v110, fx)
	i01 := lerp(v001, v101, fx)
	i11 := lerp(v011, v111, fx)

	i0 := lerp(i00, i10, fy)
	i1 := lerp(i01, i11, fy)
	return lerp(i0, i1, fz)
}

// Fractal3 sums octaves of Noise3, halving amplitude and doubling frequency
// each octave. The sum is normalised back to [-1,1].
func Fractal3(x, y, z float32, seed int32, octaves int) float32 {
	amplitude := float32(1)
	frequency := float32(1)
	var sum, norm float32
	for i := range octaves {
		sum += Noise3(x*frequency, y*frequency, z*frequency, seed+int32(i*131)) * amplitude
		norm += amplitude
		amplitude *= 0.5
		frequency *= 2
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}
