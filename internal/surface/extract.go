package surface

import (
	"caves/internal/field"
	"caves/internal/lattice"
	"caves/internal/tables"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// degenerateEpsilon guards the interpolation when both corner densities are
// nearly equal.
const degenerateEpsilon = 1e-6

// ConfigIndex sets bit i when corner i is inside (negative density).
func ConfigIndex(d [8]float32) uint8 {
	var cfg uint8
	for i, v := range d {
		if v < 0 {
			cfg |= 1 << i
		}
	}
	return cfg
}

// Corners reads the eight corner densities of cell (cx, cy, cz).
func Corners(l *lattice.Lattice, cx, cy, cz int) [8]float32 {
	var d [8]float32
	for i := range d {
		o := tables.Corner(i)
		d[i] = l.Sample(cx+o[0], cy+o[1], cz+o[2])
	}
	return d
}

// ExtractCell polygonises one cell into buf and returns the number of
// triangles emitted. Cells are independent: edge vertices are recomputed
// rather than shared with neighbours.
func ExtractCell(l *lattice.Lattice, cx, cy, cz int, offset mgl32.Vec3, buf *Buffer) int {
	d := Corners(l, cx, cy, cz)
	cfg := ConfigIndex(d)
	if cfg == 0 || cfg == 255 {
		return 0
	}

	var edgeVerts [12]Vertex
	mask := tables.EdgeMask(cfg)
	for e := range 12 {
		if mask&(1<<e) == 0 {
			continue
		}
		a, b := tables.EdgeEnds(e)
		edgeVerts[e] = edgeVertex(l, cx, cy, cz, a, b, d[a], d[b], offset)
	}

	row := tables.Triangles(cfg)
	tris := 0
	for i := 0; i+2 < len(row) && row[i] != tables.End; i += 3 {
		base := buf.Reserve(3)
		buf.Write(base, edgeVerts[row[i]])
		buf.Write(base+1, edgeVerts[row[i+1]])
		buf.Write(base+2, edgeVerts[row[i+2]])
		tris++
	}
	return tris
}

// Extract polygonises every cell of the lattice serially.
func Extract(l *lattice.Lattice, offset mgl32.Vec3, buf *Buffer) {
	g := l.GridSize()
	for z := 0; z < g; z++ {
		for y := 0; y < g; y++ {
			for x := 0; x < g; x++ {
				ExtractCell(l, x, y, z, offset, buf)
			}
		}
	}
}

func edgeVertex(l *lattice.Lattice, cx, cy, cz, a, b int, d0, d1 float32, offset mgl32.Vec3) Vertex {
	t := float32(0.5)
	if denom := d0 - d1; math32.Abs(denom) > degenerateEpsilon {
		t = max(0, min(1, d0/denom))
	}

	oa, ob := tables.Corner(a), tables.Corner(b)
	pa := mgl32.Vec3{float32(cx + oa[0]), float32(cy + oa[1]), float32(cz + oa[2])}
	pb := mgl32.Vec3{float32(cx + ob[0]), float32(cy + ob[1]), float32(cz + ob[2])}
	p := pa.Add(pb.Sub(pa).Mul(t)).Mul(field.VoxelScale).Add(offset)

	ga := l.Gradient(cx+oa[0], cy+oa[1], cz+oa[2])
	gb := l.Gradient(cx+ob[0], cy+ob[1], cz+ob[2])
	n := mgl32.Vec3(ga).Add(mgl32.Vec3(gb).Sub(mgl32.Vec3(ga)).Mul(t))

	return Vertex{
		Position: [4]float32{p[0], p[1], p[2], 1},
		Normal:   outward(n),
	}
}

// outward normalises the density gradient. Density grows away from the
// inside, so the gradient already points out of the surface.
func outward(g mgl32.Vec3) [3]float32 {
	l := math32.Sqrt(g.Dot(g))
	if l < degenerateEpsilon {
		return [3]float32{0, 1, 0}
	}
	return [3]float32(g.Mul(1 / l))
}
