// Package tables holds the static marching cubes lookup data.
package tables

// End terminates a Triangles row.
const End = -1

const (
	// MaxTriangles is the most triangles a single cell can emit.
	MaxTriangles = 5
	// MaxVertices is the most vertices a single cell can emit.
	MaxVertices = 3 * MaxTriangles
)

// Corner returns the offset of cube corner i from the cell's minimum corner.
func Corner(i int) [3]int { return cornerOffsets[i] }

// EdgeEnds returns the two corners joined by edge e.
func EdgeEnds(e int) (a, b int) { return edgeCorners[e][0], edgeCorners[e][1] }

// EdgeMask returns the 12-bit mask of edges the surface crosses for a
// configuration index.
func EdgeMask(config uint8) uint16 { return edgeTable[config] }

// Triangles returns a copy of the configuration's row: edge indices in
// triples, terminated by End. Seen from outside the surface (positive
// density), every triangle winds clockwise.
func Triangles(config uint8) [16]int8 { return triTable[config] }

// TriangleCount returns the number of triangles listed for a configuration.
func TriangleCount(config uint8) int {
	row := &triTable[config]
	n := 0
	for n < len(row) && row[n] != End {
		n++
	}
	return n / 3
}

// EdgeTableInt32 widens the edge masks for upload into a std430 int array.
func EdgeTableInt32() []int32 {
	out := make([]int32, len(edgeTable))
	for i, m := range edgeTable {
		out[i] = int32(m)
	}
	return out
}

// FlatTriTable flattens the triangle rows row-major (16 entries per configuration).
func FlatTriTable() []int32 {
	out := make([]int32, 0, len(triTable)*16)
	for _, row := range triTable {
		for _, e := range row {
			out = append(out, int32(e))
		}
	}
	return out
}
