// Package compute defines the boundary between the pipeline driver and a
// compute backend. A backend supplies compiled programs with named parameter
// slots, a device that dispatches work groups and inserts barriers, and the
// output counter of the surface buffer.
package compute

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// LocalSize is the work group edge length; groups are LocalSize³ invocations.
const LocalSize = 8

// Parameter slots shared by the density and extraction programs.
const (
	ParamGridSize    = "gridSize"
	ParamDensitySize = "densitySize"
	ParamSeed        = "u_Seed"
	ParamOffset      = "u_Offset"
	ParamCeiling     = "u_Ceiling"
	ParamCaveCount   = "u_CaveCount"
)

// CaveOffsetParam names the offset slot of cave layer i.
func CaveOffsetParam(i int) string { return fmt.Sprintf("u_CaveOffset[%d]", i) }

// CaveGainParam names the gain slot of cave layer i.
func CaveGainParam(i int) string { return fmt.Sprintf("u_CaveGain[%d]", i) }

// CaveFrequencyParam names the frequency slot of cave layer i.
func CaveFrequencyParam(i int) string { return fmt.Sprintf("u_CaveFrequency[%d]", i) }

// Program is a compiled compute program. Parameters apply to the next
// dispatch of the program.
type Program interface {
	SetInt(name string, v int32)
	SetFloat(name string, v float32)
	SetVec3(name string, v mgl32.Vec3)
}

// Device runs programs. Dispatch may return before the work is done;
// Barrier blocks further reads until every earlier dispatch's writes are
// visible.
type Device interface {
	Bind(p Program)
	Dispatch(x, y, z uint32)
	Barrier()
}

// Counter is the surface buffer's output counter.
type Counter interface {
	Reset()
	Load() uint32
	Capacity() uint32
}

// Groups is the number of work groups needed to cover n invocations.
func Groups(n int) uint32 {
	return uint32((n + LocalSize - 1) / LocalSize)
}
