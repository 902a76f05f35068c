package field

import (
	"encoding/binary"
	"errors"
	"math"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/go-gl/mathgl/mgl32"
)

// MaxCaves is the fixed capacity of the cave layer list.
const MaxCaves = 8

var (
	ErrTooManyCaves = errors.New("field: cave layer limit reached")
	ErrCaveIndex    = errors.New("field: cave layer index out of range")
)

// CaveLayer adds Noise3((pos + Offset) * Frequency) * Gain to the density.
type CaveLayer struct {
	Offset    mgl32.Vec3
	Gain      float32
	Frequency float32
}

// DefaultCave is the layer appended when the user adds a cave.
func DefaultCave() CaveLayer {
	return CaveLayer{Gain: 1, Frequency: 0.05}
}

// Params are the inputs to one evaluation pass.
type Params struct {
	Seed    int32
	Ceiling float32
	Offset  mgl32.Vec3
	Caves   []CaveLayer
}

func DefaultParams() Params {
	return Params{
		Seed:    12345,
		Ceiling: 30,
	}
}

// AddCave appends a layer. The list never grows past MaxCaves.
func (p *Params) AddCave(c CaveLayer) error {
	if len(p.Caves) >= MaxCaves {
		return ErrTooManyCaves
	}
	p.Caves = append(p.Caves, c)
	return nil
}

func (p *Params) RemoveCave(i int) error {
	if i < 0 || i >= len(p.Caves) {
		return ErrCaveIndex
	}
	p.Caves = slices.Delete(slices.Clone(p.Caves), i, i+1)
	return nil
}

func (p *Params) SetCave(i int, c CaveLayer) error {
	if i < 0 || i >= len(p.Caves) {
		return ErrCaveIndex
	}
	p.Caves[i] = c
	return nil
}

// Clone returns a copy that shares no memory with p.
func (p Params) Clone() Params {
	out := p
	out.Caves = slices.Clone(p.Caves)
	return out
}

// Fingerprint hashes every field that influences Evaluate. Equal params
// always produce equal fingerprints.
func (p Params) Fingerprint() uint64 {
	buf := make([]byte, 0, 24+len(p.Caves)*20)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(p.Seed))
	buf = appendFloat(buf, p.Ceiling)
	buf = appendVec3(buf, p.Offset)
	n := min(len(p.Caves), MaxCaves)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(n))
	for _, c := range p.Caves[:n] {
		buf = appendVec3(buf, c.Offset)
		buf = appendFloat(buf, c.Gain)
		buf = appendFloat(buf, c.Frequency)
	}
	return xxhash.Sum64(buf)
}

func appendFloat(b []byte, f float32) []byte {
	return binary.LittleEndian.AppendUint32(b, math.Float32bits(f))
}

func appendVec3(b []byte, v mgl32.Vec3) []byte {
	for _, f := range v {
		b = appendFloat(b, f)
	}
	return b
}
