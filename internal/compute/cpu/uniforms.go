package cpu

import "github.com/go-gl/mathgl/mgl32"

// Uniforms stores named parameter values for a CPU kernel. Unset names
// read as zero, like an unassigned shader uniform.
type Uniforms struct {
	ints   map[string]int32
	floats map[string]float32
	vecs   map[string]mgl32.Vec3
}

func (u *Uniforms) SetInt(name string, v int32) {
	if u.ints == nil {
		u.ints = make(map[string]int32)
	}
	u.ints[name] = v
}

func (u *Uniforms) SetFloat(name string, v float32) {
	if u.floats == nil {
		u.floats = make(map[string]float32)
	}
	u.floats[name] = v
}

func (u *Uniforms) SetVec3(name string, v mgl32.Vec3) {
	if u.vecs == nil {
		u.vecs = make(map[string]mgl32.Vec3)
	}
	u.vecs[name] = v
}

func (u *Uniforms) Int(name string) int32       { return u.ints[name] }
func (u *Uniforms) Float(name string) float32   { return u.floats[name] }
func (u *Uniforms) Vec3(name string) mgl32.Vec3 { return u.vecs[name] }
