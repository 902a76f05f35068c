package graphics

import (
	"embed"
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

//go:embed shaders/*.glsl
var shaderFS embed.FS

const (
	DensityShader     = "shaders/density.comp.glsl"
	MarchingShader    = "shaders/marchingcube.comp.glsl"
	SurfaceVertShader = "shaders/vertex.glsl"
	SurfaceFragShader = "shaders/fragment.glsl"
)

// Shader represents an OpenGL shader program. Compute programs also satisfy
// compute.Program.
type Shader struct {
	ID        uint32
	locations map[string]int32
}

// NewShader creates a render program from embedded vertex and fragment sources
func NewShader(vertexPath, fragmentPath string) (*Shader, error) {
	vertexSource, err := shaderFS.ReadFile(vertexPath)
	if err != nil {
		return nil, fmt.Errorf("could not read vertex shader file: %w", err)
	}

	fragmentSource, err := shaderFS.ReadFile(fragmentPath)
	if err != nil {
		return nil, fmt.Errorf("could not read fragment shader file: %w", err)
	}

	program, err := linkProgram(
		stage{string(vertexSource), gl.VERTEX_SHADER},
		stage{string(fragmentSource), gl.FRAGMENT_SHADER},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", vertexPath, err)
	}
	return &Shader{ID: program}, nil
}

// NewComputeShader creates a compute program from an embedded source
func NewComputeShader(path string) (*Shader, error) {
	source, err := shaderFS.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read compute shader file: %w", err)
	}
	program, err := linkProgram(stage{string(source), gl.COMPUTE_SHADER})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Shader{ID: program}, nil
}

// Use activates the shader program
func (s *Shader) Use() {
	gl.UseProgram(s.ID)
}

// location caches uniform lookups; the pipeline sets the same names every pass.
func (s *Shader) location(name string) int32 {
	if loc, ok := s.locations[name]; ok {
		return loc
	}
	if s.locations == nil {
		s.locations = make(map[string]int32)
	}
	loc := gl.GetUniformLocation(s.ID, gl.Str(name+"\x00"))
	s.locations[name] = loc
	return loc
}

// SetBool sets a boolean uniform
func (s *Shader) SetBool(name string, value bool) {
	var intValue int32
	if value {
		intValue = 1
	}
	gl.ProgramUniform1i(s.ID, s.location(name), intValue)
}

// SetInt sets an integer uniform
func (s *Shader) SetInt(name string, value int32) {
	gl.ProgramUniform1i(s.ID, s.location(name), value)
}

// SetFloat sets a float uniform
func (s *Shader) SetFloat(name string, value float32) {
	gl.ProgramUniform1f(s.ID, s.location(name), value)
}

// SetVec3 sets a vector3 uniform
func (s *Shader) SetVec3(name string, v mgl32.Vec3) {
	gl.ProgramUniform3f(s.ID, s.location(name), v[0], v[1], v[2])
}

// SetMatrix4 sets a 4x4 matrix uniform
func (s *Shader) SetMatrix4(name string, value *float32) {
	gl.ProgramUniformMatrix4fv(s.ID, s.location(name), 1, false, value)
}

// Delete releases the program.
func (s *Shader) Delete() {
	if s.ID != 0 {
		gl.DeleteProgram(s.ID)
		s.ID = 0
	}
}

type stage struct {
	source     string
	shaderType uint32
}

func linkProgram(stages ...stage) (uint32, error) {
	shaders := make([]uint32, 0, len(stages))
	defer func() {
		for _, sh := range shaders {
			gl.DeleteShader(sh)
		}
	}()
	for _, st := range stages {
		sh, err := compileShader(st.source, st.shaderType)
		if err != nil {
			return 0, err
		}
		shaders = append(shaders, sh)
	}

	program := gl.CreateProgram()
	for _, sh := range shaders {
		gl.AttachShader(program, sh)
	}
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)

		return 0, fmt.Errorf("failed to link program: %v", log)
	}
	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)

		return 0, fmt.Errorf("failed to compile shader: %v", log)
	}
	return shader, nil
}
