package graphics

import (
	"caves/internal/pipeline"

	"github.com/go-gl/gl/v4.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	ClearColor  = mgl32.Vec4{0.53, 0.81, 0.92, 1.0}
	LightPos    = mgl32.Vec3{0, 40, 60}
	LightColor  = mgl32.Vec3{1, 1, 1}
	ObjectColor = mgl32.Vec3{0.6, 0.9, 0.6}
)

// Renderer draws the extracted surface with Phong lighting. It implements
// pipeline.Drawer.
type Renderer struct {
	shader   *Shader
	geometry Geometry

	Wireframe bool
}

// NewRenderer creates the surface program and configures fixed GL state.
func NewRenderer(g Geometry) (*Renderer, error) {
	shader, err := NewShader(SurfaceVertShader, SurfaceFragShader)
	if err != nil {
		return nil, err
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	// Marching cubes tables wind clockwise seen from outside.
	gl.FrontFace(gl.CW)

	return &Renderer{shader: shader, geometry: g}, nil
}

// Clear prepares the default framebuffer for a new frame.
func (r *Renderer) Clear() {
	gl.ClearColor(ClearColor[0], ClearColor[1], ClearColor[2], ClearColor[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (r *Renderer) Draw(count uint32, v pipeline.View) {
	model := mgl32.Ident4()

	r.shader.Use()
	r.shader.SetMatrix4("model", &model[0])
	r.shader.SetMatrix4("view", &v.View[0])
	r.shader.SetMatrix4("projection", &v.Projection[0])
	r.shader.SetVec3("lightPos", LightPos)
	r.shader.SetVec3("viewPos", v.Eye)
	r.shader.SetVec3("lightColor", LightColor)
	r.shader.SetVec3("objectColor", ObjectColor)

	if r.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		gl.Disable(gl.CULL_FACE)
	}

	r.geometry.Bind(count)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(count))
	gl.BindVertexArray(0)

	if r.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
		gl.Enable(gl.CULL_FACE)
	}
}

// SetViewport resizes the GL viewport.
func (r *Renderer) SetViewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (r *Renderer) Dispose() {
	r.shader.Delete()
}
