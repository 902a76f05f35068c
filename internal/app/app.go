// Package app runs the interactive viewer: input, camera, one pipeline pass
// per frame and a status line in the window title.
package app

import (
	"fmt"
	"log/slog"
	"time"

	"caves/internal/camera"
	"caves/internal/config"
	"caves/internal/field"
	"caves/internal/graphics"
	"caves/internal/input"
	"caves/internal/pipeline"
	"caves/internal/profiling"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

const titleInterval = 500 * time.Millisecond

type App struct {
	window   *glfw.Window
	input    *input.InputManager
	camera   *camera.Camera
	driver   *pipeline.Driver
	renderer *graphics.Renderer
	backend  string

	fpsLimiter *FPSLimiter
	lastTime   time.Time

	frames    int
	titleTime time.Time
	last      pipeline.Result
}

// New wires the window callbacks. The camera starts looking at the centre
// of a gridSize lattice.
func New(window *glfw.Window, driver *pipeline.Driver, r *graphics.Renderer, gridSize int, backend string) *App {
	width, height := window.GetFramebufferSize()
	cam := camera.NewCamera(width, height)
	c := float32(gridSize) / 2
	cam.LookAt(mgl32.Vec3{c, c, c})
	r.SetViewport(width, height)

	a := &App{
		window:     window,
		input:      input.NewInputManager(),
		camera:     cam,
		driver:     driver,
		renderer:   r,
		backend:    backend,
		fpsLimiter: NewFPSLimiter(),
		lastTime:   time.Now(),
		titleTime:  time.Now(),
	}

	a.input.SetKeyCallback(window)
	window.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		if !config.GetShowControls() {
			a.camera.HandleMouseMovement(x, y)
		}
	})
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		a.camera.SetViewport(w, h)
		a.renderer.SetViewport(w, h)
	})
	a.renderer.Wireframe = config.GetWireframe()
	a.setControlsVisible(config.GetShowControls())
	return a
}

func (a *App) Run() {
	for !a.window.ShouldClose() {
		a.tick()
	}
}

func (a *App) tick() {
	profiling.ResetFrame()
	start := time.Now()
	dt := start.Sub(a.lastTime).Seconds()
	a.lastTime = start

	glfw.PollEvents()
	a.handleInput(float32(dt))

	a.renderer.Clear()
	view := pipeline.View{
		View:       a.camera.GetViewMatrix(),
		Projection: a.camera.GetProjectionMatrix(),
		Eye:        a.camera.Position,
	}
	params := config.GetTerrain()
	if config.GetContinuous() {
		a.last = a.driver.Run(params, view)
	} else {
		a.last = a.driver.RunIfChanged(params, view)
	}
	if a.last.Regenerated {
		slog.Debug("terrain regenerated",
			"seed", params.Seed,
			"ceiling", params.Ceiling,
			"caves", len(params.Caves),
			"vertices", a.last.Vertices,
			"took", profiling.SumWithPrefix("pipeline."),
		)
	}

	a.window.SwapBuffers()

	if d := time.Since(start); d > 16*time.Millisecond {
		slog.Debug("slow frame", "took", d, "top", profiling.TopN(5))
	}

	a.frames++
	if since := time.Since(a.titleTime); since >= titleInterval {
		fps := float64(a.frames) / since.Seconds()
		a.window.SetTitle(a.status(fps))
		a.frames = 0
		a.titleTime = time.Now()
	}

	a.input.PostUpdate()
	a.fpsLimiter.Wait()
}

func (a *App) status(fps float64) string {
	p := config.GetTerrain()
	mode := "camera"
	if config.GetShowControls() {
		mode = "edit"
	}
	regen := "on change"
	if config.GetContinuous() {
		regen = "continuous"
	}
	return fmt.Sprintf("caves [%s] seed %d  ceiling %.0f  caves %d/%d  |  %d triangles  |  %.0f fps  |  %s, %s",
		a.backend, p.Seed, p.Ceiling, len(p.Caves), field.MaxCaves, a.last.Vertices/3, fps, mode, regen)
}

// setControlsVisible switches between editing parameters with a free
// cursor and mouse-look with a captured cursor.
func (a *App) setControlsVisible(visible bool) {
	if visible {
		a.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
		return
	}
	a.camera.ResetMouse()
	a.window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
}
