package app

import (
	"errors"
	"log/slog"

	"caves/internal/camera"
	"caves/internal/config"
	"caves/internal/field"
	"caves/internal/input"
	"caves/internal/profiling"
)

const (
	ceilingStep = 2
	seedStep    = 1
)

var moveBindings = []struct {
	action input.Action
	dir    camera.Direction
}{
	{input.ActionMoveForward, camera.Forward},
	{input.ActionMoveBackward, camera.Backward},
	{input.ActionMoveLeft, camera.Left},
	{input.ActionMoveRight, camera.Right},
	{input.ActionMoveUp, camera.Up},
	{input.ActionMoveDown, camera.Down},
}

func (a *App) handleInput(dt float32) {
	im := a.input

	if im.JustPressed(input.ActionQuit) {
		a.window.SetShouldClose(true)
	}
	if im.JustPressed(input.ActionToggleWireframe) {
		a.renderer.Wireframe = config.ToggleWireframe()
	}
	if im.JustPressed(input.ActionToggleControls) {
		a.setControlsVisible(config.ToggleShowControls())
	}
	if im.JustPressed(input.ActionToggleContinuous) {
		config.SetContinuous(!config.GetContinuous())
	}
	if im.JustPressed(input.ActionDumpProfile) {
		slog.Info("frame profile", "top", profiling.TopN(5))
	}

	for _, b := range moveBindings {
		if im.IsActive(b.action) {
			a.camera.Move(b.dir, dt)
		}
	}

	if config.GetShowControls() {
		editTerrain(im)
	}
}

// editTerrain applies the parameter editing keys. Only active while the
// controls are shown, mirroring a focused parameter panel.
func editTerrain(im *input.InputManager) {
	p := config.GetTerrain()

	if im.JustPressed(input.ActionRandomSeed) {
		slog.Info("seed randomised", "seed", config.RandomizeSeed())
	}
	if im.JustPressed(input.ActionSeedUp) {
		config.SetSeed(p.Seed + seedStep)
	}
	if im.JustPressed(input.ActionSeedDown) {
		config.SetSeed(p.Seed - seedStep)
	}
	if im.JustPressed(input.ActionCeilingUp) {
		config.SetCeiling(p.Ceiling + ceilingStep)
	}
	if im.JustPressed(input.ActionCeilingDown) {
		config.SetCeiling(p.Ceiling - ceilingStep)
	}
	if im.JustPressed(input.ActionAddCave) {
		if err := config.AddCave(field.DefaultCave()); errors.Is(err, field.ErrTooManyCaves) {
			slog.Info("cave limit reached", "max", field.MaxCaves)
		}
	}
	if im.JustPressed(input.ActionRemoveCave) && len(p.Caves) > 0 {
		if err := config.RemoveCave(len(p.Caves) - 1); err != nil {
			slog.Warn("remove cave", "err", err)
		}
	}
}
