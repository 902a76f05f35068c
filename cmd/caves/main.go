package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"caves/internal/app"
	"caves/internal/compute/cpu"
	"caves/internal/config"
	"caves/internal/field"
	"caves/internal/graphics"
	"caves/internal/pipeline"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/xlab/closer"
)

func init() {
	// GLFW and GL calls must stay on the main thread
	runtime.LockOSThread()
}

func main() {
	var (
		backend    = flag.String("backend", "gl", "compute backend: gl or cpu")
		grid       = flag.Int("grid", 32, "cells per axis")
		workers    = flag.Int("workers", 0, "cpu backend pool size (0 = one per CPU)")
		seed       = flag.Int("seed", 12345, "terrain seed")
		ceiling    = flag.Float64("ceiling", 30, "cave ceiling height (0..60)")
		caves      = flag.Int("caves", 0, "number of default cave layers to start with")
		fps        = flag.Int("fps", 120, "frame rate cap (0 = unlimited)")
		continuous = flag.Bool("continuous", false, "run the full pipeline every frame")
		width      = flag.Int("width", 900, "window width")
		height     = flag.Int("height", 600, "window height")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	pipeline.SetLogger(logger)

	config.SetSeed(int32(*seed))
	config.SetCeiling(float32(*ceiling))
	config.SetFPSLimit(*fps)
	config.SetContinuous(*continuous)
	for range min(*caves, field.MaxCaves) {
		if err := config.AddCave(field.DefaultCave()); err != nil {
			closer.Fatalln(err)
		}
	}

	if err := glfw.Init(); err != nil {
		closer.Fatalln(err)
	}

	window, err := app.SetupWindow(*width, *height, "caves")
	if err != nil {
		glfw.Terminate()
		closer.Fatalln(err)
	}

	driver, renderer, release, err := build(*backend, *grid, *workers)
	if err != nil {
		window.Destroy()
		glfw.Terminate()
		closer.Fatalln(err)
	}
	slog.Info("pipeline ready", "backend", *backend, "grid", *grid)

	app.New(window, driver, renderer, *grid, *backend).Run()

	// GL objects belong to this thread's context; release them here rather
	// than from the closer goroutine.
	release()
	window.Destroy()
	glfw.Terminate()
	closer.Close()
}

func build(backend string, grid, workers int) (*pipeline.Driver, *graphics.Renderer, func(), error) {
	switch backend {
	case "gl":
		b, err := graphics.NewBackend(grid)
		if err != nil {
			return nil, nil, nil, err
		}
		r, err := graphics.NewRenderer(b.Surface)
		if err != nil {
			b.Close()
			return nil, nil, nil, err
		}
		d, err := pipeline.New(pipeline.Config{
			GridSize: grid,
			Device:   b.Device,
			Density:  b.Density,
			Extract:  b.Extract,
			Counter:  b.Surface,
			Drawer:   r,
			Reader:   b.Surface,
		})
		if err != nil {
			r.Dispose()
			b.Close()
			return nil, nil, nil, err
		}
		return d, r, func() { r.Dispose(); b.Close() }, nil

	case "cpu":
		b, err := cpu.NewBackend(grid, workers, nil)
		if err != nil {
			return nil, nil, nil, err
		}
		closer.Bind(b.Close)

		mesh := graphics.NewHostMesh(b.Buffer.Vertices)
		r, err := graphics.NewRenderer(mesh)
		if err != nil {
			mesh.Dispose()
			return nil, nil, nil, err
		}
		d, err := pipeline.New(pipeline.Config{
			GridSize: grid,
			Device:   b.Device,
			Density:  b.Density,
			Extract:  b.Extract,
			Counter:  b.Counter,
			Drawer:   r,
			Reader:   b,
		})
		if err != nil {
			r.Dispose()
			mesh.Dispose()
			return nil, nil, nil, err
		}
		return d, r, func() { r.Dispose(); mesh.Dispose() }, nil
	}
	return nil, nil, nil, fmt.Errorf("unknown backend %q", backend)
}
