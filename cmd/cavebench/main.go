// Command cavebench runs the density and surface pipeline headless on the
// CPU backend and reports vertex counts and stage timings.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"caves/internal/compute/cpu"
	"caves/internal/field"
	"caves/internal/pipeline"
	"caves/internal/profiling"

	"github.com/xlab/closer"
)

func main() {
	var (
		grid    = flag.Int("grid", 32, "cells per axis")
		seed    = flag.Int("seed", 12345, "terrain seed")
		ceiling = flag.Float64("ceiling", 30, "cave ceiling height")
		caves   = flag.Int("caves", 0, "number of default cave layers")
		frames  = flag.Int("frames", 10, "passes to run")
		workers = flag.Int("workers", 0, "pool size (0 = one per CPU)")
		dump    = flag.Int("dump", 0, "print the first N vertices of the last pass")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	pipeline.SetLogger(logger)

	p := field.DefaultParams()
	p.Seed = int32(*seed)
	p.Ceiling = float32(*ceiling)
	for range min(*caves, field.MaxCaves) {
		if err := p.AddCave(field.DefaultCave()); err != nil {
			closer.Fatalln(err)
		}
	}

	b, err := cpu.NewBackend(*grid, *workers, nil)
	if err != nil {
		closer.Fatalln(err)
	}
	closer.Bind(b.Close)

	d, err := pipeline.New(pipeline.Config{
		GridSize: *grid,
		Device:   b.Device,
		Density:  b.Density,
		Extract:  b.Extract,
		Counter:  b.Counter,
		Reader:   b,
	})
	if err != nil {
		closer.Fatalln(err)
	}

	var total time.Duration
	stages := map[string]time.Duration{}
	var order []string
	for i := range *frames {
		profiling.ResetFrame()
		start := time.Now()
		res := d.Run(p, pipeline.View{})
		took := time.Since(start)
		total += took
		for _, e := range profiling.Sorted() {
			if _, ok := stages[e.Name]; !ok {
				order = append(order, e.Name)
			}
			stages[e.Name] += e.Dur
		}
		fmt.Printf("pass %d: %d vertices (%d triangles) in %v [%s]\n",
			i, res.Vertices, res.Vertices/3, took.Round(time.Microsecond), profiling.TopN(3))
	}
	if n := time.Duration(*frames); n > 0 {
		fmt.Printf("grid %d, capacity %d, mean %v per pass\n",
			*grid, b.Counter.Capacity(), (total / n).Round(time.Microsecond))
		for _, name := range order {
			fmt.Printf("  %-18s %v\n", name, (stages[name] / n).Round(time.Microsecond))
		}
	}

	if *dump > 0 {
		for i, v := range d.Debug(uint32(*dump)) {
			fmt.Printf("vertex %d: pos (%.3f, %.3f, %.3f, %.0f) normal (%.3f, %.3f, %.3f)\n",
				i, v.Position[0], v.Position[1], v.Position[2], v.Position[3],
				v.Normal[0], v.Normal[1], v.Normal[2])
		}
	}

	closer.Close()
}
