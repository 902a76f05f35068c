package config

import "sync"

// RenderSettings holds viewer configuration
type RenderSettings struct {
	mu           sync.RWMutex
	fpsLimit     int // 0 = unlimited
	wireframe    bool
	continuous   bool
	showControls bool
}

var globalRenderSettings = &RenderSettings{
	fpsLimit:     120,
	showControls: true,
}

// GetFPSLimit returns the frame rate cap, 0 meaning unlimited
func GetFPSLimit() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.fpsLimit
}

// SetFPSLimit sets the frame rate cap
func SetFPSLimit(limit int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()

	// Clamp to reasonable values
	if limit < 0 {
		limit = 0
	}
	if limit > 1000 {
		limit = 1000
	}

	globalRenderSettings.fpsLimit = limit
}

// GetWireframe returns whether the surface is drawn as lines
func GetWireframe() bool {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.wireframe
}

// ToggleWireframe flips wireframe mode and returns the new value
func ToggleWireframe() bool {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.wireframe = !globalRenderSettings.wireframe
	return globalRenderSettings.wireframe
}

// GetContinuous returns whether the full pipeline runs every frame instead
// of only when the terrain parameters change
func GetContinuous() bool {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.continuous
}

func SetContinuous(enabled bool) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.continuous = enabled
}

// GetShowControls returns whether input edits terrain parameters (true) or
// flies the camera (false)
func GetShowControls() bool {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.showControls
}

// ToggleShowControls flips control mode and returns the new value
func ToggleShowControls() bool {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.showControls = !globalRenderSettings.showControls
	return globalRenderSettings.showControls
}
