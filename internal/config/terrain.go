package config

import (
	"math/rand/v2"
	"sync"

	"caves/internal/field"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	MinCeiling = 0
	MaxCeiling = 60
	// MaxRandomSeed bounds RandomizeSeed.
	MaxRandomSeed = 100000
)

// TerrainSettings holds the parameters of the density function
type TerrainSettings struct {
	mu     sync.RWMutex
	params field.Params
}

var globalTerrainSettings = &TerrainSettings{
	params: field.DefaultParams(),
}

// GetTerrain returns a snapshot of the current parameters. The caller may
// modify it freely.
func GetTerrain() field.Params {
	globalTerrainSettings.mu.RLock()
	defer globalTerrainSettings.mu.RUnlock()
	return globalTerrainSettings.params.Clone()
}

// ResetTerrain restores the default parameters
func ResetTerrain() {
	globalTerrainSettings.mu.Lock()
	defer globalTerrainSettings.mu.Unlock()
	globalTerrainSettings.params = field.DefaultParams()
}

func SetSeed(seed int32) {
	globalTerrainSettings.mu.Lock()
	defer globalTerrainSettings.mu.Unlock()
	globalTerrainSettings.params.Seed = seed
}

// RandomizeSeed picks a seed in [0, MaxRandomSeed] and returns it
func RandomizeSeed() int32 {
	seed := int32(rand.IntN(MaxRandomSeed + 1))
	SetSeed(seed)
	return seed
}

// SetCeiling sets the cave ceiling height
func SetCeiling(ceiling float32) {
	globalTerrainSettings.mu.Lock()
	defer globalTerrainSettings.mu.Unlock()
	globalTerrainSettings.params.Ceiling = mgl32.Clamp(ceiling, MinCeiling, MaxCeiling)
}

// SetOffset sets the world-space origin of the lattice
func SetOffset(offset mgl32.Vec3) {
	globalTerrainSettings.mu.Lock()
	defer globalTerrainSettings.mu.Unlock()
	globalTerrainSettings.params.Offset = offset
}

// AddCave appends a cave layer; it fails once field.MaxCaves layers exist
func AddCave(c field.CaveLayer) error {
	globalTerrainSettings.mu.Lock()
	defer globalTerrainSettings.mu.Unlock()
	return globalTerrainSettings.params.AddCave(c)
}

func RemoveCave(i int) error {
	globalTerrainSettings.mu.Lock()
	defer globalTerrainSettings.mu.Unlock()
	return globalTerrainSettings.params.RemoveCave(i)
}

func SetCave(i int, c field.CaveLayer) error {
	globalTerrainSettings.mu.Lock()
	defer globalTerrainSettings.mu.Unlock()
	return globalTerrainSettings.params.SetCave(i, c)
}
