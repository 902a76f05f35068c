package input

import (
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Action is a logical viewer command, not a physical key
type Action int

const (
	ActionMoveForward Action = iota
	ActionMoveBackward
	ActionMoveLeft
	ActionMoveRight
	ActionMoveUp
	ActionMoveDown
	ActionToggleWireframe
	ActionToggleControls
	ActionToggleContinuous
	ActionRandomSeed
	ActionSeedUp
	ActionSeedDown
	ActionCeilingUp
	ActionCeilingDown
	ActionAddCave
	ActionRemoveCave
	ActionDumpProfile
	ActionQuit
	ActionCount // Sentinel value for array sizing
)

type keyState struct {
	held    bool
	pressed bool // went down this frame
}

// InputManager tracks key state per frame and maps keys to actions
type InputManager struct {
	mu       sync.RWMutex
	bindings map[glfw.Key][]Action
	state    [ActionCount]keyState
}

// NewInputManager creates an InputManager with the default key bindings
func NewInputManager() *InputManager {
	im := &InputManager{bindings: make(map[glfw.Key][]Action)}

	im.BindKey(glfw.KeyW, ActionMoveForward)
	im.BindKey(glfw.KeyS, ActionMoveBackward)
	im.BindKey(glfw.KeyA, ActionMoveLeft)
	im.BindKey(glfw.KeyD, ActionMoveRight)
	im.BindKey(glfw.KeyE, ActionMoveUp)
	im.BindKey(glfw.KeyQ, ActionMoveDown)
	im.BindKey(glfw.KeyEnter, ActionToggleWireframe)
	im.BindKey(glfw.KeyKPEnter, ActionToggleWireframe)
	im.BindKey(glfw.KeyM, ActionToggleControls)
	im.BindKey(glfw.KeySpace, ActionToggleContinuous)
	im.BindKey(glfw.KeyR, ActionRandomSeed)
	im.BindKey(glfw.KeyRight, ActionSeedUp)
	im.BindKey(glfw.KeyLeft, ActionSeedDown)
	im.BindKey(glfw.KeyUp, ActionCeilingUp)
	im.BindKey(glfw.KeyDown, ActionCeilingDown)
	im.BindKey(glfw.KeyC, ActionAddCave)
	im.BindKey(glfw.KeyX, ActionRemoveCave)
	im.BindKey(glfw.KeyP, ActionDumpProfile)
	im.BindKey(glfw.KeyEscape, ActionQuit)

	return im
}

// BindKey adds action to key. A key may drive several actions and an
// action may have several keys.
func (im *InputManager) BindKey(key glfw.Key, action Action) {
	if action < 0 || action >= ActionCount {
		return
	}
	im.mu.Lock()
	im.bindings[key] = append(im.bindings[key], action)
	im.mu.Unlock()
}

// HandleKeyEvent records a key transition. Repeats count as held.
func (im *InputManager) HandleKeyEvent(key glfw.Key, action glfw.Action) {
	down := action != glfw.Release

	im.mu.Lock()
	defer im.mu.Unlock()
	for _, act := range im.bindings[key] {
		st := &im.state[act]
		if down && !st.held {
			st.pressed = true
		}
		st.held = down
	}
}

// SetKeyCallback routes the window's key events into the manager
func (im *InputManager) SetKeyCallback(window *glfw.Window) {
	window.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		im.HandleKeyEvent(key, action)
	})
}

// PostUpdate clears the per-frame presses. Call once at the end of a frame.
func (im *InputManager) PostUpdate() {
	im.mu.Lock()
	defer im.mu.Unlock()
	for i := range im.state {
		im.state[i].pressed = false
	}
}

func (im *InputManager) get(action Action) keyState {
	if action < 0 || action >= ActionCount {
		return keyState{}
	}
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.state[action]
}

// IsActive reports whether the action is held down
func (im *InputManager) IsActive(action Action) bool { return im.get(action).held }

// JustPressed reports whether the action went down this frame
func (im *InputManager) JustPressed(action Action) bool { return im.get(action).pressed }
