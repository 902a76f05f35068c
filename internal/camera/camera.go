// Package camera implements a free-flying perspective camera.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Direction is a camera-relative movement axis.
type Direction int

const (
	Forward Direction = iota
	Backward
	Left
	Right
	Up
	Down
)

// Camera is a free-flying perspective camera. Angles are in degrees.
type Camera struct {
	Position mgl32.Vec3
	Yaw      float32
	Pitch    float32

	AspectRatio float32
	FOV         float32
	NearPlane   float32
	FarPlane    float32

	Speed       float32
	Sensitivity float32

	firstMouse   bool
	lastX, lastY float64
}

func NewCamera(width, height int) *Camera {
	return &Camera{
		Position:    mgl32.Vec3{-80, 80, 80},
		AspectRatio: float32(width) / float32(height),
		FOV:         45.0,
		NearPlane:   0.1,
		FarPlane:    1000.0,
		Speed:       20.0,
		Sensitivity: 0.1,
		firstMouse:  true,
	}
}

// LookAt turns the camera toward target without moving it.
func (c *Camera) LookAt(target mgl32.Vec3) {
	d := target.Sub(c.Position)
	if d.Len() == 0 {
		return
	}
	d = d.Normalize()
	c.Yaw = mgl32.RadToDeg(math32.Atan2(d.Z(), d.X()))
	c.Pitch = mgl32.Clamp(mgl32.RadToDeg(math32.Asin(d.Y())), -89, 89)
}

func (c *Camera) Front() mgl32.Vec3 {
	y := mgl32.DegToRad(c.Yaw)
	p := mgl32.DegToRad(c.Pitch)
	return mgl32.Vec3{
		math32.Cos(y) * math32.Cos(p),
		math32.Sin(p),
		math32.Sin(y) * math32.Cos(p),
	}.Normalize()
}

func (c *Camera) GetViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Front()), mgl32.Vec3{0, 1, 0})
}

func (c *Camera) GetProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}

func (c *Camera) SetViewport(width, height int) {
	if height > 0 {
		c.AspectRatio = float32(width) / float32(height)
	}
}

// Move translates the camera along d for dt seconds.
func (c *Camera) Move(d Direction, dt float32) {
	front := c.Front()
	right := front.Cross(mgl32.Vec3{0, 1, 0}).Normalize()
	step := c.Speed * dt
	switch d {
	case Forward:
		c.Position = c.Position.Add(front.Mul(step))
	case Backward:
		c.Position = c.Position.Sub(front.Mul(step))
	case Right:
		c.Position = c.Position.Add(right.Mul(step))
	case Left:
		c.Position = c.Position.Sub(right.Mul(step))
	case Up:
		c.Position[1] += step
	case Down:
		c.Position[1] -= step
	}
}

// HandleMouseMovement turns the camera by the cursor delta since the last call.
func (c *Camera) HandleMouseMovement(xpos, ypos float64) {
	if c.firstMouse {
		c.lastX, c.lastY = xpos, ypos
		c.firstMouse = false
		return
	}

	xoffset := float32(xpos-c.lastX) * c.Sensitivity
	yoffset := float32(c.lastY-ypos) * c.Sensitivity
	c.lastX, c.lastY = xpos, ypos

	c.Yaw += xoffset
	c.Pitch = mgl32.Clamp(c.Pitch+yoffset, -89, 89)
}

// ResetMouse forgets the last cursor position, e.g. after the cursor was
// released and captured again.
func (c *Camera) ResetMouse() { c.firstMouse = true }
