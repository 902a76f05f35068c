package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNewCameraDefaults(t *testing.T) {
	c := NewCamera(800, 600)
	if c.Position != (mgl32.Vec3{-80, 80, 80}) {
		t.Errorf("Position = %v", c.Position)
	}
	if c.NearPlane != 0.1 || c.FarPlane != 1000 {
		t.Errorf("planes = %v..%v", c.NearPlane, c.FarPlane)
	}
	if !mgl32.FloatEqual(c.AspectRatio, 800.0/600.0) {
		t.Errorf("AspectRatio = %v", c.AspectRatio)
	}
}

func TestLookAt(t *testing.T) {
	tests := []struct {
		name   string
		target mgl32.Vec3
	}{
		{"grid centre", mgl32.Vec3{16, 16, 16}},
		{"along x", mgl32.Vec3{0, 80, 80}},
		{"behind", mgl32.Vec3{-160, 60, 80}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCamera(800, 600)
			c.LookAt(tt.target)
			want := tt.target.Sub(c.Position).Normalize()
			if got := c.Front(); got.Sub(want).Len() > 1e-4 {
				t.Errorf("Front() = %v, want %v", got, want)
			}
		})
	}
}

func TestMouseMovementClampsPitch(t *testing.T) {
	c := NewCamera(800, 600)
	c.HandleMouseMovement(100, 100)
	if c.Yaw != 0 || c.Pitch != 0 {
		t.Fatalf("first event moved the camera: yaw %v pitch %v", c.Yaw, c.Pitch)
	}

	c.HandleMouseMovement(110, 100)
	if !mgl32.FloatEqual(c.Yaw, 1) {
		t.Errorf("Yaw = %v, want 1", c.Yaw)
	}

	c.HandleMouseMovement(110, -10000)
	if c.Pitch != 89 {
		t.Errorf("Pitch = %v, want 89", c.Pitch)
	}

	c.ResetMouse()
	c.HandleMouseMovement(0, 0)
	if c.Pitch != 89 {
		t.Errorf("ResetMouse did not swallow the next event")
	}
}

func TestMove(t *testing.T) {
	c := NewCamera(800, 600)
	start := c.Position

	c.Move(Up, 0.5)
	if got := c.Position.Y() - start.Y(); !mgl32.FloatEqual(got, c.Speed*0.5) {
		t.Errorf("Up moved %v", got)
	}
	c.Move(Down, 0.5)
	if !c.Position.ApproxEqual(start) {
		t.Errorf("Up then Down = %v, want %v", c.Position, start)
	}

	front := c.Front()
	c.Move(Forward, 1)
	if got := c.Position.Sub(start); !got.ApproxEqualThreshold(front.Mul(c.Speed), 1e-4) {
		t.Errorf("Forward moved %v", got)
	}
	c.Move(Backward, 1)
	c.Move(Right, 1)
	c.Move(Left, 1)
	if !c.Position.ApproxEqualThreshold(start, 1e-4) {
		t.Errorf("round trip ended at %v", c.Position)
	}
}

func TestSetViewport(t *testing.T) {
	c := NewCamera(800, 600)
	c.SetViewport(1000, 500)
	if c.AspectRatio != 2 {
		t.Errorf("AspectRatio = %v", c.AspectRatio)
	}
	c.SetViewport(1000, 0)
	if c.AspectRatio != 2 {
		t.Errorf("zero height changed aspect to %v", c.AspectRatio)
	}
}
