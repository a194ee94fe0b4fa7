package viewer

import (
	"math"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

func vecClose(a, b core.Vec3) bool {
	return a.Subtract(b).Length() < 1e-9
}

func TestController_FirstUpdateRenders(t *testing.T) {
	c := NewController(renderer.NewCamera(core.NewVec3(0, 2, 5), -90, 0))
	if !c.Update() {
		t.Error("Expected the initial frame to be requested")
	}
	if c.Update() {
		t.Error("Expected no change without input")
	}
}

func TestController_Movement(t *testing.T) {
	start := core.NewVec3(0, 2, 5)

	// Yaw -90 with zero pitch looks down -Z; right is +X
	tests := []struct {
		key      fyne.KeyName
		expected core.Vec3
	}{
		{fyne.KeyW, core.NewVec3(0, 2, 5-MoveSpeed)},
		{fyne.KeyS, core.NewVec3(0, 2, 5+MoveSpeed)},
		{fyne.KeyA, core.NewVec3(-MoveSpeed, 2, 5)},
		{fyne.KeyD, core.NewVec3(MoveSpeed, 2, 5)},
		{fyne.KeySpace, core.NewVec3(0, 2+MoveSpeed, 5)},
		{desktop.KeyShiftLeft, core.NewVec3(0, 2-MoveSpeed, 5)},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			c := NewController(renderer.NewCamera(start, -90, 0))
			c.Update()

			c.KeyDown(tt.key)
			if !c.Update() {
				t.Fatal("Expected held key to change the camera")
			}
			if got := c.Camera().Position; !vecClose(got, tt.expected) {
				t.Errorf("Expected position %v, got %v", tt.expected, got)
			}

			c.KeyUp(tt.key)
			if c.Update() {
				t.Error("Expected no change after release")
			}
		})
	}
}

func TestController_HeldKeyMovesEveryFrame(t *testing.T) {
	c := NewController(renderer.NewCamera(core.NewVec3(0, 0, 0), -90, 0))
	c.KeyDown(fyne.KeyW)
	for i := 0; i < 10; i++ {
		c.Update()
	}
	if got := c.Camera().Position.Z; math.Abs(got+10*MoveSpeed) > 1e-9 {
		t.Errorf("Expected z=%v after 10 frames, got %v", -10*MoveSpeed, got)
	}
}

func TestController_MoveUpIgnoresPitch(t *testing.T) {
	c := NewController(renderer.NewCamera(core.NewVec3(0, 0, 0), -90, -45))
	c.KeyDown(fyne.KeySpace)
	c.Update()
	if got := c.Camera().Position; !vecClose(got, core.NewVec3(0, MoveSpeed, 0)) {
		t.Errorf("Expected straight up movement, got %v", got)
	}
}

func TestController_Drag(t *testing.T) {
	c := NewController(renderer.NewCamera(core.NewVec3(0, 0, 0), -90, 0))
	c.Update()

	c.Drag(10, -5)
	if !c.Update() {
		t.Fatal("Expected drag to change the camera")
	}
	camera := c.Camera()
	if math.Abs(camera.Yaw-(-90+10*MouseSensitivity)) > 1e-9 {
		t.Errorf("Unexpected yaw %v", camera.Yaw)
	}
	if math.Abs(camera.Pitch-5*MouseSensitivity) > 1e-9 {
		t.Errorf("Unexpected pitch %v", camera.Pitch)
	}

	// Pitch is clamped
	c.Drag(0, -10000)
	if got := c.Camera().Pitch; got != renderer.MaxPitch {
		t.Errorf("Expected pitch clamped to %v, got %v", renderer.MaxPitch, got)
	}

	c.Update()
	c.Drag(0, 0)
	if c.Update() {
		t.Error("Expected zero drag to leave the camera unchanged")
	}
}

func TestController_CameraIsSnapshot(t *testing.T) {
	c := NewController(renderer.NewCamera(core.NewVec3(0, 0, 0), -90, 0))
	snapshot := c.Camera()

	c.KeyDown(fyne.KeyD)
	c.Update()

	if snapshot.Position != (core.Vec3{}) {
		t.Errorf("Expected snapshot to be unaffected, got %v", snapshot.Position)
	}
}
