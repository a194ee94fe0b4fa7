package renderer

import (
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func vecNear(a, b core.Vec3, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}

func TestCamera_DefaultBasis(t *testing.T) {
	camera := NewCamera(core.NewVec3(0, 0, 0), -90, 0)

	if !vecNear(camera.Forward, core.NewVec3(0, 0, -1), 1e-9) {
		t.Errorf("Expected forward (0,0,-1), got %v", camera.Forward)
	}
	if !vecNear(camera.Right, core.NewVec3(1, 0, 0), 1e-9) {
		t.Errorf("Expected right (1,0,0), got %v", camera.Right)
	}
	if !vecNear(camera.Up, core.NewVec3(0, 1, 0), 1e-9) {
		t.Errorf("Expected up (0,1,0), got %v", camera.Up)
	}
}

func TestCamera_BasisIsOrthonormal(t *testing.T) {
	tests := []struct {
		yaw, pitch float64
	}{
		{-90, -20},
		{0, 0},
		{45, 30},
		{170, -85},
		{-300, 60},
	}

	for _, tt := range tests {
		c := NewCamera(core.NewVec3(1, 2, 3), tt.yaw, tt.pitch)
		for name, v := range map[string]core.Vec3{"forward": c.Forward, "right": c.Right, "up": c.Up} {
			if math.Abs(v.Length()-1) > 1e-9 {
				t.Errorf("yaw=%v pitch=%v: %s not unit length: %v", tt.yaw, tt.pitch, name, v)
			}
		}
		if math.Abs(c.Forward.Dot(c.Right)) > 1e-9 || math.Abs(c.Forward.Dot(c.Up)) > 1e-9 || math.Abs(c.Right.Dot(c.Up)) > 1e-9 {
			t.Errorf("yaw=%v pitch=%v: basis not orthogonal", tt.yaw, tt.pitch)
		}
		// Right stays horizontal so the horizon is level
		if math.Abs(c.Right.Y) > 1e-9 {
			t.Errorf("yaw=%v pitch=%v: right vector tilted: %v", tt.yaw, tt.pitch, c.Right)
		}
	}
}

func TestCamera_GetRay(t *testing.T) {
	camera := NewCamera(core.NewVec3(0, 2, 5), -90, 0)

	// Center pixel of an odd-sized image looks straight ahead
	center := camera.GetRay(1, 1, 3, 3)
	if !vecNear(center.Direction, camera.Forward, 1e-9) {
		t.Errorf("Expected center ray along forward, got %v", center.Direction)
	}
	if center.Origin != camera.Position {
		t.Errorf("Expected ray origin at camera position, got %v", center.Origin)
	}

	// Top-left pixel looks up and to the left
	topLeft := camera.GetRay(0, 0, 160, 90)
	if !(topLeft.Direction.X < 0 && topLeft.Direction.Y > 0) {
		t.Errorf("Expected top-left ray to point up-left, got %v", topLeft.Direction)
	}
	if math.Abs(topLeft.Direction.Length()-1) > 1e-9 {
		t.Errorf("Expected normalized direction, got length %f", topLeft.Direction.Length())
	}

	// A single-pixel image samples its center
	edge := camera.GetRay(0, 0, 1, 1)
	if !vecNear(edge.Direction, camera.Forward, 1e-9) {
		t.Errorf("Expected single-pixel ray along forward, got %v", edge.Direction)
	}
	// With a 90 degree field of view the right edge sits 45 degrees off axis
	right := camera.GetRay(999, 500, 1000, 1001)
	angle := math.Atan2(right.Direction.X, -right.Direction.Z) * 180 / math.Pi
	if math.Abs(angle-45) > 0.2 {
		t.Errorf("Expected rightmost ray near 45 degrees, got %f", angle)
	}
}

func TestCamera_Movement(t *testing.T) {
	camera := NewCamera(core.NewVec3(0, 0, 0), -90, -30)

	camera.MoveUp(2)
	if !vecNear(camera.Position, core.NewVec3(0, 2, 0), 1e-9) {
		t.Errorf("Expected MoveUp to follow world up, got %v", camera.Position)
	}

	camera.MoveRight(1)
	if !vecNear(camera.Position, core.NewVec3(1, 2, 0), 1e-9) {
		t.Errorf("Expected MoveRight along +X, got %v", camera.Position)
	}

	before := camera.Position
	camera.MoveForward(1)
	if !vecNear(camera.Position.Subtract(before), camera.Forward, 1e-9) {
		t.Errorf("Expected MoveForward along view direction")
	}
}

func TestCamera_RotateClampsPitch(t *testing.T) {
	camera := NewCamera(core.NewVec3(0, 0, 0), -90, 0)

	camera.Rotate(90, 200)
	if camera.Pitch != MaxPitch {
		t.Errorf("Expected pitch clamped to %v, got %v", MaxPitch, camera.Pitch)
	}
	if camera.Yaw != 0 {
		t.Errorf("Expected yaw 0, got %v", camera.Yaw)
	}
	if !(camera.Forward.Y > 0.99) {
		t.Errorf("Expected camera to look nearly straight up, got %v", camera.Forward)
	}

	camera.Rotate(0, -400)
	if camera.Pitch != -MaxPitch {
		t.Errorf("Expected pitch clamped to %v, got %v", -MaxPitch, camera.Pitch)
	}
}

func TestNewCameraFromBasis(t *testing.T) {
	camera := NewCameraFromBasis(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1), core.NewVec3(0, 1, 0))
	ray := camera.GetRay(0, 0, 1, 1)
	if !vecNear(ray.Direction, core.NewVec3(1, 0, 0), 1e-12) {
		t.Errorf("Expected ray along supplied forward, got %v", ray.Direction)
	}
}
