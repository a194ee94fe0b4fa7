package renderer

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// FieldOfView is the fixed vertical field of view in degrees
const FieldOfView = 90.0

// MaxPitch keeps the camera away from the poles where the right vector degenerates
const MaxPitch = 89.0

var worldUp = core.NewVec3(0, 1, 0)

// Camera generates primary rays from a position and an orthonormal basis.
// Yaw and pitch are in degrees; yaw -90 looks down -Z.
type Camera struct {
	Position core.Vec3
	Yaw      float64
	Pitch    float64

	Forward core.Vec3
	Right   core.Vec3
	Up      core.Vec3
}

// NewCamera creates a camera at position looking along yaw/pitch
func NewCamera(position core.Vec3, yaw, pitch float64) *Camera {
	c := &Camera{Position: position, Yaw: yaw, Pitch: clampPitch(pitch)}
	c.updateVectors()
	return c
}

// NewCameraFromBasis creates a camera from an externally computed basis.
// The vectors are used as given; callers supply an orthonormal set.
func NewCameraFromBasis(position, forward, right, up core.Vec3) *Camera {
	return &Camera{
		Position: position,
		Forward:  forward,
		Right:    right,
		Up:       up,
	}
}

// updateVectors recomputes the basis from yaw and pitch
func (c *Camera) updateVectors() {
	yaw := c.Yaw * math.Pi / 180
	pitch := c.Pitch * math.Pi / 180

	c.Forward = core.NewVec3(
		math.Cos(yaw)*math.Cos(pitch),
		math.Sin(pitch),
		math.Sin(yaw)*math.Cos(pitch),
	).Normalize()
	c.Right = c.Forward.Cross(worldUp).Normalize()
	c.Up = c.Right.Cross(c.Forward).Normalize()
}

// GetRay generates the primary ray through the center of pixel (i, j).
// Pixel (0, 0) is the top-left corner of the image.
func (c *Camera) GetRay(i, j, width, height int) core.Ray {
	aspectRatio := float64(width) / float64(height)
	fovScale := math.Tan(FieldOfView * math.Pi / 180 / 2)

	ndcX := (2*(float64(i)+0.5)/float64(width) - 1) * aspectRatio * fovScale
	ndcY := (1 - 2*(float64(j)+0.5)/float64(height)) * fovScale

	direction := c.Forward.
		Add(c.Right.Multiply(ndcX)).
		Add(c.Up.Multiply(ndcY)).
		Normalize()

	return core.NewRay(c.Position, direction)
}

// MoveForward moves along the view direction
func (c *Camera) MoveForward(distance float64) {
	c.Position = c.Position.Add(c.Forward.Multiply(distance))
}

// MoveRight strafes along the right vector
func (c *Camera) MoveRight(distance float64) {
	c.Position = c.Position.Add(c.Right.Multiply(distance))
}

// MoveUp moves along the world up axis regardless of pitch
func (c *Camera) MoveUp(distance float64) {
	c.Position = c.Position.Add(worldUp.Multiply(distance))
}

// Rotate adjusts yaw and pitch in degrees and rebuilds the basis
func (c *Camera) Rotate(deltaYaw, deltaPitch float64) {
	c.Yaw += deltaYaw
	c.Pitch = clampPitch(c.Pitch + deltaPitch)
	c.updateVectors()
}

func clampPitch(pitch float64) float64 {
	return math.Max(-MaxPitch, math.Min(MaxPitch, pitch))
}
