package scene

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/log"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

var logger = log.New("scene")

// BulbRadius is the radius of the emissive sphere drawn at the light position
const BulbRadius = 0.2

// Scene contains all the elements needed for rendering
type Scene struct {
	Name         string
	Primitives   []geometry.Primitive // Objects in the scene
	Light        lights.PointLight
	CameraConfig CameraConfig
	Config       RenderConfig
	BVH          *geometry.BVH // Acceleration structure for ray-object intersection
}

// CameraConfig is the initial camera placement, in degrees
type CameraConfig struct {
	Position core.Vec3
	Yaw      float64
	Pitch    float64
}

// RenderConfig contains rendering configuration
type RenderConfig struct {
	Width      int     // Framebuffer width
	Height     int     // Framebuffer height
	Gamma      float64 // Display gamma
	Integrator integrator.Config
}

// DefaultRenderConfig returns the 1536x864 buffer with gamma 2.2
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		Width:      1536,
		Height:     864,
		Gamma:      renderer.DefaultGamma,
		Integrator: integrator.DefaultConfig(),
	}
}

// Validate checks that the configuration can produce a frame
func (c RenderConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid frame size %dx%d", c.Width, c.Height)
	}
	if !(c.Gamma > 0) {
		return fmt.Errorf("invalid gamma %v", c.Gamma)
	}
	if c.Integrator.MaxBounces < 1 {
		return fmt.Errorf("invalid bounce limit %d", c.Integrator.MaxBounces)
	}
	return nil
}

// NewGroundTriangles creates a large square replacing an infinite ground
// plane, centered at the given point with its normal pointing up
func NewGroundTriangles(center core.Vec3, size float64, mat material.Material) []geometry.Primitive {
	corner := core.NewVec3(center.X-size/2, center.Y, center.Z-size/2)
	u := core.NewVec3(size, 0, 0)
	v := core.NewVec3(0, 0, size)
	return geometry.NewQuadTriangles(corner, u, v, mat)
}

// Add appends primitives to the scene. The BVH must be rebuilt with
// Preprocess afterwards.
func (s *Scene) Add(prims ...geometry.Primitive) {
	s.Primitives = append(s.Primitives, prims...)
}

// AddLightBulb adds an emissive sphere at the light position so the light
// is visible. The bulb never shadows the light.
func (s *Scene) AddLightBulb(radius float64) {
	s.Add(geometry.NewSpherePrimitive(s.Light.Position, radius, s.Light.BulbMaterial()))
}

// Preprocess validates the configuration and builds the BVH
func (s *Scene) Preprocess() error {
	if err := s.Config.Validate(); err != nil {
		return fmt.Errorf("scene %q: %w", s.Name, err)
	}

	s.BVH = geometry.BuildBVH(s.Primitives)

	if !log.IsEnabled(log.Info, "scene") {
		return nil
	}
	stats := s.BVH.Stats()
	logger.Infof("scene %q: %d primitives, %d BVH nodes, depth %d", s.Name, stats.Primitives, stats.Nodes, stats.MaxDepth)
	return nil
}

// NewCamera creates a camera at the configured placement
func (s *Scene) NewCamera() *renderer.Camera {
	return renderer.NewCamera(s.CameraConfig.Position, s.CameraConfig.Yaw, s.CameraConfig.Pitch)
}

// NewIntegrator creates a Whitted integrator over the scene. Preprocess
// must have been called first.
func (s *Scene) NewIntegrator() *integrator.WhittedIntegrator {
	return integrator.NewWhittedIntegrator(s.Primitives, s.BVH, s.Light, s.Config.Integrator)
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Primitives)
}
