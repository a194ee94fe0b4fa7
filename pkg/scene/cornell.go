package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// CornellBoxSize is the edge length of the Cornell box
const CornellBoxSize = 555.0

// NewCornellScene creates a classic Cornell box with triangle walls, lit by
// a point light below the ceiling
func NewCornellScene() *Scene {
	config := DefaultRenderConfig()
	config.Width = 800
	config.Height = 800
	config.Integrator.Background = core.Vec3{} // Black background

	s := &Scene{
		Name:  "cornell",
		Light: lights.NewPointLight(core.NewVec3(278, 500, 278), core.NewVec3(1, 0.95, 0.85), 2.5e5),
		CameraConfig: CameraConfig{
			Position: core.NewVec3(278, 278, -280), // Outside the open front, looking in
			Yaw:      90,
			Pitch:    0,
		},
		Config: config,
	}

	white := material.NewDiffuse(core.NewVec3(0.73, 0.73, 0.73))
	red := material.NewDiffuse(core.NewVec3(0.65, 0.05, 0.05))
	green := material.NewDiffuse(core.NewVec3(0.12, 0.45, 0.15))

	boxSize := CornellBoxSize
	x := core.NewVec3(boxSize, 0, 0)
	y := core.NewVec3(0, boxSize, 0)
	z := core.NewVec3(0, 0, boxSize)

	s.Add(geometry.NewQuadTriangles(core.NewVec3(0, 0, 0), x, z, white)...)       // Floor
	s.Add(geometry.NewQuadTriangles(core.NewVec3(0, boxSize, 0), x, z, white)...) // Ceiling
	s.Add(geometry.NewQuadTriangles(core.NewVec3(0, 0, boxSize), x, y, white)...) // Back wall
	s.Add(geometry.NewQuadTriangles(core.NewVec3(0, 0, 0), z, y, red)...)         // Left wall
	s.Add(geometry.NewQuadTriangles(core.NewVec3(boxSize, 0, 0), y, z, green)...) // Right wall

	s.AddLightBulb(10)

	// Left sphere (mirror), right sphere (glossy white)
	s.Add(
		geometry.NewSpherePrimitive(core.NewVec3(185, 82.5, 169), 82.5, material.NewSpecular(core.NewVec3(0.8, 0.8, 0.9), 0.95, 128)),
		geometry.NewSpherePrimitive(core.NewVec3(370, 90, 351), 90, material.NewSpecular(core.NewVec3(0.9, 0.9, 0.9), 0.2, 32)),
	)

	return s
}
