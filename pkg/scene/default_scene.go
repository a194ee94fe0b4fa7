package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// NewDefaultScene creates the classic Whitted scene: a mirror sphere and a
// red matte sphere on a checkered floor, lit by a purple point light
func NewDefaultScene() *Scene {
	s := &Scene{
		Name:  "default",
		Light: lights.NewPointLight(core.NewVec3(2, 5, 3), core.NewVec3(0.4823, 0.1686, 0.552), 80),
		CameraConfig: CameraConfig{
			Position: core.NewVec3(0, 2, 5),
			Yaw:      -90,
			Pitch:    -20,
		},
		Config: DefaultRenderConfig(),
	}

	// Create materials
	mirror := material.NewSpecular(core.NewVec3(1, 1, 1), 0.9, 64)
	redMatte := material.NewSpecular(core.NewVec3(0.9, 0.1, 0.1), 0.1, 8)
	checker := material.NewChecker(core.NewVec3(0.9, 0.9, 0.9), 0.5, 32)

	s.AddLightBulb(BulbRadius)
	s.Add(
		geometry.NewSpherePrimitive(core.NewVec3(0, 1, 0), 1, mirror),
		geometry.NewSpherePrimitive(core.NewVec3(-2, 0.5, -1), 0.5, redMatte),
	)

	// Floor: two triangles sharing the (-20,0,-20)-(20,0,20) diagonal
	s.Add(
		geometry.NewTrianglePrimitive(core.NewVec3(-20, 0, -20), core.NewVec3(-20, 0, 20), core.NewVec3(20, 0, 20), checker),
		geometry.NewTrianglePrimitive(core.NewVec3(-20, 0, -20), core.NewVec3(20, 0, 20), core.NewVec3(20, 0, -20), checker),
	)

	return s
}
