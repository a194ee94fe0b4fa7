package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// SphereGridSize is the number of spheres along each side of the grid
const SphereGridSize = 10

// oklchToRGB converts OKLCH color values to RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Vec3 {
	hRad := h * math.Pi / 180.0

	// OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// LMS to linear RGB
	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	r = math.Max(0, math.Min(1, r))
	g = math.Max(0, math.Min(1, g))
	blue = math.Max(0, math.Min(1, blue))

	return core.NewVec3(r, g, blue)
}

// NewSphereGridScene creates a scene with a grid of colored spheres on a
// checkered floor, with reflectivity varying along Z
func NewSphereGridScene() *Scene {
	s := &Scene{
		Name:  "spheregrid",
		Light: lights.NewPointLight(core.NewVec3(4.5, 10, 12), core.NewVec3(1, 0.95, 0.9), 150),
		CameraConfig: CameraConfig{
			Position: core.NewVec3(4.5, 6, 16),
			Yaw:      -90,
			Pitch:    -25,
		},
		Config: DefaultRenderConfig(),
	}

	s.AddLightBulb(BulbRadius)
	s.Add(NewGroundTriangles(core.NewVec3(4.5, 0, 4.5), 40, material.NewChecker(core.NewVec3(0.8, 0.8, 0.8), 0.3, 32))...)

	targetArea := 9.0
	spacing := targetArea / float64(SphereGridSize-1)
	sphereRadius := spacing * 0.35

	baseLightness := 0.65
	minChroma := 0.05
	maxChroma := 0.25

	for i := 0; i < SphereGridSize; i++ {
		for j := 0; j < SphereGridSize; j++ {
			// Grid centered around (4.5, 4.5)
			x := float64(i)*spacing - targetArea/2.0 + 4.5
			z := float64(j)*spacing - targetArea/2.0 + 4.5
			position := core.NewVec3(x, sphereRadius, z)

			// Hue across X, chroma across Z
			t := float64(j) / float64(SphereGridSize-1)
			hue := (float64(i) / float64(SphereGridSize-1)) * 360.0
			chroma := minChroma + t*(maxChroma-minChroma)
			lightness := baseLightness + 0.1*math.Sin(float64(i+j)*0.5)

			color := oklchToRGB(lightness, chroma, hue)
			mat := material.NewSpecular(color, 0.05+0.75*t, 16+float64((i+j)%3)*24)

			s.Add(geometry.NewSpherePrimitive(position, sphereRadius, mat))
		}
	}

	return s
}
