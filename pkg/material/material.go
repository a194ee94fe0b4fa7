package material

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// CheckerScale is the number of checker tiles per scene unit
const CheckerScale = 1.0

// CheckerDark replaces the albedo on odd checker tiles
var CheckerDark = core.NewVec3(0.1, 0.1, 0.1)

// Material describes how a surface reflects and emits light.
// It is a plain value and is copied into every hit record.
type Material struct {
	Albedo    core.Vec3 // Base diffuse color
	Emission  core.Vec3 // Emitted radiance, zero for non-emitters
	Specular  float64   // Base reflectance at normal incidence, in [0,1]
	Shininess float64   // Blinn-Phong exponent
	Checkered bool      // Overrides Albedo with a checkerboard on the XZ plane
}

// NewDiffuse creates a fully diffuse material
func NewDiffuse(albedo core.Vec3) Material {
	return Material{Albedo: albedo}
}

// NewSpecular creates a material with a reflective coating
func NewSpecular(albedo core.Vec3, specular, shininess float64) Material {
	return Material{
		Albedo:    albedo,
		Specular:  clamp01(specular),
		Shininess: math.Max(0, shininess),
	}
}

// NewEmissive creates a light-emitting material with no diffuse response
func NewEmissive(emission core.Vec3) Material {
	return Material{Emission: emission}
}

// NewChecker creates a checkerboard floor material
func NewChecker(albedo core.Vec3, specular, shininess float64) Material {
	m := NewSpecular(albedo, specular, shininess)
	m.Checkered = true
	return m
}

// AlbedoAt returns the albedo at a surface point, applying the checkerboard
// pattern when enabled. Tiles with odd (ix+iz) parity are dark.
func (m Material) AlbedoAt(point core.Vec3) core.Vec3 {
	if !m.Checkered {
		return m.Albedo
	}
	ix := int(math.Floor(point.X * CheckerScale))
	iz := int(math.Floor(point.Z * CheckerScale))
	if (ix+iz)%2 != 0 {
		return CheckerDark
	}
	return m.Albedo
}

// IsEmissive reports whether the material emits light
func (m Material) IsEmissive() bool {
	return !m.Emission.IsZero()
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
