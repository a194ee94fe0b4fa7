package lights

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// PointLight is the single light source of a scene
type PointLight struct {
	Position  core.Vec3
	Color     core.Vec3
	Intensity float64
}

// LightSample describes the light as seen from a shading point
type LightSample struct {
	Direction       core.Vec3 // Unit direction from shading point to light
	Distance        float64   // Distance to light
	DistanceSquared float64
	Incoming        core.Vec3 // Color * Intensity / distance², before the cosine term
}

// NewPointLight creates a point light
func NewPointLight(position, color core.Vec3, intensity float64) PointLight {
	return PointLight{Position: position, Color: color, Intensity: intensity}
}

// Radiance returns the unattenuated emitted color
func (l PointLight) Radiance() core.Vec3 {
	return l.Color.Multiply(l.Intensity)
}

// Sample evaluates the inverse-square falloff toward point
func (l PointLight) Sample(point core.Vec3) LightSample {
	toLight := l.Position.Subtract(point)
	distSq := toLight.LengthSquared()
	if distSq == 0 {
		return LightSample{}
	}
	dist := toLight.Length()
	return LightSample{
		Direction:       toLight.Multiply(1 / dist),
		Distance:        dist,
		DistanceSquared: distSq,
		Incoming:        l.Radiance().Multiply(1 / distSq),
	}
}

// BulbMaterial returns the emissive material used to make the light visible
// as a small sphere at its position
func (l PointLight) BulbMaterial() material.Material {
	return material.NewEmissive(l.Radiance())
}
