package integrator

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// PathStats counts the work done while shading one primary ray
type PathStats struct {
	Bounces    int // Surfaces hit along the path
	ShadowRays int // Shadow rays cast toward the light
}

// Add accumulates other into s
func (s *PathStats) Add(other PathStats) {
	s.Bounces += other.Bounces
	s.ShadowRays += other.ShadowRays
}

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor computes the radiance carried back along ray.
	// Implementations must be safe for concurrent use and deterministic.
	RayColor(ray core.Ray) (core.Vec3, PathStats)
}
