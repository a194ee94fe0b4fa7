package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material material.Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, mat material.Material) Sphere {
	return Sphere{
		Center:   center,
		Radius:   radius,
		Material: mat,
	}
}

// Intersect tests if a ray intersects with the sphere and returns the nearest
// root at or beyond Epsilon together with the outward unit normal
func (s *Sphere) Intersect(ray core.Ray) (float64, core.Vec3, bool) {
	// Vector from sphere center to ray origin
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + bt + c = 0
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c

	// Written as a negated comparison so a NaN discriminant also misses
	if !(discriminant >= 0) || a == 0 {
		return 0, core.Vec3{}, false
	}

	sqrtD := math.Sqrt(discriminant)

	// Try the closer root first, then the farther one for origins inside the sphere
	root := (-halfB - sqrtD) / a
	if !(root >= Epsilon) {
		root = (-halfB + sqrtD) / a
		if !(root >= Epsilon) {
			return 0, core.Vec3{}, false
		}
	}

	point := ray.At(root)
	normal := point.Subtract(s.Center).Normalize()
	return root, normal, true
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s *Sphere) BoundingBox() core.AABB {
	r := math.Abs(s.Radius)
	radius := core.NewVec3(r, r, r)
	return core.NewAABB(
		s.Center.Subtract(radius),
		s.Center.Add(radius),
	)
}
