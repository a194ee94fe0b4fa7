package geometry

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Epsilon is the minimum accepted hit distance for spheres and the offset
// applied along the normal when spawning shadow and reflection rays.
// Both must stay in sync to avoid self-intersection.
const Epsilon = 1e-3

// HitRecord contains information about a ray-primitive intersection
type HitRecord struct {
	T        float64           // Parameter t along the ray
	Point    core.Vec3         // Point of intersection
	Normal   core.Vec3         // Unit surface normal
	Material material.Material // Copy of the primitive's material
}

// Kind identifies the shape stored in a Primitive
type Kind uint8

const (
	KindSphere Kind = iota
	KindTriangle
)

func (k Kind) String() string {
	switch k {
	case KindSphere:
		return "sphere"
	case KindTriangle:
		return "triangle"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Primitive is a closed variant over the supported shapes. Only the field
// selected by Kind is meaningful.
type Primitive struct {
	Kind     Kind
	Sphere   Sphere
	Triangle Triangle
}

// NewSpherePrimitive wraps a sphere
func NewSpherePrimitive(center core.Vec3, radius float64, mat material.Material) Primitive {
	return Primitive{Kind: KindSphere, Sphere: NewSphere(center, radius, mat)}
}

// NewTrianglePrimitive wraps a triangle
func NewTrianglePrimitive(v0, v1, v2 core.Vec3, mat material.Material) Primitive {
	return Primitive{Kind: KindTriangle, Triangle: NewTriangle(v0, v1, v2, mat)}
}

// BoundingBox returns the primitive's axis-aligned bounds
func (p *Primitive) BoundingBox() core.AABB {
	switch p.Kind {
	case KindSphere:
		return p.Sphere.BoundingBox()
	case KindTriangle:
		return p.Triangle.BoundingBox()
	default:
		panic(fmt.Sprintf("geometry: unknown primitive %v", p.Kind))
	}
}

// Intersect returns the hit distance, unit normal and material of the
// nearest valid intersection, or ok=false
func (p *Primitive) Intersect(ray core.Ray) (t float64, normal core.Vec3, mat material.Material, ok bool) {
	switch p.Kind {
	case KindSphere:
		t, normal, ok = p.Sphere.Intersect(ray)
		mat = p.Sphere.Material
	case KindTriangle:
		t, normal, ok = p.Triangle.Intersect(ray)
		mat = p.Triangle.Material
	default:
		panic(fmt.Sprintf("geometry: unknown primitive %v", p.Kind))
	}
	return t, normal, mat, ok
}

// Material returns the primitive's material
func (p *Primitive) Material() material.Material {
	if p.Kind == KindSphere {
		return p.Sphere.Material
	}
	return p.Triangle.Material
}

// IntersectBruteForce tests every primitive and returns the nearest hit.
// It is the reference the BVH query must agree with.
func IntersectBruteForce(ray core.Ray, prims []Primitive) (HitRecord, bool) {
	closest := core.NoHit
	var hit HitRecord
	found := false

	for i := range prims {
		t, normal, mat, ok := prims[i].Intersect(ray)
		if ok && t < closest {
			closest = t
			hit = HitRecord{T: t, Point: ray.At(t), Normal: normal, Material: mat}
			found = true
		}
	}
	return hit, found
}
