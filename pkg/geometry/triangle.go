package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// triangleEpsilon rejects near-parallel rays and hits at the ray origin
const triangleEpsilon = 1e-6

// Triangle represents a single triangle defined by three vertices
type Triangle struct {
	V0, V1, V2 core.Vec3         // The three vertices
	Material   material.Material // Material of the triangle
	normal     core.Vec3         // Cached geometric normal (e1 x e2, normalized)
}

// NewTriangle creates a new triangle from three vertices
func NewTriangle(v0, v1, v2 core.Vec3, mat material.Material) Triangle {
	t := Triangle{
		V0:       v0,
		V1:       v1,
		V2:       v2,
		Material: mat,
	}
	t.computeNormal()
	return t
}

// computeNormal calculates and caches the triangle's normal vector
func (t *Triangle) computeNormal() {
	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)
	t.normal = edge1.Cross(edge2).Normalize()
}

// Intersect tests if a ray intersects with the triangle using the Möller-Trumbore algorithm.
// The returned normal always faces against the ray direction.
func (t *Triangle) Intersect(ray core.Ray) (float64, core.Vec3, bool) {
	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)

	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)

	// Determinant near zero: ray lies in (or parallel to) the triangle's plane
	if !(math.Abs(a) >= triangleEpsilon) {
		return 0, core.Vec3{}, false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(t.V0)
	u := f * s.Dot(h)
	if !(u >= 0 && u <= 1) {
		return 0, core.Vec3{}, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if !(v >= 0 && u+v <= 1) {
		return 0, core.Vec3{}, false
	}

	dist := f * edge2.Dot(q)
	if !(dist > triangleEpsilon) {
		return 0, core.Vec3{}, false
	}

	normal := t.Normal()
	if normal.Dot(ray.Direction) > 0 {
		normal = normal.Negate()
	}
	return dist, normal, true
}

// Normal returns the geometric normal, computing it for triangles built
// without NewTriangle
func (t *Triangle) Normal() core.Vec3 {
	if t.normal.IsZero() {
		edge1 := t.V1.Subtract(t.V0)
		edge2 := t.V2.Subtract(t.V0)
		return edge1.Cross(edge2).Normalize()
	}
	return t.normal
}

// BoundingBox returns the axis-aligned bounding box for this triangle
func (t *Triangle) BoundingBox() core.AABB {
	return core.NewAABBFromPoints(t.V0, t.V1, t.V2)
}
