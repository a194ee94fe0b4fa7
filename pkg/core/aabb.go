package core

import "math"

// NoHit is the distance returned by AABB.Intersect when the ray misses the box.
// It compares greater than every finite hit distance, so traversal can use it
// directly as a pruning threshold.
const NoHit = math.MaxFloat64

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// EmptyAABB returns the identity box for Union: min=+Inf, max=-Inf on every axis
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: Vec3{inf, inf, inf},
		Max: Vec3{-inf, -inf, -inf},
	}
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...Vec3) AABB {
	box := EmptyAABB()
	for _, point := range points {
		box = box.Grow(point)
	}
	return box
}

// Union returns an AABB that bounds both this AABB and another
func (aabb AABB) Union(other AABB) AABB {
	return AABB{
		Min: aabb.Min.Min(other.Min),
		Max: aabb.Max.Max(other.Max),
	}
}

// Grow returns the box extended to cover point
func (aabb AABB) Grow(point Vec3) AABB {
	return AABB{
		Min: aabb.Min.Min(point),
		Max: aabb.Max.Max(point),
	}
}

// Intersect runs the slab test against ray and returns the entry distance,
// or NoHit. The entry distance is negative when the ray starts inside the box.
func (aabb AABB) Intersect(ray Ray) float64 {
	// Inverted infinite slabs of the empty box would otherwise span every t
	if aabb.IsEmpty() {
		return NoHit
	}

	tMin, tMax := slab(aabb.Min.X, aabb.Max.X, ray.Origin.X, ray.InvDirection.X)

	lo, hi := slab(aabb.Min.Y, aabb.Max.Y, ray.Origin.Y, ray.InvDirection.Y)
	tMin = math.Max(tMin, lo)
	tMax = math.Min(tMax, hi)

	lo, hi = slab(aabb.Min.Z, aabb.Max.Z, ray.Origin.Z, ray.InvDirection.Z)
	tMin = math.Max(tMin, lo)
	tMax = math.Min(tMax, hi)

	// NaN on either bound fails the comparison and reads as a miss
	if tMax >= math.Max(tMin, 0) {
		return tMin
	}
	return NoHit
}

// slab returns the parameter interval in which the ray lies between two
// planes of one axis. A ray parallel to the planes is inside for every t when
// its origin is within [min, max], including on a plane, and never otherwise.
// NaN input propagates to the interval.
func slab(min, max, origin, invDir float64) (float64, float64) {
	if math.IsInf(invDir, 0) {
		if origin >= min && origin <= max {
			return math.Inf(-1), math.Inf(1)
		}
		if math.IsNaN(origin) {
			return math.NaN(), math.NaN()
		}
		return math.Inf(1), math.Inf(-1)
	}
	t1 := (min - origin) * invDir
	t2 := (max - origin) * invDir
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	return t1, t2
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec3 {
	return aabb.Min.Add(aabb.Max).Multiply(0.5)
}

// Size returns the size (extent) of the AABB along each axis
func (aabb AABB) Size() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

// SurfaceArea returns the surface area of the AABB
func (aabb AABB) SurfaceArea() float64 {
	if aabb.IsEmpty() {
		return 0
	}
	size := aabb.Size()
	return 2.0 * (size.X*size.Y + size.Y*size.Z + size.Z*size.X)
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the longest extent
func (aabb AABB) LongestAxis() int {
	size := aabb.Size()
	if size.X > size.Y && size.X > size.Z {
		return 0 // X axis
	}
	if size.Y > size.Z {
		return 1 // Y axis
	}
	return 2 // Z axis
}

// IsEmpty returns true if min > max on any axis
func (aabb AABB) IsEmpty() bool {
	return aabb.Min.X > aabb.Max.X ||
		aabb.Min.Y > aabb.Max.Y ||
		aabb.Min.Z > aabb.Max.Z
}
