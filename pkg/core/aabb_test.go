package core

import (
	"math"
	"testing"
)

func TestAABB_UnionWithEmptyIsIdentity(t *testing.T) {
	boxes := []AABB{
		NewAABB(NewVec3(0, 0, 0), NewVec3(1, 1, 1)),
		NewAABB(NewVec3(-5, 2, -3), NewVec3(-1, 7, 0.5)),
		NewAABB(NewVec3(2, 2, 2), NewVec3(2, 2, 2)), // degenerate point box
		EmptyAABB(),
	}

	for _, box := range boxes {
		if got := box.Union(EmptyAABB()); got != box {
			t.Errorf("Expected %v union empty to be unchanged, got %v", box, got)
		}
		if got := EmptyAABB().Union(box); got != box {
			t.Errorf("Expected empty union %v to be %v, got %v", box, box, got)
		}
	}
}

func TestAABB_Grow(t *testing.T) {
	box := EmptyAABB().Grow(NewVec3(1, 2, 3)).Grow(NewVec3(-1, 5, 0))

	expected := NewAABB(NewVec3(-1, 2, 0), NewVec3(1, 5, 3))
	if box != expected {
		t.Errorf("Expected %v, got %v", expected, box)
	}

	if NewAABBFromPoints(NewVec3(1, 2, 3), NewVec3(-1, 5, 0)) != expected {
		t.Error("Expected NewAABBFromPoints to match successive Grow calls")
	}
}

func TestAABB_Intersect(t *testing.T) {
	box := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))

	tests := []struct {
		name      string
		ray       Ray
		shouldHit bool
		expectedT float64
	}{
		{
			name:      "Hit from outside",
			ray:       NewRay(NewVec3(-5, 0, 0), NewVec3(1, 0, 0)),
			shouldHit: true,
			expectedT: 4,
		},
		{
			name:      "Origin inside returns negative entry",
			ray:       NewRay(NewVec3(0, 0, 0), NewVec3(0, 1, 0)),
			shouldHit: true,
			expectedT: -1,
		},
		{
			name:      "Box behind ray",
			ray:       NewRay(NewVec3(5, 0, 0), NewVec3(1, 0, 0)),
			shouldHit: false,
		},
		{
			name:      "Parallel ray outside slab",
			ray:       NewRay(NewVec3(-5, 2, 0), NewVec3(1, 0, 0)),
			shouldHit: false,
		},
		{
			name:      "Parallel ray inside slab",
			ray:       NewRay(NewVec3(-5, 0.5, 0.5), NewVec3(1, 0, 0)),
			shouldHit: true,
			expectedT: 4,
		},
		{
			name:      "Diagonal miss",
			ray:       NewRay(NewVec3(-5, 3, 0), NewVec3(1, 0.01, 0)),
			shouldHit: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dist := box.Intersect(tt.ray)
			if !tt.shouldHit {
				if dist != NoHit {
					t.Errorf("Expected NoHit, got %f", dist)
				}
				return
			}
			if math.Abs(dist-tt.expectedT) > 1e-9 {
				t.Errorf("Expected entry distance %f, got %f", tt.expectedT, dist)
			}
		})
	}
}

func TestAABB_IntersectOriginOnSlabPlane(t *testing.T) {
	// Parallel axes give 0 * Inf in a naive slab test; an origin on a face
	// plane must count as inside that slab
	box := NewAABB(NewVec3(0, 0, 0), NewVec3(1, 1, 1))

	tests := []struct {
		name     string
		ray      Ray
		expected float64
	}{
		{"origin on x face, moving down", NewRay(NewVec3(0, 5, 0.5), NewVec3(0, -1, 0)), 4},
		{"grazing along x=0 face", NewRay(NewVec3(0, 0.5, -5), NewVec3(0, 0, 1)), 5},
		{"grazing along edge", NewRay(NewVec3(1, 1, -2), NewVec3(0, 0, 1)), 2},
		{"grazing along max face", NewRay(NewVec3(-3, 1, 0.5), NewVec3(1, 0, 0)), 3},
		{"parallel just outside", NewRay(NewVec3(-1e-9, 0.5, -5), NewVec3(0, 0, 1)), NoHit},
		{"parallel beyond max", NewRay(NewVec3(0.5, 1+1e-9, -5), NewVec3(0, 0, 1)), NoHit},
		{"negative zero direction", NewRay(NewVec3(0, 0.5, 3), NewVec3(math.Copysign(0, -1), 0, -1)), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dist := box.Intersect(tt.ray)
			if math.IsNaN(dist) {
				t.Fatal("Expected a numeric result, got NaN")
			}
			if tt.expected == NoHit {
				if dist != NoHit {
					t.Errorf("Expected miss, got %f", dist)
				}
				return
			}
			if math.Abs(dist-tt.expected) > 1e-12 {
				t.Errorf("Expected hit at %f, got %f", tt.expected, dist)
			}
		})
	}
}

func TestAABB_IntersectNaNRayMisses(t *testing.T) {
	box := NewAABB(NewVec3(0, 0, 0), NewVec3(1, 1, 1))
	rays := []Ray{
		NewRay(NewVec3(math.NaN(), 0.5, -5), NewVec3(0, 0, 1)),
		NewRay(NewVec3(0.5, 0.5, -5), NewVec3(math.NaN(), 0, 1)),
	}
	for _, ray := range rays {
		if dist := box.Intersect(ray); dist != NoHit {
			t.Errorf("Expected NaN ray %v to miss, got %f", ray, dist)
		}
	}
}

func TestAABB_EmptyBoxNeverHit(t *testing.T) {
	ray := NewRay(NewVec3(0, 0, -5), NewVec3(0.1, 0.2, 1))
	if dist := EmptyAABB().Intersect(ray); dist != NoHit {
		t.Errorf("Expected empty box to miss, got %f", dist)
	}
}

func TestAABB_DegenerateBox(t *testing.T) {
	// Flat box in the y=0 plane, like the bounds of a floor triangle
	box := NewAABB(NewVec3(-1, 0, -1), NewVec3(1, 0, 1))
	ray := NewRay(NewVec3(0, 3, 0), NewVec3(0, -1, 0))

	if dist := box.Intersect(ray); math.Abs(dist-3) > 1e-9 {
		t.Errorf("Expected flat box hit at 3, got %f", dist)
	}
}

func TestAABB_LongestAxis(t *testing.T) {
	tests := []struct {
		box  AABB
		axis int
	}{
		{NewAABB(NewVec3(0, 0, 0), NewVec3(3, 1, 1)), 0},
		{NewAABB(NewVec3(0, 0, 0), NewVec3(1, 3, 1)), 1},
		{NewAABB(NewVec3(0, 0, 0), NewVec3(1, 1, 3)), 2},
		{NewAABB(NewVec3(0, 0, 0), NewVec3(1, 1, 1)), 2}, // ties fall through to Z
	}

	for _, tt := range tests {
		if got := tt.box.LongestAxis(); got != tt.axis {
			t.Errorf("Expected axis %d for %v, got %d", tt.axis, tt.box, got)
		}
	}
}
