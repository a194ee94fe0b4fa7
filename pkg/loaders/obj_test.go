package loaders

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

const cubeOBJ = `# unit cube
o cube
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
v 0 0 1
v 1 0 1
v 1 1 1
v 0 1 1
vn 0 0 -1
vt 0 0
usemtl white
f 1 2 3 4
f 5/1 8/1 7/1 6/1
f 1//1 5//1 6//1 2//1
f 4/1/1 3/1/1 7/1/1 8/1/1
f -8 -4 -1 -5
f 2 6 7 3
`

func TestReadOBJ_Cube(t *testing.T) {
	data, err := ReadOBJ(strings.NewReader(cubeOBJ))
	if err != nil {
		t.Fatalf("ReadOBJ failed: %v", err)
	}

	if len(data.Vertices) != 8 {
		t.Errorf("Expected 8 vertices, got %d", len(data.Vertices))
	}
	// Six quads fan into twelve triangles
	if data.TriangleCount() != 12 {
		t.Errorf("Expected 12 triangles, got %d", data.TriangleCount())
	}

	// First quad: 1 2 3 4 -> (0,1,2) (0,2,3)
	if !slices.Equal(data.Faces[:6], []int{0, 1, 2, 0, 2, 3}) {
		t.Errorf("Unexpected fan triangulation %v", data.Faces[:6])
	}
	// Negative indices: -8 -4 -1 -5 with 8 vertices -> 0 4 7 3
	if !slices.Equal(data.Faces[24:30], []int{0, 4, 7, 0, 7, 3}) {
		t.Errorf("Unexpected negative index resolution %v", data.Faces[24:30])
	}
}

func TestReadOBJ_NegativeIndexUsesVerticesReadSoFar(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf -3 -2 -1\nv 5 5 5\nf -4 -3 -2\n"
	data, err := ReadOBJ(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadOBJ failed: %v", err)
	}
	if !slices.Equal(data.Faces, []int{0, 1, 2, 0, 1, 2}) {
		t.Errorf("Expected both faces to reference the first three vertices, got %v", data.Faces)
	}
}

func TestReadOBJ_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantLine int
	}{
		{"short vertex", "v 1 2\n", 1},
		{"bad coordinate", "v 0 0 0\nv 1 x 0\n", 2},
		{"face with two vertices", "v 0 0 0\nv 1 0 0\nf 1 2\n", 3},
		{"index out of range", "v 0 0 0\nv 1 0 0\nv 0 1 0\n\nf 1 2 4\n", 5},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n", 4},
		{"missing vertex index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf /1 2 3\n", 4},
		{"non-numeric index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf a 2 3\n", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadOBJ(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("Expected error")
			}
			if !strings.Contains(err.Error(), "line "+strconv.Itoa(tt.wantLine)+":") {
				t.Errorf("Expected error on line %d, got %v", tt.wantLine, err)
			}
		})
	}
}

func TestReadOBJ_WrapsParseErrors(t *testing.T) {
	_, err := ReadOBJ(strings.NewReader("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 x\n"))
	var numErr *strconv.NumError
	if !errors.As(err, &numErr) {
		t.Errorf("Expected wrapped *strconv.NumError, got %v", err)
	}
}

func TestParseOBJ_TransformsVertices(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"
	mat := material.NewDiffuse(core.NewVec3(0.2, 0.4, 0.6))

	prims, err := ParseOBJ(strings.NewReader(src), core.NewVec3(10, 0, -1), 2, mat)
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	if len(prims) != 1 {
		t.Fatalf("Expected 1 triangle, got %d", len(prims))
	}

	tri := prims[0].Triangle
	// Scale applies before translation
	if tri.V0 != core.NewVec3(10, 0, -1) || tri.V1 != core.NewVec3(12, 0, -1) || tri.V2 != core.NewVec3(10, 2, -1) {
		t.Errorf("Unexpected vertices %v %v %v", tri.V0, tri.V1, tri.V2)
	}
	if prims[0].Kind != geometry.KindTriangle || prims[0].Material() != mat {
		t.Errorf("Expected triangle primitive with the given material")
	}
}

func TestLoadOBJ(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cube.obj")
	if err := os.WriteFile(path, []byte(cubeOBJ), 0o644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	prims, err := LoadOBJ(path, core.Vec3{}, 1, material.Material{})
	if err != nil {
		t.Fatalf("LoadOBJ failed: %v", err)
	}
	if len(prims) != 12 {
		t.Errorf("Expected 12 triangles, got %d", len(prims))
	}

	// A ray through the cube hits its near face
	ray := core.NewRay(core.NewVec3(0.5, 0.5, -1), core.NewVec3(0, 0, 1))
	hit, ok := geometry.IntersectBruteForce(ray, prims)
	if !ok || hit.T < 0.999 || hit.T > 1.001 {
		t.Errorf("Expected hit at t=1, got (%v, %f)", ok, hit.T)
	}
}

func TestLoadOBJ_NonExistentFile(t *testing.T) {
	_, err := LoadOBJ("nonexistent.obj", core.Vec3{}, 1, material.Material{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected os.ErrNotExist, got %v", err)
	}
}
