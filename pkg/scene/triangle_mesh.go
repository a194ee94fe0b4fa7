package scene

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// MeshOptions selects the mesh shown by the mesh scene
type MeshOptions struct {
	Path        string    // OBJ file; empty selects the built-in meshes
	Translation core.Vec3 // Applied after Scale
	Scale       float64   // Zero means 1
}

// NewTriangleMeshScene creates a scene showcasing triangle mesh geometry on a
// checkered floor. With an OBJ path the loaded mesh replaces the built-in
// box, pyramid and icosahedron.
func NewTriangleMeshScene(opts MeshOptions) (*Scene, error) {
	s := &Scene{
		Name:  "mesh",
		Light: lights.NewPointLight(core.NewVec3(2, 6, 3), core.NewVec3(1, 0.95, 0.9), 60),
		CameraConfig: CameraConfig{
			Position: core.NewVec3(0, 2.5, 6),
			Yaw:      -90,
			Pitch:    -15,
		},
		Config: DefaultRenderConfig(),
	}

	s.AddLightBulb(BulbRadius)
	s.Add(NewGroundTriangles(core.NewVec3(0, 0, 0), 40, material.NewChecker(core.NewVec3(0.9, 0.9, 0.9), 0.4, 32))...)

	if opts.Path == "" {
		addBasicTriangleMeshGeometry(s)
		return s, nil
	}

	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}
	mat := material.NewSpecular(core.NewVec3(0.8, 0.6, 0.2), 0.3, 48)
	prims, err := loaders.LoadOBJ(opts.Path, opts.Translation, scale, mat)
	if err != nil {
		return nil, fmt.Errorf("failed to load mesh scene: %w", err)
	}
	logger.Infof("loaded %d triangles from %s", len(prims), opts.Path)
	s.Add(prims...)

	return s, nil
}

// addBasicTriangleMeshGeometry adds simple triangle mesh objects
func addBasicTriangleMeshGeometry(s *Scene) {
	redGloss := material.NewSpecular(core.NewVec3(0.8, 0.2, 0.2), 0.3, 32)
	blueMatte := material.NewDiffuse(core.NewVec3(0.2, 0.3, 0.8))
	goldMirror := material.NewSpecular(core.NewVec3(0.8, 0.6, 0.2), 0.8, 96)

	// Box rotated 30° around Y to show multiple faces
	s.Add(createBoxMesh(
		core.NewVec3(-2, 0.5, 0),
		core.NewVec3(1, 1, 1),
		core.NewVec3(0, math.Pi/6, 0),
		redGloss,
	)...)

	s.Add(createPyramidMesh(
		core.NewVec3(0, 1, 0),
		1.5,
		2.0,
		core.NewVec3(0, math.Pi/4, 0),
		blueMatte,
	)...)

	s.Add(createIcosahedronMesh(
		core.NewVec3(2, 0.8, 0),
		0.8,
		core.NewVec3(0, math.Pi/3, 0),
		goldMirror,
	)...)
}

// newRotatedMesh builds mesh triangles rotated about center
func newRotatedMesh(vertices []core.Vec3, faces []int, center, rotation core.Vec3, mat material.Material) []geometry.Primitive {
	if rotation.IsZero() {
		return geometry.NewTriangleMesh(vertices, faces, mat, nil)
	}
	return geometry.NewTriangleMesh(vertices, faces, mat, &geometry.TriangleMeshOptions{
		Rotation: &rotation,
		Center:   &center,
	})
}

// createBoxMesh creates the 12 triangles of a box
func createBoxMesh(center, size core.Vec3, rotation core.Vec3, mat material.Material) []geometry.Primitive {
	halfSize := size.Multiply(0.5)
	vertices := []core.Vec3{
		center.Add(core.NewVec3(-halfSize.X, -halfSize.Y, -halfSize.Z)), // 0: left-bottom-back
		center.Add(core.NewVec3(+halfSize.X, -halfSize.Y, -halfSize.Z)), // 1: right-bottom-back
		center.Add(core.NewVec3(+halfSize.X, +halfSize.Y, -halfSize.Z)), // 2: right-top-back
		center.Add(core.NewVec3(-halfSize.X, +halfSize.Y, -halfSize.Z)), // 3: left-top-back
		center.Add(core.NewVec3(-halfSize.X, -halfSize.Y, +halfSize.Z)), // 4: left-bottom-front
		center.Add(core.NewVec3(+halfSize.X, -halfSize.Y, +halfSize.Z)), // 5: right-bottom-front
		center.Add(core.NewVec3(+halfSize.X, +halfSize.Y, +halfSize.Z)), // 6: right-top-front
		center.Add(core.NewVec3(-halfSize.X, +halfSize.Y, +halfSize.Z)), // 7: left-top-front
	}

	faces := []int{
		0, 1, 2, 0, 2, 3, // back
		4, 6, 5, 4, 7, 6, // front
		0, 3, 7, 0, 7, 4, // left
		1, 5, 6, 1, 6, 2, // right
		0, 4, 5, 0, 5, 1, // bottom
		3, 2, 6, 3, 6, 7, // top
	}

	return newRotatedMesh(vertices, faces, center, rotation, mat)
}

// createPyramidMesh creates a square-based pyramid
func createPyramidMesh(center core.Vec3, baseSize, height float64, rotation core.Vec3, mat material.Material) []geometry.Primitive {
	halfBase := baseSize * 0.5
	halfHeight := height * 0.5

	vertices := []core.Vec3{
		center.Add(core.NewVec3(-halfBase, -halfHeight, -halfBase)), // 0: left-back
		center.Add(core.NewVec3(+halfBase, -halfHeight, -halfBase)), // 1: right-back
		center.Add(core.NewVec3(+halfBase, -halfHeight, +halfBase)), // 2: right-front
		center.Add(core.NewVec3(-halfBase, -halfHeight, +halfBase)), // 3: left-front
		center.Add(core.NewVec3(0, +halfHeight, 0)),                 // 4: apex
	}

	faces := []int{
		0, 2, 1, 0, 3, 2, // base
		0, 1, 4,
		1, 2, 4,
		2, 3, 4,
		3, 0, 4,
	}

	return newRotatedMesh(vertices, faces, center, rotation, mat)
}

// createIcosahedronMesh creates a 20-sided polyhedron with the given circumradius
func createIcosahedronMesh(center core.Vec3, radius float64, rotation core.Vec3, mat material.Material) []geometry.Primitive {
	phi := (1.0 + math.Sqrt(5)) / 2.0

	// The unit-edge vertices (±1, ±phi, 0) lie at distance sqrt(1+phi²)
	scale := radius / math.Sqrt(1+phi*phi)

	vertices := []core.Vec3{
		center.Add(core.NewVec3(-1, phi, 0).Multiply(scale)),  // 0
		center.Add(core.NewVec3(1, phi, 0).Multiply(scale)),   // 1
		center.Add(core.NewVec3(-1, -phi, 0).Multiply(scale)), // 2
		center.Add(core.NewVec3(1, -phi, 0).Multiply(scale)),  // 3
		center.Add(core.NewVec3(0, -1, phi).Multiply(scale)),  // 4
		center.Add(core.NewVec3(0, 1, phi).Multiply(scale)),   // 5
		center.Add(core.NewVec3(0, -1, -phi).Multiply(scale)), // 6
		center.Add(core.NewVec3(0, 1, -phi).Multiply(scale)),  // 7
		center.Add(core.NewVec3(phi, 0, -1).Multiply(scale)),  // 8
		center.Add(core.NewVec3(phi, 0, 1).Multiply(scale)),   // 9
		center.Add(core.NewVec3(-phi, 0, -1).Multiply(scale)), // 10
		center.Add(core.NewVec3(-phi, 0, 1).Multiply(scale)),  // 11
	}

	faces := []int{
		// 5 faces around point 0
		0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
		// 5 adjacent faces
		1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
		// 5 faces around point 3
		3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
		// 5 adjacent faces
		4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
	}

	return newRotatedMesh(vertices, faces, center, rotation, mat)
}
