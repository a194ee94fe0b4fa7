package loaders

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// OBJData holds the triangulated geometry of a Wavefront OBJ file
type OBJData struct {
	Vertices []core.Vec3
	Faces    []int // Vertex indices, 3 per triangle
}

// TriangleCount returns the number of triangles in the mesh
func (d *OBJData) TriangleCount() int {
	return len(d.Faces) / 3
}

// ReadOBJ parses vertex positions and faces from r. Polygons are
// triangulated as fans around their first vertex. Texture coordinates,
// normals, groups and materials are ignored.
func ReadOBJ(r io.Reader) (*OBJData, error) {
	data := &OBJData{}
	lineNum := 0

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNum++
		tokens := strings.Fields(scanner.Text())
		if len(tokens) == 0 || strings.HasPrefix(tokens[0], "#") {
			continue
		}

		switch tokens[0] {
		case "v":
			v, err := parseVec3(tokens)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			data.Vertices = append(data.Vertices, v)
		case "f":
			if err := data.addFace(tokens); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read OBJ data: %w", err)
	}

	return data, nil
}

// addFace resolves the vertex references of an 'f' row and appends its fan triangles
func (d *OBJData) addFace(tokens []string) error {
	if len(tokens) < 4 {
		return fmt.Errorf("unsupported syntax for 'f'; expected at least 3 arguments; got %d", len(tokens)-1)
	}

	indices := make([]int, len(tokens)-1)
	for arg, token := range tokens[1:] {
		// v, v/vt, v//vn or v/vt/vn; only the position index is used
		vToken, _, _ := strings.Cut(token, "/")
		if vToken == "" {
			return fmt.Errorf("face argument %d does not include a vertex index", arg)
		}
		index, err := selectVertexIndex(vToken, len(d.Vertices))
		if err != nil {
			return fmt.Errorf("could not parse vertex index for face argument %d: %w", arg, err)
		}
		indices[arg] = index
	}

	for i := 1; i+1 < len(indices); i++ {
		d.Faces = append(d.Faces, indices[0], indices[i], indices[i+1])
	}
	return nil
}

// selectVertexIndex converts a 1-based OBJ index into an offset into the
// vertex list. Negative indices count back from the last vertex read.
func selectVertexIndex(token string, numVertices int) (int, error) {
	index, err := strconv.Atoi(token)
	if err != nil {
		return -1, err
	}

	offset := index - 1
	if index < 0 {
		offset = numVertices + index
	}
	if index == 0 || offset < 0 || offset >= numVertices {
		return -1, fmt.Errorf("index %d out of bounds for %d vertices", index, numVertices)
	}
	return offset, nil
}

// parseVec3 parses the three coordinates following a row keyword
func parseVec3(tokens []string) (core.Vec3, error) {
	if len(tokens) < 4 {
		return core.Vec3{}, fmt.Errorf("unsupported syntax for '%s'; expected 3 arguments; got %d", tokens[0], len(tokens)-1)
	}

	var coords [3]float64
	for i := range coords {
		c, err := strconv.ParseFloat(tokens[i+1], 64)
		if err != nil {
			return core.Vec3{}, fmt.Errorf("invalid coordinate %q: %w", tokens[i+1], err)
		}
		coords[i] = c
	}
	return core.NewVec3(coords[0], coords[1], coords[2]), nil
}

// ParseOBJ reads an OBJ mesh and returns its triangles, with every vertex
// scaled and then translated, all sharing mat
func ParseOBJ(r io.Reader, translation core.Vec3, scale float64, mat material.Material) ([]geometry.Primitive, error) {
	data, err := ReadOBJ(r)
	if err != nil {
		return nil, err
	}

	vertices := make([]core.Vec3, len(data.Vertices))
	for i, v := range data.Vertices {
		vertices[i] = v.Multiply(scale).Add(translation)
	}
	return geometry.NewTriangleMesh(vertices, data.Faces, mat, nil), nil
}

// LoadOBJ opens an OBJ file and parses it with ParseOBJ
func LoadOBJ(filename string, translation core.Vec3, scale float64, mat material.Material) ([]geometry.Primitive, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open OBJ file: %w", err)
	}
	defer file.Close()

	prims, err := ParseOBJ(file, translation, scale, mat)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return prims, nil
}
