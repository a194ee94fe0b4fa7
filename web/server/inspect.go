package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType"`
	GeometryType string                 `json:"geometryType"`
	Index        int                    `json:"index"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	Properties   map[string]interface{} `json:"properties"`
}

func vec(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func hexColor(c core.Vec3) string {
	clamp := func(v float64) int {
		return int(core.MaxFloat(0, core.MinFloat(1, v)) * 255)
	}
	return fmt.Sprintf("#%02x%02x%02x", clamp(c.X), clamp(c.Y), clamp(c.Z))
}

// extractMaterialInfo classifies a material and lists its parameters
func extractMaterialInfo(mat material.Material, point core.Vec3) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	if mat.IsEmissive() {
		properties["emission"] = vec(mat.Emission)
		properties["color"] = hexColor(mat.Emission)
		return "emissive", properties
	}

	albedo := mat.AlbedoAt(point)
	properties["albedo"] = vec(albedo)
	properties["color"] = hexColor(albedo)
	properties["specular"] = mat.Specular
	properties["shininess"] = mat.Shininess

	switch {
	case mat.Checkered:
		return "checker", properties
	case mat.Specular > 0:
		return "specular", properties
	default:
		return "diffuse", properties
	}
}

// extractGeometryInfo lists the shape parameters of a primitive
func extractGeometryInfo(p geometry.Primitive) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch p.Kind {
	case geometry.KindSphere:
		properties["center"] = vec(p.Sphere.Center)
		properties["radius"] = p.Sphere.Radius
		return "sphere", properties
	case geometry.KindTriangle:
		properties["v0"] = vec(p.Triangle.V0)
		properties["v1"] = vec(p.Triangle.V1)
		properties["v2"] = vec(p.Triangle.V2)
		properties["normal"] = vec(p.Triangle.Normal())
		return "triangle", properties
	default:
		return "unknown", properties
	}
}

// inspectRay finds the primitive hit first by ray. The BVH reports the hit;
// the primitive is identified by re-testing each one at the same distance.
func inspectRay(sc *scene.Scene, ray core.Ray) (geometry.HitRecord, int, bool) {
	hit, ok := sc.BVH.Intersect(ray, sc.Primitives)
	if !ok {
		return hit, -1, false
	}
	for i := range sc.Primitives {
		if t, _, _, hitPrim := sc.Primitives[i].Intersect(ray); hitPrim && t == hit.T {
			return hit, i, true
		}
	}
	return hit, -1, true
}

// handleInspect reports what the primary ray through pixel (px, py) hits
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, sc, err := s.parseFrameRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("px"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid px coordinate")
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("py"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid py coordinate")
		return
	}
	if pixelX < 0 || pixelX >= req.Width || pixelY < 0 || pixelY >= req.Height {
		writeError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	hit, index, ok := inspectRay(sc, cameraRay(req, pixelX, pixelY))
	if !ok {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false, Index: -1})
		return
	}

	materialType, materialProps := extractMaterialInfo(hit.Material, hit.Point)
	properties := map[string]interface{}{"material": materialProps}
	geometryType := "unknown"
	if index >= 0 {
		var geometryProps map[string]interface{}
		geometryType, geometryProps = extractGeometryInfo(sc.Primitives[index])
		properties["geometry"] = geometryProps
	}

	writeJSON(w, http.StatusOK, InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		GeometryType: geometryType,
		Index:        index,
		Point:        vec(hit.Point),
		Normal:       vec(hit.Normal),
		Distance:     hit.T,
		Properties:   properties,
	})
}
