package integrator

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
)

// Config contains the tunables of the Whitted integrator
type Config struct {
	MaxBounces     int       // Hard limit on surfaces visited per primary ray
	Epsilon        float64   // Offset along the normal for shadow and reflection origins
	Background     core.Vec3 // Color returned by rays that leave the scene
	MissFalloff    float64   // Background is scaled by MissFalloff^bounce
	MinReflectance float64   // Paths stop once reflectance drops to this value
}

// DefaultConfig returns the integrator settings used by the built-in scenes
func DefaultConfig() Config {
	return Config{
		MaxBounces:     4,
		Epsilon:        geometry.Epsilon,
		Background:     core.NewVec3(0.05, 0.05, 0.1),
		MissFalloff:    0.5,
		MinReflectance: 1e-3,
	}
}

// WhittedIntegrator computes direct lighting from a single point light with
// shadow rays and follows one mirror reflection per bounce. It holds only
// read-only references and is safe for concurrent use.
type WhittedIntegrator struct {
	prims  []geometry.Primitive
	bvh    *geometry.BVH // nil selects the brute-force query
	light  lights.PointLight
	config Config
}

// NewWhittedIntegrator creates a Whitted integrator over a prepared scene
func NewWhittedIntegrator(prims []geometry.Primitive, bvh *geometry.BVH, light lights.PointLight, config Config) *WhittedIntegrator {
	if config.MaxBounces <= 0 {
		config.MaxBounces = DefaultConfig().MaxBounces
	}
	return &WhittedIntegrator{
		prims:  prims,
		bvh:    bvh,
		light:  light,
		config: config,
	}
}

// Config returns the integrator configuration
func (w *WhittedIntegrator) Config() Config {
	return w.config
}

// closestHit finds the nearest intersection along ray
func (w *WhittedIntegrator) closestHit(ray core.Ray) (geometry.HitRecord, bool) {
	if w.bvh == nil {
		return geometry.IntersectBruteForce(ray, w.prims)
	}
	return w.bvh.Intersect(ray, w.prims)
}

// RayColor traces ray through at most MaxBounces surfaces and returns the
// accumulated radiance. No randomness is involved.
func (w *WhittedIntegrator) RayColor(ray core.Ray) (core.Vec3, PathStats) {
	var stats PathStats
	color := core.Vec3{}
	throughput := core.NewVec3(1, 1, 1)

	for bounce := 0; bounce < w.config.MaxBounces; bounce++ {
		hit, isHit := w.closestHit(ray)
		if !isHit {
			falloff := math.Pow(w.config.MissFalloff, float64(bounce))
			color = color.Add(throughput.MultiplyVec(w.config.Background).Multiply(falloff))
			break
		}
		stats.Bounces++

		mat := hit.Material
		color = color.Add(throughput.MultiplyVec(mat.Emission))

		albedo := mat.AlbedoAt(hit.Point)
		viewDir := ray.Direction.Normalize().Negate()
		reflectance := w.reflectance(mat.Specular, hit.Normal.Dot(viewDir))

		// Direct lighting
		direct := w.directLight(hit, albedo, viewDir, mat.Shininess, reflectance, &stats)
		color = color.Add(throughput.MultiplyVec(direct))

		// Fully diffuse surfaces end the path
		if !(reflectance > w.config.MinReflectance) {
			break
		}

		throughput = throughput.Multiply(reflectance)
		ray = core.NewRay(
			hit.Point.Add(hit.Normal.Multiply(w.config.Epsilon)),
			ray.Direction.Reflect(hit.Normal).Normalize(),
		)
	}

	return color, stats
}

// reflectance blends the base specular coefficient toward 1 at grazing
// angles with Schlick's approximation. Materials without a specular
// coefficient never reflect.
func (w *WhittedIntegrator) reflectance(specular, cosTheta float64) float64 {
	if !(specular > 0) {
		return 0
	}
	cosTheta = math.Max(0, math.Min(1, cosTheta))
	return specular + (1-specular)*math.Pow(1-cosTheta, 5)
}

// directLight evaluates the diffuse and Blinn-Phong specular response to the
// point light, or zero when the light is occluded
func (w *WhittedIntegrator) directLight(hit geometry.HitRecord, albedo, viewDir core.Vec3, shininess, reflectance float64, stats *PathStats) core.Vec3 {
	sample := w.light.Sample(hit.Point)
	if sample.DistanceSquared == 0 {
		return core.Vec3{}
	}

	if w.occluded(hit, sample, stats) {
		return core.Vec3{}
	}

	nDotL := hit.Normal.Dot(sample.Direction)
	if !(nDotL > 0) {
		return core.Vec3{}
	}

	diffuse := albedo.MultiplyVec(sample.Incoming).Multiply(nDotL * (1 - reflectance))

	halfway := sample.Direction.Add(viewDir).Normalize()
	nDotH := math.Max(hit.Normal.Dot(halfway), 0)
	specular := sample.Incoming.Multiply(math.Pow(nDotH, shininess) * reflectance)

	return diffuse.Add(specular)
}

// occluded casts a shadow ray toward the light. Emissive blockers such as the
// light's own bulb sphere do not cast shadows.
func (w *WhittedIntegrator) occluded(hit geometry.HitRecord, sample lights.LightSample, stats *PathStats) bool {
	origin := hit.Point.Add(hit.Normal.Multiply(w.config.Epsilon))
	shadowRay := core.NewRay(origin, sample.Direction)
	stats.ShadowRays++

	blocker, blocked := w.closestHit(shadowRay)
	if !blocked {
		return false
	}
	toBlocker := blocker.Point.Subtract(origin).LengthSquared()
	return toBlocker < sample.DistanceSquared && !blocker.Material.IsEmissive()
}
