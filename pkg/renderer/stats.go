package renderer

import (
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels      int           // Total number of pixels rendered
	PrimaryRays      int           // Camera rays traced
	ShadowRays       int           // Shadow rays cast toward the light
	Bounces          int           // Surface hits across all paths
	LuminanceSum     float64       // Sum of linear pixel luminance before gamma
	RenderTime       time.Duration // Wall-clock time for the frame
	Workers          int           // Number of workers that rendered the frame
	AverageLuminance float64       // LuminanceSum / TotalPixels, set by finalize
}

// addPath records one traced primary ray
func (s *RenderStats) addPath(color core.Vec3, path integrator.PathStats) {
	s.TotalPixels++
	s.PrimaryRays++
	s.ShadowRays += path.ShadowRays
	s.Bounces += path.Bounces
	s.LuminanceSum += color.Luminance()
}

// merge accumulates the counters of a row into the frame totals
func (s *RenderStats) merge(other RenderStats) {
	s.TotalPixels += other.TotalPixels
	s.PrimaryRays += other.PrimaryRays
	s.ShadowRays += other.ShadowRays
	s.Bounces += other.Bounces
	s.LuminanceSum += other.LuminanceSum
}

// finalize computes derived values once all rows are merged
func (s *RenderStats) finalize() {
	if s.TotalPixels > 0 {
		s.AverageLuminance = s.LuminanceSum / float64(s.TotalPixels)
	}
}

// RaysPerSecond returns primary plus shadow rays traced per second
func (s RenderStats) RaysPerSecond() float64 {
	if s.RenderTime <= 0 {
		return 0
	}
	return float64(s.PrimaryRays+s.ShadowRays) / s.RenderTime.Seconds()
}

// AverageBounces returns the mean number of surfaces hit per primary ray
func (s RenderStats) AverageBounces() float64 {
	if s.PrimaryRays == 0 {
		return 0
	}
	return float64(s.Bounces) / float64(s.PrimaryRays)
}
