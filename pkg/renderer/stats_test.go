package renderer

import (
	"testing"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
)

func TestRenderStats_Accumulation(t *testing.T) {
	var row RenderStats
	row.addPath(core.NewVec3(1, 1, 1), integrator.PathStats{Bounces: 2, ShadowRays: 2})
	row.addPath(core.NewVec3(0, 0, 0), integrator.PathStats{Bounces: 0, ShadowRays: 0})

	var frame RenderStats
	frame.merge(row)
	frame.merge(row)
	frame.RenderTime = 2 * time.Second
	frame.finalize()

	if frame.TotalPixels != 4 || frame.PrimaryRays != 4 {
		t.Errorf("Expected 4 pixels and primary rays, got %d and %d", frame.TotalPixels, frame.PrimaryRays)
	}
	if frame.ShadowRays != 4 || frame.Bounces != 4 {
		t.Errorf("Expected 4 shadow rays and bounces, got %d and %d", frame.ShadowRays, frame.Bounces)
	}
	if frame.AverageBounces() != 1 {
		t.Errorf("Expected 1 bounce per ray, got %f", frame.AverageBounces())
	}
	if frame.RaysPerSecond() != 4 {
		t.Errorf("Expected 4 rays/s, got %f", frame.RaysPerSecond())
	}
	if frame.AverageLuminance < 0.4999 || frame.AverageLuminance > 0.5001 {
		t.Errorf("Expected average luminance 0.5, got %f", frame.AverageLuminance)
	}
}
