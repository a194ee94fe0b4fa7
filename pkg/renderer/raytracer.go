package renderer

import (
	"sync"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/log"
)

var logger = log.New("renderer")

// Config contains frame rendering configuration
type Config struct {
	Workers int     // Worker goroutines; 0 uses runtime.NumCPU
	Gamma   float64 // Display gamma for packing
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		Workers: 0,
		Gamma:   DefaultGamma,
	}
}

// FrameRenderer renders whole frames with a persistent worker pool.
// The integrator, scene and BVH it reads are never mutated.
type FrameRenderer struct {
	integrator integrator.Integrator
	config     Config
	pool       *WorkerPool
	mu         sync.Mutex // Serializes frames and Close; results of two frames must not interleave
	closed     bool
}

// NewFrameRenderer creates a renderer and starts its workers. Call Close when done.
func NewFrameRenderer(integ integrator.Integrator, config Config) *FrameRenderer {
	if config.Gamma <= 0 {
		config.Gamma = DefaultGamma
	}
	pool := NewWorkerPool(integ, 0, config.Workers)
	pool.Start()

	return &FrameRenderer{
		integrator: integ,
		config:     config,
		pool:       pool,
	}
}

// NumWorkers returns the number of worker goroutines
func (fr *FrameRenderer) NumWorkers() int {
	return fr.pool.GetNumWorkers()
}

// RenderFrame fills fb with one ray per pixel as seen from camera and blocks
// until every row is written
func (fr *FrameRenderer) RenderFrame(fb *Framebuffer, camera *Camera) RenderStats {
	fr.mu.Lock()
	defer fr.mu.Unlock()

	if fr.closed {
		logger.Warning("RenderFrame called on a closed renderer")
		return RenderStats{}
	}

	start := time.Now()

	// Submit from a separate goroutine so a small queue cannot deadlock
	// against undrained results
	go func() {
		for j := 0; j < fb.Height; j++ {
			fr.pool.SubmitTask(RowTask{
				Row:         j,
				Camera:      camera,
				Framebuffer: fb,
				Gamma:       fr.config.Gamma,
			})
		}
	}()

	stats := RenderStats{Workers: fr.pool.GetNumWorkers()}
	for j := 0; j < fb.Height; j++ {
		result, ok := fr.pool.GetResult()
		if !ok {
			break
		}
		stats.merge(result.Stats)
	}

	stats.RenderTime = time.Since(start)
	stats.finalize()

	logger.Debugf("Frame %dx%d rendered in %v (%d workers, %d shadow rays)",
		fb.Width, fb.Height, stats.RenderTime, stats.Workers, stats.ShadowRays)

	return stats
}

// Close waits for a frame in progress, then stops the worker pool.
// Further frames render nothing.
func (fr *FrameRenderer) Close() {
	fr.mu.Lock()
	defer fr.mu.Unlock()

	if fr.closed {
		return
	}
	fr.closed = true
	fr.pool.Stop()
}

// RenderFrame renders a single frame of a prepared scene with the default
// integrator and renderer settings
func RenderFrame(fb *Framebuffer, camera *Camera, prims []geometry.Primitive, bvh *geometry.BVH, light lights.PointLight) RenderStats {
	integ := integrator.NewWhittedIntegrator(prims, bvh, light, integrator.DefaultConfig())
	fr := NewFrameRenderer(integ, DefaultConfig())
	defer fr.Close()

	return fr.RenderFrame(fb, camera)
}
