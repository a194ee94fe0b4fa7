package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// FrameRequest represents a frame request from the client
type FrameRequest struct {
	Scene   string          `json:"scene"`
	Width   int             `json:"width"`
	Height  int             `json:"height"`
	Bounces int             `json:"bounces"`
	Format  renderer.Format `json:"format"`
	Camera  scene.CameraConfig
}

// FrameUpdate is one frame of an orbit stream sent via SSE
type FrameUpdate struct {
	Frame       int    `json:"frame"`
	TotalFrames int    `json:"totalFrames"`
	ImageData   string `json:"imageData"` // Base64 encoded PNG
	Stats       Stats  `json:"stats"`
	IsComplete  bool   `json:"isComplete"`
	ElapsedMs   int64  `json:"elapsedMs"`
}

// Stats represents render statistics
type Stats struct {
	TotalPixels      int     `json:"totalPixels"`
	ShadowRays       int     `json:"shadowRays"`
	Bounces          int     `json:"bounces"`
	AverageLuminance float64 `json:"averageLuminance"`
	RenderMs         int64   `json:"renderMs"`
	RaysPerSecond    float64 `json:"raysPerSecond"`
}

func newStats(rs renderer.RenderStats) Stats {
	return Stats{
		TotalPixels:      rs.TotalPixels,
		ShadowRays:       rs.ShadowRays,
		Bounces:          rs.Bounces,
		AverageLuminance: rs.AverageLuminance,
		RenderMs:         rs.RenderTime.Milliseconds(),
		RaysPerSecond:    rs.RaysPerSecond(),
	}
}

// parseFrameRequest parses scene, size, bounce and camera parameters. Camera
// parameters default to the scene's placement.
func (s *Server) parseFrameRequest(r *http.Request) (*FrameRequest, *scene.Scene, error) {
	query := r.URL.Query()
	req := &FrameRequest{Scene: query.Get("scene")}
	if req.Scene == "" {
		req.Scene = "default"
	}

	sc, err := s.getScene(req.Scene)
	if err != nil {
		return nil, nil, err
	}

	if req.Width, err = parseIntParam(query, "width", 640, MinSize, MaxSize); err != nil {
		return nil, nil, err
	}
	if req.Height, err = parseIntParam(query, "height", 360, MinSize, MaxSize); err != nil {
		return nil, nil, err
	}
	if req.Bounces, err = parseIntParam(query, "bounces", sc.Config.Integrator.MaxBounces, 1, MaxBounces); err != nil {
		return nil, nil, err
	}

	req.Format = renderer.FormatPNG
	if f := query.Get("format"); f != "" {
		if req.Format, err = renderer.ParseFormat(f); err != nil {
			return nil, nil, err
		}
	}

	cam := sc.CameraConfig
	if cam.Position.X, err = parseFloatParam(query, "x", cam.Position.X); err != nil {
		return nil, nil, err
	}
	if cam.Position.Y, err = parseFloatParam(query, "y", cam.Position.Y); err != nil {
		return nil, nil, err
	}
	if cam.Position.Z, err = parseFloatParam(query, "z", cam.Position.Z); err != nil {
		return nil, nil, err
	}
	if cam.Yaw, err = parseFloatParam(query, "yaw", cam.Yaw); err != nil {
		return nil, nil, err
	}
	if cam.Pitch, err = parseFloatParam(query, "pitch", cam.Pitch); err != nil {
		return nil, nil, err
	}
	req.Camera = cam

	return req, sc, nil
}

// newFrameRenderer creates a renderer for sc with the requested bounce limit
func (s *Server) newFrameRenderer(sc *scene.Scene, req *FrameRequest) *renderer.FrameRenderer {
	cfg := sc.Config.Integrator
	cfg.MaxBounces = req.Bounces
	integ := integrator.NewWhittedIntegrator(sc.Primitives, sc.BVH, sc.Light, cfg)
	return renderer.NewFrameRenderer(integ, renderer.Config{Workers: s.workers, Gamma: sc.Config.Gamma})
}

// handleFrame renders a single still frame and returns it as an image
func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	req, sc, err := s.parseFrameRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	fr := s.newFrameRenderer(sc, req)
	defer fr.Close()

	fb := renderer.NewFramebuffer(req.Width, req.Height)
	camera := renderer.NewCamera(req.Camera.Position, req.Camera.Yaw, req.Camera.Pitch)
	stats := fr.RenderFrame(fb, camera)

	var buf bytes.Buffer
	if err := renderer.Encode(&buf, fb.ToImage(), req.Format); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Infof("frame %s %dx%d in %v", req.Scene, req.Width, req.Height, stats.RenderTime)

	w.Header().Set("Content-Type", req.Format.ContentType())
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Render-Time-Ms", strconv.FormatInt(stats.RenderTime.Milliseconds(), 10))
	w.Header().Set("X-Shadow-Rays", strconv.Itoa(stats.ShadowRays))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// handleStream renders an orbit of the camera around its start position,
// turning the yaw by step degrees per frame, and streams frames via SSE
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	req, sc, err := s.parseFrameRequest(r)
	if err != nil {
		s.sendSSEError(w, fmt.Sprintf("Invalid request: %v", err))
		return
	}
	frames, err := parseIntParam(r.URL.Query(), "frames", 12, 1, MaxFrames)
	if err != nil {
		s.sendSSEError(w, fmt.Sprintf("Invalid request: %v", err))
		return
	}
	step, err := parseFloatParam(r.URL.Query(), "step", 360/float64(frames))
	if err != nil {
		s.sendSSEError(w, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	fr := s.newFrameRenderer(sc, req)
	defer fr.Close()

	ctx := r.Context()
	fb := renderer.NewFramebuffer(req.Width, req.Height)
	camera := renderer.NewCamera(req.Camera.Position, req.Camera.Yaw, req.Camera.Pitch)
	startTime := time.Now()

	for i := 0; i < frames; i++ {
		select {
		case <-ctx.Done():
			logger.Infof("stream cancelled after %d frames", i)
			return
		default:
		}

		stats := fr.RenderFrame(fb, camera)
		imageData, err := imageToBase64PNG(fb)
		if err != nil {
			s.sendSSEError(w, fmt.Sprintf("failed to encode image: %v", err))
			return
		}

		update := FrameUpdate{
			Frame:       i + 1,
			TotalFrames: frames,
			ImageData:   imageData,
			Stats:       newStats(stats),
			IsComplete:  i == frames-1,
			ElapsedMs:   time.Since(startTime).Milliseconds(),
		}
		if err := s.sendSSEUpdate(w, update); err != nil {
			logger.Warningf("stream aborted: %v", err)
			return
		}

		camera.Rotate(step, 0)
	}

	s.sendSSEEvent(w, "complete", "Rendering completed")
}

// imageToBase64PNG converts a framebuffer to base64-encoded PNG
func imageToBase64PNG(fb *renderer.Framebuffer) (string, error) {
	var buf bytes.Buffer
	if err := renderer.Encode(&buf, fb.ToImage(), renderer.FormatPNG); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// sendSSEUpdate sends a frame update via SSE
func (s *Server) sendSSEUpdate(w http.ResponseWriter, update FrameUpdate) error {
	data, err := json.Marshal(update)
	if err != nil {
		return err
	}
	return s.sendSSEEvent(w, "frame", string(data))
}

// sendSSEError sends an error via SSE
func (s *Server) sendSSEError(w http.ResponseWriter, message string) error {
	return s.sendSSEEvent(w, "error", message)
}

// sendSSEEvent sends a generic SSE event
func (s *Server) sendSSEEvent(w http.ResponseWriter, event, data string) error {
	if flusher, ok := w.(http.Flusher); ok {
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
		flusher.Flush()
		return nil
	}
	return fmt.Errorf("streaming not supported")
}

// cameraRay returns the primary ray of a request's pixel
func cameraRay(req *FrameRequest, x, y int) core.Ray {
	camera := renderer.NewCamera(req.Camera.Position, req.Camera.Yaw, req.Camera.Pitch)
	return camera.GetRay(x, y, req.Width, req.Height)
}
