package server

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/df07/go-whitted-raytracer/pkg/log"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

var logger = log.New("server")

// Request limits
const (
	MinSize    = 16
	MaxSize    = 4096
	MaxBounces = 32
	MaxFrames  = 360
)

// Server serves rendered frames over HTTP
type Server struct {
	port      int
	scenesDir string
	workers   int

	mu     sync.Mutex
	scenes map[string]*scene.Scene // Preprocessed scenes by ID
}

// NewServer creates a new web server. OBJ scenes are discovered in scenesDir.
func NewServer(port int, scenesDir string, workers int) *Server {
	return &Server{
		port:      port,
		scenesDir: scenesDir,
		workers:   workers,
		scenes:    make(map[string]*scene.Scene),
	}
}

// Handler returns the routes served by the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/frame", s.handleFrame)
	mux.HandleFunc("GET /api/stream", s.handleStream)
	mux.HandleFunc("GET /api/inspect", s.handleInspect)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/scenes", s.handleScenes)
	mux.HandleFunc("GET /api/scene-config", s.handleSceneConfig)
	return mux
}

// Start serves until the listener fails
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	logger.Noticef("starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// getScene returns the preprocessed scene for id, building it on first use.
// Scenes are shared read-only between requests.
func (s *Server) getScene(id string) (*scene.Scene, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sc, ok := s.scenes[id]; ok {
		return sc, nil
	}
	if strings.HasPrefix(id, scene.OBJScenePrefix) && !s.isDiscovered(id) {
		return nil, fmt.Errorf("unknown scene %q", id)
	}

	sc, err := scene.NewScene(id)
	if err != nil {
		return nil, err
	}
	if err := sc.Preprocess(); err != nil {
		return nil, err
	}
	s.scenes[id] = sc
	return sc, nil
}

// isDiscovered reports whether id names an OBJ scene in the scenes directory.
// Clients cannot load arbitrary paths.
func (s *Server) isDiscovered(id string) bool {
	scenes, err := scene.ListOBJScenes(s.scenesDir)
	if err != nil {
		return false
	}
	for _, info := range scenes {
		if info.ID == id {
			return true
		}
	}
	return false
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in and discovered OBJ scenes
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := scene.ListAllScenes(s.scenesDir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// handleSceneConfig returns the default configuration for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = "default"
	}

	sc, err := s.getScene(sceneName)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cfg := sc.Config
	cam := sc.CameraConfig
	response := map[string]interface{}{
		"scene":      sceneName,
		"primitives": sc.GetPrimitiveCount(),
		"defaults": map[string]interface{}{
			"width":   cfg.Width,
			"height":  cfg.Height,
			"gamma":   cfg.Gamma,
			"bounces": cfg.Integrator.MaxBounces,
			"camera": map[string]interface{}{
				"position": [3]float64{cam.Position.X, cam.Position.Y, cam.Position.Z},
				"yaw":      cam.Yaw,
				"pitch":    cam.Pitch,
			},
		},
		"limits": map[string]interface{}{
			"width":   map[string]int{"min": MinSize, "max": MaxSize},
			"height":  map[string]int{"min": MinSize, "max": MaxSize},
			"bounces": map[string]int{"min": 1, "max": MaxBounces},
			"frames":  map[string]int{"min": 1, "max": MaxFrames},
		},
	}

	writeJSON(w, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warningf("failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a finite float parameter from URL query
func parseFloatParam(values url.Values, key string, defaultValue float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		return parsed, nil
	}
	return defaultValue, nil
}
