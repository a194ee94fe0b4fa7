package server

import (
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	obj := "# Scene: Test Triangle\n# Group: Test Meshes\nv -1 0 -3\nv 1 0 -3\nv 0 2 -3\nf 1 2 3\n"
	if err := os.WriteFile(filepath.Join(dir, "triangle.obj"), []byte(obj), 0o644); err != nil {
		t.Fatalf("Failed to write OBJ: %v", err)
	}
	return NewServer(0, dir, 2), dir
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/api/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("Unexpected body %q", rec.Body.String())
	}
}

func TestHandleScenes(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/api/scenes")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var response struct {
		Groups []struct {
			Name   string `json:"name"`
			Scenes []struct {
				ID string `json:"id"`
			} `json:"scenes"`
		} `json:"groups"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(response.Groups) != 2 {
		t.Fatalf("Expected built-in and OBJ groups, got %d", len(response.Groups))
	}
	if response.Groups[1].Name != "Test Meshes" || len(response.Groups[1].Scenes) != 1 {
		t.Errorf("Unexpected OBJ group %+v", response.Groups[1])
	}
}

func TestHandleSceneConfig(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/api/scene-config?scene=cornell")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var response struct {
		Scene      string `json:"scene"`
		Primitives int    `json:"primitives"`
		Defaults   struct {
			Width  int `json:"width"`
			Height int `json:"height"`
		} `json:"defaults"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.Scene != "cornell" || response.Defaults.Width != 800 || response.Defaults.Height != 800 {
		t.Errorf("Unexpected config %+v", response)
	}
	if response.Primitives == 0 {
		t.Error("Expected primitives in scene")
	}

	if rec := get(t, s, "/api/scene-config?scene=nonexistent"); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown scene, got %d", rec.Code)
	}
}

func TestHandleFrame(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/api/frame?scene=default&width=32&height=18&bounces=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Expected image/png, got %q", ct)
	}
	if rec.Header().Get("X-Render-Time-Ms") == "" {
		t.Error("Expected render time header")
	}

	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("Failed to decode PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 18 {
		t.Errorf("Expected 32x18 image, got %v", b)
	}
}

func TestHandleFrame_Format(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/api/frame?width=16&height=16&format=bmp")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/bmp" {
		t.Errorf("Expected image/bmp, got %q", ct)
	}
}

func TestHandleFrame_InvalidParams(t *testing.T) {
	s, _ := newTestServer(t)
	tests := []struct {
		name  string
		query string
	}{
		{"width too small", "width=1"},
		{"width too large", "width=100000"},
		{"height not a number", "height=abc"},
		{"zero bounces", "bounces=0"},
		{"too many bounces", "bounces=1000"},
		{"unknown format", "format=gif"},
		{"nan yaw", "yaw=NaN"},
		{"infinite x", "x=Inf"},
		{"unknown scene", "scene=nonexistent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, s, "/api/frame?"+tt.query)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestHandleFrame_OBJScene(t *testing.T) {
	s, dir := newTestServer(t)
	id := url.QueryEscape("obj:" + filepath.Join(dir, "triangle.obj"))
	rec := get(t, s, "/api/frame?width=16&height=16&scene="+id)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 for discovered OBJ scene, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleFrame_RejectsUndiscoveredOBJ(t *testing.T) {
	s, _ := newTestServer(t)

	other := filepath.Join(t.TempDir(), "outside.obj")
	if err := os.WriteFile(other, []byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"), 0o644); err != nil {
		t.Fatalf("Failed to write OBJ: %v", err)
	}

	for _, path := range []string{other, "/etc/passwd"} {
		rec := get(t, s, "/api/frame?width=16&height=16&scene="+url.QueryEscape("obj:"+path))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 for %s, got %d", path, rec.Code)
		}
	}
}

func TestHandleStream(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/api/stream?width=16&height=16&frames=3&bounces=1")
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Expected event stream, got %q", ct)
	}

	body := rec.Body.String()
	if n := strings.Count(body, "event: frame\n"); n != 3 {
		t.Errorf("Expected 3 frame events, got %d", n)
	}
	if !strings.Contains(body, "event: complete\n") {
		t.Error("Expected completion event")
	}

	var last FrameUpdate
	for _, line := range strings.Split(body, "\n") {
		if data, ok := strings.CutPrefix(line, "data: {"); ok {
			if err := json.Unmarshal([]byte("{"+data), &last); err != nil {
				t.Fatalf("Failed to decode frame: %v", err)
			}
		}
	}
	if last.Frame != 3 || !last.IsComplete || last.ImageData == "" {
		t.Errorf("Unexpected final frame %+v", last)
	}
	if last.Stats.TotalPixels != 256 {
		t.Errorf("Expected 256 pixels, got %d", last.Stats.TotalPixels)
	}
}

func TestHandleStream_InvalidFrames(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/api/stream?frames=0")
	if !strings.Contains(rec.Body.String(), "event: error\n") {
		t.Errorf("Expected error event, got %q", rec.Body.String())
	}
}

func TestHandleInspect(t *testing.T) {
	s, _ := newTestServer(t)

	// The camera looks down at the floor through the center pixel
	rec := get(t, s, "/api/inspect?width=32&height=18&px=16&py=9")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var hit InspectResponse
	if err := json.NewDecoder(rec.Body).Decode(&hit); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !hit.Hit || hit.Index < 0 {
		t.Fatalf("Expected a hit, got %+v", hit)
	}
	if hit.GeometryType != "triangle" && hit.GeometryType != "sphere" {
		t.Errorf("Unexpected geometry type %q", hit.GeometryType)
	}
	if hit.Distance <= 0 {
		t.Errorf("Expected positive distance, got %v", hit.Distance)
	}

	// Looking up, the top row sees only sky
	rec = get(t, s, "/api/inspect?width=32&height=18&pitch=30&px=16&py=0")
	var miss InspectResponse
	if err := json.NewDecoder(rec.Body).Decode(&miss); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if miss.Hit {
		t.Errorf("Expected a miss, got %+v", miss)
	}
}

func TestHandleInspect_InvalidPixel(t *testing.T) {
	s, _ := newTestServer(t)
	for _, query := range []string{"px=1", "px=a&py=0", "px=32&py=0", "px=0&py=-1"} {
		rec := get(t, s, "/api/inspect?width=32&height=18&"+query)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 for %q, got %d", query, rec.Code)
		}
	}
}
