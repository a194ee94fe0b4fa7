package scene

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// DefaultScenesDir is where OBJ scenes are discovered when no directory is given
const DefaultScenesDir = "scenes"

// OBJScenePrefix marks scene IDs that refer to an OBJ file
const OBJScenePrefix = "obj:"

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string    `json:"id"`          // Unique identifier, passed to NewScene
	Name        string    `json:"name"`        // Scene name
	DisplayName string    `json:"displayName"` // UI display name
	Description string    `json:"description"` // Optional description
	Group       string    `json:"group"`       // Grouping category
	Type        string    `json:"type"`        // "builtin" or "obj"
	FilePath    string    `json:"filePath"`    // Path to OBJ file (obj type only)
	Variant     string    `json:"variant"`     // Variant name (optional)
	Scale       float64   `json:"scale,omitempty"`
	Translation core.Vec3 `json:"-"`
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

const builtInGroup = "Built-in Scenes"

var builtInScenes = []SceneInfo{
	{
		ID:          "default",
		Name:        "Default Scene",
		DisplayName: "Default Scene",
		Description: "Mirror and matte spheres on a checkered floor",
		Group:       builtInGroup,
		Type:        "builtin",
	},
	{
		ID:          "spheregrid",
		Name:        "Sphere Grid",
		DisplayName: "Sphere Grid",
		Description: "10x10 grid of colored spheres",
		Group:       builtInGroup,
		Type:        "builtin",
	},
	{
		ID:          "cornell",
		Name:        "Cornell Box",
		DisplayName: "Cornell Box",
		Description: "Cornell box with two spheres",
		Group:       builtInGroup,
		Type:        "builtin",
	},
	{
		ID:          "mesh",
		Name:        "Triangle Mesh",
		DisplayName: "Triangle Mesh",
		Description: "Box, pyramid and icosahedron meshes",
		Group:       builtInGroup,
		Type:        "builtin",
	},
}

// ListScenes returns the scenes compiled into the renderer
func ListScenes() []SceneInfo {
	return append([]SceneInfo(nil), builtInScenes...)
}

// ListOBJScenes scans dir for .obj files and returns their metadata. A
// missing directory yields an empty list.
func ListOBJScenes(dir string) ([]SceneInfo, error) {
	if dir == "" {
		dir = DefaultScenesDir
	}
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.obj"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := []SceneInfo{}
	for _, filePath := range files {
		sceneInfo, err := ParseOBJMetadata(filePath)
		if err != nil {
			logger.Warningf("failed to parse metadata for %s: %v", filePath, err)
			continue
		}
		scenes = append(scenes, sceneInfo)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ParseOBJMetadata extracts metadata from the comment block at the top of
// an OBJ file. Recognized keys are Scene, Variant, Description, Group,
// Scale and Translate.
func ParseOBJMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	sceneInfo := SceneInfo{
		ID:          OBJScenePrefix + filePath,
		Name:        titleCase(nameWithoutExt),
		DisplayName: titleCase(nameWithoutExt),
		Group:       "OBJ Scenes",
		Type:        "obj",
		FilePath:    filePath,
		Scale:       1,
	}

	file, err := os.Open(filePath)
	if err != nil {
		// Unreadable files keep the fallback values
		return sceneInfo, nil
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "#") {
			break
		}
		content, ok := strings.CutPrefix(line, "# ")
		if !ok {
			continue
		}
		key, value, ok := strings.Cut(content, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)

		switch key {
		case "Scene":
			sceneInfo.Name = value
		case "Variant":
			sceneInfo.Variant = value
		case "Description":
			sceneInfo.Description = value
		case "Group":
			sceneInfo.Group = value
		case "Scale":
			scale, err := strconv.ParseFloat(value, 64)
			if err != nil || !(scale > 0) {
				return sceneInfo, fmt.Errorf("invalid scale %q", value)
			}
			sceneInfo.Scale = scale
		case "Translate":
			t, err := parseTranslation(value)
			if err != nil {
				return sceneInfo, err
			}
			sceneInfo.Translation = t
		}
	}

	if sceneInfo.Variant != "" {
		sceneInfo.DisplayName = fmt.Sprintf("%s - %s", sceneInfo.Name, sceneInfo.Variant)
	} else {
		sceneInfo.DisplayName = sceneInfo.Name
	}

	return sceneInfo, scanner.Err()
}

func parseTranslation(value string) (core.Vec3, error) {
	fields := strings.Fields(value)
	if len(fields) != 3 {
		return core.Vec3{}, fmt.Errorf("invalid translation %q: expected 3 components", value)
	}
	var c [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return core.Vec3{}, fmt.Errorf("invalid translation %q: %w", value, err)
		}
		c[i] = v
	}
	return core.NewVec3(c[0], c[1], c[2]), nil
}

// ListAllScenes returns both built-in and OBJ scenes, grouped by category
func ListAllScenes(dir string) (ScenesResponse, error) {
	var response ScenesResponse

	objScenes, err := ListOBJScenes(dir)
	if err != nil {
		return response, fmt.Errorf("failed to list OBJ scenes: %w", err)
	}

	allScenes := append(ListScenes(), objScenes...)

	groupMap := make(map[string][]SceneInfo)
	for _, scene := range allScenes {
		groupMap[scene.Group] = append(groupMap[scene.Group], scene)
	}

	// Built-in first, then alphabetical
	var groupNames []string
	for groupName := range groupMap {
		if groupName != builtInGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	if scenes, exists := groupMap[builtInGroup]; exists {
		response.Groups = append(response.Groups, SceneGroup{Name: builtInGroup, Scenes: scenes})
	}
	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{Name: groupName, Scenes: groupMap[groupName]})
	}

	return response, nil
}

// NewScene creates a scene by ID: a built-in name, or "obj:" followed by the
// path of an OBJ file whose header metadata places the mesh
func NewScene(id string) (*Scene, error) {
	switch id {
	case "default", "":
		return NewDefaultScene(), nil
	case "spheregrid":
		return NewSphereGridScene(), nil
	case "cornell":
		return NewCornellScene(), nil
	case "mesh":
		return NewTriangleMeshScene(MeshOptions{})
	}

	path, ok := strings.CutPrefix(id, OBJScenePrefix)
	if !ok {
		return nil, fmt.Errorf("unknown scene %q", id)
	}

	info, err := ParseOBJMetadata(path)
	if err != nil {
		return nil, fmt.Errorf("scene %q: %w", id, err)
	}
	s, err := NewTriangleMeshScene(MeshOptions{Path: path, Translation: info.Translation, Scale: info.Scale})
	if err != nil {
		return nil, err
	}
	s.Name = info.DisplayName
	return s, nil
}

// titleCase converts a filename-style string to title case
// e.g., "cornell-empty" -> "Cornell Empty"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
