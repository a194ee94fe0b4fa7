package viewer

import (
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

const (
	// MoveSpeed is the distance moved per frame while a movement key is held
	MoveSpeed = 0.1
	// MouseSensitivity is degrees of rotation per pixel dragged
	MouseSensitivity = 0.2
)

// Controller maps held keys and mouse drags onto a camera. Input callbacks
// and the render loop run on different goroutines.
type Controller struct {
	mu      sync.Mutex
	camera  renderer.Camera
	pressed map[fyne.KeyName]bool
	dirty   bool
}

// NewController creates a controller driving a copy of camera
func NewController(camera *renderer.Camera) *Controller {
	return &Controller{
		camera:  *camera,
		pressed: make(map[fyne.KeyName]bool),
		dirty:   true,
	}
}

// KeyDown records a pressed key
func (c *Controller) KeyDown(key fyne.KeyName) {
	c.mu.Lock()
	c.pressed[key] = true
	c.mu.Unlock()
}

// KeyUp records a released key
func (c *Controller) KeyUp(key fyne.KeyName) {
	c.mu.Lock()
	delete(c.pressed, key)
	c.mu.Unlock()
}

// Drag rotates the camera by a mouse movement in pixels. Dragging up
// looks up.
func (c *Controller) Drag(dx, dy float32) {
	if dx == 0 && dy == 0 {
		return
	}
	c.mu.Lock()
	c.camera.Rotate(float64(dx)*MouseSensitivity, -float64(dy)*MouseSensitivity)
	c.dirty = true
	c.mu.Unlock()
}

// Update advances one frame of movement for the held keys and reports
// whether the camera changed since the last call
func (c *Controller) Update() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pressed[fyne.KeyW] {
		c.camera.MoveForward(MoveSpeed)
		c.dirty = true
	}
	if c.pressed[fyne.KeyS] {
		c.camera.MoveForward(-MoveSpeed)
		c.dirty = true
	}
	if c.pressed[fyne.KeyA] {
		c.camera.MoveRight(-MoveSpeed)
		c.dirty = true
	}
	if c.pressed[fyne.KeyD] {
		c.camera.MoveRight(MoveSpeed)
		c.dirty = true
	}
	if c.pressed[fyne.KeySpace] {
		c.camera.MoveUp(MoveSpeed)
		c.dirty = true
	}
	if c.pressed[desktop.KeyShiftLeft] || c.pressed[desktop.KeyShiftRight] {
		c.camera.MoveUp(-MoveSpeed)
		c.dirty = true
	}

	changed := c.dirty
	c.dirty = false
	return changed
}

// Camera returns a snapshot of the current camera
func (c *Controller) Camera() *renderer.Camera {
	c.mu.Lock()
	defer c.mu.Unlock()
	camera := c.camera
	return &camera
}
