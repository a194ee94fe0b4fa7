package viewer

import (
	"fmt"
	"image"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/df07/go-whitted-raytracer/pkg/log"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

var logger = log.New("viewer")

// FrameInterval is the target time between frames
const FrameInterval = time.Second / 60

// Options configures the interactive window
type Options struct {
	Width   int // Framebuffer size; zero uses the scene's
	Height  int
	Workers int
}

// dragSurface displays the frame and turns mouse drags into camera rotation
type dragSurface struct {
	widget.BaseWidget
	image      *canvas.Image
	controller *Controller
}

func newDragSurface(img *canvas.Image, controller *Controller) *dragSurface {
	s := &dragSurface{image: img, controller: controller}
	s.ExtendBaseWidget(s)
	return s
}

func (s *dragSurface) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(s.image)
}

func (s *dragSurface) Dragged(ev *fyne.DragEvent) {
	s.controller.Drag(ev.Dragged.DX, ev.Dragged.DY)
}

func (s *dragSurface) DragEnd() {}

// Run opens a window rendering s continuously until it is closed. W/A/S/D
// move, space and shift move vertically, dragging rotates and Escape quits.
func Run(s *scene.Scene, opts Options) error {
	if s.BVH == nil {
		if err := s.Preprocess(); err != nil {
			return err
		}
	}

	width, height := opts.Width, opts.Height
	if width <= 0 || height <= 0 {
		width, height = s.Config.Width, s.Config.Height
	}

	fr := renderer.NewFrameRenderer(s.NewIntegrator(), renderer.Config{Workers: opts.Workers, Gamma: s.Config.Gamma})
	defer fr.Close()

	controller := NewController(s.NewCamera())
	fb := renderer.NewFramebuffer(width, height)

	a := app.New()
	w := a.NewWindow(fmt.Sprintf("Whitted Raytracer - %s", s.Name))

	img := canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, width, height)))
	img.FillMode = canvas.ImageFillContain
	img.ScaleMode = canvas.ImageScaleFastest
	status := widget.NewLabel("Rendering...")

	w.SetContent(container.NewBorder(nil, status, nil, nil, newDragSurface(img, controller)))
	w.Resize(fyne.NewSize(float32(width)/2, float32(height)/2+40))

	if dc, ok := w.Canvas().(desktop.Canvas); ok {
		dc.SetOnKeyDown(func(ev *fyne.KeyEvent) {
			if ev.Name == fyne.KeyEscape {
				w.Close()
				return
			}
			controller.KeyDown(ev.Name)
		})
		dc.SetOnKeyUp(func(ev *fyne.KeyEvent) {
			controller.KeyUp(ev.Name)
		})
	} else {
		logger.Warning("keyboard movement needs a desktop driver")
	}

	done := make(chan struct{})
	var stopOnce sync.Once
	stop := func() { stopOnce.Do(func() { close(done) }) }
	w.SetOnClosed(stop)

	// The renderer is closed only after the loop exits
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		renderLoop(done, FrameInterval, controller, fr, fb, func(frame *image.RGBA, text string) {
			fyne.Do(func() {
				img.Image = frame
				img.Refresh()
				status.SetText(text)
			})
		})
	}()

	w.ShowAndRun()
	stop()
	wg.Wait()
	return nil
}

// renderLoop renders a frame on each tick where the camera changed and hands
// it to present, until done is closed. It returns only between frames.
func renderLoop(done <-chan struct{}, interval time.Duration, controller *Controller,
	fr *renderer.FrameRenderer, fb *renderer.Framebuffer, present func(*image.RGBA, string)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
		}
		if !controller.Update() {
			continue
		}

		camera := controller.Camera()
		stats := fr.RenderFrame(fb, camera)
		text := fmt.Sprintf("%v  pos (%.2f, %.2f, %.2f)  yaw %.1f  pitch %.1f",
			stats.RenderTime.Round(time.Millisecond),
			camera.Position.X, camera.Position.Y, camera.Position.Z, camera.Yaw, camera.Pitch)
		present(fb.ToImage(), text)
	}
}
