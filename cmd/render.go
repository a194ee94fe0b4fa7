package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
	"github.com/df07/go-whitted-raytracer/pkg/watcher"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a still frame to an image file",
	Long: `Render one frame of a scene and save it as PNG, BMP or TIFF. With --watch
the frame is rendered again whenever the scene's OBJ file changes.`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

var (
	renderScene   *sceneFlags
	renderOut     string
	renderFormat  string
	renderScale   float64
	renderWorkers int
	renderWatch   bool
)

func init() {
	renderScene = addSceneFlags(renderCmd)
	flags := renderCmd.Flags()
	flags.StringVarP(&renderOut, "out", "o", "", "output file (default output/<scene>/render_<timestamp>.<format>)")
	flags.StringVar(&renderFormat, "format", "", "image format: png, bmp or tiff (default from --out, else png)")
	flags.Float64Var(&renderScale, "scale", 1, "resample the frame by this factor before saving")
	flags.IntVar(&renderWorkers, "workers", 0, "worker goroutines (default number of CPUs)")
	flags.BoolVar(&renderWatch, "watch", false, "re-render when the OBJ file changes")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	if !(renderScale > 0) || math.IsInf(renderScale, 0) {
		return fmt.Errorf("invalid scale %v", renderScale)
	}
	format, err := outputFormat(renderOut, renderFormat)
	if err != nil {
		return err
	}

	path := renderScene.meshPath()
	if renderWatch && path == "" {
		return errors.New("--watch needs an OBJ scene (--mesh or obj:<path>)")
	}

	if err := renderAndSave(format); err != nil {
		return err
	}
	if !renderWatch {
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	return watchAndRender(ctx, path, format)
}

// watchAndRender re-renders on every change to path until ctx is done.
// Failed renders are logged and the watch continues.
func watchAndRender(ctx context.Context, path string, format renderer.Format) error {
	fw, err := watcher.NewFileWatcher(watcher.DefaultDebounce)
	if err != nil {
		return err
	}
	defer fw.Close()

	changes := make(chan struct{}, 1)
	err = fw.Watch([]string{path}, func(string) {
		select {
		case changes <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return err
	}
	fw.Start()
	logger.Noticef("watching %s, press Ctrl+C to stop", path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changes:
			if err := renderAndSave(format); err != nil {
				logger.Errorf("render failed: %v", err)
			}
		}
	}
}

// outputFormat resolves the image format from the flags
func outputFormat(out, name string) (renderer.Format, error) {
	switch {
	case name != "":
		return renderer.ParseFormat(name)
	case out != "":
		return renderer.FormatFromPath(out)
	default:
		return renderer.FormatPNG, nil
	}
}

func renderAndSave(format renderer.Format) error {
	s, err := renderScene.load()
	if err != nil {
		return err
	}

	img, stats := renderStill(s)

	if renderScale != 1 {
		w := max(1, int(math.Round(float64(img.Bounds().Dx())*renderScale)))
		h := max(1, int(math.Round(float64(img.Bounds().Dy())*renderScale)))
		img = renderer.ScaleImage(img, w, h)
	}

	out := renderOut
	if out == "" {
		out = defaultOutputPath(s.Name, format, time.Now())
	}
	if err := renderer.SaveImage(out, img, format); err != nil {
		return err
	}

	displayFrameStats(s, stats)
	logger.Noticef("render saved as %s", out)
	return nil
}

func renderStill(s *scene.Scene) (*image.RGBA, renderer.RenderStats) {
	fr := renderer.NewFrameRenderer(s.NewIntegrator(), renderer.Config{Workers: renderWorkers, Gamma: s.Config.Gamma})
	defer fr.Close()

	fb := renderer.NewFramebuffer(s.Config.Width, s.Config.Height)
	stats := fr.RenderFrame(fb, s.NewCamera())
	return fb.ToImage(), stats
}

// defaultOutputPath returns output/<scene>/render_<timestamp>.<format>
func defaultOutputPath(sceneName string, format renderer.Format, now time.Time) string {
	dir := strings.ToLower(strings.Join(strings.Fields(sceneName), "-"))
	if dir == "" {
		dir = "scene"
	}
	return filepath.Join("output", dir, fmt.Sprintf("render_%s.%s", now.Format("20060102_150405"), format))
}

func displayFrameStats(s *scene.Scene, stats renderer.RenderStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Scene", "Size", "Primitives", "Workers", "Shadow rays", "Avg bounces", "Rays/s"})
	table.Append([]string{
		s.Name,
		fmt.Sprintf("%dx%d", s.Config.Width, s.Config.Height),
		fmt.Sprintf("%d", s.GetPrimitiveCount()),
		fmt.Sprintf("%d", stats.Workers),
		fmt.Sprintf("%d", stats.ShadowRays),
		fmt.Sprintf("%.2f", stats.AverageBounces()),
		fmt.Sprintf("%.0f", stats.RaysPerSecond()),
	})
	table.SetFooter([]string{"", "", "", "", "", "TOTAL", stats.RenderTime.Round(time.Millisecond).String()})

	table.Render()
	logger.Noticef("frame statistics\n%s", buf.String())
}
