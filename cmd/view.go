package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/df07/go-whitted-raytracer/pkg/viewer"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Open an interactive window",
	Long: `Render a scene continuously in a window. W/A/S/D move the camera, space and
shift move it vertically, dragging with the mouse turns it and Escape quits.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if viewDownscale < 1 {
			return fmt.Errorf("invalid downscale %d", viewDownscale)
		}
		s, err := viewScene.load()
		if err != nil {
			return err
		}
		return viewer.Run(s, viewer.Options{
			Width:   s.Config.Width / viewDownscale,
			Height:  s.Config.Height / viewDownscale,
			Workers: viewWorkers,
		})
	},
}

var (
	viewScene     *sceneFlags
	viewWorkers   int
	viewDownscale int
)

func init() {
	viewScene = addSceneFlags(viewCmd)
	viewCmd.Flags().IntVar(&viewWorkers, "workers", 0, "worker goroutines (default number of CPUs)")
	viewCmd.Flags().IntVar(&viewDownscale, "downscale", 2, "divide the frame size to keep the window responsive")
	rootCmd.AddCommand(viewCmd)
}
