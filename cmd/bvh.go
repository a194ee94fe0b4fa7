package cmd

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

var bvhCmd = &cobra.Command{
	Use:   "bvh",
	Short: "Print BVH statistics for a scene",
	Long: `Build the BVH of a scene and print its shape. With --verify every primary
ray of the frame is traced through both the BVH and a brute-force scan and
the nearest hits are compared.`,
	Args: cobra.NoArgs,
	RunE: runBVH,
}

var (
	bvhScene  *sceneFlags
	bvhVerify bool
)

func init() {
	bvhScene = addSceneFlags(bvhCmd)
	bvhCmd.Flags().BoolVar(&bvhVerify, "verify", false, "compare BVH hits against brute force")
	rootCmd.AddCommand(bvhCmd)
}

func runBVH(cmd *cobra.Command, args []string) error {
	start := time.Now()
	s, err := bvhScene.load()
	if err != nil {
		return err
	}
	buildTime := time.Since(start)

	var buf bytes.Buffer
	stats := s.BVH.Stats()
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Primitives", "Nodes", "Leaves", "Max depth", "Avg leaf depth", "Max leaf size", "Build time"})
	table.Append([]string{
		fmt.Sprintf("%d", stats.Primitives),
		fmt.Sprintf("%d", stats.Nodes),
		fmt.Sprintf("%d", stats.Leaves),
		fmt.Sprintf("%d", stats.MaxDepth),
		fmt.Sprintf("%.2f", stats.AvgLeafDepth),
		fmt.Sprintf("%d", stats.MaxLeafSize),
		buildTime.Round(time.Microsecond).String(),
	})
	table.Render()
	fmt.Fprintf(cmd.OutOrStdout(), "BVH for scene %q\n%s", s.Name, buf.String())

	if !bvhVerify {
		return nil
	}
	rays, mismatches := verifyBVH(s)
	fmt.Fprintf(cmd.OutOrStdout(), "verified %d rays, %d mismatches\n", rays, mismatches)
	if mismatches > 0 {
		return fmt.Errorf("BVH disagrees with brute force on %d of %d rays", mismatches, rays)
	}
	return nil
}

// verifyBVH traces one ray per pixel through the BVH and by brute force and
// counts rays whose nearest hits differ
func verifyBVH(s *scene.Scene) (rays, mismatches int) {
	camera := s.NewCamera()
	width, height := s.Config.Width, s.Config.Height

	for j := 0; j < height; j++ {
		for i := 0; i < width; i++ {
			ray := camera.GetRay(i, j, width, height)
			got, gotOK := s.BVH.Intersect(ray, s.Primitives)
			want, wantOK := geometry.IntersectBruteForce(ray, s.Primitives)
			rays++
			if gotOK != wantOK || (gotOK && math.Abs(got.T-want.T) > 1e-9) {
				mismatches++
				logger.Debugf("pixel (%d, %d): bvh %v/%v, brute force %v/%v", i, j, gotOK, got.T, wantOK, want.T)
			}
		}
	}
	return rays, mismatches
}
