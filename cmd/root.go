package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/df07/go-whitted-raytracer/pkg/log"
)

var logger = log.New("raytracer")

var rootCmd = &cobra.Command{
	Use:   "raytracer",
	Short: "Whitted-style ray tracer",
	Long: `A Whitted-style ray tracer with mirror reflections, hard shadows and a
flat BVH. Renders still frames, serves frames over HTTP or opens an
interactive viewer.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().Bool("vv", false, "enable even more verbose logging")
}

func setupLogging(cmd *cobra.Command) {
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		log.SetLevel(log.Info)
	}
	if vv, _ := cmd.Flags().GetBool("vv"); vv {
		log.SetLevel(log.Debug)
	}
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
