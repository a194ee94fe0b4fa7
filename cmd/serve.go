package cmd

import (
	"github.com/spf13/cobra"

	"github.com/df07/go-whitted-raytracer/pkg/scene"
	"github.com/df07/go-whitted-raytracer/web/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve rendered frames over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.NewServer(servePort, serveScenesDir, serveWorkers).Start()
	},
}

var (
	servePort      int
	serveScenesDir string
	serveWorkers   int
)

func init() {
	flags := serveCmd.Flags()
	flags.IntVarP(&servePort, "port", "p", 8080, "port to serve on")
	flags.StringVar(&serveScenesDir, "scenes", scene.DefaultScenesDir, "directory scanned for OBJ scenes")
	flags.IntVar(&serveWorkers, "workers", 0, "worker goroutines per request (default number of CPUs)")
	rootCmd.AddCommand(serveCmd)
}
