package cmd

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

var scenesCmd = &cobra.Command{
	Use:   "scenes",
	Short: "List built-in and discovered OBJ scenes",
	Args:  cobra.NoArgs,
	RunE:  runScenes,
}

var scenesDir string

func init() {
	scenesCmd.Flags().StringVar(&scenesDir, "dir", scene.DefaultScenesDir, "directory scanned for OBJ scenes")
	rootCmd.AddCommand(scenesCmd)
}

func runScenes(cmd *cobra.Command, args []string) error {
	response, err := scene.ListAllScenes(scenesDir)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Group", "ID", "Name", "Description"})
	count := 0
	for _, group := range response.Groups {
		for _, info := range group.Scenes {
			table.Append([]string{group.Name, info.ID, info.DisplayName, info.Description})
			count++
		}
	}
	table.SetFooter([]string{"", "", "TOTAL", fmt.Sprintf("%d", count)})
	table.Render()
	return nil
}
