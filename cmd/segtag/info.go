package main

import (
	"fmt"

	"github.com/philipparndt/segtag/pkg/analysis"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info [manifest|dir]",
	Short: "Display information about a scene",
	Long:  "Show the scene bounds, the label reference point and the size of every segment.",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	m, surfaces, err := loadScene(cmd.Context(), newLoader(), args[0])
	if err != nil {
		return err
	}

	summary := analysis.SummarizeScene(surfaces)
	hidden := hiddenSet(m)
	w := cmd.OutOrStdout()

	printTitle(w, "Scene Information")
	printKeyValue(w, "Name", m.Name)
	if m.Path != "" {
		printKeyValue(w, "Manifest", m.Path)
	} else {
		printKeyValue(w, "Directory", m.Dir)
	}
	printKeyValue(w, "Segments", fmt.Sprintf("%d (%d empty)", summary.SegmentCount, summary.EmptyCount))
	printKeyValue(w, "Points", fmt.Sprintf("%d", summary.PointCount))
	printKeyValue(w, "Triangles", fmt.Sprintf("%d", summary.Triangles))
	printKeyValue(w, "Surface area", analysis.FormatMeasurement(summary.SurfaceArea, "square units"))
	printKeyValue(w, "Bounds", analysis.FormatBounds(summary.BoundingBox))
	printKeyValue(w, "Reference", analysis.FormatVector(summary.GlobalReference))
	fmt.Fprintln(w)

	for _, s := range summary.Segments {
		fmt.Fprintln(w, segmentLabel(s.Name, s.ID, s.Color))
		if s.Empty {
			printKeyValue(w, "Points", "0 (no label)")
			continue
		}
		printKeyValue(w, "Points", fmt.Sprintf("%d", s.PointCount))
		printKeyValue(w, "Triangles", fmt.Sprintf("%d", s.Triangles))
		printKeyValue(w, "Surface area", analysis.FormatMeasurement(s.SurfaceArea, "square units"))
		printKeyValue(w, "Bounds", analysis.FormatBounds(s.BoundingBox))
		printKeyValue(w, "Box volume", analysis.FormatMeasurement(s.BoxVolume, "cubic units"))
		printKeyValue(w, "Center", analysis.FormatVector(s.Center))
		printKeyValue(w, "Diagonal", analysis.FormatMeasurement(s.Diagonal, ""))
		printKeyValue(w, "Color", s.Color.String())
		if hidden[s.ID] {
			printKeyValue(w, "Visible", "no")
		}
	}
	return nil
}
