package main

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"

	"github.com/philipparndt/segtag/pkg/analysis"
	"github.com/philipparndt/segtag/pkg/geometry"
	"github.com/philipparndt/segtag/pkg/placement"
	"github.com/spf13/cobra"
)

var placeCmd = &cobra.Command{
	Use:   "place [manifest|dir]",
	Short: "Compute label positions for every segment",
	Long: `Compute the leader line start and text anchor of every segment's label.
Segments without surface points get no label.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlace,
}

func init() {
	addSizeFlags(placeCmd)
	placeCmd.Flags().Bool("json", false, "print results as JSON")
	placeCmd.Flags().Int("workers", runtime.GOMAXPROCS(0), "number of segments placed concurrently")
	rootCmd.AddCommand(placeCmd)
}

type placeOutput struct {
	Scene           string        `json:"scene"`
	TagSize         float64       `json:"tag_size"`
	GlobalReference [3]float64    `json:"global_reference"`
	Results         []placeResult `json:"results"`
}

type placeResult struct {
	SegmentID      string     `json:"segment_id"`
	Name           string     `json:"name"`
	Color          string     `json:"color"`
	Visible        bool       `json:"visible"`
	LeaderStart    [3]float64 `json:"leader_start"`
	TextAnchor     [3]float64 `json:"text_anchor"`
	Direction      [3]float64 `json:"direction"`
	OffsetDistance float64    `json:"offset_distance"`
}

func runPlace(cmd *cobra.Command, args []string) error {
	size, err := tagSize(cmd)
	if err != nil {
		return err
	}
	workers, _ := cmd.Flags().GetInt("workers")
	asJSON, _ := cmd.Flags().GetBool("json")

	m, surfaces, err := loadScene(cmd.Context(), newLoader(), args[0])
	if err != nil {
		return err
	}

	results, err := placement.ComputePlacementParallel(cmd.Context(), surfaces, size, workers)
	if err != nil {
		return err
	}

	hidden := hiddenSet(m)
	out := placeOutput{
		Scene:           m.Name,
		TagSize:         size,
		GlobalReference: placement.GlobalReference(surfaces).Array(),
		Results:         make([]placeResult, len(results)),
	}
	for i, r := range results {
		out.Results[i] = placeResult{
			SegmentID:      r.SegmentID,
			Name:           r.Name,
			Color:          r.Color.String(),
			Visible:        !hidden[r.SegmentID],
			LeaderStart:    r.LeaderStart.Array(),
			TextAnchor:     r.TextAnchor.Array(),
			Direction:      r.Direction.Array(),
			OffsetDistance: r.OffsetDistance,
		}
	}

	w := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	printPlacements(w, out, results)
	return nil
}

func printPlacements(w io.Writer, out placeOutput, results []placement.Result) {
	if len(results) == 0 {
		printWarning(w, "no segments found")
		return
	}

	printTitle(w, fmt.Sprintf("Labels for %s", out.Scene))
	printKeyValue(w, "Tag size", fmt.Sprintf("%g", out.TagSize))
	printKeyValue(w, "Reference", analysis.FormatVector(geometry.FromArray(out.GlobalReference)))
	fmt.Fprintln(w)

	for i, r := range results {
		fmt.Fprintln(w, segmentLabel(r.Name, r.SegmentID, r.Color))
		printKeyValue(w, "Leader start", analysis.FormatVector(r.LeaderStart))
		printKeyValue(w, "Text anchor", analysis.FormatVector(r.TextAnchor))
		printKeyValue(w, "Direction", analysis.FormatVector(r.Direction))
		printKeyValue(w, "Offset", analysis.FormatMeasurement(r.OffsetDistance, ""))
		if !out.Results[i].Visible {
			printKeyValue(w, "Visible", "no")
		}
		fmt.Fprintln(w)
	}
}
