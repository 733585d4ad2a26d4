package analysis

import (
	"fmt"

	"github.com/philipparndt/segtag/pkg/geometry"
	"github.com/philipparndt/segtag/pkg/placement"
)

// SegmentInfo contains information about one segment surface
type SegmentInfo struct {
	ID          string
	Name        string
	Color       placement.Color
	PointCount  int
	Triangles   int
	SurfaceArea float64
	BoundingBox geometry.BoundingBox
	BoxVolume   float64
	Center      geometry.Vector3
	Diagonal    float64
	Empty       bool
}

// SceneSummary contains the measurements that drive label placement
type SceneSummary struct {
	BoundingBox     geometry.BoundingBox
	GlobalReference geometry.Vector3
	SegmentCount    int
	EmptyCount      int
	PointCount      int
	Triangles       int
	SurfaceArea     float64
	Segments        []SegmentInfo
}

// SummarizeScene measures every surface and the scene as a whole
func SummarizeScene(surfaces []placement.Surface) *SceneSummary {
	summary := &SceneSummary{
		BoundingBox:     geometry.NewBoundingBox(),
		GlobalReference: placement.GlobalReference(surfaces),
		SegmentCount:    len(surfaces),
		Segments:        make([]SegmentInfo, 0, len(surfaces)),
	}

	for _, s := range surfaces {
		summary.BoundingBox = summary.BoundingBox.Union(s.Bounds)
		summary.PointCount += len(s.Points)
		summary.Triangles += s.Triangles
		summary.SurfaceArea += s.Area
		if s.IsEmpty() {
			summary.EmptyCount++
		}

		summary.Segments = append(summary.Segments, SegmentInfo{
			ID:          s.ID,
			Name:        s.Name,
			Color:       s.Color,
			PointCount:  len(s.Points),
			Triangles:   s.Triangles,
			SurfaceArea: s.Area,
			BoundingBox: s.Bounds,
			Center:      s.Bounds.Center(),
			BoxVolume:   s.Bounds.Volume(),
			Diagonal:    s.Bounds.Diagonal(),
			Empty:       s.IsEmpty(),
		})
	}

	return summary
}

// FormatMeasurement formats a measurement with appropriate units
func FormatMeasurement(value float64, unit string) string {
	if unit == "" {
		unit = "units"
	}
	return fmt.Sprintf("%.6f %s", value, unit)
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}

// FormatBounds formats a box in the six-scalar form
func FormatBounds(b geometry.BoundingBox) string {
	if b.IsEmpty() {
		return "(empty)"
	}
	v := b.Bounds6()
	return fmt.Sprintf("[%.3f, %.3f] x [%.3f, %.3f] x [%.3f, %.3f]", v[0], v[1], v[2], v[3], v[4], v[5])
}
