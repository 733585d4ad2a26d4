// Package placement computes where floating segment labels go.
//
// Every segment gets an outward direction from the scene's global reference
// point (the center of the union of all segment bounds) to the center of its
// own bounds. The leader line starts at the surface point that lies farthest
// along that direction, and the text anchor sits further out by an offset
// that grows with the tag size and the segment's bounding-box diagonal.
//
// The computation is pure: identical inputs give bit-identical results.
package placement

import (
	"context"
	"math"
	"runtime"

	"github.com/philipparndt/segtag/pkg/geometry"
	"golang.org/x/sync/errgroup"
)

// Offset tuning. Changing either value moves every label.
const (
	TagSizeFactor  = 8.0
	DiagonalFactor = 0.2
)

// Result is the placement of a single segment label
type Result struct {
	SegmentID      string
	Name           string
	Color          Color
	LeaderStart    geometry.Vector3 // surface point farthest along Direction
	TextAnchor     geometry.Vector3 // LeaderStart + Direction*OffsetDistance
	Direction      geometry.Vector3 // unit vector
	OffsetDistance float64
}

// GlobalReference returns the center of the union of all surface bounds,
// or the origin when that union has no extent along X.
func GlobalReference(surfaces []Surface) geometry.Vector3 {
	union := geometry.NewBoundingBox()
	for _, s := range surfaces {
		union = union.Union(s.Bounds)
	}
	if union.IsDegenerate() {
		return geometry.Vector3{}
	}
	return union.Center()
}

// OffsetDistance is the distance between leader start and text anchor for
// a surface with the given bounding-box diagonal. A zero diagonal counts as 1.
func OffsetDistance(tagSize, diagonal float64) float64 {
	if diagonal == 0 {
		diagonal = 1.0
	}
	return tagSize*TagSizeFactor + diagonal*DiagonalFactor
}

// ComputePlacement places a label for every non-empty surface, in input
// order. Surfaces without points are left out of the result.
func ComputePlacement(surfaces []Surface, tagSize float64) []Result {
	reference := GlobalReference(surfaces)

	results := make([]Result, 0, len(surfaces))
	for _, s := range surfaces {
		if r, ok := Place(s, reference, tagSize); ok {
			results = append(results, r)
		}
	}
	return results
}

// Place computes the label placement of one surface relative to reference.
// It returns false for a surface without points.
func Place(s Surface, reference geometry.Vector3, tagSize float64) (Result, bool) {
	if s.IsEmpty() {
		return Result{}, false
	}

	center := s.Bounds.Center()
	direction := center.Sub(reference).NormalizeOr(geometry.UnitZ)
	leaderStart := farthestPoint(s.Points, reference, direction, center)
	offset := OffsetDistance(tagSize, s.Bounds.Diagonal())

	return Result{
		SegmentID:      s.ID,
		Name:           s.Name,
		Color:          s.Color,
		LeaderStart:    leaderStart,
		TextAnchor:     leaderStart.Add(direction.Mul(offset)),
		Direction:      direction,
		OffsetDistance: offset,
	}, true
}

// farthestPoint scans every point and keeps the first one with the largest
// projection of (point - reference) onto direction. Points whose projection
// is NaN never win; fallback is returned if no point does.
func farthestPoint(points []geometry.Vector3, reference, direction, fallback geometry.Vector3) geometry.Vector3 {
	best := fallback
	maxProj := math.Inf(-1)
	for _, p := range points {
		proj := p.Sub(reference).Dot(direction)
		if proj > maxProj {
			maxProj = proj
			best = p
		}
	}
	return best
}

// ComputePlacementParallel is ComputePlacement with the per-surface scans
// spread over at most workers goroutines (GOMAXPROCS when workers <= 0).
// The result is identical to ComputePlacement.
func ComputePlacementParallel(ctx context.Context, surfaces []Surface, tagSize float64, workers int) ([]Result, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	reference := GlobalReference(surfaces)

	placed := make([]Result, len(surfaces))
	ok := make([]bool, len(surfaces))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range surfaces {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			placed[i], ok[i] = Place(surfaces[i], reference, tagSize)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(surfaces))
	for i, r := range placed {
		if ok[i] {
			results = append(results, r)
		}
	}
	return results, nil
}
