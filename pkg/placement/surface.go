package placement

import (
	"fmt"

	"github.com/philipparndt/segtag/pkg/geometry"
)

// Color is an RGB display color with components in [0, 1]
type Color struct {
	R, G, B float64
}

// White is the fixed label color used when segment colors are not applied
var White = Color{R: 1, G: 1, B: 1}

// Array returns the color as [r, g, b]
func (c Color) Array() [3]float64 {
	return [3]float64{c.R, c.G, c.B}
}

// String formats the color as a hex triplet
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", channel(c.R), channel(c.G), channel(c.B))
}

func channel(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}

// Surface is a read-only snapshot of one named segment's surface mesh.
// Points is the mesh point list in its file order; Bounds is the
// axis-aligned box of those points. Triangles and Area describe the mesh
// the points came from and are zero when it is not known.
type Surface struct {
	ID     string
	Name   string
	Color  Color
	Points []geometry.Vector3
	Bounds geometry.BoundingBox

	Triangles int
	Area      float64
}

// NewSurface creates a surface and derives its bounds from the points
func NewSurface(id, name string, color Color, points []geometry.Vector3) Surface {
	return Surface{
		ID:     id,
		Name:   name,
		Color:  color,
		Points: points,
		Bounds: geometry.BoundsOf(points),
	}
}

// IsEmpty reports whether the surface has no points
func (s Surface) IsEmpty() bool {
	return len(s.Points) == 0
}
