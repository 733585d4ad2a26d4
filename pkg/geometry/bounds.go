package geometry

import "math"

// BoundingBox represents an axis-aligned bounding box
type BoundingBox struct {
	Min Vector3
	Max Vector3
}

// NewBoundingBox creates an empty bounding box. Extending it with the
// first point collapses it onto that point.
func NewBoundingBox() BoundingBox {
	return BoundingBox{
		Min: Vector3{X: math.MaxFloat64, Y: math.MaxFloat64, Z: math.MaxFloat64},
		Max: Vector3{X: -math.MaxFloat64, Y: -math.MaxFloat64, Z: -math.MaxFloat64},
	}
}

// BoundsOf returns the bounding box of a point list
func BoundsOf(points []Vector3) BoundingBox {
	bbox := NewBoundingBox()
	for _, p := range points {
		bbox.Extend(p)
	}
	return bbox
}

// FromBounds6 builds a box from the six-scalar form
// (xmin, xmax, ymin, ymax, zmin, zmax).
func FromBounds6(b [6]float64) BoundingBox {
	return BoundingBox{
		Min: Vector3{X: b[0], Y: b[2], Z: b[4]},
		Max: Vector3{X: b[1], Y: b[3], Z: b[5]},
	}
}

// Bounds6 returns the box as (xmin, xmax, ymin, ymax, zmin, zmax)
func (b BoundingBox) Bounds6() [6]float64 {
	return [6]float64{b.Min.X, b.Max.X, b.Min.Y, b.Max.Y, b.Min.Z, b.Max.Z}
}

// Extend expands the bounding box to include a point
func (b *BoundingBox) Extend(point Vector3) {
	b.Min = b.Min.Min(point)
	b.Max = b.Max.Max(point)
}

// Union returns the smallest box containing both boxes. Empty boxes
// contribute nothing.
func (b BoundingBox) Union(other BoundingBox) BoundingBox {
	if other.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return other
	}
	return BoundingBox{Min: b.Min.Min(other.Min), Max: b.Max.Max(other.Max)}
}

// IsEmpty reports whether the box contains no points at all
func (b BoundingBox) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// IsDegenerate reports whether the box has no extent along X.
// Empty boxes are degenerate too.
func (b BoundingBox) IsDegenerate() bool {
	return b.Min.X >= b.Max.X
}

// Size returns the dimensions of the bounding box
func (b BoundingBox) Size() Vector3 {
	if b.IsEmpty() {
		return Vector3{}
	}
	return b.Max.Sub(b.Min)
}

// Center returns the center point of the bounding box
func (b BoundingBox) Center() Vector3 {
	return Vector3{
		X: 0.5 * (b.Min.X + b.Max.X),
		Y: 0.5 * (b.Min.Y + b.Max.Y),
		Z: 0.5 * (b.Min.Z + b.Max.Z),
	}
}

// Diagonal returns the length of the bounding box diagonal
func (b BoundingBox) Diagonal() float64 {
	size := b.Size()
	return size.Length()
}

// Volume returns the volume of the bounding box
func (b BoundingBox) Volume() float64 {
	size := b.Size()
	return size.X * size.Y * size.Z
}
