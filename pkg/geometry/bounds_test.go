package geometry

import (
	"math"
	"testing"
)

func TestBoundingBoxExtend(t *testing.T) {
	bbox := NewBoundingBox()

	bbox.Extend(NewVector3(1, 2, 3))
	bbox.Extend(NewVector3(4, 5, 6))
	bbox.Extend(NewVector3(-1, 0, 2))

	expectedMin := NewVector3(-1, 0, 2)
	expectedMax := NewVector3(4, 5, 6)

	if bbox.Min != expectedMin {
		t.Errorf("Min failed: expected %v, got %v", expectedMin, bbox.Min)
	}
	if bbox.Max != expectedMax {
		t.Errorf("Max failed: expected %v, got %v", expectedMax, bbox.Max)
	}
}

func TestBoundingBoxSize(t *testing.T) {
	bbox := NewBoundingBox()
	bbox.Extend(NewVector3(0, 0, 0))
	bbox.Extend(NewVector3(10, 20, 30))

	size := bbox.Size()
	expected := NewVector3(10, 20, 30)

	if size != expected {
		t.Errorf("Size failed: expected %v, got %v", expected, size)
	}
}

func TestBoundingBoxCenter(t *testing.T) {
	bbox := NewBoundingBox()
	bbox.Extend(NewVector3(0, 0, 0))
	bbox.Extend(NewVector3(10, 20, 30))

	center := bbox.Center()
	expected := NewVector3(5, 10, 15)

	if center != expected {
		t.Errorf("Center failed: expected %v, got %v", expected, center)
	}
}

func TestBoundingBoxVolume(t *testing.T) {
	bbox := NewBoundingBox()
	bbox.Extend(NewVector3(0, 0, 0))
	bbox.Extend(NewVector3(2, 3, 4))

	volume := bbox.Volume()
	expected := 24.0 // 2 * 3 * 4 = 24

	if math.Abs(volume-expected) > 1e-10 {
		t.Errorf("Volume failed: expected %v, got %v", expected, volume)
	}
}

func TestBoundingBoxEmpty(t *testing.T) {
	bbox := NewBoundingBox()

	if !bbox.IsEmpty() {
		t.Error("new bounding box should be empty")
	}
	if !bbox.IsDegenerate() {
		t.Error("empty bounding box should be degenerate")
	}
	if d := bbox.Diagonal(); d != 0 {
		t.Errorf("Diagonal failed: expected 0 for empty box, got %v", d)
	}
}

func TestBoundingBoxUnion(t *testing.T) {
	a := BoundsOf([]Vector3{NewVector3(0, 0, 0), NewVector3(1, 1, 1)})
	b := BoundsOf([]Vector3{NewVector3(-2, 0.5, 0), NewVector3(0.5, 3, 0.5)})

	u := a.Union(b)
	expected := BoundingBox{Min: NewVector3(-2, 0, 0), Max: NewVector3(1, 3, 1)}
	if u != expected {
		t.Errorf("Union failed: expected %v, got %v", expected, u)
	}

	if got := a.Union(NewBoundingBox()); got != a {
		t.Errorf("Union with empty box failed: expected %v, got %v", a, got)
	}
	if got := NewBoundingBox().Union(b); got != b {
		t.Errorf("Union of empty box failed: expected %v, got %v", b, got)
	}
}

func TestBoundingBoxBounds6(t *testing.T) {
	b := [6]float64{-1, 1, -2, 2, -3, 3}
	bbox := FromBounds6(b)

	if bbox.Min != NewVector3(-1, -2, -3) || bbox.Max != NewVector3(1, 2, 3) {
		t.Errorf("FromBounds6 failed: got %v", bbox)
	}
	if got := bbox.Bounds6(); got != b {
		t.Errorf("Bounds6 failed: expected %v, got %v", b, got)
	}
}

func TestBoundingBoxDegenerate(t *testing.T) {
	point := BoundsOf([]Vector3{NewVector3(1, 2, 3)})
	if !point.IsDegenerate() {
		t.Error("single point box should be degenerate")
	}
	if point.IsEmpty() {
		t.Error("single point box should not be empty")
	}

	// Flat in Z but spread in X is still usable
	planar := BoundsOf([]Vector3{NewVector3(0, 0, 0), NewVector3(2, 2, 0)})
	if planar.IsDegenerate() {
		t.Error("planar XY box should not be degenerate")
	}
}

func TestBoundingBoxDiagonal(t *testing.T) {
	bbox := FromBounds6([6]float64{-1, 1, -1, 1, -1, 1})

	expected := math.Sqrt(12)
	if math.Abs(bbox.Diagonal()-expected) > 1e-10 {
		t.Errorf("Diagonal failed: expected %v, got %v", expected, bbox.Diagonal())
	}
}
