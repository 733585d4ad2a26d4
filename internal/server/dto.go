package server

import (
	"fmt"

	apperrors "github.com/philipparndt/segtag/pkg/errors"
	"github.com/philipparndt/segtag/pkg/geometry"
	"github.com/philipparndt/segtag/pkg/placement"
	"github.com/philipparndt/segtag/pkg/tags"
)

type surfaceRequest struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Color  []float64    `json:"color,omitempty"`
	Points [][3]float64 `json:"points"`

	// Bounds overrides the box derived from the points, given as
	// (xmin, xmax, ymin, ymax, zmin, zmax).
	Bounds *[6]float64 `json:"bounds,omitempty"`
}

type placementRequest struct {
	TagSize  *float64         `json:"tag_size,omitempty"`
	Surfaces []surfaceRequest `json:"surfaces"`
}

type createSessionRequest struct {
	Surfaces        []surfaceRequest `json:"surfaces"`
	TagSize         *float64         `json:"tag_size,omitempty"`
	UseSegmentColor bool             `json:"use_segment_color"`
}

type sizeRequest struct {
	Size   *float64 `json:"size,omitempty"`
	Preset string   `json:"preset,omitempty"`
}

type visibilityRequest struct {
	Visible *bool `json:"visible"`
}

type resultResponse struct {
	SegmentID      string     `json:"segment_id"`
	Name           string     `json:"name"`
	Color          [3]float64 `json:"color"`
	LeaderStart    [3]float64 `json:"leader_start"`
	TextAnchor     [3]float64 `json:"text_anchor"`
	Direction      [3]float64 `json:"direction"`
	OffsetDistance float64    `json:"offset_distance"`
}

type placementResponse struct {
	GlobalReference [3]float64       `json:"global_reference"`
	Results         []resultResponse `json:"results"`
}

type tagResponse struct {
	SegmentID   string     `json:"segment_id"`
	Text        string     `json:"text"`
	Color       [3]float64 `json:"color"`
	LeaderStart [3]float64 `json:"leader_start"`
	TextAnchor  [3]float64 `json:"text_anchor"`
	Scale       float64    `json:"scale"`
	Visible     bool       `json:"visible"`
}

type sessionResponse struct {
	ID       string        `json:"id"`
	Status   string        `json:"status"`
	Size     float64       `json:"size"`
	Visible  bool          `json:"visible"`
	Segments int           `json:"segments"`
	Tags     []tagResponse `json:"tags"`
}

type errorResponse struct {
	Code    apperrors.Code `json:"code"`
	Message string         `json:"message"`
}

// toSurfaces validates request surfaces. Ids default to the name, then to
// the position, and must be unique.
func toSurfaces(in []surfaceRequest) ([]placement.Surface, error) {
	surfaces := make([]placement.Surface, 0, len(in))
	seen := make(map[string]bool, len(in))

	for i, s := range in {
		id := s.ID
		if id == "" {
			id = s.Name
		}
		if id == "" {
			id = fmt.Sprintf("segment-%d", i+1)
		}
		if seen[id] {
			return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "duplicate segment id %q", id)
		}
		seen[id] = true

		name := s.Name
		if name == "" {
			name = id
		}

		color := placement.White
		if s.Color != nil {
			if len(s.Color) != 3 {
				return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "segment %q: color needs 3 components, got %d", id, len(s.Color))
			}
			for _, c := range s.Color {
				if c < 0 || c > 1 {
					return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "segment %q: color component %v outside [0, 1]", id, c)
				}
			}
			color = placement.Color{R: s.Color[0], G: s.Color[1], B: s.Color[2]}
		}

		points := make([]geometry.Vector3, len(s.Points))
		for j, p := range s.Points {
			points[j] = geometry.FromArray(p)
		}
		surface := placement.NewSurface(id, name, color, points)
		if s.Bounds != nil {
			b := *s.Bounds
			for axis := 0; axis < 6; axis += 2 {
				if !(b[axis] <= b[axis+1]) {
					return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "segment %q: bounds min %v exceeds max %v", id, b[axis], b[axis+1])
				}
			}
			surface.Bounds = geometry.FromBounds6(b)
		}
		surfaces = append(surfaces, surface)
	}
	return surfaces, nil
}

// validSize accepts zero, which places every label at the bare diagonal
// offset.
func validSize(size float64) error {
	if !(size >= 0) {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "tag size must not be negative, got %v", size)
	}
	return nil
}

func toResultResponse(r placement.Result) resultResponse {
	return resultResponse{
		SegmentID:      r.SegmentID,
		Name:           r.Name,
		Color:          r.Color.Array(),
		LeaderStart:    r.LeaderStart.Array(),
		TextAnchor:     r.TextAnchor.Array(),
		Direction:      r.Direction.Array(),
		OffsetDistance: r.OffsetDistance,
	}
}

func toSessionResponse(id string, s *tags.Session) sessionResponse {
	all := s.Tags()
	out := make([]tagResponse, len(all))
	for i, t := range all {
		out[i] = tagResponse{
			SegmentID:   t.SegmentID,
			Text:        t.Text,
			Color:       t.Color.Array(),
			LeaderStart: t.LeaderStart.Array(),
			TextAnchor:  t.TextAnchor.Array(),
			Scale:       t.Scale,
			Visible:     t.Visible,
		}
	}
	return sessionResponse{
		ID:       id,
		Status:   s.Status().String(),
		Size:     s.Size(),
		Visible:  s.Visible(),
		Segments: len(s.Surfaces()),
		Tags:     out,
	}
}
