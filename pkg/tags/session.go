// Package tags keeps the label state of one annotated scene.
//
// A Session owns the current segment surfaces, the tag size, the global
// on/off flag and the per-segment visibility ("eye") flags, and turns
// placement results into Tag descriptors that a viewer can draw as a text
// glyph plus a leader line. Sessions are plain values owned by the caller;
// they are not safe for concurrent use.
package tags

import (
	apperrors "github.com/philipparndt/segtag/pkg/errors"
	"github.com/philipparndt/segtag/pkg/geometry"
	"github.com/philipparndt/segtag/pkg/placement"
)

// DefaultSize is the tag size of a new session
const DefaultSize = 5.0

var (
	// ErrNoSegments is returned when tags are requested for an empty scene.
	ErrNoSegments = apperrors.New(apperrors.ErrCodeNoSegments, "no segments found")

	// ErrNoTags is returned when every segment surface is empty.
	ErrNoTags = apperrors.New(apperrors.ErrCodeNoSegments, "no tags created: all segment surfaces are empty")
)

// Options control how tags are colored
type Options struct {
	UseSegmentColor bool            // color text and line with the segment color
	FixedColor      placement.Color // used when UseSegmentColor is false
}

// DefaultOptions returns white labels
func DefaultOptions() Options {
	return Options{FixedColor: placement.White}
}

// Tag describes one label: the text glyph at TextAnchor, scaled by Scale,
// and a leader line from LeaderStart to TextAnchor.
type Tag struct {
	SegmentID   string
	Text        string
	Color       placement.Color
	LeaderStart geometry.Vector3
	TextAnchor  geometry.Vector3
	Scale       float64
	Visible     bool
}

// Session holds the tag state of one scene
type Session struct {
	opts     Options
	surfaces []placement.Surface
	size     float64
	visible  bool
	hidden   map[string]bool // segment ids switched off individually
	results  map[string]placement.Result
	order    []string // segment ids of results in surface order
}

// NewSession creates a session without tags
func NewSession(opts Options) *Session {
	return &Session{
		opts:    opts,
		size:    DefaultSize,
		hidden:  make(map[string]bool),
		results: make(map[string]placement.Result),
	}
}

// SetSurfaces replaces the segment set. Existing tags are recomputed for
// the new geometry at the current size; the returned count is the number
// of tags afterwards.
func (s *Session) SetSurfaces(surfaces []placement.Surface) int {
	s.surfaces = append([]placement.Surface(nil), surfaces...)
	if !s.HasTags() {
		return 0
	}
	s.place(s.size)
	return len(s.order)
}

// Surfaces returns the current segment set
func (s *Session) Surfaces() []placement.Surface {
	return s.surfaces
}

// Create discards all tags and places a new one for every non-empty
// segment at the given size. Tags are switched on afterwards.
func (s *Session) Create(size float64) (int, error) {
	s.clear()
	if len(s.surfaces) == 0 {
		return 0, ErrNoSegments
	}

	s.size = size
	s.place(size)
	if len(s.order) == 0 {
		return 0, ErrNoTags
	}
	s.visible = true
	return len(s.order), nil
}

// Toggle switches tags on or off. When no tags exist yet they are created
// at the current size. It returns the new on/off state.
func (s *Session) Toggle() (bool, error) {
	if !s.HasTags() {
		if _, err := s.Create(s.size); err != nil {
			return false, err
		}
		return s.visible, nil
	}
	s.visible = !s.visible
	return s.visible, nil
}

// ChangeSize sets the tag size. Existing tags are placed again since the
// label offset depends on the size.
func (s *Session) ChangeSize(size float64) {
	s.size = size
	if s.HasTags() {
		s.place(size)
	}
}

// Size returns the current tag size
func (s *Session) Size() float64 {
	return s.size
}

// Visible reports the global on/off flag
func (s *Session) Visible() bool {
	return s.visible
}

// HasTags reports whether tags have been created
func (s *Session) HasTags() bool {
	return len(s.order) > 0
}

// SetSegmentVisible sets the visibility of one segment. A tag is shown
// only when both the segment and the global flag are on.
func (s *Session) SetSegmentVisible(segmentID string, visible bool) {
	if visible {
		delete(s.hidden, segmentID)
		return
	}
	s.hidden[segmentID] = true
}

// SegmentVisible reports the visibility of one segment
func (s *Session) SegmentVisible(segmentID string) bool {
	return !s.hidden[segmentID]
}

// Result returns the placement of a segment's tag
func (s *Session) Result(segmentID string) (placement.Result, bool) {
	r, ok := s.results[segmentID]
	return r, ok
}

// Tags returns the tag descriptors in segment order
func (s *Session) Tags() []Tag {
	tags := make([]Tag, 0, len(s.order))
	for _, id := range s.order {
		r := s.results[id]
		color := s.opts.FixedColor
		if s.opts.UseSegmentColor {
			color = r.Color
		}
		tags = append(tags, Tag{
			SegmentID:   id,
			Text:        r.Name,
			Color:       color,
			LeaderStart: r.LeaderStart,
			TextAnchor:  r.TextAnchor,
			Scale:       s.size,
			Visible:     s.visible && !s.hidden[id],
		})
	}
	return tags
}

// Status returns the summary shown to the user
func (s *Session) Status() Status {
	switch {
	case !s.HasTags():
		return StatusNoTags
	case s.visible:
		return StatusOn
	default:
		return StatusOff
	}
}

func (s *Session) clear() {
	s.results = make(map[string]placement.Result)
	s.order = nil
}

func (s *Session) place(size float64) {
	s.clear()
	for _, r := range placement.ComputePlacement(s.surfaces, size) {
		if _, dup := s.results[r.SegmentID]; !dup {
			s.order = append(s.order, r.SegmentID)
		}
		s.results[r.SegmentID] = r
	}
}
