package server

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/philipparndt/segtag/pkg/errors"
	"github.com/philipparndt/segtag/pkg/tags"
)

func cube(min, max [3]float64) [][3]float64 {
	var pts [][3]float64
	for _, z := range []float64{min[2], max[2]} {
		for _, y := range []float64{min[1], max[1]} {
			for _, x := range []float64{min[0], max[0]} {
				pts = append(pts, [3]float64{x, y, z})
			}
		}
	}
	return pts
}

func twoCubes() []surfaceRequest {
	return []surfaceRequest{
		{ID: "left", Name: "Left", Color: []float64{1, 0, 0}, Points: cube([3]float64{-3, -1, -1}, [3]float64{-1, 1, 1})},
		{ID: "right", Name: "Right", Points: cube([3]float64{1, -1, -1}, [3]float64{3, 1, 1})},
	}
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return v
}

func createSession(t *testing.T, s *Server, req createSessionRequest) sessionResponse {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/v1/sessions", req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	return decodeBody[sessionResponse](t, rec)
}

func TestHealth(t *testing.T) {
	s := New(Options{}, nil)
	rec := do(t, s, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
}

func TestPlacements(t *testing.T) {
	s := New(Options{}, nil)
	rec := do(t, s, http.MethodPost, "/v1/placements", placementRequest{TagSize: ptr(5.0), Surfaces: twoCubes()})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	resp := decodeBody[placementResponse](t, rec)
	if resp.GlobalReference != [3]float64{0, 0, 0} {
		t.Errorf("expected global reference at origin, got %v", resp.GlobalReference)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(resp.Results))
	}

	left := resp.Results[0]
	if left.SegmentID != "left" {
		t.Errorf("expected first result for left, got %s", left.SegmentID)
	}
	if left.Direction != [3]float64{-1, 0, 0} {
		t.Errorf("expected direction (-1,0,0), got %v", left.Direction)
	}
	if left.LeaderStart != [3]float64{-3, -1, -1} {
		t.Errorf("expected leader start (-3,-1,-1), got %v", left.LeaderStart)
	}
	if left.Color != [3]float64{1, 0, 0} {
		t.Errorf("expected red, got %v", left.Color)
	}
	expectedOffset := 40 + math.Sqrt(12)*0.2
	if math.Abs(left.OffsetDistance-expectedOffset) > 1e-10 {
		t.Errorf("expected offset %v, got %v", expectedOffset, left.OffsetDistance)
	}

	right := resp.Results[1]
	if right.Color != [3]float64{1, 1, 1} {
		t.Errorf("expected default white, got %v", right.Color)
	}
}

func TestPlacementsEmptySurfaceSkipped(t *testing.T) {
	s := New(Options{}, nil)
	surfaces := append(twoCubes(), surfaceRequest{ID: "empty"})
	rec := do(t, s, http.MethodPost, "/v1/placements", placementRequest{TagSize: ptr(3.0), Surfaces: surfaces})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	resp := decodeBody[placementResponse](t, rec)
	if len(resp.Results) != 2 {
		t.Errorf("expected 2 results, got %d", len(resp.Results))
	}
}

func TestPlacementsTagSize(t *testing.T) {
	s := New(Options{TagSize: 5}, nil)
	diagonal := math.Sqrt(12) * 0.2

	tests := []struct {
		name     string
		tagSize  *float64
		expected float64
	}{
		{"omitted uses server default", nil, 40 + diagonal},
		{"zero", ptr(0.0), diagonal},
		{"explicit", ptr(1.0), 8 + diagonal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/v1/placements", placementRequest{TagSize: tt.tagSize, Surfaces: twoCubes()})
			if rec.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
			}
			resp := decodeBody[placementResponse](t, rec)
			if len(resp.Results) != 2 {
				t.Fatalf("expected 2 results, got %d", len(resp.Results))
			}
			if got := resp.Results[0].OffsetDistance; math.Abs(got-tt.expected) > 1e-10 {
				t.Errorf("expected offset %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestPlacementsSuppliedBounds(t *testing.T) {
	s := New(Options{}, nil)
	surfaces := twoCubes()
	surfaces[1].Bounds = &[6]float64{1, 3, -1, 1, 3, 5}

	rec := do(t, s, http.MethodPost, "/v1/placements", placementRequest{TagSize: ptr(1.0), Surfaces: surfaces})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeBody[placementResponse](t, rec)
	if resp.GlobalReference != [3]float64{0, 0, 2} {
		t.Errorf("expected global reference (0,0,2), got %v", resp.GlobalReference)
	}

	right := resp.Results[1].Direction
	h := 1 / math.Sqrt2
	if math.Abs(right[0]-h) > 1e-10 || right[1] != 0 || math.Abs(right[2]-h) > 1e-10 {
		t.Errorf("expected direction (%v,0,%v), got %v", h, h, right)
	}
	left := resp.Results[0].Direction
	if math.Abs(left[0]+h) > 1e-10 || left[1] != 0 || math.Abs(left[2]+h) > 1e-10 {
		t.Errorf("expected direction (%v,0,%v), got %v", -h, -h, left)
	}
}

func TestPlacementsInvalid(t *testing.T) {
	s := New(Options{}, nil)

	tests := []struct {
		name string
		body any
	}{
		{"negative size", placementRequest{TagSize: ptr(-1.0), Surfaces: twoCubes()}},
		{"inverted bounds", placementRequest{Surfaces: []surfaceRequest{{ID: "a", Points: [][3]float64{{0, 0, 0}}, Bounds: &[6]float64{1, 0, 0, 1, 0, 1}}}}},
		{"bad color", placementRequest{TagSize: ptr(5.0), Surfaces: []surfaceRequest{{ID: "a", Color: []float64{1, 2}}}}},
		{"color range", placementRequest{TagSize: ptr(5.0), Surfaces: []surfaceRequest{{ID: "a", Color: []float64{1, 2, 0}}}}},
		{"duplicate id", placementRequest{TagSize: ptr(5.0), Surfaces: []surfaceRequest{{ID: "a"}, {ID: "a"}}}},
		{"unknown field", map[string]any{"tag_size": 5, "bogus": true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/v1/placements", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", rec.Code)
			}
			resp := decodeBody[errorResponse](t, rec)
			if resp.Code != apperrors.ErrCodeInvalidInput {
				t.Errorf("expected code %s, got %s", apperrors.ErrCodeInvalidInput, resp.Code)
			}
		})
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := New(Options{Tags: tags.DefaultOptions()}, nil)

	created := createSession(t, s, createSessionRequest{Surfaces: twoCubes()})
	if created.Status != "Click to create tags" {
		t.Errorf("expected no-tags status, got %q", created.Status)
	}
	if created.Size != tags.DefaultSize {
		t.Errorf("expected default size, got %v", created.Size)
	}
	if created.Segments != 2 {
		t.Errorf("expected 2 segments, got %d", created.Segments)
	}
	base := "/v1/sessions/" + created.ID

	// first toggle creates tags
	rec := do(t, s, http.MethodPost, base+"/toggle", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle: expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	state := decodeBody[sessionResponse](t, rec)
	if state.Status != "Tags ON" || len(state.Tags) != 2 {
		t.Fatalf("expected 2 visible tags, got %q with %d tags", state.Status, len(state.Tags))
	}
	for _, tag := range state.Tags {
		if tag.Color != [3]float64{1, 1, 1} {
			t.Errorf("expected white tag, got %v", tag.Color)
		}
	}

	rec = do(t, s, http.MethodPost, base+"/toggle", nil)
	state = decodeBody[sessionResponse](t, rec)
	if state.Status != "Tags OFF" {
		t.Errorf("expected Tags OFF, got %q", state.Status)
	}
	for _, tag := range state.Tags {
		if tag.Visible {
			t.Errorf("expected tag %s hidden while tags are off", tag.SegmentID)
		}
	}

	rec = do(t, s, http.MethodPost, base+"/toggle", nil)
	state = decodeBody[sessionResponse](t, rec)
	if state.Status != "Tags ON" {
		t.Errorf("expected Tags ON, got %q", state.Status)
	}

	// per-segment visibility
	rec = do(t, s, http.MethodPut, base+"/segments/left/visibility", visibilityRequest{Visible: ptr(false)})
	if rec.Code != http.StatusOK {
		t.Fatalf("visibility: expected status 200, got %d", rec.Code)
	}
	state = decodeBody[sessionResponse](t, rec)
	if state.Tags[0].Visible || !state.Tags[1].Visible {
		t.Errorf("expected only right tag visible, got %+v", state.Tags)
	}

	// size change moves the anchors
	before := state.Tags[1].TextAnchor
	rec = do(t, s, http.MethodPut, base+"/size", sizeRequest{Preset: "xl"})
	if rec.Code != http.StatusOK {
		t.Fatalf("size: expected status 200, got %d", rec.Code)
	}
	state = decodeBody[sessionResponse](t, rec)
	if state.Size != 10 {
		t.Errorf("expected size 10, got %v", state.Size)
	}
	if state.Tags[1].Scale != 10 {
		t.Errorf("expected scale 10, got %v", state.Tags[1].Scale)
	}
	if state.Tags[1].TextAnchor == before {
		t.Error("expected text anchor to move after size change")
	}
	if state.Tags[0].Visible {
		t.Error("expected left tag to stay hidden after size change")
	}

	rec = do(t, s, http.MethodGet, base, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: expected status 200, got %d", rec.Code)
	}

	rec = do(t, s, http.MethodDelete, base, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: expected status 204, got %d", rec.Code)
	}
	rec = do(t, s, http.MethodGet, base, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404 after delete, got %d", rec.Code)
	}
}

func TestSessionSegmentColors(t *testing.T) {
	s := New(Options{Tags: tags.DefaultOptions()}, nil)
	created := createSession(t, s, createSessionRequest{Surfaces: twoCubes(), TagSize: ptr(3.0), UseSegmentColor: true})

	rec := do(t, s, http.MethodPost, "/v1/sessions/"+created.ID+"/create", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	state := decodeBody[sessionResponse](t, rec)
	if state.Tags[0].Color != [3]float64{1, 0, 0} {
		t.Errorf("expected segment color, got %v", state.Tags[0].Color)
	}
	if state.Tags[0].Scale != 3 {
		t.Errorf("expected scale 3, got %v", state.Tags[0].Scale)
	}
}

func TestSessionWithoutSegments(t *testing.T) {
	s := New(Options{}, nil)
	created := createSession(t, s, createSessionRequest{})

	rec := do(t, s, http.MethodPost, "/v1/sessions/"+created.ID+"/toggle", nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", rec.Code)
	}
	resp := decodeBody[errorResponse](t, rec)
	if resp.Message != "no segments found" {
		t.Errorf("expected 'no segments found', got %q", resp.Message)
	}
}

func TestSessionErrors(t *testing.T) {
	s := New(Options{}, nil)
	created := createSession(t, s, createSessionRequest{Surfaces: twoCubes()})
	base := "/v1/sessions/" + created.ID

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"malformed id", http.MethodGet, "/v1/sessions/not-a-uuid", nil, http.StatusBadRequest},
		{"unknown id", http.MethodGet, "/v1/sessions/6f1c1f3e-8d4b-4a55-9a43-2a1f0b5c7e11", nil, http.StatusNotFound},
		{"unknown segment", http.MethodPut, base + "/segments/nope/visibility", visibilityRequest{Visible: ptr(true)}, http.StatusNotFound},
		{"missing visible", http.MethodPut, base + "/segments/left/visibility", map[string]any{}, http.StatusBadRequest},
		{"unknown preset", http.MethodPut, base + "/size", sizeRequest{Preset: "XXL"}, http.StatusBadRequest},
		{"negative size", http.MethodPut, base + "/size", sizeRequest{Size: ptr(-1.0)}, http.StatusBadRequest},
		{"size and preset", http.MethodPut, base + "/size", sizeRequest{Size: ptr(3.0), Preset: "S"}, http.StatusBadRequest},
		{"empty size", http.MethodPut, base + "/size", sizeRequest{}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, tt.method, tt.path, tt.body)
			if rec.Code != tt.status {
				t.Errorf("expected status %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
		})
	}
}

func ptr[T any](v T) *T {
	return &v
}
