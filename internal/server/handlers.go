package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/philipparndt/segtag/pkg/errors"
	"github.com/philipparndt/segtag/pkg/placement"
	"github.com/philipparndt/segtag/pkg/tags"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.store.len(),
	})
}

func (s *Server) handlePlacements(w http.ResponseWriter, r *http.Request) {
	var req placementRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	size := s.opts.TagSize
	if req.TagSize != nil {
		size = *req.TagSize
	}
	if err := validSize(size); err != nil {
		s.writeError(w, err)
		return
	}
	surfaces, err := toSurfaces(req.Surfaces)
	if err != nil {
		s.writeError(w, err)
		return
	}

	results := placement.ComputePlacement(surfaces, size)
	resp := placementResponse{
		GlobalReference: placement.GlobalReference(surfaces).Array(),
		Results:         make([]resultResponse, len(results)),
	}
	for i, res := range results {
		resp.Results[i] = toResultResponse(res)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	surfaces, err := toSurfaces(req.Surfaces)
	if err != nil {
		s.writeError(w, err)
		return
	}

	size := s.opts.TagSize
	if req.TagSize != nil {
		if err := validSize(*req.TagSize); err != nil {
			s.writeError(w, err)
			return
		}
		size = *req.TagSize
	}

	opts := s.opts.Tags
	if req.UseSegmentColor {
		opts.UseSegmentColor = true
	}
	session := tags.NewSession(opts)
	session.ChangeSize(size)
	session.SetSurfaces(surfaces)

	id := s.store.add(session)
	s.log.Info("session created", zap.String("id", id.String()), zap.Int("segments", len(surfaces)))
	s.writeJSON(w, http.StatusCreated, toSessionResponse(id.String(), session))
}

// withSession runs fn with the session locked and responds with its state
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(*tags.Session) error) {
	id, e, err := s.store.get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if fn != nil {
		if err := fn(e.session); err != nil {
			s.writeError(w, err)
			return
		}
	}
	s.writeJSON(w, http.StatusOK, toSessionResponse(id.String(), e.session))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, nil)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.store.remove(chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(session *tags.Session) error {
		_, err := session.Toggle()
		return err
	})
}

func (s *Server) handleCreateTags(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(session *tags.Session) error {
		_, err := session.Create(session.Size())
		return err
	})
}

func (s *Server) handleSize(w http.ResponseWriter, r *http.Request) {
	var req sizeRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	var size float64
	switch {
	case req.Size != nil && req.Preset != "":
		s.writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "size and preset are mutually exclusive"))
		return
	case req.Size != nil:
		size = *req.Size
	case req.Preset != "":
		p, err := tags.PresetSize(req.Preset)
		if err != nil {
			s.writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid preset"))
			return
		}
		size = p
	default:
		s.writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "size or preset is required"))
		return
	}
	if err := validSize(size); err != nil {
		s.writeError(w, err)
		return
	}

	s.withSession(w, r, func(session *tags.Session) error {
		session.ChangeSize(size)
		return nil
	})
}

func (s *Server) handleVisibility(w http.ResponseWriter, r *http.Request) {
	var req visibilityRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Visible == nil {
		s.writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "visible is required"))
		return
	}

	segment := chi.URLParam(r, "segment")
	s.withSession(w, r, func(session *tags.Session) error {
		if !hasSegment(session, segment) {
			return apperrors.New(apperrors.ErrCodeSegmentNotFound, "segment %q not found", segment)
		}
		session.SetSegmentVisible(segment, *req.Visible)
		return nil
	})
}

func hasSegment(session *tags.Session, id string) bool {
	for _, s := range session.Surfaces() {
		if s.ID == id {
			return true
		}
	}
	return false
}
