package server

import (
	"sync"

	"github.com/google/uuid"

	apperrors "github.com/philipparndt/segtag/pkg/errors"
	"github.com/philipparndt/segtag/pkg/tags"
)

// entry guards one session; tags.Session itself is not synchronized.
type entry struct {
	mu      sync.Mutex
	session *tags.Session
}

type store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*entry
}

func newStore() *store {
	return &store{sessions: make(map[uuid.UUID]*entry)}
}

func (s *store) add(session *tags.Session) uuid.UUID {
	id := uuid.New()
	s.mu.Lock()
	s.sessions[id] = &entry{session: session}
	s.mu.Unlock()
	return id
}

func (s *store) get(raw string) (uuid.UUID, *entry, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid session id %q", raw)
	}

	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return uuid.Nil, nil, apperrors.New(apperrors.ErrCodeSessionNotFound, "session %s not found", id)
	}
	return id, e, nil
}

func (s *store) remove(raw string) error {
	id, _, err := s.get(raw)
	if err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

func (s *store) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
