package memory

import (
	"errors"
	"sync"
	"time"

	"github.com/taskrelay/taskrelay/internal/domain"
)

type SessionStore struct {
	mu       sync.RWMutex
	sessions map[domain.SessionID]*domain.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[domain.SessionID]*domain.Session),
	}
}

func (s *SessionStore) CreateSession(session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[session.ID]; exists {
		return errors.New("session already exists")
	}

	cp := *session
	s.sessions[session.ID] = &cp
	return nil
}

// GetSession returns a snapshot copy so flag mutations stay behind the lock.
func (s *SessionStore) GetSession(id domain.SessionID) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	cp := *sess
	return &cp, nil
}

func (s *SessionStore) SetAuthenticated(id domain.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}

	sess.Authenticated = true
	return nil
}

// ClaimClockNotice flips ClockNoticeSent and reports whether this call was
// the one that flipped it. Atomic under the store lock, so exactly one
// caller per session ever sees true.
func (s *SessionStore) ClaimClockNotice(id domain.SessionID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return false, domain.ErrSessionNotFound
	}

	if sess.ClockNoticeSent {
		return false, nil
	}
	sess.ClockNoticeSent = true
	return true, nil
}

func (s *SessionStore) Touch(id domain.SessionID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}

	sess.UpdatedAt = at
	return nil
}
