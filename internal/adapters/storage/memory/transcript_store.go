package memory

import (
	"sync"

	"github.com/taskrelay/taskrelay/internal/domain"
)

type TranscriptStore struct {
	mu    sync.RWMutex
	turns map[domain.SessionID][]*domain.Turn
}

func NewTranscriptStore() *TranscriptStore {
	return &TranscriptStore{
		turns: make(map[domain.SessionID][]*domain.Turn),
	}
}

func (s *TranscriptStore) AppendTurn(turn *domain.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns[turn.SessionID] = append(s.turns[turn.SessionID], turn)
	return nil
}

// TurnsBySession returns a snapshot of the full history in append order.
func (s *TranscriptStore) TurnsBySession(id domain.SessionID) ([]*domain.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	turns := s.turns[id]
	out := make([]*domain.Turn, len(turns))
	copy(out, turns)
	return out, nil
}
