package agent

import (
	"context"
	"fmt"
	"sync"

	"github.com/taskrelay/taskrelay/internal/domain"
)

// MockAgent is a scripted stand-in for the remote agent, useful for dev and
// tests. It records every session id and input it sees.
type MockAgent struct {
	mu         sync.Mutex
	sessionIDs []domain.SessionID
	inputs     []string

	// Reply overrides the canned answer when set.
	Reply func(inputText string) (*domain.AgentReply, error)
}

func NewMockAgent() *MockAgent {
	return &MockAgent{}
}

func (m *MockAgent) Invoke(
	ctx context.Context,
	sessionID domain.SessionID,
	inputText string,
) (*domain.AgentReply, error) {
	m.mu.Lock()
	m.sessionIDs = append(m.sessionIDs, sessionID)
	m.inputs = append(m.inputs, inputText)
	reply := m.Reply
	m.mu.Unlock()

	if reply != nil {
		return reply(inputText)
	}
	return &domain.AgentReply{
		Text: fmt.Sprintf("Noted. You said %q. I've added it to your task list.", inputText),
	}, nil
}

// SessionIDs returns a copy of every session id passed to Invoke, in order.
func (m *MockAgent) SessionIDs() []domain.SessionID {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.SessionID, len(m.sessionIDs))
	copy(out, m.sessionIDs)
	return out
}

// Inputs returns a copy of every input text passed to Invoke, in order.
func (m *MockAgent) Inputs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.inputs))
	copy(out, m.inputs)
	return out
}
