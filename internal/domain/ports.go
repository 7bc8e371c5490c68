package domain

import (
	"context"
	"time"
)

// AgentReply is the accumulated result of one agent invocation. DecodeFailures
// holds the per-event errors that were tolerated while the stream was
// consumed; the reply text is still usable when it is non-empty.
type AgentReply struct {
	Text           string
	DecodeFailures []error
}

// AgentClient defines how the core application invokes the remote agent.
// One call per turn; the agent maintains its own context keyed by sessionID,
// so only the new input text travels.
type AgentClient interface {
	Invoke(ctx context.Context, sessionID SessionID, inputText string) (*AgentReply, error)
}

// SessionStore defines session persistence for the lifetime of the process.
type SessionStore interface {
	CreateSession(session *Session) error
	GetSession(id SessionID) (*Session, error)
	SetAuthenticated(id SessionID) error

	// ClaimClockNotice returns true exactly once per session; every later
	// call for the same session returns false.
	ClaimClockNotice(id SessionID) (bool, error)

	Touch(id SessionID, at time.Time) error
}

// TranscriptStore holds the ordered, append-only turn history per session.
type TranscriptStore interface {
	AppendTurn(turn *Turn) error
	TurnsBySession(id SessionID) ([]*Turn, error)
}
