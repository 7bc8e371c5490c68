package chat

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/taskrelay/taskrelay/internal/domain"
	"github.com/taskrelay/taskrelay/internal/observability"
)

// clockNoticePrefix heads the synthetic system turn relayed to the agent
// exactly once per session, before its first user turn.
const clockNoticePrefix = "System update: the current date and time is "

// connectionProbeText is the throwaway input for the manual diagnostic.
const connectionProbeText = "test"

type Service struct {
	agent      domain.AgentClient
	sessions   domain.SessionStore
	transcript domain.TranscriptStore
	secretKey  string
	now        func() time.Time
}

func NewService(
	agent domain.AgentClient,
	sessions domain.SessionStore,
	transcript domain.TranscriptStore,
	secretKey string,
) *Service {
	return &Service{
		agent:      agent,
		sessions:   sessions,
		transcript: transcript,
		secretKey:  secretKey,
		now:        time.Now,
	}
}

// StartSession mints the session identifier. This happens exactly once per
// session; every later invocation reuses the same id, which is what lets the
// remote agent keep conversational context across turns.
func (s *Service) StartSession(ctx context.Context) (*domain.Session, error) {
	now := s.now()

	session := &domain.Session{
		ID:        domain.SessionID(uuid.NewString()),
		CreatedAt: now,
		UpdatedAt: now,
	}

	log := observability.LoggerFromContext(ctx).With("session_id", session.ID)

	if err := s.sessions.CreateSession(session); err != nil {
		log.Error("failed to create session", "error", err)
		return nil, err
	}

	log.Info("session started")
	return session, nil
}

// Authenticate compares the supplied text against the configured shared
// secret. Exact string equality, case-sensitive, no trimming. There is no
// lockout; a mismatch just leaves the gate closed for another try.
func (s *Service) Authenticate(ctx context.Context, sessionID domain.SessionID, secret string) error {
	log := observability.LoggerFromContext(ctx).With("session_id", sessionID)

	if _, err := s.sessions.GetSession(sessionID); err != nil {
		return err
	}

	if secret != s.secretKey {
		log.Info("authentication failed")
		return domain.ErrInvalidSecret
	}

	if err := s.sessions.SetAuthenticated(sessionID); err != nil {
		return err
	}

	log.Info("authentication successful")
	return nil
}

type SendMessageInput struct {
	SessionID domain.SessionID
	Text      string
}

type SendMessageOutput struct {
	UserTurn *domain.Turn

	// AssistantTurn is nil when the agent produced no usable text.
	AssistantTurn *domain.Turn

	// DecodeFailures counts stream events that were tolerated but could not
	// be decoded; surfaced so the caller can report them.
	DecodeFailures int
}

// SendMessage relays one user turn to the agent. The user turn is appended
// before the invocation, so a failed turn still shows in the transcript; only
// the assistant reply is withheld on failure.
func (s *Service) SendMessage(ctx context.Context, in SendMessageInput) (*SendMessageOutput, error) {
	session, err := s.sessions.GetSession(in.SessionID)
	if err != nil {
		return nil, err
	}
	if !session.Authenticated {
		return nil, domain.ErrNotAuthenticated
	}

	log := observability.LoggerFromContext(ctx).With("session_id", session.ID)
	log.Info("relaying user turn", "text", in.Text)

	userTurn := &domain.Turn{
		ID:        domain.TurnID(uuid.NewString()),
		SessionID: session.ID,
		Role:      domain.RoleUser,
		Text:      in.Text,
		CreatedAt: s.now(),
	}
	if err := s.transcript.AppendTurn(userTurn); err != nil {
		log.Error("failed to append user turn", "error", err)
		return nil, err
	}

	s.maybeSendClockNotice(ctx, session.ID)

	reply, err := s.agent.Invoke(ctx, session.ID, in.Text)
	if err != nil {
		log.Error("agent invocation failed", "error", err)
		return nil, err
	}

	for _, decodeErr := range reply.DecodeFailures {
		log.Warn("stream event decode failure", "error", decodeErr)
	}

	out := &SendMessageOutput{
		UserTurn:       userTurn,
		DecodeFailures: len(reply.DecodeFailures),
	}

	if reply.Text == "" {
		log.Info("agent returned no text for turn")
		return out, nil
	}

	assistantTurn := &domain.Turn{
		ID:        domain.TurnID(uuid.NewString()),
		SessionID: session.ID,
		Role:      domain.RoleAssistant,
		Text:      reply.Text,
		CreatedAt: s.now(),
	}
	if err := s.transcript.AppendTurn(assistantTurn); err != nil {
		log.Error("failed to append assistant turn", "error", err)
		return nil, err
	}

	if err := s.sessions.Touch(session.ID, s.now()); err != nil {
		log.Error("failed to touch session", "error", err)
		return nil, err
	}

	out.AssistantTurn = assistantTurn
	log.Info("turn completed")
	return out, nil
}

// maybeSendClockNotice relays the current UTC time to the agent once per
// session. The notice is agent context, not conversation content, so it never
// lands in the transcript. The claim counts whether or not the relay itself
// succeeds; a failed attempt is not retried.
func (s *Service) maybeSendClockNotice(ctx context.Context, sessionID domain.SessionID) {
	claimed, err := s.sessions.ClaimClockNotice(sessionID)
	if err != nil || !claimed {
		return
	}

	log := observability.LoggerFromContext(ctx).With("session_id", sessionID)

	notice := clockNoticePrefix + s.now().UTC().Format("2006-01-02 15:04:05 MST")
	if _, err := s.agent.Invoke(ctx, sessionID, notice); err != nil {
		log.Warn("clock notice relay failed", "error", err)
		return
	}

	log.Info("clock notice relayed")
}

// GetTranscript replays the full ordered history for rendering. Restartable;
// each call yields a snapshot at call time.
func (s *Service) GetTranscript(ctx context.Context, sessionID domain.SessionID) (*domain.Session, []*domain.Turn, error) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		return nil, nil, err
	}

	turns, err := s.transcript.TurnsBySession(sessionID)
	if err != nil {
		return nil, nil, err
	}

	return session, turns, nil
}

// CheckConnection performs one throwaway invocation so the user can verify
// the gateway end to end. The probe never touches the transcript.
func (s *Service) CheckConnection(ctx context.Context, sessionID domain.SessionID) error {
	if _, err := s.sessions.GetSession(sessionID); err != nil {
		return err
	}

	log := observability.LoggerFromContext(ctx).With("session_id", sessionID)

	if _, err := s.agent.Invoke(ctx, sessionID, connectionProbeText); err != nil {
		log.Error("connection check failed", "error", err)
		return err
	}

	log.Info("connection check succeeded")
	return nil
}
