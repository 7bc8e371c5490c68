package domain

// Turn is one message exchanged in a session, tagged with its speaker.
type Turn struct {
	ID        TurnID
	SessionID SessionID
	Role      Role
	Text      string
	CreatedAt Timestamp
}

// Session is one continuous interactive instance between a user and the
// remote agent. The ID is minted once at creation and never changes; the
// remote agent keys its own conversational context by it.
type Session struct {
	ID        SessionID
	CreatedAt Timestamp
	UpdatedAt Timestamp

	// Authenticated flips to true on a matching shared secret and stays true.
	Authenticated bool

	// ClockNoticeSent guards the one-shot system-time notification.
	ClockNoticeSent bool
}
