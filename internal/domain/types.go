package domain

import "time"

type SessionID string
type TurnID string

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Timestamp = time.Time
