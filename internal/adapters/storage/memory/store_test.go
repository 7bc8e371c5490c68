package memory

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/taskrelay/taskrelay/internal/domain"
)

func TestSessionStore_CreateAndGet(t *testing.T) {
	store := NewSessionStore()

	sess := &domain.Session{ID: "s1", CreatedAt: time.Now()}
	if err := store.CreateSession(sess); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	got, err := store.GetSession("s1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got.ID != "s1" {
		t.Errorf("expected id s1, got %s", got.ID)
	}
	if got.Authenticated || got.ClockNoticeSent {
		t.Error("expected fresh session with both flags false")
	}

	if _, err := store.GetSession("nope"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionStore_SetAuthenticated(t *testing.T) {
	store := NewSessionStore()
	store.CreateSession(&domain.Session{ID: "s1"})

	if err := store.SetAuthenticated("s1"); err != nil {
		t.Fatalf("SetAuthenticated failed: %v", err)
	}

	got, _ := store.GetSession("s1")
	if !got.Authenticated {
		t.Error("expected session authenticated")
	}
}

func TestSessionStore_ClaimClockNoticeIsOneShot(t *testing.T) {
	store := NewSessionStore()
	store.CreateSession(&domain.Session{ID: "s1"})

	first, err := store.ClaimClockNotice("s1")
	if err != nil {
		t.Fatalf("ClaimClockNotice failed: %v", err)
	}
	if !first {
		t.Fatal("expected first claim to succeed")
	}

	for i := 0; i < 5; i++ {
		again, err := store.ClaimClockNotice("s1")
		if err != nil {
			t.Fatalf("ClaimClockNotice failed: %v", err)
		}
		if again {
			t.Fatalf("claim %d succeeded; should be one-shot", i+2)
		}
	}
}

func TestTranscriptStore_RoundTripOrder(t *testing.T) {
	store := NewTranscriptStore()

	const n = 25
	for i := 0; i < n; i++ {
		role := domain.RoleUser
		if i%2 == 1 {
			role = domain.RoleAssistant
		}
		err := store.AppendTurn(&domain.Turn{
			ID:        domain.TurnID(fmt.Sprintf("t%d", i)),
			SessionID: "s1",
			Role:      role,
			Text:      fmt.Sprintf("turn %d", i),
		})
		if err != nil {
			t.Fatalf("AppendTurn failed: %v", err)
		}
	}

	turns, err := store.TurnsBySession("s1")
	if err != nil {
		t.Fatalf("TurnsBySession failed: %v", err)
	}
	if len(turns) != n {
		t.Fatalf("expected %d turns, got %d", n, len(turns))
	}
	for i, turn := range turns {
		if turn.Text != fmt.Sprintf("turn %d", i) {
			t.Fatalf("turn %d out of order: %q", i, turn.Text)
		}
	}
}

func TestTranscriptStore_EmptySession(t *testing.T) {
	store := NewTranscriptStore()

	turns, err := store.TurnsBySession("unknown")
	if err != nil {
		t.Fatalf("TurnsBySession failed: %v", err)
	}
	if len(turns) != 0 {
		t.Errorf("expected empty transcript, got %d turns", len(turns))
	}
}
