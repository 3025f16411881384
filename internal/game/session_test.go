package game

import (
	"testing"
	"time"
)

func TestSessionConfigNormalize(t *testing.T) {
	c := SessionConfig{}.Normalize()
	if c.MaxPlayers != DefaultMaxPlayers {
		t.Fatalf("expected default max of %d, got %d", DefaultMaxPlayers, c.MaxPlayers)
	}
	if c.NightWindow != 60*time.Second || c.DayWindow != 60*time.Second {
		t.Fatalf("expected 60s default windows, got %v/%v", c.NightWindow, c.DayWindow)
	}
	if c.TieBreak != TieBreakArbitrary {
		t.Fatalf("expected arbitrary tie-break default, got %s", c.TieBreak)
	}

	c = SessionConfig{MaxPlayers: 2}.Normalize()
	if c.MaxPlayers != MinPlayers {
		t.Fatalf("expected clamp to %d, got %d", MinPlayers, c.MaxPlayers)
	}
	c = SessionConfig{MaxPlayers: 99}.Normalize()
	if c.MaxPlayers != MaxPlayersCeiling {
		t.Fatalf("expected clamp to %d, got %d", MaxPlayersCeiling, c.MaxPlayers)
	}
}

func TestSessionStartValidation(t *testing.T) {
	s := NewSession("town", "alice", SessionConfig{}, newFakeTransport())
	for _, p := range []Player{
		{ID: "alice", Name: "Alice"},
		{ID: "bob", Name: "Bob"},
		{ID: "carol", Name: "Carol"},
	} {
		if err := s.Join(p); err != nil {
			t.Fatalf("should be able to join: %v", err)
		}
	}

	if err := s.Start("bob"); err != ErrNotCreator {
		t.Fatalf("expected ErrNotCreator, got %v", err)
	}
	if err := s.Start("alice"); err != ErrInsufficientPlayers {
		t.Fatalf("expected ErrInsufficientPlayers with 3 players, got %v", err)
	}
	if s.Phase() != PhaseLobby {
		t.Fatalf("failed starts must leave the session in the lobby, got %s", s.Phase())
	}
}

func TestSessionCastUnknownBallot(t *testing.T) {
	s := NewSession("town", "alice", SessionConfig{}, newFakeTransport())
	s.Join(Player{ID: "alice", Name: "Alice"})

	if s.Owns("nope") {
		t.Fatal("session should not own an unknown ballot")
	}
}
