package game

import (
	"strings"
	"testing"
	"time"

	"github.com/kiliankoe/mafia/internal/chat"
)

func TestManagerCreateSession(t *testing.T) {
	m := NewManager(newFakeTransport(), SessionConfig{})

	s, err := m.CreateSession("town", "alice", 0)
	if err != nil {
		t.Fatalf("should be able to create session: %v", err)
	}
	if s.Config.MaxPlayers != DefaultMaxPlayers {
		t.Fatalf("expected default max players %d, got %d", DefaultMaxPlayers, s.Config.MaxPlayers)
	}
	if s.Phase() != PhaseLobby {
		t.Fatalf("new session should be in the lobby, got %s", s.Phase())
	}

	if _, err := m.CreateSession("town", "bob", 0); err != ErrSessionExists {
		t.Fatalf("expected ErrSessionExists for a second game in the channel, got %v", err)
	}

	big, err := m.CreateSession("other", "carol", 99)
	if err != nil {
		t.Fatalf("should be able to create session: %v", err)
	}
	if big.Config.MaxPlayers != MaxPlayersCeiling {
		t.Fatalf("expected clamp to %d players, got %d", MaxPlayersCeiling, big.Config.MaxPlayers)
	}

	if _, err := m.Get("empty"); err != ErrNoActiveSession {
		t.Fatalf("expected ErrNoActiveSession, got %v", err)
	}
	if err := m.JoinSession("empty", Player{ID: "x", Name: "X"}); err != ErrNoActiveSession {
		t.Fatalf("expected ErrNoActiveSession on join, got %v", err)
	}
}

func TestManagerCastVoteUnknownBallot(t *testing.T) {
	m := NewManager(newFakeTransport(), SessionConfig{})
	err := m.CastVote(chat.VoteEvent{VoterID: "alice", TargetID: "bob", BallotID: "nope"})
	if err != ErrNotEligible {
		t.Fatalf("expected ErrNotEligible for an unknown ballot, got %v", err)
	}
}

func TestHelpText(t *testing.T) {
	help := HelpText()
	for _, want := range []string{"create", "join", "start", "Mafia", "Detective", "Doctor"} {
		if !strings.Contains(help, want) {
			t.Fatalf("help text should mention %q:\n%s", want, help)
		}
	}
}

// TestManagerRunsFullGame drives a complete four-player game through the
// manager: night one has the Mafia attack the Detective while the Doctor
// protects them, so nobody dies; the day vote then lynches the Mafia and the
// citizens win.
func TestManagerRunsFullGame(t *testing.T) {
	tr := newFakeTransport()
	defaults := SessionConfig{
		NightWindow: 200 * time.Millisecond,
		DayWindow:   500 * time.Millisecond,
		DawnPause:   10 * time.Millisecond,
		TieBreak:    TieBreakNone,
	}
	m := NewManager(tr, defaults)

	results := make(chan Result, 1)
	m.OnResult(func(r Result) { results <- r })

	if _, err := m.CreateSession("town", "alice", 4); err != nil {
		t.Fatalf("should be able to create session: %v", err)
	}
	players := []Player{
		{ID: "alice", Name: "Alice"},
		{ID: "bob", Name: "Bob"},
		{ID: "carol", Name: "Carol"},
		{ID: "dave", Name: "Dave"},
	}
	for _, p := range players {
		if err := m.JoinSession("town", p); err != nil {
			t.Fatalf("%s should be able to join: %v", p.Name, err)
		}
	}
	if err := m.JoinSession("town", players[0]); err != ErrAlreadyJoined {
		t.Fatalf("expected ErrAlreadyJoined, got %v", err)
	}

	if err := m.StartSession("town", "bob"); err != ErrNotCreator {
		t.Fatalf("expected ErrNotCreator, got %v", err)
	}
	if err := m.StartSession("town", "alice"); err != nil {
		t.Fatalf("creator should be able to start: %v", err)
	}
	if err := m.StartSession("town", "alice"); err != ErrAlreadyStarted {
		t.Fatalf("expected ErrAlreadyStarted on a second start, got %v", err)
	}
	if err := m.JoinSession("town", Player{ID: "eve", Name: "Eve"}); err != ErrAlreadyStarted {
		t.Fatalf("expected ErrAlreadyStarted on a late join, got %v", err)
	}

	s, err := m.Get("town")
	if err != nil {
		t.Fatalf("session should still be active: %v", err)
	}

	// Role assignment happens on the session goroutine.
	deadline := time.Now().Add(2 * time.Second)
	for s.Roles() == nil && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	roles := s.Roles()
	if roles == nil {
		t.Fatal("roles were never assigned")
	}
	var mafiaID, detID, docID string
	for _, p := range players {
		switch roles.RoleOf(p.ID) {
		case RoleMafia:
			mafiaID = p.ID
		case RoleDetective:
			detID = p.ID
		case RoleDoctor:
			docID = p.ID
		}
	}
	if mafiaID == "" || detID == "" || docID == "" {
		t.Fatalf("expected one mafioso, detective and doctor among %v", players)
	}

	// Night one: kill the detective, protect the detective. The detective
	// abstains, their ballot closes on the window.
	killChoices := tr.waitForDMChoices(mafiaID, "vote who to kill", 2*time.Second)
	if killChoices == nil {
		t.Fatal("mafia never received the kill ballot")
	}
	kill, ok := choiceFor(killChoices, detID)
	if !ok {
		t.Fatal("detective should be an eligible kill target")
	}
	if err := m.CastVote(chat.VoteEvent{VoterID: mafiaID, TargetID: kill.TargetID, BallotID: kill.BallotID}); err != nil {
		t.Fatalf("mafia vote should land: %v", err)
	}

	protChoices := tr.waitForDMChoices(docID, "who do you protect", 2*time.Second)
	if protChoices == nil {
		t.Fatal("doctor never received the protect ballot")
	}
	prot, ok := choiceFor(protChoices, detID)
	if !ok {
		t.Fatal("detective should be an eligible protect target")
	}
	if err := m.CastVote(chat.VoteEvent{VoterID: docID, TargetID: prot.TargetID, BallotID: prot.BallotID}); err != nil {
		t.Fatalf("doctor vote should land: %v", err)
	}

	// Dawn report and day ballot follow once the night window closes.
	dayChoices := tr.waitForChannelChoices("Day phase", 3*time.Second)
	if dayChoices == nil {
		t.Fatal("day ballot never opened")
	}
	if s.Roster().LivingCount() != 4 {
		t.Fatalf("protection should have saved the night, %d living", s.Roster().LivingCount())
	}
	if !tr.channelContains("The attack failed") {
		t.Fatal("dawn report should mention the failed attack")
	}
	for _, p := range players {
		if !tr.dmContains(p.ID, "Your role:") {
			t.Fatalf("%s never received a role briefing", p.Name)
		}
	}

	// Day one: everyone piles on the mafioso, who deflects to the detective.
	for _, p := range players {
		target := mafiaID
		if p.ID == mafiaID {
			target = detID
		}
		c, ok := choiceFor(dayChoices, target)
		if !ok {
			t.Fatalf("no day choice for target %s", target)
		}
		if err := m.CastVote(chat.VoteEvent{VoterID: p.ID, TargetID: c.TargetID, BallotID: c.BallotID}); err != nil {
			t.Fatalf("%s's day vote should land: %v", p.Name, err)
		}
	}
	if !tr.dmContains(detID, "Vote recorded") {
		t.Fatal("voters should receive a direct acknowledgment")
	}

	var res Result
	select {
	case res = <-results:
	case <-time.After(3 * time.Second):
		t.Fatal("game never finished")
	}

	if res.Winner != FactionCitizens {
		t.Fatalf("expected the citizens to win, got %s", res.Winner)
	}
	if res.Rounds != 1 {
		t.Fatalf("expected a one-round game, got %d", res.Rounds)
	}
	if len(res.Players) != 4 {
		t.Fatalf("expected 4 players in the result, got %d", len(res.Players))
	}
	if len(res.History) == 0 {
		t.Fatal("result should carry the report history")
	}
	if !tr.channelContains("The Citizens win!") {
		t.Fatal("win announcement missing from the channel")
	}
	if s.Phase() != PhaseEnded {
		t.Fatalf("session should be ended, got %s", s.Phase())
	}
	if _, err := m.Get("town"); err != ErrNoActiveSession {
		t.Fatalf("finished session should be discarded, got %v", err)
	}
}
