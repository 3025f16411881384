package game

import (
	"errors"
	"time"
)

type Phase string

const (
	PhaseLobby Phase = "Lobby"
	PhaseNight Phase = "Night"
	PhaseDay   Phase = "Day"
	PhaseEnded Phase = "Ended"
)

type Role string

const (
	RoleMafia     Role = "Mafia"
	RoleDetective Role = "Detective"
	RoleDoctor    Role = "Doctor"
	RoleCitizen   Role = "Citizen"
)

// Faction is the winning side reported in SessionEnded.
type Faction string

const (
	FactionCitizens Faction = "citizens"
	FactionMafia    Faction = "mafia"
)

// Outcome of a win-condition check after an elimination batch.
type Outcome string

const (
	OutcomeOngoing     Outcome = "Ongoing"
	OutcomeCitizensWin Outcome = "CitizensWin"
	OutcomeMafiaWin    Outcome = "MafiaWin"
)

// TieBreak decides a ballot that resolves to multiple targets with the same
// maximal vote count.
type TieBreak string

const (
	// TieBreakArbitrary picks whichever maximal entry the tally encounters
	// first. Map iteration order makes this non-deterministic; callers must
	// not rely on which of the tied targets wins.
	TieBreakArbitrary TieBreak = "arbitrary"
	// TieBreakRandom picks uniformly among the tied targets.
	TieBreakRandom TieBreak = "random"
	// TieBreakNone resolves a tie to no winner at all.
	TieBreakNone TieBreak = "none"
)

type SessionConfig struct {
	MaxPlayers  int           `json:"maxPlayers"`
	NightWindow time.Duration `json:"nightWindow"`
	DayWindow   time.Duration `json:"dayWindow"`
	// DawnPause separates the dawn report from the public vote so players
	// can read it.
	DawnPause time.Duration `json:"dawnPause"`
	TieBreak  TieBreak      `json:"tieBreak"`
}

const (
	MinPlayers        = 4
	MaxPlayersCeiling = 16
	DefaultMaxPlayers = 8
)

// Normalize clamps bounds and fills zero values with the reference defaults.
func (c SessionConfig) Normalize() SessionConfig {
	if c.MaxPlayers == 0 {
		c.MaxPlayers = DefaultMaxPlayers
	}
	if c.MaxPlayers < MinPlayers {
		c.MaxPlayers = MinPlayers
	}
	if c.MaxPlayers > MaxPlayersCeiling {
		c.MaxPlayers = MaxPlayersCeiling
	}
	if c.NightWindow == 0 {
		c.NightWindow = 60 * time.Second
	}
	if c.DayWindow == 0 {
		c.DayWindow = 60 * time.Second
	}
	if c.TieBreak == "" {
		c.TieBreak = TieBreakArbitrary
	}
	return c
}

type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// All violations below are recovered at the offending action and surfaced as
// a chat message; none of them end a session.
var (
	ErrAlreadyJoined       = errors.New("already joined")
	ErrSessionFull         = errors.New("session is full")
	ErrNotEligible         = errors.New("not eligible")
	ErrAlreadyVoted        = errors.New("already voted")
	ErrNotCreator          = errors.New("not the session creator")
	ErrInsufficientPlayers = errors.New("not enough players")
	ErrNoActiveSession     = errors.New("no active session")
	ErrSessionExists       = errors.New("session already exists")
	ErrAlreadyStarted      = errors.New("session already started")
)
