package game

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/kiliankoe/mafia/internal/chat"
)

// Result summarizes a finished game for the archive and transcript export.
type Result struct {
	ChannelID string
	Winner    Faction
	Rounds    int
	Players   []string
	StartedAt time.Time
	EndedAt   time.Time
	History   []string
}

// Manager owns the channel→session mapping. Sessions are keyed by channel and
// fully independent; a channel runs at most one game at a time. The manager is
// injected into the transport gateway, there is no ambient registry.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	transport chat.Transport
	defaults  SessionConfig
	narrator  Narrator
	onResult  func(Result)
}

func NewManager(t chat.Transport, defaults SessionConfig) *Manager {
	return &Manager{
		sessions:  make(map[string]*Session),
		transport: t,
		defaults:  defaults.Normalize(),
	}
}

// SetNarrator attaches an optional narrator to every session created after
// the call.
func (m *Manager) SetNarrator(n Narrator) { m.narrator = n }

// OnResult registers the hook invoked once per finished game, after the
// session has been discarded.
func (m *Manager) OnResult(fn func(Result)) { m.onResult = fn }

// CreateSession opens a lobby in the channel. maxPlayers is clamped to
// [MinPlayers, MaxPlayersCeiling]; zero means the default of 8.
func (m *Manager) CreateSession(channelID, creatorID string, maxPlayers int) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sessions[channelID] != nil {
		return nil, ErrSessionExists
	}

	cfg := m.defaults
	cfg.MaxPlayers = maxPlayers
	s := NewSession(channelID, creatorID, cfg, m.transport)
	s.narrator = m.narrator
	s.onEnd = func(ended *Session, winner Faction) {
		m.discard(channelID)
		if m.onResult != nil {
			m.onResult(Result{
				ChannelID: channelID,
				Winner:    winner,
				Rounds:    ended.Round(),
				Players:   ended.Roster().Names(),
				StartedAt: ended.startedAt,
				EndedAt:   time.Now().UTC(),
				History:   ended.History(),
			})
		}
	}
	m.sessions[channelID] = s
	log.Info().Str("channel", channelID).Str("creator", creatorID).
		Int("maxPlayers", s.Config.MaxPlayers).Msg("session created")
	return s, nil
}

func (m *Manager) Get(channelID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.sessions[channelID]
	if s == nil {
		return nil, ErrNoActiveSession
	}
	return s, nil
}

func (m *Manager) JoinSession(channelID string, p Player) error {
	s, err := m.Get(channelID)
	if err != nil {
		return err
	}
	return s.Join(p)
}

func (m *Manager) StartSession(channelID, requesterID string) error {
	s, err := m.Get(channelID)
	if err != nil {
		return err
	}
	return s.Start(requesterID)
}

// CastVote routes an inbound choice event to the session owning its ballot.
// Events for closed or unknown ballots fail with ErrNotEligible.
func (m *Manager) CastVote(ev chat.VoteEvent) error {
	m.mu.RLock()
	var target *Session
	for _, s := range m.sessions {
		if s.Owns(ev.BallotID) {
			target = s
			break
		}
	}
	m.mu.RUnlock()
	if target == nil {
		return ErrNotEligible
	}
	return target.Cast(ev)
}

func (m *Manager) discard(channelID string) {
	m.mu.Lock()
	delete(m.sessions, channelID)
	m.mu.Unlock()
}

// HelpText is the command and rules summary shown on request.
func HelpText() string {
	return `Mafia commands:
create [max=8] - open a game in this channel (4-16 players)
join - join the open game
start - begin the game (creator only, 4+ players)

Roles:
Mafia (1/3 of players) - kill at night
Detective (1) - investigate at night
Doctor (1) - protect at night
Citizens - vote by day

Flow: night actions, dawn report, public day vote, repeat until one side wins.`
}
