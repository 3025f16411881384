package game

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/kiliankoe/mafia/internal/chat"
)

// Narrator adds optional flavor text to dawn reports. Implementations are
// best-effort; a failing narrator never affects the phase loop.
type Narrator interface {
	Narrate(ctx context.Context, history []string) (string, error)
}

// Session holds one game: its roster, role assignment and current phase.
// One goroutine (run) drives the phase loop; vote casts arrive concurrently
// through Cast and are serialized per ballot. Sessions never share state.
type Session struct {
	ChannelID string
	CreatorID string
	Config    SessionConfig

	mu      sync.Mutex
	phase   Phase
	roster  *Roster
	roles   *Assignment
	ballots map[string]*Ballot
	round   int
	history []string // public report lines, feeds transcript and narrator

	startedAt time.Time
	transport chat.Transport
	narrator  Narrator
	onEnd     func(s *Session, winner Faction)
}

func NewSession(channelID, creatorID string, cfg SessionConfig, t chat.Transport) *Session {
	cfg = cfg.Normalize()
	return &Session{
		ChannelID: channelID,
		CreatorID: creatorID,
		Config:    cfg,
		phase:     PhaseLobby,
		roster:    NewRoster(cfg.MaxPlayers),
		ballots:   make(map[string]*Ballot),
		transport: t,
	}
}

func (s *Session) SetNarrator(n Narrator) { s.narrator = n }

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *Session) Round() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.round
}

// Roster gives tests and the gateway read access; callers must not mutate
// outside the session's own flow.
func (s *Session) Roster() *Roster { return s.roster }

// Roles is nil until the session has started.
func (s *Session) Roles() *Assignment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roles
}

func (s *Session) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.history))
	copy(out, s.history)
	return out
}

// Join registers a player while the session is still in the lobby.
func (s *Session) Join(p Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseLobby {
		return ErrAlreadyStarted
	}
	return s.roster.Register(p)
}

// Start validates the start command and launches the phase loop. Only the
// creator may start, and only with at least MinPlayers registered.
func (s *Session) Start(requesterID string) error {
	s.mu.Lock()
	if s.phase != PhaseLobby {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	if requesterID != s.CreatorID {
		s.mu.Unlock()
		return ErrNotCreator
	}
	if s.roster.LivingCount() < MinPlayers {
		s.mu.Unlock()
		return ErrInsufficientPlayers
	}
	// Leave the lobby phase before releasing the lock so a concurrent second
	// start or late join cannot slip in while the loop spins up.
	s.phase = PhaseNight
	s.startedAt = time.Now().UTC()
	s.mu.Unlock()

	go s.run()
	return nil
}

// Cast routes an inbound vote event to its ballot. On success the voter gets
// a direct acknowledgment.
func (s *Session) Cast(ev chat.VoteEvent) error {
	s.mu.Lock()
	b := s.ballots[ev.BallotID]
	s.mu.Unlock()
	if b == nil {
		return ErrNotEligible
	}
	if err := b.Cast(ev.VoterID, ev.TargetID); err != nil {
		return err
	}
	s.transport.SendDirectMessage(ev.VoterID, fmt.Sprintf("Vote recorded: %s", s.roster.NameOf(ev.TargetID)), nil)
	return nil
}

// Owns reports whether the given ballot belongs to this session.
func (s *Session) Owns(ballotID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ballots[ballotID]
	return ok
}

func (s *Session) run() {
	s.assignAndNotify()
	s.transport.SendChannelMessage(s.ChannelID, "The game begins! Night falls over the town...", nil)

	for {
		night := s.runNight()
		report, out := s.resolveNight(night)
		s.sendReport(report)
		if out != OutcomeOngoing {
			s.finish(out)
			return
		}

		time.Sleep(s.Config.DawnPause)
		day := s.runDay()
		report, out = s.resolveDay(day)
		s.sendReport(report)
		if out != OutcomeOngoing {
			s.finish(out)
			return
		}
		s.transport.SendChannelMessage(s.ChannelID, "Night falls again...", nil)
	}
}

// assignAndNotify deals roles and tells every player theirs in private.
// The sends fan out as independent tasks and are joined before the first
// night opens, so nobody can receive a ballot before knowing their role.
func (s *Session) assignAndNotify() {
	s.mu.Lock()
	s.roles = AssignRoles(s.roster.LivingIDs())
	living := s.roster.LivingIDs()
	roles := s.roles
	s.mu.Unlock()

	var wg sync.WaitGroup
	for _, id := range living {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			s.transport.SendDirectMessage(id, s.roleBriefing(id, roles), nil)
		}(id)
	}
	wg.Wait()

	log.Info().Str("channel", s.ChannelID).Int("players", len(living)).
		Int("mafia", roles.MafiaCount()).Msg("roles assigned")
}

func (s *Session) roleBriefing(id string, roles *Assignment) string {
	var b strings.Builder
	role := roles.RoleOf(id)
	fmt.Fprintf(&b, "Your role: %s\n", role)
	switch role {
	case RoleMafia:
		b.WriteString("Eliminate the citizens at night.\n")
		var partners []string
		for _, m := range roles.MafiaIDs() {
			if m != id {
				partners = append(partners, s.roster.NameOf(m))
			}
		}
		if len(partners) > 0 {
			fmt.Fprintf(&b, "Your fellow Mafia: %s\n", strings.Join(partners, ", "))
		}
	case RoleDetective:
		b.WriteString("Each night you may investigate one player to uncover their role.\n")
	case RoleDoctor:
		b.WriteString("Each night you may protect one player from the attack.\n")
	default:
		b.WriteString("Find the Mafia and vote them out during the day.\n")
	}
	return b.String()
}

func (s *Session) registerBallot(b *Ballot) {
	s.mu.Lock()
	s.ballots[b.ID] = b
	s.mu.Unlock()
}

func (s *Session) dropBallot(b *Ballot) {
	s.mu.Lock()
	delete(s.ballots, b.ID)
	s.mu.Unlock()
}

func (s *Session) sendReport(lines []string) {
	if len(lines) == 0 {
		return
	}
	text := strings.Join(lines, "\n")
	s.mu.Lock()
	s.history = append(s.history, lines...)
	history := make([]string, len(s.history))
	copy(history, s.history)
	s.mu.Unlock()

	s.transport.SendChannelMessage(s.ChannelID, text, nil)

	if s.narrator != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			story, err := s.narrator.Narrate(ctx, history)
			if err != nil || story == "" {
				if err != nil {
					log.Warn().Str("channel", s.ChannelID).Err(err).Msg("narrator failed")
				}
				return
			}
			s.transport.SendChannelMessage(s.ChannelID, story, nil)
		}()
	}
}

func (s *Session) finish(out Outcome) {
	s.mu.Lock()
	if s.phase == PhaseEnded {
		s.mu.Unlock()
		return
	}
	s.phase = PhaseEnded
	onEnd := s.onEnd
	s.mu.Unlock()

	winner := FactionCitizens
	text := "The Citizens win! Every last Mafia member has been eliminated."
	if out == OutcomeMafiaWin {
		winner = FactionMafia
		text = "The Mafia wins! They have taken over the town."
	}
	s.transport.SendChannelMessage(s.ChannelID, text, nil)
	log.Info().Str("channel", s.ChannelID).Str("winner", string(winner)).
		Int("rounds", s.round).Msg("session ended")

	if onEnd != nil {
		onEnd(s, winner)
	}
}

func (s *Session) setPhase(p Phase) {
	s.mu.Lock()
	s.phase = p
	s.mu.Unlock()
}
