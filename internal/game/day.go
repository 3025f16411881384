package game

import (
	"fmt"
	"strings"

	"github.com/kiliankoe/mafia/internal/chat"
)

// DayResult is the public vote's verdict; empty means no elimination.
type DayResult struct {
	Eliminated string
}

// runDay opens the single public ballot: every living player votes, everyone
// is a target except oneself. The choices go out on the channel; a player
// clicking their own name is rejected by the ballot, not the transport.
func (s *Session) runDay() DayResult {
	s.setPhase(PhaseDay)

	s.mu.Lock()
	living := s.roster.LivingIDs()
	window := s.Config.DayWindow
	tb := s.Config.TieBreak
	s.mu.Unlock()

	targetsFor := func(voterID string) []string {
		out := make([]string, 0, len(living)-1)
		for _, id := range living {
			if id != voterID {
				out = append(out, id)
			}
		}
		return out
	}
	b := OpenBallot(PurposeLynch, living, targetsFor, window)
	s.registerBallot(b)

	choices := make([]chat.Choice, 0, len(living))
	for _, id := range living {
		choices = append(choices, chat.Choice{
			BallotID: b.ID,
			TargetID: id,
			Label:    "Accuse " + s.roster.NameOf(id),
		})
	}
	s.transport.SendChannelMessage(s.ChannelID, fmt.Sprintf(
		"Day phase: public vote.\nAlive: %s\nVote who to eliminate. You cannot vote for yourself.",
		strings.Join(s.roster.LivingNames(), ", ")), choices)

	b.Wait()

	var res DayResult
	if target, ok := b.Resolve(tb); ok {
		res.Eliminated = target
	}
	s.dropBallot(b)
	return res
}
