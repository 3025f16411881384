package game

import (
	"sync"

	"github.com/kiliankoe/mafia/internal/chat"
)

// NightResult carries the three independently resolved night ballots.
// Empty string means the ballot was skipped or produced no winner.
type NightResult struct {
	Attacked     string
	Protected    string
	Investigated string
}

// runNight opens the Mafia-kill, Detective-investigate and Doctor-protect
// ballots concurrently over one shared window, prompts every eligible voter
// in private, joins all windows and resolves each ballot on its own. A role
// with no living voters is skipped entirely.
func (s *Session) runNight() NightResult {
	s.mu.Lock()
	s.phase = PhaseNight
	s.round++
	living := s.roster.LivingIDs()
	roles := s.roles
	window := s.Config.NightWindow
	tb := s.Config.TieBreak
	s.mu.Unlock()

	var mafiaVoters, nonMafia []string
	for _, id := range living {
		if roles.IsMafia(id) {
			mafiaVoters = append(mafiaVoters, id)
		} else {
			nonMafia = append(nonMafia, id)
		}
	}
	othersOf := func(self string) []string {
		out := make([]string, 0, len(living)-1)
		for _, id := range living {
			if id != self {
				out = append(out, id)
			}
		}
		return out
	}

	var mafiaBallot, detectiveBallot, doctorBallot *Ballot
	if len(mafiaVoters) > 0 && len(nonMafia) > 0 {
		targets := nonMafia
		mafiaBallot = OpenBallot(PurposeKill, mafiaVoters, func(string) []string { return targets }, window)
		s.registerBallot(mafiaBallot)
	}
	if det := roles.Detective(); det != "" && s.roster.Alive(det) {
		targets := othersOf(det)
		detectiveBallot = OpenBallot(PurposeInvestigate, []string{det}, func(string) []string { return targets }, window)
		s.registerBallot(detectiveBallot)
	}
	if doc := roles.Doctor(); doc != "" && s.roster.Alive(doc) {
		targets := othersOf(doc)
		doctorBallot = OpenBallot(PurposeProtect, []string{doc}, func(string) []string { return targets }, window)
		s.registerBallot(doctorBallot)
	}

	// Prompt fan-out, joined so every voter has their ballot in hand before
	// the coordinator starts waiting on windows.
	var wg sync.WaitGroup
	if mafiaBallot != nil {
		for _, voter := range mafiaVoters {
			wg.Add(1)
			go func(voter string) {
				defer wg.Done()
				s.transport.SendDirectMessage(voter,
					"Night phase: vote who to kill.",
					s.choicesFor(mafiaBallot, voter, "Kill"))
			}(voter)
		}
	}
	if detectiveBallot != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.transport.SendDirectMessage(roles.Detective(),
				"You are the Detective: who do you investigate?",
				s.choicesFor(detectiveBallot, roles.Detective(), "Investigate"))
		}()
	}
	if doctorBallot != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.transport.SendDirectMessage(roles.Doctor(),
				"You are the Doctor: who do you protect?",
				s.choicesFor(doctorBallot, roles.Doctor(), "Protect"))
		}()
	}
	wg.Wait()

	// Join barrier: every window must close before any resolution, even if
	// one of them filled instantly.
	for _, b := range []*Ballot{mafiaBallot, detectiveBallot, doctorBallot} {
		if b != nil {
			b.Wait()
		}
	}

	var res NightResult
	if mafiaBallot != nil {
		if target, ok := mafiaBallot.Resolve(tb); ok {
			res.Attacked = target
		}
		s.dropBallot(mafiaBallot)
	}
	if detectiveBallot != nil {
		if target, ok := detectiveBallot.Resolve(tb); ok {
			res.Investigated = target
		}
		s.dropBallot(detectiveBallot)
	}
	if doctorBallot != nil {
		if target, ok := doctorBallot.Resolve(tb); ok {
			res.Protected = target
		}
		s.dropBallot(doctorBallot)
	}
	return res
}

func (s *Session) choicesFor(b *Ballot, voterID, verb string) []chat.Choice {
	targets := b.TargetsFor(voterID)
	choices := make([]chat.Choice, 0, len(targets))
	for _, t := range targets {
		choices = append(choices, chat.Choice{
			BallotID: b.ID,
			TargetID: t,
			Label:    verb + " " + s.roster.NameOf(t),
		})
	}
	return choices
}
