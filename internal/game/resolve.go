package game

import (
	"fmt"
	"strings"
)

// Elimination records one player leaving the game and why.
type Elimination struct {
	ID    string
	Name  string
	Role  Role
	Cause string
}

// resolveNight applies a night's outcome to the roster and assignment and
// builds the public dawn report. The attack and the investigation eliminate
// independently: each fires unless the Doctor protected its target, both can
// fire the same night, and hitting an already-removed player is a no-op. The
// investigated player's role is revealed even when protection saved them.
func (s *Session) resolveNight(res NightResult) ([]string, Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := []string{"Dawn breaks over the town."}
	if res.Attacked != "" {
		lines = append(lines, fmt.Sprintf("The Mafia went after %s.", s.roster.NameOf(res.Attacked)))
	} else {
		lines = append(lines, "The Mafia stayed home tonight.")
	}
	if res.Protected != "" {
		lines = append(lines, fmt.Sprintf("The Doctor watched over %s.", s.roster.NameOf(res.Protected)))
	}
	if res.Investigated != "" {
		lines = append(lines, fmt.Sprintf("The Detective investigated %s and uncovered a %s.",
			s.roster.NameOf(res.Investigated), s.roles.RoleOf(res.Investigated)))
	}

	var elims []Elimination
	attackedDied := false
	if res.Attacked != "" && res.Attacked != res.Protected {
		if e, ok := s.eliminateLocked(res.Attacked, "killed by the Mafia"); ok {
			elims = append(elims, e)
			attackedDied = true
		}
	}
	if res.Investigated != "" && res.Investigated != res.Protected {
		if e, ok := s.eliminateLocked(res.Investigated, "removed by the Detective"); ok {
			elims = append(elims, e)
		}
	}

	if res.Attacked != "" && !attackedDied {
		lines = append(lines, "The attack failed: no one died tonight.")
	}
	for _, e := range elims {
		lines = append(lines, fmt.Sprintf("%s was %s! They were a %s.", e.Name, e.Cause, e.Role))
	}
	lines = append(lines, "Alive: "+strings.Join(s.roster.LivingNames(), ", "))
	return lines, s.winCheckLocked()
}

// resolveDay applies the public vote's verdict.
func (s *Session) resolveDay(res DayResult) ([]string, Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var lines []string
	if res.Eliminated == "" {
		lines = append(lines, "The town could not agree: no one was eliminated today.")
	} else if e, ok := s.eliminateLocked(res.Eliminated, "eliminated by public vote"); ok {
		lines = append(lines, fmt.Sprintf("%s was %s! They were a %s.", e.Name, e.Cause, e.Role))
	}
	return lines, s.winCheckLocked()
}

// eliminateLocked removes id from the living set and vacates any role slot it
// held. Returns ok=false for an unknown or already-eliminated id. The role is
// captured before the slot is vacated so reports can reveal it.
func (s *Session) eliminateLocked(id, cause string) (Elimination, bool) {
	role := s.roles.RoleOf(id)
	if !s.roster.Eliminate(id) {
		return Elimination{}, false
	}
	s.roles.RemoveHolder(id)
	return Elimination{ID: id, Name: s.roster.NameOf(id), Role: role, Cause: cause}, true
}

// winCheckLocked evaluates the win conditions after an elimination batch.
// Mafia-empty is checked before Mafia-majority; the majority check is
// non-strict (Mafia holding exactly half the survivors already wins).
func (s *Session) winCheckLocked() Outcome {
	if s.roles.MafiaCount() == 0 {
		return OutcomeCitizensWin
	}
	if s.roles.MafiaCount()*2 >= s.roster.LivingCount() {
		return OutcomeMafiaWin
	}
	return OutcomeOngoing
}
