package game

import (
	"math/rand"
)

// Assignment partitions the players living at assignment time into roles.
// The Mafia set, Detective and Doctor are pairwise disjoint; everyone else is
// a Citizen. Only the resolution engine mutates an assignment, by vacating
// the slot of an eliminated role holder, so the Mafia set always holds
// exactly the living Mafia.
type Assignment struct {
	mafia     map[string]bool
	detective string
	doctor    string
}

// AssignRoles deals roles over a uniformly random permutation of ids:
// Mafia take the first max(1, N/3) slots, then one Detective and one Doctor
// if enough players remain, the rest are Citizens. The fixed ratio keeps the
// Mafia a minority while guaranteeing at least one member.
func AssignRoles(ids []string) *Assignment {
	shuffled := make([]string, len(ids))
	copy(shuffled, ids)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	numMafia := len(shuffled) / 3
	if numMafia < 1 {
		numMafia = 1
	}

	a := &Assignment{mafia: make(map[string]bool)}
	for i, id := range shuffled {
		if i < numMafia {
			a.mafia[id] = true
		}
	}
	if len(shuffled) > numMafia {
		a.detective = shuffled[numMafia]
	}
	if len(shuffled) > numMafia+1 {
		a.doctor = shuffled[numMafia+1]
	}
	return a
}

// RoleOf derives a player's current role from slot membership.
func (a *Assignment) RoleOf(id string) Role {
	switch {
	case a.mafia[id]:
		return RoleMafia
	case id == a.detective && id != "":
		return RoleDetective
	case id == a.doctor && id != "":
		return RoleDoctor
	default:
		return RoleCitizen
	}
}

func (a *Assignment) IsMafia(id string) bool { return a.mafia[id] }

func (a *Assignment) MafiaCount() int { return len(a.mafia) }

func (a *Assignment) MafiaIDs() []string {
	ids := make([]string, 0, len(a.mafia))
	for id := range a.mafia {
		ids = append(ids, id)
	}
	return ids
}

// Detective returns the living Detective's id, or "" when the slot is vacant
// or was never filled.
func (a *Assignment) Detective() string { return a.detective }

func (a *Assignment) Doctor() string { return a.doctor }

// RemoveHolder vacates whatever slot id holds. Removing an id that holds no
// slot is a no-op.
func (a *Assignment) RemoveHolder(id string) {
	delete(a.mafia, id)
	if a.detective == id {
		a.detective = ""
	}
	if a.doctor == id {
		a.doctor = ""
	}
}
