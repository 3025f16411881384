package game

// Roster tracks one session's registered players and the living/eliminated
// partition. The living set only ever shrinks: an eliminated player is never
// re-added. Roster is not safe for concurrent use on its own; the owning
// session serializes access.
type Roster struct {
	max    int
	order  []string // join order
	names  map[string]string
	living map[string]bool
}

func NewRoster(maxPlayers int) *Roster {
	return &Roster{
		max:    maxPlayers,
		names:  make(map[string]string),
		living: make(map[string]bool),
	}
}

func (r *Roster) Register(p Player) error {
	if _, ok := r.names[p.ID]; ok {
		return ErrAlreadyJoined
	}
	if len(r.order) >= r.max {
		return ErrSessionFull
	}
	r.order = append(r.order, p.ID)
	r.names[p.ID] = p.Name
	r.living[p.ID] = true
	return nil
}

// Eliminate removes id from the living set. Returns false when the id is
// unknown or already eliminated; that case is a silent no-op because
// overlapping night effects can legitimately target the same player twice.
func (r *Roster) Eliminate(id string) bool {
	if !r.living[id] {
		return false
	}
	delete(r.living, id)
	return true
}

func (r *Roster) Alive(id string) bool { return r.living[id] }

func (r *Roster) LivingCount() int { return len(r.living) }

// LivingIDs returns living player ids in join order.
func (r *Roster) LivingIDs() []string {
	ids := make([]string, 0, len(r.living))
	for _, id := range r.order {
		if r.living[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

func (r *Roster) NameOf(id string) string { return r.names[id] }

func (r *Roster) Size() int { return len(r.order) }

func (r *Roster) MaxPlayers() int { return r.max }

// Names lists every registered player's display name in join order,
// eliminated players included.
func (r *Roster) Names() []string {
	names := make([]string, 0, len(r.order))
	for _, id := range r.order {
		names = append(names, r.names[id])
	}
	return names
}

// LivingNames is the display-name list used in reports, join order.
func (r *Roster) LivingNames() []string {
	names := make([]string, 0, len(r.living))
	for _, id := range r.order {
		if r.living[id] {
			names = append(names, r.names[id])
		}
	}
	return names
}
