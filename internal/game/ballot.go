package game

import (
	"math/rand"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Purpose tags what a ballot decides; the transport uses it to label choices.
type Purpose string

const (
	PurposeKill        Purpose = "kill"
	PurposeInvestigate Purpose = "investigate"
	PurposeProtect     Purpose = "protect"
	PurposeLynch       Purpose = "lynch"
)

// Ballot is one timed voting round. It opens accepting casts and closes when
// its window elapses or every eligible voter has voted, whichever comes
// first. Casts arrive concurrently from transport callbacks; the vote map is
// guarded by the ballot's own mutex, which is what keeps "one vote per voter"
// true under concurrent arrivals.
type Ballot struct {
	ID      string
	Purpose Purpose

	mu         sync.Mutex
	open       bool
	voters     map[string]bool
	targetsFor func(voterID string) []string
	votes      map[string]string
	timer      *time.Timer
	closed     chan struct{}
}

// OpenBallot starts the voting window immediately. targetsFor must never
// include the voter itself; eligibility checks in Cast rely on that.
func OpenBallot(purpose Purpose, voters []string, targetsFor func(voterID string) []string, window time.Duration) *Ballot {
	b := &Ballot{
		ID:         uuid.NewString(),
		Purpose:    purpose,
		open:       true,
		voters:     make(map[string]bool, len(voters)),
		targetsFor: targetsFor,
		votes:      make(map[string]string),
		closed:     make(chan struct{}),
	}
	for _, v := range voters {
		b.voters[v] = true
	}
	b.timer = time.AfterFunc(window, b.Close)
	return b
}

// Cast records one vote. It fails with ErrNotEligible when the voter does not
// belong to this ballot, the window has closed, or the target is not among
// the voter's eligible targets (self-votes are rejected here, since a voter
// is never its own eligible target). A second cast by the same voter fails
// with ErrAlreadyVoted; the recorded vote is never overwritten.
func (b *Ballot) Cast(voterID, targetID string) error {
	b.mu.Lock()
	if !b.open || !b.voters[voterID] {
		b.mu.Unlock()
		return ErrNotEligible
	}
	if !slices.Contains(b.targetsFor(voterID), targetID) {
		b.mu.Unlock()
		return ErrNotEligible
	}
	if _, dup := b.votes[voterID]; dup {
		b.mu.Unlock()
		return ErrAlreadyVoted
	}
	b.votes[voterID] = targetID
	full := len(b.votes) == len(b.voters)
	b.mu.Unlock()

	if full {
		b.Close()
	}
	return nil
}

// Close ends the window. Safe to call more than once and from the timer,
// a full-participation cast, or a coordinator.
func (b *Ballot) Close() {
	b.mu.Lock()
	if !b.open {
		b.mu.Unlock()
		return
	}
	b.open = false
	b.mu.Unlock()

	b.timer.Stop()
	close(b.closed)
}

// Wait blocks until the window has closed.
func (b *Ballot) Wait() { <-b.closed }

func (b *Ballot) TargetsFor(voterID string) []string { return b.targetsFor(voterID) }

func (b *Ballot) Voters() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	ids := make([]string, 0, len(b.voters))
	for id := range b.voters {
		ids = append(ids, id)
	}
	return ids
}

func (b *Ballot) HasVoted(voterID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.votes[voterID]
	return ok
}

// Resolve aggregates votes by target and picks the strict-plurality winner.
// No votes resolves to none. Equal maximal counts are decided by the
// tie-break policy.
func (b *Ballot) Resolve(tb TieBreak) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.votes) == 0 {
		return "", false
	}

	counts := make(map[string]int)
	for _, target := range b.votes {
		counts[target]++
	}

	max := 0
	var tied []string
	for target, n := range counts {
		switch {
		case n > max:
			max = n
			tied = tied[:0]
			tied = append(tied, target)
		case n == max:
			tied = append(tied, target)
		}
	}

	if len(tied) == 1 {
		return tied[0], true
	}
	switch tb {
	case TieBreakRandom:
		return tied[rand.Intn(len(tied))], true
	case TieBreakNone:
		return "", false
	default:
		// arbitrary: first maximal entry encountered in map order
		return tied[0], true
	}
}
