package game

import (
	"fmt"
	"testing"
)

func TestRosterRegister(t *testing.T) {
	r := NewRoster(4)

	if err := r.Register(Player{ID: "p1", Name: "Alice"}); err != nil {
		t.Fatalf("should be able to register: %v", err)
	}
	if err := r.Register(Player{ID: "p1", Name: "Alice again"}); err != ErrAlreadyJoined {
		t.Fatalf("expected ErrAlreadyJoined, got %v", err)
	}

	for i := 2; i <= 4; i++ {
		id := fmt.Sprintf("p%d", i)
		if err := r.Register(Player{ID: id, Name: id}); err != nil {
			t.Fatalf("should be able to register %s: %v", id, err)
		}
	}
	if err := r.Register(Player{ID: "p5", Name: "Eve"}); err != ErrSessionFull {
		t.Fatalf("expected ErrSessionFull, got %v", err)
	}

	if r.Size() != 4 {
		t.Fatalf("expected 4 registered players, got %d", r.Size())
	}
	if r.NameOf("p1") != "Alice" {
		t.Fatalf("expected name Alice, got %s", r.NameOf("p1"))
	}

	// Living ids come back in join order
	ids := r.LivingIDs()
	want := []string{"p1", "p2", "p3", "p4"}
	for i, id := range want {
		if ids[i] != id {
			t.Fatalf("expected living ids %v, got %v", want, ids)
		}
	}
}

func TestRosterEliminate(t *testing.T) {
	r := NewRoster(4)
	for i := 1; i <= 4; i++ {
		r.Register(Player{ID: fmt.Sprintf("p%d", i), Name: fmt.Sprintf("Player %d", i)})
	}

	if !r.Eliminate("p2") {
		t.Fatal("first elimination should report success")
	}
	if r.Eliminate("p2") {
		t.Fatal("second elimination of the same player should be a no-op")
	}
	if r.Eliminate("nobody") {
		t.Fatal("eliminating an unknown id should be a no-op")
	}

	if r.Alive("p2") {
		t.Fatal("p2 should be dead")
	}
	if !r.Alive("p1") {
		t.Fatal("p1 should still be alive")
	}
	if r.LivingCount() != 3 {
		t.Fatalf("expected 3 living players, got %d", r.LivingCount())
	}

	// Eliminated players stay in the full roster
	if r.Size() != 4 {
		t.Fatalf("expected roster size 4, got %d", r.Size())
	}
	if len(r.Names()) != 4 {
		t.Fatalf("expected 4 names, got %d", len(r.Names()))
	}
	if len(r.LivingNames()) != 3 {
		t.Fatalf("expected 3 living names, got %d", len(r.LivingNames()))
	}
}
