package geisha

import "testing"

func TestRegisterDefaultsSumsTo21(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	for _, key := range r.Keys() {
		gs, err := r.BuildGeishas(key)
		if err != nil {
			t.Fatalf("BuildGeishas(%q): %v", key, err)
		}
		if len(gs) != 7 {
			t.Errorf("set %q: expected 7 geishas, got %d", key, len(gs))
		}
		cardTotal, charmTotal := 0, 0
		for _, g := range gs {
			cardTotal += g.CardCount
			charmTotal += g.Charm
			if g.Charm != g.CardCount {
				t.Errorf("set %q: geisha %d has charm %d but card count %d, they must match", key, g.ID, g.Charm, g.CardCount)
			}
		}
		if cardTotal != 21 {
			t.Errorf("set %q: card counts sum to %d, expected 21", key, cardTotal)
		}
		if charmTotal != 21 {
			t.Errorf("set %q: charm values sum to %d, expected 21", key, charmTotal)
		}
	}
}

func TestRegisterRejectsBadCounts(t *testing.T) {
	r := NewRegistry()
	err := r.Register("broken", []Def{
		{ID: 1, Name: "A", Charm: 1, CardCount: 1},
	})
	if err == nil {
		t.Fatal("expected error for set with fewer than 7 geishas")
	}

	defs := make([]Def, 7)
	for i := range defs {
		defs[i] = Def{ID: i + 1, Name: "X", Charm: 1, CardCount: 1}
	}
	err = r.Register("broken2", defs)
	if err == nil {
		t.Fatal("expected error for card counts not summing to 21")
	}
}

func TestRegisterRejectsMismatchedCharmAndCardCount(t *testing.T) {
	r := NewRegistry()
	defs := make([]Def, 7)
	for i := range defs {
		defs[i] = Def{ID: i + 1, Name: "X", Charm: 3, CardCount: 3}
	}
	defs[0].Charm = 1 // decoupled from its own card count
	if err := r.Register("mismatched", defs); err == nil {
		t.Fatal("expected error when a geisha's charm and card count disagree")
	}
}

func TestBuildGeishasUnknownSet(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)
	if _, err := r.BuildGeishas("nonexistent"); err == nil {
		t.Fatal("expected error for unknown set")
	}
}
