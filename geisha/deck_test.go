package geisha

import "testing"

func TestBuildDeckProducesFullDeck(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)
	gs, err := r.BuildGeishas("default")
	if err != nil {
		t.Fatalf("BuildGeishas: %v", err)
	}

	drawPile, removed, err := BuildDeck(gs)
	if err != nil {
		t.Fatalf("BuildDeck: %v", err)
	}
	if len(drawPile) != 20 {
		t.Errorf("expected draw pile of 20, got %d", len(drawPile))
	}

	seen := map[string]bool{removed.ID: true}
	counts := map[int]int{removed.GeishaID: 1}
	for _, c := range drawPile {
		if seen[c.ID] {
			t.Fatalf("duplicate card ID %s", c.ID)
		}
		seen[c.ID] = true
		counts[c.GeishaID]++
	}

	for _, g := range gs {
		if counts[g.ID] != g.CardCount {
			t.Errorf("geisha %d: expected %d cards total, got %d", g.ID, g.CardCount, counts[g.ID])
		}
	}
}

func TestBuildDeckShufflesDifferently(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)
	gs, _ := r.BuildGeishas("default")

	same := true
	var first []Card
	for i := 0; i < 5; i++ {
		drawPile, _, err := BuildDeck(gs)
		if err != nil {
			t.Fatalf("BuildDeck: %v", err)
		}
		if i == 0 {
			first = drawPile
			continue
		}
		for j := range drawPile {
			if drawPile[j].ID != first[j].ID {
				same = false
			}
		}
	}
	if same {
		t.Error("expected shuffles to differ across five runs (extremely unlikely if truly random)")
	}
}
