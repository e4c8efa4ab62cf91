package heuristic

// chooseCompetition offers the four highest-utility cards in hand,
// split into whichever of the three pairings leaves the AI strongest.
// For each pairing the opponent is assumed to take the group that
// benefits them more, leaving the initiator the other; the initiator
// picks the pairing that maximizes their own resulting Δ(me) under
// that assumption.
func chooseCompetition(hand []Card, geishas map[int]Geisha, selfID string) ([]string, bool) {
	ids, _, ok := chooseCompetitionWithValue(hand, geishas, selfID)
	return ids, ok
}

func chooseCompetitionWithValue(hand []Card, geishas map[int]Geisha, selfID string) ([]string, float64, bool) {
	if len(hand) < 4 {
		return nil, 0, false
	}
	ranked := sortedByValue(hand, geishas, selfID)
	four := ranked[len(ranked)-4:]

	pairings := [][2][2]int{
		{{0, 1}, {2, 3}},
		{{0, 2}, {1, 3}},
		{{0, 3}, {1, 2}},
	}
	bestVal := 0.0
	var bestA, bestB [2]Card
	found := false
	for _, pairing := range pairings {
		a := [2]Card{four[pairing[0][0]], four[pairing[0][1]]}
		b := [2]Card{four[pairing[1][0]], four[pairing[1][1]]}
		val := aiDeltaIfOpponentPicksOptimally(a, b, geishas)
		if !found || val > bestVal {
			bestVal, bestA, bestB, found = val, a, b, true
		}
	}
	if !found {
		return nil, 0, false
	}
	return []string{bestA[0].ID, bestA[1].ID, bestB[0].ID, bestB[1].ID}, bestVal, true
}

// aiDeltaIfOpponentPicksOptimally assumes the opponent takes whichever
// of a/b scores higher for them and leaves the AI the other, then
// returns the AI's resulting Δ(me) from that leftover group.
func aiDeltaIfOpponentPicksOptimally(a, b [2]Card, geishas map[int]Geisha) float64 {
	oppA := DeltaSnapshot(applyCards(mirror(geishas), a[:], true))
	oppB := DeltaSnapshot(applyCards(mirror(geishas), b[:], true))
	aiGroup := a
	if oppA > oppB {
		aiGroup = b
	}
	return DeltaSnapshot(applyCards(geishas, aiGroup[:], true))
}
