package heuristic

// ChooseWithValue mirrors Choose but also returns that kind's one-ply
// projected Δ(me) after committing to the returned ids, so callers can
// rank token kinds against each other, not just cards within one kind.
func ChooseWithValue(tokenKind string, hand []Card, geishas map[int]Geisha, selfID string) ([]string, float64, bool) {
	switch tokenKind {
	case "secret":
		return chooseSecretWithValue(hand, geishas, selfID)
	case "trade-off":
		return chooseTradeOffWithValue(hand, geishas, selfID)
	case "gift":
		return chooseGiftWithValue(hand, geishas, selfID)
	case "competition":
		return chooseCompetitionWithValue(hand, geishas, selfID)
	}
	return nil, 0, false
}

// BestTokenByMinimax picks, among the legal token kinds, the one whose
// one-ply projected Δ(me) — worst-case where the kind is interactive —
// is highest. This is the expert/hell action-selection rule: a true
// minimax over the current snapshot, not a self-information rollout.
func BestTokenByMinimax(tokenKinds []string, hand []Card, geishas map[int]Geisha, selfID string) (string, []string) {
	bestKind := ""
	var bestIDs []string
	bestVal := 0.0
	found := false
	for _, k := range tokenKinds {
		ids, val, ok := ChooseWithValue(k, hand, geishas, selfID)
		if !ok {
			continue
		}
		if !found || val > bestVal {
			bestKind, bestIDs, bestVal, found = k, ids, val, true
		}
	}
	return bestKind, bestIDs
}
