package heuristic

import "testing"

func testGeishas() map[int]Geisha {
	return map[int]Geisha{
		1: {ID: 1, Charm: 2, MyCount: 0, OppCount: 0},
		2: {ID: 2, Charm: 5, MyCount: 0, OppCount: 0},
		3: {ID: 3, Charm: 3, MyCount: 0, OppCount: 0},
	}
}

func TestCardUtilityTakeLeadFromLevel(t *testing.T) {
	if got := cardUtility(2, 0, 0); got != 8 {
		t.Fatalf("expected take-the-lead bonus 4*charm=8, got %v", got)
	}
}

func TestCardUtilityTieFromOneBehind(t *testing.T) {
	if got := cardUtility(5, 1, 2); got != 10 {
		t.Fatalf("expected tie bonus 2*charm=10, got %v", got)
	}
}

func TestCardUtilityPlainWhenAlreadyAhead(t *testing.T) {
	if got := cardUtility(3, 2, 0); got != 3 {
		t.Fatalf("expected plain charm, got %v", got)
	}
}

func TestDeltaSnapshotSumsAcrossGeishas(t *testing.T) {
	geishas := map[int]Geisha{
		1: {ID: 1, Charm: 2, MyCount: 1, OppCount: 0}, // I'm ahead: +2*2 +3*1 = 7
		2: {ID: 2, Charm: 5, MyCount: 0, OppCount: 1}, // opponent's ahead: -2*5 -3*1 = -13
	}
	if got := DeltaSnapshot(geishas); got != -6 {
		t.Fatalf("expected -6, got %v", got)
	}
}

func TestChooseSecretPicksHighestUtility(t *testing.T) {
	geishas := map[int]Geisha{
		1: {ID: 1, Charm: 2, MyCount: 0, OppCount: 1}, // ties from one behind: 2*2=4
		2: {ID: 2, Charm: 5, MyCount: 2, OppCount: 0}, // already ahead: plain 5
		3: {ID: 3, Charm: 3, MyCount: 0, OppCount: 0}, // takes the lead from level: 4*3=12
	}
	hand := []Card{{ID: "a", GeishaID: 1}, {ID: "b", GeishaID: 2}, {ID: "c", GeishaID: 3}}
	ids, ok := Choose("secret", hand, geishas, "p1")
	if !ok || len(ids) != 1 || ids[0] != "c" {
		t.Fatalf("expected the lead-taking card [c], got %v (ok=%v)", ids, ok)
	}
}

func TestChooseTradeOffPicksTwoLowest(t *testing.T) {
	hand := []Card{{ID: "a", GeishaID: 1}, {ID: "b", GeishaID: 2}, {ID: "c", GeishaID: 3}}
	ids, ok := Choose("trade-off", hand, testGeishas(), "p1")
	if !ok || len(ids) != 2 {
		t.Fatalf("expected 2 ids, got %v (ok=%v)", ids, ok)
	}
}

func TestChooseGiftRequiresThreeCards(t *testing.T) {
	hand := []Card{{ID: "a", GeishaID: 1}, {ID: "b", GeishaID: 2}}
	if _, ok := Choose("gift", hand, testGeishas(), "p1"); ok {
		t.Fatalf("expected gift to refuse with only 2 cards")
	}
}

func TestChooseGiftReturnsThreeCards(t *testing.T) {
	hand := []Card{
		{ID: "a", GeishaID: 1}, {ID: "b", GeishaID: 2},
		{ID: "c", GeishaID: 3}, {ID: "d", GeishaID: 1},
	}
	ids, ok := Choose("gift", hand, testGeishas(), "p1")
	if !ok || len(ids) != 3 {
		t.Fatalf("expected 3 ids, got %v (ok=%v)", ids, ok)
	}
}

func TestChooseCompetitionReturnsFourCards(t *testing.T) {
	hand := []Card{
		{ID: "a", GeishaID: 1}, {ID: "b", GeishaID: 1},
		{ID: "c", GeishaID: 2}, {ID: "d", GeishaID: 3}, {ID: "e", GeishaID: 3},
	}
	ids, ok := Choose("competition", hand, testGeishas(), "p1")
	if !ok || len(ids) != 4 {
		t.Fatalf("expected 4 ids, got %v (ok=%v)", ids, ok)
	}
}

func TestResolveGiftPicksHighestUtility(t *testing.T) {
	geishas := map[int]Geisha{
		1: {ID: 1, Charm: 2, MyCount: 0, OppCount: 1},
		2: {ID: 2, Charm: 5, MyCount: 2, OppCount: 0},
		3: {ID: 3, Charm: 3, MyCount: 0, OppCount: 0},
	}
	offered := []Card{{ID: "a", GeishaID: 1}, {ID: "b", GeishaID: 2}, {ID: "c", GeishaID: 3}}
	if got := ResolveGift(offered, geishas, "p1"); got != "c" {
		t.Fatalf("expected c (lead-taking card), got %s", got)
	}
}

func TestResolveCompetitionPicksHigherDelta(t *testing.T) {
	geishas := map[int]Geisha{
		1: {ID: 1, Charm: 2, MyCount: 0, OppCount: 0},
		2: {ID: 2, Charm: 5, MyCount: 0, OppCount: 0},
		3: {ID: 3, Charm: 1, MyCount: 0, OppCount: 0},
	}
	groups := [2][]Card{
		{{ID: "a", GeishaID: 3}, {ID: "b", GeishaID: 3}},
		{{ID: "c", GeishaID: 2}, {ID: "d", GeishaID: 2}},
	}
	if got := ResolveCompetition(groups, geishas, "p1"); got != 1 {
		t.Fatalf("expected group 1 (higher charm group), got %d", got)
	}
}

func TestChooseGiftAvoidsOfferingItsMostValuableCard(t *testing.T) {
	// geisha 1 is worth far more than the other three and every
	// geisha is untouched (no one holds anyone yet). Any combo that
	// includes the high-charm card risks the opponent keeping it,
	// which swings that geisha's control to them; the combo that
	// excludes it has a much better floor.
	geishas := map[int]Geisha{
		1: {ID: 1, Charm: 10, MyCount: 0, OppCount: 0},
		2: {ID: 2, Charm: 1, MyCount: 0, OppCount: 0},
		3: {ID: 3, Charm: 1, MyCount: 0, OppCount: 0},
		4: {ID: 4, Charm: 1, MyCount: 0, OppCount: 0},
	}
	hand := []Card{
		{ID: "valuable", GeishaID: 1},
		{ID: "plain-a", GeishaID: 2},
		{ID: "plain-b", GeishaID: 3},
		{ID: "plain-c", GeishaID: 4},
	}
	ids, ok := Choose("gift", hand, geishas, "p1")
	if !ok {
		t.Fatalf("expected gift to find a combo")
	}
	for _, id := range ids {
		if id == "valuable" {
			t.Fatalf("expected chooseGift to avoid offering the high-charm card, got %v", ids)
		}
	}
}

func TestBestTokenByMinimaxPrefersHigherProjectedDelta(t *testing.T) {
	// trade-off never touches the board, so its projected Δ is just
	// the unchanged (negative) baseline; secret at least closes the
	// gap on geisha 1, so it must win the comparison.
	geishas := map[int]Geisha{
		1: {ID: 1, Charm: 5, MyCount: 0, OppCount: 1},
		2: {ID: 2, Charm: 1, MyCount: 0, OppCount: 0},
	}
	hand := []Card{
		{ID: "a", GeishaID: 1}, {ID: "b", GeishaID: 1},
		{ID: "c", GeishaID: 2}, {ID: "d", GeishaID: 2},
	}
	kind, ids := BestTokenByMinimax([]string{"secret", "trade-off"}, hand, geishas, "p1")
	if kind != "secret" || len(ids) != 1 {
		t.Fatalf("expected secret to win on its higher projected value, got kind=%q ids=%v", kind, ids)
	}
}
