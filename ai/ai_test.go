package ai

import (
	"encoding/json"
	"testing"

	"hanamikoji/ai/heuristic"
	"hanamikoji/game"
)

func viewFromJSON(t *testing.T, raw string) game.ViewState {
	var view game.ViewState
	if err := json.Unmarshal([]byte(raw), &view); err != nil {
		t.Fatalf("unmarshal view: %v", err)
	}
	return view
}

const sampleView = `{
	"geishas": [
		{"id": 1, "name": "Sakura", "charm": 5, "controlledBy": ""},
		{"id": 2, "name": "Yuki", "charm": 2, "controlledBy": ""}
	],
	"players": {
		"alice": {
			"id": "alice",
			"name": "Alice",
			"hand": [
				{"id": "c1", "geishaId": 1, "known": true},
				{"id": "c2", "geishaId": 2, "known": true}
			],
			"tokens": [
				{"Kind": "secret", "Used": false},
				{"Kind": "trade-off", "Used": true},
				{"Kind": "gift", "Used": false},
				{"Kind": "competition", "Used": false}
			]
		}
	},
	"currentTurn": "alice",
	"phase": "playing"
}`

func TestAvailableTokenKindsSkipsUsedTokens(t *testing.T) {
	view := viewFromJSON(t, sampleView)
	kinds := availableTokenKinds(view, "alice")
	want := map[string]bool{"secret": true, "gift": true, "competition": true}
	if len(kinds) != len(want) {
		t.Fatalf("expected %d unused kinds, got %v", len(want), kinds)
	}
	for _, k := range kinds {
		if !want[k] {
			t.Fatalf("unexpected kind %q in %v", k, kinds)
		}
	}
}

func TestAvailableTokenKindsUnknownPlayerReturnsNil(t *testing.T) {
	view := viewFromJSON(t, sampleView)
	if kinds := availableTokenKinds(view, "ghost"); kinds != nil {
		t.Fatalf("expected nil for unknown player, got %v", kinds)
	}
}

func TestHandCardsFiltersUnknownCards(t *testing.T) {
	view := viewFromJSON(t, sampleView)
	hand := handCards(view, "alice")
	if len(hand) != 2 || hand[0].ID != "c1" || hand[1].ID != "c2" {
		t.Fatalf("expected both known cards surfaced, got %+v", hand)
	}
}

const playedCardsView = `{
	"geishas": [
		{"id": 1, "name": "Sakura", "charm": 5, "controlledBy": ""},
		{"id": 2, "name": "Yuki", "charm": 2, "controlledBy": ""}
	],
	"players": {
		"alice": {
			"id": "alice",
			"name": "Alice",
			"playedCards": [
				{"id": "p1", "geishaId": 1, "known": true}
			],
			"tokens": [{"Kind": "secret", "Used": false}]
		},
		"bob": {
			"id": "bob",
			"name": "Bob",
			"playedCards": [
				{"id": "p2", "geishaId": 1, "known": true},
				{"id": "p3", "geishaId": 2, "known": true}
			],
			"tokens": [{"Kind": "secret", "Used": false}]
		}
	},
	"currentTurn": "alice",
	"phase": "playing"
}`

func TestGeishaMapCarriesCharm(t *testing.T) {
	view := viewFromJSON(t, sampleView)
	m := geishaMap(view, "alice")
	if len(m) != 2 || m[1].Charm != 5 || m[2].Charm != 2 {
		t.Fatalf("unexpected geisha map: %+v", m)
	}
}

func TestGeishaMapDerivesCountsFromPlayedCards(t *testing.T) {
	view := viewFromJSON(t, playedCardsView)
	m := geishaMap(view, "alice")
	if m[1].MyCount != 1 || m[1].OppCount != 1 {
		t.Fatalf("expected geisha 1 myCount=1 oppCount=1, got %+v", m[1])
	}
	if m[2].MyCount != 0 || m[2].OppCount != 1 {
		t.Fatalf("expected geisha 2 myCount=0 oppCount=1, got %+v", m[2])
	}
}

func TestBuildActionMapsEachKindToItsActionType(t *testing.T) {
	cases := []struct {
		kind string
		ids  []string
		want game.GameActionType
	}{
		{"secret", []string{"c1"}, game.ActPlaySecret},
		{"trade-off", []string{"c1", "c2"}, game.ActPlayTradeOff},
		{"gift", []string{"c1", "c2", "c3"}, game.ActInitiateGift},
		{"competition", []string{"c1", "c2", "c3", "c4"}, game.ActInitiateCompetition},
	}
	for _, tc := range cases {
		action := buildAction(tc.kind, "alice", tc.ids)
		if action.Type != tc.want {
			t.Fatalf("kind %q: expected action type %v, got %v", tc.kind, tc.want, action.Type)
		}
		if action.PlayerID != "alice" {
			t.Fatalf("kind %q: expected actor alice, got %q", tc.kind, action.PlayerID)
		}
	}
}

func TestRandomCardsForReturnsNilWhenHandTooSmall(t *testing.T) {
	hand := []heuristic.Card{{ID: "c1", GeishaID: 1}}
	if got := randomCardsFor("gift", hand); got != nil {
		t.Fatalf("expected nil for an undersized hand, got %v", got)
	}
}

func TestRandomCardsForReturnsRequestedCount(t *testing.T) {
	hand := []heuristic.Card{
		{ID: "c1", GeishaID: 1}, {ID: "c2", GeishaID: 2},
		{ID: "c3", GeishaID: 3}, {ID: "c4", GeishaID: 4},
	}
	got := randomCardsFor("trade-off", hand)
	if len(got) != 2 {
		t.Fatalf("expected 2 card ids for trade-off, got %v", got)
	}
}

func TestPickByFixedPreferencePicksCompetitionOverGiftWhenBothLegal(t *testing.T) {
	geishas := map[int]heuristic.Geisha{
		1: {ID: 1, Charm: 5}, 2: {ID: 2, Charm: 1},
		3: {ID: 3, Charm: 1}, 4: {ID: 4, Charm: 1},
	}
	hand := []heuristic.Card{
		{ID: "c1", GeishaID: 1}, {ID: "c2", GeishaID: 2},
		{ID: "c3", GeishaID: 3}, {ID: "c4", GeishaID: 4},
	}
	kind, ids := pickByFixedPreference([]string{"gift", "competition"}, hand, geishas, "alice")
	if kind != "competition" || len(ids) != 4 {
		t.Fatalf("expected competition to win the fixed preference order, got kind=%q ids=%v", kind, ids)
	}
}

func TestPickByFixedPreferenceFallsBackWhenHigherPreferenceIsIllegal(t *testing.T) {
	geishas := map[int]heuristic.Geisha{1: {ID: 1, Charm: 5}}
	hand := []heuristic.Card{{ID: "c1", GeishaID: 1}}
	kind, ids := pickByFixedPreference([]string{"secret", "competition", "gift"}, hand, geishas, "alice")
	if kind != "secret" || len(ids) != 1 {
		t.Fatalf("expected secret (the only legal kind with one card), got kind=%q ids=%v", kind, ids)
	}
}
