package game

import (
	"testing"

	"pgregory.net/rapid"

	"hanamikoji/config"
	"hanamikoji/geisha"
)

// setupPlayingRoom seats two players and deals round 1 directly,
// bypassing the mailbox so the property test can drive actions
// synchronously and inspect state between steps.
func setupPlayingRoom(t *rapid.T) *Room {
	cfg := config.Defaults()
	catalog := geisha.NewRegistry()
	geisha.RegisterDefaults(catalog)
	room := NewRoom("PROP01", "alice", "default", catalog, cfg, nil, nil)

	room.handleJoinSeat(RoomEvent{Type: EvtJoinSeat, PlayerID: "alice", Payload: JoinSeatPayload{PlayerID: "alice", Name: "Alice"}})
	room.handleJoinSeat(RoomEvent{Type: EvtJoinSeat, PlayerID: "bob", Payload: JoinSeatPayload{PlayerID: "bob", Name: "Bob"}})

	if err := room.prepareRoundState([]string{"alice", "bob"}, 1, true); err != nil {
		t.Fatalf("prepareRoundState failed: %v", err)
	}
	return room
}

// totalCardsAndDuplicates walks every zone a card can be in and reports
// the total count plus whether any card id appears twice.
func totalCardsAndDuplicates(r *Room) (int, bool) {
	seen := make(map[string]bool)
	total := 0
	add := func(cards []geisha.Card) {
		for _, c := range cards {
			seen[c.ID] = true
			total++
		}
	}
	for _, pid := range r.State.SeatOrder {
		p := r.State.Players[pid]
		add(p.Hand)
		add(p.PlayedCards)
		add(p.SecretCards)
		add(p.DiscardedCards)
	}
	add(r.State.DrawPile)
	add(r.State.DiscardPile)
	if r.State.RemovedCard != nil {
		add([]geisha.Card{*r.State.RemovedCard})
	}
	hasDup := total != len(seen)
	return total, hasDup
}

// TestCardConservationAcrossSecretPlays is the §8 universal invariant:
// the 21-card deck is conserved across every legal mutation, regardless
// of which card each seat happens to play.
func TestCardConservationAcrossSecretPlays(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		room := setupPlayingRoom(rt)

		total, dup := totalCardsAndDuplicates(room)
		if total != 21 || dup {
			rt.Fatalf("invariant violated after deal: total=%d dup=%v", total, dup)
		}

		firstIdx := rapid.IntRange(0, len(room.State.Players[room.State.CurrentTurn].Hand)-1).Draw(rt, "firstCardIdx")
		firstPlayer := room.State.CurrentTurn
		firstCard := room.State.Players[firstPlayer].Hand[firstIdx].ID
		room.handlePlaySecret(firstPlayer, firstCard)

		total, dup = totalCardsAndDuplicates(room)
		if total != 21 || dup {
			rt.Fatalf("invariant violated after first secret play: total=%d dup=%v", total, dup)
		}

		secondPlayer := room.State.CurrentTurn
		if secondPlayer == "" || secondPlayer == firstPlayer {
			return // round already resolved or no further legal secret play
		}
		hand := room.State.Players[secondPlayer].Hand
		if len(hand) == 0 {
			return
		}
		secondIdx := rapid.IntRange(0, len(hand)-1).Draw(rt, "secondCardIdx")
		secondCard := hand[secondIdx].ID
		room.handlePlaySecret(secondPlayer, secondCard)

		total, dup = totalCardsAndDuplicates(room)
		if total != 21 || dup {
			rt.Fatalf("invariant violated after second secret play: total=%d dup=%v", total, dup)
		}
	})
}
