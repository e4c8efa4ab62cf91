// Package ai drives a computer-controlled seat exactly the way a
// human client would: by reading the room's broadcasted, masked
// frames off its own seat's channel and pushing the same RoomEvents a
// websocket connection would. Nothing in package game ever calls into
// this package — the dependency runs one way, so the rule engine stays
// ignorant of whether a seat is a person or this goroutine.
package ai

import (
	"encoding/json"
	"log/slog"
	"math/rand"
	"time"

	"hanamikoji/ai/heuristic"
	"hanamikoji/config"
	"hanamikoji/game"
)

type frameEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Run consumes broadcast frames from recv — the same channel the room
// would otherwise drain into a websocket connection — until it is
// closed, and pushes decisions into room.Actions. playerID is this
// seat's id; profile controls think-delay and decision policy.
//
// Run touches the room only through room.Actions and room.Done, both of
// which are safe to use from any goroutine.
func Run(recv <-chan []byte, room *game.Room, playerID string, profile config.AIProfile) {
	var cancel chan struct{}
	stopPending := func() {
		if cancel != nil {
			close(cancel)
			cancel = nil
		}
	}
	defer stopPending()

	lastGeishas := make(map[int]heuristic.Geisha)

	for data := range recv {
		var env frameEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			continue
		}

		switch env.Type {
		case "READY_CHECK":
			stopPending()
			go func() {
				time.Sleep(thinkDelay(profile))
				sendReady(room, playerID)
			}()

		case "ORDER_DECISION_RESULT":
			stopPending()
			go func() {
				time.Sleep(thinkDelay(profile))
				sendConfirmOrder(room, playerID)
			}()

		case "PENDING_INTERACTION":
			var payload struct {
				Kind         string `json:"kind"`
				TargetID     string `json:"targetId"`
				OfferedCards []struct {
					ID       string `json:"id"`
					GeishaID int    `json:"geishaId"`
				} `json:"offeredCards"`
				Groups [][]struct {
					ID       string `json:"id"`
					GeishaID int    `json:"geishaId"`
				} `json:"groups"`
			}
			if err := json.Unmarshal(env.Payload, &payload); err != nil {
				continue
			}
			if payload.TargetID != playerID {
				continue
			}
			stopPending()
			cancel = make(chan struct{})
			c := cancel
			geishas := lastGeishas
			go func() {
				if !sleepCancelable(thinkDelay(profile), c) {
					return
				}
				resolvePendingInteraction(room, playerID, payload.Kind, payload.OfferedCards, payload.Groups, geishas)
			}()

		case "GAME_STATE_UPDATED":
			var view game.ViewState
			if err := json.Unmarshal(env.Payload, &view); err != nil {
				continue
			}
			lastGeishas = geishaMap(view, playerID)
			if view.Pending != nil && view.Pending.TargetID == playerID {
				// keep the resolve already scheduled by PENDING_INTERACTION
				continue
			}
			stopPending()
			if view.Phase != game.PhasePlaying || view.CurrentTurn != playerID || view.Pending != nil {
				continue
			}
			cancel = make(chan struct{})
			c := cancel
			go func() {
				if !sleepCancelable(thinkDelay(profile), c) {
					return
				}
				takeTurn(room, playerID, view, profile)
			}()

		default:
			// every other frame (PLAYER_JOINED, ACTION_EXECUTED, ROUND_COMPLETE, ...)
			// carries nothing this seat needs to act on.
		}
	}
}

func thinkDelay(profile config.AIProfile) time.Duration {
	base := time.Duration(profile.ThinkDelayMS) * time.Millisecond
	jitter := time.Duration(rand.Intn(200)) * time.Millisecond
	return base + jitter
}

// sleepCancelable waits for d or cancel, whichever comes first.
// Returns false if cancel fired first.
func sleepCancelable(d time.Duration, cancel <-chan struct{}) bool {
	select {
	case <-time.After(d):
		return true
	case <-cancel:
		return false
	}
}

func sendReady(room *game.Room, playerID string) {
	send(room, game.RoomEvent{Type: game.EvtReadyConfirm, PlayerID: playerID})
}

func sendConfirmOrder(room *game.Room, playerID string) {
	send(room, game.RoomEvent{Type: game.EvtConfirmOrder, PlayerID: playerID})
}

func send(room *game.Room, ev game.RoomEvent) {
	select {
	case room.Actions <- ev:
	case <-room.Done:
	}
}

func availableTokenKinds(view game.ViewState, playerID string) []string {
	p, ok := view.Players[playerID]
	if !ok {
		return nil
	}
	kinds := make([]string, 0, 4)
	for _, t := range p.Tokens {
		if !t.Used {
			kinds = append(kinds, string(t.Kind))
		}
	}
	return kinds
}

// geishaMap builds the AI's per-geisha favor snapshot from the
// broadcast view: charm comes from the static geisha list, myCount
// and oppCount come live from each seat's PlayedCards, which the
// masker leaves unmasked for both viewers precisely so this is
// derivable without peeking at hidden state.
func geishaMap(view game.ViewState, selfID string) map[int]heuristic.Geisha {
	out := make(map[int]heuristic.Geisha, len(view.Geishas))
	for _, g := range view.Geishas {
		out[g.ID] = heuristic.Geisha{ID: g.ID, Charm: g.Charm}
	}
	for seatID, p := range view.Players {
		toMySide := seatID == selfID
		for _, c := range p.PlayedCards {
			g, ok := out[c.GeishaID]
			if !ok {
				continue
			}
			if toMySide {
				g.MyCount++
			} else {
				g.OppCount++
			}
			out[c.GeishaID] = g
		}
	}
	return out
}

func handCards(view game.ViewState, playerID string) []heuristic.Card {
	p, ok := view.Players[playerID]
	if !ok {
		return nil
	}
	out := make([]heuristic.Card, 0, len(p.Hand))
	for _, c := range p.Hand {
		if !c.Known {
			continue
		}
		out = append(out, heuristic.Card{ID: c.ID, GeishaID: c.GeishaID})
	}
	return out
}

// takeTurn picks which of the remaining unused tokens to play this
// turn and sends the corresponding GAME_ACTION. A policy of "random"
// ignores the heuristics entirely for token AND card choice, exactly
// the baseline difficulty the config layer documents it as.
func takeTurn(room *game.Room, playerID string, view game.ViewState, profile config.AIProfile) {
	kinds := availableTokenKinds(view, playerID)
	if len(kinds) == 0 {
		return
	}
	hand := handCards(view, playerID)
	geishas := geishaMap(view, playerID)

	var kind string
	var ids []string

	switch profile.Policy {
	case "random":
		kind = kinds[rand.Intn(len(kinds))]
		ids = randomCardsFor(kind, hand)
	case "minimax":
		kind, ids = heuristic.BestTokenByMinimax(kinds, hand, geishas, playerID)
	default: // "ranked_greedy" and any unrecognized policy fall back to it
		kind, ids = pickByFixedPreference(kinds, hand, geishas, playerID)
	}

	if kind == "" || len(ids) == 0 {
		kind = kinds[0]
		ids = randomCardsFor(kind, hand)
	}

	action := buildAction(kind, playerID, ids)
	slog.Debug("ai chose turn action", "tag", "ai", "player", playerID, "kind", kind, "cards", ids)
	send(room, game.RoomEvent{Type: game.EvtGameAction, PlayerID: playerID, Payload: action})
}

// tokenPreferenceOrder is the fixed priority medium/hard fall back to
// when no deeper search runs: competition before gift before secret
// before trade-off, whichever is legal first.
var tokenPreferenceOrder = []string{"competition", "gift", "secret", "trade-off"}

func pickByFixedPreference(kinds []string, hand []heuristic.Card, geishas map[int]heuristic.Geisha, playerID string) (string, []string) {
	legal := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		legal[k] = true
	}
	for _, k := range tokenPreferenceOrder {
		if !legal[k] {
			continue
		}
		ids, ok := heuristic.Choose(k, hand, geishas, playerID)
		if ok {
			return k, ids
		}
	}
	return "", nil
}

func randomCardsFor(kind string, hand []heuristic.Card) []string {
	need := map[string]int{"secret": 1, "trade-off": 2, "gift": 3, "competition": 4}[kind]
	if need == 0 || len(hand) < need {
		return nil
	}
	shuffled := append([]heuristic.Card(nil), hand...)
	rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	out := make([]string, need)
	for i := 0; i < need; i++ {
		out[i] = shuffled[i].ID
	}
	return out
}

func buildAction(kind, playerID string, ids []string) game.GameAction {
	switch kind {
	case "secret":
		return game.GameAction{Type: game.ActPlaySecret, PlayerID: playerID, CardID: ids[0]}
	case "trade-off":
		return game.GameAction{Type: game.ActPlayTradeOff, PlayerID: playerID, CardIDs: ids}
	case "gift":
		return game.GameAction{Type: game.ActInitiateGift, PlayerID: playerID, CardIDs: ids}
	case "competition":
		return game.GameAction{Type: game.ActInitiateCompetition, PlayerID: playerID, Groups: [2][]string{{ids[0], ids[1]}, {ids[2], ids[3]}}}
	}
	return game.GameAction{}
}

func resolvePendingInteraction(room *game.Room, playerID, kind string, offered []struct {
	ID       string `json:"id"`
	GeishaID int    `json:"geishaId"`
}, groups [][]struct {
	ID       string `json:"id"`
	GeishaID int    `json:"geishaId"`
}, geishas map[int]heuristic.Geisha) {
	switch kind {
	case string(game.InteractionGift):
		cards := make([]heuristic.Card, len(offered))
		for i, c := range offered {
			cards[i] = heuristic.Card{ID: c.ID, GeishaID: c.GeishaID}
		}
		chosen := heuristic.ResolveGift(cards, geishas, playerID)
		if chosen == "" {
			return
		}
		send(room, game.RoomEvent{Type: game.EvtGameAction, PlayerID: playerID, Payload: game.GameAction{
			Type: game.ActResolveGift, PlayerID: playerID, CardID: chosen,
		}})
	case string(game.InteractionCompetition):
		if len(groups) != 2 {
			return
		}
		var groupCards [2][]heuristic.Card
		for gi, group := range groups {
			groupCards[gi] = make([]heuristic.Card, len(group))
			for i, c := range group {
				groupCards[gi][i] = heuristic.Card{ID: c.ID, GeishaID: c.GeishaID}
			}
		}
		idx := heuristic.ResolveCompetition(groupCards, geishas, playerID)
		send(room, game.RoomEvent{Type: game.EvtGameAction, PlayerID: playerID, Payload: game.GameAction{
			Type: game.ActResolveCompetition, PlayerID: playerID, GroupIdx: idx,
		}})
	}
}
