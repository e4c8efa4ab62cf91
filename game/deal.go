package game

import (
	"fmt"

	"hanamikoji/geisha"
)

// prepareRoundState rebuilds the board for a fresh round: geishas with
// preserved controlledBy, a freshly shuffled deck, both players reset to
// empty hands with new tokens, and a 6-card alternating deal. orderedIDs
// gives the seating order with the round's starting player first.
// announceOrder controls whether an ORDER_DECISION_RESULT accompanies
// the deal — true only for the game's first round, since subsequent
// rounds alternate the starter deterministically and need no fresh
// random decision.
func (r *Room) prepareRoundState(orderedIDs []string, roundNumber int, announceOrder bool) error {
	prevControl := make(map[int]string, len(r.State.Geishas))
	for _, g := range r.State.Geishas {
		prevControl[g.ID] = g.ControlledBy
	}

	geishas, err := r.Catalog.BuildGeishas(r.GeishaSetKey)
	if err != nil {
		return fmt.Errorf("prepareRoundState: %w", err)
	}
	for i := range geishas {
		geishas[i].ControlledBy = prevControl[geishas[i].ID]
	}

	drawPile, removed, err := geisha.BuildDeck(geishas)
	if err != nil {
		return fmt.Errorf("prepareRoundState: %w", err)
	}

	for _, pid := range orderedIDs {
		r.State.Players[pid].resetForRound()
	}

	r.DealSequence = nil
	for round := 0; round < 6; round++ {
		for _, pid := range orderedIDs {
			card := drawPile[0]
			drawPile = drawPile[1:]
			r.State.Players[pid].Hand = append(r.State.Players[pid].Hand, card)
			r.DealSequence = append(r.DealSequence, DealStep{PlayerID: pid, Card: card})
		}
	}

	r.State.Geishas = geishas
	r.State.DrawPile = drawPile
	r.State.DiscardPile = nil
	r.State.RemovedCard = &removed
	r.State.Round = roundNumber
	r.State.PendingInteraction = nil
	r.State.LastAction = nil
	r.State.Winner = ""
	r.State.Phase = PhasePlaying

	if err := r.validateRoundSetup(); err != nil {
		// Programming bug, not a player error: log and continue per §7.
		r.Logger.Error("round setup invariant violated", "tag", "room", "room", r.ID, "err", err)
	}

	r.broadcastDealAnimation()
	if announceOrder {
		r.broadcastAll("ORDER_DECISION_RESULT", orderDecisionResultPayload{Order: orderedIDs})
	}

	r.beginTurn(r.State.Players[orderedIDs[0]])
	return nil
}

// validateRoundSetup is a diagnostic-only post-condition check: card
// totals and id uniqueness. A violation indicates a server bug, never a
// player action, so it is logged and the round proceeds regardless.
func (r *Room) validateRoundSetup() error {
	seen := make(map[string]bool)
	total := 0

	count := func(cards []geisha.Card) error {
		for _, c := range cards {
			if seen[c.ID] {
				return fmt.Errorf("duplicate card id %s", c.ID)
			}
			seen[c.ID] = true
			total++
		}
		return nil
	}

	for _, pid := range r.State.SeatOrder {
		p := r.State.Players[pid]
		if len(p.Hand) != 6 {
			return fmt.Errorf("player %s: expected 6 cards in hand, got %d", pid, len(p.Hand))
		}
		if err := count(p.Hand); err != nil {
			return err
		}
	}
	if err := count(r.State.DrawPile); err != nil {
		return err
	}
	if r.State.RemovedCard == nil {
		return fmt.Errorf("removedCard is unset")
	}
	if err := count([]geisha.Card{*r.State.RemovedCard}); err != nil {
		return err
	}
	if len(r.State.DrawPile) != 8 {
		return fmt.Errorf("expected drawPile of 8, got %d", len(r.State.DrawPile))
	}
	if total != 21 {
		return fmt.Errorf("expected 21 total cards, got %d", total)
	}
	return nil
}

func (r *Room) broadcastDealAnimation() {
	for _, pid := range r.State.SeatOrder {
		p := r.player(pid)
		if p == nil || p.Send == nil {
			continue
		}
		steps := maskDealSequence(r.DealSequence, pid)
		r.broadcastTo(pid, "DEAL_ANIMATION", dealAnimationPayload{Steps: steps})
	}
}

func (r *Room) broadcastCardDrawn(playerID string, card geisha.Card) {
	for _, pid := range r.State.SeatOrder {
		p := r.player(pid)
		if p == nil || p.Send == nil {
			continue
		}
		if pid == playerID {
			cv := cardViewsOf([]geisha.Card{card})[0]
			r.broadcastTo(pid, "CARD_DRAWN", cardDrawnPayload{PlayerID: playerID, Card: &cv})
		} else {
			ph := placeholderCards(1)[0]
			r.broadcastTo(pid, "CARD_DRAWN", cardDrawnPayload{PlayerID: playerID, Card: &ph})
		}
	}
}
