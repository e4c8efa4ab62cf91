package game

import (
	"hanamikoji/geisha"
	"hanamikoji/matcherrors"
)

// handlePlayTradeOff implements PLAY_TRADE_OFF: both cards leave the hand
// for discardedCards (excluded from scoring; the opponent sees only how
// many there are).
// If either card lookup fails, anything already removed is rolled back
// into the hand before the action is rejected.
func (r *Room) handlePlayTradeOff(playerID string, cardIDs []string) {
	p, err := r.validateActive(playerID, TokenTradeOff)
	if err != nil {
		r.sendError(playerID, err)
		return
	}
	if len(cardIDs) != 2 {
		r.sendError(playerID, matcherrors.ErrInvalidCardCount)
		return
	}
	if hasDuplicates(cardIDs) {
		r.sendError(playerID, matcherrors.ErrDuplicateGroup)
		return
	}

	cards, ok := removeAllOrRollback(p, cardIDs)
	if !ok {
		r.sendError(playerID, matcherrors.ErrCardNotInHand)
		return
	}

	p.DiscardedCards = append(p.DiscardedCards, cards...)
	p.token(TokenTradeOff).Used = true

	r.State.LastAction = &ActionEvent{Type: string(ActPlayTradeOff), ActorID: playerID, CardIDs: cardIDs}
	r.broadcastActionExecuted(playerID, string(ActPlayTradeOff), cardIDs)
	r.advanceTurn(playerID)
}

// removeAllOrRollback removes every id in ids from p's hand. On the
// first missing id, everything already removed in this call is put
// back and (nil, false) is returned.
func removeAllOrRollback(p *Player, ids []string) ([]geisha.Card, bool) {
	var taken []geisha.Card
	for _, id := range ids {
		c, ok := p.removeFromHand(id)
		if !ok {
			for _, rc := range taken {
				p.Hand = append(p.Hand, rc)
			}
			return nil, false
		}
		taken = append(taken, c)
	}
	return taken, true
}
