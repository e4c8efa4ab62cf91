package game

import "hanamikoji/matcherrors"

// handleInitiateGift implements INITIATE_GIFT: three cards leave the
// initiator's hand and become a pending gift offered to the opponent.
// The turn does not advance until RESOLVE_GIFT.
func (r *Room) handleInitiateGift(playerID string, cardIDs []string) {
	p, err := r.validateActive(playerID, TokenGift)
	if err != nil {
		r.sendError(playerID, err)
		return
	}
	if len(cardIDs) != 3 {
		r.sendError(playerID, matcherrors.ErrInvalidCardCount)
		return
	}
	if hasDuplicates(cardIDs) {
		r.sendError(playerID, matcherrors.ErrDuplicateGroup)
		return
	}

	offered, ok := removeAllOrRollback(p, cardIDs)
	if !ok {
		r.sendError(playerID, matcherrors.ErrCardNotInHand)
		return
	}

	target := r.otherSeat(playerID)
	r.State.PendingInteraction = &PendingInteraction{
		Kind:         InteractionGift,
		InitiatorID:  playerID,
		TargetID:     target,
		OfferedCards: offered,
	}
	p.token(TokenGift).Used = true

	r.broadcastPendingInteraction()
	r.broadcastState()
}

// handleResolveGift implements RESOLVE_GIFT: the target's chosen card
// goes to the target, the remaining two go to the initiator, then the
// turn advances.
func (r *Room) handleResolveGift(playerID, chosenCardID string) {
	pi, err := r.validateResolve(playerID, InteractionGift)
	if err != nil {
		r.sendError(playerID, err)
		return
	}

	idx := -1
	for i, c := range pi.OfferedCards {
		if c.ID == chosenCardID {
			idx = i
			break
		}
	}
	if idx < 0 {
		r.sendError(playerID, matcherrors.ErrCardNotInHand)
		return
	}

	target := r.player(pi.TargetID)
	initiator := r.player(pi.InitiatorID)
	target.PlayedCards = append(target.PlayedCards, pi.OfferedCards[idx])
	for i, c := range pi.OfferedCards {
		if i != idx {
			initiator.PlayedCards = append(initiator.PlayedCards, c)
		}
	}

	r.State.PendingInteraction = nil
	r.broadcastInteractionResolved(InteractionGift)
	r.advanceTurn(pi.InitiatorID)
}
