package game

import (
	"hanamikoji/geisha"
	"hanamikoji/matcherrors"
)

// handleInitiateCompetition implements INITIATE_COMPETITION: four cards
// leave the initiator's hand as two groups of two, offered to the
// opponent to choose one group from. The turn does not advance until
// RESOLVE_COMPETITION.
func (r *Room) handleInitiateCompetition(playerID string, groups [2][]string) {
	p, err := r.validateActive(playerID, TokenCompetition)
	if err != nil {
		r.sendError(playerID, err)
		return
	}
	if len(groups[0]) != 2 || len(groups[1]) != 2 {
		r.sendError(playerID, matcherrors.ErrInvalidCardCount)
		return
	}

	allIDs := append(append([]string{}, groups[0]...), groups[1]...)
	if hasDuplicates(allIDs) {
		r.sendError(playerID, matcherrors.ErrDuplicateGroup)
		return
	}

	cards, ok := removeAllOrRollback(p, allIDs)
	if !ok {
		r.sendError(playerID, matcherrors.ErrCardNotInHand)
		return
	}

	target := r.otherSeat(playerID)
	r.State.PendingInteraction = &PendingInteraction{
		Kind:        InteractionCompetition,
		InitiatorID: playerID,
		TargetID:    target,
		Groups: [2][2]geisha.Card{
			{cards[0], cards[1]},
			{cards[2], cards[3]},
		},
	}
	p.token(TokenCompetition).Used = true

	r.broadcastPendingInteraction()
	r.broadcastState()
}

// handleResolveCompetition implements RESOLVE_COMPETITION: the target's
// chosen group goes to the target, the other group goes to the
// initiator, then the turn advances.
func (r *Room) handleResolveCompetition(playerID string, groupIdx int) {
	pi, err := r.validateResolve(playerID, InteractionCompetition)
	if err != nil {
		r.sendError(playerID, err)
		return
	}
	if groupIdx != 0 && groupIdx != 1 {
		r.sendError(playerID, matcherrors.ErrInvalidCardCount)
		return
	}

	chosen := pi.Groups[groupIdx]
	other := pi.Groups[1-groupIdx]

	target := r.player(pi.TargetID)
	initiator := r.player(pi.InitiatorID)
	target.PlayedCards = append(target.PlayedCards, chosen[0], chosen[1])
	initiator.PlayedCards = append(initiator.PlayedCards, other[0], other[1])

	r.State.PendingInteraction = nil
	r.broadcastInteractionResolved(InteractionCompetition)
	r.advanceTurn(pi.InitiatorID)
}
