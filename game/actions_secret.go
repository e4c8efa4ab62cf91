package game

import "hanamikoji/matcherrors"

// handlePlaySecret implements PLAY_SECRET: the card moves face-down into
// secretCards, invisible to the opponent until round resolution.
func (r *Room) handlePlaySecret(playerID, cardID string) {
	p, err := r.validateActive(playerID, TokenSecret)
	if err != nil {
		r.sendError(playerID, err)
		return
	}
	if !p.hasCard(cardID) {
		r.sendError(playerID, matcherrors.ErrCardNotInHand)
		return
	}

	card, _ := p.removeFromHand(cardID)
	p.SecretCards = append(p.SecretCards, card)
	p.token(TokenSecret).Used = true

	r.State.LastAction = &ActionEvent{Type: string(ActPlaySecret), ActorID: playerID, CardIDs: []string{cardID}}
	r.broadcastActionExecuted(playerID, string(ActPlaySecret), []string{cardID})
	r.advanceTurn(playerID)
}
