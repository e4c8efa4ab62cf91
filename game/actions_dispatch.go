package game

import "hanamikoji/matcherrors"

// handleGameAction decodes the GAME_ACTION envelope's action field and
// routes to the matching rule-engine handler. Every branch runs through
// the same validateActive/validateResolve preconditions, so an invalid
// action never mutates state (§4.3: "all failures are soft").
func (r *Room) handleGameAction(ev RoomEvent) {
	ga, ok := ev.Payload.(GameAction)
	if !ok {
		r.sendError(ev.PlayerID, matcherrors.ErrMalformedMessage)
		return
	}

	switch ga.Type {
	case ActPlaySecret:
		r.handlePlaySecret(ga.PlayerID, ga.CardID)
	case ActPlayTradeOff:
		r.handlePlayTradeOff(ga.PlayerID, ga.CardIDs)
	case ActInitiateGift:
		r.handleInitiateGift(ga.PlayerID, ga.CardIDs)
	case ActResolveGift:
		r.handleResolveGift(ga.PlayerID, ga.CardID)
	case ActInitiateCompetition:
		r.handleInitiateCompetition(ga.PlayerID, ga.Groups)
	case ActResolveCompetition:
		r.handleResolveCompetition(ga.PlayerID, ga.GroupIdx)
	default:
		r.sendError(ga.PlayerID, matcherrors.ErrUnknownEventType)
	}
}
