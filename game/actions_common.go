package game

import "hanamikoji/matcherrors"

// validateActive checks the common preconditions shared by every
// turn-consuming action: it's the current phase for play, no pending
// interaction is open, it is playerID's turn, and the requested token is
// unused. On success it returns the player; the caller looks the token
// up again to mark it used.
func (r *Room) validateActive(playerID string, kind TokenKind) (*Player, error) {
	if r.State.Phase != PhasePlaying {
		return nil, matcherrors.ErrWrongPhase
	}
	if r.State.PendingInteraction != nil {
		return nil, matcherrors.ErrInteractionAlreadyOpen
	}
	if r.State.CurrentTurn != playerID {
		return nil, matcherrors.ErrNotYourTurn
	}
	p := r.player(playerID)
	if p == nil {
		return nil, matcherrors.ErrRoomNotFound
	}
	t := p.token(kind)
	if t == nil || t.Used {
		return nil, matcherrors.ErrTokenAlreadyUsed
	}
	return p, nil
}

// validateResolve checks the common preconditions for a RESOLVE_* action:
// a pending interaction of the expected kind exists and the submitter is
// its target.
func (r *Room) validateResolve(playerID string, kind InteractionKind) (*PendingInteraction, error) {
	pi := r.State.PendingInteraction
	if pi == nil || pi.Kind != kind {
		return nil, matcherrors.ErrNoPendingInteraction
	}
	if pi.TargetID != playerID {
		return nil, matcherrors.ErrNotInteractionTarget
	}
	return pi, nil
}

func hasDuplicates(ids []string) bool {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return true
		}
		seen[id] = true
	}
	return false
}

func (r *Room) broadcastActionExecuted(actorID string, actionType string, cardIDs []string) {
	for _, pid := range r.State.SeatOrder {
		ids := cardIDs
		if pid != actorID {
			ids = []string{}
		}
		r.broadcastTo(pid, "ACTION_EXECUTED", actionExecutedPayload{
			Type:    actionType,
			ActorID: actorID,
			CardIDs: ids,
		})
	}
}

func (r *Room) broadcastPendingInteraction() {
	pi := r.State.PendingInteraction
	if pi == nil {
		return
	}
	for _, pid := range r.State.SeatOrder {
		payload := pendingInteractionPayload{
			Kind:        string(pi.Kind),
			InitiatorID: pi.InitiatorID,
			TargetID:    pi.TargetID,
		}
		if pid == pi.TargetID {
			switch pi.Kind {
			case InteractionGift:
				payload.OfferedCards = cardViewsOf(pi.OfferedCards)
			case InteractionCompetition:
				payload.Groups = [][]cardView{
					cardViewsOf(pi.Groups[0][:]),
					cardViewsOf(pi.Groups[1][:]),
				}
			}
		}
		r.broadcastTo(pid, "PENDING_INTERACTION", payload)
	}
}

func (r *Room) broadcastInteractionResolved(kind InteractionKind) {
	r.broadcastAll("INTERACTION_RESOLVED", interactionResolvedPayload{Kind: string(kind)})
}
