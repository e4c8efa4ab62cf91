package game

// startReadyCheck begins the second half of the order/ready
// sub-protocol: both seats must confirm readiness before the first turn
// begins.
func (r *Room) startReadyCheck() {
	r.ReadyConfirmations = make(map[string]bool)
	r.broadcastAll("READY_CHECK", readyCheckPayload{})
}

func (r *Room) handleReadyConfirm(ev RoomEvent) {
	if r.ReadyConfirmations == nil {
		r.ReadyConfirmations = make(map[string]bool)
	}
	r.ReadyConfirmations[ev.PlayerID] = true
	r.broadcastAll("READY_STATUS", readyStatusPayload{Ready: copyBoolMap(r.ReadyConfirmations)})

	if !r.allSeatsConfirmed(r.ReadyConfirmations) {
		return
	}

	starter := r.OrderDecision.Result
	if starter == "" {
		starter = r.State.SeatOrder[0]
	}
	order := []string{starter, r.otherSeat(starter)}
	r.State.LastRoundStarterID = starter

	r.broadcastAll("GAME_STARTED", gameStartedPayload{Order: order})
	if err := r.prepareRoundState(order, 1, true); err != nil {
		r.Logger.Error("prepareRoundState failed", "tag", "room", "room", r.ID, "err", err)
	}
}
