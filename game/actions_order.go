package game

import (
	"time"

	"hanamikoji/geisha"
)

// startOrderDecision announces the order-decision sub-protocol has
// begun and schedules the random reveal after the configured delay.
// Called when the second seat joins and again when a rematch starts.
func (r *Room) startOrderDecision() {
	r.State.Phase = PhaseDecidingOrder
	r.OrderDecision = OrderDecisionState{Started: true, Confirmed: make(map[string]bool)}
	r.broadcastAll("ORDER_DECISION_START", orderDecisionStartPayload{})

	cancel := make(chan struct{})
	r.orderRevealCancel = cancel
	delay := time.Duration(r.Config.Timing.OrderRevealMS) * time.Millisecond
	scheduleRoomEvent(r.Actions, delay, cancel, RoomEvent{Type: evtOrderRevealTimer})
}

func (r *Room) handleOrderRevealTimer() {
	if !r.OrderDecision.Started || r.OrderDecision.Result != "" {
		return
	}
	if len(r.State.SeatOrder) != 2 {
		return
	}
	idx, err := geisha.SecureIntn(2)
	if err != nil {
		r.Logger.Error("order decision rng failed", "tag", "room", "room", r.ID, "err", err)
		idx = 0
	}
	first := r.State.SeatOrder[idx]
	r.OrderDecision.Result = first
	r.State.LastRoundStarterID = first

	r.broadcastAll("ORDER_DECISION_RESULT", orderDecisionResultPayload{
		Order: []string{first, r.otherSeat(first)},
	})
}

func (r *Room) handleConfirmOrder(ev RoomEvent) {
	if r.State.Phase != PhaseDecidingOrder || r.OrderDecision.Result == "" {
		return
	}
	if r.OrderDecision.Confirmed == nil {
		r.OrderDecision.Confirmed = make(map[string]bool)
	}
	r.OrderDecision.Confirmed[ev.PlayerID] = true
	r.broadcastAll("ORDER_CONFIRMATION_UPDATE", orderConfirmationUpdatePayload{
		Confirmed: copyBoolMap(r.OrderDecision.Confirmed),
	})
	if r.allSeatsConfirmed(r.OrderDecision.Confirmed) {
		r.startReadyCheck()
	}
}

func (r *Room) allSeatsConfirmed(confirmed map[string]bool) bool {
	if len(r.State.SeatOrder) != 2 {
		return false
	}
	for _, id := range r.State.SeatOrder {
		if !confirmed[id] {
			return false
		}
	}
	return true
}

func copyBoolMap(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// scheduleRoomEvent fires ev into actions after delay unless cancel is
// closed first. This is the single mechanism behind every timed
// transition in the room (order reveal, round pause): a goroutine that
// re-enters the mailbox instead of mutating state directly, per §5/§9.
func scheduleRoomEvent(actions chan RoomEvent, delay time.Duration, cancel chan struct{}, ev RoomEvent) {
	go func() {
		select {
		case <-time.After(delay):
			select {
			case actions <- ev:
			case <-cancel:
			}
		case <-cancel:
		}
	}()
}
