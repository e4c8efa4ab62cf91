package game

import (
	"github.com/google/uuid"

	"hanamikoji/matcherrors"
)

// JoinSeatPayload is the EvtJoinSeat mailbox payload: a new human seat
// attaching to the room, with the outbound frame channel the room
// controller should broadcast to from now on.
type JoinSeatPayload struct {
	PlayerID string
	Name     string
	Send     chan []byte
}

// ReconnectPayload is the EvtReconnect mailbox payload: an existing seat
// re-attaching a new connection after a drop.
type ReconnectPayload struct {
	PlayerID    string
	RejoinToken string
	Send        chan []byte
}

func (r *Room) handleJoinSeat(ev RoomEvent) {
	payload, ok := ev.Payload.(JoinSeatPayload)
	if !ok {
		r.sendError(ev.PlayerID, matcherrors.ErrMalformedMessage)
		return
	}
	if existing := r.player(payload.PlayerID); existing != nil {
		existing.Connected = true
		existing.Send = payload.Send
		r.broadcastTo(existing.ID, "PLAYER_JOINED", playerJoinedPayload{PlayerID: existing.ID, RejoinToken: existing.RejoinToken})
		r.broadcastState()
		return
	}
	if len(r.State.SeatOrder) >= 2 {
		// This caller was never seated, so there is no stored channel
		// for sendError to route through — reply on payload.Send directly.
		r.sendDirectError(payload.Send, matcherrors.ErrRoomFull)
		return
	}

	p := newPlayer(payload.PlayerID, payload.Name)
	p.Connected = true
	p.Send = payload.Send
	p.RejoinToken = uuid.NewString()

	r.State.Players[p.ID] = p
	r.State.SeatOrder = append(r.State.SeatOrder, p.ID)

	r.broadcastTo(p.ID, "PLAYER_JOINED", playerJoinedPayload{PlayerID: p.ID, RejoinToken: p.RejoinToken})
	if other := r.otherSeat(p.ID); other != "" {
		r.broadcastTo(other, "PLAYER_JOINED", playerJoinedPayload{PlayerID: p.ID})
	}

	if len(r.State.SeatOrder) == 2 {
		r.startOrderDecision()
	}
}

func (r *Room) handleLeaveRoom(ev RoomEvent) {
	p := r.player(ev.PlayerID)
	if p == nil {
		return
	}
	p.Connected = false
	p.Send = nil
	r.broadcastAll("PLAYER_LEFT", playerLeftPayload{PlayerID: p.ID})
}

func (r *Room) handleDisconnect(ev RoomEvent) {
	p := r.player(ev.PlayerID)
	if p == nil {
		return
	}
	p.Connected = false
	p.Send = nil
	r.broadcastAll("PLAYER_LEFT", playerLeftPayload{PlayerID: p.ID})
}

// handleReconnect re-attaches a dropped seat's new connection after
// verifying its rejoin token, then immediately sends it the current
// sanitized state. No mutation occurs on disconnect, so a pending
// interaction addressed to this seat is still pending and still
// addressed correctly (scenario 5, §8).
func (r *Room) handleReconnect(ev RoomEvent) {
	payload, ok := ev.Payload.(ReconnectPayload)
	if !ok {
		r.sendError(ev.PlayerID, matcherrors.ErrMalformedMessage)
		return
	}
	// Failures below are reported straight to the connecting socket
	// (payload.Send), not through the stored seat's old channel, since
	// a failed reconnect never touches p.Send.
	p := r.player(payload.PlayerID)
	if p == nil {
		r.sendDirectError(payload.Send, matcherrors.ErrRoomNotFound)
		return
	}
	if p.RejoinToken == "" || p.RejoinToken != payload.RejoinToken {
		r.sendDirectError(payload.Send, matcherrors.ErrInvalidToken)
		return
	}

	p.Connected = true
	p.Send = payload.Send

	view := MaskForViewer(r.State, p.ID, r.DealSequence)
	r.broadcastTo(p.ID, "GAME_STATE_UPDATED", view)
	r.broadcastTo(r.otherSeat(p.ID), "PLAYER_JOINED", playerJoinedPayload{PlayerID: p.ID})
}

func (r *Room) handleRematchRequest(ev RoomEvent) {
	if r.State.Phase != PhaseEnded {
		r.sendError(ev.PlayerID, matcherrors.ErrWrongPhase)
		return
	}
	if r.RematchConfirmations == nil {
		r.RematchConfirmations = make(map[string]bool)
	}
	r.RematchConfirmations[ev.PlayerID] = true
	r.broadcastAll("REMATCH_REQUESTED", rematchRequestedPayload{PlayerID: ev.PlayerID})

	if !r.allSeatsConfirmed(r.RematchConfirmations) {
		return
	}
	r.RematchConfirmations = make(map[string]bool)
	r.State.Winner = ""
	r.State.Round = 0
	r.State.Geishas = nil
	for _, pid := range r.State.SeatOrder {
		r.State.Players[pid].resetForRound()
		r.State.Players[pid].Score = Score{}
	}
	r.startOrderDecision()
}
