package game

import (
	"context"
	"fmt"

	"hanamikoji/geisha"
)

// outboundEnvelope is the wire shape for every server→client frame:
// { "type": "...", "payload": {...} }.
type outboundEnvelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type errorPayload struct {
	Message  string `json:"message"`
	Category string `json:"category"`
}

type roomCreatedPayload struct {
	RoomID      string `json:"roomId"`
	HostID      string `json:"hostId"`
	GeishaSet   string `json:"geishaSet"`
	RejoinToken string `json:"rejoinToken"`
}

type playerJoinedPayload struct {
	PlayerID    string `json:"playerId"`
	RejoinToken string `json:"rejoinToken"`
}

type playerLeftPayload struct {
	PlayerID string `json:"playerId"`
}

type roomExpiredPayload struct {
	RoomID string `json:"roomId"`
}

type orderDecisionStartPayload struct{}

type orderDecisionResultPayload struct {
	Order []string `json:"order"`
}

type orderConfirmationUpdatePayload struct {
	Confirmed map[string]bool `json:"confirmed"`
}

type readyCheckPayload struct{}

type readyStatusPayload struct {
	Ready map[string]bool `json:"ready"`
}

type dealStepView struct {
	PlayerID string       `json:"playerId"`
	Card     *cardView    `json:"card"`
}

type dealAnimationPayload struct {
	Steps []dealStepView `json:"steps"`
}

type cardDrawnPayload struct {
	PlayerID string    `json:"playerId"`
	Card     *cardView `json:"card"`
}

type actionExecutedPayload struct {
	Type    string   `json:"type"`
	ActorID string   `json:"actorId"`
	CardIDs []string `json:"cardIds"`
}

type pendingInteractionPayload struct {
	Kind         string      `json:"kind"`
	InitiatorID  string      `json:"initiatorId"`
	TargetID     string      `json:"targetId"`
	OfferedCards []cardView  `json:"offeredCards,omitempty"`
	Groups       [][]cardView `json:"groups,omitempty"`
}

type interactionResolvedPayload struct {
	Kind    string `json:"kind"`
	Winner  string `json:"winnerSeatId"`
}

type roundCompletePayload struct {
	Round   int            `json:"round"`
	Scores  map[string]Score `json:"scores"`
	Control map[int]string `json:"control"`
}

type gameEndedPayload struct {
	Winner string           `json:"winner"`
	Scores map[string]Score `json:"scores"`
}

type rematchRequestedPayload struct {
	PlayerID string `json:"playerId"`
}

type gameStartedPayload struct {
	Order []string `json:"order"`
}

func cardViewsOf(cards []geisha.Card) []cardView {
	out := make([]cardView, len(cards))
	for i, c := range cards {
		out[i] = cardView{ID: c.ID, GeishaID: c.GeishaID, Known: true}
	}
	return out
}

// SnapshotKey returns the namespaced key a room's snapshot is stored
// under. Exported so the room registry can probe snapshot storage on
// a JOIN_ROOM cache miss before giving up.
func SnapshotKey(roomID string) string {
	return fmt.Sprintf("hanamikoji:room:%s", roomID)
}

func (r *Room) persistSnapshot() {
	if r.Snapshot == nil {
		return
	}
	data, err := r.marshalSnapshot()
	if err != nil {
		r.Logger.Error("snapshot marshal failed", "tag", "room", "room", r.ID, "err", err)
		return
	}
	ttl := r.Config.RoomTTLSeconds
	go func(key, value string) {
		if err := r.Snapshot.Put(context.Background(), key, value, ttl); err != nil {
			r.Logger.Error("snapshot put failed", "tag", "room", "room", r.ID, "err", err)
		}
	}(SnapshotKey(r.ID), string(data))
}
