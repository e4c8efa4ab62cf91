package ws

import "encoding/json"

// InboundEnvelope is the generic envelope for all client-to-server
// messages. Type drives dispatch; Raw holds the full payload so each
// handler can decode its own shape.
type InboundEnvelope struct {
	Type string          `json:"type"`
	Raw  json.RawMessage `json:"-"`
}

// UnmarshalJSON captures the raw payload alongside the type field.
func (e *InboundEnvelope) UnmarshalJSON(data []byte) error {
	type typeOnly struct {
		Type string `json:"type"`
	}
	var t typeOnly
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	e.Type = t.Type
	e.Raw = json.RawMessage(data)
	return nil
}

// --- Client-to-server message payloads ---

// CreateRoomMsg starts a new room, optionally seating an AI opponent.
type CreateRoomMsg struct {
	Type         string `json:"type"`
	PlayerID     string `json:"playerId"`
	Name         string `json:"name"`
	Mode         string `json:"mode"` // "online" or "npc"
	AIDifficulty string `json:"aiDifficulty,omitempty"`
	GeishaSet    string `json:"geishaSet,omitempty"`
}

// JoinRoomMsg seats the caller into an existing room.
type JoinRoomMsg struct {
	Type     string `json:"type"`
	RoomID   string `json:"roomId"`
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
}

// ReconnectMsg re-attaches a dropped seat using its rejoin token.
type ReconnectMsg struct {
	Type        string `json:"type"`
	RoomID      string `json:"roomId"`
	PlayerID    string `json:"playerId"`
	RejoinToken string `json:"rejoinToken"`
}

// ConfirmOrderMsg confirms the revealed turn order (§4.5).
type ConfirmOrderMsg struct {
	Type string `json:"type"`
}

// ReadyConfirmMsg confirms readiness for the upcoming round (§4.5).
type ReadyConfirmMsg struct {
	Type string `json:"type"`
}

// GameActionMsg wraps one of the six rule-engine actions.
type GameActionMsg struct {
	Type     string      `json:"type"`
	Action   string      `json:"action"`
	CardID   string      `json:"cardId,omitempty"`
	CardIDs  []string    `json:"cardIds,omitempty"`
	Groups   [2][]string `json:"groups,omitempty"`
	GroupIdx int         `json:"groupIdx,omitempty"`
}

// RematchRequestMsg asks to play again after a completed match.
type RematchRequestMsg struct {
	Type string `json:"type"`
}

// LeaveRoomMsg voluntarily vacates a seat.
type LeaveRoomMsg struct {
	Type string `json:"type"`
}

// --- Server-to-client messages ---

// RoomCreatedMsg confirms CREATE_ROOM and hands back the room id.
type RoomCreatedMsg struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
}

// ErrorMsg reports a rejected action.
type ErrorMsg struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	Category string `json:"category"`
}
