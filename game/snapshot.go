package game

import (
	"encoding/json"

	"hanamikoji/geisha"
)

// snapshotDTO is the JSON-serializable projection of a Room used for
// crash/restart recovery (§4.8). It carries full, unmasked state —
// snapshots are read back only by the room that owns them, never sent
// to a client — unlike ViewState, which is the sanitized wire shape.
type snapshotDTO struct {
	HostID       string `json:"hostId"`
	GeishaSetKey string `json:"geishaSetKey"`

	Geishas     []geisha.Geisha `json:"geishas"`
	DrawPile    []geisha.Card   `json:"drawPile"`
	DiscardPile []geisha.Card   `json:"discardPile"`
	RemovedCard *geisha.Card    `json:"removedCard,omitempty"`

	Players   map[string]*snapshotPlayer `json:"players"`
	SeatOrder []string                   `json:"seatOrder"`

	CurrentTurn string    `json:"currentTurn"`
	Phase       GamePhase `json:"phase"`

	PendingInteraction *PendingInteraction `json:"pendingInteraction,omitempty"`
	LastAction         *ActionEvent        `json:"lastAction,omitempty"`

	Round              int    `json:"round"`
	LastRoundStarterID string `json:"lastRoundStarterId"`
	Winner             string `json:"winner"`

	OrderDecision        OrderDecisionState `json:"orderDecision"`
	ReadyConfirmations   map[string]bool    `json:"readyConfirmations"`
	RematchConfirmations map[string]bool    `json:"rematchConfirmations"`
	DealSequence         []DealStep         `json:"dealSequence"`

	AI *AIDescriptor `json:"ai,omitempty"`
}

// snapshotPlayer drops the live Send channel, which cannot survive a
// restart and must be re-attached on reconnect instead.
type snapshotPlayer struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	Hand           []geisha.Card `json:"hand"`
	PlayedCards    []geisha.Card `json:"playedCards"`
	SecretCards    []geisha.Card `json:"secretCards"`
	DiscardedCards []geisha.Card `json:"discardedCards"`

	Tokens [4]ActionToken `json:"tokens"`
	Score  Score          `json:"score"`

	RejoinToken string `json:"rejoinToken"`
}

func (r *Room) marshalSnapshot() ([]byte, error) {
	dto := snapshotDTO{
		HostID:               r.HostID,
		GeishaSetKey:         r.GeishaSetKey,
		Geishas:              r.State.Geishas,
		DrawPile:             r.State.DrawPile,
		DiscardPile:          r.State.DiscardPile,
		RemovedCard:          r.State.RemovedCard,
		SeatOrder:            r.State.SeatOrder,
		CurrentTurn:          r.State.CurrentTurn,
		Phase:                r.State.Phase,
		PendingInteraction:   r.State.PendingInteraction,
		LastAction:           r.State.LastAction,
		Round:                r.State.Round,
		LastRoundStarterID:   r.State.LastRoundStarterID,
		Winner:               r.State.Winner,
		OrderDecision:        r.OrderDecision,
		ReadyConfirmations:   r.ReadyConfirmations,
		RematchConfirmations: r.RematchConfirmations,
		DealSequence:         r.DealSequence,
		AI:                   r.AI,
		Players:              make(map[string]*snapshotPlayer, len(r.State.Players)),
	}
	for id, p := range r.State.Players {
		dto.Players[id] = &snapshotPlayer{
			ID:             p.ID,
			Name:           p.Name,
			Hand:           p.Hand,
			PlayedCards:    p.PlayedCards,
			SecretCards:    p.SecretCards,
			DiscardedCards: p.DiscardedCards,
			Tokens:         p.Tokens,
			Score:          p.Score,
			RejoinToken:    p.RejoinToken,
		}
	}
	return json.Marshal(dto)
}

// RestoreSnapshot rehydrates r's state from a previously persisted
// snapshot. Every seat comes back disconnected (Send is nil) until its
// owner reconnects with the matching rejoin token. Used by the room
// registry on a JOIN_ROOM cache miss that hits snapshot storage.
func (r *Room) RestoreSnapshot(data []byte) error {
	var dto snapshotDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return err
	}

	r.HostID = dto.HostID
	r.GeishaSetKey = dto.GeishaSetKey

	r.State.Geishas = dto.Geishas
	r.State.DrawPile = dto.DrawPile
	r.State.DiscardPile = dto.DiscardPile
	r.State.RemovedCard = dto.RemovedCard
	r.State.SeatOrder = dto.SeatOrder
	r.State.CurrentTurn = dto.CurrentTurn
	r.State.Phase = dto.Phase
	r.State.PendingInteraction = dto.PendingInteraction
	r.State.LastAction = dto.LastAction
	r.State.Round = dto.Round
	r.State.LastRoundStarterID = dto.LastRoundStarterID
	r.State.Winner = dto.Winner

	r.OrderDecision = dto.OrderDecision
	if r.OrderDecision.Confirmed == nil {
		r.OrderDecision.Confirmed = make(map[string]bool)
	}
	r.ReadyConfirmations = dto.ReadyConfirmations
	if r.ReadyConfirmations == nil {
		r.ReadyConfirmations = make(map[string]bool)
	}
	r.RematchConfirmations = dto.RematchConfirmations
	if r.RematchConfirmations == nil {
		r.RematchConfirmations = make(map[string]bool)
	}
	r.DealSequence = dto.DealSequence
	r.AI = dto.AI

	r.State.Players = make(map[string]*Player, len(dto.Players))
	for id, sp := range dto.Players {
		r.State.Players[id] = &Player{
			ID:             sp.ID,
			Name:           sp.Name,
			Hand:           sp.Hand,
			PlayedCards:    sp.PlayedCards,
			SecretCards:    sp.SecretCards,
			DiscardedCards: sp.DiscardedCards,
			Tokens:         sp.Tokens,
			Score:          sp.Score,
			RejoinToken:    sp.RejoinToken,
			Connected:      false,
		}
	}
	return nil
}
