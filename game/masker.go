package game

import "hanamikoji/geisha"

// cardView is the only representation of a Card that ever reaches JSON.
// Known=false cards are length-preserving placeholders: no Card field
// is populated, so an opponent's hand reveals nothing but its length.
// Grounded on other_examples/jason-s-yu-cambia__sync_state.go's ObfCard
// (Known bool + conditionally-populated fields).
type cardView struct {
	ID       string `json:"id,omitempty"`
	GeishaID int    `json:"geishaId,omitempty"`
	Known    bool   `json:"known"`
}

func placeholderCards(n int) []cardView {
	out := make([]cardView, n)
	for i := range out {
		out[i] = cardView{Known: false}
	}
	return out
}

type geishaView struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Charm        int    `json:"charm"`
	ControlledBy string `json:"controlledBy,omitempty"`
}

type playerView struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Hand           []cardView `json:"hand"`
	PlayedCards    []cardView `json:"playedCards"`
	SecretCount    int        `json:"secretCount"`
	DiscardedCards []cardView `json:"discardedCards"`
	Tokens         [4]ActionToken `json:"tokens"`
	Score          Score      `json:"score"`
	Connected      bool       `json:"connected"`
}

type pendingInteractionView struct {
	Kind         InteractionKind `json:"kind"`
	InitiatorID  string          `json:"initiatorId"`
	TargetID     string          `json:"targetId"`
	OfferedCards []cardView      `json:"offeredCards,omitempty"`
	Groups       [][]cardView    `json:"groups,omitempty"`
}

// ViewState is the sanitized, per-viewer projection of GameState. It is
// the only type the outbound GAME_STATE_UPDATED payload may hold — there
// is no path from a raw GameState to json.Marshal.
type ViewState struct {
	Geishas     []geishaView           `json:"geishas"`
	Players     map[string]playerView  `json:"players"`
	SeatOrder   []string               `json:"seatOrder"`
	CurrentTurn string                 `json:"currentTurn"`
	Phase       GamePhase              `json:"phase"`
	Pending     *pendingInteractionView `json:"pendingInteraction,omitempty"`
	LastAction  *ActionEvent           `json:"lastAction,omitempty"`
	Round       int                    `json:"round"`
	Winner      string                 `json:"winner,omitempty"`
	DrawPileCount int                  `json:"drawPileCount"`
}

// MaskForViewer is the sole legal constructor of the outbound
// GAME_STATE_UPDATED payload. For every seat other than viewerID, hand
// and discardedCards become length-preserving placeholders, secretCards
// are hidden entirely (secretCount reads zero), and drawPile/removedCard
// are stripped entirely. This function is pure: given the same state and viewerID it
// always returns the same projection.
func MaskForViewer(state GameState, viewerID string, dealSeq []DealStep) ViewState {
	geishas := make([]geishaView, len(state.Geishas))
	for i, g := range state.Geishas {
		geishas[i] = geishaView{ID: g.ID, Name: g.Name, Charm: g.Charm, ControlledBy: g.ControlledBy}
	}

	players := make(map[string]playerView, len(state.Players))
	for id, p := range state.Players {
		isSelf := id == viewerID
		pv := playerView{
			ID:          p.ID,
			Name:        p.Name,
			PlayedCards: cardViewsOf(p.PlayedCards),
			Tokens:      p.Tokens,
			Score:       p.Score,
			Connected:   p.Connected,
		}
		if isSelf {
			pv.Hand = cardViewsOf(p.Hand)
			pv.DiscardedCards = cardViewsOf(p.DiscardedCards)
			pv.SecretCount = len(p.SecretCards)
		} else {
			pv.Hand = placeholderCards(len(p.Hand))
			pv.DiscardedCards = placeholderCards(len(p.DiscardedCards))
		}
		players[id] = pv
	}

	var pending *pendingInteractionView
	if pi := state.PendingInteraction; pi != nil {
		pending = &pendingInteractionView{
			Kind:        pi.Kind,
			InitiatorID: pi.InitiatorID,
			TargetID:    pi.TargetID,
		}
		// Only the target ever sees the offered cards / group contents;
		// that is the rule the gift/competition actions exist to enforce.
		if viewerID == pi.TargetID {
			if pi.Kind == InteractionGift {
				pending.OfferedCards = cardViewsOf(pi.OfferedCards)
			} else if pi.Kind == InteractionCompetition {
				pending.Groups = [][]cardView{
					cardViewsOf(pi.Groups[0][:]),
					cardViewsOf(pi.Groups[1][:]),
				}
			}
		}
	}

	return ViewState{
		Geishas:       geishas,
		Players:       players,
		SeatOrder:     append([]string(nil), state.SeatOrder...),
		CurrentTurn:   state.CurrentTurn,
		Phase:         state.Phase,
		Pending:       pending,
		LastAction:    maskLastAction(state.LastAction, viewerID),
		Round:         state.Round,
		Winner:        state.Winner,
		DrawPileCount: len(state.DrawPile),
	}
}

func maskLastAction(ev *ActionEvent, viewerID string) *ActionEvent {
	if ev == nil {
		return nil
	}
	if ev.ActorID == viewerID {
		return ev
	}
	return &ActionEvent{Type: ev.Type, ActorID: ev.ActorID, CardIDs: nil}
}

// maskDealSequence projects a slice of deal steps for one viewer: steps
// dealt to the viewer pass their real card through, steps dealt to
// anyone else become a placeholder.
func maskDealSequence(steps []DealStep, viewerID string) []dealStepView {
	out := make([]dealStepView, len(steps))
	for i, s := range steps {
		if s.PlayerID == viewerID {
			cv := cardViewsOf([]geisha.Card{s.Card})[0]
			out[i] = dealStepView{PlayerID: s.PlayerID, Card: &cv}
		} else {
			ph := placeholderCards(1)[0]
			out[i] = dealStepView{PlayerID: s.PlayerID, Card: &ph}
		}
	}
	return out
}
