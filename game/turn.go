package game

import (
	"time"

	"hanamikoji/geisha"
)

// beginTurn starts P's turn: if P has no unused tokens the turn passes
// immediately with no draw; otherwise one card moves from the draw pile
// into P's hand before play resumes.
func (r *Room) beginTurn(p *Player) {
	if !p.hasUnusedToken() {
		r.advanceTurn(p.ID)
		return
	}
	if len(r.State.DrawPile) > 0 {
		card := r.State.DrawPile[0]
		r.State.DrawPile = r.State.DrawPile[1:]
		p.Hand = append(p.Hand, card)
		r.broadcastCardDrawn(p.ID, card)
	}
	r.State.Phase = PhasePlaying
	r.State.PendingInteraction = nil
	r.State.LastAction = nil
	r.State.CurrentTurn = p.ID
	r.broadcastState()
}

// advanceTurn picks the next seat in seating order with an unused token.
// With exactly two seats this checks the other seat, then falls back to
// the current seat (covers the edge case where both seats still have
// tokens but the caller just used the opponent's last relevant one).
// If neither seat has an unused token, the round resolves.
func (r *Room) advanceTurn(afterID string) {
	next := r.otherSeat(afterID)
	nextPlayer := r.player(next)
	cur := r.player(afterID)

	if nextPlayer != nil && nextPlayer.hasUnusedToken() {
		r.beginTurn(nextPlayer)
		return
	}
	if cur != nil && cur.hasUnusedToken() {
		r.beginTurn(cur)
		return
	}
	r.resolveRound()
}

// resolveRound implements §4.4's five numbered steps: reveal secrets,
// recompute control by strict majority, recompute scores, determine a
// winner if any threshold is crossed, and either end the game or
// schedule the next round after a short pause.
func (r *Room) resolveRound() {
	r.State.Phase = PhaseResolution
	r.State.CurrentTurn = ""

	for _, pid := range r.State.SeatOrder {
		p := r.player(pid)
		p.PlayedCards = append(p.PlayedCards, p.SecretCards...)
		p.SecretCards = nil
	}

	if len(r.State.SeatOrder) == 2 {
		aID, bID := r.State.SeatOrder[0], r.State.SeatOrder[1]
		a, b := r.player(aID), r.player(bID)
		for i := range r.State.Geishas {
			g := &r.State.Geishas[i]
			countA := countForGeisha(a.PlayedCards, g.ID)
			countB := countForGeisha(b.PlayedCards, g.ID)
			if countA > countB {
				g.ControlledBy = aID
			} else if countB > countA {
				g.ControlledBy = bID
			}
			// tie: ControlledBy unchanged, control persists
		}

		for _, pid := range []string{aID, bID} {
			p := r.player(pid)
			p.Score = scoreFor(p.ID, r.State.Geishas)
		}

		control := make(map[int]string, len(r.State.Geishas))
		for _, g := range r.State.Geishas {
			control[g.ID] = g.ControlledBy
		}
		r.broadcastAll("ROUND_COMPLETE", roundCompletePayload{
			Round:   r.State.Round,
			Scores:  map[string]Score{aID: a.Score, bID: b.Score},
			Control: control,
		})

		winner := determineWinner(a, b)
		if winner != "" {
			r.State.Phase = PhaseEnded
			r.State.Winner = winner
			r.broadcastAll("GAME_ENDED", gameEndedPayload{
				Winner: winner,
				Scores: map[string]Score{aID: a.Score, bID: b.Score},
			})
			r.broadcastState()
			r.persistSnapshot()
			return
		}
	}

	r.State.Round++
	nextStarter := r.otherSeat(r.State.LastRoundStarterID)
	if nextStarter == "" {
		nextStarter = r.State.SeatOrder[0]
	}
	r.State.LastRoundStarterID = nextStarter

	r.scheduleRoundPause(nextStarter, r.State.Round)
}

func countForGeisha(cards []geisha.Card, geishaID int) int {
	n := 0
	for _, c := range cards {
		if c.GeishaID == geishaID {
			n++
		}
	}
	return n
}

func scoreFor(playerID string, geishas []geisha.Geisha) Score {
	var s Score
	for _, g := range geishas {
		if g.ControlledBy == playerID {
			s.Tokens++
			s.Charm += g.Charm
		}
	}
	return s
}

func determineWinner(a, b *Player) string {
	const charmThreshold = 11
	const tokenThreshold = 4

	aCharm, bCharm := a.Score.Charm >= charmThreshold, b.Score.Charm >= charmThreshold
	switch {
	case aCharm && bCharm:
		if a.Score.Charm > b.Score.Charm {
			return a.ID
		}
		if b.Score.Charm > a.Score.Charm {
			return b.ID
		}
		return ""
	case aCharm:
		return a.ID
	case bCharm:
		return b.ID
	}

	aTok, bTok := a.Score.Tokens >= tokenThreshold, b.Score.Tokens >= tokenThreshold
	switch {
	case aTok && bTok:
		if a.Score.Tokens > b.Score.Tokens {
			return a.ID
		}
		if b.Score.Tokens > a.Score.Tokens {
			return b.ID
		}
		return ""
	case aTok:
		return a.ID
	case bTok:
		return b.ID
	}
	return ""
}

func (r *Room) scheduleRoundPause(nextStarter string, roundNumber int) {
	cancel := make(chan struct{})
	r.roundPauseCancel = cancel
	delay := time.Duration(r.Config.Timing.RoundPauseMS) * time.Millisecond
	order := []string{nextStarter, r.otherSeat(nextStarter)}

	scheduleRoomEvent(r.Actions, delay, cancel, RoomEvent{
		Type:    evtRoundPauseTimer,
		Payload: roundPausePayload{Order: order, Round: roundNumber},
	})
}

type roundPausePayload struct {
	Order []string
	Round int
}

func (r *Room) handleRoundPauseTimer(ev RoomEvent) {
	payload, ok := ev.Payload.(roundPausePayload)
	if !ok {
		return
	}
	if err := r.prepareRoundState(payload.Order, payload.Round, false); err != nil {
		r.Logger.Error("prepareRoundState failed", "tag", "room", "room", r.ID, "err", err)
	}
}
