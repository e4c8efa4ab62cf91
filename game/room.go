// Package game implements the per-room actor: canonical game state, the
// rule engine, the turn/round driver, the order/ready sub-protocol, and
// the per-viewer masking that is the only legal path to an outbound
// GAME_STATE_UPDATED frame.
package game

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"hanamikoji/config"
	"hanamikoji/geisha"
	"hanamikoji/loghandler"
	"hanamikoji/matcherrors"
	"hanamikoji/storage"
	"hanamikoji/wsutil"
)

// AIDescriptor marks one seat as computer-controlled and records its
// strength tier.
type AIDescriptor struct {
	SeatID string
	Tier   string
}

// RoomEventType tags the inbound mailbox messages a Room processes.
// Internal (scheduled) event types share the same channel as
// client-originated events, per the "scheduled message re-enters the
// mailbox" discipline.
type RoomEventType string

const (
	EvtJoinSeat        RoomEventType = "join_seat"
	EvtConfirmOrder    RoomEventType = "confirm_order"
	EvtReadyConfirm    RoomEventType = "ready_confirm"
	EvtGameAction      RoomEventType = "game_action"
	EvtRematchRequest  RoomEventType = "rematch_request"
	EvtLeaveRoom       RoomEventType = "leave_room"
	EvtDisconnect      RoomEventType = "disconnect"
	EvtReconnect       RoomEventType = "reconnect"
	EvtForceClose      RoomEventType = "force_close"

	evtOrderRevealTimer RoomEventType = "internal_order_reveal"
	evtRoundPauseTimer  RoomEventType = "internal_round_pause"
)

// RoomEvent is one mailbox message. Payload's concrete type depends on
// Type; handlers in actions_*.go assert it.
type RoomEvent struct {
	Type     RoomEventType
	PlayerID string
	Payload  any
}

// GameActionType enumerates the six rule-engine actions (four token
// kinds, with gift and competition split into initiate+resolve).
type GameActionType string

const (
	ActPlaySecret          GameActionType = "PLAY_SECRET"
	ActPlayTradeOff        GameActionType = "PLAY_TRADE_OFF"
	ActInitiateGift        GameActionType = "INITIATE_GIFT"
	ActResolveGift         GameActionType = "RESOLVE_GIFT"
	ActInitiateCompetition GameActionType = "INITIATE_COMPETITION"
	ActResolveCompetition  GameActionType = "RESOLVE_COMPETITION"
)

// GameAction is the decoded payload of a GAME_ACTION inbound event.
type GameAction struct {
	Type    GameActionType
	PlayerID string
	CardID   string   // PLAY_SECRET
	CardIDs  []string // PLAY_TRADE_OFF (2), INITIATE_GIFT (3)
	Groups   [2][]string // INITIATE_COMPETITION
	GroupIdx int         // RESOLVE_COMPETITION
}

// Room is the single-writer actor owning one match's state. Every
// mutation flows through Run via the Actions mailbox; broadcasts are
// produced only after a mutation completes.
type Room struct {
	ID       string
	HostID   string
	GeishaSetKey string

	Catalog *geisha.Registry
	Config  *config.Config
	Snapshot storage.SnapshotStore
	Logger  *slog.Logger

	AI *AIDescriptor

	State GameState

	OrderDecision        OrderDecisionState
	ReadyConfirmations   map[string]bool
	RematchConfirmations map[string]bool
	DealSequence         []DealStep

	Actions chan RoomEvent
	Done    chan struct{}

	CreatedAt time.Time

	// lastActivityUnixNano is written by Run on every dispatched event
	// and read by the registry's idle reaper from a different
	// goroutine, so it goes through atomic rather than the Room's
	// otherwise single-writer field discipline.
	lastActivityUnixNano int64

	forceClosed bool

	// cancel channels for in-flight scheduled timers, closed to cancel.
	orderRevealCancel chan struct{}
	roundPauseCancel  chan struct{}

	broadcastSeq int
}

// LastActivity reports the last time this room dispatched an event,
// safe to call from any goroutine.
func (r *Room) LastActivity() time.Time {
	return time.Unix(0, atomic.LoadInt64(&r.lastActivityUnixNano))
}

// NewRoom constructs an empty, waiting room. Seats are added via
// handleJoinSeat.
func NewRoom(id, hostID, geishaSetKey string, catalog *geisha.Registry, cfg *config.Config, snap storage.SnapshotStore, logger *slog.Logger) *Room {
	if logger == nil {
		logger = slog.New(loghandler.NewCompactHandler(logWriter{}, slog.LevelInfo))
	}
	now := time.Now()
	r := &Room{
		ID:           id,
		HostID:       hostID,
		GeishaSetKey: geishaSetKey,
		Catalog:      catalog,
		Config:       cfg,
		Snapshot:     snap,
		Logger:       logger,
		State:        *newGameState(),
		ReadyConfirmations:   make(map[string]bool),
		RematchConfirmations: make(map[string]bool),
		Actions:              make(chan RoomEvent, 64),
		Done:                 make(chan struct{}),
		CreatedAt:            now,
	}
	r.OrderDecision.Confirmed = make(map[string]bool)
	atomic.StoreInt64(&r.lastActivityUnixNano, now.UnixNano())
	return r
}

// Run is the room's single goroutine: it drains Actions strictly in
// arrival order until the room is torn down.
func (r *Room) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			r.teardown()
			return
		case ev, ok := <-r.Actions:
			if !ok {
				return
			}
			atomic.StoreInt64(&r.lastActivityUnixNano, time.Now().UnixNano())
			r.dispatch(ev)
			if r.forceClosed || r.isEmpty() {
				r.teardown()
				return
			}
		}
	}
}

func (r *Room) dispatch(ev RoomEvent) {
	switch ev.Type {
	case EvtJoinSeat:
		r.handleJoinSeat(ev)
	case EvtConfirmOrder:
		r.handleConfirmOrder(ev)
	case EvtReadyConfirm:
		r.handleReadyConfirm(ev)
	case EvtGameAction:
		r.handleGameAction(ev)
	case EvtRematchRequest:
		r.handleRematchRequest(ev)
	case EvtLeaveRoom:
		r.handleLeaveRoom(ev)
	case EvtDisconnect:
		r.handleDisconnect(ev)
	case EvtReconnect:
		r.handleReconnect(ev)
	case EvtForceClose:
		r.handleForceClose(ev)
	case evtOrderRevealTimer:
		r.handleOrderRevealTimer()
	case evtRoundPauseTimer:
		r.handleRoundPauseTimer(ev)
	default:
		r.Logger.Error("unknown room event", "tag", "room", "type", string(ev.Type))
	}
}

// handleForceClose marks the room for teardown on this dispatch cycle.
// Sent by the registry's idle reaper once a room's LastActivity has
// aged past its configured TTL. The no-connected-seats half of that
// check is re-verified here, inside the room's own goroutine, rather
// than trusted from the reaper: Player.Connected is only ever safe to
// read on this goroutine, and a seat could reconnect in the window
// between the reaper's scan and this dispatch.
func (r *Room) handleForceClose(ev RoomEvent) {
	if !r.isEmpty() {
		return
	}
	r.forceClosed = true
	r.broadcastAll("ROOM_EXPIRED", roomExpiredPayload{RoomID: r.ID})
}

func (r *Room) teardown() {
	if r.Snapshot != nil {
		go func(id string) {
			if err := r.Snapshot.Delete(context.Background(), SnapshotKey(id)); err != nil {
				r.Logger.Error("snapshot delete failed", "tag", "room", "room", id, "err", err)
			}
		}(r.ID)
	}
	close(r.Done)
}

func (r *Room) isEmpty() bool {
	for _, pid := range r.State.SeatOrder {
		p := r.State.Players[pid]
		if p == nil {
			continue
		}
		if r.AI != nil && r.AI.SeatID == pid {
			continue
		}
		if p.Connected {
			return false
		}
	}
	return true
}

func (r *Room) otherSeat(id string) string {
	for _, s := range r.State.SeatOrder {
		if s != id {
			return s
		}
	}
	return ""
}

func (r *Room) player(id string) *Player {
	return r.State.Players[id]
}

// broadcastState sends a freshly masked GAME_STATE_UPDATED to every
// connected human seat concurrently, per §4.7/§11 (errgroup fan-out).
func (r *Room) broadcastState() {
	r.broadcastSeq++
	var g errgroup.Group
	for _, pid := range r.State.SeatOrder {
		p := r.State.Players[pid]
		if p == nil || p.Send == nil {
			continue
		}
		pid, p := pid, p
		g.Go(func() error {
			view := MaskForViewer(r.State, pid, r.DealSequence)
			data, err := json.Marshal(outboundEnvelope{Type: "GAME_STATE_UPDATED", Payload: view})
			if err != nil {
				r.Logger.Error("marshal game state failed", "tag", "room", "room", r.ID, "player", pid, "err", err)
				return nil
			}
			wsutil.SafeSend(p.Send, data)
			return nil
		})
	}
	_ = g.Wait()
	r.persistSnapshot()
}

func (r *Room) broadcastTo(playerID string, msgType string, payload any) {
	p := r.player(playerID)
	if p == nil || p.Send == nil {
		return
	}
	data, err := json.Marshal(outboundEnvelope{Type: msgType, Payload: payload})
	if err != nil {
		r.Logger.Error("marshal outbound failed", "tag", "room", "room", r.ID, "type", msgType, "err", err)
		return
	}
	wsutil.SafeSend(p.Send, data)
}

func (r *Room) broadcastAll(msgType string, payload any) {
	for _, pid := range r.State.SeatOrder {
		r.broadcastTo(pid, msgType, payload)
	}
}

func (r *Room) sendError(playerID string, err error) {
	r.broadcastTo(playerID, "ERROR", errorPayload{
		Message:  err.Error(),
		Category: matcherrors.Category(err),
	})
}

// sendDirectError reports err straight to send, bypassing seat lookup.
// Used where the failure itself means the seat's stored channel is
// stale or doesn't exist yet (e.g. a rejected reconnect attempt).
func (r *Room) sendDirectError(send chan []byte, err error) {
	if send == nil {
		return
	}
	data, merr := json.Marshal(outboundEnvelope{Type: "ERROR", Payload: errorPayload{
		Message:  err.Error(),
		Category: matcherrors.Category(err),
	}})
	if merr != nil {
		r.Logger.Error("marshal direct error failed", "tag", "room", "room", r.ID, "err", merr)
		return
	}
	wsutil.SafeSend(send, data)
}

type logWriter struct{}

func (logWriter) Write(p []byte) (int, error) { return len(p), nil }
