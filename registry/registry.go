// Package registry implements the process-wide room registry and
// connection front (§4.8): it maps room ids to room controllers,
// services CREATE_ROOM and JOIN_ROOM, allocates AI seats, and garbage
// collects rooms nobody is using anymore.
package registry

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"hanamikoji/ai"
	"hanamikoji/config"
	"hanamikoji/game"
	"hanamikoji/geisha"
	"hanamikoji/matcherrors"
	"hanamikoji/storage"
)

const roomIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const roomIDLength = 6

// reapInterval is how often the idle-room reaper scans the registry.
// A fraction of the minimum sane TTL keeps a room from outliving its
// configured TTL by more than one scan's worth of slack.
const reapInterval = 30 * time.Second

// Registry is the process-wide, concurrent-safe map from a 6-character
// room id to its controller.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*game.Room

	catalog  *geisha.Registry
	config   *config.Config
	snapshot storage.SnapshotStore
	logger   *slog.Logger

	ctx context.Context
}

// NewRegistry constructs an empty registry and starts its idle-room
// reaper. ctx governs every room's Run loop and the reaper itself —
// cancelling it tears every room down and stops the sweep.
func NewRegistry(ctx context.Context, cfg *config.Config, catalog *geisha.Registry, snap storage.SnapshotStore, logger *slog.Logger) *Registry {
	reg := &Registry{
		rooms:    make(map[string]*game.Room),
		catalog:  catalog,
		config:   cfg,
		snapshot: snap,
		logger:   logger,
		ctx:      ctx,
	}
	go reg.reapIdleRooms(ctx)
	return reg
}

// reapIdleRooms periodically force-closes rooms that have sat past
// their configured TTL with no connected seats — a backstop for
// connections that drop without a clean close and so never fire the
// disconnect event isEmpty()'s teardown path otherwise relies on.
func (reg *Registry) reapIdleRooms(ctx context.Context) {
	ttl := time.Duration(reg.config.RoomTTLSeconds) * time.Second
	if ttl <= 0 {
		return
	}
	ticker := time.NewTicker(reapInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			reg.sweepExpiredRooms(ttl)
		}
	}
}

func (reg *Registry) sweepExpiredRooms(ttl time.Duration) {
	reg.mu.RLock()
	stale := make([]*game.Room, 0)
	for _, room := range reg.rooms {
		if time.Since(room.LastActivity()) > ttl {
			stale = append(stale, room)
		}
	}
	reg.mu.RUnlock()

	for _, room := range stale {
		select {
		case room.Actions <- game.RoomEvent{Type: game.EvtForceClose}:
		case <-room.Done:
		}
	}
}

// CreateRoomRequest mirrors the CREATE_ROOM inbound frame.
type CreateRoomRequest struct {
	PlayerID     string
	PlayerName   string
	Mode         string // "online" or "npc"
	AIDifficulty string
	GeishaSet    string
	Send         chan []byte
}

// CreateRoom generates a fresh room id, creates its controller,
// starts its actor goroutine, seats the caller, and — for an "npc"
// mode request — allocates and starts the AI seat.
func (reg *Registry) CreateRoom(req CreateRoomRequest) (*game.Room, error) {
	geishaSet := req.GeishaSet
	if geishaSet == "" {
		geishaSet = reg.config.GeishaSet
	}
	if _, err := reg.catalog.BuildGeishas(geishaSet); err != nil {
		return nil, err
	}

	id, err := reg.freshRoomID()
	if err != nil {
		return nil, err
	}

	room := game.NewRoom(id, req.PlayerID, geishaSet, reg.catalog, reg.config, reg.snapshot, reg.logger)

	reg.mu.Lock()
	reg.rooms[id] = room
	reg.mu.Unlock()

	go room.Run(reg.ctx)
	go reg.watchForTeardown(id, room)

	room.Actions <- game.RoomEvent{
		Type:     game.EvtJoinSeat,
		PlayerID: req.PlayerID,
		Payload:  game.JoinSeatPayload{PlayerID: req.PlayerID, Name: req.PlayerName, Send: req.Send},
	}

	if req.Mode == "npc" {
		reg.addAISeat(room, req.AIDifficulty)
	}

	return room, nil
}

// JoinRoom looks up roomID in the in-memory map; on a miss it
// consults snapshot storage and rehydrates the room (with the AI seat,
// if any, reconstituted with a stub connection) before seating the
// caller either way.
func (reg *Registry) JoinRoom(ctx context.Context, roomID, playerID, playerName string, send chan []byte) (*game.Room, error) {
	reg.mu.RLock()
	room, ok := reg.rooms[roomID]
	reg.mu.RUnlock()

	if !ok {
		rehydrated, err := reg.rehydrate(ctx, roomID)
		if err != nil {
			return nil, err
		}
		if rehydrated == nil {
			return nil, matcherrors.ErrRoomNotFound
		}
		room = rehydrated
	}

	room.Actions <- game.RoomEvent{
		Type:     game.EvtJoinSeat,
		PlayerID: playerID,
		Payload:  game.JoinSeatPayload{PlayerID: playerID, Name: playerName, Send: send},
	}
	return room, nil
}

// Reconnect re-attaches a dropped seat's new connection, looking the
// room up the same way JoinRoom does.
func (reg *Registry) Reconnect(ctx context.Context, roomID, playerID, rejoinToken string, send chan []byte) (*game.Room, error) {
	reg.mu.RLock()
	room, ok := reg.rooms[roomID]
	reg.mu.RUnlock()

	if !ok {
		rehydrated, err := reg.rehydrate(ctx, roomID)
		if err != nil {
			return nil, err
		}
		if rehydrated == nil {
			return nil, matcherrors.ErrRoomNotFound
		}
		room = rehydrated
	}

	room.Actions <- game.RoomEvent{
		Type:     game.EvtReconnect,
		PlayerID: playerID,
		Payload:  game.ReconnectPayload{PlayerID: playerID, RejoinToken: rejoinToken, Send: send},
	}
	return room, nil
}

func (reg *Registry) rehydrate(ctx context.Context, roomID string) (*game.Room, error) {
	if reg.snapshot == nil {
		return nil, nil
	}
	value, found, err := reg.snapshot.Get(ctx, game.SnapshotKey(roomID))
	if err != nil || !found {
		return nil, err
	}

	room := game.NewRoom(roomID, "", reg.config.GeishaSet, reg.catalog, reg.config, reg.snapshot, reg.logger)
	if err := room.RestoreSnapshot([]byte(value)); err != nil {
		reg.logger.Error("snapshot restore failed", "tag", "registry", "room", roomID, "err", err)
		return nil, err
	}

	reg.mu.Lock()
	reg.rooms[roomID] = room
	reg.mu.Unlock()

	go room.Run(reg.ctx)
	go reg.watchForTeardown(roomID, room)

	if ai := room.AI; ai != nil {
		reg.startAI(room, ai.SeatID, ai.Tier, make(chan []byte, 32))
	}

	reg.logger.Info("room rehydrated from snapshot", "tag", "registry", "room", roomID)
	return room, nil
}

func (reg *Registry) addAISeat(room *game.Room, difficulty string) {
	if difficulty == "" {
		difficulty = "medium"
	}
	aiID := "ai:" + room.ID
	send := make(chan []byte, 32)

	room.AI = &game.AIDescriptor{SeatID: aiID, Tier: difficulty}
	room.Actions <- game.RoomEvent{
		Type:     game.EvtJoinSeat,
		PlayerID: aiID,
		Payload:  game.JoinSeatPayload{PlayerID: aiID, Name: "Computer", Send: send},
	}
	reg.startAI(room, aiID, difficulty, send)
}

func (reg *Registry) startAI(room *game.Room, seatID, difficulty string, send chan []byte) {
	profile := reg.config.ProfileForTier(difficulty)
	go ai.Run(send, room, seatID, profile)
}

// watchForTeardown removes a room from the registry once its Run loop
// exits.
func (reg *Registry) watchForTeardown(id string, room *game.Room) {
	<-room.Done
	reg.mu.Lock()
	delete(reg.rooms, id)
	reg.mu.Unlock()
	reg.logger.Info("room removed from registry", "tag", "registry", "room", id)
}

func (reg *Registry) freshRoomID() (string, error) {
	for attempt := 0; attempt < 10; attempt++ {
		id, err := randomRoomID()
		if err != nil {
			return "", err
		}
		reg.mu.RLock()
		_, exists := reg.rooms[id]
		reg.mu.RUnlock()
		if !exists {
			return id, nil
		}
	}
	return "", fmt.Errorf("registry: could not allocate a unique room id")
}

func randomRoomID() (string, error) {
	b := make([]byte, roomIDLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(roomIDAlphabet))))
		if err != nil {
			return "", err
		}
		b[i] = roomIDAlphabet[n.Int64()]
	}
	return string(b), nil
}

// RoomCount reports how many rooms are currently registered.
func (reg *Registry) RoomCount() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}
