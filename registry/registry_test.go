package registry

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"hanamikoji/config"
	"hanamikoji/geisha"
	"hanamikoji/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cfg := config.Defaults()
	catalog := geisha.NewRegistry()
	geisha.RegisterDefaults(catalog)
	return NewRegistry(ctx, cfg, catalog, storage.NoopStore{}, testLogger())
}

func drainFrame(t *testing.T, ch chan []byte, wantType string, timeout time.Duration) json.RawMessage {
	t.Helper()
	deadline := time.After(timeout)
	for {
		select {
		case msg := <-ch:
			var env struct {
				Type    string          `json:"type"`
				Payload json.RawMessage `json:"payload"`
			}
			if err := json.Unmarshal(msg, &env); err != nil {
				t.Fatalf("bad frame: %v", err)
			}
			if env.Type == wantType {
				return env.Payload
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", wantType)
		}
	}
}

func TestCreateRoomAllocatesUniqueSixCharID(t *testing.T) {
	reg := newTestRegistry(t)
	send := make(chan []byte, 32)

	room, err := reg.CreateRoom(CreateRoomRequest{PlayerID: "alice", PlayerName: "Alice", Mode: "online", Send: send})
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}
	if len(room.ID) != roomIDLength {
		t.Fatalf("expected a %d-character room id, got %q", roomIDLength, room.ID)
	}
	if reg.RoomCount() != 1 {
		t.Fatalf("expected 1 registered room, got %d", reg.RoomCount())
	}
}

func TestCreateRoomNPCModeSeatsAnAIOpponent(t *testing.T) {
	reg := newTestRegistry(t)
	send := make(chan []byte, 32)

	room, err := reg.CreateRoom(CreateRoomRequest{PlayerID: "alice", PlayerName: "Alice", Mode: "npc", AIDifficulty: "easy", Send: send})
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}

	drainFrame(t, send, "ORDER_DECISION_START", time.Second)
	if room.AI == nil {
		t.Fatalf("expected room.AI to be set for npc mode")
	}
	if room.AI.Tier != "easy" {
		t.Fatalf("expected AI tier easy, got %s", room.AI.Tier)
	}
}

func TestJoinRoomSeatsSecondPlayer(t *testing.T) {
	reg := newTestRegistry(t)
	sendA := make(chan []byte, 32)
	room, err := reg.CreateRoom(CreateRoomRequest{PlayerID: "alice", PlayerName: "Alice", Mode: "online", Send: sendA})
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}

	sendB := make(chan []byte, 32)
	joined, err := reg.JoinRoom(context.Background(), room.ID, "bob", "Bob", sendB)
	if err != nil {
		t.Fatalf("JoinRoom failed: %v", err)
	}
	if joined.ID != room.ID {
		t.Fatalf("expected to join the same room")
	}
	drainFrame(t, sendA, "ORDER_DECISION_START", time.Second)
	drainFrame(t, sendB, "ORDER_DECISION_START", time.Second)
}

func TestJoinRoomUnknownIDFails(t *testing.T) {
	reg := newTestRegistry(t)
	_, err := reg.JoinRoom(context.Background(), "NOPE99", "alice", "Alice", make(chan []byte, 4))
	if err == nil {
		t.Fatalf("expected an error joining a nonexistent room")
	}
}
