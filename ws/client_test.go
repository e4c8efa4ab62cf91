package ws

import "testing"

func TestNormalizeNameTruncatesAndTitleCases(t *testing.T) {
	got := normalizeName("alice wonderland", 5)
	if got != "Alice" {
		t.Fatalf("expected truncated title case name, got %q", got)
	}
}

func TestNormalizeNameDefaultsWhenEmpty(t *testing.T) {
	got := normalizeName("", 24)
	if got != "Player" {
		t.Fatalf("expected default name, got %q", got)
	}
}

func TestCreateRoomRequestFromCarriesAllFields(t *testing.T) {
	send := make(chan []byte, 1)
	msg := CreateRoomMsg{PlayerID: "p1", Mode: "npc", AIDifficulty: "hard", GeishaSet: "swift"}
	req := createRoomRequestFrom(msg, "P1", send)

	if req.PlayerID != "p1" || req.PlayerName != "P1" || req.Mode != "npc" || req.AIDifficulty != "hard" || req.GeishaSet != "swift" {
		t.Fatalf("unexpected request: %+v", req)
	}
	if req.Send != send {
		t.Fatalf("expected the same send channel to be threaded through")
	}
}
