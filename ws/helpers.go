package ws

import (
	"hanamikoji/game"
	"hanamikoji/registry"
)

func disconnectEvent(c *Client) game.RoomEvent {
	return game.RoomEvent{Type: game.EvtDisconnect, PlayerID: c.PlayerID}
}

func createRoomRequestFrom(msg CreateRoomMsg, name string, send chan []byte) registry.CreateRoomRequest {
	return registry.CreateRoomRequest{
		PlayerID:     msg.PlayerID,
		PlayerName:   name,
		Mode:         msg.Mode,
		AIDifficulty: msg.AIDifficulty,
		GeishaSet:    msg.GeishaSet,
		Send:         send,
	}
}
