package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/time/rate"

	"hanamikoji/game"
	"hanamikoji/matcherrors"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192

	// inboundBurst/inboundRate bound how fast one connection can push
	// mailbox events into its room; well above anything a human client
	// or the AI's own think-delay loop would ever need.
	inboundRate  = 20
	inboundBurst = 40
)

var titleCaser = cases.Title(language.Und)

// Client is the middleman between one websocket connection and the
// room registry. It owns no game state of its own — every mutation it
// causes flows through the room's mailbox exactly as it would for the
// AI goroutine reading the same kind of channel.
type Client struct {
	Hub    *Hub
	Conn   *websocket.Conn
	Send   chan []byte
	Logger *slog.Logger

	limiter *rate.Limiter

	RoomID   string
	PlayerID string
	Room     *game.Room
}

func newClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		Hub:     hub,
		Conn:    conn,
		Send:    make(chan []byte, 64),
		Logger:  hub.Logger,
		limiter: rate.NewLimiter(inboundRate, inboundBurst),
	}
}

// ReadPump pumps inbound frames from the socket into handleMessage.
// Runs in its own goroutine per connection.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.Logger.Debug("websocket read error", "tag", "ws", "err", err)
			}
			break
		}
		if !c.limiter.Allow() {
			c.sendError(matcherrors.ErrMalformedMessage, "rate limit exceeded")
			continue
		}
		c.handleMessage(message)
	}
}

// WritePump pumps queued outbound frames to the socket, interleaved
// with keepalive pings. Runs in its own goroutine per connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)
			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(data []byte) {
	var envelope InboundEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		c.sendError(matcherrors.ErrMalformedMessage, "")
		return
	}

	switch envelope.Type {
	case "CREATE_ROOM":
		c.handleCreateRoom(envelope.Raw)
	case "JOIN_ROOM":
		c.handleJoinRoom(envelope.Raw)
	case "RECONNECT":
		c.handleReconnect(envelope.Raw)
	case "CONFIRM_ORDER":
		c.forward(game.EvtConfirmOrder, nil)
	case "READY_CONFIRM":
		c.forward(game.EvtReadyConfirm, nil)
	case "GAME_ACTION":
		c.handleGameAction(envelope.Raw)
	case "REMATCH_REQUEST":
		c.forward(game.EvtRematchRequest, nil)
	case "LEAVE_ROOM":
		c.forward(game.EvtLeaveRoom, nil)
	default:
		c.sendError(matcherrors.ErrUnknownEventType, envelope.Type)
	}
}

func (c *Client) handleCreateRoom(raw json.RawMessage) {
	var msg CreateRoomMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError(matcherrors.ErrMalformedMessage, "")
		return
	}
	if c.Room != nil {
		c.sendError(matcherrors.ErrInteractionAlreadyOpen, "already in a room")
		return
	}

	name := normalizeName(msg.Name, c.Hub.Config.MaxNameLength)
	room, err := c.Hub.Registry.CreateRoom(createRoomRequestFrom(msg, name, c.Send))
	if err != nil {
		c.sendError(err, "")
		return
	}

	c.Room = room
	c.RoomID = room.ID
	c.PlayerID = msg.PlayerID

	data, _ := json.Marshal(RoomCreatedMsg{Type: "ROOM_CREATED", RoomID: room.ID})
	select {
	case c.Send <- data:
	default:
	}
}

func (c *Client) handleJoinRoom(raw json.RawMessage) {
	var msg JoinRoomMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError(matcherrors.ErrMalformedMessage, "")
		return
	}
	if c.Room != nil {
		c.sendError(matcherrors.ErrInteractionAlreadyOpen, "already in a room")
		return
	}

	name := normalizeName(msg.Name, c.Hub.Config.MaxNameLength)
	room, err := c.Hub.Registry.JoinRoom(context.Background(), msg.RoomID, msg.PlayerID, name, c.Send)
	if err != nil {
		c.sendError(err, "")
		return
	}
	c.Room = room
	c.RoomID = room.ID
	c.PlayerID = msg.PlayerID
}

func (c *Client) handleReconnect(raw json.RawMessage) {
	var msg ReconnectMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError(matcherrors.ErrMalformedMessage, "")
		return
	}

	room, err := c.Hub.Registry.Reconnect(context.Background(), msg.RoomID, msg.PlayerID, msg.RejoinToken, c.Send)
	if err != nil {
		c.sendError(err, "")
		return
	}
	c.Room = room
	c.RoomID = room.ID
	c.PlayerID = msg.PlayerID
}

func (c *Client) handleGameAction(raw json.RawMessage) {
	if c.Room == nil {
		c.sendError(matcherrors.ErrRoomNotFound, "")
		return
	}
	var msg GameActionMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError(matcherrors.ErrMalformedMessage, "")
		return
	}

	action := game.GameAction{
		Type:     game.GameActionType(msg.Action),
		PlayerID: c.PlayerID,
		CardID:   msg.CardID,
		CardIDs:  msg.CardIDs,
		Groups:   msg.Groups,
		GroupIdx: msg.GroupIdx,
	}
	c.forward(game.EvtGameAction, action)
}

func (c *Client) forward(evtType game.RoomEventType, payload any) {
	if c.Room == nil {
		c.sendError(matcherrors.ErrRoomNotFound, "")
		return
	}
	select {
	case c.Room.Actions <- game.RoomEvent{Type: evtType, PlayerID: c.PlayerID, Payload: payload}:
	case <-c.Room.Done:
		c.sendError(matcherrors.ErrRoomClosed, "")
	}
}

func (c *Client) sendError(err error, detail string) {
	msg := ErrorMsg{Type: "ERROR", Message: err.Error(), Category: matcherrors.Category(err)}
	if detail != "" {
		msg.Message = msg.Message + ": " + detail
	}
	data, _ := json.Marshal(msg)
	select {
	case c.Send <- data:
	default:
	}
}

func normalizeName(name string, maxLen int) string {
	name = titleCaser.String(name)
	if len(name) > maxLen {
		name = name[:maxLen]
	}
	if name == "" {
		name = "Player"
	}
	return name
}
