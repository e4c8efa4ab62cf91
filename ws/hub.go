package ws

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"hanamikoji/config"
	"hanamikoji/registry"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub tracks live connections and upgrades incoming HTTP requests to
// websocket clients. It holds no game state — every mutation a client
// causes is handed straight to the Registry.
type Hub struct {
	Clients    map[*Client]bool
	Register   chan *Client
	Unregister chan *Client

	Registry *registry.Registry
	Config   *config.Config
	Logger   *slog.Logger
}

// NewHub constructs a Hub bound to the given registry.
func NewHub(cfg *config.Config, reg *registry.Registry, logger *slog.Logger) *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Registry:   reg,
		Config:     cfg,
		Logger:     logger,
	}
}

// Run drives the hub's connection bookkeeping loop. Run as a goroutine.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.Logger.Info("hub shutting down", "tag", "ws")
			return
		case client := <-h.Register:
			h.Clients[client] = true
			h.Logger.Debug("client connected", "tag", "ws", "total", len(h.Clients))
		case client := <-h.Unregister:
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				close(client.Send)
				h.Logger.Debug("client disconnected", "tag", "ws", "total", len(h.Clients))
				if client.Room != nil && client.PlayerID != "" {
					select {
					case client.Room.Actions <- disconnectEvent(client):
					default:
					}
				}
			}
		}
	}
}

// ServeWS upgrades an HTTP request to a websocket connection and spins
// up its read/write pumps.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Logger.Error("websocket upgrade failed", "tag", "ws", "err", err)
		return
	}

	client := newClient(h, conn)
	h.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
