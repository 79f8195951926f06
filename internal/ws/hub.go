// Package ws provides the realtime channel for the chat room: a hub that
// fans chat events out to every connected client, and per-connection
// read/write pumps over gorilla/websocket.
package ws

import (
	"encoding/json"
	"log/slog"

	"github.com/Rakabidaasta/npc-hackaton/internal/service"
)

// Event is the frame exchanged over the websocket. Inbound frames carry
// Type and Text; outbound frames additionally carry the resolved author
// name and formatted time, matching what the chat page renders.
type Event struct {
	Type   string `json:"type"`
	Author string `json:"author,omitempty"`
	Text   string `json:"text,omitempty"`
	Time   string `json:"time,omitempty"`
}

// Event types.
const (
	EventChatMessage = "chat.message"
	EventUserJoined  = "user.joined"
	EventUserLeft    = "user.left"
)

// Hub tracks the connected clients of the single shared room and fans
// events out to all of them. All state is owned by the Run goroutine;
// register/unregister/broadcast are channel sends, so no locking is needed
// anywhere else.
//
// Delivery is fire-and-forget: a client whose send buffer is full is
// dropped rather than allowed to stall the broadcast.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

// Run is the hub's event loop. Start it once, in its own goroutine, before
// accepting websocket connections.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.logger.Debug("websocket client joined",
				slog.String("userID", client.user.ID),
				slog.Int("clients", len(h.clients)),
			)

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}

		case payload := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- payload:
				default:
					// Slow consumer: drop it instead of blocking the room.
					delete(h.clients, client)
					close(client.send)
				}
			}
		}
	}
}

// BroadcastEvent marshals the event and queues it for delivery to every
// connected client.
func (h *Hub) BroadcastEvent(e Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		h.logger.Error("marshaling websocket event", slog.String("error", err.Error()))
		return
	}
	h.broadcast <- payload
}

// BroadcastMessage is the convenience used by the HTTP post path: it turns
// a freshly rendered chat entry into a chat.message event.
func (h *Hub) BroadcastMessage(entry service.ChatEntry) {
	h.BroadcastEvent(Event{
		Type:   EventChatMessage,
		Author: entry.Author,
		Text:   entry.Text,
		Time:   entry.Time,
	})
}
