package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Rakabidaasta/npc-hackaton/internal/model"
	"github.com/Rakabidaasta/npc-hackaton/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxFrameSize   = 4096
	sendBufferSize = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Poster persists an inbound chat message. Satisfied by *service.ChatService;
// an interface here keeps the transport decoupled from the service wiring.
type Poster interface {
	Post(ctx context.Context, userID, text string) (*model.Message, error)
	EntryFor(ctx context.Context, msg *model.Message) service.ChatEntry
}

// Client is one websocket connection belonging to an authenticated user.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	user   *model.User
	chat   Poster
	logger *slog.Logger
}

// Serve upgrades the request to a websocket, registers the client with the
// hub, and starts the read/write pumps. The caller must have authenticated
// the user already (the /ws route sits behind RequireAuth).
func Serve(hub *Hub, chat Poster, user *model.User, logger *slog.Logger, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	client := &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		user:   user,
		chat:   chat,
		logger: logger,
	}
	hub.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump reads frames from the connection until it closes. A chat.message
// frame is persisted through the same service call the HTTP form uses, then
// broadcast to the room; anything else is ignored.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxFrameSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Warn("websocket read error", slog.String("error", err.Error()))
			}
			return
		}

		var evt Event
		if err := json.Unmarshal(payload, &evt); err != nil {
			c.logger.Warn("invalid websocket frame", slog.String("error", err.Error()))
			continue
		}
		if evt.Type != EventChatMessage {
			continue
		}

		// Detached context: the message should outlive this connection if
		// the client disconnects mid-post.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		msg, err := c.chat.Post(ctx, c.user.ID, evt.Text)
		if err != nil {
			cancel()
			c.logger.Warn("rejected websocket message",
				slog.String("userID", c.user.ID),
				slog.String("error", err.Error()),
			)
			continue
		}

		entry := c.chat.EntryFor(ctx, msg)
		cancel()
		c.hub.BroadcastMessage(entry)
	}
}

// writePump delivers hub broadcasts to the connection and keeps it alive
// with periodic pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel — say goodbye properly.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
