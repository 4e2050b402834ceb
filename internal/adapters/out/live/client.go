package live

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
)

type client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	principal Principal
}

// inbound is a frame sent by a client.
type inbound struct {
	Type string   `json:"type"`
	Room string   `json:"room"`
	Lat  *float64 `json:"lat"`
	Lng  *float64 `json:"lng"`
}

func (c *client) readPump() {
	defer func() {
		c.hub.remove(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debug("websocket read failed", zap.Error(err))
			}
			return
		}
		c.handle(raw)
	}
}

func (c *client) handle(raw []byte) {
	var msg inbound
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.hub.reply(c, "error", map[string]string{"message": "malformed message"})
		return
	}

	switch msg.Type {
	case "join", "admin:join":
		room := msg.Room
		if msg.Type == "admin:join" {
			room = AdminRoom
		}
		if !c.hub.join(c, room) {
			c.hub.reply(c, "error", map[string]string{"message": "not allowed to join room", "room": room})
			return
		}
		c.hub.reply(c, "joined", map[string]string{"room": room})

	case "leave", "admin:leave":
		room := msg.Room
		if msg.Type == "admin:leave" {
			room = AdminRoom
		}
		c.hub.leave(c, room)

	case "driver:location":
		if msg.Lat == nil || msg.Lng == nil {
			c.hub.reply(c, "error", map[string]string{"message": "lat and lng are required"})
			return
		}
		c.hub.location(c, *msg.Lat, *msg.Lng)

	default:
		c.hub.reply(c, "error", map[string]string{"message": "unknown message type"})
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
