// Package live pushes events to websocket clients grouped in rooms: a job
// id, "admin", or "driver:<contractor id>".
package live

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"junkos/internal/core/ports"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	AdminRoom        = "admin"
	driverRoomPrefix = "driver:"

	sendBuffer = 64
)

var _ ports.LiveChannel = (*Hub)(nil)

// Principal is the authenticated user behind a connection.
type Principal struct {
	UserID       string
	IsAdmin      bool
	ContractorID string
}

// RoomAuthorizer decides whether p may follow a job room. Without one, only
// admins can join job rooms.
type RoomAuthorizer func(ctx context.Context, p Principal, room string) (bool, error)

// LocationFunc receives location pings sent over the socket by contractors.
type LocationFunc func(ctx context.Context, p Principal, lat, lng float64) error

// Message is the frame written to clients.
type Message struct {
	Event string `json:"event"`
	Room  string `json:"room,omitempty"`
	Data  any    `json:"data,omitempty"`
}

type Option func(*Hub)

func WithLocationHandler(fn LocationFunc) Option {
	return func(h *Hub) { h.onLocation = fn }
}

func WithRoomAuthorizer(fn RoomAuthorizer) Option {
	return func(h *Hub) { h.authorizeRoom = fn }
}

func WithCheckOrigin(fn func(r *http.Request) bool) Option {
	return func(h *Hub) { h.upgrader.CheckOrigin = fn }
}

type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	rooms   map[string]map[*client]struct{}

	upgrader      websocket.Upgrader
	onLocation    LocationFunc
	authorizeRoom RoomAuthorizer
	logger        *zap.Logger
}

func NewHub(logger *zap.Logger, opts ...Option) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Hub{
		clients: make(map[*client]struct{}),
		rooms:   make(map[string]map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger.With(zap.String("component", "live_hub")),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Serve upgrades the request and registers the connection. Contractors are
// joined to their own driver room right away.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, p Principal) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
		principal: p,
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	if p.ContractorID != "" {
		h.joinLocked(c, driverRoomPrefix+p.ContractorID)
	}
	h.mu.Unlock()

	h.logger.Debug("client connected", zap.String("user_id", p.UserID))

	go c.writePump()
	go c.readPump()
	return nil
}

// Emit writes the event to every client in room. Clients whose buffer is
// full are disconnected.
func (h *Hub) Emit(_ context.Context, room, event string, payload any) error {
	data, err := json.Marshal(Message{Event: event, Room: room, Data: payload})
	if err != nil {
		return err
	}

	var slow []*client
	h.mu.RLock()
	for c := range h.rooms[room] {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("dropping slow client", zap.String("user_id", c.principal.UserID), zap.String("room", room))
		h.remove(c)
	}
	return nil
}

// RoomSize is the number of clients currently in room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.RLock()
	all := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		all = append(all, c)
	}
	h.mu.RUnlock()

	for _, c := range all {
		h.remove(c)
	}
}

func (h *Hub) canJoin(p Principal, room string) bool {
	switch {
	case room == "":
		return false
	case room == AdminRoom:
		return p.IsAdmin
	case strings.HasPrefix(room, driverRoomPrefix):
		return p.IsAdmin || room == driverRoomPrefix+p.ContractorID
	case p.IsAdmin:
		return true
	case h.authorizeRoom == nil:
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeWait)
	defer cancel()
	ok, err := h.authorizeRoom(ctx, p, room)
	if err != nil {
		h.logger.Warn("room authorization failed", zap.String("user_id", p.UserID), zap.String("room", room), zap.Error(err))
		return false
	}
	return ok
}

func (h *Hub) join(c *client, room string) bool {
	if !h.canJoin(c.principal, room) {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return false
	}
	h.joinLocked(c, room)
	return true
}

func (h *Hub) joinLocked(c *client, room string) {
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*client]struct{})
		h.rooms[room] = members
	}
	members[c] = struct{}{}
}

func (h *Hub) leave(c *client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(c, room)
}

func (h *Hub) leaveLocked(c *client, room string) {
	members, ok := h.rooms[room]
	if !ok {
		return
	}
	delete(members, c)
	if len(members) == 0 {
		delete(h.rooms, room)
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	for room := range h.rooms {
		h.leaveLocked(c, room)
	}
	close(c.send)
	h.mu.Unlock()

	h.logger.Debug("client disconnected", zap.String("user_id", c.principal.UserID))
}

// reply queues a frame for one client.
func (h *Hub) reply(c *client, event string, data any) {
	frame, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	select {
	case c.send <- frame:
	default:
	}
}

func (h *Hub) location(c *client, lat, lng float64) {
	if h.onLocation == nil || c.principal.ContractorID == "" {
		h.reply(c, "error", map[string]string{"message": "location updates are not accepted"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeWait)
	defer cancel()
	if err := h.onLocation(ctx, c.principal, lat, lng); err != nil {
		h.logger.Warn("location update failed", zap.String("contractor_id", c.principal.ContractorID), zap.Error(err))
		h.reply(c, "error", map[string]string{"message": err.Error()})
	}
}
