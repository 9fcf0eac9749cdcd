package ws

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"
)

// GlobalRoom receives match-lifecycle events every connection cares about.
const GlobalRoom = "global"

func matchRoom(matchID int) string {
	return "match_" + strconv.Itoa(matchID)
}

// Hub tracks which connections are subscribed to which match rooms and fans
// serialized messages out to them. The registry has its own lock so a slow
// socket can never stall point processing.
type Hub struct {
	Register   chan *Client
	Unregister chan *Client

	mu    sync.RWMutex
	rooms map[string]map[*Client]bool

	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

// Run owns the register/unregister lifecycle. Must run in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.join(client, GlobalRoom)
			h.logger.Info("ws client registered", slog.String("client_id", client.ID.String()))

		case client := <-h.Unregister:
			h.dropClient(client)
		}
	}
}

// Subscribe adds the connection to a match room and remembers the membership
// for disconnect cleanup.
func (h *Hub) Subscribe(matchID int, client *Client) {
	h.join(client, matchRoom(matchID))
}

// Unsubscribe removes the connection from a match room. Idempotent: a second
// call, or a call for a room never joined, is a no-op.
func (h *Hub) Unsubscribe(matchID int, client *Client) {
	h.leave(client, matchRoom(matchID))
}

// BroadcastToMatch sends payload to every connection subscribed to the match.
// Delivery is at-most-once: a client whose buffer is full misses the message
// and self-heals on its next subscribe.
func (h *Hub) BroadcastToMatch(matchID int, payload interface{}) {
	h.broadcastRoom(matchRoom(matchID), payload)
}

// BroadcastGlobal sends payload to every connected client.
func (h *Hub) BroadcastGlobal(payload interface{}) {
	h.broadcastRoom(GlobalRoom, payload)
}

func (h *Hub) join(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[room]; !ok {
		h.rooms[room] = make(map[*Client]bool)
	}
	h.rooms[room][client] = true
}

func (h *Hub) leave(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.rooms[room]
	if !ok {
		return
	}
	delete(clients, client)
	if len(clients) == 0 {
		delete(h.rooms, room)
	}
}

// dropClient removes the connection from every room it joined and closes its
// send channel exactly once.
func (h *Hub) dropClient(client *Client) {
	h.mu.Lock()
	for room, clients := range h.rooms {
		if clients[client] {
			delete(clients, client)
			if len(clients) == 0 {
				delete(h.rooms, room)
			}
		}
	}
	h.mu.Unlock()

	client.close()
	h.logger.Info("ws client unregistered", slog.String("client_id", client.ID.String()))
}

func (h *Hub) broadcastRoom(room string, payload interface{}) {
	messageBytes, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to marshal broadcast payload",
			slog.String("room", room), slog.Any("error", err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[room] {
		client.enqueue(messageBytes)
	}
}

// RoomSize reports the subscriber count of a match room.
func (h *Hub) RoomSize(matchID int) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[matchRoom(matchID)])
}
