package server

import (
	"sync"
)

// Hub tracks connected clients and their game membership.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
	byGame  map[string][]*Client
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]bool),
		byGame:  make(map[string][]*Client),
	}
}

// Register adds a client.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = true
}

// Unregister removes a client and drops it from its game.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.clients[c] {
		return
	}
	delete(h.clients, c)
	close(c.send)
	h.leaveLocked(c)
}

// JoinGame attaches a client to a game as a player.
func (h *Hub) JoinGame(c *Client, gameID, playerID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(c)
	c.gameID = gameID
	c.playerID = playerID
	h.byGame[gameID] = append(h.byGame[gameID], c)
}

func (h *Hub) leaveLocked(c *Client) {
	if c.gameID == "" {
		return
	}
	conns := h.byGame[c.gameID]
	for i, conn := range conns {
		if conn == c {
			h.byGame[c.gameID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}
	c.gameID = ""
}

// ClientsInGame returns a snapshot of a game's clients.
func (h *Hub) ClientsInGame(gameID string) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]*Client(nil), h.byGame[gameID]...)
}
