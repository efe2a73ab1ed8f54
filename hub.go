package main

import (
	"encoding/json"
	"log"
	"sync"
)

// Connection limits. Vars so tests can raise them.
var (
	maxConnsPerIP = 8
	maxTotalConns = 1000
)

// Hub manages all connected clients and their per-match subscriptions
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]bool
	matchConns map[string]map[*Client]bool // matchID -> connections
	register   chan *Client
	unregister chan *Client

	registry *Registry
	auth     *AgentAuth

	// Connection limiting (mutex-protected, accessed from HTTP handlers)
	connMu     sync.Mutex
	ipConns    map[string]int
	totalConns int
}

// NewHub creates a new Hub over the given registry
func NewHub(registry *Registry, auth *AgentAuth) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		matchConns: make(map[string]map[*Client]bool),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		registry:   registry,
		auth:       auth,
		ipConns:    make(map[string]int),
	}
}

func (h *Hub) CanAccept(ip string) bool {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	if h.totalConns >= maxTotalConns {
		return false
	}
	if h.ipConns[ip] >= maxConnsPerIP {
		return false
	}
	return true
}

func (h *Hub) TrackConnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]++
	h.totalConns++
}

func (h *Hub) TrackDisconnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]--
	if h.ipConns[ip] <= 0 {
		delete(h.ipConns, ip)
	}
	h.totalConns--
}

// Run processes register/unregister events
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

			matchID := client.matchID
			if matchID == "" {
				continue
			}
			h.Unsubscribe(client)
			// Disconnect frees the roster slot; the player counts as dead,
			// which can end the round by elimination.
			if m := h.registry.GetMatch(matchID); m != nil {
				if m.RemovePlayer(client.playerID) {
					h.BroadcastState(matchID)
				}
			}
		}
	}
}

// Subscribe registers a connection under its match
func (h *Hub) Subscribe(matchID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.matchConns[matchID]
	if !ok {
		set = make(map[*Client]bool)
		h.matchConns[matchID] = set
	}
	set[c] = true
}

// Unsubscribe removes a connection from its match's connection set
func (h *Hub) Unsubscribe(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.matchConns[c.matchID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.matchConns, c.matchID)
		}
	}
}

// BroadcastState sends the current match snapshot to every connection on
// that match. The payload is marshaled once; a slow socket's full buffer
// drops the frame rather than stalling simulation.
func (h *Hub) BroadcastState(matchID string) {
	m := h.registry.GetMatch(matchID)
	if m == nil {
		return
	}
	data, err := json.Marshal(StateMsg{Type: MsgState, Data: m.Snapshot()})
	if err != nil {
		log.Printf("marshal snapshot: %v", err)
		return
	}

	h.mu.RLock()
	conns := make([]*Client, 0, len(h.matchConns[matchID]))
	for c := range h.matchConns[matchID] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		c.SendRaw(data)
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// TotalConns returns the tracked connection count
func (h *Hub) TotalConns() int {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	return h.totalConns
}
