package main

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 4096
	sendBufSize       = 256
	maxMessagesPerSec = 128
	maxNameLen        = 32
)

// Client represents a WebSocket connection for one agent
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	remoteAddr string

	// Join state. Written before ReadPump starts or from within it.
	playerID    string
	displayName string
	matchID     string
	team        Team
	fid         int64

	msgCount   int
	msgResetAt time.Time
}

// NewClient creates a new Client
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		remoteAddr: remoteAddr,
	}
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump() {
	defer func() {
		c.hub.TrackDisconnect(c.remoteAddr)
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws error: %v", err)
			}
			break
		}

		// Rate limiting
		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			log.Printf("rate limit exceeded for %s, disconnecting", c.remoteAddr)
			break
		}

		c.handleMessage(message)
	}
}

// WritePump writes messages to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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

// SendJSON sends a JSON message to the client
func (c *Client) SendJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("marshal error: %v", err)
		return
	}
	c.SendRaw(data)
}

// SendRaw sends pre-marshaled bytes to the client, dropping the frame if the
// client's buffer is full
func (c *Client) SendRaw(data []byte) {
	defer func() { recover() }()
	select {
	case c.send <- data:
	default:
		// Client too slow, drop message; the next broadcast catches it up
	}
}

// SendError sends a typed protocol error; the connection stays open
func (c *Client) SendError(code, message string) {
	c.SendJSON(ErrorMsg{Type: MsgError, Code: code, Message: message})
}

// handleMessage routes one inbound message
func (c *Client) handleMessage(raw []byte) {
	var msg InMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.SendError(ErrInvalidMessage, "invalid JSON")
		return
	}

	switch msg.Type {
	case MsgJoin:
		if c.matchID != "" {
			c.SendError(ErrAlreadyJoined, "already in a match")
			return
		}
		if msg.MatchID == "" {
			c.SendError(ErrInvalidMessage, "join requires matchId")
			return
		}
		c.JoinMatch(msg.MatchID)
	case MsgAction:
		c.handleAction(msg.Action)
	default:
		c.SendError(ErrInvalidMessage, "unknown message type")
	}
}

// handleAction validates an action, stamps the connection's player id onto
// it (a connection may not act as another player), and applies it
func (c *Client) handleAction(raw json.RawMessage) {
	if c.matchID == "" {
		c.SendError(ErrInvalidAction, "not in a match")
		return
	}
	action, err := ParseAction(raw)
	if err != nil {
		c.SendError(ErrInvalidAction, err.Error())
		return
	}
	action.PlayerID = c.playerID

	m := c.hub.registry.GetMatch(c.matchID)
	if m == nil {
		c.SendError(ErrInvalidAction, "match not found")
		return
	}
	if m.ProcessAction(action) {
		c.hub.BroadcastState(c.matchID)
	}
}

// JoinMatch assigns the agent to the smaller team of the given match,
// acknowledges with a joined message, and broadcasts the snapshot so
// latecomers and co-members converge
func (c *Client) JoinMatch(matchID string) bool {
	m := c.hub.registry.GetMatch(matchID)
	if m == nil || m.Finished() {
		c.SendError(ErrJoinFailed, "match not found or finished")
		return false
	}

	team, ok := m.AssignTeam()
	if !ok {
		c.SendError(ErrMatchFull, "match has no slots")
		return false
	}
	if !m.AddPlayer(c.playerID, c.displayName, team, c.fid) {
		c.SendError(ErrJoinFailed, "could not join match")
		return false
	}

	c.matchID = matchID
	c.team = team
	c.hub.Subscribe(matchID, c)

	c.SendJSON(JoinedMsg{Type: MsgJoined, MatchID: matchID, Team: team, PlayerID: c.playerID})
	c.hub.BroadcastState(matchID)
	return true
}

// AutoJoin joins the requested match, or failing that any open match,
// creating one when the pool is empty
func (c *Client) AutoJoin(requestedMatchID string) {
	if requestedMatchID != "" {
		c.JoinMatch(requestedMatchID)
		return
	}

	if m := c.hub.registry.FindOpenMatch(); m != nil {
		if c.JoinMatch(m.ID) {
			return
		}
	}
	m := c.hub.registry.CreateMatch("practice")
	if m == nil {
		c.SendError(ErrJoinFailed, "no match available")
		return
	}
	c.JoinMatch(m.ID)
}
