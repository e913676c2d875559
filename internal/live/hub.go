// Package live pushes committed match updates to websocket subscribers.
package live

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/DhavalSuthar-24/crease/internal/match"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 32
)

// Message is one frame sent to subscribers.
type Message struct {
	Type      match.UpdateKind `json:"type"`
	MatchID   uint             `json:"match_id"`
	Match     match.MatchView  `json:"match"`
	Ball      *match.BallEvent `json:"ball,omitempty"`
	Timestamp int64            `json:"timestamp"`
}

// Client is one websocket subscribed to a single match.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	matchID uint
}

type envelope struct {
	matchID uint
	payload []byte
}

// Hub fans match updates out to the clients watching that match.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan envelope
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
}

// NewHub returns a hub; call Run to start it.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan envelope, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run serves registrations and broadcasts until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Printf("Live client registered for match %d. Total clients: %d", client.matchID, h.ClientCount())

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				if client.matchID != msg.matchID {
					continue
				}
				select {
				case client.send <- msg.payload:
				default:
					// Slow reader: drop it rather than stall every other match.
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// ClientCount returns the number of connected subscribers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// MatchUpdated implements match.Notifier. It never blocks the caller.
func (h *Hub) MatchUpdated(_ context.Context, u match.Update) {
	data, err := json.Marshal(Message{
		Type:      u.Kind,
		MatchID:   u.Match.ID,
		Match:     match.NewMatchView(u.Match),
		Ball:      u.Ball,
		Timestamp: time.Now().UnixMilli(),
	})
	if err != nil {
		log.Printf("Failed to marshal live update for match %d: %v", u.Match.ID, err)
		return
	}
	select {
	case h.broadcast <- envelope{matchID: u.Match.ID, payload: data}:
	default:
		log.Printf("Live broadcast queue full, dropping update for match %d", u.Match.ID)
	}
}

// add registers c unless the hub has stopped.
func (h *Hub) add(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// readPump only watches for the peer going away.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}
	}
}

func (c *Client) writePump() {
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
