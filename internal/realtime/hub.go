// Package realtime keeps the open websocket connections of each user and
// pushes events to them. Delivery is best effort: events for users with no
// open connection are dropped.
package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const sendBuffer = 64

const (
	EventNotification = "notification:new"
	EventEcho         = "echo"
)

type Event struct {
	Type      string    `json:"type"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher delivers an event to every connection of a user.
type Publisher interface {
	Publish(ctx context.Context, userID uint, ev Event) error
}

// Client is one websocket connection. Send is closed by the hub on
// Unregister.
type Client struct {
	ID     string
	UserID uint
	Send   chan []byte
}

func NewClient(id string, userID uint) *Client {
	return &Client{ID: id, UserID: userID, Send: make(chan []byte, sendBuffer)}
}

type Hub struct {
	mu    sync.RWMutex
	users map[uint]map[*Client]struct{}
	log   zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		users: make(map[uint]map[*Client]struct{}),
		log:   log.With().Str("component", "realtime").Logger(),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.users[c.UserID]
	if !ok {
		set = make(map[*Client]struct{})
		h.users[c.UserID] = set
	}
	set[c] = struct{}{}
}

// Unregister is safe to call more than once for the same client.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.users[c.UserID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}

	delete(set, c)
	if len(set) == 0 {
		delete(h.users, c.UserID)
	}
	close(c.Send)
}

// SendToUser queues payload on every connection of the user and returns how
// many accepted it. Connections with a full buffer are skipped.
func (h *Hub) SendToUser(userID uint, payload []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for c := range h.users[userID] {
		select {
		case c.Send <- payload:
			delivered++
		default:
			h.log.Warn().Uint("user_id", userID).Str("client_id", c.ID).Msg("client buffer full, dropping event")
		}
	}
	return delivered
}

func (h *Hub) Publish(_ context.Context, userID uint, ev Event) error {
	data, err := encode(ev)
	if err != nil {
		return err
	}
	h.SendToUser(userID, data)
	return nil
}

func (h *Hub) ConnectionCount(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID])
}

func (h *Hub) IsOnline(userID uint) bool {
	return h.ConnectionCount(userID) > 0
}

func encode(ev Event) ([]byte, error) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	return json.Marshal(ev)
}

var _ Publisher = (*Hub)(nil)
