package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/droid-games/scoreboard/internal/bus"
	"github.com/droid-games/scoreboard/internal/logger"
	"github.com/droid-games/scoreboard/internal/models"
	"github.com/droid-games/scoreboard/internal/services"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Arena clients connect from kiosk displays and tablets
	},
}

// outbound pairs a message with its target group. An empty group reaches
// every client.
type outbound struct {
	group string
	msg   models.WSMessage
}

// Hub maintains the set of active clients and fans bus events out to them.
// Clients opt into groups (a team's private channel, the head-referee
// channel) by sending subscribe messages; everything published without a
// group reaches all clients.
type Hub struct {
	log        logger.Logger
	clients    map[*Client]bool
	broadcast  chan outbound
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	settings   services.SettingsServicer
}

// Client is a middleman between the websocket connection and the hub
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan models.WSMessage
	mu     sync.RWMutex
	groups map[string]bool
}

func (c *Client) inGroup(group string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.groups[group]
}

func (c *Client) setGroup(group string, member bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if member {
		c.groups[group] = true
	} else {
		delete(c.groups, group)
	}
}

// New creates a new Hub and wires it to the event bus. Every bus event
// becomes a websocket message typed by the event name.
func New(log logger.Logger, b *bus.Bus, settings services.SettingsServicer) *Hub {
	h := &Hub{
		log:        log,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan outbound, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		settings:   settings,
	}
	b.SubscribeAll(func(e bus.Event) {
		h.broadcast <- outbound{
			group: e.Group,
			msg:   models.WSMessage{Type: e.Name, Payload: e.Payload},
		}
	})
	return h
}

// Start begins the hub's main loop in a goroutine
func (h *Hub) Start() {
	go h.run()
}

// run handles client registration/unregistration and message fan-out
func (h *Hub) run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			h.log.Debug("Client connected", "total_clients", len(h.clients))

			// Send the current competition state to the new client
			go func() {
				ctx := context.Background()
				status, _ := h.settings.GetGameStatus(ctx)
				round, _ := h.settings.GetCurrentRound(ctx)
				remaining, _ := h.settings.RemainingSeconds(ctx)

				client.send <- models.WSMessage{
					Type: bus.EventGameStatusChanged,
					Payload: map[string]interface{}{
						"status":            status,
						"current_round":     round,
						"seconds_remaining": remaining,
					},
				}
			}()

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mutex.Unlock()
			h.log.Debug("Client disconnected", "total_clients", len(h.clients))

		case out := <-h.broadcast:
			h.mutex.RLock()
			for client := range h.clients {
				if out.group != "" && !client.inGroup(out.group) {
					continue
				}
				select {
				case client.send <- out.msg:
				default:
					// Client's send channel is full, unregister
					go func(c *Client) {
						h.unregister <- c
					}(client)
				}
			}
			h.mutex.RUnlock()
		}
	}
}

// BroadcastMessage sends a message to all connected clients
func (h *Hub) BroadcastMessage(msgType string, payload interface{}) {
	h.broadcast <- outbound{msg: models.WSMessage{Type: msgType, Payload: payload}}
}

// BroadcastToGroup sends a message only to clients subscribed to the group
func (h *Hub) BroadcastToGroup(group, msgType string, payload interface{}) {
	h.broadcast <- outbound{group: group, msg: models.WSMessage{Type: msgType, Payload: payload}}
}

// subscribeRequest is the payload clients send to join or leave a group
type subscribeRequest struct {
	Group string `json:"group"`
}

// readPump pumps messages from the websocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Debug("WebSocket error", "error", err)
			}
			break
		}

		var msg models.WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case "subscribe", "unsubscribe":
			raw, err := json.Marshal(msg.Payload)
			if err != nil {
				continue
			}
			var req subscribeRequest
			if err := json.Unmarshal(raw, &req); err != nil || req.Group == "" {
				continue
			}
			c.setGroup(req.Group, msg.Type == "subscribe")
			c.hub.log.Debug("Client group change", "type", msg.Type, "group", req.Group)
		default:
			c.hub.log.Debug("Received message", "type", msg.Type)
		}
	}
}

// writePump pumps messages from the hub to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}

			msgBytes, _ := json.Marshal(message)
			w.Write(msgBytes)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWs handles websocket requests from clients
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("WebSocket upgrade error", "error", err)
		return
	}

	client := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan models.WSMessage, 256),
		groups: make(map[string]bool),
	}
	h.register <- client

	// Allow collection of memory referenced by the caller by doing all work in new goroutines
	go client.writePump()
	go client.readPump()
}

// StartRoundCountdown runs the arena countdown with context-based
// cancellation. While a timer is armed it broadcasts a tick every second;
// when the timer expires it stops the round.
func (h *Hub) StartRoundCountdown(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.log.Info("Round countdown stopped")
			return
		case <-ticker.C:
			h.checkAndUpdateCountdown()
		}
	}
}

// checkAndUpdateCountdown checks the round timer and broadcasts updates
func (h *Hub) checkAndUpdateCountdown() {
	ctx := context.Background()
	end, err := h.settings.GetRoundEndTime(ctx)
	if err != nil || end == 0 {
		return
	}

	remaining := end - time.Now().Unix()
	if remaining <= 0 {
		// Time's up! Stop the round
		status, _ := h.settings.GetGameStatus(ctx)
		if status == models.StatusRoundInProgress {
			if err := h.settings.StopRoundTimer(ctx); err != nil {
				h.log.Error("Auto-stopping round failed", "error", err)
				return
			}
			h.log.Info("Round automatically stopped by timer")
		}
		return
	}

	h.BroadcastMessage(bus.EventTimerTick, map[string]interface{}{
		"seconds_remaining": int(remaining),
	})
}
