package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"

	"github.com/chynybekuuludastan/content_mapper/internal/logging"
)

// Message types
const (
	TypeConnected        = "connected"
	TypeError            = "error"
	TypeJobProgress      = "job_progress"
	TypeAnalysisComplete = "analysis_completed"
	TypeCommand          = "command"
	TypeKey              = "key"
	TypeSubscribe        = "subscribe"
	TypeShortcuts        = "shortcuts"
)

// Message represents a WebSocket message
type Message struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Inbound is a message received from a client
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Client represents a connected WebSocket client
type Client struct {
	conn   *websocket.Conn
	topics map[string]bool
	send   chan []byte
	mu     sync.Mutex

	// Guard send against use after the hub closed it
	sendMu sync.Mutex
	closed bool
}

// NewClient wraps a connection
func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		conn:   conn,
		topics: make(map[string]bool),
		send:   make(chan []byte, 256),
	}
}

// Send queues a message for this client only. It reports false when the
// client's buffer is full or the client has been unregistered.
func (c *Client) Send(message Message) bool {
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(message)
	if err != nil {
		return false
	}
	return c.queue(data)
}

// queue hands data to the write pump without blocking
func (c *Client) queue(data []byte) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// close ends the write pump. Safe to call more than once.
func (c *Client) close() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

type subscription struct {
	client *Client
	topic  string
}

// Hub fans messages out to clients subscribed to a topic
type Hub struct {
	// Subscribed clients by topic
	topics map[string]map[*Client]bool

	// All registered clients
	clients map[*Client]bool

	register    chan *Client
	unregister  chan *Client
	subscribe   chan subscription
	unsubscribe chan subscription

	// Guard topics and clients maps
	mu sync.RWMutex

	logger logging.Logger
}

// NewHub creates a new websocket hub
func NewHub(logger logging.Logger) *Hub {
	if logger == nil {
		logger = &logging.DefaultLogger{}
	}
	return &Hub{
		topics:      make(map[string]map[*Client]bool),
		clients:     make(map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		subscribe:   make(chan subscription),
		unsubscribe: make(chan subscription),
		logger:      logger,
	}
}

// Run starts the hub's message handling loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if h.clients[client] {
				delete(h.clients, client)
				for topic := range client.topics {
					h.removeLocked(topic, client)
				}
				client.close()
			}
			h.mu.Unlock()

		case sub := <-h.subscribe:
			h.mu.Lock()
			if h.clients[sub.client] {
				if _, ok := h.topics[sub.topic]; !ok {
					h.topics[sub.topic] = make(map[*Client]bool)
				}
				h.topics[sub.topic][sub.client] = true
				sub.client.topics[sub.topic] = true
			}
			h.mu.Unlock()

		case sub := <-h.unsubscribe:
			h.mu.Lock()
			h.removeLocked(sub.topic, sub.client)
			delete(sub.client.topics, sub.topic)
			h.mu.Unlock()
		}
	}
}

// removeLocked drops client from topic. Callers hold mu.
func (h *Hub) removeLocked(topic string, client *Client) {
	if clients, ok := h.topics[topic]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.topics, topic)
		}
	}
}

// Register registers a new client connection
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client connection
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Subscribe adds client to topic
func (h *Hub) Subscribe(client *Client, topic string) {
	h.subscribe <- subscription{client: client, topic: topic}
}

// Unsubscribe removes client from topic
func (h *Hub) Unsubscribe(client *Client, topic string) {
	h.unsubscribe <- subscription{client: client, topic: topic}
}

// Subscribers reports how many clients listen on topic
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

// Broadcast sends a message to all clients subscribed to topic
func (h *Hub) Broadcast(topic string, message Message) {
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now().UTC()
	}
	messageJSON, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("Error marshalling WebSocket message", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.topics[topic] {
		if !client.queue(messageJSON) {
			// Client's send buffer is full, unregister
			go h.Unregister(client)
		}
	}
}

// Serve registers client, subscribes it to topics and runs the connection
// until it closes. handle is called for every inbound message. The read loop
// runs on the caller's goroutine. When Serve returns the client has been
// removed from every topic.
func (h *Hub) Serve(client *Client, topics []string, handle func(client *Client, msg Inbound)) {
	h.Register(client)
	for _, topic := range topics {
		h.Subscribe(client, topic)
	}

	done := make(chan struct{})
	go func() {
		client.writePump()
		close(done)
	}()

	client.readPump(h, handle)
	<-done
}

// writePump pumps messages from the hub to the websocket connection
func (c *Client) writePump() {
	for message := range c.send {
		c.mu.Lock()
		err := c.conn.WriteMessage(websocket.TextMessage, message)
		c.mu.Unlock()
		if err != nil {
			// Drain until the hub closes the channel
			for range c.send {
			}
			return
		}
	}

	c.mu.Lock()
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
	c.mu.Unlock()
}

// readPump pumps messages from the websocket connection to handle
func (c *Client) readPump(h *Hub, handle func(client *Client, msg Inbound)) {
	defer h.Unregister(c)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("WebSocket error", "error", err)
			}
			return
		}

		var msg Inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			c.Send(Message{Type: TypeError, Data: map[string]string{"message": "invalid message"}})
			continue
		}
		handle(c, msg)
	}
}
