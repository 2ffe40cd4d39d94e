package ws

import (
	"encoding/json"
	"sync"

	"go-inventory-pos/pkg/logger"

	"github.com/gofiber/contrib/websocket"
)

// Message is the envelope every feed event is wrapped in.
type Message struct {
	Type    string `json:"type"`
	Action  string `json:"action"`
	Payload any    `json:"payload"`
}

type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	mutex      sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte, 64),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			h.mutex.Unlock()
			logger.Info("ws client connected (%d open)", h.ClientCount())

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.Clients)
}

// Notify queues an event for every connected client. It never blocks the
// caller; when the queue is full the event is dropped.
func (h *Hub) Notify(msgType, action string, payload any) {
	if h == nil {
		return
	}
	msg, err := json.Marshal(Message{Type: msgType, Action: action, Payload: payload})
	if err != nil {
		logger.Error("ws marshal %s/%s", err, msgType, action)
		return
	}
	select {
	case h.Broadcast <- msg:
	default:
		logger.Warn("ws broadcast queue full, dropping %s/%s", msgType, action)
	}
}

// Serve keeps a client registered until it stops reading.
func (h *Hub) Serve(c *websocket.Conn) {
	h.Register <- c
	defer func() { h.Unregister <- c }()

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
}
