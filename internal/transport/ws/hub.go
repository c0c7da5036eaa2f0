package ws

import (
	"encoding/json"
	"studyhub/internal/logger"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Server message types
const (
	MsgAnswerRecorded       MessageType = "answer_recorded"
	MsgAchievementsUnlocked MessageType = "achievements_unlocked"
	MsgLeaderboardUpdate    MessageType = "leaderboard_update"
	MsgProgressReset        MessageType = "progress_reset"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans events out to the sockets watching a notebook. A user may hold
// several sockets, one per open notebook or device.
type Hub struct {
	notebookConns map[string]map[*Connection]bool // notebookID -> conns
	userConns     map[string]map[*Connection]bool // userID -> conns

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage

	log *logger.Logger
}

// Connection represents a WebSocket connection
type Connection struct {
	NotebookID string
	UserID     string
	Send       chan []byte
	Hub        *Hub
}

// BroadcastMessage targets either every socket on a notebook or every
// socket of a user
type BroadcastMessage struct {
	NotebookID string
	UserID     string
	Message    *Message
}

// NewHub creates a new WebSocket hub
func NewHub(log *logger.Logger) *Hub {
	h := &Hub{
		notebookConns: make(map[string]map[*Connection]bool),
		userConns:     make(map[string]map[*Connection]bool),
		register:      make(chan *Connection),
		unregister:    make(chan *Connection),
		broadcast:     make(chan *BroadcastMessage, 256),
		log:           log,
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			add(h.notebookConns, conn.NotebookID, conn)
			add(h.userConns, conn.UserID, conn)
			h.mu.Unlock()
			h.log.Debug("websocket connected", "notebookId", conn.NotebookID, "userId", conn.UserID)

		case conn := <-h.unregister:
			h.mu.Lock()
			if h.notebookConns[conn.NotebookID][conn] {
				remove(h.notebookConns, conn.NotebookID, conn)
				remove(h.userConns, conn.UserID, conn)
				close(conn.Send)
				h.log.Debug("websocket disconnected", "notebookId", conn.NotebookID, "userId", conn.UserID)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			data, err := json.Marshal(msg.Message)
			if err != nil {
				h.log.Warn("websocket message encode failed", "type", msg.Message.Type, "error", err)
				continue
			}
			h.mu.RLock()
			targets := h.notebookConns[msg.NotebookID]
			if msg.UserID != "" {
				targets = h.userConns[msg.UserID]
			}
			for conn := range targets {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

func add(index map[string]map[*Connection]bool, key string, conn *Connection) {
	if index[key] == nil {
		index[key] = make(map[*Connection]bool)
	}
	index[key][conn] = true
}

func remove(index map[string]map[*Connection]bool, key string, conn *Connection) {
	delete(index[key], conn)
	if len(index[key]) == 0 {
		delete(index, key)
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

func envelope(msgType string, payload interface{}) *Message {
	data, _ := json.Marshal(payload)
	return &Message{Type: MessageType(msgType), Payload: data}
}

// BroadcastToNotebook sends to every socket watching the notebook (implements service.Broadcaster)
func (h *Hub) BroadcastToNotebook(notebookID string, msgType string, payload interface{}) {
	h.broadcast <- &BroadcastMessage{
		NotebookID: notebookID,
		Message:    envelope(msgType, payload),
	}
}

// BroadcastToUser sends to every socket of the user (implements service.Broadcaster)
func (h *Hub) BroadcastToUser(userID string, msgType string, payload interface{}) {
	h.broadcast <- &BroadcastMessage{
		UserID:  userID,
		Message: envelope(msgType, payload),
	}
}
