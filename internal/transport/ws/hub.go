package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgSessionStarted   MessageType = "session_started"
	MsgAnswerSubmitted  MessageType = "answer_submitted"
	MsgSessionProgress  MessageType = "session_progress"
	MsgSessionCompleted MessageType = "session_completed"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages watcher connections: admins subscribed to the live progress of
// one survey's sessions
type Hub struct {
	// Survey -> watcher id -> connection
	watchers map[string]map[string]*Connection

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
}

// Connection represents one watcher WebSocket connection
type Connection struct {
	ID       string
	SurveyID string
	Send     chan []byte
	Hub      *Hub
}

// BroadcastMessage is a message fanned out to all watchers of a survey
type BroadcastMessage struct {
	SurveyID string
	Message  *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		watchers:   make(map[string]map[string]*Connection),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.watchers[conn.SurveyID] == nil {
				h.watchers[conn.SurveyID] = make(map[string]*Connection)
			}
			h.watchers[conn.SurveyID][conn.ID] = conn
			h.mu.Unlock()
			log.Printf("Watcher %s connected to survey %s", conn.ID, conn.SurveyID)

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.watchers[conn.SurveyID]; ok {
				if existing, ok := conns[conn.ID]; ok && existing == conn {
					delete(conns, conn.ID)
					close(conn.Send)
					log.Printf("Watcher %s disconnected from survey %s", conn.ID, conn.SurveyID)
				}
				if len(conns) == 0 {
					delete(h.watchers, conn.SurveyID)
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)
			for _, conn := range h.watchers[msg.SurveyID] {
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

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BroadcastToWatchers sends an event to every admin watching the survey
// (implements service.Broadcaster)
func (h *Hub) BroadcastToWatchers(surveyID string, event string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		SurveyID: surveyID,
		Message: &Message{
			Type:    MessageType(event),
			Payload: data,
		},
	}
}
