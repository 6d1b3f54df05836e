package ws

import (
	"encoding/json"
	"log"
	"sync"

	"accord/internal/model"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgPartnerJoined      MessageType = "partner_joined"
	MsgPartnerLeft        MessageType = "partner_left"
	MsgResponsesSaved     MessageType = "responses_saved"
	MsgResponsesSubmitted MessageType = "responses_submitted"
	MsgReportReady        MessageType = "report_ready"
	MsgError              MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages WebSocket connections for pair sessions
type Hub struct {
	// sessionCode -> role -> connection
	conns map[string]map[model.PartnerRole]*Connection

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
}

// Connection represents one partner's WebSocket connection
type Connection struct {
	SessionCode string
	PartnerID   string
	Role        model.PartnerRole
	Send        chan []byte
	Hub         *Hub
}

// BroadcastMessage is a message to broadcast
type BroadcastMessage struct {
	SessionCode string
	ToRole      model.PartnerRole // Empty means both partners
	Message     *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		conns:      make(map[string]map[model.PartnerRole]*Connection),
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
			if h.conns[conn.SessionCode] == nil {
				h.conns[conn.SessionCode] = make(map[model.PartnerRole]*Connection)
			}
			h.conns[conn.SessionCode][conn.Role] = conn
			h.mu.Unlock()
			log.Printf("Partner %s (%s) connected to session %s", conn.PartnerID, conn.Role, conn.SessionCode)

		case conn := <-h.unregister:
			h.mu.Lock()
			if partners, ok := h.conns[conn.SessionCode]; ok {
				if existing, ok := partners[conn.Role]; ok && existing == conn {
					delete(partners, conn.Role)
					close(conn.Send)
					log.Printf("Partner %s (%s) disconnected from session %s", conn.PartnerID, conn.Role, conn.SessionCode)
					h.notifyPartnerLeft(conn.SessionCode, conn.Role)
				}
				if len(partners) == 0 {
					delete(h.conns, conn.SessionCode)
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)
			if partners, ok := h.conns[msg.SessionCode]; ok {
				for role, conn := range partners {
					if msg.ToRole != "" && role != msg.ToRole {
						continue
					}
					select {
					case conn.Send <- data:
					default:
						// Drop message if buffer full
					}
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

// BroadcastToPartner sends a message to one partner (implements service.Broadcaster)
func (h *Hub) BroadcastToPartner(sessionCode string, role model.PartnerRole, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		SessionCode: sessionCode,
		ToRole:      role,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}

// BroadcastToSession sends a message to both partners (implements service.Broadcaster)
func (h *Hub) BroadcastToSession(sessionCode string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		SessionCode: sessionCode,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}

// DisconnectSession closes all connections for a session (implements service.Broadcaster)
func (h *Hub) DisconnectSession(sessionCode string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if partners, ok := h.conns[sessionCode]; ok {
		for _, conn := range partners {
			close(conn.Send)
		}
		delete(h.conns, sessionCode)
	}
}

// notifyPartnerLeft is called with h.mu held
func (h *Hub) notifyPartnerLeft(sessionCode string, role model.PartnerRole) {
	payload, _ := json.Marshal(map[string]string{"role": string(role)})
	data, _ := json.Marshal(&Message{Type: MsgPartnerLeft, Payload: payload})
	if partners, ok := h.conns[sessionCode]; ok {
		for _, conn := range partners {
			select {
			case conn.Send <- data:
			default:
			}
		}
	}
}
