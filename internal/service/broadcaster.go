package service

import "accord/internal/model"

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	BroadcastToPartner(sessionCode string, role model.PartnerRole, msgType string, payload interface{})
	BroadcastToSession(sessionCode string, msgType string, payload interface{})
	DisconnectSession(sessionCode string)
}
