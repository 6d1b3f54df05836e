package model

import "time"

// SessionStatus is the lifecycle state of a pair session
type SessionStatus string

const (
	SessionWaiting  SessionStatus = "waiting"  // fewer than two partners joined
	SessionActive   SessionStatus = "active"   // both partners answering
	SessionComplete SessionStatus = "complete" // both submitted, report available
)

// Session pairs two partners over one template
type Session struct {
	Code       string        `json:"code" bson:"code"`
	TemplateID string        `json:"templateId" bson:"templateId"`
	OwnerID    string        `json:"ownerId" bson:"ownerId"`
	Status     SessionStatus `json:"status" bson:"status"`
	PartnerA   string        `json:"partnerA,omitempty" bson:"partnerA,omitempty"`
	PartnerB   string        `json:"partnerB,omitempty" bson:"partnerB,omitempty"`
	CreatedAt  time.Time     `json:"createdAt" bson:"createdAt"`
}

// SessionMeta is the Redis-cached slice of session state the hot paths need
type SessionMeta struct {
	TemplateID string        `json:"templateId"`
	Status     SessionStatus `json:"status"`
	PartnerA   string        `json:"partnerA,omitempty"`
	PartnerB   string        `json:"partnerB,omitempty"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// RoleTaken reports whether the given role already has a partner
func (s *Session) RoleTaken(role PartnerRole) bool {
	if role == RoleA {
		return s.PartnerA != ""
	}
	return s.PartnerB != ""
}

// PartnerJoinResponse is returned when a partner joins a session
type PartnerJoinResponse struct {
	PartnerID string       `json:"partnerId"`
	Role      PartnerRole  `json:"role"`
	Token     string       `json:"token"`
	Meta      *SessionMeta `json:"meta"`
}
