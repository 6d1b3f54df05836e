package model

import "time"

// ConsentStatus is the stance a respondent takes on a consent-rating question
type ConsentStatus string

const (
	StatusYes       ConsentStatus = "YES"
	StatusMaybe     ConsentStatus = "MAYBE"
	StatusNo        ConsentStatus = "NO"
	StatusHardLimit ConsentStatus = "HARD_LIMIT"
)

// ResponseSet maps question id to one raw response value. Values arrive as
// decoded JSON; the engine reads them tolerantly and treats anything that does
// not match the question's schema as unanswered. Absent keys mean unanswered.
//
// Expected value shapes by schema:
//
//	consent_rating: {"status","interest","comfort","conditions"} in one of three
//	                variants: plain keys, dom_/sub_ prefixed, active_/passive_ prefixed
//	scale:          {"value": int}
//	choice:         {"choice": string}
//	multi_choice:   {"values": [string]}
//	text:           {"text": string}
//	scenario:       {"scenario_id": string, "rating": consent-rating payload}
type ResponseSet map[string]any

// PartnerRole identifies one side of a pair session
type PartnerRole string

const (
	RoleA PartnerRole = "a"
	RoleB PartnerRole = "b"
)

// PartnerResponses is one partner's saved answer set for a session
type PartnerResponses struct {
	SessionCode string      `json:"sessionCode" bson:"sessionCode"`
	Role        PartnerRole `json:"role" bson:"role"`
	TemplateID  string      `json:"templateId" bson:"templateId"`
	Responses   ResponseSet `json:"responses" bson:"responses"`
	Submitted   bool        `json:"submitted" bson:"submitted"`
	UpdatedAt   time.Time   `json:"updatedAt" bson:"updatedAt"`
}
