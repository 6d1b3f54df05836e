package model

import "time"

// MatchLevel classifies one compared question
type MatchLevel string

const (
	MatchBoundary MatchLevel = "BOUNDARY" // hard limit or direct yes/no conflict
	MatchExplore  MatchLevel = "EXPLORE"  // worth talking about, no conflict
	MatchFull     MatchLevel = "MATCH"    // mutually agreeable
)

// Comparison flags. Machine-readable annotations on a result row.
const (
	FlagHardLimit              = "hard_limit_violation"
	FlagBigDelta               = "big_delta"
	FlagHighRisk               = "high_risk"
	FlagLowComfortHighInterest = "low_comfort_high_interest"
)

// ComparisonResult is one report row for a question answered by either partner
type ComparisonResult struct {
	QuestionID string         `json:"questionId" bson:"questionId"`
	Label      string         `json:"label" bson:"label"`
	Schema     QuestionSchema `json:"schema" bson:"schema"`
	Risk       RiskTier       `json:"riskLevel" bson:"riskLevel"`
	ModuleID   string         `json:"moduleId" bson:"moduleId"`

	Level MatchLevel `json:"pairStatus" bson:"pairStatus"`

	StatusA   ConsentStatus `json:"statusA,omitempty" bson:"statusA,omitempty"`
	StatusB   ConsentStatus `json:"statusB,omitempty" bson:"statusB,omitempty"`
	InterestA *int          `json:"interestA,omitempty" bson:"interestA,omitempty"`
	InterestB *int          `json:"interestB,omitempty" bson:"interestB,omitempty"`
	ComfortA  *int          `json:"comfortA,omitempty" bson:"comfortA,omitempty"`
	ComfortB  *int          `json:"comfortB,omitempty" bson:"comfortB,omitempty"`

	RawA any `json:"rawA,omitempty" bson:"rawA,omitempty"`
	RawB any `json:"rawB,omitempty" bson:"rawB,omitempty"`

	InterestDelta *int `json:"interestDelta,omitempty" bson:"interestDelta,omitempty"`
	ComfortDelta  *int `json:"comfortDelta,omitempty" bson:"comfortDelta,omitempty"`
	// ValueDelta is the absolute difference of two scale answers
	ValueDelta *int `json:"valueDelta,omitempty" bson:"valueDelta,omitempty"`

	Flags []string `json:"flags" bson:"flags"`
}

// HasFlag reports whether the result carries the given flag
func (r *ComparisonResult) HasFlag(flag string) bool {
	for _, f := range r.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// ComparisonReport is the full ordered comparison of two partners' answers
type ComparisonReport struct {
	Items      []ComparisonResult `json:"items" bson:"items"`
	ActionPlan []string           `json:"action_plan" bson:"actionPlan"`
}

// StoredReport is a persisted comparison report for a session
type StoredReport struct {
	ID          string           `json:"id" bson:"_id,omitempty"`
	SessionCode string           `json:"sessionCode" bson:"sessionCode"`
	TemplateID  string           `json:"templateId" bson:"templateId"`
	Report      ComparisonReport `json:"report" bson:"report"`
	CreatedAt   time.Time        `json:"createdAt" bson:"createdAt"`
}
