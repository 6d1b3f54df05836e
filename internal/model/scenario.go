package model

// Scenario is one entry of a scenario catalog referenced by scenario questions
type Scenario struct {
	ID          string   `json:"id" bson:"_id,omitempty"`
	Label       string   `json:"label" bson:"label"`
	Description string   `json:"description,omitempty" bson:"description,omitempty"`
	Tags        []string `json:"tags,omitempty" bson:"tags,omitempty"`
}

// ScenarioCatalog indexes scenarios by id. The caller owns and may cache it;
// the engine only reads it for label resolution. A nil catalog is valid.
type ScenarioCatalog map[string]Scenario
