package model

// QuestionSchema defines the answer shape a question expects
type QuestionSchema string

const (
	SchemaConsentRating QuestionSchema = "consent_rating" // status + interest/comfort rating, richest schema
	SchemaScale         QuestionSchema = "scale"          // single bounded integer
	SchemaChoice        QuestionSchema = "choice"         // one option from a list
	SchemaMultiChoice   QuestionSchema = "multi_choice"   // several options from a list
	SchemaText          QuestionSchema = "text"           // free text, never auto-classified
	SchemaScenario      QuestionSchema = "scenario"       // scenario pick with embedded rating
)

// RiskTier is the sensitivity classification of a question, A (low) to C (high)
type RiskTier string

const (
	RiskTierA RiskTier = "A"
	RiskTierB RiskTier = "B"
	RiskTierC RiskTier = "C"
)

// Question is one canonical template question. ID and Schema are always set
// after normalization.
type Question struct {
	ID      string         `json:"id" bson:"id"`
	Schema  QuestionSchema `json:"schema" bson:"schema"`
	Risk    RiskTier       `json:"riskLevel" bson:"riskLevel"`
	Label   string         `json:"label" bson:"label"`
	Help    string         `json:"help,omitempty" bson:"help,omitempty"`
	Tags    []string       `json:"tags,omitempty" bson:"tags,omitempty"`
	Options []string       `json:"options,omitempty" bson:"options,omitempty"`
	// Declared bounds for scale questions; nil means undeclared
	Min *int `json:"min,omitempty" bson:"min,omitempty"`
	Max *int `json:"max,omitempty" bson:"max,omitempty"`
}

// Module is a named, ordered group of questions
type Module struct {
	ID          string     `json:"id" bson:"id"`
	Name        string     `json:"name" bson:"name"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
	Questions   []Question `json:"questions" bson:"questions"`
}

// Template is the canonical, normalized questionnaire. Built once, immutable
// afterwards; callers may cache and share it freely.
type Template struct {
	ID      string   `json:"id" bson:"id"`
	Name    string   `json:"name" bson:"name"`
	Version int      `json:"version" bson:"version"`
	Modules []Module `json:"modules" bson:"modules"`
}

// FindQuestion returns the question and its owning module id, or nil when the
// id is unknown. First match wins.
func (t *Template) FindQuestion(id string) (*Question, string) {
	for mi := range t.Modules {
		m := &t.Modules[mi]
		for qi := range m.Questions {
			if m.Questions[qi].ID == id {
				return &m.Questions[qi], m.ID
			}
		}
	}
	return nil, ""
}

// QuestionIDs returns all question ids in template order
func (t *Template) QuestionIDs() []string {
	ids := []string{}
	for _, m := range t.Modules {
		for _, q := range m.Questions {
			ids = append(ids, q.ID)
		}
	}
	return ids
}

// RawTemplate is a stored, pre-normalization template payload
type RawTemplate struct {
	ID      string         `json:"id" bson:"_id,omitempty"`
	OwnerID string         `json:"ownerId" bson:"ownerId"`
	Payload map[string]any `json:"payload" bson:"payload"`
}
