package model

// IssueSeverity separates save-blocking errors from advisories
type IssueSeverity string

const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
)

// ValidationIssue is one rule breach tied to a question and optional sub-field
type ValidationIssue struct {
	QuestionID string        `json:"questionId" bson:"questionId"`
	Field      string        `json:"field,omitempty" bson:"field,omitempty"`
	Message    string        `json:"message" bson:"message"`
	Severity   IssueSeverity `json:"severity" bson:"severity"`
}

// ValidationReport holds one respondent's rule check results. Errors block
// persistence upstream; warnings never do.
type ValidationReport struct {
	Errors   []ValidationIssue `json:"errors"`
	Warnings []ValidationIssue `json:"warnings"`
}
