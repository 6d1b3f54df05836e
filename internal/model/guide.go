package model

// GuidePrompt is one suggested conversation starter tied to a report row
type GuidePrompt struct {
	QuestionID string `json:"questionId"`
	Topic      string `json:"topic"`
	Prompt     string `json:"prompt"`
}

// DiscussionGuide is the AI-generated companion text for a comparison report
type DiscussionGuide struct {
	SessionCode string        `json:"sessionCode"`
	Opening     string        `json:"opening"`
	Prompts     []GuidePrompt `json:"prompts"`
}
