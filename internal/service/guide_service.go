package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"accord/internal/config"
	"accord/internal/model"
)

// GuideService turns a comparison report into a short discussion guide via
// the Gemini API. The engine never depends on this; it is presentation only.
type GuideService struct {
	config *config.AIConfig
	client *http.Client
}

// NewGuideService creates a new guide service
func NewGuideService() *GuideService {
	cfg := config.DefaultAIConfig()
	return &GuideService{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
	}
}

// GenerateGuide builds discussion prompts for the report's open and boundary
// items. Falls back to a canned guide when the API is unavailable.
func (s *GuideService) GenerateGuide(ctx context.Context, stored *model.StoredReport, catalog model.ScenarioCatalog) (*model.DiscussionGuide, error) {
	if !s.config.IsEnabled() {
		return s.mockGuide(stored), nil
	}

	prompt := s.buildGuidePrompt(stored, catalog)
	response, err := s.callGemini(ctx, s.config.Models.Guide, prompt)
	if err != nil {
		// Fallback to mock on error
		return s.mockGuide(stored), nil
	}

	var guide model.DiscussionGuide
	if err := json.Unmarshal([]byte(response), &guide); err != nil {
		return s.mockGuide(stored), nil
	}
	guide.SessionCode = stored.SessionCode
	return &guide, nil
}

// callGemini makes a request to the Gemini API
func (s *GuideService) callGemini(ctx context.Context, modelName, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s?key=%s", s.config.ModelEndpoint(modelName), s.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	// Parse Gemini response structure
	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", err
	}

	if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
		return geminiResp.Candidates[0].Content.Parts[0].Text, nil
	}

	return "", fmt.Errorf("empty response from Gemini")
}

func (s *GuideService) buildGuidePrompt(stored *model.StoredReport, catalog model.ScenarioCatalog) string {
	var sb strings.Builder
	for _, item := range stored.Report.Items {
		if item.Level == model.MatchFull {
			continue
		}
		label := item.Label
		if item.Schema == model.SchemaScenario {
			if raw := item.RawA; raw != nil {
				if m, ok := raw.(map[string]any); ok {
					if id, ok := m["scenario_id"].(string); ok {
						if scenario, found := catalog[id]; found {
							label = label + " (" + scenario.Label + ")"
						}
					}
				}
			}
		}
		sb.WriteString(fmt.Sprintf("- [%s] %s: %s (flags: %s)\n",
			item.Level, item.QuestionID, label, strings.Join(item.Flags, ", ")))
	}

	return fmt.Sprintf(`You are helping two partners talk through a preference questionnaire they filled out separately. Return ONLY valid JSON matching this schema:
{
  "opening": "two sentences setting a respectful tone",
  "prompts": [{"questionId": "q1", "topic": "short topic", "prompt": "a neutral, non-judgmental conversation starter"}]
}

Items needing discussion (BOUNDARY items are non-negotiable limits; never suggest persuading anyone past one):
%s

Write at most one prompt per item. Keep prompts short, warm, and free of pressure.`, sb.String())
}

// mockGuide is the fallback when Gemini is unavailable
func (s *GuideService) mockGuide(stored *model.StoredReport) *model.DiscussionGuide {
	guide := &model.DiscussionGuide{
		SessionCode: stored.SessionCode,
		Opening:     "You both took the time to answer honestly. Go through the open items one at a time, and treat every stated limit as final.",
	}
	for _, item := range stored.Report.Items {
		if item.Level == model.MatchFull {
			continue
		}
		prompt := "What would make this feel comfortable for each of you?"
		if item.Level == model.MatchBoundary {
			prompt = "One of you marked a limit here. Acknowledge it together; it is not up for negotiation."
		}
		guide.Prompts = append(guide.Prompts, model.GuidePrompt{
			QuestionID: item.QuestionID,
			Topic:      item.Label,
			Prompt:     prompt,
		})
	}
	return guide
}
