package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"accord/internal/model"
)

func validateTemplate() *model.Template {
	return &model.Template{
		ID:      "tpl_v",
		Version: 1,
		Modules: []model.Module{{
			ID: "m1",
			Questions: []model.Question{
				{ID: "q_rating", Schema: model.SchemaConsentRating, Risk: model.RiskTierA, Label: "Rating"},
				{ID: "q_rating_high", Schema: model.SchemaConsentRating, Risk: model.RiskTierC, Label: "High risk"},
				{ID: "q_scale", Schema: model.SchemaScale, Risk: model.RiskTierA, Label: "Scale", Min: intp(0), Max: intp(10)},
				{ID: "q_scale_open", Schema: model.SchemaScale, Risk: model.RiskTierA, Label: "Unbounded"},
				{ID: "q_text", Schema: model.SchemaText, Risk: model.RiskTierA, Label: "Text"},
			},
		}},
	}
}

func TestValidateUnknownQuestionIsWarning(t *testing.T) {
	tpl := validateTemplate()
	report := Validate(tpl, model.ResponseSet{"q_old": map[string]any{"status": "YES"}})
	assert.Empty(t, report.Errors)
	require.Len(t, report.Warnings, 1)
	assert.Equal(t, "q_old", report.Warnings[0].QuestionID)
}

func TestValidateScaleBounds(t *testing.T) {
	tpl := validateTemplate()

	report := Validate(tpl, model.ResponseSet{"q_scale": map[string]any{"value": 11}})
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "q_scale", report.Errors[0].QuestionID)
	assert.Equal(t, "value", report.Errors[0].Field)

	report = Validate(tpl, model.ResponseSet{"q_scale": map[string]any{"value": 10}})
	assert.Empty(t, report.Errors)

	// Undeclared bounds are never checked.
	report = Validate(tpl, model.ResponseSet{"q_scale_open": map[string]any{"value": 99}})
	assert.Empty(t, report.Errors)
}

func TestValidateMaybeRequiresConditions(t *testing.T) {
	tpl := validateTemplate()

	rs := model.ResponseSet{"q_rating": map[string]any{"status": "MAYBE", "interest": 2, "comfort": 2}}
	report := Validate(tpl, rs)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "conditions", report.Errors[0].Field)
	assert.False(t, IsValid(tpl, rs))

	rs = model.ResponseSet{"q_rating": map[string]any{"status": "MAYBE", "interest": 2, "comfort": 2, "conditions": "only if we talk first"}}
	report = Validate(tpl, rs)
	assert.Empty(t, report.Errors)
	assert.True(t, IsValid(tpl, rs))
}

func TestValidateSplitVariantSides(t *testing.T) {
	tpl := validateTemplate()

	rs := model.ResponseSet{"q_rating": map[string]any{
		"dom_status": "MAYBE",
		"sub_status": "MAYBE", "sub_conditions": "gently",
	}}
	report := Validate(tpl, rs)
	require.Len(t, report.Errors, 1, "only the unconditioned side errors")
	assert.Equal(t, "dom_conditions", report.Errors[0].Field)
}

func TestValidateRatingBounds(t *testing.T) {
	tpl := validateTemplate()
	rs := model.ResponseSet{"q_rating": map[string]any{"status": "YES", "interest": 7, "comfort": -1}}
	report := Validate(tpl, rs)
	require.Len(t, report.Errors, 2)
	fields := []string{report.Errors[0].Field, report.Errors[1].Field}
	assert.Contains(t, fields, "interest")
	assert.Contains(t, fields, "comfort")
}

func TestValidateTensionWarning(t *testing.T) {
	tpl := validateTemplate()
	report := Validate(tpl, model.ResponseSet{"q_rating": map[string]any{"status": "YES", "interest": 4, "comfort": 1}})
	assert.Empty(t, report.Errors)
	require.Len(t, report.Warnings, 1)
	assert.Equal(t, model.SeverityWarning, report.Warnings[0].Severity)
}

func TestValidateHighRiskYesWithoutConditions(t *testing.T) {
	tpl := validateTemplate()

	report := Validate(tpl, model.ResponseSet{"q_rating_high": map[string]any{"status": "YES", "interest": 3, "comfort": 4}})
	assert.Empty(t, report.Errors, "guidance, not a block")
	require.Len(t, report.Warnings, 1)
	assert.Equal(t, "conditions", report.Warnings[0].Field)

	// Split variants are exempt from this particular rule.
	report = Validate(tpl, model.ResponseSet{"q_rating_high": map[string]any{"dom_status": "YES", "dom_interest": 3, "dom_comfort": 4}})
	assert.Empty(t, report.Warnings)
}

func TestValidateTextHasNoRules(t *testing.T) {
	tpl := validateTemplate()
	report := Validate(tpl, model.ResponseSet{"q_text": map[string]any{"text": "anything at all"}})
	assert.Empty(t, report.Errors)
	assert.Empty(t, report.Warnings)
}

func TestIsValidIgnoresWarnings(t *testing.T) {
	tpl := validateTemplate()
	rs := model.ResponseSet{
		"q_old":    map[string]any{"status": "YES"},
		"q_rating": map[string]any{"status": "YES", "interest": 4, "comfort": 1},
	}
	report := Validate(tpl, rs)
	assert.Empty(t, report.Errors)
	assert.NotEmpty(t, report.Warnings)
	assert.True(t, IsValid(tpl, rs))
}
