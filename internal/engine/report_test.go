package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"accord/internal/model"
)

func sortTemplate() *model.Template {
	return &model.Template{
		ID:      "tpl_sort",
		Version: 1,
		Modules: []model.Module{
			{
				ID: "mod_a",
				Questions: []model.Question{
					{ID: "q1", Schema: model.SchemaConsentRating, Risk: model.RiskTierA, Label: "Q1"},
					{ID: "q2", Schema: model.SchemaConsentRating, Risk: model.RiskTierC, Label: "Q2"},
					{ID: "q3", Schema: model.SchemaConsentRating, Risk: model.RiskTierA, Label: "Q3"},
				},
			},
			{
				ID: "mod_b",
				Questions: []model.Question{
					{ID: "q4", Schema: model.SchemaConsentRating, Risk: model.RiskTierA, Label: "Q4"},
					{ID: "q5", Schema: model.SchemaConsentRating, Risk: model.RiskTierA, Label: "Q5"},
				},
			},
		},
	}
}

func rated(status string, interest, comfort int) map[string]any {
	return map[string]any{"status": status, "interest": interest, "comfort": comfort}
}

func TestReportOrdering(t *testing.T) {
	tpl := sortTemplate()
	a := model.ResponseSet{
		"q1": rated("YES", 3, 3),        // MATCH
		"q2": rated("MAYBE", 2, 3),      // EXPLORE, tier C
		"q3": rated("HARD_LIMIT", 0, 0), // BOUNDARY
		"q4": rated("MAYBE", 1, 3),      // EXPLORE, tier A
	}
	b := model.ResponseSet{
		"q1": rated("YES", 4, 4),
		"q2": rated("MAYBE", 2, 3),
		"q3": rated("YES", 5, 5),
		"q4": rated("NO", 0, 3),
	}

	report := Compare(tpl, a, b, nil)
	require.Len(t, report.Items, 4)

	got := []string{}
	for _, item := range report.Items {
		got = append(got, item.QuestionID)
	}
	// BOUNDARY first, then EXPLORE with tier C ahead of tier A, MATCH last.
	assert.Equal(t, []string{"q3", "q2", "q4", "q1"}, got)
	assert.Equal(t, model.MatchBoundary, report.Items[0].Level)
	assert.Equal(t, model.MatchFull, report.Items[3].Level)
}

func TestReportOrderingIsDeterministic(t *testing.T) {
	tpl := sortTemplate()
	a := model.ResponseSet{
		"q1": rated("MAYBE", 2, 3),
		"q3": rated("MAYBE", 2, 3),
		"q4": rated("MAYBE", 2, 3),
		"q5": rated("MAYBE", 2, 3),
	}
	b := model.ResponseSet{
		"q1": rated("MAYBE", 2, 3),
		"q3": rated("MAYBE", 2, 3),
		"q4": rated("MAYBE", 2, 3),
		"q5": rated("MAYBE", 2, 3),
	}

	for i := 0; i < 5; i++ {
		report := Compare(tpl, a, b, nil)
		got := []string{}
		for _, item := range report.Items {
			got = append(got, item.QuestionID)
		}
		// Equal level and tier: module id breaks the tie, then question id.
		assert.Equal(t, []string{"q1", "q3", "q4", "q5"}, got)
	}
}

func TestActionPlanComfortFloor(t *testing.T) {
	tpl := sortTemplate()
	a := model.ResponseSet{
		"q1": rated("YES", 5, 2), // max interest, low comfort: never suggested
		"q4": rated("YES", 3, 3),
	}
	b := model.ResponseSet{
		"q1": rated("YES", 5, 5),
		"q4": rated("YES", 3, 4),
	}

	report := Compare(tpl, a, b, nil)
	assert.Equal(t, []string{"Q4"}, report.ActionPlan)
}

func TestActionPlanDiversityAndFill(t *testing.T) {
	tpl := sortTemplate()
	a := model.ResponseSet{
		"q1": rated("YES", 5, 4), // mod_a, score 5
		"q3": rated("YES", 4, 4), // mod_a, score 4
		"q4": rated("YES", 3, 4), // mod_b, score 3
		"q5": rated("YES", 2, 4), // mod_b, score 2
	}
	b := model.ResponseSet{
		"q1": rated("YES", 5, 4),
		"q3": rated("YES", 4, 4),
		"q4": rated("YES", 3, 4),
		"q5": rated("YES", 2, 4),
	}

	report := Compare(tpl, a, b, nil)
	require.Len(t, report.ActionPlan, 3)
	// Diversity pass takes the top item of each module (Q1, Q4), then the
	// fill pass tops up by score (Q3). Chosen order is preserved.
	assert.Equal(t, []string{"Q1", "Q4", "Q3"}, report.ActionPlan)
}

func TestActionPlanCapsAtThree(t *testing.T) {
	tpl := sortTemplate()
	a := model.ResponseSet{}
	b := model.ResponseSet{}
	for _, id := range []string{"q1", "q3", "q4", "q5"} {
		a[id] = rated("YES", 4, 4)
		b[id] = rated("YES", 4, 4)
	}

	report := Compare(tpl, a, b, nil)
	assert.Len(t, report.ActionPlan, 3)
}

func TestActionPlanIgnoresNonRatedMatches(t *testing.T) {
	tpl := &model.Template{
		ID:      "tpl_mixed",
		Version: 1,
		Modules: []model.Module{{
			ID: "m",
			Questions: []model.Question{
				{ID: "qc", Schema: model.SchemaChoice, Label: "Color", Options: []string{"red"}},
			},
		}},
	}
	a := model.ResponseSet{"qc": map[string]any{"choice": "red"}}
	b := model.ResponseSet{"qc": map[string]any{"choice": "red"}}

	report := Compare(tpl, a, b, nil)
	require.Len(t, report.Items, 1)
	assert.Equal(t, model.MatchFull, report.Items[0].Level)
	assert.Empty(t, report.ActionPlan, "matches without comfort ratings carry no comfort floor evidence")
}

func TestEmptyResponsesProduceEmptyReport(t *testing.T) {
	report := Compare(sortTemplate(), model.ResponseSet{}, model.ResponseSet{}, nil)
	assert.Empty(t, report.Items)
	assert.Empty(t, report.ActionPlan)
}
