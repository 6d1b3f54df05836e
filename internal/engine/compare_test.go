package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"accord/internal/model"
)

func pairTemplate() *model.Template {
	return &model.Template{
		ID:      "tpl_1",
		Name:    "Preferences",
		Version: 1,
		Modules: []model.Module{
			{
				ID:   "basics",
				Name: "Basics",
				Questions: []model.Question{
					{ID: "q_rating", Schema: model.SchemaConsentRating, Risk: model.RiskTierB, Label: "Rating question"},
					{ID: "q_rating_high", Schema: model.SchemaConsentRating, Risk: model.RiskTierC, Label: "High risk rating"},
					{ID: "q_scale", Schema: model.SchemaScale, Risk: model.RiskTierA, Label: "Scale question", Min: intp(0), Max: intp(10)},
					{ID: "q_choice", Schema: model.SchemaChoice, Risk: model.RiskTierA, Label: "Choice question", Options: []string{"red", "green", "blue"}},
					{ID: "q_multi", Schema: model.SchemaMultiChoice, Risk: model.RiskTierA, Label: "Multi question", Options: []string{"a", "b", "c"}},
					{ID: "q_text", Schema: model.SchemaText, Risk: model.RiskTierA, Label: "Text question"},
					{ID: "q_scenario", Schema: model.SchemaScenario, Risk: model.RiskTierB, Label: "Scenario question"},
				},
			},
		},
	}
}

func intp(n int) *int { return &n }

// compareOne runs a full compare and returns the single result row for id
func compareOne(t *testing.T, tpl *model.Template, id string, a, b any) model.ComparisonResult {
	t.Helper()
	report := Compare(tpl, model.ResponseSet{id: a}, model.ResponseSet{id: b}, nil)
	require.Len(t, report.Items, 1)
	return report.Items[0]
}

func TestStatusPair(t *testing.T) {
	cases := []struct {
		name string
		a, b model.ConsentStatus
		want model.MatchLevel
	}{
		{"hard limit left", model.StatusHardLimit, model.StatusYes, model.MatchBoundary},
		{"hard limit right", model.StatusMaybe, model.StatusHardLimit, model.MatchBoundary},
		{"both hard limit", model.StatusHardLimit, model.StatusHardLimit, model.MatchBoundary},
		{"yes vs no", model.StatusYes, model.StatusNo, model.MatchBoundary},
		{"no vs yes", model.StatusNo, model.StatusYes, model.MatchBoundary},
		{"both yes", model.StatusYes, model.StatusYes, model.MatchFull},
		{"yes vs maybe", model.StatusYes, model.StatusMaybe, model.MatchExplore},
		{"both maybe", model.StatusMaybe, model.StatusMaybe, model.MatchExplore},
		{"both no", model.StatusNo, model.StatusNo, model.MatchExplore},
		{"missing both", "", "", model.MatchExplore},
		{"missing one", model.StatusYes, "", model.MatchExplore},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, statusPair(tc.a, tc.b))
		})
	}
}

func TestHardLimitDominates(t *testing.T) {
	tpl := pairTemplate()
	res := compareOne(t, tpl, "q_rating",
		map[string]any{"status": "HARD_LIMIT"},
		map[string]any{"status": "YES", "interest": 5, "comfort": 5},
	)
	assert.Equal(t, model.MatchBoundary, res.Level)
	assert.True(t, res.HasFlag(model.FlagHardLimit))
}

func TestConsentRatingMatch(t *testing.T) {
	tpl := pairTemplate()
	res := compareOne(t, tpl, "q_rating",
		map[string]any{"status": "YES", "interest": 3, "comfort": 3},
		map[string]any{"status": "YES", "interest": 4, "comfort": 3},
	)
	assert.Equal(t, model.MatchFull, res.Level)
	require.NotNil(t, res.InterestDelta)
	assert.Equal(t, 1, *res.InterestDelta)
	require.NotNil(t, res.ComfortDelta)
	assert.Equal(t, 0, *res.ComfortDelta)
	assert.False(t, res.HasFlag(model.FlagBigDelta))
}

func TestConsentRatingBoundary(t *testing.T) {
	tpl := pairTemplate()
	res := compareOne(t, tpl, "q_rating",
		map[string]any{"status": "YES"},
		map[string]any{"status": "NO"},
	)
	assert.Equal(t, model.MatchBoundary, res.Level)
	assert.False(t, res.HasFlag(model.FlagHardLimit))
}

func TestConsentRatingFlags(t *testing.T) {
	tpl := pairTemplate()

	res := compareOne(t, tpl, "q_rating",
		map[string]any{"status": "MAYBE", "interest": 4, "comfort": 1},
		map[string]any{"status": "YES", "interest": 1, "comfort": 4},
	)
	assert.Equal(t, model.MatchExplore, res.Level)
	assert.True(t, res.HasFlag(model.FlagLowComfortHighInterest))
	assert.True(t, res.HasFlag(model.FlagBigDelta), "interest delta 3 >= 2")

	res = compareOne(t, tpl, "q_rating_high",
		map[string]any{"status": "YES", "interest": 3, "comfort": 3},
		map[string]any{"status": "YES", "interest": 3, "comfort": 3},
	)
	assert.True(t, res.HasFlag(model.FlagHighRisk))
}

func TestConsentRatingVariants(t *testing.T) {
	tpl := pairTemplate()

	// dom/sub split: primary side is the populated one, dominant preferred.
	res := compareOne(t, tpl, "q_rating",
		map[string]any{"dom_status": "YES", "dom_interest": 4, "dom_comfort": 4},
		map[string]any{"sub_status": "YES", "sub_interest": 3, "sub_comfort": 5},
	)
	assert.Equal(t, model.MatchFull, res.Level)
	assert.Equal(t, model.StatusYes, res.StatusA)
	assert.Equal(t, model.StatusYes, res.StatusB)

	// active/passive split with a hard limit on the passive side.
	res = compareOne(t, tpl, "q_rating",
		map[string]any{"active_status": "YES", "active_interest": 5, "active_comfort": 5},
		map[string]any{"passive_status": "HARD_LIMIT"},
	)
	assert.Equal(t, model.MatchBoundary, res.Level)
	assert.True(t, res.HasFlag(model.FlagHardLimit))
}

func TestConsentRatingMalformedValueIsUnanswered(t *testing.T) {
	tpl := pairTemplate()
	res := compareOne(t, tpl, "q_rating",
		"not a record",
		map[string]any{"status": "YES"},
	)
	assert.Equal(t, model.MatchExplore, res.Level)
	assert.Empty(t, res.StatusA)
}

func TestScale(t *testing.T) {
	tpl := pairTemplate()

	res := compareOne(t, tpl, "q_scale", map[string]any{"value": 7}, map[string]any{"value": 8})
	assert.Equal(t, model.MatchFull, res.Level)
	require.NotNil(t, res.ValueDelta)
	assert.Equal(t, 1, *res.ValueDelta)

	res = compareOne(t, tpl, "q_scale", map[string]any{"value": 2}, map[string]any{"value": 8})
	assert.Equal(t, model.MatchExplore, res.Level)
	assert.True(t, res.HasFlag(model.FlagBigDelta))

	// Delta of exactly 2 still matches; a missing side never does.
	res = compareOne(t, tpl, "q_scale", map[string]any{"value": 4}, map[string]any{"value": 6})
	assert.Equal(t, model.MatchFull, res.Level)

	res = compareOne(t, tpl, "q_scale", map[string]any{"value": 4}, nil)
	assert.Equal(t, model.MatchExplore, res.Level)
	assert.Nil(t, res.ValueDelta)

	// Bare numbers are accepted too.
	res = compareOne(t, tpl, "q_scale", 7, 8)
	assert.Equal(t, model.MatchFull, res.Level)
}

func TestChoice(t *testing.T) {
	tpl := pairTemplate()

	res := compareOne(t, tpl, "q_choice", map[string]any{"choice": "red"}, map[string]any{"choice": "red"})
	assert.Equal(t, model.MatchFull, res.Level)

	res = compareOne(t, tpl, "q_choice", map[string]any{"choice": "red"}, map[string]any{"choice": "blue"})
	assert.Equal(t, model.MatchExplore, res.Level)

	res = compareOne(t, tpl, "q_choice", map[string]any{"choice": ""}, map[string]any{"choice": ""})
	assert.Equal(t, model.MatchExplore, res.Level, "both empty is not a match")
}

func TestMultiChoice(t *testing.T) {
	tpl := pairTemplate()

	res := compareOne(t, tpl, "q_multi",
		map[string]any{"values": []any{"a", "b"}},
		map[string]any{"values": []any{"b", "c"}},
	)
	assert.Equal(t, model.MatchFull, res.Level)

	res = compareOne(t, tpl, "q_multi",
		map[string]any{"values": []any{"a"}},
		map[string]any{"values": []any{"c"}},
	)
	assert.Equal(t, model.MatchExplore, res.Level)

	res = compareOne(t, tpl, "q_multi",
		map[string]any{"values": []any{}},
		map[string]any{"values": []any{}},
	)
	assert.Equal(t, model.MatchExplore, res.Level)
}

func TestTextNeverClassifies(t *testing.T) {
	tpl := pairTemplate()
	res := compareOne(t, tpl, "q_text",
		map[string]any{"text": "same words"},
		map[string]any{"text": "same words"},
	)
	assert.Equal(t, model.MatchExplore, res.Level)
}

func TestScenario(t *testing.T) {
	tpl := pairTemplate()

	// Same selection with rated payloads delegates to the consent path.
	res := compareOne(t, tpl, "q_scenario",
		map[string]any{"scenario_id": "s1", "rating": map[string]any{"status": "YES", "interest": 4, "comfort": 4}},
		map[string]any{"scenario_id": "s1", "rating": map[string]any{"status": "HARD_LIMIT"}},
	)
	assert.Equal(t, model.MatchBoundary, res.Level)
	assert.True(t, res.HasFlag(model.FlagHardLimit))

	// Same selection, no status anywhere: automatic match.
	res = compareOne(t, tpl, "q_scenario",
		map[string]any{"scenario_id": "s1"},
		map[string]any{"scenario_id": "s1"},
	)
	assert.Equal(t, model.MatchFull, res.Level)

	// Different selections always stay open.
	res = compareOne(t, tpl, "q_scenario",
		map[string]any{"scenario_id": "s1", "rating": map[string]any{"status": "YES"}},
		map[string]any{"scenario_id": "s2", "rating": map[string]any{"status": "YES"}},
	)
	assert.Equal(t, model.MatchExplore, res.Level)
}

func TestScenarioCatalogFiltersUnknownIDs(t *testing.T) {
	tpl := pairTemplate()
	catalog := model.ScenarioCatalog{"s1": {ID: "s1", Label: "Scenario one"}}

	a := model.ResponseSet{"q_scenario": map[string]any{"scenario_id": "ghost"}}
	b := model.ResponseSet{"q_scenario": map[string]any{"scenario_id": "ghost"}}
	report := Compare(tpl, a, b, catalog)
	require.Len(t, report.Items, 1)
	assert.Equal(t, model.MatchExplore, report.Items[0].Level, "ids missing from the catalog count as no selection")
}

func TestCompareSkipsUnknownQuestions(t *testing.T) {
	tpl := pairTemplate()
	a := model.ResponseSet{"q_ghost": map[string]any{"status": "YES"}}
	b := model.ResponseSet{"q_scale": map[string]any{"value": 3}}
	report := Compare(tpl, a, b, nil)
	require.Len(t, report.Items, 1)
	assert.Equal(t, "q_scale", report.Items[0].QuestionID)
}

func TestCompareIsIdempotentAndPure(t *testing.T) {
	tpl := pairTemplate()
	a := model.ResponseSet{
		"q_rating": map[string]any{"status": "YES", "interest": 4, "comfort": 4},
		"q_scale":  map[string]any{"value": 5},
	}
	b := model.ResponseSet{
		"q_rating": map[string]any{"status": "MAYBE", "interest": 2, "comfort": 3, "conditions": "slowly"},
		"q_scale":  map[string]any{"value": 6},
	}

	first := Compare(tpl, a, b, nil)
	second := Compare(tpl, a, b, nil)
	assert.Equal(t, first, second)

	// Inputs are borrowed, never mutated.
	assert.Equal(t, map[string]any{"value": 5}, a["q_scale"])
	assert.Equal(t, "slowly", asMap(b["q_rating"])["conditions"])
}
