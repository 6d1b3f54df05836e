package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"accord/internal/model"
)

func TestNormalizeDefaults(t *testing.T) {
	raw := map[string]any{
		"modules": []any{
			map[string]any{
				"questions": []any{
					map[string]any{"question_id": "q1"},
				},
			},
		},
	}

	tpl, err := Normalize(raw)
	require.NoError(t, err)
	assert.Equal(t, "", tpl.ID)
	assert.Equal(t, "", tpl.Name)
	assert.Equal(t, 1, tpl.Version)
	require.Len(t, tpl.Modules, 1)
	assert.Equal(t, "module_1", tpl.Modules[0].ID)
	assert.Equal(t, "module_1", tpl.Modules[0].Name)

	q := tpl.Modules[0].Questions[0]
	assert.Equal(t, "q1", q.ID)
	assert.Equal(t, model.SchemaConsentRating, q.Schema, "consent rating is the default schema")
	assert.Equal(t, model.RiskTierA, q.Risk)
	assert.Equal(t, "q1", q.Label)
}

func TestNormalizeVersionCoercion(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want int
	}{
		{"number", float64(3), 3},
		{"numeric string", "2", 2},
		{"garbage", "latest", 1},
		{"missing", nil, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := map[string]any{"modules": []any{}}
			if tc.in != nil {
				raw["version"] = tc.in
			}
			tpl, err := Normalize(raw)
			require.NoError(t, err)
			assert.Equal(t, tc.want, tpl.Version)
		})
	}
}

func TestNormalizeSchemaInferenceOrder(t *testing.T) {
	cases := []struct {
		name string
		q    map[string]any
		want model.QuestionSchema
	}{
		{"options wins", map[string]any{"id": "q", "options": []any{"a"}, "values": []any{"x"}, "text": ""}, model.SchemaChoice},
		{"values next", map[string]any{"id": "q", "options": []any{}, "values": []any{"x"}, "text": ""}, model.SchemaMultiChoice},
		{"text next", map[string]any{"id": "q", "text": ""}, model.SchemaText},
		{"default last", map[string]any{"id": "q"}, model.SchemaConsentRating},
		{"declared beats inference", map[string]any{"id": "q", "schema": "scale", "options": []any{"a"}}, model.SchemaScale},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tpl, err := Normalize(map[string]any{
				"modules": []any{map[string]any{"id": "m", "questions": []any{tc.q}}},
			})
			require.NoError(t, err)
			assert.Equal(t, tc.want, tpl.Modules[0].Questions[0].Schema)
		})
	}
}

func TestNormalizeTagCoercion(t *testing.T) {
	tpl, err := Normalize(map[string]any{
		"modules": []any{map[string]any{"id": "m", "questions": []any{
			map[string]any{"id": "q1", "tags": "solo"},
			map[string]any{"id": "q2", "tags": []any{"a", nil, float64(3), "b"}},
		}}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"solo"}, tpl.Modules[0].Questions[0].Tags)
	assert.Equal(t, []string{"a", "3", "b"}, tpl.Modules[0].Questions[1].Tags)
}

func TestNormalizeFlatQuestionList(t *testing.T) {
	tpl, err := Normalize(map[string]any{
		"name": "flat",
		"questions": []any{
			map[string]any{"key": "q1", "schema": "text"},
		},
	})
	require.NoError(t, err)
	require.Len(t, tpl.Modules, 1)
	assert.Equal(t, "module_1", tpl.Modules[0].ID)
	assert.Equal(t, fallbackModuleName, tpl.Modules[0].Name)
	assert.Equal(t, "q1", tpl.Modules[0].Questions[0].ID)
}

func TestNormalizeStructuralErrors(t *testing.T) {
	cases := []struct {
		name string
		raw  any
	}{
		{"not a record", "nope"},
		{"modules not a list", map[string]any{"modules": "x"}},
		{"questions not a list", map[string]any{"modules": []any{map[string]any{"id": "m", "questions": "x"}}}},
		{"question without id", map[string]any{"modules": []any{map[string]any{"id": "m", "questions": []any{map[string]any{"label": "no id"}}}}}},
		{"unresolvable schema", map[string]any{"modules": []any{map[string]any{"id": "m", "questions": []any{map[string]any{"id": "q", "schema": "hologram"}}}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Normalize(tc.raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedTemplate)
		})
	}
}

func TestNormalizeScaleBounds(t *testing.T) {
	tpl, err := Normalize(map[string]any{
		"modules": []any{map[string]any{"id": "m", "questions": []any{
			map[string]any{"id": "q1", "schema": "scale", "min": float64(0), "max": float64(10)},
			map[string]any{"id": "q2", "schema": "scale", "scale_min": float64(1), "scale_max": float64(5)},
			map[string]any{"id": "q3", "schema": "scale"},
		}}},
	})
	require.NoError(t, err)
	qs := tpl.Modules[0].Questions
	require.NotNil(t, qs[0].Min)
	assert.Equal(t, 0, *qs[0].Min)
	assert.Equal(t, 10, *qs[0].Max)
	assert.Equal(t, 1, *qs[1].Min)
	assert.Equal(t, 5, *qs[1].Max)
	assert.Nil(t, qs[2].Min)
	assert.Nil(t, qs[2].Max)
}

func TestNormalizeNeverMutatesInput(t *testing.T) {
	raw := map[string]any{
		"name": "orig",
		"modules": []any{map[string]any{"questions": []any{
			map[string]any{"id": "q1", "tags": "solo"},
		}}},
	}
	before, err := json.Marshal(raw)
	require.NoError(t, err)

	_, err = Normalize(raw)
	require.NoError(t, err)

	after, err := json.Marshal(raw)
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
}

func TestNormalizeCanonicalRoundTrip(t *testing.T) {
	tpl, err := Normalize(map[string]any{
		"id":      "tpl_rt",
		"name":    "Round trip",
		"version": float64(2),
		"modules": []any{map[string]any{
			"id":   "m1",
			"name": "Module one",
			"questions": []any{
				map[string]any{"id": "q1", "schema": "consent_rating", "risk_level": "C", "label": "Q1", "tags": []any{"t"}},
				map[string]any{"id": "q2", "schema": "scale", "min": float64(0), "max": float64(10), "label": "Q2"},
			},
		}},
	})
	require.NoError(t, err)

	// Serialize the canonical template and normalize it again: a no-op.
	data, err := json.Marshal(tpl)
	require.NoError(t, err)
	var loose map[string]any
	require.NoError(t, json.Unmarshal(data, &loose))

	again, err := Normalize(loose)
	require.NoError(t, err)
	assert.Equal(t, tpl, again)
}
