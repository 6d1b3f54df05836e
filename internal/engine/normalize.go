package engine

import (
	"errors"
	"fmt"
	"strings"

	"accord/internal/model"
)

// ErrMalformedTemplate marks structural normalization failures. Callers must
// not compare or validate against a template that failed to normalize.
var ErrMalformedTemplate = errors.New("malformed template")

// fallbackModuleName labels the synthetic module wrapped around a flat
// question list
const fallbackModuleName = "Questions"

// Normalize converts a loosely-structured template payload into a canonical
// Template: it infers missing schemas, defaults identifiers and labels,
// coerces tag lists, and reports a structural error when the result would be
// unusable. The caller's payload is never altered; the canonical template is
// built fresh from it. Normalizing an already-canonical payload is a no-op.
func Normalize(raw any) (*model.Template, error) {
	root := asMap(raw)
	if root == nil {
		return nil, fmt.Errorf("%w: payload is not a structured record", ErrMalformedTemplate)
	}

	t := &model.Template{
		ID:      asString(root["id"]),
		Name:    asString(root["name"]),
		Version: 1,
	}
	if v, ok := coerceInt(root["version"]); ok {
		t.Version = v
	}

	rawModules, ok := asList(root["modules"])
	if !ok {
		// A flat question list is wrapped into one synthetic module.
		if qs, flat := asList(root["questions"]); flat {
			rawModules = []any{map[string]any{
				"id":        "module_1",
				"name":      fallbackModuleName,
				"questions": qs,
			}}
		} else {
			return nil, fmt.Errorf("%w: modules is not a list", ErrMalformedTemplate)
		}
	}

	t.Modules = make([]model.Module, 0, len(rawModules))
	for i, rawModule := range rawModules {
		mod, err := normalizeModule(rawModule, i)
		if err != nil {
			return nil, err
		}
		t.Modules = append(t.Modules, mod)
	}
	return t, nil
}

func normalizeModule(raw any, index int) (model.Module, error) {
	m := asMap(raw)
	if m == nil {
		return model.Module{}, fmt.Errorf("%w: module %d is not a structured record", ErrMalformedTemplate, index+1)
	}

	mod := model.Module{
		ID:          asString(m["id"]),
		Name:        asString(m["name"]),
		Description: asString(m["description"]),
	}
	if mod.ID == "" {
		mod.ID = fmt.Sprintf("module_%d", index+1)
	}
	if mod.Name == "" {
		mod.Name = mod.ID
	}

	rawQuestions, ok := asList(m["questions"])
	if !ok {
		return model.Module{}, fmt.Errorf("%w: module %q questions is not a list", ErrMalformedTemplate, mod.ID)
	}

	mod.Questions = make([]model.Question, 0, len(rawQuestions))
	for _, rawQuestion := range rawQuestions {
		q, err := normalizeQuestion(rawQuestion, mod.ID)
		if err != nil {
			return model.Module{}, err
		}
		mod.Questions = append(mod.Questions, q)
	}
	return mod, nil
}

func normalizeQuestion(raw any, moduleID string) (model.Question, error) {
	m := asMap(raw)
	if m == nil {
		return model.Question{}, fmt.Errorf("%w: module %q contains a non-record question", ErrMalformedTemplate, moduleID)
	}

	q := model.Question{
		ID:    firstString(m, "id", "question_id", "key"),
		Label: asString(m["label"]),
		Help:  asString(m["help"]),
	}
	if q.ID == "" {
		return model.Question{}, fmt.Errorf("%w: question in module %q has no id", ErrMalformedTemplate, moduleID)
	}
	if q.Label == "" {
		q.Label = q.ID
	}

	schema, err := resolveSchema(m, q.ID)
	if err != nil {
		return model.Question{}, err
	}
	q.Schema = schema

	q.Risk = normalizeRisk(firstString(m, "risk_level", "riskLevel"))
	if tags, ok := m["tags"]; ok {
		q.Tags = stringList(tags)
	}
	if opts, ok := m["options"]; ok {
		q.Options = stringList(opts)
	}
	if v, ok := coerceInt(firstPresent(m, "min", "scale_min")); ok {
		q.Min = &v
	}
	if v, ok := coerceInt(firstPresent(m, "max", "scale_max")); ok {
		q.Max = &v
	}
	return q, nil
}

var knownSchemas = map[model.QuestionSchema]bool{
	model.SchemaConsentRating: true,
	model.SchemaScale:         true,
	model.SchemaChoice:        true,
	model.SchemaMultiChoice:   true,
	model.SchemaText:          true,
	model.SchemaScenario:      true,
}

// resolveSchema applies the schema inference decision table, in order:
// declared tag, non-empty choice list, multi-value list field, text field,
// then consent-rating as the default richest schema.
func resolveSchema(m map[string]any, questionID string) (model.QuestionSchema, error) {
	if declared := asString(m["schema"]); declared != "" {
		schema := model.QuestionSchema(declared)
		if !knownSchemas[schema] {
			return "", fmt.Errorf("%w: question %q has unresolvable schema %q", ErrMalformedTemplate, questionID, declared)
		}
		return schema, nil
	}
	if opts, ok := asList(m["options"]); ok && len(opts) > 0 {
		return model.SchemaChoice, nil
	}
	if _, ok := asList(m["values"]); ok {
		return model.SchemaMultiChoice, nil
	}
	if _, ok := m["text"]; ok {
		return model.SchemaText, nil
	}
	return model.SchemaConsentRating, nil
}

func normalizeRisk(raw string) model.RiskTier {
	switch model.RiskTier(strings.ToUpper(strings.TrimSpace(raw))) {
	case model.RiskTierC:
		return model.RiskTierC
	case model.RiskTierB:
		return model.RiskTierB
	default:
		return model.RiskTierA
	}
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := asString(m[k]); s != "" {
			return s
		}
	}
	return ""
}

func firstPresent(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return v
		}
	}
	return nil
}
