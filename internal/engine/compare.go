package engine

import (
	"strings"

	"accord/internal/model"
)

// statusPair classifies two consent statuses. A HARD_LIMIT from either side
// always dominates, then a direct YES/NO conflict; both-YES is a match and
// everything else, missing statuses included, stays open for discussion.
func statusPair(a, b model.ConsentStatus) model.MatchLevel {
	if a == model.StatusHardLimit || b == model.StatusHardLimit {
		return model.MatchBoundary
	}
	if (a == model.StatusYes && b == model.StatusNo) || (a == model.StatusNo && b == model.StatusYes) {
		return model.MatchBoundary
	}
	if a == model.StatusYes && b == model.StatusYes {
		return model.MatchFull
	}
	return model.MatchExplore
}

// lowComfortHighInterest flags the tension of wanting something without being
// comfortable with it
func lowComfortHighInterest(s ratingSide) bool {
	return s.interest != nil && *s.interest >= 3 && s.comfort != nil && *s.comfort <= 2
}

// compareQuestion builds one ComparisonResult for a question answered by
// either partner. It never fails: malformed values count as unanswered.
func compareQuestion(q *model.Question, moduleID string, rawA, rawB any, scenarios model.ScenarioCatalog) model.ComparisonResult {
	res := model.ComparisonResult{
		QuestionID: q.ID,
		Label:      q.Label,
		Schema:     q.Schema,
		Risk:       q.Risk,
		ModuleID:   moduleID,
		RawA:       rawA,
		RawB:       rawB,
		Flags:      []string{},
	}

	switch q.Schema {
	case model.SchemaConsentRating:
		classifyRatings(&res, detectRating(asMap(rawA)), detectRating(asMap(rawB)))

	case model.SchemaScale:
		va, vb := scaleValue(rawA), scaleValue(rawB)
		d := absDelta(va, vb)
		res.ValueDelta = d
		if d != nil && *d <= 2 {
			res.Level = model.MatchFull
		} else {
			res.Level = model.MatchExplore
		}
		if d != nil && *d >= 3 {
			res.Flags = append(res.Flags, model.FlagBigDelta)
		}

	case model.SchemaChoice:
		ca, cb := choiceValue(rawA), choiceValue(rawB)
		if ca != "" && ca == cb {
			res.Level = model.MatchFull
		} else {
			res.Level = model.MatchExplore
		}

	case model.SchemaMultiChoice:
		if intersects(choicesValue(rawA), choicesValue(rawB)) {
			res.Level = model.MatchFull
		} else {
			res.Level = model.MatchExplore
		}

	case model.SchemaText:
		// Free text is never auto-classified; it exists to prompt discussion.
		res.Level = model.MatchExplore

	case model.SchemaScenario:
		classifyScenario(&res, rawA, rawB, scenarios)

	default:
		res.Level = model.MatchExplore
	}

	if q.Risk == model.RiskTierC {
		res.Flags = append(res.Flags, model.FlagHighRisk)
	}
	return res
}

// classifyRatings fills a result from two detected consent ratings
func classifyRatings(res *model.ComparisonResult, ra, rb rating) {
	sa, sb := ra.primary(), rb.primary()

	res.Level = statusPair(sa.status, sb.status)
	res.StatusA, res.StatusB = sa.status, sb.status
	res.InterestA, res.InterestB = sa.interest, sb.interest
	res.ComfortA, res.ComfortB = sa.comfort, sb.comfort
	res.InterestDelta = absDelta(sa.interest, sb.interest)
	res.ComfortDelta = absDelta(sa.comfort, sb.comfort)

	if sa.status == model.StatusHardLimit || sb.status == model.StatusHardLimit {
		res.Flags = append(res.Flags, model.FlagHardLimit)
	}
	if lowComfortHighInterest(sa) || lowComfortHighInterest(sb) {
		res.Flags = append(res.Flags, model.FlagLowComfortHighInterest)
	}
	if res.InterestDelta != nil && *res.InterestDelta >= 2 {
		res.Flags = append(res.Flags, model.FlagBigDelta)
	}
}

// classifyScenario handles scenario-reference answers. Matching selections
// delegate to the consent-rating path when either embedded payload carries a
// status; a same-selection with no rated payload is an automatic match.
func classifyScenario(res *model.ComparisonResult, rawA, rawB any, scenarios model.ScenarioCatalog) {
	ida := scenarioID(rawA, scenarios)
	idb := scenarioID(rawB, scenarios)
	if ida == "" || ida != idb {
		res.Level = model.MatchExplore
		return
	}

	ra := detectRating(asMap(asMap(rawA)["rating"]))
	rb := detectRating(asMap(asMap(rawB)["rating"]))
	if !ra.hasStatus() && !rb.hasStatus() {
		res.Level = model.MatchFull
		return
	}
	classifyRatings(res, ra, rb)
}

// scenarioID extracts a partner's chosen scenario. When a catalog is supplied,
// ids it does not know are treated as no selection.
func scenarioID(raw any, scenarios model.ScenarioCatalog) string {
	id := strings.TrimSpace(asString(asMap(raw)["scenario_id"]))
	if id == "" {
		return ""
	}
	if scenarios != nil {
		if _, ok := scenarios[id]; !ok {
			return ""
		}
	}
	return id
}

// scaleValue reads a numeric-scale answer, accepting either a bare number or
// a {"value": n} record
func scaleValue(raw any) *int {
	if m := asMap(raw); m != nil {
		return safeInt(m["value"])
	}
	return safeInt(raw)
}

// choiceValue reads a single-choice answer
func choiceValue(raw any) string {
	if m := asMap(raw); m != nil {
		return asString(m["choice"])
	}
	return asString(raw)
}

// choicesValue reads a multi-choice answer
func choicesValue(raw any) []string {
	if m := asMap(raw); m != nil {
		if _, ok := m["values"]; ok {
			return stringList(m["values"])
		}
		return nil
	}
	if _, ok := asList(raw); ok {
		return stringList(raw)
	}
	return nil
}

func intersects(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, v := range a {
		set[v] = struct{}{}
	}
	for _, v := range b {
		if _, ok := set[v]; ok {
			return true
		}
	}
	return false
}
