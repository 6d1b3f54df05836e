package engine

import (
	"sort"

	"accord/internal/model"
)

// Compare builds the full ordered comparison of two partners' answer sets.
// It is pure and never mutates its inputs; responses keyed to questions the
// template does not know are silently skipped. The scenario catalog is
// optional and only consulted for scenario-reference questions.
func Compare(t *model.Template, a, b model.ResponseSet, scenarios model.ScenarioCatalog) *model.ComparisonReport {
	items := []model.ComparisonResult{}
	for _, m := range t.Modules {
		for i := range m.Questions {
			q := &m.Questions[i]
			rawA, okA := a[q.ID]
			rawB, okB := b[q.ID]
			if !okA && !okB {
				continue
			}
			items = append(items, compareQuestion(q, m.ID, rawA, rawB, scenarios))
		}
	}

	sortResults(items)
	return &model.ComparisonReport{
		Items:      items,
		ActionPlan: actionPlan(items),
	}
}

var levelRank = map[model.MatchLevel]int{
	model.MatchBoundary: 0,
	model.MatchExplore:  1,
	model.MatchFull:     2,
}

var riskRank = map[model.RiskTier]int{
	model.RiskTierC: 0,
	model.RiskTierB: 1,
	model.RiskTierA: 2,
}

// sortResults applies the fixed report ordering: boundary issues first, then
// by risk tier (C before all others), then module id, then question id.
func sortResults(items []model.ComparisonResult) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := &items[i], &items[j]
		if levelRank[a.Level] != levelRank[b.Level] {
			return levelRank[a.Level] < levelRank[b.Level]
		}
		ra, ok := riskRank[a.Risk]
		if !ok {
			ra = len(riskRank)
		}
		rb, ok := riskRank[b.Risk]
		if !ok {
			rb = len(riskRank)
		}
		if ra != rb {
			return ra < rb
		}
		if a.ModuleID != b.ModuleID {
			return a.ModuleID < b.ModuleID
		}
		return a.QuestionID < b.QuestionID
	})
}

// actionPlan picks up to three high-confidence mutual matches to surface as
// concrete suggestions. Only matches where both partners are comfortable
// (comfort >= 3) qualify; interest alone never overrides that floor.
// Candidates rank by average interest, then a greedy pass takes at most one
// per module before a second pass fills the remaining slots by score.
func actionPlan(items []model.ComparisonResult) []string {
	type candidate struct {
		item  *model.ComparisonResult
		score float64
	}

	candidates := []candidate{}
	for i := range items {
		item := &items[i]
		if item.Level != model.MatchFull {
			continue
		}
		if item.ComfortA == nil || *item.ComfortA < 3 || item.ComfortB == nil || *item.ComfortB < 3 {
			continue
		}
		score := 0.0
		if item.InterestA != nil {
			score += float64(*item.InterestA)
		}
		if item.InterestB != nil {
			score += float64(*item.InterestB)
		}
		candidates = append(candidates, candidate{item: item, score: score / 2})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].item.QuestionID < candidates[j].item.QuestionID
	})

	const maxSuggestions = 3
	plan := []string{}
	chosen := map[string]bool{}
	usedModules := map[string]bool{}

	// Diversity pass: at most one suggestion per module.
	for _, c := range candidates {
		if len(plan) == maxSuggestions {
			break
		}
		if usedModules[c.item.ModuleID] {
			continue
		}
		usedModules[c.item.ModuleID] = true
		chosen[c.item.QuestionID] = true
		plan = append(plan, suggestionLabel(c.item))
	}

	// Fill pass: top up by score, ignoring module diversity.
	for _, c := range candidates {
		if len(plan) == maxSuggestions {
			break
		}
		if chosen[c.item.QuestionID] {
			continue
		}
		chosen[c.item.QuestionID] = true
		plan = append(plan, suggestionLabel(c.item))
	}

	return plan
}

func suggestionLabel(item *model.ComparisonResult) string {
	if item.Label != "" {
		return item.Label
	}
	return item.QuestionID
}
