package engine

import (
	"fmt"
	"sort"

	"accord/internal/model"
)

// Validate checks one respondent's answer set against the template's
// schema-conditional rules. Errors are meant to block persistence upstream;
// warnings are informational only. The check is pure and side-effect free.
func Validate(t *model.Template, rs model.ResponseSet) *model.ValidationReport {
	report := &model.ValidationReport{
		Errors:   []model.ValidationIssue{},
		Warnings: []model.ValidationIssue{},
	}

	ids := make([]string, 0, len(rs))
	for id := range rs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		q, _ := t.FindQuestion(id)
		if q == nil {
			// Stale keys are common when a partner answered an older template
			// version; never a hard error.
			report.Warnings = append(report.Warnings, model.ValidationIssue{
				QuestionID: id,
				Message:    "question not in template; may be from a different template version",
				Severity:   model.SeverityWarning,
			})
			continue
		}

		switch q.Schema {
		case model.SchemaScale:
			validateScale(report, q, rs[id])
		case model.SchemaConsentRating:
			validateRating(report, q, rs[id])
		}
		// Other schemas carry no rules beyond the unknown-id check. That is a
		// deliberate narrow scope, not an oversight.
	}

	return report
}

// IsValid reports whether the answer set may be persisted. Warnings never
// affect the outcome.
func IsValid(t *model.Template, rs model.ResponseSet) bool {
	return len(Validate(t, rs).Errors) == 0
}

func validateScale(report *model.ValidationReport, q *model.Question, raw any) {
	v := scaleValue(raw)
	if v == nil {
		return
	}
	if (q.Min != nil && *v < *q.Min) || (q.Max != nil && *v > *q.Max) {
		report.Errors = append(report.Errors, model.ValidationIssue{
			QuestionID: q.ID,
			Field:      "value",
			Message:    fmt.Sprintf("value %d outside declared bounds", *v),
			Severity:   model.SeverityError,
		})
	}
}

// Rating sub-scales validate against 0-4.
const (
	ratingScaleMin = 0
	ratingScaleMax = 4
)

func validateRating(report *model.ValidationReport, q *model.Question, raw any) {
	r := detectRating(asMap(raw))
	for _, side := range r.sides {
		if !side.present {
			continue
		}

		if side.status == model.StatusMaybe && side.conditions == "" {
			report.Errors = append(report.Errors, model.ValidationIssue{
				QuestionID: q.ID,
				Field:      side.prefix + "conditions",
				Message:    "MAYBE status requires conditions text",
				Severity:   model.SeverityError,
			})
		}

		checkRatingBounds(report, q.ID, side.prefix+"interest", side.interest)
		checkRatingBounds(report, q.ID, side.prefix+"comfort", side.comfort)

		if lowComfortHighInterest(side) {
			report.Warnings = append(report.Warnings, model.ValidationIssue{
				QuestionID: q.ID,
				Field:      side.prefix + "comfort",
				Message:    "high interest with low comfort; worth a conversation before going ahead",
				Severity:   model.SeverityWarning,
			})
		}

		if r.variant == variantStandalone && side.status == model.StatusYes &&
			q.Risk == model.RiskTierC && side.conditions == "" {
			report.Warnings = append(report.Warnings, model.ValidationIssue{
				QuestionID: q.ID,
				Field:      "conditions",
				Message:    "YES on a high-risk question with no conditions; consider noting limits",
				Severity:   model.SeverityWarning,
			})
		}
	}
}

func checkRatingBounds(report *model.ValidationReport, questionID, field string, v *int) {
	if v == nil {
		return
	}
	if *v < ratingScaleMin || *v > ratingScaleMax {
		report.Errors = append(report.Errors, model.ValidationIssue{
			QuestionID: questionID,
			Field:      field,
			Message:    fmt.Sprintf("%s %d outside %d-%d", field, *v, ratingScaleMin, ratingScaleMax),
			Severity:   model.SeverityError,
		})
	}
}
