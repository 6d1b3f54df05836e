package engine

import (
	"strings"

	"accord/internal/model"
)

// Consent-rating answers come in exactly one of three mutually exclusive
// variants: standalone fields, dom_/sub_ prefixed, or active_/passive_
// prefixed. The variant is detected once here and passed around typed instead
// of re-sniffed at each use site.

type ratingVariant int

const (
	variantStandalone ratingVariant = iota
	variantDomSub
	variantActivePassive
)

// ratingSide is one rated role within a consent-rating answer
type ratingSide struct {
	prefix     string // field prefix: "", "dom_", "sub_", "active_", "passive_"
	status     model.ConsentStatus
	interest   *int
	comfort    *int
	conditions string
	present    bool
}

// rating is the detected tagged form of one consent-rating answer
type rating struct {
	variant ratingVariant
	sides   []ratingSide
}

var ratingFields = []string{"status", "interest", "comfort", "conditions"}

func sidePresent(m map[string]any, prefix string) bool {
	for _, f := range ratingFields {
		if _, ok := m[prefix+f]; ok {
			return true
		}
	}
	return false
}

func readSide(m map[string]any, prefix string) ratingSide {
	s := ratingSide{prefix: prefix, present: sidePresent(m, prefix)}
	if !s.present {
		return s
	}
	s.status = model.ConsentStatus(strings.ToUpper(strings.TrimSpace(asString(m[prefix+"status"]))))
	s.interest = safeInt(m[prefix+"interest"])
	s.comfort = safeInt(m[prefix+"comfort"])
	s.conditions = strings.TrimSpace(asString(m[prefix+"conditions"]))
	return s
}

// detectRating sniffs which variant an answer populates. Split-role prefixes
// win over standalone fields; dom/sub wins over active/passive. A nil map
// yields an empty standalone rating (unanswered).
func detectRating(m map[string]any) rating {
	switch {
	case sidePresent(m, "dom_") || sidePresent(m, "sub_"):
		return rating{
			variant: variantDomSub,
			sides:   []ratingSide{readSide(m, "dom_"), readSide(m, "sub_")},
		}
	case sidePresent(m, "active_") || sidePresent(m, "passive_"):
		return rating{
			variant: variantActivePassive,
			sides:   []ratingSide{readSide(m, "active_"), readSide(m, "passive_")},
		}
	default:
		return rating{
			variant: variantStandalone,
			sides:   []ratingSide{readSide(m, "")},
		}
	}
}

// primary is the side used for pairwise comparison: the first populated side,
// so dominant/active when both roles are rated
func (r rating) primary() ratingSide {
	for _, s := range r.sides {
		if s.present {
			return s
		}
	}
	return r.sides[0]
}

// hasStatus reports whether any rated side carries a status, the check used
// to decide if a scenario payload resembles a consent-rating answer
func (r rating) hasStatus() bool {
	for _, s := range r.sides {
		if s.status != "" {
			return true
		}
	}
	return false
}
