package engine

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Loose-value readers. Responses and raw templates arrive as decoded JSON of
// uncertain shape; every reader here returns an "absent" zero instead of
// failing, which keeps the engine total over malformed single values.

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asList(v any) ([]any, bool) {
	l, ok := v.([]any)
	return l, ok
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

// safeInt coerces a value to an integer, nil for null or non-numeric input
func safeInt(v any) *int {
	switch x := v.(type) {
	case int:
		return &x
	case int64:
		n := int(x)
		return &n
	case float64:
		n := int(x)
		return &n
	case json.Number:
		if f, err := x.Float64(); err == nil {
			n := int(f)
			return &n
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err == nil {
			n := int(f)
			return &n
		}
	}
	return nil
}

// absDelta is the absolute difference of two coerced integers, nil if either
// side is absent
func absDelta(a, b *int) *int {
	if a == nil || b == nil {
		return nil
	}
	d := *a - *b
	if d < 0 {
		d = -d
	}
	return &d
}

// coerceInt coerces any numeric-like value to an int
func coerceInt(v any) (int, bool) {
	if n := safeInt(v); n != nil {
		return *n, true
	}
	return 0, false
}

// stringify renders a retained tag/option entry as a string
func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		if x == math.Trunc(x) && !math.IsInf(x, 0) {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// stringList coerces a loose list into strings, dropping null entries. A bare
// scalar becomes a one-element list.
func stringList(v any) []string {
	if v == nil {
		return nil
	}
	items, ok := asList(v)
	if !ok {
		return []string{stringify(v)}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		out = append(out, stringify(item))
	}
	return out
}
