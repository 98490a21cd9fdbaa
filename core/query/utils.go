package query

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// StringPtr returns a pointer to a copy of s.
func StringPtr(s string) *string {
	return &s
}

// parseNumber reads a field as a number, ignoring surrounding white space.
// NaN is not treated as a number since it does not order.
func parseNumber(field string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// compareFields compares numerically when both fields parse as numbers and
// lexically otherwise.
func compareFields(a, b string) int {
	if af, ok := parseNumber(a); ok {
		if bf, ok := parseNumber(b); ok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	}
	return strings.Compare(a, b)
}

// toString renders a condition value the way fields are stored.
func toString(v FilterValue) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// toValues flattens the operand of In and Nin.
func toValues(v FilterValue) []string {
	switch vals := v.(type) {
	case []FilterValue:
		out := make([]string, len(vals))
		for i, val := range vals {
			out[i] = toString(val)
		}
		return out
	case []string:
		return vals
	default:
		return []string{toString(v)}
	}
}
