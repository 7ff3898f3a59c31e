// Package numeric provides the safety layer between raw provider values and
// the valuation arithmetic. Every externally sourced scalar passes through
// SafeFloat before it is used in a calculation.
package numeric

import (
	"encoding/json"
	"strconv"
	"strings"
)

// SafeFloat converts an arbitrary provider-returned value to a float64.
// Absent values (nil), the literal string "none" in any casing, empty
// strings and non-numeric text all map to def. Numeric types, json.Number
// and numeric strings convert to their float value. SafeFloat never panics
// and never returns an error.
func SafeFloat(value any, def float64) float64 {
	switch v := value.(type) {
	case nil:
		return def
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case uint:
		return float64(v)
	case uint64:
		return float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return def
		}
		return f
	case bool:
		return def
	case string:
		s := strings.TrimSpace(v)
		if s == "" || strings.EqualFold(s, "none") {
			return def
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return def
		}
		return f
	default:
		return def
	}
}
