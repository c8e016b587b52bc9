package chartdata

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// toFloat reads a numeric cell, anything unreadable is 0
func toFloat(v any) float64 {
	f, _ := asFloat(v)
	return f
}

func asFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}
	return 0, false
}

// IsNumeric reports whether v is a number or a string holding one
// nil and empty strings are not numeric
func IsNumeric(v any) bool {
	_, ok := asFloat(v)
	return ok
}

// labelOf renders a cell as a label, missing and empty cells are Unknown
func labelOf(v any) string {
	switch x := v.(type) {
	case nil:
		return Unknown
	case string:
		if x == "" {
			return Unknown
		}
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	}
	return fmt.Sprint(v)
}
