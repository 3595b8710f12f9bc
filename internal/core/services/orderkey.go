package services

import (
	"math"
	"strconv"
	"strings"
)

// NormaliseOrderKey converts an order number cell to its join key.
//
// Integral numbers print without a fractional part, so 1234.0 and "1234"
// share the key "1234". Non-integral numbers keep their shortest printed
// form and strings are trimmed. nil and NaN give "", which never matches.
// Applying the function to its own output returns the same key.
func NormaliseOrderKey(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		return formatKeyFloat(x)
	case float32:
		return formatKeyFloat(float64(x))
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}

func formatKeyFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	if f == math.Trunc(f) {
		if f == 0 {
			return "0"
		}
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
