package assistant

import "strconv"

// Parameter extraction from the model-produced map. JSON numbers decode
// as float64; integer ids may still arrive as float64 values.

func stringParam(params map[string]any, key string) (string, bool) {
	v, ok := params[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// optStringParam returns nil when the key is absent, not a string, or
// empty.
func optStringParam(params map[string]any, key string) *string {
	s, ok := stringParam(params, key)
	if !ok || s == "" {
		return nil
	}
	return &s
}

func numberParam(params map[string]any, key string) (float64, bool) {
	v, ok := params[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func intParam(params map[string]any, key string) (int64, bool) {
	n, ok := numberParam(params, key)
	if !ok {
		return 0, false
	}
	return int64(n), true
}

// formatAmount renders an amount without trailing zeros, so 1200.0
// reads as "1200".
func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
