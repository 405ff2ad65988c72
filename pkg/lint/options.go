package lint

import (
	"strconv"
	"strings"
)

// lookup returns the raw option value, if set.
func lookup(opts map[string]any, key string) (any, bool) {
	if opts == nil {
		return nil, false
	}
	v, ok := opts[key]
	return v, ok
}

// GetIntOption extracts an int option. Settings files decode numbers as
// int or float64 depending on the source, and environment variables
// arrive as strings, so all three are accepted.
func GetIntOption(opts map[string]any, key string, defaultVal int) int {
	v, ok := lookup(opts, key)
	if !ok {
		return defaultVal
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i
		}
		return defaultVal
	default:
		return defaultVal
	}
}

// GetFloatOption extracts a float option.
func GetFloatOption(opts map[string]any, key string, defaultVal float64) float64 {
	v, ok := lookup(opts, key)
	if !ok {
		return defaultVal
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return f
		}
		return defaultVal
	default:
		return defaultVal
	}
}

// GetBoolOption extracts a bool option.
func GetBoolOption(opts map[string]any, key string, defaultVal bool) bool {
	v, ok := lookup(opts, key)
	if !ok {
		return defaultVal
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		if parsed, err := strconv.ParseBool(strings.TrimSpace(b)); err == nil {
			return parsed
		}
	}
	return defaultVal
}
