package repository

import (
	"time"
)

// Raw document field readers. A missing or mistyped field yields the zero
// default rather than an error; optional fields simply stay absent on
// older documents.

func docString(data map[string]interface{}, key string) string {
	if value, ok := data[key].(string); ok {
		return value
	}
	return ""
}

func docBool(data map[string]interface{}, key string) bool {
	if value, ok := data[key].(bool); ok {
		return value
	}
	return false
}

func docFloat(data map[string]interface{}, key string) float64 {
	switch value := data[key].(type) {
	case float64:
		return value
	case int:
		return float64(value)
	case int64:
		return float64(value)
	}
	return 0
}

func docInt(data map[string]interface{}, key string) int {
	switch value := data[key].(type) {
	case int:
		return value
	case int64:
		return int(value)
	case float64:
		return int(value)
	}
	return 0
}

func docTime(data map[string]interface{}, key string) time.Time {
	if value, ok := data[key].(time.Time); ok {
		return value
	}
	return time.Time{}
}

func docStrings(data map[string]interface{}, key string) []string {
	switch value := data[key].(type) {
	case []string:
		return value
	case []interface{}:
		out := make([]string, 0, len(value))
		for _, v := range value {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
