package middleware

import (
	"net/http"
	"strings"
)

const maskedValue = "******"

var sensitiveKeys = []string{"password", "token"}

func isSensitive(key string) bool {
	key = strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(key, s) {
			return true
		}
	}
	return false
}

// maskSensitive replaces password and token values in decoded JSON.
func maskSensitive(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			if isSensitive(k) {
				out[k] = maskedValue
				continue
			}
			out[k] = maskSensitive(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = maskSensitive(item)
		}
		return out
	default:
		return v
	}
}

// loggableHeaders drops credentials from the request headers.
func loggableHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k := range h {
		switch http.CanonicalHeaderKey(k) {
		case "Authorization", "Cookie":
			continue
		}
		out[k] = h.Get(k)
	}
	return out
}
