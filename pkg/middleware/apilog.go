package middleware

import (
	"net/http"

	"go.uber.org/zap"
)

// APILog records the call details of an API group. Credentials are masked.
func APILog(logger *zap.Logger, name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fields := []zap.Field{
				zap.String("api", name),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Any("query_params", r.URL.Query()),
				zap.Any("headers", loggableHeaders(r.Header)),
			}

			if hasBody(r.Method) {
				if body, err := loggableBody(r); err == nil && body != nil {
					fields = append(fields, zap.Any("body", body))
				}
			}

			logger.Info("API call", fields...)
			next.ServeHTTP(w, r)
		})
	}
}
