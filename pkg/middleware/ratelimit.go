package middleware

import (
	"fmt"
	"net/http"
	"time"

	"backend-template/pkg/apperror"
	"backend-template/pkg/cache"
	"backend-template/pkg/utils"

	"go.uber.org/zap"
)

// RateLimit allows limit requests per client IP within period. Limiter
// failures let the request through.
func RateLimit(limiter cache.Limiter, prefix string, limit int, period time.Duration, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := utils.ClientIP(r)
			key := fmt.Sprintf("rate_limit:%s:%s", prefix, ip)

			allowed, err := limiter.Allow(r.Context(), key, limit, period)
			if err != nil {
				logger.Warn("Rate limiter unavailable", zap.String("key", key), zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				logger.Warn("Rate limit exceeded", zap.String("key", key), zap.Int("limit", limit))
				e := apperror.RateLimited(int(period.Seconds()))
				utils.ResponseError(w, e.Status, e.Message, e.Code, nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
