package middleware

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"backend-template/pkg/cache"

	"go.uber.org/zap"
)

type bodyRecorder struct {
	*responseWriter
	buf bytes.Buffer
}

func (b *bodyRecorder) Write(p []byte) (int, error) {
	b.buf.Write(p)
	return b.responseWriter.Write(p)
}

// CacheResponse serves GET requests from the store and caches 200 answers
// for ttl. Store errors bypass the cache.
func CacheResponse(store cache.Store, prefix string, ttl time.Duration, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			key := fmt.Sprintf("%s%s:%s", cache.ResponseKeyPrefix(prefix), r.URL.Path, r.URL.RawQuery)

			cached, err := store.Get(r.Context(), key)
			if err == nil {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("X-Cache", "HIT")
				w.WriteHeader(http.StatusOK)
				w.Write(cached)
				return
			}
			if !errors.Is(err, cache.ErrCacheMiss) {
				logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
			}

			w.Header().Set("X-Cache", "MISS")
			rec := &bodyRecorder{responseWriter: newResponseWriter(w)}
			next.ServeHTTP(rec, r)

			if rec.statusCode != http.StatusOK {
				return
			}
			if err := store.Set(r.Context(), key, rec.buf.Bytes(), ttl); err != nil {
				logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
			}
		})
	}
}
