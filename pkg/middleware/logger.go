package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"backend-template/pkg/utils"

	"go.uber.org/zap"
)

// responseWriter captures the status code and size of a response.
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
	wroteHeader  bool
	beforeHeader func(http.ResponseWriter)
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.wroteHeader = true
	rw.statusCode = code
	if rw.beforeHeader != nil {
		rw.beforeHeader(rw.ResponseWriter)
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += n
	return n, err
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// RequestLog logs every request on the way in and its status on the way out.
func RequestLog(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fields := []zap.Field{
				zap.String("path", r.URL.Path),
				zap.String("method", r.Method),
				zap.Any("query_params", r.URL.Query()),
				zap.String("client_ip", utils.ClientIP(r)),
				zap.String("user_agent", r.UserAgent()),
			}

			if hasBody(r.Method) {
				body, err := loggableBody(r)
				if err != nil {
					logger.Warn("Failed to read request body", zap.Error(err))
				}
				fields = append(fields, zap.Any("body", body))
			}

			logger.Info("Request", fields...)

			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r)

			logger.Info("Response",
				zap.Int("status_code", rw.statusCode),
				zap.String("path", r.URL.Path),
				zap.String("method", r.Method),
				zap.Int("bytes", rw.bytesWritten),
			)
		})
	}
}

// ResponseTime adds X-Response-Time and warns about requests slower than slow.
func ResponseTime(logger *zap.Logger, slow time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := newResponseWriter(w)
			rw.beforeHeader = func(w http.ResponseWriter) {
				w.Header().Set("X-Response-Time", fmt.Sprintf("%.3fs", time.Since(start).Seconds()))
			}

			next.ServeHTTP(rw, r)

			duration := time.Since(start)
			if slow > 0 && duration > slow {
				logger.Warn("Slow request",
					zap.String("path", r.URL.Path),
					zap.String("method", r.Method),
					zap.Duration("duration", duration),
				)
			}
		})
	}
}

func hasBody(method string) bool {
	return method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch
}

// maxLoggedBody bounds how much of a request body is held for logging and
// parameter checks.
const maxLoggedBody = 64 << 10

// isJSON reports whether the body is worth capturing. Untyped bodies count.
func isJSON(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// readBody reads at most maxLoggedBody bytes and puts back a reader that
// replays them ahead of the unread rest.
func readBody(r *http.Request) (raw []byte, truncated bool, err error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, false, nil
	}

	raw, err = io.ReadAll(io.LimitReader(r.Body, maxLoggedBody+1))
	r.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(raw), r.Body), r.Body}

	if len(raw) > maxLoggedBody {
		return raw[:maxLoggedBody], true, err
	}
	return raw, false, err
}

// loggableBody describes the request body for the logs. It returns nil for an
// empty body.
func loggableBody(r *http.Request) (any, error) {
	if !isJSON(r) {
		return fmt.Sprintf("[%s body not logged]", r.Header.Get("Content-Type")), nil
	}

	raw, truncated, err := readBody(r)
	if truncated {
		return fmt.Sprintf("[body over %d bytes not logged]", maxLoggedBody), err
	}
	if len(raw) == 0 {
		return nil, err
	}
	return describeBody(raw), err
}

// describeBody returns the masked JSON body, or "Invalid JSON".
func describeBody(raw []byte) any {
	var body any
	if err := json.Unmarshal(raw, &body); err != nil {
		return "Invalid JSON"
	}
	return maskSensitive(body)
}
