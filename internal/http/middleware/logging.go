package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pipecrest/crm-api/internal/auth"
)

// statusRecorder captures the status code and body size for the access
// log line.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += int64(n)
	return n, err
}

// Logging writes one access log line per request, tagged with a
// generated request id. The id is also stamped onto the request headers
// so downstream handlers and error responses can reference it.
func Logging(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := uuid.New().String()
			r.Header.Set("X-Request-ID", requestID)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			elapsed := time.Since(start)
			fields := []zap.Field{
				zap.String("request_id", requestID),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Int("status_code", rec.status),
				zap.Int64("response_size", rec.bytes),
				zap.Duration("duration", elapsed),
			}
			if user, ok := auth.FromContext(r.Context()); ok {
				fields = append(fields,
					zap.String("user_id", user.UserID),
					zap.String("user_name", user.DisplayName))
			}

			logger.Info(
				fmt.Sprintf("%s %-30s -> %3d (%s)",
					r.Method, r.URL.Path, rec.status, elapsed.Truncate(time.Microsecond)),
				fields...)
		})
	}
}
