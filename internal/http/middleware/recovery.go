package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/pipecrest/crm-api/internal/domain"
)

// Recovery returns a middleware that recovers from panics, logs the stack
// trace and responds with a problem document instead of dropping the
// connection.
func Recovery(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rec),
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.ByteString("stack", debug.Stack()),
					)

					apiErr := &domain.APIError{
						Type:   domain.ErrorTypeInternal,
						Title:  "Internal Server Error",
						Status: http.StatusInternalServerError,
						Detail: "an unexpected error occurred",
					}
					w.Header().Set("Content-Type", "application/problem+json")
					w.WriteHeader(apiErr.Status)
					_ = json.NewEncoder(w).Encode(apiErr)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
