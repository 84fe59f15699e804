package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/pipecrest/crm-api/internal/config"
	"github.com/pipecrest/crm-api/internal/domain"
)

// Middleware handles authentication for HTTP requests
type Middleware struct {
	validator *JWTValidator
	logger    *zap.Logger
}

// NewMiddleware creates a new authentication middleware
func NewMiddleware(cfg *config.Config, logger *zap.Logger) *Middleware {
	return &Middleware{
		validator: NewJWTValidator(&cfg.Auth),
		logger:    logger,
	}
}

// Authenticate requires a valid bearer token and puts the user context on
// the request.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			m.unauthorized(w, r, "missing bearer token")
			return
		}

		claims, err := m.validator.Validate(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			m.logger.Warn("token validation failed",
				zap.String("path", r.URL.Path),
				zap.Error(err))
			m.unauthorized(w, r, "invalid token")
			return
		}

		ctx := WithUserContext(r.Context(), UserContextFromClaims(claims))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole allows only users holding one of the given roles.
func (m *Middleware) RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := FromContext(r.Context())
			if !ok {
				m.unauthorized(w, r, "missing bearer token")
				return
			}
			if !user.HasAnyRole(roles...) {
				writeProblem(w, &domain.APIError{
					Type:   domain.ErrorTypeForbidden,
					Title:  "Forbidden",
					Status: http.StatusForbidden,
					Detail: "insufficient role",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (m *Middleware) unauthorized(w http.ResponseWriter, r *http.Request, detail string) {
	writeProblem(w, &domain.APIError{
		Type:   domain.ErrorTypeUnauthorized,
		Title:  "Unauthorized",
		Status: http.StatusUnauthorized,
		Detail: detail,
	})
}

func writeProblem(w http.ResponseWriter, apiErr *domain.APIError) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(apiErr.Status)
	_ = json.NewEncoder(w).Encode(apiErr)
}
