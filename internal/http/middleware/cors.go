package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/pipecrest/crm-api/internal/config"
)

// CORS builds the cross-origin middleware from config. With no origins
// configured, development allows everything and production denies
// everything; a "*" entry allows everything anywhere but logs a warning
// outside development.
func CORS(cfg *config.CORSConfig, environment string, logger *zap.Logger) func(http.Handler) http.Handler {
	opts := cors.Options{
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   cfg.ExposedHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}

	allowAny := func(r *http.Request, origin string) bool { return origin != "" }
	denyAll := func(r *http.Request, origin string) bool { return false }
	dev := environment == "development" || environment == "local" || environment == ""

	switch {
	case hasWildcard(cfg.AllowedOrigins):
		if !dev {
			logger.Warn("cors wildcard origin outside development",
				zap.String("environment", environment))
		}
		opts.AllowOriginFunc = allowAny
	case len(cfg.AllowedOrigins) > 0:
		opts.AllowedOrigins = cfg.AllowedOrigins
		logger.Info("cors origins configured", zap.Strings("origins", cfg.AllowedOrigins))
	case dev:
		opts.AllowOriginFunc = allowAny
		logger.Info("cors allowing all origins in development")
	default:
		// An empty AllowedOrigins list means "*" to the cors package,
		// so denying takes an explicit func.
		opts.AllowOriginFunc = denyAll
		logger.Warn("cors has no allowed origins, denying cross-origin requests",
			zap.String("environment", environment))
	}

	return cors.Handler(opts)
}

func hasWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
