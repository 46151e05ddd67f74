package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/saasbase/projecthub/internal/observability/metrics"
	"github.com/saasbase/projecthub/internal/security/auth"
)

type ClaimsContextKey struct{}

// publicPaths lists endpoints reachable without a bearer token.
var publicPaths = map[string]bool{
	"/api/v1/auth/register": true,
	"/api/v1/auth/login":    true,
	"/api/v1/health":        true,
	"/healthz":              true,
	"/readyz":               true,
	"/metrics":              true,
}

// JWTMiddleware is the single enforcement point for tenant isolation.
// Every protected request passes through here before any handler runs:
// missing or invalid tokens are rejected with the response envelope and
// the handler is never invoked. On success the verified claims are
// injected into the request context.
func JWTMiddleware(tm *auth.TokenManager, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				metrics.ObserveAuthFailure("missing_token")
				writeUnauthorized(w, "No token provided")
				return
			}

			tokenString, err := auth.ExtractToken(authHeader)
			if err != nil {
				metrics.ObserveAuthFailure("malformed_header")
				writeUnauthorized(w, "No token provided")
				return
			}

			claims, err := tm.VerifyToken(tokenString)
			if err != nil {
				metrics.ObserveAuthFailure("invalid_token")
				log.Info("rejected request with invalid token",
					slog.String("path", r.URL.Path),
				)
				writeUnauthorized(w, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsContextKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ValidateJSONContentType ensures POST/PUT requests with a body declare JSON.
func ValidateJSONContentType(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost && r.Method != http.MethodPut {
				next.ServeHTTP(w, r)
				return
			}
			if r.ContentLength == 0 {
				next.ServeHTTP(w, r)
				return
			}

			contentType := r.Header.Get("Content-Type")
			if !strings.Contains(contentType, "application/json") {
				log.Warn("invalid content type",
					slog.String("path", r.URL.Path),
					slog.String("content_type", contentType),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnsupportedMediaType)
				json.NewEncoder(w).Encode(map[string]interface{}{
					"success": false,
					"message": "Content-Type must be application/json",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetClaimsFromContext returns the verified claims, or nil when the
// request never passed the gate.
func GetClaimsFromContext(ctx context.Context) *auth.Claims {
	if c := ctx.Value(ClaimsContextKey{}); c != nil {
		return c.(*auth.Claims)
	}
	return nil
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": message,
	})
}
