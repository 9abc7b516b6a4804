package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/YoungStar1994/VibeVote-Live/pkg/requestcontext"
)

// TokenValidator validates admin bearer tokens. The admin package provides
// the JWT-backed implementation; tests swap in fakes.
type TokenValidator interface {
	ValidateToken(tokenString string) error
}

// RequireAdmin gates mutating management endpoints behind a valid admin
// bearer token. The services behind it trust that calls reaching them are
// already authorized.
func RequireAdmin(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const bearerPrefix = "Bearer "
			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, bearerPrefix)
			if !ok || token == "" {
				logger.WarnContext(r.Context(), "unauthorized access - missing token",
					"path", r.URL.Path,
					"request_id", requestcontext.RequestID(r.Context()),
				)
				writeUnauthorized(w)
				return
			}
			if err := validator.ValidateToken(token); err != nil {
				logger.WarnContext(r.Context(), "unauthorized access - invalid token",
					"error", err,
					"path", r.URL.Path,
					"request_id", requestcontext.RequestID(r.Context()),
				)
				writeUnauthorized(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
}
