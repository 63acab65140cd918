package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/hongminglow/finance-be/internal/auth"
	"github.com/hongminglow/finance-be/internal/http/respond"
)

// TokenParser validates a raw token and returns its claims.
type TokenParser interface {
	Parse(raw string) (auth.Claims, error)
}

// RequireAuth rejects requests without a valid token and otherwise places the
// caller's claims in the request context. The token is read from the
// Authorization header, falling back to the named cookie.
func RequireAuth(tokens TokenParser, cookieName string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" && cookieName != "" {
				if c, err := r.Cookie(cookieName); err == nil {
					raw = c.Value
				}
			}
			if raw == "" {
				respond.Error(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			claims, err := tokens.Parse(raw)
			if err != nil {
				logger.DebugContext(r.Context(), "rejected token", "request_id", RequestID(r.Context()), "error", err)
				respond.Error(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
