package httpapi

import (
	"net/http"
	"strings"

	"github.com/safedrive/safedrive/internal/logging"
	"github.com/safedrive/safedrive/internal/server/auth"
	"github.com/safedrive/safedrive/internal/server/identity"
)

// identityBinder returns middleware that resolves an Authorization bearer
// token into a request-scoped identity binding. It never rejects a request:
// requests with a missing, malformed, expired, or unresolvable token simply
// continue unauthenticated, and the services decide what an anonymous caller
// may do.
func identityBinder(users UserService, jwtSecret []byte, log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			subject, err := auth.ExtractSubject(token, jwtSecret)
			if err != nil {
				log.Warn(r.Context(), "rejected bearer token", "reason", err.Error())
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.FindByEmail(r.Context(), subject)
			if err != nil {
				log.Warn(r.Context(), "token subject not resolvable", "subject", subject)
				next.ServeHTTP(w, r)
				return
			}

			if !auth.ValidateToken(token, user.Email, jwtSecret) {
				log.Warn(r.Context(), "token failed validation", "subject", subject)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(identity.Bind(r.Context(), user)))
		})
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// Returns "" when the header is absent or not a bearer scheme.
func bearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
