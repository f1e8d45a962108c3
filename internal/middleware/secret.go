package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/tnwnrrl/schedule/internal/pkg/response"
)

// RequireSecret returns middleware that checks a static bearer secret.
// Used by the reservation crawler and cron endpoints, which authenticate
// with pre-shared keys instead of the user session system.
func RequireSecret(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				response.Error(w, http.StatusInternalServerError, "NOT_CONFIGURED", "Endpoint secret is not configured")
				return
			}

			token, ok := bearerToken(r)
			if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
				response.Unauthorized(w, "Invalid or missing API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
