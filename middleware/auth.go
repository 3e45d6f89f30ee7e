// Package middleware carries the HTTP middlewares of the webhook server.
package middleware

import (
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

// TokenHeader carries the shared webhook token on inbound requests.
const TokenHeader = "X-Webhook-Token"

// WebhookAuth rejects requests whose token header does not match the
// configured bcrypt hash. An empty hash leaves the webhook open, which is
// how the original deployment ran.
func WebhookAuth(tokenHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tokenHash == "" {
				next.ServeHTTP(w, r)
				return
			}

			token := r.Header.Get(TokenHeader)
			if token == "" {
				slog.Info("webhook request without token rejected")
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			if err := bcrypt.CompareHashAndPassword([]byte(tokenHash), []byte(token)); err != nil {
				slog.Info("webhook token rejected")
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
