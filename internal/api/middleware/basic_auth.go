// Package middleware provides HTTP middleware for the API routes.
package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

// BasicAuth guards a route subtree with HTTP basic authentication.
// The password is checked against a bcrypt hash so the configuration
// never stores it in clear.
func BasicAuth(username, passwordHash string, log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			if !ok ||
				subtle.ConstantTimeCompare([]byte(user), []byte(username)) != 1 ||
				bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(pass)) != nil {
				log.Warn("records API authentication failed",
					slog.String("remote_addr", r.RemoteAddr))
				w.Header().Set("WWW-Authenticate", `Basic realm="feedsieve"`)
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
