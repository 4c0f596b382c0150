package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func protectedHandler(t *testing.T, username, password string) http.Handler {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return BasicAuth(username, string(hash), testLogger())(next)
}

func TestBasicAuthAllowsValidCredentials(t *testing.T) {
	handler := protectedHandler(t, "admin", "s3cret-passw0rd")

	req := httptest.NewRequest(http.MethodGet, "/api/records", nil)
	req.SetBasicAuth("admin", "s3cret-passw0rd")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBasicAuthRejectsBadCredentials(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "wrong password", username: "admin", password: "guess"},
		{name: "wrong username", username: "root", password: "s3cret-passw0rd"},
		{name: "both wrong", username: "root", password: "guess"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := protectedHandler(t, "admin", "s3cret-passw0rd")

			req := httptest.NewRequest(http.MethodGet, "/api/records", nil)
			req.SetBasicAuth(tt.username, tt.password)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
		})
	}
}

func TestBasicAuthRejectsMissingHeader(t *testing.T) {
	handler := protectedHandler(t, "admin", "s3cret-passw0rd")

	req := httptest.NewRequest(http.MethodGet, "/api/records", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
