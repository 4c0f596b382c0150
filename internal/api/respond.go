package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// errorResponse is the body for records API errors. The webhook ingress
// never uses it; ingress failures are bodyless 404s.
type errorResponse struct {
	Error string `json:"error"`
}

// RespondWithJSON writes a JSON response with the given status code.
func RespondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		slog.Error("failed to marshal response payload", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// RespondWithError writes a JSON error response with the given status code.
func RespondWithError(w http.ResponseWriter, status int, message string) {
	RespondWithJSON(w, status, errorResponse{Error: message})
}

// RespondNotFound writes a 404 with an empty body and no content type,
// matching what the router produces for paths that do not exist.
func RespondNotFound(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNotFound)
}
