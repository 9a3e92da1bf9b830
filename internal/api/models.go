package api

import (
	"encoding/json"
	"net/http"

	apperrors "optivolt/internal/errors"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	httpErr := apperrors.FromError(err)
	writeJSON(w, httpErr.Code, map[string]string{"error": httpErr.Message})
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// writeNoChange reports a failed transition guard: the request was
// understood but the booking's current state forbids it, so nothing changed.
func writeNoChange(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusConflict, map[string]interface{}{
		"changed": false,
		"message": msg,
	})
}
