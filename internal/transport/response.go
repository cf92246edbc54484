package transport

import (
	"encoding/json"
	"net/http"
)

type ErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// ActionResponse is the envelope the admin panel expects from mutating
// endpoints (crear/update/eliminar-solicitud).
type ActionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Reload  bool   `json:"reload,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, message string, details map[string]string) {
	WriteJSON(w, status, ErrorResponse{
		Error:   message,
		Details: details,
	})
}

// WriteFailure reports a rejected write in the action envelope. Reload tells
// the client to refetch the list so it re-syncs with the backing sheet.
func WriteFailure(w http.ResponseWriter, status int, message string, reload bool) {
	WriteJSON(w, status, ActionResponse{
		Success: false,
		Message: message,
		Reload:  reload,
	})
}
