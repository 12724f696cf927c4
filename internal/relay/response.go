package relay

import (
	"encoding/json"
	"net/http"
)

// Response is the success envelope.
type Response struct {
	Output  string `json:"output"`
	Success bool   `json:"success"`
}

// ErrorResponse is the failure envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(status)

	json.NewEncoder(w).Encode(body)
}

// methodNotAllowed answers any non-POST request with usage guidance.
func methodNotAllowed(w http.ResponseWriter, usage string) {
	w.Header().Set("Allow", http.MethodPost)
	writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{
		Error:   "This endpoint only accepts POST requests",
		Message: usage,
	})
}
