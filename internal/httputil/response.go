package httputil

import (
	"encoding/json"
	"log"
	"net/http"
)

// ErrorResponse is the envelope for every failed request. Success is always
// false and the message is safe to show to end users.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// MessageResponse is the envelope for successful requests that carry no payload.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// RespondJSON sends a JSON response with the given status code.
// Logs encoding errors to avoid silent failures.
func RespondJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}

// RespondMessage sends a success envelope with a human-readable message.
func RespondMessage(w http.ResponseWriter, message string, statusCode int) {
	RespondJSON(w, MessageResponse{Success: true, Message: message}, statusCode)
}

// RespondError sends an error envelope with a machine-readable code.
func RespondError(w http.ResponseWriter, message string, code string, statusCode int) {
	RespondJSON(w, ErrorResponse{Success: false, Message: message, Code: code}, statusCode)
}
