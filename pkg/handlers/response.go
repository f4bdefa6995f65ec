// Package handlers serves the HTTP endpoints of the http transport.
package handlers

import (
	"encoding/json"
	"net/http"
)

// APIError is the body of every non-MCP error response.
type APIError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	return WriteJSON(w, statusCode, APIError{Error: errorCode, Message: message})
}

// WriteJSON writes a JSON response and returns any encoding error.
// Responses describe live process state and are never cached.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}
