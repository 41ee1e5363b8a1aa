// Package response provides helpers for writing the JSON response
// envelope every reply of this service uses.
//
// Success replies carry the payload under "response", failures carry a
// human-readable message under "error"; both repeat the status code in
// the body because API consumers key their handling off that value:
//
//	{ "response": {"score": 3}, "code": 200 }
//	{ "error": "Forbidden", "code": 403 }
//
// Centralising the three lines (set header, set status, encode JSON)
// keeps every handler consistent.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/aanand-mishra/scoring-api/internal/api"
)

// Success is the envelope of a successful reply.
type Success struct {
	Response any `json:"response"`
	Code     int `json:"code"`
}

// Failure is the envelope of an error reply.
type Failure struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// WriteJSON writes a JSON-encoded body with the given HTTP status code.
//
// IMPORTANT ORDER: Header() → WriteHeader() → body writes.
// Once WriteHeader is called, headers are locked.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// WriteSuccess sends the payload in the success envelope. The HTTP status
// and the embedded code are the same value.
func WriteSuccess(w http.ResponseWriter, code int, payload any) error {
	return WriteJSON(w, code, Success{Response: payload, Code: code})
}

// WriteError sends the failure envelope. An empty message falls back to
// the canonical text for the status.
func WriteError(w http.ResponseWriter, code int, message string) error {
	if message == "" {
		message = api.StatusText(code)
	}
	return WriteJSON(w, code, Failure{Error: message, Code: code})
}
