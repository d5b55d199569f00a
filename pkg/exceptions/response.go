package exceptions

import (
	"encoding/json"
	"net/http"
)

// ErrorModel is the error payload returned to REST clients.
type ErrorModel struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int    `json:"code"`
}

// ErrorResponse is the JSON envelope of an error response.
type ErrorResponse struct {
	Error ErrorModel `json:"error"`
}

// Response is a translated error: the HTTP status and the body to send.
type Response struct {
	Status int
	Body   ErrorResponse
}

// Message returns the body's message, which is always the mapped error's
// message verbatim.
func (r Response) Message() string {
	return r.Body.Error.Message
}

// Write sends the response as JSON.
func (r Response) Write(w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(r.Status)
	return json.NewEncoder(w).Encode(r.Body)
}
