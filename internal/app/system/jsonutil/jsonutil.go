// Package jsonutil provides helper functions for JSON API responses.
//
// Every public endpoint answers with one of two envelopes:
//
//	{"message": "...", "success": true}
//	{"error": "...", "detail": "...", "success": false}
//
// Use these helpers in handlers so the envelopes, Content-Type header and
// status mapping stay consistent.
package jsonutil

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/stratalaunch/internal/app/system/apperr"
)

// Ack is the success envelope returned by the submission endpoints.
type Ack struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// Failure is the error envelope. Detail repeats Error for clients that read
// the "detail" key.
type Failure struct {
	Error   string `json:"error"`
	Detail  string `json:"detail"`
	Success bool   `json:"success"`
}

// JSON writes a JSON response with the given status code.
//
// Usage:
//
//	jsonutil.JSON(w, http.StatusOK, map[string]any{
//	    "status": "healthy",
//	})
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// OK writes a 200 OK JSON response.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// Acknowledge writes a success envelope with the given status.
func Acknowledge(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Ack{Message: message, Success: true})
}

// Error writes an error envelope with the given status code.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Failure{Error: message, Detail: message, Success: false})
}

// Fail writes the error envelope for err, choosing the status from its kind.
// Only the client-safe message is written; log the error itself separately.
func Fail(w http.ResponseWriter, err error) {
	Error(w, apperr.HTTPStatus(err), apperr.Message(err))
}

// NotFound writes a 404 Not Found error response.
func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message)
}

// MethodNotAllowed writes a 405 Method Not Allowed error response.
func MethodNotAllowed(w http.ResponseWriter, message string) {
	Error(w, http.StatusMethodNotAllowed, message)
}
