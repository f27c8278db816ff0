// Package http provides the JSON API server and its handlers.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ResponseBuilder provides a fluent API for building JSON responses.
// It keeps status, headers and body assembly in one place so every
// handler emits the same envelope.
type ResponseBuilder struct {
	statusCode int
	headers    map[string]string
	payload    any
}

// NewResponse creates a new response builder with default 200 status.
func NewResponse() *ResponseBuilder {
	return &ResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *ResponseBuilder) Status(code int) *ResponseBuilder {
	b.statusCode = code
	return b
}

// Header adds a custom header to the response.
func (b *ResponseBuilder) Header(key, value string) *ResponseBuilder {
	b.headers[key] = value
	return b
}

// Body sets the JSON payload for the response.
func (b *ResponseBuilder) Body(payload any) *ResponseBuilder {
	b.payload = payload
	return b
}

// errorEnvelope is the body shape of every non-2xx response.
type errorEnvelope struct {
	Error string `json:"error"`
}

// Error sets an error payload and the given status code.
func (b *ResponseBuilder) Error(code int, message string) *ResponseBuilder {
	b.statusCode = code
	b.payload = errorEnvelope{Error: message}
	return b
}

// BadRequest sets a 400 error response.
func (b *ResponseBuilder) BadRequest(message string) *ResponseBuilder {
	return b.Error(http.StatusBadRequest, message)
}

// NotFound sets a 404 error response.
func (b *ResponseBuilder) NotFound(message string) *ResponseBuilder {
	return b.Error(http.StatusNotFound, message)
}

// Conflict sets a 409 error response.
func (b *ResponseBuilder) Conflict(message string) *ResponseBuilder {
	return b.Error(http.StatusConflict, message)
}

// Internal sets a 500 error response with a generic message so internal
// details never leak to clients.
func (b *ResponseBuilder) Internal() *ResponseBuilder {
	return b.Error(http.StatusInternalServerError, "internal server error")
}

// Write sends the response to the client.
func (b *ResponseBuilder) Write(w http.ResponseWriter) {
	for key, value := range b.headers {
		w.Header().Set(key, value)
	}

	if b.payload == nil {
		w.WriteHeader(b.statusCode)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.statusCode)
	if err := json.NewEncoder(w).Encode(b.payload); err != nil {
		slog.Error("Failed to encode response body", "error", err)
	}
}
