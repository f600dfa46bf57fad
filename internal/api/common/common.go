// Package common provides shared HTTP utility functions for API handlers.
package common

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/stacklok/sobject-gateway/internal/filtering"
	"github.com/stacklok/sobject-gateway/internal/gateway"
	"github.com/stacklok/sobject-gateway/internal/query"
	"github.com/stacklok/sobject-gateway/internal/sobjectapi"
)

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteJSONResponse writes a JSON response with the given data
func WriteJSONResponse(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// WriteErrorResponse writes a standardized error response
func WriteErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	WriteJSONResponse(w, ErrorResponse{Error: message}, statusCode)
}

// StatusForError maps gateway errors to HTTP status codes
func StatusForError(err error) int {
	var httpErr *sobjectapi.HTTPError

	switch {
	case errors.Is(err, query.ErrInvalidQuery):
		return http.StatusBadRequest
	case errors.Is(err, gateway.ErrClassNotVisible):
		return http.StatusNotFound
	case errors.Is(err, filtering.ErrNoFieldsRemaining):
		return http.StatusUnprocessableEntity
	case errors.Is(err, sobjectapi.ErrMaxPathLength):
		return http.StatusRequestURITooLong
	case errors.As(err, &httpErr):
		if httpErr.StatusCode == http.StatusNotFound {
			return http.StatusNotFound
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes err with the status StatusForError picks
func WriteError(w http.ResponseWriter, err error) {
	WriteErrorResponse(w, err.Error(), StatusForError(err))
}
