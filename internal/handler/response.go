// Package handler is the HTTP layer: it parses requests, calls the
// services, and translates domain errors into status codes. Nothing in
// here knows SQL and nothing in the services knows HTTP.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/boardhouse/internal/apperror"
	"github.com/sakif/boardhouse/internal/model"
)

// ErrorResponse is the standard error format returned by all API endpoints:
//
//	{"error": "not_found", "message": "board not found with key 9"}
//
// One shape for every failure, so clients parse 400s and 404s the same way.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// StatusResponse reports the outcome of operations that answer with a
// status word rather than a record — deletes, invites, batch updates.
type StatusResponse struct {
	Status model.Status `json:"status"`
}

// writeJSON sends a JSON response. Headers and status code must go out
// before the body — Encode writes, and written headers are final.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to an HTTP status and sends it. The
// services return apperror values; errors.Is walks the wrap chain, so a
// service error wrapped in context still maps to the right code.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
			errorType = "forbidden"
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
			errorType = "conflict"
		}

		writeJSON(w, status, ErrorResponse{
			Error:   errorType,
			Message: appErr.Message,
		})
		return
	}

	// Unknown error: generic 500. The raw message might carry SQL or
	// paths, so it stays in the logs only.
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}

// pathID extracts a numeric path parameter. A missing or non-numeric value
// reports a validation error without reaching the service.
func pathID(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	if raw == "" {
		return 0, apperror.ValidationFailed(name, name+" is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperror.ValidationFailed(name, name+" must be a number")
	}
	return id, nil
}
