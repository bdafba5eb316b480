package handler

// RESPONSE HELPERS:
// Every handler writes through WriteJSON and WriteError so all responses
// share one shape.
//
// CONSISTENT ERROR FORMAT:
//
//	{"status": 400, "message": "No company found with handle ghost"}
//
// WriteError is the single place that maps a domain error kind to a status
// code. The gate in package auth also renders its rejections through it.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/jobly/internal/apperror"
)

// ErrorResponse is the error body returned by every endpoint.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// MessageResponse is the body for confirmations such as "Company deleted".
type MessageResponse struct {
	Message string `json:"message"`
}

// WriteJSON sends a JSON response with the given status code.
//
// Headers and status must be set BEFORE the body is written; once Encode
// writes, later header changes are silently ignored.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// StatusFor maps an error onto its HTTP status.
//
// Not-found and conflict are reported as 400, and both authorization
// failures as 401, matching the API's published contract.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrValidation),
		errors.Is(err, apperror.ErrNotFound),
		errors.Is(err, apperror.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrUnauthenticated),
		errors.Is(err, apperror.ErrForbidden):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// WriteError maps a domain error to its status code and sends it.
//
// Unknown errors become a generic 500. NEVER expose internal error text:
// it can contain SQL, file paths or driver details.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)

	var appErr *apperror.AppError
	if status != http.StatusInternalServerError && errors.As(err, &appErr) {
		WriteJSON(w, status, ErrorResponse{Status: status, Message: appErr.Message})
		return
	}

	slog.Error("unhandled error",
		slog.String("request_id", chimiddleware.GetReqID(r.Context())),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
		Status:  http.StatusInternalServerError,
		Message: "Internal Server Error",
	})
}

// NotFound is the router's fallback for unknown paths.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusNotFound, ErrorResponse{Status: http.StatusNotFound, Message: "Not Found"})
}

// MethodNotAllowed is the router's fallback for a known path with the wrong verb.
func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusMethodNotAllowed, ErrorResponse{
		Status:  http.StatusMethodNotAllowed,
		Message: "Method Not Allowed",
	})
}
