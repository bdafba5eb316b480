package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/jobly/internal/apperror"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", apperror.ValidationFailed("f", "bad"), http.StatusBadRequest},
		{"not found", apperror.NotFound("company", "handle", "x"), http.StatusBadRequest},
		{"conflict", apperror.Conflict("name", "taken"), http.StatusBadRequest},
		{"unauthenticated", apperror.Unauthenticated("who"), http.StatusUnauthorized},
		{"forbidden", apperror.Forbidden("no"), http.StatusUnauthorized},
		{"wrapped", fmt.Errorf("ctx: %w", apperror.Conflict("name", "taken")), http.StatusBadRequest},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestWriteError_DomainError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/companies/ghost", nil)

	WriteError(rec, req, apperror.NotFound("company", "handle", "ghost"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, ErrorResponse{Status: 400, Message: "No company found with handle ghost"}, decodeError(t, rec))
}

func TestWriteError_HidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/jobs", nil)

	WriteError(rec, req, errors.New(`pq: relation "jobs" does not exist`))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, 500, body.Status)
	assert.Equal(t, "Internal Server Error", body.Message)
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	NotFound(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, ErrorResponse{Status: 404, Message: "Not Found"}, decodeError(t, rec))

	rec = httptest.NewRecorder()
	MethodNotAllowed(rec, httptest.NewRequest(http.MethodPut, "/companies", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, 405, decodeError(t, rec).Status)
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteJSON(rec, http.StatusCreated, map[string]string{"token": "abc"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"token":"abc"}`, rec.Body.String())
}
