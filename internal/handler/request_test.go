package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/jobly/internal/apperror"
)

func jsonRequest(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
}

// assertValidation checks err is a validation error carrying message.
func assertValidation(t *testing.T, err error, message string) {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.Equal(t, message, err.Error())
}

// =========================================================================
// DECODE TESTS
// =========================================================================

func TestDecode_ValidCompany(t *testing.T) {
	var req companyCreateRequest

	err := decode(jsonRequest(`{"name":"Acme","num_employees":0,"logo_url":"L"}`), &req)

	require.NoError(t, err)
	got := req.model()
	assert.Equal(t, "Acme", got.Name)
	assert.Equal(t, 0, got.NumEmployees, "zero employees is present, not missing")
	assert.Nil(t, got.Description)
	require.NotNil(t, got.LogoURL)
	assert.Equal(t, "L", *got.LogoURL)
}

func TestDecode_ListsEveryFailure(t *testing.T) {
	var req companyCreateRequest

	err := decode(jsonRequest(`{}`), &req)

	assertValidation(t, err, "name is required; num_employees is required")
}

func TestDecode_Rules(t *testing.T) {
	tests := []struct {
		name string
		dst  any
		body string
		want string
	}{
		{
			name: "negative employees",
			dst:  &companyCreateRequest{},
			body: `{"name":"Acme","num_employees":-1}`,
			want: "num_employees must be greater than or equal to 0",
		},
		{
			name: "equity above one",
			dst:  &jobCreateRequest{},
			body: `{"title":"t","salary":1,"equity":999,"company_handle":"c"}`,
			want: "equity must be less than or equal to 1",
		},
		{
			name: "bad email",
			dst:  &userCreateRequest{},
			body: `{"username":"u","password":"pw","first_name":"F","last_name":"L","email":"nope"}`,
			want: "email must be a valid email address",
		},
		{
			name: "password over bcrypt limit",
			dst:  &userCreateRequest{},
			body: `{"username":"u","password":"` + strings.Repeat("x", 73) + `","first_name":"F","last_name":"L","email":"u@example.com"}`,
			want: "password must be at most 72 characters",
		},
		{
			name: "unknown state",
			dst:  &applyRequest{},
			body: `{"state":"hired"}`,
			want: "state must be one of: applied, interested, accepted, rejected",
		},
		{
			name: "empty patch title",
			dst:  &jobUpdateRequest{},
			body: `{"title":""}`,
			want: "title must be at least 1 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertValidation(t, decode(jsonRequest(tt.body), tt.dst), tt.want)
		})
	}
}

func TestDecode_WrongType(t *testing.T) {
	var req companyCreateRequest

	err := decode(jsonRequest(`{"name":"Acme","num_employees":"ten"}`), &req)

	assertValidation(t, err, "num_employees must be of type integer")
}

func TestDecode_MalformedAndEmpty(t *testing.T) {
	var req loginRequest

	assertValidation(t, decode(jsonRequest(`{"username":`), &req), "Invalid JSON body")
	assertValidation(t, decode(jsonRequest(``), &req), "Request body is required.")
}

func TestDecode_UserPatchIgnoresPrivilegedKeys(t *testing.T) {
	var req userUpdateRequest

	err := decode(jsonRequest(`{"first_name":"New","is_admin":true,"password":"x"}`), &req)

	require.NoError(t, err)
	patch := req.model()
	require.NotNil(t, patch.FirstName)
	assert.Equal(t, "New", *patch.FirstName)
	assert.Nil(t, patch.Email)
}

// =========================================================================
// PATH & QUERY TESTS
// =========================================================================

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestJobID(t *testing.T) {
	r := withURLParam(httptest.NewRequest(http.MethodGet, "/jobs/42", nil), "id", "42")
	id, err := jobID(r)
	require.NoError(t, err)
	assert.Equal(t, 42, id)

	r = withURLParam(httptest.NewRequest(http.MethodGet, "/jobs/abc", nil), "id", "abc")
	_, err = jobID(r)
	assertValidation(t, err, "Id must be an integer.")
}

func TestQueryParams_FirstValueWins(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/companies?search=net&min_employees=5&search=other", nil)

	assert.Equal(t, map[string]string{"search": "net", "min_employees": "5"}, queryParams(r))
}
