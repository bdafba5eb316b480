package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/sakif/jobly/internal/apperror"
	"github.com/sakif/jobly/internal/model"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// validate is safe for concurrent use and caches struct metadata, so one
// instance serves every handler.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names ("num_employees", not "NumEmployees").
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// =========================================================================
// REQUEST BODIES
// =========================================================================
//
// Pointer fields distinguish "absent" from the zero value. Unknown keys are
// ignored, which is how a user PATCH carrying "password" or "is_admin" has
// those keys dropped before they reach the service.

type companyCreateRequest struct {
	Name         string  `json:"name" validate:"required,max=255"`
	NumEmployees *int    `json:"num_employees" validate:"required,min=0"`
	Description  *string `json:"description"`
	LogoURL      *string `json:"logo_url"`
}

func (r companyCreateRequest) model() model.NewCompany {
	return model.NewCompany{
		Name:         r.Name,
		NumEmployees: *r.NumEmployees,
		Description:  r.Description,
		LogoURL:      r.LogoURL,
	}
}

type companyUpdateRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=255"`
	NumEmployees *int    `json:"num_employees" validate:"omitempty,min=0"`
	Description  *string `json:"description"`
	LogoURL      *string `json:"logo_url"`
}

func (r companyUpdateRequest) model() model.CompanyPatch {
	return model.CompanyPatch(r)
}

type jobCreateRequest struct {
	Title         string   `json:"title" validate:"required"`
	Salary        *int     `json:"salary" validate:"required,min=0"`
	Equity        *float64 `json:"equity" validate:"required,min=0,max=1"`
	CompanyHandle string   `json:"company_handle" validate:"required"`
}

func (r jobCreateRequest) model() model.NewJob {
	return model.NewJob{
		Title:         r.Title,
		Salary:        *r.Salary,
		Equity:        *r.Equity,
		CompanyHandle: r.CompanyHandle,
	}
}

type jobUpdateRequest struct {
	Title  *string  `json:"title" validate:"omitempty,min=1"`
	Salary *int     `json:"salary" validate:"omitempty,min=0"`
	Equity *float64 `json:"equity" validate:"omitempty,min=0,max=1"`
}

func (r jobUpdateRequest) model() model.JobPatch {
	return model.JobPatch(r)
}

type applyRequest struct {
	State string `json:"state" validate:"required,oneof=applied interested accepted rejected"`
}

type userCreateRequest struct {
	Username  string  `json:"username" validate:"required,min=1,max=30"`
	Password  string  `json:"password" validate:"required,min=1,max=72"`
	FirstName string  `json:"first_name" validate:"required"`
	LastName  string  `json:"last_name" validate:"required"`
	Email     string  `json:"email" validate:"required,email"`
	PhotoURL  *string `json:"photo_url" validate:"omitempty,url"`
}

func (r userCreateRequest) model() model.NewUser {
	return model.NewUser(r)
}

type userUpdateRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=1"`
	LastName  *string `json:"last_name" validate:"omitempty,min=1"`
	Email     *string `json:"email" validate:"omitempty,email"`
	PhotoURL  *string `json:"photo_url" validate:"omitempty,url"`
}

func (r userUpdateRequest) model() model.UserPatch {
	return model.UserPatch(r)
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// =========================================================================
// DECODING & VALIDATION
// =========================================================================

// decode reads a JSON body into dst and validates it.
func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return bodyError(err)
	}
	return validationError(validate.Struct(dst))
}

func bodyError(err error) error {
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return apperror.ValidationFailed("", "Request body is required.")
	case errors.As(err, &typeErr):
		return apperror.ValidationFailed(typeErr.Field,
			fmt.Sprintf("%s must be of type %s", typeErr.Field, jsonType(typeErr.Type)))
	default:
		return apperror.ValidationFailed("", "Invalid JSON body")
	}
}

// validationError joins every failed rule into one message.
func validationError(err error) error {
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return apperror.ValidationFailed("", "Invalid request body")
	}

	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return apperror.ValidationFailed(errs[0].Field(), strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "email":
		return field + " must be a valid email address"
	case "url":
		return field + " must be a valid URL"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return field + " is invalid"
	}
}

func jsonType(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Int, reflect.Int64, reflect.Int32:
		return "integer"
	case reflect.Float64, reflect.Float32:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.String:
		return "string"
	default:
		return t.String()
	}
}

// =========================================================================
// PATH & QUERY
// =========================================================================

// jobID parses the {id} path parameter.
func jobID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return 0, apperror.ValidationFailed("id", "Id must be an integer.")
	}
	return id, nil
}

// queryParams flattens the query string, keeping the first value per key.
func queryParams(r *http.Request) map[string]string {
	values := r.URL.Query()
	params := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}
	return params
}
