// Package model defines the data structures used throughout the application.
//
// JSON tags use snake_case to match the column names, so a row read from the
// database and the body written to the client share one vocabulary.
package model

// DefaultDescription is stored when a company is created without one.
const DefaultDescription = "No description available."

// Company is a full company record.
type Company struct {
	Handle       string  `json:"handle"`
	Name         string  `json:"name"`
	NumEmployees int     `json:"num_employees"`
	Description  string  `json:"description"`
	LogoURL      *string `json:"logo_url"`
}

// CompanyDetail is a company with the jobs it owns.
type CompanyDetail struct {
	Company
	Jobs []JobSummary `json:"jobs"`
}

// CompanySummary is the list projection.
type CompanySummary struct {
	Handle string `json:"handle"`
	Name   string `json:"name"`
}

// NewCompany is the input for creating a company. The handle is derived from
// Name.
type NewCompany struct {
	Name         string
	NumEmployees int
	Description  *string
	LogoURL      *string
}

// CompanyPatch holds the fields a company update may change. Nil means
// "leave as is". The handle is immutable.
type CompanyPatch struct {
	Name         *string
	NumEmployees *int
	Description  *string
	LogoURL      *string
}

// CompanyFilter carries the raw list query parameters
// (search, min_employees, max_employees).
type CompanyFilter map[string]string
