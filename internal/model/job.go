package model

import "time"

// Job is a full job record.
type Job struct {
	ID            int       `json:"id"`
	Title         string    `json:"title"`
	Salary        int       `json:"salary"`
	Equity        float64   `json:"equity"`
	CompanyHandle string    `json:"company_handle"`
	DatePosted    time.Time `json:"date_posted"`
}

// JobDetail is a job with its owning company in place of the handle.
type JobDetail struct {
	ID         int       `json:"id"`
	Title      string    `json:"title"`
	Salary     int       `json:"salary"`
	Equity     float64   `json:"equity"`
	DatePosted time.Time `json:"date_posted"`
	Company    Company   `json:"company"`
}

// JobSummary is how a job appears inside a company detail.
type JobSummary struct {
	ID         int       `json:"id"`
	Title      string    `json:"title"`
	Salary     int       `json:"salary"`
	Equity     float64   `json:"equity"`
	DatePosted time.Time `json:"date_posted"`
}

// JobListing is the list projection.
type JobListing struct {
	Title         string `json:"title"`
	CompanyHandle string `json:"company_handle"`
}

type NewJob struct {
	Title         string
	Salary        int
	Equity        float64
	CompanyHandle string
}

// JobPatch excludes company_handle, which is fixed at creation.
type JobPatch struct {
	Title  *string
	Salary *int
	Equity *float64
}

// JobFilter carries the raw list query parameters
// (search, min_salary, max_salary).
type JobFilter map[string]string
