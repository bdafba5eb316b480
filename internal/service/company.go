package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/jobly/internal/apperror"
	"github.com/sakif/jobly/internal/model"
	"github.com/sakif/jobly/internal/query"
	"github.com/sakif/jobly/internal/repository"
)

const companyColumns = "handle, name, num_employees, description, logo_url"

var companyFilters = query.FilterSet{
	Base: "SELECT handle, name FROM companies",
	Predicates: []query.Predicate{
		query.Search("search", "name"),
		query.Min("min_employees", "num_employees"),
		query.Max("max_employees", "num_employees"),
	},
	Ranges: []query.Range{{
		Min:     "min_employees",
		Max:     "max_employees",
		Message: "Query parameters are invalid. Minimum number of employees must be less than maximum number of employees.",
	}},
	OrderBy: "name",
}

var companyConflicts = conflictMessages{
	"name":   "Company name already exists.",
	"handle": "Company handle already exists.",
}

// CompanyService handles business logic for companies.
type CompanyService struct {
	exec   repository.Executor
	logger *slog.Logger
}

func NewCompanyService(exec repository.Executor, logger *slog.Logger) *CompanyService {
	return &CompanyService{exec: exec, logger: logger}
}

// List returns {handle, name} for every company matching filter.
func (s *CompanyService) List(ctx context.Context, filter model.CompanyFilter) ([]model.CompanySummary, error) {
	rows, err := companyFilters.Query(ctx, s.exec, filter)
	if err != nil {
		if isAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("listing companies: %w", err)
	}

	companies := make([]model.CompanySummary, 0, len(rows))
	for _, r := range rows {
		companies = append(companies, model.CompanySummary{
			Handle: r.String("handle"),
			Name:   r.String("name"),
		})
	}
	return companies, nil
}

// Create stores a new company. The handle is the slug of the name.
func (s *CompanyService) Create(ctx context.Context, in model.NewCompany) (*model.Company, error) {
	handle := Slugify(in.Name)
	if handle == "" {
		return nil, apperror.ValidationFailed("name", "Company name must contain a letter or digit.")
	}
	if in.NumEmployees < 0 {
		return nil, apperror.ValidationFailed("num_employees", "Number of employees must not be negative.")
	}

	description := model.DefaultDescription
	if in.Description != nil {
		description = *in.Description
	}

	rows, err := s.exec.Query(ctx, repository.Statement{
		Text: `INSERT INTO companies (handle, name, num_employees, description, logo_url)
		       VALUES ($1, $2, $3, $4, $5)
		       RETURNING ` + companyColumns,
		Args: []any{handle, in.Name, in.NumEmployees, description, nullable(in.LogoURL)},
	})
	if err != nil {
		return nil, s.fault("creating company", handle, err)
	}

	company := companyFromRow(rows[0])
	s.logger.Info("company created", slog.String("handle", company.Handle))
	return &company, nil
}

// Get returns the company and its jobs, newest last.
func (s *CompanyService) Get(ctx context.Context, handle string) (*model.CompanyDetail, error) {
	rows, err := s.exec.Query(ctx, repository.Statement{
		Text: "SELECT " + companyColumns + " FROM companies WHERE handle = $1",
		Args: []any{handle},
	})
	if err != nil {
		return nil, fmt.Errorf("getting company: %w", err)
	}
	if len(rows) == 0 {
		return nil, companyNotFound(handle)
	}

	jobRows, err := s.exec.Query(ctx, repository.Statement{
		Text: `SELECT id, title, salary, equity, date_posted FROM jobs
		       WHERE company_handle = $1 ORDER BY date_posted, id`,
		Args: []any{handle},
	})
	if err != nil {
		return nil, fmt.Errorf("getting company jobs: %w", err)
	}

	detail := &model.CompanyDetail{
		Company: companyFromRow(rows[0]),
		Jobs:    make([]model.JobSummary, 0, len(jobRows)),
	}
	for _, r := range jobRows {
		detail.Jobs = append(detail.Jobs, jobSummaryFromRow(r))
	}
	return detail, nil
}

// Update applies the non-nil fields of patch.
func (s *CompanyService) Update(ctx context.Context, handle string, patch model.CompanyPatch) (*model.Company, error) {
	var fields []query.Field
	if patch.Name != nil {
		fields = append(fields, query.Field{Column: "name", Value: *patch.Name})
	}
	if patch.NumEmployees != nil {
		if *patch.NumEmployees < 0 {
			return nil, apperror.ValidationFailed("num_employees", "Number of employees must not be negative.")
		}
		fields = append(fields, query.Field{Column: "num_employees", Value: *patch.NumEmployees})
	}
	if patch.Description != nil {
		fields = append(fields, query.Field{Column: "description", Value: *patch.Description})
	}
	if patch.LogoURL != nil {
		fields = append(fields, query.Field{Column: "logo_url", Value: *patch.LogoURL})
	}
	if len(fields) == 0 {
		return nil, errNoFields
	}

	stmt, err := query.PartialUpdate("companies", fields, "handle", handle)
	if err != nil {
		return nil, fmt.Errorf("updating company: %w", err)
	}

	rows, err := s.exec.Query(ctx, stmt)
	if err != nil {
		return nil, s.fault("updating company", handle, err)
	}
	if len(rows) == 0 {
		return nil, companyNotFound(handle)
	}

	company := companyFromRow(rows[0])
	s.logger.Info("company updated", slog.String("handle", handle), slog.Int("fields", len(fields)))
	return &company, nil
}

// Delete removes the company. Its jobs go with it (ON DELETE CASCADE).
func (s *CompanyService) Delete(ctx context.Context, handle string) error {
	rows, err := s.exec.Query(ctx, repository.Statement{
		Text: "DELETE FROM companies WHERE handle = $1 RETURNING handle",
		Args: []any{handle},
	})
	if err != nil {
		return fmt.Errorf("deleting company: %w", err)
	}
	if len(rows) == 0 {
		return companyNotFound(handle)
	}

	s.logger.Info("company deleted", slog.String("handle", handle))
	return nil
}

func (s *CompanyService) fault(op, handle string, err error) error {
	err = companyConflicts.translate(op, err)
	if !isAppError(err) {
		s.logger.Error("company write failed",
			slog.String("handle", handle),
			slog.String("error", err.Error()),
		)
	}
	return err
}

func companyNotFound(handle string) error {
	return apperror.NotFound("company", "handle", handle)
}
