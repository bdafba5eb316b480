package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/sakif/jobly/internal/apperror"
	"github.com/sakif/jobly/internal/model"
	"github.com/sakif/jobly/internal/query"
	"github.com/sakif/jobly/internal/repository"
)

var jobFilters = query.FilterSet{
	Base: "SELECT title, company_handle FROM jobs",
	Predicates: []query.Predicate{
		query.Search("search", "title"),
		query.Min("min_salary", "salary"),
		query.Max("max_salary", "salary"),
	},
	Ranges: []query.Range{{
		Min:     "min_salary",
		Max:     "max_salary",
		Message: "Query parameters are invalid. Minimum salary must be less than maximum salary.",
	}},
	OrderBy: "date_posted, id",
}

// ApplicationStates lists the accepted values for an application's state.
var ApplicationStates = []string{
	model.StateApplied,
	model.StateInterested,
	model.StateAccepted,
	model.StateRejected,
}

// JobService handles business logic for jobs and applications to them.
type JobService struct {
	exec   repository.Executor
	logger *slog.Logger
}

func NewJobService(exec repository.Executor, logger *slog.Logger) *JobService {
	return &JobService{exec: exec, logger: logger}
}

// List returns {title, company_handle} for every job matching filter,
// oldest first.
func (s *JobService) List(ctx context.Context, filter model.JobFilter) ([]model.JobListing, error) {
	rows, err := jobFilters.Query(ctx, s.exec, filter)
	if err != nil {
		if isAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("listing jobs: %w", err)
	}

	jobs := make([]model.JobListing, 0, len(rows))
	for _, r := range rows {
		jobs = append(jobs, model.JobListing{
			Title:         r.String("title"),
			CompanyHandle: r.String("company_handle"),
		})
	}
	return jobs, nil
}

// Create stores a new job. An unknown company handle is reported as a
// missing company.
func (s *JobService) Create(ctx context.Context, in model.NewJob) (*model.Job, error) {
	if err := checkEquity(in.Equity); err != nil {
		return nil, err
	}

	rows, err := s.exec.Query(ctx, repository.Statement{
		Text: `INSERT INTO jobs (title, salary, equity, company_handle)
		       VALUES ($1, $2, $3, $4)
		       RETURNING id, title, salary, equity, company_handle, date_posted`,
		Args: []any{in.Title, in.Salary, in.Equity, in.CompanyHandle},
	})
	if err != nil {
		if _, ok := repository.AsFault(err, repository.ForeignKeyViolation); ok {
			return nil, companyNotFound(in.CompanyHandle)
		}
		s.logger.Error("failed to create job",
			slog.String("company_handle", in.CompanyHandle),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating job: %w", err)
	}

	job := jobFromRow(rows[0])
	s.logger.Info("job created",
		slog.Int("id", job.ID),
		slog.String("company_handle", job.CompanyHandle),
	)
	return &job, nil
}

// Get returns the job with its owning company.
func (s *JobService) Get(ctx context.Context, id int) (*model.JobDetail, error) {
	rows, err := s.exec.Query(ctx, repository.Statement{
		Text: `SELECT j.id, j.title, j.salary, j.equity, j.date_posted,
		              c.handle, c.name, c.num_employees, c.description, c.logo_url
		       FROM jobs AS j
		       JOIN companies AS c ON j.company_handle = c.handle
		       WHERE j.id = $1`,
		Args: []any{id},
	})
	if err != nil {
		return nil, fmt.Errorf("getting job: %w", err)
	}
	if len(rows) == 0 {
		return nil, jobNotFound(id)
	}

	r := rows[0]
	return &model.JobDetail{
		ID:         r.Int("id"),
		Title:      r.String("title"),
		Salary:     r.Int("salary"),
		Equity:     r.Float64("equity"),
		DatePosted: r.Time("date_posted"),
		Company:    companyFromRow(r),
	}, nil
}

// Update applies the non-nil fields of patch and returns the job with its
// company.
func (s *JobService) Update(ctx context.Context, id int, patch model.JobPatch) (*model.JobDetail, error) {
	var fields []query.Field
	if patch.Title != nil {
		fields = append(fields, query.Field{Column: "title", Value: *patch.Title})
	}
	if patch.Salary != nil {
		fields = append(fields, query.Field{Column: "salary", Value: *patch.Salary})
	}
	if patch.Equity != nil {
		if err := checkEquity(*patch.Equity); err != nil {
			return nil, err
		}
		fields = append(fields, query.Field{Column: "equity", Value: *patch.Equity})
	}
	if len(fields) == 0 {
		return nil, errNoFields
	}

	stmt, err := query.PartialUpdate("jobs", fields, "id", id)
	if err != nil {
		return nil, fmt.Errorf("updating job: %w", err)
	}

	rows, err := s.exec.Query(ctx, stmt)
	if err != nil {
		s.logger.Error("failed to update job", slog.Int("id", id), slog.String("error", err.Error()))
		return nil, fmt.Errorf("updating job: %w", err)
	}
	if len(rows) == 0 {
		return nil, jobNotFound(id)
	}

	s.logger.Info("job updated", slog.Int("id", id), slog.Int("fields", len(fields)))

	// The company lookup is a second, independent statement.
	return s.Get(ctx, id)
}

func (s *JobService) Delete(ctx context.Context, id int) error {
	rows, err := s.exec.Query(ctx, repository.Statement{
		Text: "DELETE FROM jobs WHERE id = $1 RETURNING id",
		Args: []any{id},
	})
	if err != nil {
		return fmt.Errorf("deleting job: %w", err)
	}
	if len(rows) == 0 {
		return jobNotFound(id)
	}

	s.logger.Info("job deleted", slog.Int("id", id))
	return nil
}

// Apply records username's application to job id, or moves an existing
// application to state. It returns the stored state.
func (s *JobService) Apply(ctx context.Context, username string, id int, state string) (string, error) {
	if !slices.Contains(ApplicationStates, state) {
		return "", apperror.ValidationFailed("state",
			"State must be one of: "+strings.Join(ApplicationStates, ", ")+".")
	}

	exists, err := s.exec.Query(ctx, repository.Statement{
		Text: "SELECT id FROM jobs WHERE id = $1",
		Args: []any{id},
	})
	if err != nil {
		return "", fmt.Errorf("applying to job: %w", err)
	}
	if len(exists) == 0 {
		return "", jobNotFound(id)
	}

	rows, err := s.exec.Query(ctx, repository.Statement{
		Text: `INSERT INTO applications (username, job_id, state)
		       VALUES ($1, $2, $3)
		       ON CONFLICT (username, job_id) DO UPDATE SET state = excluded.state
		       RETURNING state`,
		Args: []any{username, id, state},
	})
	if err != nil {
		// The job was just seen, so a key miss here is normally the user.
		if f, ok := repository.AsFault(err, repository.ForeignKeyViolation); ok {
			if f.Field == "job_id" {
				return "", jobNotFound(id)
			}
			return "", userNotFound(username)
		}
		return "", fmt.Errorf("applying to job: %w", err)
	}

	stored := rows[0].String("state")
	s.logger.Info("application recorded",
		slog.String("username", username),
		slog.Int("job_id", id),
		slog.String("state", stored),
	)
	return stored, nil
}

func checkEquity(equity float64) error {
	if equity < 0 || equity > 1 {
		return apperror.ValidationFailed("equity", "Equity must be between 0 and 1.")
	}
	return nil
}

func jobNotFound(id int) error {
	return apperror.NotFound("Job", "id", strconv.Itoa(id))
}
