package service

import (
	"github.com/sakif/jobly/internal/model"
	"github.com/sakif/jobly/internal/repository"
)

func companyFromRow(r repository.Row) model.Company {
	return model.Company{
		Handle:       r.String("handle"),
		Name:         r.String("name"),
		NumEmployees: r.Int("num_employees"),
		Description:  r.String("description"),
		LogoURL:      r.NullString("logo_url"),
	}
}

func jobFromRow(r repository.Row) model.Job {
	return model.Job{
		ID:            r.Int("id"),
		Title:         r.String("title"),
		Salary:        r.Int("salary"),
		Equity:        r.Float64("equity"),
		CompanyHandle: r.String("company_handle"),
		DatePosted:    r.Time("date_posted"),
	}
}

func jobSummaryFromRow(r repository.Row) model.JobSummary {
	return model.JobSummary{
		ID:         r.Int("id"),
		Title:      r.String("title"),
		Salary:     r.Int("salary"),
		Equity:     r.Float64("equity"),
		DatePosted: r.Time("date_posted"),
	}
}

// userFromRow includes the password hash when the row has one.
func userFromRow(r repository.Row) model.User {
	return model.User{
		Username:  r.String("username"),
		Password:  r.String("password"),
		FirstName: r.String("first_name"),
		LastName:  r.String("last_name"),
		Email:     r.String("email"),
		PhotoURL:  r.NullString("photo_url"),
		IsAdmin:   r.Bool("is_admin"),
	}
}

func applicationFromRow(r repository.Row) model.Application {
	return model.Application{
		ID:        r.Int("id"),
		State:     r.String("state"),
		CreatedAt: r.Time("created_at"),
	}
}

// nullable turns an optional string into a bind value: nil for NULL.
func nullable(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
