// Command seed loads sample users, companies, jobs, and applications.
//
// It writes through the services, so passwords are hashed and handles are
// derived exactly as they are for API requests. Run it against an empty
// database; a second run stops at the first conflict.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/sakif/jobly/internal/auth"
	"github.com/sakif/jobly/internal/config"
	"github.com/sakif/jobly/internal/model"
	"github.com/sakif/jobly/internal/service"
	"github.com/sakif/jobly/internal/storage"
)

const avatar = "https://www.flaticon.com/svg/static/icons/svg/21/21104.svg"

var (
	seedUsers = []model.NewUser{
		{Username: "Test User 1", Password: "test1", FirstName: "Justin", LastName: "Vendettuoli", Email: "jvend@gmail.com", PhotoURL: ptr(avatar)},
		{Username: "Test User 2", Password: "test2", FirstName: "Greg", LastName: "Miller", Email: "gmiller@gmail.com", PhotoURL: ptr(avatar)},
		{Username: "Test User 3", Password: "test3", FirstName: "Mel", LastName: "Messineo", Email: "messy@gmail.com", PhotoURL: ptr(avatar)},
	}

	seedCompanies = []model.NewCompany{
		{Name: "Test Co.", NumEmployees: 50, Description: ptr("First test company"), LogoURL: ptr("https://seekvectorlogo.com/wp-content/uploads/2018/03/mini-vector-logo-small.png")},
		{Name: "Test and Sons", NumEmployees: 100, Description: ptr("Second Test Company"), LogoURL: ptr("https://www.freelogodesign.org/Content/img/logo-samples/bakary.png")},
		{Name: "Testers Inc.", NumEmployees: 150, Description: ptr("Third Test Company"), LogoURL: ptr("https://www.freelogodesign.org/Content/img/logo-samples/barbara.png")},
	}

	// company is an index into seedCompanies.
	seedJobs = []struct {
		title   string
		salary  int
		equity  float64
		company int
	}{
		{"Test Manager", 80000, 0.2, 0},
		{"Test Boss", 400000, 0.75, 0},
		{"Test Tech", 40000, 0.1, 1},
	}

	// job is an index into seedJobs.
	seedApplications = []struct {
		username string
		job      int
		state    string
	}{
		{"Test User 1", 0, model.StateApplied},
		{"Test User 1", 1, model.StateInterested},
		{"Test User 2", 0, model.StateAccepted},
	}
)

func ptr[T any](v T) *T { return &v }

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger := cfg.NewLogger(os.Stdout)

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("data seeded")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	exec, closeDB, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeDB()

	users := service.NewUserService(exec, auth.NewPasswordService(cfg.BcryptWorkFactor), logger)
	companies := service.NewCompanyService(exec, logger)
	jobs := service.NewJobService(exec, logger)

	for i, u := range seedUsers {
		register := users.Register
		if i == 0 {
			register = users.RegisterAdmin
		}
		if _, err := register(ctx, u); err != nil {
			return fmt.Errorf("user %s: %w", u.Username, err)
		}
	}

	handles := make([]string, len(seedCompanies))
	for i, c := range seedCompanies {
		created, err := companies.Create(ctx, c)
		if err != nil {
			return fmt.Errorf("company %s: %w", c.Name, err)
		}
		handles[i] = created.Handle
	}

	jobIDs := make([]int, len(seedJobs))
	for i, j := range seedJobs {
		created, err := jobs.Create(ctx, model.NewJob{
			Title:         j.title,
			Salary:        j.salary,
			Equity:        j.equity,
			CompanyHandle: handles[j.company],
		})
		if err != nil {
			return fmt.Errorf("job %s: %w", j.title, err)
		}
		jobIDs[i] = created.ID
	}

	for _, a := range seedApplications {
		if _, err := jobs.Apply(ctx, a.username, jobIDs[a.job], a.state); err != nil {
			return fmt.Errorf("application %s → %d: %w", a.username, jobIDs[a.job], err)
		}
	}
	return nil
}
