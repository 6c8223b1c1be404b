// Package seeder populates the database with demo accounts, profiles and posts
// for local development.
package seeder

import (
	"context"
	"fmt"

	"log/slog"

	"gorm.io/gorm"

	"devconnect/internal/posts"
	"devconnect/internal/profiles"
	"devconnect/internal/users"
)

// Seeder handles the demo data seeding process.
type Seeder struct {
	DB     *gorm.DB
	Logger *slog.Logger
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{DB: db, Logger: logger}
}

type demoAccount struct {
	name     string
	email    string
	status   string
	skills   string
	company  string
	location string
	post     string
}

var demoAccounts = []demoAccount{
	{
		name: "Ada Park", email: "ada@example.com",
		status: "Senior Developer", skills: "Go, SQL, Docker",
		company: "Acme", location: "Berlin",
		post: "Shipped our new ingestion pipeline today.",
	},
	{
		name: "Ben Ortiz", email: "ben@example.com",
		status: "Backend Engineer", skills: "Go, Redis, Kubernetes",
		company: "Initech", location: "Austin",
		post: "Anyone benchmarked SQLite WAL mode under heavy writes?",
	},
	{
		name: "Chioma Eze", email: "chioma@example.com",
		status: "Full Stack Developer", skills: "TypeScript, Go, Postgres",
		company: "Globex", location: "Lagos",
		post: "Hot take: most services do not need microservices.",
	},
}

// Run seeds the demo accounts, skipping any that already exist.
func (s *Seeder) Run(ctx context.Context) error {
	for _, account := range demoAccounts {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.seedAccount(account); err != nil {
			return fmt.Errorf("failed to seed %s: %w", account.email, err)
		}
	}
	s.Logger.Info("Seeding completed", slog.Int("accounts", len(demoAccounts)))
	return nil
}

func (s *Seeder) seedAccount(account demoAccount) error {
	if _, err := users.FindByEmail(s.DB, account.email); err == nil {
		s.Logger.Debug("Demo account already exists", slog.String("email", account.email))
		return nil
	}

	user, err := users.Register(s.DB, s.Logger, account.name, account.email, "password123")
	if err != nil {
		return err
	}

	_, err = profiles.Upsert(s.DB, s.Logger, user.ID, profiles.UpsertFields{
		Status:   account.status,
		Skills:   account.skills,
		Company:  &account.company,
		Location: &account.location,
	})
	if err != nil {
		return err
	}

	_, err = posts.Create(s.DB, s.Logger, posts.AuthorSnapshot{
		UserID: user.ID,
		Name:   user.Name,
		Avatar: user.Avatar,
	}, account.post)
	return err
}
