package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/balkashynov/timetrack/internal/config"
	"github.com/balkashynov/timetrack/internal/models"
)

// setupTestDB points the package at a throwaway sqlite file. Each test gets
// a fresh schema.
func setupTestDB(t *testing.T) *config.Config {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.DatabasePath = filepath.Join(t.TempDir(), "test.db")
	cfg.DefaultHourlyRate = 50

	if err := Initialize(cfg); err != nil {
		t.Fatalf("initialize test db: %v", err)
	}
	t.Cleanup(func() {
		if err := Close(); err != nil {
			t.Errorf("close test db: %v", err)
		}
	})

	return cfg
}

// seedTeam creates an admin, a manager and an employee reporting to the
// manager
func seedTeam(t *testing.T) (admin, manager, employee *models.User) {
	t.Helper()

	var err error
	admin, err = CreateUser(CreateUserRequest{Email: "root@example.com", FirstName: "Ada", LastName: "Admin", Role: "admin"})
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}
	manager, err = CreateUser(CreateUserRequest{Email: "mgr@example.com", FirstName: "Mia", LastName: "Manager", Role: "manager"})
	if err != nil {
		t.Fatalf("create manager: %v", err)
	}
	employee, err = CreateUser(CreateUserRequest{Email: "dev@example.com", FirstName: "Devin", LastName: "Dev", ManagerEmail: manager.Email})
	if err != nil {
		t.Fatalf("create employee: %v", err)
	}
	return admin, manager, employee
}

// today returns the current date at midnight, always inside every role's
// entry window
func today() time.Time {
	return models.DateOf(time.Now())
}
