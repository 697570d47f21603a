package service

import (
	"path/filepath"
	"testing"
	"time"

	"efggames/internal/database"
	"efggames/internal/models"
	"efggames/internal/repository"
	"efggames/internal/security"
)

// setupTestDB creates a migrated SQLite database in a temp directory
func setupTestDB(t *testing.T) *database.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping database test in short mode")
	}

	db, err := database.Initialize(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

// createTestUser inserts a parent account and returns it
func createTestUser(t *testing.T, db *database.DB, email string) *models.User {
	t.Helper()
	userRepo := repository.NewUserRepository(db)
	hash, err := security.HashPassword("password123")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	user, err := userRepo.CreateUser(email, hash, "Test Parent", models.AccountTypeParent)
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return user
}

func newTestGameService(db *database.DB) *GameService {
	return NewGameService(db,
		repository.NewGameRepository(db),
		repository.NewRatingRepository(db),
		repository.NewCommentRepository(db),
		repository.NewRateLimitRepository(db),
		3, time.Minute)
}

func newTestRatingService(db *database.DB) *RatingService {
	return NewRatingService(db,
		repository.NewGameRepository(db),
		repository.NewRatingRepository(db))
}

func newTestStatsService(db *database.DB) *StatsService {
	return NewStatsService(db,
		repository.NewStudentRepository(db),
		repository.NewSessionRepository(db))
}
