package database

import (
	"context"
	"path/filepath"
	"testing"
)

// TestDatabaseIntegration tests the complete database lifecycle
func TestDatabaseIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, err := Initialize(filepath.Join(t.TempDir(), "test_integration.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("Failed to ping database: %v", err)
	}

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	// Migrations must have created every table
	tables := []string{"users", "auth_sessions", "games", "game_ratings", "comments", "students", "game_sessions", "rate_limits"}

	for _, table := range tables {
		query := "SELECT name FROM sqlite_master WHERE type='table' AND name=?"
		var name string
		err := db.QueryRowContext(ctx, query, table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s not found: %v", table, err)
		}
	}

	// Re-running migrations is a no-op
	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Re-running migrations failed: %v", err)
	}
}

// TestDatabaseTransactions tests transaction support with rollback
func TestDatabaseTransactions(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, err := Initialize(filepath.Join(t.TempDir(), "test_transactions.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}

	_, err = tx.Exec(`
		INSERT INTO games (grade, game_id, title, description, thumbnail_url, play_url,
		                   likes, dislikes, total_plays, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, 0, 0, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	`, "K", 1, "Test Game", "A game", "/t.png", "https://example.com/play")
	if err != nil {
		t.Fatalf("Failed to insert in transaction: %v", err)
	}

	if err := tx.Rollback(); err != nil {
		t.Fatalf("Failed to rollback: %v", err)
	}

	var count int64
	if err := db.QueryRow("SELECT COUNT(*) FROM games").Scan(&count); err != nil {
		t.Fatalf("Failed to count games: %v", err)
	}
	if count != 0 {
		t.Errorf("games count after rollback = %d, want 0", count)
	}
}

// TestExecInsertIgnore verifies the insert-if-absent primitive
func TestExecInsertIgnore(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, err := Initialize(filepath.Join(t.TempDir(), "test_insert_ignore.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	query := `
		INSERT INTO games (grade, game_id, title, description, thumbnail_url, play_url,
		                   likes, dislikes, total_plays, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, 0, 0, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	`
	args := []interface{}{"K", 1, "Test Game", "A game", "/t.png", "https://example.com/play"}

	inserted, err := db.ExecInsertIgnore(query, args...)
	if err != nil {
		t.Fatalf("ExecInsertIgnore() error = %v", err)
	}
	if inserted != 1 {
		t.Errorf("first insert affected %d rows, want 1", inserted)
	}

	// Same (grade, game_id) key is silently skipped
	inserted, err = db.ExecInsertIgnore(query, args...)
	if err != nil {
		t.Fatalf("ExecInsertIgnore() duplicate error = %v", err)
	}
	if inserted != 0 {
		t.Errorf("duplicate insert affected %d rows, want 0", inserted)
	}
}
