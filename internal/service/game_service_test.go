package service

import (
	"errors"
	"testing"

	"efggames/internal/catalog"
	"efggames/internal/repository"
)

func TestEnsureGameMaterializes(t *testing.T) {
	db := setupTestDB(t)
	gameService := newTestGameService(db)
	gameRepo := repository.NewGameRepository(db)

	// Nothing stored yet
	stored, err := gameRepo.GetByKey("K", 1)
	if err != nil {
		t.Fatalf("GetByKey() error = %v", err)
	}
	if stored != nil {
		t.Fatal("expected empty store before first access")
	}

	game, err := gameService.EnsureGame("K", 1)
	if err != nil {
		t.Fatalf("EnsureGame() error = %v", err)
	}
	if game.Title == "" || game.Grade != "K" || game.GameID != 1 {
		t.Errorf("materialized game = %+v", game)
	}
	if game.Likes != 0 || game.Dislikes != 0 || game.TotalPlays != 0 {
		t.Errorf("new game counters not zero: %+v", game)
	}

	// Second access resolves the same row
	again, err := gameService.EnsureGame("K", 1)
	if err != nil {
		t.Fatalf("EnsureGame() second call error = %v", err)
	}
	if again.ID != game.ID {
		t.Errorf("second access row id = %d, want %d", again.ID, game.ID)
	}
}

func TestEnsureGameUnknown(t *testing.T) {
	db := setupTestDB(t)
	gameService := newTestGameService(db)

	if _, err := gameService.EnsureGame("K", 999); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("EnsureGame(unknown) error = %v, want ErrGameNotFound", err)
	}
	if _, err := gameService.EnsureGame("12th", 1); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("EnsureGame(unknown grade) error = %v, want ErrGameNotFound", err)
	}

	// Unknown keys never leave rows behind
	count, err := repository.NewGameRepository(db).Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 0 {
		t.Errorf("store has %d games after unknown lookups, want 0", count)
	}
}

func TestIncrementPlayRateLimit(t *testing.T) {
	db := setupTestDB(t)
	gameService := newTestGameService(db) // limit 3 per window

	for i := 1; i <= 3; i++ {
		game, limited, err := gameService.IncrementPlay("K", 1, "client-a")
		if err != nil {
			t.Fatalf("IncrementPlay(%d) error = %v", i, err)
		}
		if limited {
			t.Fatalf("IncrementPlay(%d) limited before budget exhausted", i)
		}
		if game.TotalPlays != int64(i) {
			t.Errorf("IncrementPlay(%d) totalPlays = %d, want %d", i, game.TotalPlays, i)
		}
	}

	// Fourth play in the window is not counted
	game, limited, err := gameService.IncrementPlay("K", 1, "client-a")
	if err != nil {
		t.Fatalf("IncrementPlay(limited) error = %v", err)
	}
	if !limited {
		t.Error("expected fourth play to be rate limited")
	}
	if game.TotalPlays != 3 {
		t.Errorf("totalPlays after limit = %d, want 3", game.TotalPlays)
	}

	// A different client has its own budget
	game, limited, err = gameService.IncrementPlay("K", 1, "client-b")
	if err != nil {
		t.Fatalf("IncrementPlay(other client) error = %v", err)
	}
	if limited {
		t.Error("other client should not be limited")
	}
	if game.TotalPlays != 4 {
		t.Errorf("totalPlays = %d, want 4", game.TotalPlays)
	}
}

func TestListGradeMergesCounters(t *testing.T) {
	db := setupTestDB(t)
	gameService := newTestGameService(db)

	if _, _, err := gameService.IncrementPlay("K", 2, "client"); err != nil {
		t.Fatalf("IncrementPlay() error = %v", err)
	}

	games, err := gameService.ListGrade("K")
	if err != nil {
		t.Fatalf("ListGrade() error = %v", err)
	}
	if len(games) != len(catalog.ByGrade("K")) {
		t.Fatalf("ListGrade() returned %d games, want %d", len(games), len(catalog.ByGrade("K")))
	}

	for _, g := range games {
		want := int64(0)
		if g.GameID == 2 {
			want = 1
		}
		if g.TotalPlays != want {
			t.Errorf("game %d totalPlays = %d, want %d", g.GameID, g.TotalPlays, want)
		}
	}
}

func TestComments(t *testing.T) {
	db := setupTestDB(t)
	gameService := newTestGameService(db)
	user := createTestUser(t, db, "commenter@example.com")

	comment, err := gameService.AddComment("2nd", 1, user.ID, "My kid loves this one")
	if err != nil {
		t.Fatalf("AddComment() error = %v", err)
	}
	if comment.Body != "My kid loves this one" {
		t.Errorf("comment body = %q", comment.Body)
	}

	second, err := gameService.AddComment("2nd", 1, user.ID, "Still great")
	if err != nil {
		t.Fatalf("AddComment() second error = %v", err)
	}

	comments, err := gameService.ListComments("2nd", 1)
	if err != nil {
		t.Fatalf("ListComments() error = %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("ListComments() returned %d comments, want 2", len(comments))
	}
	// Newest first
	if comments[0].ID != second.ID {
		t.Errorf("first comment id = %d, want newest %d", comments[0].ID, second.ID)
	}

	// A known but never-commented game lists empty, not an error
	empty, err := gameService.ListComments("2nd", 2)
	if err != nil {
		t.Fatalf("ListComments(empty) error = %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("ListComments(empty) returned %d comments", len(empty))
	}

	if _, err := gameService.ListComments("2nd", 999); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("ListComments(unknown) error = %v, want ErrGameNotFound", err)
	}
}

func TestInitCatalog(t *testing.T) {
	db := setupTestDB(t)
	gameService := newTestGameService(db)

	seeded, err := gameService.InitCatalog()
	if err != nil {
		t.Fatalf("InitCatalog() error = %v", err)
	}
	if seeded != len(catalog.All()) {
		t.Errorf("InitCatalog() seeded %d games, want %d", seeded, len(catalog.All()))
	}

	if _, err := gameService.InitCatalog(); !errors.Is(err, ErrCatalogSeeded) {
		t.Errorf("InitCatalog() on seeded store error = %v, want ErrCatalogSeeded", err)
	}
}
