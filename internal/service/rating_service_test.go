package service

import (
	"errors"
	"testing"

	"efggames/internal/models"
	"efggames/internal/repository"
)

func TestRateLifecycle(t *testing.T) {
	db := setupTestDB(t)
	gameService := newTestGameService(db)
	ratingService := newTestRatingService(db)
	user := createTestUser(t, db, "rater@example.com")

	game, err := gameService.EnsureGame("K", 1)
	if err != nil {
		t.Fatalf("EnsureGame() error = %v", err)
	}

	// First like
	result, err := ratingService.Rate(game, user.ID, models.RatingLike)
	if err != nil {
		t.Fatalf("Rate(like) error = %v", err)
	}
	if result.Likes != 1 || result.Dislikes != 0 {
		t.Errorf("after like: likes=%d dislikes=%d, want 1/0", result.Likes, result.Dislikes)
	}
	if result.UserRating != models.RatingLike {
		t.Errorf("after like: userRating=%q, want %q", result.UserRating, models.RatingLike)
	}

	// Repeating the same vote changes nothing
	result, err = ratingService.Rate(game, user.ID, models.RatingLike)
	if err != nil {
		t.Fatalf("Rate(like again) error = %v", err)
	}
	if result.Likes != 1 || result.Dislikes != 0 {
		t.Errorf("after repeat like: likes=%d dislikes=%d, want 1/0", result.Likes, result.Dislikes)
	}

	// Switching moves the count to the other side
	result, err = ratingService.Rate(game, user.ID, models.RatingDislike)
	if err != nil {
		t.Fatalf("Rate(dislike) error = %v", err)
	}
	if result.Likes != 0 || result.Dislikes != 1 {
		t.Errorf("after switch: likes=%d dislikes=%d, want 0/1", result.Likes, result.Dislikes)
	}
	if result.UserRating != models.RatingDislike {
		t.Errorf("after switch: userRating=%q, want %q", result.UserRating, models.RatingDislike)
	}

	// Remove withdraws the vote
	result, err = ratingService.Rate(game, user.ID, RatingRemove)
	if err != nil {
		t.Fatalf("Rate(remove) error = %v", err)
	}
	if result.Likes != 0 || result.Dislikes != 0 {
		t.Errorf("after remove: likes=%d dislikes=%d, want 0/0", result.Likes, result.Dislikes)
	}
	if result.UserRating != "" {
		t.Errorf("after remove: userRating=%q, want empty", result.UserRating)
	}

	// Removing again stays at zero
	result, err = ratingService.Rate(game, user.ID, RatingRemove)
	if err != nil {
		t.Fatalf("Rate(remove again) error = %v", err)
	}
	if result.Likes != 0 || result.Dislikes != 0 {
		t.Errorf("after second remove: likes=%d dislikes=%d, want 0/0", result.Likes, result.Dislikes)
	}
}

func TestRateTwoUsers(t *testing.T) {
	db := setupTestDB(t)
	gameService := newTestGameService(db)
	ratingService := newTestRatingService(db)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")

	game, err := gameService.EnsureGame("1st", 2)
	if err != nil {
		t.Fatalf("EnsureGame() error = %v", err)
	}

	if _, err := ratingService.Rate(game, alice.ID, models.RatingLike); err != nil {
		t.Fatalf("Rate(alice like) error = %v", err)
	}
	result, err := ratingService.Rate(game, bob.ID, models.RatingDislike)
	if err != nil {
		t.Fatalf("Rate(bob dislike) error = %v", err)
	}
	if result.Likes != 1 || result.Dislikes != 1 {
		t.Errorf("likes=%d dislikes=%d, want 1/1", result.Likes, result.Dislikes)
	}

	// Each user keeps their own vote
	rating, err := ratingService.UserRating(game, alice.ID)
	if err != nil {
		t.Fatalf("UserRating(alice) error = %v", err)
	}
	if rating != models.RatingLike {
		t.Errorf("alice rating = %q, want %q", rating, models.RatingLike)
	}

	// Counters always equal the ledger counts
	ratingRepo := repository.NewRatingRepository(db)
	likes, err := ratingRepo.CountByValue(game.ID, models.RatingLike)
	if err != nil {
		t.Fatalf("CountByValue(like) error = %v", err)
	}
	dislikes, err := ratingRepo.CountByValue(game.ID, models.RatingDislike)
	if err != nil {
		t.Fatalf("CountByValue(dislike) error = %v", err)
	}
	if likes != result.Likes || dislikes != result.Dislikes {
		t.Errorf("ledger counts = %d/%d, counters = %d/%d", likes, dislikes, result.Likes, result.Dislikes)
	}
}

func TestRateInvalidAction(t *testing.T) {
	db := setupTestDB(t)
	gameService := newTestGameService(db)
	ratingService := newTestRatingService(db)
	user := createTestUser(t, db, "rater@example.com")

	game, err := gameService.EnsureGame("K", 1)
	if err != nil {
		t.Fatalf("EnsureGame() error = %v", err)
	}

	if _, err := ratingService.Rate(game, user.ID, "love"); !errors.Is(err, ErrInvalidRating) {
		t.Errorf("Rate(invalid) error = %v, want ErrInvalidRating", err)
	}
}
