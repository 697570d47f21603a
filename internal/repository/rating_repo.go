package repository

import (
	"database/sql"
	"fmt"
	"time"

	"efggames/internal/database"
	"efggames/internal/models"
)

// RatingRepository handles database operations for game ratings.
// Every mutating method takes a DBTX so the rating write and the game
// counter adjustment can share one transaction.
type RatingRepository struct {
	db *database.DB
}

// NewRatingRepository creates a new rating repository
func NewRatingRepository(db *database.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// Get retrieves the rating for a (game, user) pair, nil when none exists
func (r *RatingRepository) Get(q database.DBTX, gameID, userID int64) (*models.GameRating, error) {
	query := `
		SELECT id, game_id, user_id, value, created_at, updated_at
		FROM game_ratings
		WHERE game_id = ? AND user_id = ?
	`
	rating := &models.GameRating{}
	err := q.QueryRow(query, gameID, userID).Scan(
		&rating.ID,
		&rating.GameID,
		&rating.UserID,
		&rating.Value,
		&rating.CreatedAt,
		&rating.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}
	return rating, nil
}

// Insert records a new vote
func (r *RatingRepository) Insert(q database.DBTX, gameID, userID int64, value string) error {
	query := `
		INSERT INTO game_ratings (game_id, user_id, value, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`
	now := time.Now().UTC()
	if _, err := q.Exec(query, gameID, userID, value, now, now); err != nil {
		return fmt.Errorf("failed to insert rating: %w", err)
	}
	return nil
}

// UpdateValue changes an existing vote in place
func (r *RatingRepository) UpdateValue(q database.DBTX, gameID, userID int64, value string) error {
	query := `
		UPDATE game_ratings
		SET value = ?, updated_at = ?
		WHERE game_id = ? AND user_id = ?
	`
	if _, err := q.Exec(query, value, time.Now().UTC(), gameID, userID); err != nil {
		return fmt.Errorf("failed to update rating: %w", err)
	}
	return nil
}

// Delete retracts a vote
func (r *RatingRepository) Delete(q database.DBTX, gameID, userID int64) error {
	query := "DELETE FROM game_ratings WHERE game_id = ? AND user_id = ?"
	if _, err := q.Exec(query, gameID, userID); err != nil {
		return fmt.Errorf("failed to delete rating: %w", err)
	}
	return nil
}

// CountByValue counts the ratings of one value for a game
func (r *RatingRepository) CountByValue(gameID int64, value string) (int64, error) {
	var count int64
	query := "SELECT COUNT(*) FROM game_ratings WHERE game_id = ? AND value = ?"
	err := r.db.QueryRow(query, gameID, value).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count ratings: %w", err)
	}
	return count, nil
}
