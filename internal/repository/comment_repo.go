package repository

import (
	"fmt"
	"time"

	"efggames/internal/database"
	"efggames/internal/models"
)

// CommentRepository handles database operations for game comments
type CommentRepository struct {
	db *database.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *database.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Insert appends a comment. Comments are never edited or deleted.
func (r *CommentRepository) Insert(gameID int64, grade, body string, userID int64) (*models.Comment, error) {
	query := `
		INSERT INTO comments (game_id, grade, body, user_id, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	now := time.Now().UTC()
	id, err := r.db.ExecReturningID(query, gameID, grade, body, userID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert comment: %w", err)
	}

	return &models.Comment{
		ID:        id,
		GameID:    gameID,
		Grade:     grade,
		Body:      body,
		UserID:    userID,
		CreatedAt: now,
	}, nil
}

// ListByGame retrieves a game's comments, newest first
func (r *CommentRepository) ListByGame(gameID int64) ([]models.Comment, error) {
	query := `
		SELECT id, game_id, grade, body, user_id, created_at
		FROM comments
		WHERE game_id = ?
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var comment models.Comment
		err := rows.Scan(
			&comment.ID,
			&comment.GameID,
			&comment.Grade,
			&comment.Body,
			&comment.UserID,
			&comment.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, comment)
	}

	return comments, rows.Err()
}
