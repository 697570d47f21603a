package repository

import (
	"database/sql"
	"fmt"
	"time"

	"efggames/internal/database"
	"efggames/internal/models"
)

// GameRepository handles database operations for game documents
type GameRepository struct {
	db *database.DB
}

// NewGameRepository creates a new game repository
func NewGameRepository(db *database.DB) *GameRepository {
	return &GameRepository{db: db}
}

const gameColumns = `id, grade, game_id, title, description, thumbnail_url, play_url,
		       likes, dislikes, total_plays, created_at, updated_at`

func scanGame(row *sql.Row) (*models.Game, error) {
	game := &models.Game{}
	err := row.Scan(
		&game.ID,
		&game.Grade,
		&game.GameID,
		&game.Title,
		&game.Description,
		&game.ThumbnailURL,
		&game.PlayURL,
		&game.Likes,
		&game.Dislikes,
		&game.TotalPlays,
		&game.CreatedAt,
		&game.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan game: %w", err)
	}
	return game, nil
}

// GetByKey retrieves a game by its natural (grade, id) identity.
// Returns nil when no document has been materialized for the key.
func (r *GameRepository) GetByKey(grade string, gameID int64) (*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE grade = ? AND game_id = ?
	`
	return scanGame(r.db.QueryRow(query, grade, gameID))
}

// GetByRowID retrieves a game by its surrogate row key. Runs against q so
// it can participate in a rating transaction.
func (r *GameRepository) GetByRowID(q database.DBTX, id int64) (*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE id = ?
	`
	return scanGame(q.QueryRow(query, id))
}

// InsertIfAbsent materializes a game document with zeroed counters.
// Keyed on the UNIQUE(grade, game_id) index, so concurrent first accesses
// cannot produce duplicates; returns true when this call won the insert.
func (r *GameRepository) InsertIfAbsent(game *models.Game) (bool, error) {
	query := `
		INSERT INTO games (grade, game_id, title, description, thumbnail_url, play_url,
		                   likes, dislikes, total_plays, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, 0, 0, ?, ?)
	`
	now := time.Now().UTC()
	inserted, err := r.db.ExecInsertIgnore(query,
		game.Grade, game.GameID, game.Title, game.Description,
		game.ThumbnailURL, game.PlayURL, now, now)
	if err != nil {
		return false, fmt.Errorf("failed to insert game: %w", err)
	}
	return inserted > 0, nil
}

// IncrementPlays atomically bumps the play counter and returns the
// updated document
func (r *GameRepository) IncrementPlays(grade string, gameID int64) (*models.Game, error) {
	query := `
		UPDATE games
		SET total_plays = total_plays + 1, updated_at = ?
		WHERE grade = ? AND game_id = ?
	`
	if _, err := r.db.Exec(query, time.Now().UTC(), grade, gameID); err != nil {
		return nil, fmt.Errorf("failed to increment plays: %w", err)
	}
	return r.GetByKey(grade, gameID)
}

// AdjustCounters applies like/dislike deltas atomically, flooring at zero.
// Runs against q so the adjustment and the rating write share a transaction.
func (r *GameRepository) AdjustCounters(q database.DBTX, id int64, likesDelta, dislikesDelta int64) error {
	query := `
		UPDATE games
		SET likes = CASE WHEN likes + ? < 0 THEN 0 ELSE likes + ? END,
		    dislikes = CASE WHEN dislikes + ? < 0 THEN 0 ELSE dislikes + ? END,
		    updated_at = ?
		WHERE id = ?
	`
	_, err := q.Exec(query, likesDelta, likesDelta, dislikesDelta, dislikesDelta, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to adjust counters: %w", err)
	}
	return nil
}

// ListByGrade returns all materialized game documents for a grade
func (r *GameRepository) ListByGrade(grade string) ([]models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE grade = ?
		ORDER BY game_id ASC
	`
	rows, err := r.db.Query(query, grade)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	return collectGames(rows)
}

// ListAll returns every materialized game document
func (r *GameRepository) ListAll() ([]models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		ORDER BY grade ASC, game_id ASC
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	return collectGames(rows)
}

// Count returns the number of materialized game documents
func (r *GameRepository) Count() (int64, error) {
	var count int64
	err := r.db.QueryRow("SELECT COUNT(*) FROM games").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count games: %w", err)
	}
	return count, nil
}

func collectGames(rows *sql.Rows) ([]models.Game, error) {
	var games []models.Game
	for rows.Next() {
		var game models.Game
		err := rows.Scan(
			&game.ID,
			&game.Grade,
			&game.GameID,
			&game.Title,
			&game.Description,
			&game.ThumbnailURL,
			&game.PlayURL,
			&game.Likes,
			&game.Dislikes,
			&game.TotalPlays,
			&game.CreatedAt,
			&game.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, game)
	}
	return games, rows.Err()
}
