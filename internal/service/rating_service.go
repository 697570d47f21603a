package service

import (
	"errors"
	"fmt"

	"efggames/internal/database"
	"efggames/internal/models"
	"efggames/internal/repository"
)

// RatingRemove withdraws a user's existing vote
const RatingRemove = "remove"

var ErrInvalidRating = errors.New("invalid rating action")

// RatingService maintains the like/dislike ledger. A user holds at most
// one vote per game; the game's counters always equal the ledger totals,
// so every mutation pairs the rating write with the counter adjustment
// in one transaction.
type RatingService struct {
	db         *database.DB
	gameRepo   *repository.GameRepository
	ratingRepo *repository.RatingRepository
}

// NewRatingService creates a new rating service
func NewRatingService(db *database.DB, gameRepo *repository.GameRepository, ratingRepo *repository.RatingRepository) *RatingService {
	return &RatingService{
		db:         db,
		gameRepo:   gameRepo,
		ratingRepo: ratingRepo,
	}
}

// RateResult reports the counters and the user's vote after a mutation
type RateResult struct {
	Likes      int64  `json:"likes"`
	Dislikes   int64  `json:"dislikes"`
	UserRating string `json:"userRating,omitempty"`
}

// Rate applies one vote action for a user against a materialized game.
// Repeating the user's current vote is a no-op, switching moves one
// count from the old side to the new, and remove withdraws the vote.
func (s *RatingService) Rate(game *models.Game, userID int64, action string) (*RateResult, error) {
	if action != models.RatingLike && action != models.RatingDislike && action != RatingRemove {
		return nil, ErrInvalidRating
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin rating transaction: %w", err)
	}
	defer tx.Rollback()

	existing, err := s.ratingRepo.Get(tx, game.ID, userID)
	if err != nil {
		return nil, err
	}

	switch {
	case action == RatingRemove:
		if existing == nil {
			break
		}
		if err := s.ratingRepo.Delete(tx, game.ID, userID); err != nil {
			return nil, err
		}
		if err := s.adjust(tx, game.ID, existing.Value, -1); err != nil {
			return nil, err
		}

	case existing == nil:
		if err := s.ratingRepo.Insert(tx, game.ID, userID, action); err != nil {
			return nil, err
		}
		if err := s.adjust(tx, game.ID, action, +1); err != nil {
			return nil, err
		}

	case existing.Value == action:
		// Idempotent repeat; counters already reflect this vote.

	default:
		if err := s.ratingRepo.UpdateValue(tx, game.ID, userID, action); err != nil {
			return nil, err
		}
		if err := s.adjust(tx, game.ID, existing.Value, -1); err != nil {
			return nil, err
		}
		if err := s.adjust(tx, game.ID, action, +1); err != nil {
			return nil, err
		}
	}

	updated, err := s.gameRepo.GetByRowID(tx, game.ID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrGameNotFound
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit rating transaction: %w", err)
	}

	result := &RateResult{Likes: updated.Likes, Dislikes: updated.Dislikes}
	if action != RatingRemove {
		result.UserRating = action
	}
	return result, nil
}

// UserRating returns the user's current vote on a game, empty when none
func (s *RatingService) UserRating(game *models.Game, userID int64) (string, error) {
	rating, err := s.ratingRepo.Get(s.db, game.ID, userID)
	if err != nil {
		return "", err
	}
	if rating == nil {
		return "", nil
	}
	return rating.Value, nil
}

func (s *RatingService) adjust(q database.DBTX, gameID int64, value string, delta int64) error {
	if value == models.RatingLike {
		return s.gameRepo.AdjustCounters(q, gameID, delta, 0)
	}
	return s.gameRepo.AdjustCounters(q, gameID, 0, delta)
}
