package service

import (
	"errors"
	"fmt"
	"time"

	"efggames/internal/catalog"
	"efggames/internal/database"
	"efggames/internal/models"
	"efggames/internal/repository"
	"efggames/internal/validation"
)

var (
	ErrGameNotFound  = errors.New("game not found")
	ErrCatalogSeeded = errors.New("catalog already seeded")
)

// GameService handles the game catalog: lazy materialization of catalog
// entries into the database, play counting and comments
type GameService struct {
	db          *database.DB
	gameRepo    *repository.GameRepository
	ratingRepo  *repository.RatingRepository
	commentRepo *repository.CommentRepository
	limitRepo   *repository.RateLimitRepository
	playLimit   int
	playWindow  time.Duration
}

// NewGameService creates a new game service
func NewGameService(db *database.DB, gameRepo *repository.GameRepository, ratingRepo *repository.RatingRepository, commentRepo *repository.CommentRepository, limitRepo *repository.RateLimitRepository, playLimit int, playWindow time.Duration) *GameService {
	return &GameService{
		db:          db,
		gameRepo:    gameRepo,
		ratingRepo:  ratingRepo,
		commentRepo: commentRepo,
		limitRepo:   limitRepo,
		playLimit:   playLimit,
		playWindow:  playWindow,
	}
}

// GameDetail is a game document plus the requesting user's own vote
type GameDetail struct {
	Game       *models.Game `json:"game"`
	TotalPlays int64        `json:"totalPlays"`
	UserRating string       `json:"userRating,omitempty"`
}

// EnsureGame resolves a (grade, id) pair to its database document,
// materializing it from the static catalog on first access. Unknown
// pairs return ErrGameNotFound; nothing is ever materialized for them.
func (s *GameService) EnsureGame(grade string, gameID int64) (*models.Game, error) {
	game, err := s.gameRepo.GetByKey(grade, gameID)
	if err != nil {
		return nil, err
	}
	if game != nil {
		return game, nil
	}

	entry, ok := catalog.Find(grade, gameID)
	if !ok {
		return nil, ErrGameNotFound
	}

	// Two requests may race here; the unique index makes the insert a
	// no-op for the loser and both re-read the same row.
	_, err = s.gameRepo.InsertIfAbsent(&models.Game{
		Grade:        entry.Grade,
		GameID:       entry.ID,
		Title:        entry.Title,
		Description:  entry.Description,
		ThumbnailURL: entry.ThumbnailURL,
		PlayURL:      entry.PlayURL,
	})
	if err != nil {
		return nil, err
	}

	game, err = s.gameRepo.GetByKey(grade, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, fmt.Errorf("game %s/%d vanished after materialization", grade, gameID)
	}
	return game, nil
}

// GetGame returns a game with the caller's own vote attached. userID of
// zero means an anonymous caller.
func (s *GameService) GetGame(grade string, gameID, userID int64) (*GameDetail, error) {
	game, err := s.EnsureGame(grade, gameID)
	if err != nil {
		return nil, err
	}

	detail := &GameDetail{Game: game, TotalPlays: game.TotalPlays}
	if userID != 0 {
		rating, err := s.ratingRepo.Get(s.db, game.ID, userID)
		if err != nil {
			return nil, err
		}
		if rating != nil {
			detail.UserRating = rating.Value
		}
	}
	return detail, nil
}

// ListGrade returns every catalog game for a grade, merged with stored
// counters. Games never played or rated report zero counts without
// being materialized.
func (s *GameService) ListGrade(grade string) ([]models.Game, error) {
	entries := catalog.ByGrade(grade)
	if len(entries) == 0 {
		return nil, ErrGameNotFound
	}

	stored, err := s.gameRepo.ListByGrade(grade)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]models.Game, len(stored))
	for _, g := range stored {
		byID[g.GameID] = g
	}

	games := make([]models.Game, 0, len(entries))
	for _, entry := range entries {
		if g, ok := byID[entry.ID]; ok {
			games = append(games, g)
			continue
		}
		games = append(games, models.Game{
			Grade:        entry.Grade,
			GameID:       entry.ID,
			Title:        entry.Title,
			Description:  entry.Description,
			ThumbnailURL: entry.ThumbnailURL,
			PlayURL:      entry.PlayURL,
		})
	}
	return games, nil
}

// ListAll returns the full catalog grouped by grade
func (s *GameService) ListAll() (map[string][]models.Game, error) {
	grades := map[string][]models.Game{}
	for _, entry := range catalog.All() {
		if _, done := grades[entry.Grade]; done {
			continue
		}
		games, err := s.ListGrade(entry.Grade)
		if err != nil {
			return nil, err
		}
		grades[entry.Grade] = games
	}
	return grades, nil
}

// IncrementPlay bumps a game's play counter. Repeated plays from the
// same client key inside the rate window do not count; the caller still
// gets the current document back with limited set.
func (s *GameService) IncrementPlay(grade string, gameID int64, clientKey string) (*models.Game, bool, error) {
	game, err := s.EnsureGame(grade, gameID)
	if err != nil {
		return nil, false, err
	}

	key := fmt.Sprintf("play:%s:%d:%s", grade, gameID, clientKey)
	allowed, err := s.limitRepo.Allow(key, s.playLimit, s.playWindow)
	if err != nil {
		return nil, false, err
	}
	if !allowed {
		return game, true, nil
	}

	game, err = s.gameRepo.IncrementPlays(grade, gameID)
	if err != nil {
		return nil, false, err
	}
	return game, false, nil
}

// AddComment appends a user comment to a game
func (s *GameService) AddComment(grade string, gameID, userID int64, body string) (*models.Comment, error) {
	if err := validation.Var("comment", body, "required,max=2000"); err != nil {
		return nil, err
	}

	game, err := s.EnsureGame(grade, gameID)
	if err != nil {
		return nil, err
	}
	return s.commentRepo.Insert(game.ID, grade, body, userID)
}

// ListComments returns a game's comments, newest first. An unknown game
// is an error; a known game with no comments is an empty list.
func (s *GameService) ListComments(grade string, gameID int64) ([]models.Comment, error) {
	game, err := s.gameRepo.GetByKey(grade, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		if _, ok := catalog.Find(grade, gameID); !ok {
			return nil, ErrGameNotFound
		}
		return []models.Comment{}, nil
	}
	return s.commentRepo.ListByGame(game.ID)
}

// InitCatalog bulk-materializes the whole catalog. Refuses to run on a
// store that already has game documents.
func (s *GameService) InitCatalog() (int, error) {
	count, err := s.gameRepo.Count()
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, ErrCatalogSeeded
	}

	seeded := 0
	for _, entry := range catalog.All() {
		inserted, err := s.gameRepo.InsertIfAbsent(&models.Game{
			Grade:        entry.Grade,
			GameID:       entry.ID,
			Title:        entry.Title,
			Description:  entry.Description,
			ThumbnailURL: entry.ThumbnailURL,
			PlayURL:      entry.PlayURL,
		})
		if err != nil {
			return seeded, err
		}
		if inserted {
			seeded++
		}
	}
	return seeded, nil
}

// CleanupRateLimits drops rate-limit windows old enough to be irrelevant
func (s *GameService) CleanupRateLimits() error {
	return s.limitRepo.CleanupExpired(s.playWindow)
}
