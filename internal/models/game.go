package models

import "time"

// Rating values
const (
	RatingLike    = "like"
	RatingDislike = "dislike"
)

// Game is a catalog game materialized into the store. Its natural identity
// is the (grade, numeric id) pair; ID is the surrogate row key.
type Game struct {
	ID           int64     `json:"-"`
	Grade        string    `json:"grade"`
	GameID       int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ThumbnailURL string    `json:"thumbnail"`
	PlayURL      string    `json:"playUrl"`
	Likes        int64     `json:"likes"`
	Dislikes     int64     `json:"dislikes"`
	TotalPlays   int64     `json:"totalPlays"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// GameRating is a single user's like/dislike vote on a game.
// At most one exists per (game, user) pair.
type GameRating struct {
	ID        int64     `json:"-"`
	GameID    int64     `json:"-"`
	UserID    int64     `json:"userId"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Comment is an append-only user comment on a game
type Comment struct {
	ID        int64     `json:"id"`
	GameID    int64     `json:"-"`
	Grade     string    `json:"grade"`
	Body      string    `json:"comment"`
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}
