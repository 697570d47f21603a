package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"efggames/internal/security"
	"efggames/internal/service"
)

// GameHandler handles the game catalog routes
type GameHandler struct {
	gameService   *service.GameService
	ratingService *service.RatingService
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameService *service.GameService, ratingService *service.RatingService) *GameHandler {
	return &GameHandler{
		gameService:   gameService,
		ratingService: ratingService,
	}
}

type rateRequest struct {
	Action string `json:"action"`
}

type commentRequest struct {
	Comment string `json:"comment"`
}

// ListAll returns the full catalog grouped by grade
func (h *GameHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	games, err := h.gameService.ListAll()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, games)
}

// ListGrade returns every game for one grade
func (h *GameHandler) ListGrade(w http.ResponseWriter, r *http.Request) {
	games, err := h.gameService.ListGrade(r.PathValue("grade"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, games)
}

// GetGame returns one game with the caller's vote when signed in
func (h *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	grade, gameID, ok := gameKey(w, r)
	if !ok {
		return
	}

	var userID int64
	if user := GetUserFromContext(r.Context()); user != nil {
		userID = user.ID
	}

	detail, err := h.gameService.GetGame(grade, gameID, userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, detail)
}

// IncrementPlay bumps a game's play counter, rate limited per client
func (h *GameHandler) IncrementPlay(w http.ResponseWriter, r *http.Request) {
	grade, gameID, ok := gameKey(w, r)
	if !ok {
		return
	}

	clientKey := security.GetClientIP(r)
	if user := GetUserFromContext(r.Context()); user != nil {
		clientKey = "u" + strconv.FormatInt(user.ID, 10)
	}

	game, limited, err := h.gameService.IncrementPlay(grade, gameID, clientKey)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"game":       game,
		"totalPlays": game.TotalPlays,
		"counted":    !limited,
	})
}

// Rate applies a like, dislike or remove action for the signed-in user
func (h *GameHandler) Rate(w http.ResponseWriter, r *http.Request) {
	grade, gameID, ok := gameKey(w, r)
	if !ok {
		return
	}
	user := GetUserFromContext(r.Context())

	var req rateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, ErrInvalidJSON)
		return
	}

	game, err := h.gameService.EnsureGame(grade, gameID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	result, err := h.ratingService.Rate(game, user.ID, req.Action)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GetRating returns the signed-in user's vote on a game
func (h *GameHandler) GetRating(w http.ResponseWriter, r *http.Request) {
	grade, gameID, ok := gameKey(w, r)
	if !ok {
		return
	}
	user := GetUserFromContext(r.Context())

	game, err := h.gameService.EnsureGame(grade, gameID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	rating, err := h.ratingService.UserRating(game, user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"userRating": rating})
}

// ListComments returns a game's comments, newest first
func (h *GameHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	grade, gameID, ok := gameKey(w, r)
	if !ok {
		return
	}

	comments, err := h.gameService.ListComments(grade, gameID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, comments)
}

// AddComment appends a comment from the signed-in user
func (h *GameHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	grade, gameID, ok := gameKey(w, r)
	if !ok {
		return
	}
	user := GetUserFromContext(r.Context())

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, ErrInvalidJSON)
		return
	}

	comment, err := h.gameService.AddComment(grade, gameID, user.ID, req.Comment)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, comment)
}

// InitCatalog bulk-materializes the catalog into an empty store
func (h *GameHandler) InitCatalog(w http.ResponseWriter, r *http.Request) {
	seeded, err := h.gameService.InitCatalog()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"seeded": seeded})
}

func gameKey(w http.ResponseWriter, r *http.Request) (string, int64, bool) {
	grade := r.PathValue("grade")
	gameID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || grade == "" {
		respondError(w, http.StatusBadRequest, ErrInvalidGameID)
		return "", 0, false
	}
	return grade, gameID, true
}
