package handlers

const (
	SessionCookieName = "session_id"

	ErrInvalidJSON   = "invalid request body"
	ErrUnauthorized  = "unauthorized"
	ErrInvalidGameID = "invalid game id"
)
