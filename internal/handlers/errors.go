package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"efggames/internal/service"
	"efggames/internal/validation"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps service sentinel errors to HTTP statuses.
// Anything unrecognized is logged and reported as a 500.
func respondServiceError(w http.ResponseWriter, err error) {
	var ve validation.ValidationError
	if errors.As(err, &ve) {
		respondError(w, http.StatusBadRequest, ve.Error())
		return
	}

	switch {
	case errors.Is(err, service.ErrGameNotFound),
		errors.Is(err, service.ErrStudentNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrSessionNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrStudentEmailTaken),
		errors.Is(err, service.ErrCatalogSeeded):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrSessionExpired):
		respondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrNotStudentGuardian):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrInvalidAccountType),
		errors.Is(err, service.ErrInvalidGameSession):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
