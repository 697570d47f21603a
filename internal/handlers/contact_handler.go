package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"efggames/internal/service"
	"efggames/internal/validation"
)

// ContactHandler handles the partnership contact form
type ContactHandler struct {
	emailService *service.EmailService
}

// NewContactHandler creates a new contact handler
func NewContactHandler(emailService *service.EmailService) *ContactHandler {
	return &ContactHandler{emailService: emailService}
}

// Partnership accepts a partnership inquiry, notifies the partnerships
// inbox and acknowledges the sender
func (h *ContactHandler) Partnership(w http.ResponseWriter, r *http.Request) {
	var req service.PartnershipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, ErrInvalidJSON)
		return
	}
	if err := validation.Struct(req); err != nil {
		respondServiceError(w, err)
		return
	}

	if err := h.emailService.SendPartnershipNotification(r.Context(), req); err != nil {
		log.Printf("failed to send partnership notification: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to submit inquiry")
		return
	}

	// Confirmation failure is not the requester's problem; the inquiry
	// already reached the inbox.
	if err := h.emailService.SendPartnershipConfirmation(r.Context(), req.Email, req.Name); err != nil {
		log.Printf("failed to send partnership confirmation: %v", err)
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "received"})
}
