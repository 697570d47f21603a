package handlers

import (
	"encoding/json"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"efggames/internal/security"
	"efggames/internal/service"
)

// AuthHandler handles account registration, sign-in and profile routes
type AuthHandler struct {
	authService          *service.AuthService
	oauthRedirectBaseURL string
	googleOAuth          *oauth2.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, oauthRedirectBaseURL, googleClientID, googleClientSecret string) *AuthHandler {
	return &AuthHandler{
		authService:          authService,
		oauthRedirectBaseURL: oauthRedirectBaseURL,
		googleOAuth: &oauth2.Config{
			ClientID:     googleClientID,
			ClientSecret: googleClientSecret,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

type signupRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Name        string `json:"name"`
	AccountType string `json:"accountType"`
}

type signinRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	AccountType string `json:"accountType"`
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type updateProfileRequest struct {
	Name string `json:"name"`
}

// Signup creates a new account and signs it in
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, ErrInvalidJSON)
		return
	}
	if req.AccountType == "" {
		req.AccountType = "parent"
	}

	result, err := h.authService.Register(req.Email, req.Password, req.Name, req.AccountType)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, SessionCookieName, result.Session.ID, result.Session.ExpiresAt))
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"user":  result.User,
		"token": result.Token,
	})
}

// Signin authenticates an existing account
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, ErrInvalidJSON)
		return
	}

	result, err := h.authService.Login(req.Email, req.Password, req.AccountType)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, SessionCookieName, result.Session.ID, result.Session.ExpiresAt))
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user":  result.User,
		"token": result.Token,
	})
}

// Signout terminates the current session
func (h *AuthHandler) Signout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if err := h.authService.Logout(cookie.Value); err != nil {
			respondServiceError(w, err)
			return
		}
	}
	http.SetCookie(w, security.CreateDeleteCookie(r, SessionCookieName))
	respondJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}

// UpdatePassword changes the authenticated account's password
func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req updatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, ErrInvalidJSON)
		return
	}

	if err := h.authService.UpdatePassword(user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
}

// GetProfile returns the authenticated account
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, GetUserFromContext(r.Context()))
}

// UpdateProfile changes the authenticated account's display name
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, ErrInvalidJSON)
		return
	}

	updated, err := h.authService.UpdateProfile(user.ID, req.Name)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}
