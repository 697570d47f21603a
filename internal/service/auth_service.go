package service

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"efggames/internal/models"
	"efggames/internal/repository"
	"efggames/internal/security"
	"efggames/internal/validation"
)

var (
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidAccountType = errors.New("invalid account type")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrUserNotFound       = errors.New("user not found")
)

// AuthService handles account registration and sign-in business logic
type AuthService struct {
	userRepo        *repository.UserRepository
	tokens          *security.TokenIssuer
	sessionDuration time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo *repository.UserRepository, tokens *security.TokenIssuer, sessionDuration time.Duration) *AuthService {
	return &AuthService{
		userRepo:        userRepo,
		tokens:          tokens,
		sessionDuration: sessionDuration,
	}
}

// LoginResult carries everything a successful sign-in or sign-up hands
// back to the client
type LoginResult struct {
	User    *models.User
	Session *models.AuthSession
	Token   string
}

// Register creates a new parent or institution account and signs it in
func (s *AuthService) Register(email, password, name, accountType string) (*LoginResult, error) {
	if err := validation.Var("email", email, "required,email"); err != nil {
		return nil, err
	}
	if err := validation.Var("password", password, "required,min=8,max=72"); err != nil {
		return nil, err
	}
	if err := validation.Var("name", name, "required,max=100"); err != nil {
		return nil, err
	}
	if !models.ValidAccountType(accountType) {
		return nil, ErrInvalidAccountType
	}

	existing, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.CreateUser(email, passwordHash, name, accountType)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.establishSession(user)
}

// Login authenticates an account. When accountType is non-empty the
// account must be of that type; a parent cannot sign in through the
// institution flow.
func (s *AuthService) Login(email, password, accountType string) (*LoginResult, error) {
	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil || user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if !security.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if accountType != "" && user.AccountType != accountType {
		return nil, ErrInvalidCredentials
	}

	return s.establishSession(user)
}

// OAuthLogin signs in (creating on first sight) an account backed by an
// external identity provider. OAuth accounts are always parent accounts.
func (s *AuthService) OAuthLogin(provider, subject, email, name string) (*LoginResult, error) {
	if email == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		user, err = s.userRepo.CreateOAuthUser(provider, subject, email, name)
		if err != nil {
			return nil, fmt.Errorf("failed to create oauth user: %w", err)
		}
	}

	return s.establishSession(user)
}

// ValidateSession resolves a session ID to its user, expiring stale sessions
func (s *AuthService) ValidateSession(sessionID string) (*models.User, error) {
	session, err := s.userRepo.GetSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if session.IsExpired() {
		_ = s.userRepo.DeleteSession(sessionID)
		return nil, ErrSessionExpired
	}

	user, err := s.userRepo.GetUserByID(session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// VerifyToken checks a bearer token and returns its claims
func (s *AuthService) VerifyToken(token string) (*security.TokenClaims, error) {
	return s.tokens.Verify(token)
}

// Logout removes a session. Unknown session IDs are not an error.
func (s *AuthService) Logout(sessionID string) error {
	return s.userRepo.DeleteSession(sessionID)
}

// GetUser looks up an account by ID
func (s *AuthService) GetUser(id int64) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile changes an account's display name
func (s *AuthService) UpdateProfile(userID int64, name string) (*models.User, error) {
	if err := validation.Var("name", name, "required,max=100"); err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateProfile(userID, name); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return s.GetUser(userID)
}

// UpdatePassword changes an account's password after verifying the
// current one
func (s *AuthService) UpdatePassword(userID int64, currentPassword, newPassword string) error {
	if err := validation.Var("newPassword", newPassword, "required,min=8,max=72"); err != nil {
		return err
	}

	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}
	if user.PasswordHash == "" || !security.CheckPassword(currentPassword, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	newHash, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(userID, newHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// CleanupExpiredSessions removes expired auth sessions; run periodically
func (s *AuthService) CleanupExpiredSessions() error {
	return s.userRepo.DeleteExpiredSessions()
}

func (s *AuthService) establishSession(user *models.User) (*LoginResult, error) {
	sessionID := security.GenerateSessionID()
	expiresAt := time.Now().Add(s.sessionDuration)
	session, err := s.userRepo.CreateSession(sessionID, user.ID, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	token, err := s.tokens.Issue(user.ID, user.Email, user.AccountType)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	if err := s.userRepo.TouchLastLogin(user.ID); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}

	return &LoginResult{User: user, Session: session, Token: token}, nil
}
