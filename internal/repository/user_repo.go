package repository

import (
	"database/sql"
	"fmt"
	"time"

	"efggames/internal/database"
	"efggames/internal/models"
)

// UserRepository handles database operations for accounts and auth sessions
type UserRepository struct {
	db *database.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, password_hash, name, account_type,
		       COALESCE(oauth_provider, ''), COALESCE(oauth_subject, ''),
		       is_admin, created_at, updated_at, last_login_at`

// CreateUser inserts a new account. The first account becomes admin.
func (r *UserRepository) CreateUser(email, passwordHash, name, accountType string) (*models.User, error) {
	var userCount int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&userCount); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	isAdmin := userCount == 0

	query := `
		INSERT INTO users (email, password_hash, name, account_type, is_admin, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now().UTC()
	id, err := r.db.ExecReturningID(query, email, passwordHash, name, accountType, isAdmin, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &models.User{
		ID:           id,
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		AccountType:  accountType,
		IsAdmin:      isAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// CreateOAuthUser inserts an account backed by an OAuth identity
func (r *UserRepository) CreateOAuthUser(provider, subject, email, name string) (*models.User, error) {
	query := `
		INSERT INTO users (email, password_hash, name, account_type, oauth_provider, oauth_subject,
		                   is_admin, created_at, updated_at)
		VALUES (?, '', ?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now().UTC()
	id, err := r.db.ExecReturningID(query, email, name, models.AccountTypeParent, provider, subject, false, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create oauth user: %w", err)
	}

	return &models.User{
		ID:            id,
		Email:         email,
		Name:          name,
		AccountType:   models.AccountTypeParent,
		OAuthProvider: provider,
		OAuthSubject:  subject,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// GetUserByEmail retrieves a user by email address, nil when absent
func (r *UserRepository) GetUserByEmail(email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return scanUser(r.db.QueryRow(query, email))
}

// GetUserByID retrieves a user by ID, nil when absent
func (r *UserRepository) GetUserByID(id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return scanUser(r.db.QueryRow(query, id))
}

// UpdatePassword replaces a user's password hash
func (r *UserRepository) UpdatePassword(id int64, passwordHash string) error {
	query := "UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?"
	result, err := r.db.Exec(query, passwordHash, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateProfile updates the mutable profile fields
func (r *UserRepository) UpdateProfile(id int64, name string) error {
	query := "UPDATE users SET name = ?, updated_at = ? WHERE id = ?"
	if _, err := r.db.Exec(query, name, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

// TouchLastLogin records a successful sign-in
func (r *UserRepository) TouchLastLogin(id int64) error {
	query := "UPDATE users SET last_login_at = ? WHERE id = ?"
	if _, err := r.db.Exec(query, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("failed to record login: %w", err)
	}
	return nil
}

// CreateSession creates a new auth session for a user
func (r *UserRepository) CreateSession(sessionID string, userID int64, expiresAt time.Time) (*models.AuthSession, error) {
	query := "INSERT INTO auth_sessions (id, user_id, expires_at, created_at) VALUES (?, ?, ?, ?)"
	now := time.Now().UTC()
	if _, err := r.db.Exec(query, sessionID, userID, expiresAt.UTC(), now); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &models.AuthSession{
		ID:        sessionID,
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}, nil
}

// GetSession retrieves an auth session by ID, nil when absent
func (r *UserRepository) GetSession(sessionID string) (*models.AuthSession, error) {
	query := "SELECT id, user_id, expires_at, created_at FROM auth_sessions WHERE id = ?"
	session := &models.AuthSession{}
	err := r.db.QueryRow(query, sessionID).Scan(
		&session.ID,
		&session.UserID,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// DeleteSession removes an auth session
func (r *UserRepository) DeleteSession(sessionID string) error {
	if _, err := r.db.Exec("DELETE FROM auth_sessions WHERE id = ?", sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes all expired auth sessions
func (r *UserRepository) DeleteExpiredSessions() error {
	if _, err := r.db.Exec("DELETE FROM auth_sessions WHERE expires_at < ?", time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var lastLogin sql.NullTime
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.AccountType,
		&user.OAuthProvider,
		&user.OAuthSubject,
		&user.IsAdmin,
		&user.CreatedAt,
		&user.UpdatedAt,
		&lastLogin,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if lastLogin.Valid {
		user.LastLoginAt = &lastLogin.Time
	}
	return user, nil
}
