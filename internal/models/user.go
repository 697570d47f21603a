package models

import "time"

// Account types
const (
	AccountTypeParent      = "parent"
	AccountTypeInstitution = "institution"
	AccountTypeStudent     = "student"
)

// User represents a parent or institution account
type User struct {
	ID            int64      `json:"id"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"-"`
	Name          string     `json:"name"`
	AccountType   string     `json:"accountType"`
	OAuthProvider string     `json:"-"`
	OAuthSubject  string     `json:"-"`
	IsAdmin       bool       `json:"isAdmin"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	LastLoginAt   *time.Time `json:"lastLogin,omitempty"`
}

// ValidAccountType reports whether t is a known account type
func ValidAccountType(t string) bool {
	switch t {
	case AccountTypeParent, AccountTypeInstitution, AccountTypeStudent:
		return true
	}
	return false
}

// AuthSession represents an authenticated session
type AuthSession struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsExpired checks if the session has expired
func (s *AuthSession) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
