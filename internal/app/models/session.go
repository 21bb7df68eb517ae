package models

import (
	"time"
)

// Session is server-side authenticated-identity state based on the
// 'sessions' table. The client holds only the opaque ID in a cookie.
type Session struct {
	ID        string    `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	ExpiresAt time.Time `json:"expiresAt" db:"expires_at"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Identity is the minimal user projection a session carries.
type Identity struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Identity returns the session's user projection.
func (s *Session) Identity() Identity {
	return Identity{ID: s.UserID, Name: s.Name, Email: s.Email}
}
