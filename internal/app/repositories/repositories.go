package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository      *UserRepository
	AdmissionRepository *AdmissionRepository
	SessionRepository   *SessionRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:      NewUserRepository(db),
		AdmissionRepository: NewAdmissionRepository(db),
		SessionRepository:   NewSessionRepository(db),
	}
}
