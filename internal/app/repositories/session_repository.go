package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/unionhq/union/internal/app/models"
	"github.com/unionhq/union/internal/pkg/apperrors"
)

// ISessionRepository defines the interface for session state operations
type ISessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context) error
}

// SessionRepository manages server-side session state in the database
type SessionRepository struct {
	db *pgxpool.Pool
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create stores a new session
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO sessions (id, user_id, name, email, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		session.ID, session.UserID, session.Name, session.Email, session.ExpiresAt).
		Scan(&session.CreatedAt)

	if err != nil {
		return fmt.Errorf("error creating session: %w", err)
	}

	return nil
}

// GetByID retrieves a session that has not yet expired. Expired or missing
// sessions both return ErrSessionNotFound.
func (r *SessionRepository) GetByID(ctx context.Context, id string) (*models.Session, error) {
	session := &models.Session{}
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, name, email, expires_at, created_at
		FROM sessions
		WHERE id = $1 AND expires_at > now()`,
		id).Scan(
		&session.ID, &session.UserID, &session.Name,
		&session.Email, &session.ExpiresAt, &session.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("error retrieving session: %w", err)
	}

	return session, nil
}

// Delete removes a session
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM sessions
		WHERE id = $1`,
		id)

	if err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}

	return nil
}

// DeleteExpired removes all expired sessions
func (r *SessionRepository) DeleteExpired(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM sessions
		WHERE expires_at < $1`,
		time.Now())

	if err != nil {
		return fmt.Errorf("error deleting expired sessions: %w", err)
	}

	return nil
}
