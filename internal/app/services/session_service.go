package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/unionhq/union/internal/app/models"
	"github.com/unionhq/union/internal/app/repositories"
	"github.com/unionhq/union/internal/pkg/apperrors"
)

// SessionService tracks authenticated identities across requests. The client
// holds only the opaque session id; all state lives server-side.
type SessionService struct {
	sessionRepo repositories.ISessionRepository
	ttl         time.Duration
	logger      zerolog.Logger
}

// NewSessionService creates a new SessionService
func NewSessionService(sessionRepo repositories.ISessionRepository, ttl time.Duration, logger zerolog.Logger) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		ttl:         ttl,
		logger:      logger,
	}
}

// Establish creates a session for the identity and returns its opaque id.
func (s *SessionService) Establish(ctx context.Context, identity models.Identity) (string, error) {
	session := &models.Session{
		ID:        uuid.New().String(),
		UserID:    identity.ID,
		Name:      identity.Name,
		Email:     identity.Email,
		ExpiresAt: time.Now().Add(s.ttl),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return "", fmt.Errorf("error establishing session: %w", err)
	}

	return session.ID, nil
}

// Current resolves a session id to its identity. Missing and expired
// sessions both return apperrors.ErrSessionNotFound.
func (s *SessionService) Current(ctx context.Context, sessionID string) (*models.Identity, error) {
	if sessionID == "" {
		return nil, apperrors.ErrSessionNotFound
	}

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrSessionNotFound) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("error resolving session: %w", err)
	}

	identity := session.Identity()
	return &identity, nil
}

// Destroy removes a session. Best effort: the caller logs a failure but
// never blocks the sign-out redirect on it.
func (s *SessionService) Destroy(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessionRepo.Delete(ctx, sessionID)
}

// PruneExpired removes expired session rows. Lookup already filters them
// out; this keeps the table from growing unbounded.
func (s *SessionService) PruneExpired(ctx context.Context) error {
	return s.sessionRepo.DeleteExpired(ctx)
}

// TTL returns the configured session lifetime.
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}
