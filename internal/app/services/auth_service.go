package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/unionhq/union/internal/app/models"
	"github.com/unionhq/union/internal/app/repositories"
	"github.com/unionhq/union/internal/pkg/apperrors"
	"github.com/unionhq/union/internal/pkg/auth"
)

// AuthService handles sign-up, sign-in and the password-reset flow
type AuthService struct {
	userRepo      repositories.IUserRepository
	admissionRepo repositories.IAdmissionRepository
	resetTokens   *auth.ResetTokenService
	logger        zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repositories.IUserRepository,
	admissionRepo repositories.IAdmissionRepository,
	resetTokens *auth.ResetTokenService,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		admissionRepo: admissionRepo,
		resetTokens:   resetTokens,
		logger:        logger,
	}
}

// normalizeEmail lowercases and trims an email address. Applied uniformly at
// sign-up, sign-in and forgot-password so lookups are case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp creates a new account. The email is stored lowercase; a duplicate
// (case-insensitive) returns apperrors.ErrEmailAlreadyExists.
func (s *AuthService) SignUp(ctx context.Context, name, email, password string) (*models.User, error) {
	email = normalizeEmail(email)

	exists, err := s.userRepo.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error checking if email exists: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}

	// The store's unique constraint backs the pre-check, so a race between
	// two sign-ups with the same email still resolves to one account.
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("user creation error: %w", err)
	}

	return user, nil
}

// SignIn verifies credentials and reports whether the user already has an
// admission record, which decides the post-login redirect. A missing user
// and a wrong password are indistinguishable to the caller.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*models.User, bool, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, false, apperrors.ErrInvalidCredentials
		}
		return nil, false, fmt.Errorf("error looking up user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, false, apperrors.ErrInvalidCredentials
	}

	hasAdmission, err := s.admissionRepo.ExistsByUserID(ctx, user.ID)
	if err != nil {
		return nil, false, fmt.Errorf("error checking admission record: %w", err)
	}

	return user, hasAdmission, nil
}

// ForgotPassword issues a reset token for the account and persists it, with
// its store-side expiry, on the user row. Issuing a new token invalidates
// any earlier one even though the earlier signature stays valid.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return "", apperrors.ErrUserNotFound
		}
		return "", fmt.Errorf("error looking up user: %w", err)
	}

	token, err := s.resetTokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("error issuing reset token: %w", err)
	}

	expiry := time.Now().Add(s.resetTokens.TTL())
	if err := s.userRepo.SetResetToken(ctx, user.ID, token, expiry); err != nil {
		return "", fmt.Errorf("error storing reset token: %w", err)
	}

	s.logger.Info().Int64("userID", user.ID).Msg("Password reset token issued")
	return token, nil
}

// ValidateResetToken applies the dual validity check: the token's signature
// and embedded expiry must verify, AND the user row must still carry this
// exact token with a store-side expiry in the future.
func (s *AuthService) ValidateResetToken(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.resetTokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByValidResetToken(ctx, userID, token)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			// superseded by a later reset request, already consumed, or the
			// store-side expiry elapsed first
			return nil, apperrors.ErrTokenInvalid
		}
		return nil, fmt.Errorf("error validating reset token: %w", err)
	}

	return user, nil
}

// ResetPassword applies a new password under the same dual validation as
// ValidateResetToken, then clears both reset fields so the token cannot be
// replayed.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := s.ValidateResetToken(ctx, token)
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}

	s.logger.Info().Int64("userID", user.ID).Msg("Password reset completed")
	return nil
}
