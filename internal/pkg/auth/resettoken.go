package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/unionhq/union/internal/pkg/apperrors"
)

// ResetTokenConfig defines reset token settings. SecretKey must come from
// configuration; there is no embedded default.
type ResetTokenConfig struct {
	SecretKey string
	TTL       time.Duration
	Issuer    string
}

// ResetTokenService issues and verifies signed password-reset tokens.
type ResetTokenService struct {
	config ResetTokenConfig
}

// NewResetTokenService creates a new ResetTokenService
func NewResetTokenService(config ResetTokenConfig) *ResetTokenService {
	return &ResetTokenService{config: config}
}

// ResetClaims defines reset token content
type ResetClaims struct {
	UserID int64 `json:"userId"`
	jwt.RegisteredClaims
}

// Issue creates a signed reset token binding the user's id with the
// configured time-to-live.
func (s *ResetTokenService) Issue(userID int64) (string, error) {
	now := time.Now()
	claims := &ResetClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.config.Issuer,
			Subject:   strconv.FormatInt(userID, 10),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.SecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign reset token: %w", err)
	}
	return signed, nil
}

// Verify checks the token's signature and embedded expiry and returns the
// user id it was issued for. Expired tokens return ErrTokenExpired, anything
// malformed or tampered returns ErrTokenInvalid.
func (s *ResetTokenService) Verify(tokenString string) (int64, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ResetClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.SecretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, apperrors.ErrTokenExpired
		}
		return 0, apperrors.ErrTokenInvalid
	}

	claims, ok := token.Claims.(*ResetClaims)
	if !ok || !token.Valid || claims.UserID <= 0 {
		return 0, apperrors.ErrTokenInvalid
	}

	return claims.UserID, nil
}

// TTL returns the configured token time-to-live.
func (s *ResetTokenService) TTL() time.Duration {
	return s.config.TTL
}
