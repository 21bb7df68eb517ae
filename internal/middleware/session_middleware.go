package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/unionhq/union/internal/app/models"
	"github.com/unionhq/union/internal/app/services"
	"github.com/unionhq/union/internal/pkg/apperrors"
)

// SessionCookieName is the cookie holding the opaque session identifier.
const SessionCookieName = "union_session"

// identityKey is the gin context key the resolved identity is stored under.
const identityKey = "identity"

// SessionMiddleware guards routes that need an authenticated identity
type SessionMiddleware struct {
	sessions *services.SessionService
	logger   zerolog.Logger
}

// NewSessionMiddleware creates a new SessionMiddleware
func NewSessionMiddleware(sessions *services.SessionService, logger zerolog.Logger) *SessionMiddleware {
	return &SessionMiddleware{
		sessions: sessions,
		logger:   logger,
	}
}

// RequireSession resolves the session cookie before any handler logic runs.
// Anonymous or expired sessions are redirected to sign-in and never reach
// workflow content. On success the identity is placed in the gin context.
func (m *SessionMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(SessionCookieName)
		if err != nil {
			c.Redirect(http.StatusFound, "/signin")
			c.Abort()
			return
		}

		identity, err := m.sessions.Current(c.Request.Context(), sessionID)
		if err != nil {
			if !errors.Is(err, apperrors.ErrSessionNotFound) {
				m.logger.Error().Err(err).Msg("Failed to resolve session")
			}
			c.Redirect(http.StatusFound, "/signin")
			c.Abort()
			return
		}

		c.Set(identityKey, *identity)
		c.Next()
	}
}

// CurrentIdentity returns the identity placed in the context by
// RequireSession. The second result is false on anonymous requests.
func CurrentIdentity(c *gin.Context) (models.Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return models.Identity{}, false
	}
	identity, ok := value.(models.Identity)
	return identity, ok
}
