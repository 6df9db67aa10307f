package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/benbaruka/sms-portal-sub004/domain"
)

// SessionConfig controls the portal session cookie
type SessionConfig struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// SessionMiddleware resolves the portal session from its cookie and opens a
// new one when the cookie is missing or the session is gone. The session
// id is stored under SessionIDKey.
func SessionMiddleware(sessionRepo domain.SessionRepository, cfg SessionConfig) gin.HandlerFunc {
	logger := slog.Default().With("service", "sms-portal", "module", "session")

	return gin.HandlerFunc(func(c *gin.Context) {
		ctx := c.Request.Context()

		if id, err := c.Cookie(cfg.CookieName); err == nil && id != "" {
			_, err := sessionRepo.FindByID(ctx, id)
			switch {
			case err == nil:
				c.Set(SessionIDKey, id)
				c.Next()
				return
			case !errors.Is(err, domain.ErrSessionNotFound) && !errors.Is(err, domain.ErrSessionExpired):
				logger.Error("session lookup failed", "operation", "find_session", "error", err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Session store unavailable"})
				c.Abort()
				return
			}
		}

		now := time.Now().UTC()
		session := &domain.PortalSession{
			ID:        uuid.NewString(),
			CreatedAt: now,
			ExpiresAt: now.Add(cfg.TTL),
		}
		if err := sessionRepo.Create(ctx, session); err != nil {
			logger.Error("session create failed", "operation", "create_session", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Session store unavailable"})
			c.Abort()
			return
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cfg.CookieName, session.ID, int(cfg.TTL.Seconds()), "/", "", cfg.Secure, true)
		c.Set(SessionIDKey, session.ID)
		c.Next()
	})
}
