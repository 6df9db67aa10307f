package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/benbaruka/sms-portal-sub004/domain"
)

// CasbinMiddleware defines the interface for Casbin authorization middleware
type CasbinMiddleware interface {
	Enforce() gin.HandlerFunc
}

// CasbinMW authorizes the role set by AuthMiddleware against the request
// path and method
type CasbinMW struct {
	policySvc domain.PolicyService
	logger    *slog.Logger
}

// NewCasbinMW creates new casbin middleware wrapper
func NewCasbinMW(policySvc domain.PolicyService) *CasbinMW {
	return &CasbinMW{
		policySvc: policySvc,
		logger:    slog.Default().With("service", "sms-portal", "module", "authz"),
	}
}

// Enforce returns the casbin authorization middleware
func (mw *CasbinMW) Enforce() gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		userID, userExists := c.Get(UserIDKey)
		role, roleExists := c.Get(UserRoleKey)
		if !userExists || !roleExists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID or role not found in token"})
			c.Abort()
			return
		}

		path := c.Request.URL.Path
		method := c.Request.Method
		allowed, err := mw.policySvc.CheckPermission(role.(string), path, method)
		if err != nil {
			mw.logger.Error("authorization check failed", "operation", "enforce", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Authorization check failed"})
			c.Abort()
			return
		}
		if !allowed {
			mw.logger.Warn("access denied", "user_id", userID, "role", role, "path", path, "method", method)
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			c.Abort()
			return
		}
		c.Next()
	})
}
