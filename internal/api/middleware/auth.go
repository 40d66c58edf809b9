package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/roboticsleb/storefront/internal/domain"
	"github.com/roboticsleb/storefront/internal/service"
)

const UserContextKey = "user"

// RequireAuth authenticates requests using a Bearer JWT and stores the
// loaded principal in the context
func RequireAuth(auth *service.AuthService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := authenticate(c, auth, logger)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		c.Set(UserContextKey, user)
		c.Next()
	}
}

// OptionalAuth attaches the principal when a valid token is present but never
// rejects the request. Public endpoints that behave differently for
// logged-in users (checkout, order tracking) use this.
func OptionalAuth(auth *service.AuthService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, ok := authenticate(c, auth, logger); ok {
			c.Set(UserContextKey, user)
		}
		c.Next()
	}
}

// RequireAdmin authenticates and additionally requires the admin role
func RequireAdmin(auth *service.AuthService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := authenticate(c, auth, logger)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		if !user.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			c.Abort()
			return
		}
		c.Set(UserContextKey, user)
		c.Next()
	}
}

func authenticate(c *gin.Context, auth *service.AuthService, logger *zap.Logger) (*domain.User, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return nil, false
	}

	user, err := auth.VerifyToken(c.Request.Context(), token)
	if err != nil {
		logger.Debug("Token verification failed", zap.Error(err))
		return nil, false
	}
	return user, true
}

// GetUserFromContext retrieves the authenticated principal from the Gin
// context; nil when the request is anonymous
func GetUserFromContext(c *gin.Context) *domain.User {
	v, exists := c.Get(UserContextKey)
	if !exists {
		return nil
	}
	u, ok := v.(*domain.User)
	if !ok {
		return nil
	}
	return u
}
