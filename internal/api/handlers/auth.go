package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/roboticsleb/storefront/internal/api/middleware"
	"github.com/roboticsleb/storefront/internal/domain"
	"github.com/roboticsleb/storefront/internal/service"
)

// UserResponse is the account on the wire; the password hash never leaves
// the server
type UserResponse struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone,omitempty"`
	Role  string  `json:"role"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:    u.ID.String(),
		Name:  u.Name,
		Email: u.Email,
		Phone: u.Phone,
		Role:  string(u.Role),
	}
}

// RegisterRequest is the account creation payload
type RegisterRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Phone    *string `json:"phone"`
}

// HandleRegister handles POST /api/auth/register
func HandleRegister(auth *service.AuthService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		user, err := auth.Register(c.Request.Context(), req.Name, req.Email, req.Password, req.Phone)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"user": toUserResponse(user)})
	}
}

// LoginRequest is the credential payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin handles POST /api/auth/login
func HandleLogin(auth *service.AuthService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		user, token, err := auth.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			// 401 for bad credentials; respondError's 403 is for resource access
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token": token,
			"user":  toUserResponse(user),
		})
	}
}

// HandleMe handles GET /api/auth/me
func HandleMe() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.GetUserFromContext(c)
		c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
	}
}
