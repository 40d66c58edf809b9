package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roboticsleb/storefront/internal/domain"
	"github.com/roboticsleb/storefront/internal/repository"
	"github.com/roboticsleb/storefront/internal/service"
)

// CreateMessageRequest is the public contact form payload
type CreateMessageRequest struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   *string `json:"phone"`
	Subject *string `json:"subject"`
	Body    string  `json:"body"`
}

// HandleCreateMessage handles POST /api/messages: contact/service-request
// intake. Each message lands in the admin inbox.
func HandleCreateMessage(repos *repository.Repositories, notify *service.NotificationService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		name := strings.TrimSpace(req.Name)
		email := strings.TrimSpace(req.Email)
		body := strings.TrimSpace(req.Body)
		if name == "" || email == "" || body == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name, email and message are required"})
			return
		}

		msg := &domain.Message{
			ID:      uuid.New(),
			Name:    name,
			Email:   email,
			Phone:   req.Phone,
			Subject: req.Subject,
			Body:    body,
		}
		if err := repos.Message.Create(c.Request.Context(), msg); err != nil {
			respondError(c, logger, err)
			return
		}

		notify.MessageReceived(c.Request.Context(), msg)

		c.JSON(http.StatusCreated, gin.H{"ok": true})
	}
}
