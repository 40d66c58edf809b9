package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roboticsleb/storefront/internal/api/middleware"
	"github.com/roboticsleb/storefront/internal/repository"
	"github.com/roboticsleb/storefront/internal/service"
)

// HandleMyOrders handles GET /api/my/orders
func HandleMyOrders(orders *service.OrderService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.GetUserFromContext(c)

		list, err := orders.ListForUser(c.Request.Context(), user)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		out := make([]OrderResponse, len(list))
		for i, o := range list {
			out[i] = toOrderResponse(o, false)
		}
		c.JSON(http.StatusOK, gin.H{"orders": out})
	}
}

// CancelOrderRequest carries the optional cancellation reason
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// HandleCancelOrder handles POST /api/my/orders/:id/cancel
func HandleCancelOrder(orders *service.OrderService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
			return
		}

		var req CancelOrderRequest
		// Body is optional
		_ = c.ShouldBindJSON(&req)

		var reason *string
		if req.Reason != "" {
			reason = &req.Reason
		}

		user := middleware.GetUserFromContext(c)
		order, err := orders.Cancel(c.Request.Context(), orderID, user, reason)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, toOrderResponse(order, false))
	}
}

// HandleSubmitPayment handles POST /api/my/orders/:id/payment
func HandleSubmitPayment(orders *service.OrderService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
			return
		}

		var req service.SubmitPaymentInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		user := middleware.GetUserFromContext(c)
		order, err := orders.SubmitPaymentProof(c.Request.Context(), orderID, user, req)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, toOrderResponse(order, false))
	}
}

// NotificationResponse is an in-app notification on the wire
type NotificationResponse struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	Title     string  `json:"title"`
	Body      *string `json:"body,omitempty"`
	IsRead    bool    `json:"isRead"`
	CreatedAt string  `json:"createdAt"`
}

// HandleMyNotifications handles GET /api/my/notifications
func HandleMyNotifications(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.GetUserFromContext(c)

		list, err := repos.Notification.ListByUser(c.Request.Context(), user.ID, 50)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		unread, err := repos.Notification.UnreadCount(c.Request.Context(), user.ID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		out := make([]NotificationResponse, len(list))
		for i, n := range list {
			out[i] = NotificationResponse{
				ID:        n.ID.String(),
				Type:      n.Type,
				Title:     n.Title,
				Body:      n.Body,
				IsRead:    n.IsRead,
				CreatedAt: formatTime(n.CreatedAt),
			}
		}
		c.JSON(http.StatusOK, gin.H{"notifications": out, "unread": unread})
	}
}

// HandleMarkNotificationsRead handles POST /api/my/notifications/read.
// With an `id` in the body only that notification is marked; otherwise all.
func HandleMarkNotificationsRead(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.GetUserFromContext(c)

		var req struct {
			ID string `json:"id"`
		}
		_ = c.ShouldBindJSON(&req)

		var id *uuid.UUID
		if req.ID != "" {
			parsed, err := uuid.Parse(req.ID)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
				return
			}
			id = &parsed
		}

		if err := repos.Notification.MarkRead(c.Request.Context(), user.ID, id); err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
