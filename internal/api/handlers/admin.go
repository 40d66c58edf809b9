package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roboticsleb/storefront/internal/domain"
	"github.com/roboticsleb/storefront/internal/repository"
	"github.com/roboticsleb/storefront/internal/service"
)

// HandleAdminListOrders handles GET /api/admin/orders
func HandleAdminListOrders(orders *service.OrderService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		if limit <= 0 || limit > 200 {
			limit = 50
		}
		if offset < 0 {
			offset = 0
		}

		list, err := orders.ListAll(c.Request.Context(), limit, offset)
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

// HandleAdminGetOrder handles GET /api/admin/orders/:id
func HandleAdminGetOrder(orders *service.OrderService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
			return
		}

		order, events, err := orders.Get(c.Request.Context(), orderID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"order":    toOrderResponse(order, false),
			"timeline": toEventResponses(events),
		})
	}
}

// UpdateStatusRequest is the admin status transition payload
type UpdateStatusRequest struct {
	Status string  `json:"status"`
	Note   *string `json:"note"`
}

// HandleAdminUpdateStatus handles PATCH /api/admin/orders/:id/status
func HandleAdminUpdateStatus(orders *service.OrderService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
			return
		}

		var req UpdateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		order, err := orders.UpdateStatus(c.Request.Context(), orderID, req.Status, req.Note, domain.ActorAdmin)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, toOrderResponse(order, false))
	}
}

// ReviewPaymentRequest is the admin payment verdict payload
type ReviewPaymentRequest struct {
	Approve bool    `json:"approve"`
	Note    *string `json:"note"`
}

// HandleAdminReviewPayment handles POST /api/admin/orders/:id/payment-review
func HandleAdminReviewPayment(orders *service.OrderService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
			return
		}

		var req ReviewPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		order, err := orders.ReviewPayment(c.Request.Context(), orderID, req.Approve, req.Note)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, toOrderResponse(order, false))
	}
}

// HandleAdminUpdateNote handles PATCH /api/admin/orders/:id/note
func HandleAdminUpdateNote(orders *service.OrderService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
			return
		}

		var req struct {
			Note *string `json:"note"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		if err := orders.UpdateAdminNote(c.Request.Context(), orderID, req.Note); err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// HandleAdminGetSettings handles GET /api/admin/settings
func HandleAdminGetSettings(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		settings, err := repos.Settings.Get(c.Request.Context())
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"deliveryDhaka":   settings.DeliveryDhaka,
			"deliveryOutside": settings.DeliveryOutside,
			"cancelWindowMin": settings.CancelWindowMin,
		})
	}
}

// HandleAdminUpdateSettings handles PUT /api/admin/settings with a plain
// string k/v payload; unknown keys are stored as-is
func HandleAdminUpdateSettings(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req map[string]string
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if len(req) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no settings provided"})
			return
		}

		if err := repos.Settings.Set(c.Request.Context(), req); err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// AdminNotificationResponse is an admin inbox entry on the wire
type AdminNotificationResponse struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	Title     string  `json:"title"`
	Body      *string `json:"body,omitempty"`
	RefType   *string `json:"refType,omitempty"`
	RefID     *string `json:"refId,omitempty"`
	IsRead    bool    `json:"isRead"`
	CreatedAt string  `json:"createdAt"`
}

// HandleAdminNotifications handles GET /api/admin/notifications
func HandleAdminNotifications(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := repos.AdminNotification.List(c.Request.Context(), 50)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		unread, err := repos.AdminNotification.UnreadCount(c.Request.Context())
		if err != nil {
			respondError(c, logger, err)
			return
		}

		out := make([]AdminNotificationResponse, len(list))
		for i, n := range list {
			out[i] = AdminNotificationResponse{
				ID:        n.ID.String(),
				Type:      n.Type,
				Title:     n.Title,
				Body:      n.Body,
				RefType:   n.RefType,
				RefID:     n.RefID,
				IsRead:    n.IsRead,
				CreatedAt: formatTime(n.CreatedAt),
			}
		}
		c.JSON(http.StatusOK, gin.H{"notifications": out, "unread": unread})
	}
}

// HandleAdminMarkNotificationsRead handles POST /api/admin/notifications/read
func HandleAdminMarkNotificationsRead(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
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

		if err := repos.AdminNotification.MarkRead(c.Request.Context(), id); err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// HandleAdminListMessages handles GET /api/admin/messages
func HandleAdminListMessages(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := repos.Message.List(c.Request.Context(), 100)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		type messageResponse struct {
			ID        string  `json:"id"`
			Name      string  `json:"name"`
			Email     string  `json:"email"`
			Phone     *string `json:"phone,omitempty"`
			Subject   *string `json:"subject,omitempty"`
			Body      string  `json:"body"`
			IsRead    bool    `json:"isRead"`
			CreatedAt string  `json:"createdAt"`
		}
		out := make([]messageResponse, len(list))
		for i, m := range list {
			out[i] = messageResponse{
				ID:        m.ID.String(),
				Name:      m.Name,
				Email:     m.Email,
				Phone:     m.Phone,
				Subject:   m.Subject,
				Body:      m.Body,
				IsRead:    m.IsRead,
				CreatedAt: formatTime(m.CreatedAt),
			}
		}
		c.JSON(http.StatusOK, gin.H{"messages": out})
	}
}
