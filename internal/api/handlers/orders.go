package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roboticsleb/storefront/internal/api/middleware"
	"github.com/roboticsleb/storefront/internal/service"
)

// CreateOrderRequest is the public checkout payload. Any totals the client
// sends are simply not part of the schema.
type CreateOrderRequest struct {
	Customer      service.CustomerInput       `json:"customer"`
	Items         []service.CartItemInput     `json:"items"`
	PaymentMethod string                      `json:"paymentMethod"`
	Payment       *service.ManualPaymentInput `json:"payment"`
}

// HandleCreateOrder handles POST /api/orders. Works for both guests and
// logged-in customers; with a valid token the order is owned by the account.
func HandleCreateOrder(orders *service.OrderService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		input := service.CreateOrderInput{
			Customer:      req.Customer,
			Items:         req.Items,
			PaymentMethod: req.PaymentMethod,
		}
		if user := middleware.GetUserFromContext(c); user != nil {
			input.UserID = user.ID
		}
		// Plain checkout never carries payment proof; that is the
		// checkout-manual endpoint's job.
		input.Payment = nil

		order, err := orders.Create(c.Request.Context(), input)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusCreated, toOrderResponse(order, true))
	}
}

// HandleCheckoutManual handles POST /api/orders/checkout-manual: checkout
// with up-front mobile-wallet payment proof. The order is created with its
// payment already in `submitted`.
func HandleCheckoutManual(orders *service.OrderService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if req.Payment == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Payment details are required"})
			return
		}

		input := service.CreateOrderInput{
			Customer:      req.Customer,
			Items:         req.Items,
			PaymentMethod: req.PaymentMethod,
			Payment:       req.Payment,
		}
		if user := middleware.GetUserFromContext(c); user != nil {
			input.UserID = user.ID
		}

		order, err := orders.Create(c.Request.Context(), input)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusCreated, toOrderResponse(order, true))
	}
}

// HandleTrackOrder handles GET /api/orders/:id/track. Guests pass their
// tracking token as the `token` query parameter; logged-in owners and admins
// need no token.
func HandleTrackOrder(orders *service.OrderService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
			return
		}

		user := middleware.GetUserFromContext(c)
		token := c.Query("token")

		order, events, err := orders.Track(c.Request.Context(), orderID, user, token)
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
