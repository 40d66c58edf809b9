package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/roboticsleb/storefront/internal/domain"
	"github.com/roboticsleb/storefront/pkg/errors"
)

// respondError maps domain errors to HTTP status codes. Unrecognized errors
// are logged and returned as opaque 500s.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch e := err.(type) {
	case *errors.ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": e.Error()})
	case *errors.ErrUnauthorized:
		c.JSON(http.StatusUnauthorized, gin.H{"error": e.Error()})
	case *errors.ErrValidation:
		resp := gin.H{"error": e.Error()}
		if len(e.Fields) > 0 {
			resp["fields"] = e.Fields
		}
		c.JSON(http.StatusBadRequest, resp)
	case *errors.ErrConflict:
		c.JSON(http.StatusConflict, gin.H{"error": e.Error()})
	case *errors.ErrInvalidStatus, *errors.ErrInvalidTransition:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case *errors.ErrCouponInvalid:
		c.JSON(http.StatusBadRequest, gin.H{"error": e.Error()})
	case *errors.ErrPaymentNotApplicable, *errors.ErrProviderMismatch,
		*errors.ErrMissingTxnID, *errors.ErrMissingProof:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case *errors.ErrNotPurchased:
		c.JSON(http.StatusForbidden, gin.H{"error": e.Error()})
	case *errors.ErrInvalidStage, *errors.ErrWindowExpired, *errors.ErrInvalidOrderTime:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error("Unhandled error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// OrderItemResponse is one line item on the wire
type OrderItemResponse struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"qty"`
	UnitPrice float64 `json:"unitPrice"`
}

// PaymentResponse is the manual-payment sub-state on the wire. The proof is
// exposed as a reference URL, never inline image data.
type PaymentResponse struct {
	Status      string   `json:"status"`
	Provider    *string  `json:"provider,omitempty"`
	TxnID       *string  `json:"txnId,omitempty"`
	Sender      *string  `json:"sender,omitempty"`
	Amount      *float64 `json:"amount,omitempty"`
	ProofRef    *string  `json:"proofRef,omitempty"`
	SubmittedAt *string  `json:"submittedAt,omitempty"`
	ReviewedAt  *string  `json:"reviewedAt,omitempty"`
	ReviewNote  *string  `json:"reviewNote,omitempty"`
}

// OrderResponse is the order on the wire
type OrderResponse struct {
	ID            string              `json:"id"`
	Status        domain.OrderStatus  `json:"status"`
	StatusLabel   string              `json:"statusLabel"`
	Customer      CustomerResponse    `json:"customer"`
	Items         []OrderItemResponse `json:"items"`
	Subtotal      float64             `json:"subtotal"`
	Discount      float64             `json:"discount"`
	CouponCode    *string             `json:"couponCode,omitempty"`
	Shipping      float64             `json:"shipping"`
	Total         float64             `json:"total"`
	PaymentMethod string              `json:"paymentMethod"`
	Payment       PaymentResponse     `json:"payment"`
	AdminNote     *string             `json:"adminNote,omitempty"`
	CancelledAt   *string             `json:"cancelledAt,omitempty"`
	CancelReason  *string             `json:"cancelReason,omitempty"`
	RefundStatus  string              `json:"refundStatus"`
	GuestToken    string              `json:"guestToken,omitempty"`
	CreatedAt     string              `json:"createdAt"`
	UpdatedAt     string              `json:"updatedAt"`
}

// CustomerResponse is the delivery block on the wire
type CustomerResponse struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	Email        string `json:"email,omitempty"`
	DeliveryArea string `json:"deliveryArea"`
}

// EventResponse is one timeline entry on the wire
type EventResponse struct {
	Status    domain.OrderStatus `json:"status"`
	Label     string             `json:"label"`
	Note      *string            `json:"note,omitempty"`
	Actor     domain.Actor       `json:"actor"`
	CreatedAt string             `json:"createdAt"`
}

// toOrderResponse converts an order for the wire. The guest token is only
// included when includeToken is set (order creation), never on later reads.
func toOrderResponse(order *domain.Order, includeToken bool) OrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for i, it := range order.Items {
		items[i] = OrderItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		}
	}

	resp := OrderResponse{
		ID:          order.ID.String(),
		Status:      order.Status,
		StatusLabel: order.Status.Label(),
		Customer: CustomerResponse{
			Name:         order.Customer.Name,
			Phone:        order.Customer.Phone,
			Address:      order.Customer.Address,
			Email:        order.Customer.Email,
			DeliveryArea: string(order.Customer.DeliveryArea),
		},
		Items:         items,
		Subtotal:      order.Subtotal,
		Discount:      order.Discount,
		CouponCode:    order.CouponCode,
		Shipping:      order.Shipping,
		Total:         order.Total,
		PaymentMethod: string(order.PaymentMethod),
		Payment: PaymentResponse{
			Status:      string(order.Payment.Status),
			Provider:    order.Payment.Provider,
			TxnID:       order.Payment.TxnID,
			Sender:      order.Payment.Sender,
			Amount:      order.Payment.Amount,
			ProofRef:    order.Payment.ProofRef,
			SubmittedAt: formatTimePtr(order.Payment.SubmittedAt),
			ReviewedAt:  formatTimePtr(order.Payment.ReviewedAt),
			ReviewNote:  order.Payment.ReviewNote,
		},
		AdminNote:    order.AdminNote,
		CancelledAt:  formatTimePtr(order.CancelledAt),
		CancelReason: order.CancelReason,
		RefundStatus: string(order.RefundStatus),
		CreatedAt:    formatTime(order.CreatedAt),
		UpdatedAt:    formatTime(order.UpdatedAt),
	}
	if includeToken {
		resp.GuestToken = order.GuestToken()
	}
	return resp
}

func toEventResponses(events []*domain.OrderEvent) []EventResponse {
	out := make([]EventResponse, len(events))
	for i, ev := range events {
		out[i] = EventResponse{
			Status:    ev.Status,
			Label:     ev.Status.Label(),
			Note:      ev.Note,
			Actor:     ev.Actor,
			CreatedAt: formatTime(ev.CreatedAt),
		}
	}
	return out
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
