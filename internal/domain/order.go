package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderOwner identifies who may access an order: a registered user or an
// anonymous guest holding the tracking token issued at creation. Exactly one
// variant exists per order.
type OrderOwner interface {
	isOrderOwner()
}

// UserOwner marks an order placed by a logged-in customer
type UserOwner struct {
	UserID uuid.UUID
}

// GuestOwner marks an anonymous order trackable only via its token
type GuestOwner struct {
	Token string
}

func (UserOwner) isOrderOwner()  {}
func (GuestOwner) isOrderOwner() {}

// CustomerInfo holds the delivery details captured at checkout
type CustomerInfo struct {
	Name         string
	Phone        string
	Address      string
	Email        string
	DeliveryArea DeliveryArea
}

// OrderItem is a denormalized line item snapshot. Product data is copied at
// checkout so later catalog edits do not change the order.
type OrderItem struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID string
	Name      string
	Quantity  int
	UnitPrice float64
}

// PaymentDetails holds the manual-payment verification sub-state. Zero-valued
// (Status = not_required) for COD orders.
type PaymentDetails struct {
	Status      PaymentStatus
	Provider    *string
	TxnID       *string
	Sender      *string
	Amount      *float64
	ProofRef    *string // file-store reference, never the raw image
	SubmittedAt *time.Time
	ReviewedAt  *time.Time
	ReviewNote  *string
}

// Order is the central aggregate. Pricing fields are always computed
// server-side; client-supplied totals are ignored.
type Order struct {
	ID            uuid.UUID
	Owner         OrderOwner
	Customer      CustomerInfo
	Items         []OrderItem
	Subtotal      float64
	Discount      float64
	CouponCode    *string // uppercase snapshot, immune to later coupon edits
	Shipping      float64
	Total         float64
	PaymentMethod PaymentMethod
	Payment       PaymentDetails
	Status        OrderStatus
	AdminNote     *string
	CancelledAt   *time.Time
	CancelReason  *string
	RefundStatus  RefundStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OwnerUserID returns the owning user's id, or uuid.Nil for guest orders
func (o *Order) OwnerUserID() uuid.UUID {
	if u, ok := o.Owner.(UserOwner); ok {
		return u.UserID
	}
	return uuid.Nil
}

// GuestToken returns the tracking token for guest orders, or "" otherwise
func (o *Order) GuestToken() string {
	if g, ok := o.Owner.(GuestOwner); ok {
		return g.Token
	}
	return ""
}

// OrderEvent is an append-only timeline entry for an order. Events are never
// mutated or deleted; they render the customer-facing status history.
type OrderEvent struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	Status    OrderStatus
	Note      *string
	Actor     Actor
	CreatedAt time.Time
}
