package service

import (
	"github.com/google/uuid"
)

// CustomerInput is the checkout delivery form
type CustomerInput struct {
	Name         string  `json:"name"`
	Phone        string  `json:"phone"`
	Address      string  `json:"address"`
	Email        string  `json:"email"`
	DeliveryArea string  `json:"deliveryArea"`
	Coupon       string  `json:"coupon"`
}

// CartItemInput is one checkout line. Quantity is a pointer so a missing
// field defaults to 1 rather than 0.
type CartItemInput struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  *int    `json:"qty"`
	UnitPrice float64 `json:"unitPrice"`
}

// ManualPaymentInput carries the up-front proof for manual-payment checkout
type ManualPaymentInput struct {
	TxnID        string   `json:"paymentTxnId"`
	Sender       string   `json:"paymentSender"`
	Amount       *float64 `json:"paymentAmount"`
	ProofDataURL string   `json:"proof"`
}

// CreateOrderInput is everything the order service needs to create an order.
// Totals are never accepted from the client.
type CreateOrderInput struct {
	Customer      CustomerInput
	Items         []CartItemInput
	PaymentMethod string
	UserID        uuid.UUID // uuid.Nil for guest checkout
	Payment       *ManualPaymentInput
}

// SubmitPaymentInput is a post-checkout payment proof submission
type SubmitPaymentInput struct {
	Provider     string   `json:"provider"`
	TxnID        string   `json:"txnId"`
	Sender       string   `json:"sender"`
	Amount       *float64 `json:"amount"`
	ProofDataURL string   `json:"proofDataUrl"`
}

// SubmitReviewInput is a customer review submission
type SubmitReviewInput struct {
	ProductID string `json:"productId"`
	Rating    int    `json:"rating"`
	Body      string `json:"body"`
}
