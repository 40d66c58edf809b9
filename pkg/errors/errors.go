package errors

import (
	"fmt"

	"github.com/roboticsleb/storefront/internal/domain"
)

// ErrNotFound is returned when a resource is not found
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrUnauthorized is returned when the caller may not access a resource
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}

// ErrValidation is returned when a required field is missing or malformed
type ErrValidation struct {
	Message string
	Fields  map[string]string
}

func (e *ErrValidation) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "validation failed"
}

// ErrConflict is returned when a concurrent writer got there first
// (the optimistic check-and-set on the order did not match)
type ErrConflict struct {
	Message string
}

func (e *ErrConflict) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "conflict"
}

// ErrInvalidStatus is returned for an unknown order status token
type ErrInvalidStatus struct {
	Status string
}

func (e *ErrInvalidStatus) Error() string {
	return fmt.Sprintf("invalid status: %s", e.Status)
}

// ErrInvalidTransition is returned when a state change is disallowed by the
// order workflow
type ErrInvalidTransition struct {
	From domain.OrderStatus
	To   domain.OrderStatus
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("invalid transition: %s -> %s", e.From, e.To)
}

// ErrCouponInvalid is returned when a coupon cannot be applied
type ErrCouponInvalid struct {
	Reason string
}

func (e *ErrCouponInvalid) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return "invalid coupon"
}

// ErrPaymentNotApplicable is returned for payment operations on COD orders
type ErrPaymentNotApplicable struct {
	Method domain.PaymentMethod
}

func (e *ErrPaymentNotApplicable) Error() string {
	return "payment verification is not required for " + string(e.Method)
}

// ErrProviderMismatch is returned when the submitted payment provider differs
// from the order's payment method
type ErrProviderMismatch struct {
	Provider string
	Method   domain.PaymentMethod
}

func (e *ErrProviderMismatch) Error() string {
	return fmt.Sprintf("payment provider mismatch: %s (order uses %s)", e.Provider, e.Method)
}

// ErrMissingTxnID is returned when payment proof lacks a transaction id
type ErrMissingTxnID struct{}

func (e *ErrMissingTxnID) Error() string {
	return "Transaction ID is required"
}

// ErrMissingProof is returned when payment proof lacks a recognizable image
type ErrMissingProof struct{}

func (e *ErrMissingProof) Error() string {
	return "Payment proof image is required"
}

// ErrNotPurchased is returned when a user tries to review a product they
// have no qualifying order for
type ErrNotPurchased struct {
	ProductID string
}

func (e *ErrNotPurchased) Error() string {
	return "You can review only products you purchased"
}

// ErrInvalidStage is returned when cancellation is requested outside the
// cancellable statuses
type ErrInvalidStage struct {
	Status domain.OrderStatus
}

func (e *ErrInvalidStage) Error() string {
	return "Order cannot be cancelled at this stage"
}

// ErrWindowExpired is returned when the cancellation window has passed
type ErrWindowExpired struct {
	Minutes int
}

func (e *ErrWindowExpired) Error() string {
	return fmt.Sprintf("Cancellation window expired (%d minutes)", e.Minutes)
}

// ErrInvalidOrderTime is returned when an order's creation time is unusable
// for the cancellation window check
type ErrInvalidOrderTime struct{}

func (e *ErrInvalidOrderTime) Error() string {
	return "Invalid order time"
}
