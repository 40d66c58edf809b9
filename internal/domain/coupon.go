package domain

import (
	"time"

	"github.com/google/uuid"
)

// CouponType selects how the discount is computed
type CouponType string

const (
	CouponTypePercent CouponType = "percent"
	CouponTypeFlat    CouponType = "flat"
)

// Coupon is an admin-managed discount code. Orders store a snapshot of
// code/discount at creation, so deleting or editing a coupon never changes
// past orders.
type Coupon struct {
	ID          uuid.UUID
	Code        string // unique, stored uppercase
	Type        CouponType
	Value       float64
	MinSubtotal float64
	MaxDiscount *float64
	Active      bool
	ExpiresAt   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
