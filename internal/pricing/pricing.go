// Package pricing computes checkout totals. All functions are pure; the
// client's own totals are never trusted and always recomputed here.
package pricing

import (
	"math"
	"strings"
	"time"

	"github.com/roboticsleb/storefront/internal/domain"
)

// CartItem is a checkout line as submitted by the client. Quantity and price
// are sanitized before use: invalid quantity defaults to 1, invalid price
// to 0, and negatives are floored at zero.
type CartItem struct {
	ProductID string
	Name      string
	Quantity  int
	UnitPrice float64
}

// Rates are the flat shipping charges per delivery area, read fresh from
// settings at quote time.
type Rates struct {
	Dhaka   float64
	Outside float64
}

// Quote is the server-computed price breakdown for a cart.
type Quote struct {
	Subtotal   float64
	Shipping   float64
	Discount   float64
	Total      float64
	CouponCode *string // uppercase snapshot, nil when no valid coupon applied
}

// Subtotal sums max(0,qty) * max(0,unitPrice) over the cart.
func Subtotal(items []CartItem) float64 {
	var sum float64
	for _, it := range items {
		qty := it.Quantity
		if qty < 0 {
			qty = 0
		}
		sum += float64(qty) * math.Max(0, it.UnitPrice)
	}
	return sum
}

// ParseArea normalizes a client-supplied delivery area, defaulting to Dhaka.
func ParseArea(s string) domain.DeliveryArea {
	if strings.EqualFold(strings.TrimSpace(s), string(domain.DeliveryAreaOutside)) {
		return domain.DeliveryAreaOutside
	}
	return domain.DeliveryAreaDhaka
}

// Compute builds the full quote: subtotal, area shipping (zero for an empty
// cart), coupon discount, and total = max(0, subtotal + shipping - discount).
// An invalid coupon contributes no discount and no snapshot; the rejection
// reason is only surfaced by the standalone validate endpoint.
func Compute(items []CartItem, area domain.DeliveryArea, rates Rates, coupon *domain.Coupon, now time.Time) Quote {
	sub := Subtotal(items)

	var shipping float64
	if sub > 0 {
		if area == domain.DeliveryAreaOutside {
			shipping = rates.Outside
		} else {
			shipping = rates.Dhaka
		}
	}

	var discount float64
	var code *string
	if coupon != nil {
		if d, err := ComputeDiscount(coupon, sub, now); err == nil {
			discount = d
			c := strings.ToUpper(coupon.Code)
			code = &c
		}
	}

	return Quote{
		Subtotal:   sub,
		Shipping:   shipping,
		Discount:   discount,
		Total:      math.Max(0, sub+shipping-discount),
		CouponCode: code,
	}
}
