package pricing

import (
	"fmt"
	"math"
	"time"

	"github.com/roboticsleb/storefront/internal/domain"
	"github.com/roboticsleb/storefront/pkg/errors"
)

// ComputeDiscount validates a coupon against a subtotal and returns the
// discount amount. It is a pure function of (coupon, subtotal, now).
//
// The discount is clamped in order: maxDiscount (when set), then subtotal,
// then floored at zero. Rejections return *errors.ErrCouponInvalid with a
// customer-facing reason.
func ComputeDiscount(coupon *domain.Coupon, subtotal float64, now time.Time) (float64, error) {
	sub := math.Max(0, subtotal)
	if coupon == nil {
		return 0, &errors.ErrCouponInvalid{Reason: "Invalid coupon"}
	}
	if !coupon.Active {
		return 0, &errors.ErrCouponInvalid{Reason: "Coupon inactive"}
	}
	if coupon.ExpiresAt != nil && coupon.ExpiresAt.Before(now) {
		return 0, &errors.ErrCouponInvalid{Reason: "Coupon expired"}
	}

	minSub := math.Max(0, coupon.MinSubtotal)
	if sub < minSub {
		return 0, &errors.ErrCouponInvalid{Reason: fmt.Sprintf("Minimum subtotal ৳%g required", minSub)}
	}

	val := math.Max(0, coupon.Value)
	var discount float64
	if coupon.Type == domain.CouponTypeFlat {
		discount = val
	} else {
		discount = sub * val / 100
	}

	if coupon.MaxDiscount != nil && *coupon.MaxDiscount >= 0 {
		discount = math.Min(discount, *coupon.MaxDiscount)
	}
	discount = math.Min(discount, sub)
	discount = math.Max(0, discount)
	return discount, nil
}
