package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roboticsleb/storefront/internal/domain"
	"github.com/roboticsleb/storefront/internal/pricing"
	"github.com/roboticsleb/storefront/internal/repository"
	"github.com/roboticsleb/storefront/pkg/errors"
)

// CouponService validates coupons against carts and backs the admin CRUD
type CouponService struct {
	repos  *repository.Repositories
	logger *zap.Logger
	now    func() time.Time
}

// NewCouponService creates the coupon service
func NewCouponService(repos *repository.Repositories, logger *zap.Logger) *CouponService {
	return &CouponService{
		repos:  repos,
		logger: logger,
		now:    time.Now,
	}
}

// Validate checks a code against a subtotal and returns the discount it
// would apply. Unlike checkout, the rejection reason is surfaced here.
func (s *CouponService) Validate(ctx context.Context, code string, subtotal float64) (*domain.Coupon, float64, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, 0, &errors.ErrCouponInvalid{Reason: "Invalid coupon"}
	}

	coupon, err := s.repos.Coupon.GetByCode(ctx, code)
	if err != nil {
		return nil, 0, &errors.ErrCouponInvalid{Reason: "Invalid coupon"}
	}

	discount, err := pricing.ComputeDiscount(coupon, subtotal, s.now())
	if err != nil {
		return nil, 0, err
	}
	return coupon, discount, nil
}

// Create stores a new coupon; the code is normalized to uppercase
func (s *CouponService) Create(ctx context.Context, coupon *domain.Coupon) error {
	coupon.Code = strings.ToUpper(strings.TrimSpace(coupon.Code))
	if coupon.Code == "" {
		return &errors.ErrValidation{Message: "Coupon code is required"}
	}
	if coupon.Type != domain.CouponTypePercent && coupon.Type != domain.CouponTypeFlat {
		return &errors.ErrValidation{Message: "Coupon type must be percent or flat"}
	}
	if coupon.Value <= 0 {
		return &errors.ErrValidation{Message: "Coupon value must be positive"}
	}
	if coupon.ID == uuid.Nil {
		coupon.ID = uuid.New()
	}
	return s.repos.Coupon.Create(ctx, coupon)
}

// List returns all coupons for the admin panel
func (s *CouponService) List(ctx context.Context) ([]*domain.Coupon, error) {
	return s.repos.Coupon.List(ctx)
}

// Delete removes a coupon; existing orders keep their snapshots
func (s *CouponService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repos.Coupon.Delete(ctx, id)
}
