package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roboticsleb/storefront/internal/domain"
	"github.com/roboticsleb/storefront/internal/service"
)

// ValidateCouponRequest is the public coupon check payload
type ValidateCouponRequest struct {
	Code     string  `json:"code"`
	Subtotal float64 `json:"subtotal"`
}

// HandleValidateCoupon handles POST /api/coupons/validate. Unlike checkout,
// rejections come back with their reason.
func HandleValidateCoupon(coupons *service.CouponService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ValidateCouponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		coupon, discount, err := coupons.Validate(c.Request.Context(), req.Code, req.Subtotal)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"valid":    true,
			"code":     coupon.Code,
			"discount": discount,
		})
	}
}

// CouponResponse is a coupon on the wire
type CouponResponse struct {
	ID          string   `json:"id"`
	Code        string   `json:"code"`
	Type        string   `json:"type"`
	Value       float64  `json:"value"`
	MinSubtotal float64  `json:"minSubtotal"`
	MaxDiscount *float64 `json:"maxDiscount,omitempty"`
	Active      bool     `json:"active"`
	ExpiresAt   *string  `json:"expiresAt,omitempty"`
	CreatedAt   string   `json:"createdAt"`
}

// HandleAdminListCoupons handles GET /api/admin/coupons
func HandleAdminListCoupons(coupons *service.CouponService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := coupons.List(c.Request.Context())
		if err != nil {
			respondError(c, logger, err)
			return
		}

		out := make([]CouponResponse, len(list))
		for i, cp := range list {
			out[i] = CouponResponse{
				ID:          cp.ID.String(),
				Code:        cp.Code,
				Type:        string(cp.Type),
				Value:       cp.Value,
				MinSubtotal: cp.MinSubtotal,
				MaxDiscount: cp.MaxDiscount,
				Active:      cp.Active,
				ExpiresAt:   formatTimePtr(cp.ExpiresAt),
				CreatedAt:   formatTime(cp.CreatedAt),
			}
		}
		c.JSON(http.StatusOK, gin.H{"coupons": out})
	}
}

// CreateCouponRequest is the admin coupon creation payload
type CreateCouponRequest struct {
	Code        string   `json:"code"`
	Type        string   `json:"type"`
	Value       float64  `json:"value"`
	MinSubtotal float64  `json:"minSubtotal"`
	MaxDiscount *float64 `json:"maxDiscount"`
	Active      *bool    `json:"active"`
	ExpiresAt   *string  `json:"expiresAt"`
}

// HandleAdminCreateCoupon handles POST /api/admin/coupons
func HandleAdminCreateCoupon(coupons *service.CouponService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateCouponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		coupon := &domain.Coupon{
			Code:        req.Code,
			Type:        domain.CouponType(req.Type),
			Value:       req.Value,
			MinSubtotal: req.MinSubtotal,
			MaxDiscount: req.MaxDiscount,
			Active:      true,
		}
		if req.Active != nil {
			coupon.Active = *req.Active
		}
		if req.ExpiresAt != nil && *req.ExpiresAt != "" {
			t, err := time.Parse(time.RFC3339, *req.ExpiresAt)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expiresAt"})
				return
			}
			coupon.ExpiresAt = &t
		}

		if err := coupons.Create(c.Request.Context(), coupon); err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": coupon.ID.String(), "code": coupon.Code})
	}
}

// HandleAdminDeleteCoupon handles DELETE /api/admin/coupons/:id
func HandleAdminDeleteCoupon(coupons *service.CouponService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		couponID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coupon id"})
			return
		}

		if err := coupons.Delete(c.Request.Context(), couponID); err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
