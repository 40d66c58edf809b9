package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roboticsleb/storefront/internal/api/middleware"
	"github.com/roboticsleb/storefront/internal/domain"
	"github.com/roboticsleb/storefront/internal/service"
)

// ReviewResponse is a review on the wire
type ReviewResponse struct {
	ID        string  `json:"id"`
	ProductID string  `json:"productId"`
	Name      *string `json:"name,omitempty"`
	Rating    int     `json:"rating"`
	Body      *string `json:"body,omitempty"`
	Status    string  `json:"status"`
	AdminNote *string `json:"adminNote,omitempty"`
	CreatedAt string  `json:"createdAt"`
}

func toReviewResponse(r *domain.Review) ReviewResponse {
	return ReviewResponse{
		ID:        r.ID.String(),
		ProductID: r.ProductID,
		Name:      r.Name,
		Rating:    r.Rating,
		Body:      r.Body,
		Status:    string(r.Status),
		AdminNote: r.AdminNote,
		CreatedAt: formatTime(r.CreatedAt),
	}
}

func toReviewResponses(list []*domain.Review) []ReviewResponse {
	out := make([]ReviewResponse, len(list))
	for i, r := range list {
		out[i] = toReviewResponse(r)
	}
	return out
}

// HandleListProductReviews handles GET /api/products/:productId/reviews:
// public, approved reviews only
func HandleListProductReviews(reviews *service.ReviewService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := reviews.ListForProduct(c.Request.Context(), c.Param("productId"))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"reviews": toReviewResponses(list)})
	}
}

// HandleCanReview handles GET /api/products/:productId/can-review
func HandleCanReview(reviews *service.ReviewService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.GetUserFromContext(c)

		ok, err := reviews.CanReview(c.Request.Context(), user, c.Param("productId"))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"canReview": ok})
	}
}

// HandleSubmitReview handles POST /api/reviews
func HandleSubmitReview(reviews *service.ReviewService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.SubmitReviewInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		user := middleware.GetUserFromContext(c)
		review, err := reviews.Submit(c.Request.Context(), user, req)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusCreated, toReviewResponse(review))
	}
}

// HandleMyReviews handles GET /api/my/reviews
func HandleMyReviews(reviews *service.ReviewService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.GetUserFromContext(c)

		list, err := reviews.ListForUser(c.Request.Context(), user.ID)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"reviews": toReviewResponses(list)})
	}
}

// HandleAdminListReviews handles GET /api/admin/reviews
func HandleAdminListReviews(reviews *service.ReviewService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := reviews.ListAll(c.Request.Context())
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"reviews": toReviewResponses(list)})
	}
}

// ModerateReviewRequest is the admin moderation payload
type ModerateReviewRequest struct {
	Status    string  `json:"status"`
	AdminNote *string `json:"adminNote"`
}

// HandleAdminModerateReview handles PATCH /api/admin/reviews/:id
func HandleAdminModerateReview(reviews *service.ReviewService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reviewID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review id"})
			return
		}

		var req ModerateReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		review, err := reviews.Moderate(c.Request.Context(), reviewID, domain.ReviewStatus(req.Status), req.AdminNote)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, toReviewResponse(review))
	}
}

// HandleAdminDeleteReview handles DELETE /api/admin/reviews/:id
func HandleAdminDeleteReview(reviews *service.ReviewService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reviewID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review id"})
			return
		}

		if err := reviews.Delete(c.Request.Context(), reviewID); err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
