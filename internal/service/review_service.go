package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roboticsleb/storefront/internal/domain"
	"github.com/roboticsleb/storefront/internal/repository"
	"github.com/roboticsleb/storefront/pkg/errors"
)

// qualifyingStatuses are the order statuses that count as a purchase for the
// review gate. Deliberately lenient: any order that has not been cancelled,
// rejected or refunded qualifies, so customers can review while the order is
// still in flight.
var qualifyingStatuses = []domain.OrderStatus{
	domain.OrderStatusPending,
	domain.OrderStatusConfirmed,
	domain.OrderStatusProcessing,
	domain.OrderStatusPaid,
	domain.OrderStatusShipped,
	domain.OrderStatusDelivered,
}

// ReviewService gates product reviews behind purchase verification and runs
// admin moderation. Reviews are created pending and only approved ones are
// publicly visible.
type ReviewService struct {
	repos  *repository.Repositories
	notify *NotificationService
	logger *zap.Logger
}

// NewReviewService creates the review service
func NewReviewService(repos *repository.Repositories, notify *NotificationService, logger *zap.Logger) *ReviewService {
	return &ReviewService{
		repos:  repos,
		notify: notify,
		logger: logger,
	}
}

// CanReview reports whether the user has a qualifying order for the product
func (s *ReviewService) CanReview(ctx context.Context, user *domain.User, productID string) (bool, error) {
	if user == nil {
		return false, nil
	}
	return s.repos.Order.HasPurchased(ctx, user.ID, productID, qualifyingStatuses)
}

// Submit creates a pending review after verifying the purchase
func (s *ReviewService) Submit(ctx context.Context, user *domain.User, input SubmitReviewInput) (*domain.Review, error) {
	if user == nil {
		return nil, &errors.ErrUnauthorized{Message: "Login required"}
	}
	productID := strings.TrimSpace(input.ProductID)
	if productID == "" {
		return nil, &errors.ErrValidation{Message: "Product is required"}
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, &errors.ErrValidation{Message: "Rating must be between 1 and 5"}
	}

	purchased, err := s.repos.Order.HasPurchased(ctx, user.ID, productID, qualifyingStatuses)
	if err != nil {
		return nil, err
	}
	if !purchased {
		return nil, &errors.ErrNotPurchased{ProductID: productID}
	}

	review := &domain.Review{
		ID:        uuid.New(),
		ProductID: productID,
		UserID:    &user.ID,
		Name:      &user.Name,
		Rating:    input.Rating,
		Status:    domain.ReviewStatusPending,
	}
	if body := strings.TrimSpace(input.Body); body != "" {
		review.Body = &body
	}

	if err := s.repos.Review.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// Moderate applies the admin approve/hide decision and notifies the owner
func (s *ReviewService) Moderate(ctx context.Context, id uuid.UUID, status domain.ReviewStatus, adminNote *string) (*domain.Review, error) {
	switch status {
	case domain.ReviewStatusApproved, domain.ReviewStatusHidden, domain.ReviewStatusPending:
	default:
		return nil, &errors.ErrValidation{Message: "Invalid review status: " + string(status)}
	}

	review, err := s.repos.Review.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repos.Review.UpdateStatus(ctx, id, status, adminNote); err != nil {
		return nil, err
	}
	review.Status = status
	review.AdminNote = adminNote

	s.notify.ReviewModerated(ctx, review)

	return review, nil
}

// ListForProduct returns the public (approved-only) reviews of a product
func (s *ReviewService) ListForProduct(ctx context.Context, productID string) ([]*domain.Review, error) {
	return s.repos.Review.ListByProduct(ctx, productID, true)
}

// ListForUser returns the user's own reviews in any moderation state
func (s *ReviewService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Review, error) {
	return s.repos.Review.ListByUser(ctx, userID)
}

// ListAll is the admin moderation queue
func (s *ReviewService) ListAll(ctx context.Context) ([]*domain.Review, error) {
	return s.repos.Review.ListAll(ctx)
}

// Delete removes a review entirely
func (s *ReviewService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repos.Review.Delete(ctx, id)
}
