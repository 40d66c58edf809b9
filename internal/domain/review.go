package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReviewStatus is the moderation state of a review
type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusHidden   ReviewStatus = "hidden"
)

// Review is a product review. Created only after purchase verification and
// never auto-approved; only approved reviews are publicly visible.
type Review struct {
	ID        uuid.UUID
	ProductID string
	UserID    *uuid.UUID
	Name      *string
	Rating    int // 1..5
	Body      *string
	Status    ReviewStatus
	AdminNote *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
