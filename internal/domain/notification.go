package domain

import (
	"time"

	"github.com/google/uuid"
)

// Notification is a customer-facing in-app notification, created by the
// fan-out on order/payment/review changes. Only mark-read mutates it.
type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Type      string // "order", "review", "system"
	Title     string
	Body      *string
	IsRead    bool
	CreatedAt time.Time
}

// AdminNotification lands in the admin inbox (new orders, payment proofs,
// contact messages). RefType/RefID link back to the source record.
type AdminNotification struct {
	ID        uuid.UUID
	Type      string
	Title     string
	Body      *string
	RefType   *string
	RefID     *string
	IsRead    bool
	CreatedAt time.Time
}
