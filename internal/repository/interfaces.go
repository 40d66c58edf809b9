package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/roboticsleb/storefront/internal/domain"
)

// OrderRepository defines order data access methods. UpdateStatus and the
// payment mutators are compare-and-set: they only apply when the order is
// still in the expected prior state, so two concurrent transition requests
// cannot both succeed from the same source state.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Order, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error)
	// ListGuestByEmail finds unclaimed guest orders whose customer email
	// matches (case-insensitive). Best-effort claiming heuristic.
	ListGuestByEmail(ctx context.Context, email string) ([]*domain.Order, error)
	ClaimForUser(ctx context.Context, orderID, userID uuid.UUID) error
	// UpdateStatus applies from -> to; returns ErrConflict when the order is
	// no longer in `from`.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.OrderStatus) error
	// SubmitPayment stores submitted proof fields and moves paymentStatus to
	// `submitted`, clearing any prior review. CAS on the previous
	// paymentStatus.
	SubmitPayment(ctx context.Context, id uuid.UUID, prev domain.PaymentStatus, p domain.PaymentDetails) error
	// ReviewPayment stamps the review outcome. CAS on the previous
	// paymentStatus.
	ReviewPayment(ctx context.Context, id uuid.UUID, prev, next domain.PaymentStatus, reviewedAt time.Time, note *string) error
	// Cancel moves from -> cancelled with cancellation fields; CAS on `from`.
	// requestRefund additionally sets refundStatus=requested.
	Cancel(ctx context.Context, id uuid.UUID, from domain.OrderStatus, reason *string, requestRefund bool) error
	UpdateAdminNote(ctx context.Context, id uuid.UUID, note *string) error
	// HasPurchased reports whether the user has an order containing the
	// product in one of the qualifying statuses.
	HasPurchased(ctx context.Context, userID uuid.UUID, productID string, statuses []domain.OrderStatus) (bool, error)
}

// OrderItemRepository defines order line-item data access methods
type OrderItemRepository interface {
	CreateBatch(ctx context.Context, items []*domain.OrderItem) error
	GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]*domain.OrderItem, error)
}

// OrderEventRepository is the append-only order timeline. Create never
// mutates existing rows; callers treat its failure as non-fatal.
type OrderEventRepository interface {
	Create(ctx context.Context, event *domain.OrderEvent) error
	GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]*domain.OrderEvent, error)
}

// CouponRepository defines coupon data access methods
type CouponRepository interface {
	Create(ctx context.Context, coupon *domain.Coupon) error
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
	List(ctx context.Context) ([]*domain.Coupon, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// NotificationRepository stores customer in-app notifications
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Notification, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, userID uuid.UUID, id *uuid.UUID) error
}

// AdminNotificationRepository stores the admin inbox
type AdminNotificationRepository interface {
	Create(ctx context.Context, n *domain.AdminNotification) error
	List(ctx context.Context, limit int) ([]*domain.AdminNotification, error)
	UnreadCount(ctx context.Context) (int, error)
	MarkRead(ctx context.Context, id *uuid.UUID) error
}

// ReviewRepository defines review data access methods
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Review, error)
	ListByProduct(ctx context.Context, productID string, approvedOnly bool) ([]*domain.Review, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Review, error)
	ListAll(ctx context.Context) ([]*domain.Review, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ReviewStatus, adminNote *string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// MessageRepository stores inbound contact/service-request messages
type MessageRepository interface {
	Create(ctx context.Context, m *domain.Message) error
	List(ctx context.Context, limit int) ([]*domain.Message, error)
}

// UserRepository defines account data access methods
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// SettingsRepository exposes admin-editable storefront values. Get reads
// fresh each call; pricing and cancel logic must not cache the result.
type SettingsRepository interface {
	Get(ctx context.Context) (*domain.Settings, error)
	Set(ctx context.Context, values map[string]string) error
}

// Repositories aggregates all repositories
type Repositories struct {
	Order             OrderRepository
	OrderItem         OrderItemRepository
	OrderEvent        OrderEventRepository
	Coupon            CouponRepository
	Notification      NotificationRepository
	AdminNotification AdminNotificationRepository
	Review            ReviewRepository
	Message           MessageRepository
	User              UserRepository
	Settings          SettingsRepository
}
