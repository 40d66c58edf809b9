package postgres

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/roboticsleb/storefront/internal/repository"
)

// NewRepositories creates all repositories backed by the given database
func NewRepositories(db *sql.DB, logger *zap.Logger) *repository.Repositories {
	return &repository.Repositories{
		Order:             NewOrderRepository(db, logger),
		OrderItem:         NewOrderItemRepository(db, logger),
		OrderEvent:        NewOrderEventRepository(db, logger),
		Coupon:            NewCouponRepository(db, logger),
		Notification:      NewNotificationRepository(db, logger),
		AdminNotification: NewAdminNotificationRepository(db, logger),
		Review:            NewReviewRepository(db, logger),
		Message:           NewMessageRepository(db, logger),
		User:              NewUserRepository(db, logger),
		Settings:          NewSettingsRepository(db, logger),
	}
}
