package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roboticsleb/storefront/internal/domain"
)

type notificationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewNotificationRepository creates a new customer notification repository
func NewNotificationRepository(db *sql.DB, logger *zap.Logger) *notificationRepository {
	return &notificationRepository{
		db:     db,
		logger: logger,
	}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, type, title, body, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query, n.ID, n.UserID, n.Type, n.Title, n.Body, n.IsRead, n.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to create notification", zap.Error(err))
		return err
	}
	return nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Notification, error) {
	query := `
		SELECT id, user_id, type, title, body, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		r.logger.Error("Failed to list notifications", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Notification
	for rows.Next() {
		var n domain.Notification
		var body sql.NullString
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &body, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		if body.Valid {
			n.Body = &body.String
		}
		out = append(out, &n)
	}

	return out, rows.Err()
}

func (r *notificationRepository) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`, userID,
	).Scan(&count)
	if err != nil {
		r.logger.Error("Failed to count unread notifications", zap.Error(err))
		return 0, err
	}
	return count, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, userID uuid.UUID, id *uuid.UUID) error {
	var err error
	if id != nil {
		_, err = r.db.ExecContext(ctx,
			`UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND id = $2`, userID, *id)
	} else {
		_, err = r.db.ExecContext(ctx,
			`UPDATE notifications SET is_read = TRUE WHERE user_id = $1`, userID)
	}
	if err != nil {
		r.logger.Error("Failed to mark notifications read", zap.Error(err))
	}
	return err
}

type adminNotificationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAdminNotificationRepository creates a new admin inbox repository
func NewAdminNotificationRepository(db *sql.DB, logger *zap.Logger) *adminNotificationRepository {
	return &adminNotificationRepository{
		db:     db,
		logger: logger,
	}
}

func (r *adminNotificationRepository) Create(ctx context.Context, n *domain.AdminNotification) error {
	query := `
		INSERT INTO admin_notifications (id, type, title, body, ref_type, ref_id, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query, n.ID, n.Type, n.Title, n.Body, n.RefType, n.RefID, n.IsRead, n.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to create admin notification", zap.Error(err))
		return err
	}
	return nil
}

func (r *adminNotificationRepository) List(ctx context.Context, limit int) ([]*domain.AdminNotification, error) {
	query := `
		SELECT id, type, title, body, ref_type, ref_id, is_read, created_at
		FROM admin_notifications
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		r.logger.Error("Failed to list admin notifications", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var out []*domain.AdminNotification
	for rows.Next() {
		var n domain.AdminNotification
		var body, refType, refID sql.NullString
		if err := rows.Scan(&n.ID, &n.Type, &n.Title, &body, &refType, &refID, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		if body.Valid {
			n.Body = &body.String
		}
		if refType.Valid {
			n.RefType = &refType.String
		}
		if refID.Valid {
			n.RefID = &refID.String
		}
		out = append(out, &n)
	}

	return out, rows.Err()
}

func (r *adminNotificationRepository) UnreadCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM admin_notifications WHERE is_read = FALSE`,
	).Scan(&count)
	if err != nil {
		r.logger.Error("Failed to count unread admin notifications", zap.Error(err))
		return 0, err
	}
	return count, nil
}

func (r *adminNotificationRepository) MarkRead(ctx context.Context, id *uuid.UUID) error {
	var err error
	if id != nil {
		_, err = r.db.ExecContext(ctx, `UPDATE admin_notifications SET is_read = TRUE WHERE id = $1`, *id)
	} else {
		_, err = r.db.ExecContext(ctx, `UPDATE admin_notifications SET is_read = TRUE`)
	}
	if err != nil {
		r.logger.Error("Failed to mark admin notifications read", zap.Error(err))
	}
	return err
}
