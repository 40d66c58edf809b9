package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roboticsleb/storefront/internal/domain"
)

type messageRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMessageRepository creates a new contact message repository
func NewMessageRepository(db *sql.DB, logger *zap.Logger) *messageRepository {
	return &messageRepository{
		db:     db,
		logger: logger,
	}
}

func (r *messageRepository) Create(ctx context.Context, m *domain.Message) error {
	query := `
		INSERT INTO messages (id, name, email, phone, subject, body, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query, m.ID, m.Name, m.Email, m.Phone, m.Subject, m.Body, m.IsRead, m.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to create message", zap.Error(err))
		return err
	}
	return nil
}

func (r *messageRepository) List(ctx context.Context, limit int) ([]*domain.Message, error) {
	query := `
		SELECT id, name, email, phone, subject, body, is_read, created_at
		FROM messages
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		r.logger.Error("Failed to list messages", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Message
	for rows.Next() {
		var m domain.Message
		var phone, subject sql.NullString
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &phone, &subject, &m.Body, &m.IsRead, &m.CreatedAt); err != nil {
			return nil, err
		}
		if phone.Valid {
			m.Phone = &phone.String
		}
		if subject.Valid {
			m.Subject = &subject.String
		}
		out = append(out, &m)
	}

	return out, rows.Err()
}
