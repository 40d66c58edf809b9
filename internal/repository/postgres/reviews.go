package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roboticsleb/storefront/internal/domain"
	"github.com/roboticsleb/storefront/pkg/errors"
)

type reviewRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db *sql.DB, logger *zap.Logger) *reviewRepository {
	return &reviewRepository{
		db:     db,
		logger: logger,
	}
}

const reviewColumns = `id, product_id, user_id, name, rating, body, status, admin_note, created_at, updated_at`

func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO reviews (` + reviewColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	now := time.Now()
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = now
	}
	if review.UpdatedAt.IsZero() {
		review.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx, query,
		review.ID,
		review.ProductID,
		review.UserID,
		review.Name,
		review.Rating,
		review.Body,
		review.Status,
		review.AdminNote,
		review.CreatedAt,
		review.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create review", zap.Error(err))
		return err
	}

	return nil
}

func (r *reviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	review, err := scanReview(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "review", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get review by ID", zap.Error(err))
		return nil, err
	}
	return review, nil
}

func (r *reviewRepository) ListByProduct(ctx context.Context, productID string, approvedOnly bool) ([]*domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE product_id = $1`
	if approvedOnly {
		query += ` AND status = 'approved'`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		r.logger.Error("Failed to list reviews by product", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	return collectReviews(rows)
}

func (r *reviewRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to list reviews by user", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	return collectReviews(rows)
}

func (r *reviewRepository) ListAll(ctx context.Context) ([]*domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list reviews", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	return collectReviews(rows)
}

func (r *reviewRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ReviewStatus, adminNote *string) error {
	query := `
		UPDATE reviews
		SET status = $2, admin_note = $3, updated_at = $4
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query, id, status, adminNote, time.Now())
	if err != nil {
		r.logger.Error("Failed to update review status", zap.Error(err))
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &errors.ErrNotFound{Resource: "review", ID: id.String()}
	}
	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete review", zap.Error(err))
	}
	return err
}

func scanReview(row rowScanner) (*domain.Review, error) {
	var review domain.Review
	var userID uuid.NullUUID
	var name sql.NullString
	var body sql.NullString
	var adminNote sql.NullString

	err := row.Scan(
		&review.ID,
		&review.ProductID,
		&userID,
		&name,
		&review.Rating,
		&body,
		&review.Status,
		&adminNote,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if userID.Valid {
		review.UserID = &userID.UUID
	}
	if name.Valid {
		review.Name = &name.String
	}
	if body.Valid {
		review.Body = &body.String
	}
	if adminNote.Valid {
		review.AdminNote = &adminNote.String
	}

	return &review, nil
}

func collectReviews(rows *sql.Rows) ([]*domain.Review, error) {
	var reviews []*domain.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}
