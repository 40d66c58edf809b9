package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/roboticsleb/storefront/internal/domain"
	"github.com/roboticsleb/storefront/pkg/errors"
)

type orderRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *sql.DB, logger *zap.Logger) *orderRepository {
	return &orderRepository{
		db:     db,
		logger: logger,
	}
}

const orderColumns = `
	id, user_id, guest_token,
	customer_name, customer_phone, customer_address, customer_email, delivery_area,
	subtotal, discount, coupon_code, shipping, total,
	payment_method, payment_status, payment_provider, payment_txn_id,
	payment_sender, payment_amount, payment_proof,
	payment_submitted_at, payment_reviewed_at, payment_review_note,
	status, admin_note, cancelled_at, cancel_reason, refund_status,
	created_at, updated_at`

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30)
	`

	now := time.Now()
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = now
	}

	var userID *uuid.UUID
	var guestToken *string
	switch o := order.Owner.(type) {
	case domain.UserOwner:
		userID = &o.UserID
	case domain.GuestOwner:
		guestToken = &o.Token
	}

	_, err := r.db.ExecContext(ctx, query,
		order.ID,
		userID,
		guestToken,
		order.Customer.Name,
		order.Customer.Phone,
		order.Customer.Address,
		order.Customer.Email,
		order.Customer.DeliveryArea,
		order.Subtotal,
		order.Discount,
		order.CouponCode,
		order.Shipping,
		order.Total,
		order.PaymentMethod,
		order.Payment.Status,
		order.Payment.Provider,
		order.Payment.TxnID,
		order.Payment.Sender,
		order.Payment.Amount,
		order.Payment.ProofRef,
		order.Payment.SubmittedAt,
		order.Payment.ReviewedAt,
		order.Payment.ReviewNote,
		order.Status,
		order.AdminNote,
		order.CancelledAt,
		order.CancelReason,
		order.RefundStatus,
		order.CreatedAt,
		order.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create order", zap.Error(err))
		return err
	}

	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get order by ID", zap.Error(err))
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) List(ctx context.Context, limit, offset int) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	return collectOrders(rows)
}

func (r *orderRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to list orders by user ID", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	return collectOrders(rows)
}

func (r *orderRepository) ListGuestByEmail(ctx context.Context, email string) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
		WHERE user_id IS NULL AND lower(customer_email) = lower($1)
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, email)
	if err != nil {
		r.logger.Error("Failed to list guest orders by email", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	return collectOrders(rows)
}

func (r *orderRepository) ClaimForUser(ctx context.Context, orderID, userID uuid.UUID) error {
	query := `
		UPDATE orders
		SET user_id = $2, guest_token = NULL, updated_at = $3
		WHERE id = $1 AND user_id IS NULL
	`

	_, err := r.db.ExecContext(ctx, query, orderID, userID, time.Now())
	if err != nil {
		r.logger.Error("Failed to claim guest order", zap.Error(err), zap.String("order_id", orderID.String()))
		return err
	}
	return nil
}

// UpdateStatus applies from -> to only when the row still holds `from`.
// A zero row count means a concurrent writer won the race.
func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.OrderStatus) error {
	query := `
		UPDATE orders
		SET status = $3, updated_at = $4
		WHERE id = $1 AND status = $2
	`

	res, err := r.db.ExecContext(ctx, query, id, from, to, time.Now())
	if err != nil {
		r.logger.Error("Failed to update order status", zap.Error(err))
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &errors.ErrConflict{Message: "order was modified concurrently"}
	}
	return nil
}

func (r *orderRepository) SubmitPayment(ctx context.Context, id uuid.UUID, prev domain.PaymentStatus, p domain.PaymentDetails) error {
	query := `
		UPDATE orders
		SET payment_status = $3, payment_provider = $4, payment_txn_id = $5,
			payment_sender = $6, payment_amount = $7, payment_proof = $8,
			payment_submitted_at = $9, payment_reviewed_at = NULL,
			payment_review_note = NULL, updated_at = $10
		WHERE id = $1 AND payment_status = $2
	`

	res, err := r.db.ExecContext(ctx, query,
		id, prev,
		p.Status, p.Provider, p.TxnID, p.Sender, p.Amount, p.ProofRef,
		p.SubmittedAt, time.Now(),
	)
	if err != nil {
		r.logger.Error("Failed to submit payment proof", zap.Error(err))
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &errors.ErrConflict{Message: "payment was modified concurrently"}
	}
	return nil
}

func (r *orderRepository) ReviewPayment(ctx context.Context, id uuid.UUID, prev, next domain.PaymentStatus, reviewedAt time.Time, note *string) error {
	query := `
		UPDATE orders
		SET payment_status = $3, payment_reviewed_at = $4, payment_review_note = $5, updated_at = $6
		WHERE id = $1 AND payment_status = $2
	`

	res, err := r.db.ExecContext(ctx, query, id, prev, next, reviewedAt, note, time.Now())
	if err != nil {
		r.logger.Error("Failed to review payment", zap.Error(err))
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &errors.ErrConflict{Message: "payment was modified concurrently"}
	}
	return nil
}

func (r *orderRepository) Cancel(ctx context.Context, id uuid.UUID, from domain.OrderStatus, reason *string, requestRefund bool) error {
	query := `
		UPDATE orders
		SET status = $3, cancelled_at = $4, cancel_reason = $5,
			refund_status = CASE WHEN $6 THEN $7 ELSE refund_status END,
			updated_at = $8
		WHERE id = $1 AND status = $2
	`

	now := time.Now()
	res, err := r.db.ExecContext(ctx, query,
		id, from,
		domain.OrderStatusCancelled, now, reason,
		requestRefund, domain.RefundStatusRequested,
		now,
	)
	if err != nil {
		r.logger.Error("Failed to cancel order", zap.Error(err))
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &errors.ErrConflict{Message: "order was modified concurrently"}
	}
	return nil
}

func (r *orderRepository) UpdateAdminNote(ctx context.Context, id uuid.UUID, note *string) error {
	query := `
		UPDATE orders
		SET admin_note = $2, updated_at = $3
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query, id, note, time.Now())
	if err != nil {
		r.logger.Error("Failed to update admin note", zap.Error(err))
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &errors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	return nil
}

func (r *orderRepository) HasPurchased(ctx context.Context, userID uuid.UUID, productID string, statuses []domain.OrderStatus) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM orders o
			JOIN order_items i ON i.order_id = o.id
			WHERE o.user_id = $1 AND i.product_id = $2 AND o.status = ANY($3)
		)
	`

	ss := make([]string, len(statuses))
	for i, s := range statuses {
		ss[i] = string(s)
	}

	var found bool
	if err := r.db.QueryRowContext(ctx, query, userID, productID, pq.Array(ss)).Scan(&found); err != nil {
		r.logger.Error("Failed to check purchase", zap.Error(err))
		return false, err
	}
	return found, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	var userID uuid.NullUUID
	var guestToken sql.NullString
	var couponCode sql.NullString
	var provider sql.NullString
	var txnID sql.NullString
	var sender sql.NullString
	var amount sql.NullFloat64
	var proof sql.NullString
	var submittedAt sql.NullTime
	var reviewedAt sql.NullTime
	var reviewNote sql.NullString
	var adminNote sql.NullString
	var cancelledAt sql.NullTime
	var cancelReason sql.NullString

	err := row.Scan(
		&order.ID,
		&userID,
		&guestToken,
		&order.Customer.Name,
		&order.Customer.Phone,
		&order.Customer.Address,
		&order.Customer.Email,
		&order.Customer.DeliveryArea,
		&order.Subtotal,
		&order.Discount,
		&couponCode,
		&order.Shipping,
		&order.Total,
		&order.PaymentMethod,
		&order.Payment.Status,
		&provider,
		&txnID,
		&sender,
		&amount,
		&proof,
		&submittedAt,
		&reviewedAt,
		&reviewNote,
		&order.Status,
		&adminNote,
		&cancelledAt,
		&cancelReason,
		&order.RefundStatus,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if userID.Valid {
		order.Owner = domain.UserOwner{UserID: userID.UUID}
	} else if guestToken.Valid {
		order.Owner = domain.GuestOwner{Token: guestToken.String}
	}
	if couponCode.Valid {
		order.CouponCode = &couponCode.String
	}
	if provider.Valid {
		order.Payment.Provider = &provider.String
	}
	if txnID.Valid {
		order.Payment.TxnID = &txnID.String
	}
	if sender.Valid {
		order.Payment.Sender = &sender.String
	}
	if amount.Valid {
		order.Payment.Amount = &amount.Float64
	}
	if proof.Valid {
		order.Payment.ProofRef = &proof.String
	}
	if submittedAt.Valid {
		order.Payment.SubmittedAt = &submittedAt.Time
	}
	if reviewedAt.Valid {
		order.Payment.ReviewedAt = &reviewedAt.Time
	}
	if reviewNote.Valid {
		order.Payment.ReviewNote = &reviewNote.String
	}
	if adminNote.Valid {
		order.AdminNote = &adminNote.String
	}
	if cancelledAt.Valid {
		order.CancelledAt = &cancelledAt.Time
	}
	if cancelReason.Valid {
		order.CancelReason = &cancelReason.String
	}

	return &order, nil
}

func collectOrders(rows *sql.Rows) ([]*domain.Order, error) {
	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}
