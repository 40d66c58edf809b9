package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roboticsleb/storefront/internal/domain"
	"github.com/roboticsleb/storefront/internal/pricing"
	"github.com/roboticsleb/storefront/internal/repository"
	"github.com/roboticsleb/storefront/internal/storage"
	"github.com/roboticsleb/storefront/pkg/errors"
)

// OrderService owns the order lifecycle: creation with server-side pricing,
// the fulfilment state machine, manual payment verification, and customer
// self-service cancellation.
type OrderService struct {
	repos  *repository.Repositories
	files  storage.FileStore
	notify *NotificationService
	logger *zap.Logger
	now    func() time.Time
}

// NewOrderService creates the order service
func NewOrderService(repos *repository.Repositories, files storage.FileStore, notify *NotificationService, logger *zap.Logger) *OrderService {
	return &OrderService{
		repos:  repos,
		files:  files,
		notify: notify,
		logger: logger,
		now:    time.Now,
	}
}

// Create validates the checkout payload, recomputes all pricing server-side
// and persists the new order in `pending`. Client-supplied totals are never
// read. Guest checkouts get a fresh tracking token as their only credential.
func (s *OrderService) Create(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	if err := validateCheckout(&input); err != nil {
		return nil, err
	}

	method, err := parsePaymentMethod(input.PaymentMethod)
	if err != nil {
		return nil, err
	}
	if input.Payment != nil && !method.IsManual() {
		return nil, &errors.ErrPaymentNotApplicable{Method: method}
	}

	settings, err := s.repos.Settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()

	var coupon *domain.Coupon
	if code := strings.ToUpper(strings.TrimSpace(input.Customer.Coupon)); code != "" {
		// Unknown or unusable coupons never fail checkout; they just apply
		// no discount. The validate endpoint is where rejections surface.
		if c, err := s.repos.Coupon.GetByCode(ctx, code); err == nil {
			coupon = c
		}
	}

	items := make([]pricing.CartItem, 0, len(input.Items))
	for _, it := range input.Items {
		// A missing quantity defaults to 1; an explicit negative is floored at
		// zero so the line contributes nothing.
		qty := 1
		if it.Quantity != nil {
			qty = *it.Quantity
			if qty < 0 {
				qty = 0
			}
		}
		items = append(items, pricing.CartItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  qty,
			UnitPrice: it.UnitPrice,
		})
	}

	quote := pricing.Compute(items, pricing.ParseArea(input.Customer.DeliveryArea), pricing.Rates{
		Dhaka:   settings.DeliveryDhaka,
		Outside: settings.DeliveryOutside,
	}, coupon, now)

	var owner domain.OrderOwner
	if input.UserID != uuid.Nil {
		owner = domain.UserOwner{UserID: input.UserID}
	} else {
		owner = domain.GuestOwner{Token: newGuestToken()}
	}

	payment, err := s.initialPayment(ctx, method, input.Payment, now)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		ID:    uuid.New(),
		Owner: owner,
		Customer: domain.CustomerInfo{
			Name:         strings.TrimSpace(input.Customer.Name),
			Phone:        strings.TrimSpace(input.Customer.Phone),
			Address:      strings.TrimSpace(input.Customer.Address),
			Email:        strings.TrimSpace(input.Customer.Email),
			DeliveryArea: pricing.ParseArea(input.Customer.DeliveryArea),
		},
		Subtotal:      quote.Subtotal,
		Discount:      quote.Discount,
		CouponCode:    quote.CouponCode,
		Shipping:      quote.Shipping,
		Total:         quote.Total,
		PaymentMethod: method,
		Payment:       payment,
		Status:        domain.OrderStatusPending,
		RefundStatus:  domain.RefundStatusNone,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repos.Order.Create(ctx, order); err != nil {
		return nil, err
	}

	orderItems := make([]*domain.OrderItem, 0, len(items))
	for _, it := range items {
		orderItems = append(orderItems, &domain.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	if err := s.repos.OrderItem.CreateBatch(ctx, orderItems); err != nil {
		return nil, err
	}
	for _, it := range orderItems {
		order.Items = append(order.Items, *it)
	}

	actor := domain.ActorSystem
	if input.UserID != uuid.Nil {
		actor = domain.ActorUser
	}
	s.appendEvent(ctx, order.ID, domain.OrderStatusPending, strPtr("Order placed"), actor)

	s.notify.OrderCreated(ctx, order)

	return order, nil
}

// UpdateStatus runs the admin/system fulfilment transition. Re-asserting the
// current status is allowed and still appends a timeline event, so retried
// admin clicks stay observable without corrupting the workflow.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status string, note *string, actor domain.Actor) (*domain.Order, error) {
	next := domain.OrderStatus(strings.ToLower(strings.TrimSpace(status)))
	if !next.IsValid() {
		return nil, &errors.ErrInvalidStatus{Status: status}
	}

	order, err := s.repos.Order.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.Status != next && !order.Status.CanTransitionTo(next) {
		return nil, &errors.ErrInvalidTransition{From: order.Status, To: next}
	}

	if err := s.repos.Order.UpdateStatus(ctx, id, order.Status, next); err != nil {
		return nil, err
	}
	order.Status = next

	s.appendEvent(ctx, id, next, note, actor)
	s.notify.StatusChanged(ctx, order, next)

	return order, nil
}

// SubmitPaymentProof records the customer's manual-payment evidence and moves
// the payment sub-state to `submitted`. It never touches the fulfilment
// status; verification is an explicit admin step.
func (s *OrderService) SubmitPaymentProof(ctx context.Context, id uuid.UUID, principal *domain.User, input SubmitPaymentInput) (*domain.Order, error) {
	order, err := s.repos.Order.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanMutateOrder(order, principal) {
		return nil, &errors.ErrUnauthorized{Message: "You do not have access to this order"}
	}

	if !order.PaymentMethod.IsManual() {
		return nil, &errors.ErrPaymentNotApplicable{Method: order.PaymentMethod}
	}

	provider := strings.ToLower(strings.TrimSpace(input.Provider))
	if provider == "" {
		provider = string(order.PaymentMethod)
	}
	if provider != string(order.PaymentMethod) {
		return nil, &errors.ErrProviderMismatch{Provider: provider, Method: order.PaymentMethod}
	}

	txnID := strings.TrimSpace(input.TxnID)
	if txnID == "" {
		return nil, &errors.ErrMissingTxnID{}
	}
	if input.ProofDataURL == "" {
		return nil, &errors.ErrMissingProof{}
	}

	proofRef, err := s.files.SaveImage(ctx, input.ProofDataURL)
	if err != nil {
		return nil, &errors.ErrMissingProof{}
	}

	now := s.now()
	details := domain.PaymentDetails{
		Status:      domain.PaymentStatusSubmitted,
		Provider:    &provider,
		TxnID:       &txnID,
		ProofRef:    &proofRef,
		SubmittedAt: &now,
	}
	if sender := strings.TrimSpace(input.Sender); sender != "" {
		details.Sender = &sender
	}
	if input.Amount != nil && *input.Amount > 0 {
		details.Amount = input.Amount
	}

	if err := s.repos.Order.SubmitPayment(ctx, id, order.Payment.Status, details); err != nil {
		return nil, err
	}
	order.Payment = details

	s.appendEvent(ctx, id, domain.OrderStatusPaid, strPtr("Payment submitted (awaiting verification)"), domain.ActorUser)
	s.notify.PaymentSubmitted(ctx, order)

	return order, nil
}

// ReviewPayment is the admin verdict on a manual payment. It works from any
// payment sub-state (an admin may verify money received out of band on an
// order with no submitted proof). Approval additionally tries to advance
// fulfilment to `paid`, but only when the workflow allows it from the current
// status; a shipped order keeps its fulfilment status and still gets its
// payment marked verified.
func (s *OrderService) ReviewPayment(ctx context.Context, id uuid.UUID, approve bool, note *string) (*domain.Order, error) {
	order, err := s.repos.Order.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.PaymentMethod.IsManual() {
		return nil, &errors.ErrPaymentNotApplicable{Method: order.PaymentMethod}
	}

	next := domain.PaymentStatusRejected
	if approve {
		next = domain.PaymentStatusVerified
	}

	now := s.now()
	if err := s.repos.Order.ReviewPayment(ctx, id, order.Payment.Status, next, now, note); err != nil {
		return nil, err
	}
	order.Payment.Status = next
	order.Payment.ReviewedAt = &now
	order.Payment.ReviewNote = note

	if approve {
		// Try to advance fulfilment to paid; a blocked transition never fails
		// the verification itself.
		if order.Status.CanTransitionTo(domain.OrderStatusPaid) {
			if err := s.repos.Order.UpdateStatus(ctx, id, order.Status, domain.OrderStatusPaid); err == nil {
				order.Status = domain.OrderStatusPaid
			} else {
				s.logger.Warn("Could not advance order to paid after verification",
					zap.String("order_id", id.String()), zap.Error(err))
			}
		}
		s.appendEvent(ctx, id, domain.OrderStatusPaid, strPtr("Payment verified"), domain.ActorAdmin)
	} else {
		s.appendEvent(ctx, id, domain.OrderStatusRejected, strPtr("Payment rejected"), domain.ActorAdmin)
	}

	s.notify.PaymentReviewed(ctx, order, approve, note)

	return order, nil
}

// Cancel is the customer self-service cancellation: only from pending or
// confirmed, and only within the settings-driven window after creation.
// Prepaid methods additionally flag a refund request for admin follow-up.
func (s *OrderService) Cancel(ctx context.Context, id uuid.UUID, principal *domain.User, reason *string) (*domain.Order, error) {
	order, err := s.repos.Order.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanMutateOrder(order, principal) {
		return nil, &errors.ErrUnauthorized{Message: "You do not have access to this order"}
	}

	if order.Status != domain.OrderStatusPending && order.Status != domain.OrderStatusConfirmed {
		return nil, &errors.ErrInvalidStage{Status: order.Status}
	}

	settings, err := s.repos.Settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	window := settings.CancelWindowMin
	if window < 1 {
		window = 1
	}

	if order.CreatedAt.IsZero() {
		return nil, &errors.ErrInvalidOrderTime{}
	}
	if s.now().Sub(order.CreatedAt) > time.Duration(window)*time.Minute {
		return nil, &errors.ErrWindowExpired{Minutes: window}
	}

	requestRefund := order.PaymentMethod != domain.PaymentMethodCOD
	if err := s.repos.Order.Cancel(ctx, id, order.Status, reason, requestRefund); err != nil {
		return nil, err
	}
	order.Status = domain.OrderStatusCancelled
	order.CancelReason = reason
	cancelledAt := s.now()
	order.CancelledAt = &cancelledAt
	if requestRefund {
		order.RefundStatus = domain.RefundStatusRequested
	}

	note := "Cancelled by customer"
	if reason != nil && strings.TrimSpace(*reason) != "" {
		note = fmt.Sprintf("Cancelled by customer: %s", strings.TrimSpace(*reason))
	}
	s.appendEvent(ctx, id, domain.OrderStatusCancelled, &note, domain.ActorUser)

	s.notify.OrderCancelled(ctx, order, window)

	return order, nil
}

// UpdateAdminNote sets or clears the internal admin note on an order
func (s *OrderService) UpdateAdminNote(ctx context.Context, id uuid.UUID, note *string) error {
	return s.repos.Order.UpdateAdminNote(ctx, id, note)
}

// Get loads an order with its line items and timeline
func (s *OrderService) Get(ctx context.Context, id uuid.UUID) (*domain.Order, []*domain.OrderEvent, error) {
	order, err := s.repos.Order.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if err := s.attachItems(ctx, order); err != nil {
		return nil, nil, err
	}
	events, err := s.repos.OrderEvent.GetByOrderID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return order, events, nil
}

// Track is the customer/guest view of an order: the access guard decides,
// then the order is returned with its timeline.
func (s *OrderService) Track(ctx context.Context, id uuid.UUID, principal *domain.User, guestToken string) (*domain.Order, []*domain.OrderEvent, error) {
	order, events, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !CanReadOrder(order, principal, guestToken) {
		return nil, nil, &errors.ErrUnauthorized{Message: "You do not have access to this order"}
	}
	return order, events, nil
}

// ListForUser returns the user's orders, newest first. Before listing it
// makes a best-effort pass to claim unclaimed guest orders whose checkout
// email matches the account, so pre-registration purchases show up.
func (s *OrderService) ListForUser(ctx context.Context, user *domain.User) ([]*domain.Order, error) {
	if guests, err := s.repos.Order.ListGuestByEmail(ctx, user.Email); err == nil {
		for _, g := range guests {
			if err := s.repos.Order.ClaimForUser(ctx, g.ID, user.ID); err != nil {
				s.logger.Warn("Failed to claim guest order",
					zap.String("order_id", g.ID.String()), zap.Error(err))
			}
		}
	}

	orders, err := s.repos.Order.ListByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		if err := s.attachItems(ctx, o); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// ListAll is the admin listing, newest first
func (s *OrderService) ListAll(ctx context.Context, limit, offset int) ([]*domain.Order, error) {
	orders, err := s.repos.Order.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		if err := s.attachItems(ctx, o); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (s *OrderService) attachItems(ctx context.Context, order *domain.Order) error {
	items, err := s.repos.OrderItem.GetByOrderID(ctx, order.ID)
	if err != nil {
		return err
	}
	order.Items = order.Items[:0]
	for _, it := range items {
		order.Items = append(order.Items, *it)
	}
	return nil
}

// appendEvent adds a timeline entry. Timeline failures are logged and
// swallowed; the state change has already been committed.
func (s *OrderService) appendEvent(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus, note *string, actor domain.Actor) {
	event := &domain.OrderEvent{
		ID:        uuid.New(),
		OrderID:   orderID,
		Status:    status,
		Note:      note,
		Actor:     actor,
		CreatedAt: s.now(),
	}
	if err := s.repos.OrderEvent.Create(ctx, event); err != nil {
		s.logger.Warn("Failed to append order event",
			zap.String("order_id", orderID.String()), zap.Error(err))
	}
}

// initialPayment builds the payment sub-state for a new order, persisting the
// up-front proof when the manual checkout supplied one.
func (s *OrderService) initialPayment(ctx context.Context, method domain.PaymentMethod, p *ManualPaymentInput, now time.Time) (domain.PaymentDetails, error) {
	details := domain.PaymentDetails{Status: method.DefaultPaymentStatus()}
	if p == nil {
		return details, nil
	}

	txnID := strings.TrimSpace(p.TxnID)
	if txnID == "" {
		return details, &errors.ErrMissingTxnID{}
	}
	if p.ProofDataURL == "" {
		return details, &errors.ErrMissingProof{}
	}
	proofRef, err := s.files.SaveImage(ctx, p.ProofDataURL)
	if err != nil {
		return details, &errors.ErrMissingProof{}
	}

	provider := string(method)
	details.Status = domain.PaymentStatusSubmitted
	details.Provider = &provider
	details.TxnID = &txnID
	details.ProofRef = &proofRef
	details.SubmittedAt = &now
	if sender := strings.TrimSpace(p.Sender); sender != "" {
		details.Sender = &sender
	}
	if p.Amount != nil && *p.Amount > 0 {
		details.Amount = p.Amount
	}
	return details, nil
}

func validateCheckout(input *CreateOrderInput) error {
	checks := []struct {
		field, message string
		missing        bool
	}{
		{"name", "Name is required", strings.TrimSpace(input.Customer.Name) == ""},
		{"phone", "Phone is required", strings.TrimSpace(input.Customer.Phone) == ""},
		{"address", "Address is required", strings.TrimSpace(input.Customer.Address) == ""},
		{"email", "Email is required for guest checkout",
			input.UserID == uuid.Nil && strings.TrimSpace(input.Customer.Email) == ""},
		{"items", "Cart is empty", len(input.Items) == 0},
	}

	fields := map[string]string{}
	message := ""
	for _, c := range checks {
		if c.missing {
			fields[c.field] = c.message
			if message == "" {
				message = c.message
			}
		}
	}
	if message != "" {
		return &errors.ErrValidation{Message: message, Fields: fields}
	}
	return nil
}

func parsePaymentMethod(s string) (domain.PaymentMethod, error) {
	m := domain.PaymentMethod(strings.ToLower(strings.TrimSpace(s)))
	if m == "" {
		return domain.PaymentMethodCOD, nil
	}
	switch m {
	case domain.PaymentMethodCOD, domain.PaymentMethodBkash, domain.PaymentMethodNagad, domain.PaymentMethodRocket:
		return m, nil
	default:
		return "", &errors.ErrValidation{Message: "Invalid payment method: " + s}
	}
}

func newGuestToken() string {
	return "gt_" + strings.ReplaceAll(uuid.New().String(), "-", "")
}

func strPtr(s string) *string { return &s }
