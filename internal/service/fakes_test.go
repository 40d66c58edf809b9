package service

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roboticsleb/storefront/internal/domain"
	"github.com/roboticsleb/storefront/internal/repository"
	"github.com/roboticsleb/storefront/internal/notifier"
	"github.com/roboticsleb/storefront/pkg/errors"
)

// In-memory repository fakes. Each one honors the same contract the postgres
// implementation does, including the compare-and-set semantics on orders.

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*domain.Order
	items  *fakeOrderItemRepo
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *order
	r.orders[order.ID] = &clone
	return nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	clone := *o
	return &clone, nil
}

func (r *fakeOrderRepo) List(ctx context.Context, limit, offset int) ([]*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Order
	for _, o := range r.orders {
		clone := *o
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakeOrderRepo) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Order
	for _, o := range r.orders {
		if u, ok := o.Owner.(domain.UserOwner); ok && u.UserID == userID {
			clone := *o
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) ListGuestByEmail(ctx context.Context, email string) ([]*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Order
	for _, o := range r.orders {
		if _, ok := o.Owner.(domain.GuestOwner); ok && strings.EqualFold(o.Customer.Email, email) {
			clone := *o
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) ClaimForUser(ctx context.Context, orderID, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return &errors.ErrNotFound{Resource: "order", ID: orderID.String()}
	}
	if _, guest := o.Owner.(domain.GuestOwner); guest {
		o.Owner = domain.UserOwner{UserID: userID}
	}
	return nil
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return &errors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	if o.Status != from {
		return &errors.ErrConflict{Message: "order was modified concurrently"}
	}
	o.Status = to
	o.UpdatedAt = time.Now()
	return nil
}

func (r *fakeOrderRepo) SubmitPayment(ctx context.Context, id uuid.UUID, prev domain.PaymentStatus, p domain.PaymentDetails) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return &errors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	if o.Payment.Status != prev {
		return &errors.ErrConflict{Message: "payment was modified concurrently"}
	}
	o.Payment = p
	o.UpdatedAt = time.Now()
	return nil
}

func (r *fakeOrderRepo) ReviewPayment(ctx context.Context, id uuid.UUID, prev, next domain.PaymentStatus, reviewedAt time.Time, note *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return &errors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	if o.Payment.Status != prev {
		return &errors.ErrConflict{Message: "payment was modified concurrently"}
	}
	o.Payment.Status = next
	o.Payment.ReviewedAt = &reviewedAt
	o.Payment.ReviewNote = note
	o.UpdatedAt = time.Now()
	return nil
}

func (r *fakeOrderRepo) Cancel(ctx context.Context, id uuid.UUID, from domain.OrderStatus, reason *string, requestRefund bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return &errors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	if o.Status != from {
		return &errors.ErrConflict{Message: "order was modified concurrently"}
	}
	now := time.Now()
	o.Status = domain.OrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	if requestRefund {
		o.RefundStatus = domain.RefundStatusRequested
	}
	o.UpdatedAt = now
	return nil
}

func (r *fakeOrderRepo) UpdateAdminNote(ctx context.Context, id uuid.UUID, note *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return &errors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	o.AdminNote = note
	return nil
}

func (r *fakeOrderRepo) HasPurchased(ctx context.Context, userID uuid.UUID, productID string, statuses []domain.OrderStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ok := map[domain.OrderStatus]bool{}
	for _, s := range statuses {
		ok[s] = true
	}
	for _, o := range r.orders {
		u, owned := o.Owner.(domain.UserOwner)
		if !owned || u.UserID != userID || !ok[o.Status] {
			continue
		}
		for _, it := range r.items.byOrder[o.ID] {
			if it.ProductID == productID {
				return true, nil
			}
		}
	}
	return false, nil
}

type fakeOrderItemRepo struct {
	mu      sync.Mutex
	byOrder map[uuid.UUID][]*domain.OrderItem
}

func (r *fakeOrderItemRepo) CreateBatch(ctx context.Context, items []*domain.OrderItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range items {
		clone := *it
		r.byOrder[it.OrderID] = append(r.byOrder[it.OrderID], &clone)
	}
	return nil
}

func (r *fakeOrderItemRepo) GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]*domain.OrderItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*domain.OrderItem(nil), r.byOrder[orderID]...), nil
}

type fakeOrderEventRepo struct {
	mu     sync.Mutex
	events []*domain.OrderEvent
}

func (r *fakeOrderEventRepo) Create(ctx context.Context, event *domain.OrderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *event
	r.events = append(r.events, &clone)
	return nil
}

func (r *fakeOrderEventRepo) GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]*domain.OrderEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.OrderEvent
	for _, ev := range r.events {
		if ev.OrderID == orderID {
			clone := *ev
			out = append(out, &clone)
		}
	}
	return out, nil
}

type fakeCouponRepo struct {
	mu      sync.Mutex
	byCode  map[string]*domain.Coupon
}

func (r *fakeCouponRepo) Create(ctx context.Context, coupon *domain.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byCode[coupon.Code]; exists {
		return &errors.ErrConflict{Message: "Coupon code already exists"}
	}
	clone := *coupon
	r.byCode[coupon.Code] = &clone
	return nil
}

func (r *fakeCouponRepo) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byCode[strings.ToUpper(code)]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "coupon", ID: code}
	}
	clone := *c
	return &clone, nil
}

func (r *fakeCouponRepo) List(ctx context.Context) ([]*domain.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Coupon
	for _, c := range r.byCode {
		clone := *c
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakeCouponRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for code, c := range r.byCode {
		if c.ID == id {
			delete(r.byCode, code)
			return nil
		}
	}
	return &errors.ErrNotFound{Resource: "coupon", ID: id.String()}
}

type fakeNotificationRepo struct {
	mu   sync.Mutex
	list []*domain.Notification
}

func (r *fakeNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *n
	r.list = append(r.list, &clone)
	return nil
}

func (r *fakeNotificationRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Notification
	for _, n := range r.list {
		if n.UserID == userID {
			clone := *n
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, n := range r.list {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, userID uuid.UUID, id *uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.list {
		if n.UserID == userID && (id == nil || n.ID == *id) {
			n.IsRead = true
		}
	}
	return nil
}

type fakeAdminNotificationRepo struct {
	mu   sync.Mutex
	list []*domain.AdminNotification
}

func (r *fakeAdminNotificationRepo) Create(ctx context.Context, n *domain.AdminNotification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *n
	r.list = append(r.list, &clone)
	return nil
}

func (r *fakeAdminNotificationRepo) List(ctx context.Context, limit int) ([]*domain.AdminNotification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*domain.AdminNotification(nil), r.list...), nil
}

func (r *fakeAdminNotificationRepo) UnreadCount(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, n := range r.list {
		if !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeAdminNotificationRepo) MarkRead(ctx context.Context, id *uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.list {
		if id == nil || n.ID == *id {
			n.IsRead = true
		}
	}
	return nil
}

type fakeReviewRepo struct {
	mu      sync.Mutex
	reviews map[uuid.UUID]*domain.Review
}

func (r *fakeReviewRepo) Create(ctx context.Context, review *domain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *review
	r.reviews[review.ID] = &clone
	return nil
}

func (r *fakeReviewRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rv, ok := r.reviews[id]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "review", ID: id.String()}
	}
	clone := *rv
	return &clone, nil
}

func (r *fakeReviewRepo) ListByProduct(ctx context.Context, productID string, approvedOnly bool) ([]*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Review
	for _, rv := range r.reviews {
		if rv.ProductID != productID {
			continue
		}
		if approvedOnly && rv.Status != domain.ReviewStatusApproved {
			continue
		}
		clone := *rv
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakeReviewRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Review
	for _, rv := range r.reviews {
		if rv.UserID != nil && *rv.UserID == userID {
			clone := *rv
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) ListAll(ctx context.Context) ([]*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Review
	for _, rv := range r.reviews {
		clone := *rv
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakeReviewRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ReviewStatus, adminNote *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rv, ok := r.reviews[id]
	if !ok {
		return &errors.ErrNotFound{Resource: "review", ID: id.String()}
	}
	rv.Status = status
	rv.AdminNote = adminNote
	return nil
}

func (r *fakeReviewRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.reviews, id)
	return nil
}

type fakeMessageRepo struct {
	mu   sync.Mutex
	list []*domain.Message
}

func (r *fakeMessageRepo) Create(ctx context.Context, m *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *m
	r.list = append(r.list, &clone)
	return nil
}

func (r *fakeMessageRepo) List(ctx context.Context, limit int) ([]*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*domain.Message(nil), r.list...), nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "user", ID: id.String()}
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, &errors.ErrNotFound{Resource: "user", ID: email}
}

type fakeSettingsRepo struct {
	mu       sync.Mutex
	settings domain.Settings
}

func (r *fakeSettingsRepo) Get(ctx context.Context) (*domain.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.settings
	return &s, nil
}

func (r *fakeSettingsRepo) Set(ctx context.Context, values map[string]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, v := range values {
		switch k {
		case "deliveryDhaka":
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				r.settings.DeliveryDhaka = f
			}
		case "deliveryOutside":
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				r.settings.DeliveryOutside = f
			}
		case "cancelWindowMin":
			if n, err := strconv.Atoi(v); err == nil {
				r.settings.CancelWindowMin = n
			}
		}
	}
	return nil
}

// fakeNotifier records external sends; safe for the fan-out's goroutines
type fakeNotifier struct {
	mu     sync.Mutex
	emails []notifier.Email
	sms    []notifier.SMS
}

func (n *fakeNotifier) SendEmail(ctx context.Context, e notifier.Email) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.emails = append(n.emails, e)
	return nil
}

func (n *fakeNotifier) SendSMS(ctx context.Context, s notifier.SMS) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sms = append(n.sms, s)
	return nil
}

// fakeFileStore returns deterministic refs without touching the filesystem
type fakeFileStore struct {
	mu    sync.Mutex
	saved int
}

func (f *fakeFileStore) SaveImage(ctx context.Context, dataURL string) (string, error) {
	if !strings.HasPrefix(dataURL, "data:image") {
		return "", &errors.ErrMissingProof{}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved++
	return "/uploads/proof-" + strconv.Itoa(f.saved) + ".jpg", nil
}

type testEnv struct {
	repos      *repository.Repositories
	orderRepo  *fakeOrderRepo
	itemRepo   *fakeOrderItemRepo
	eventRepo  *fakeOrderEventRepo
	couponRepo *fakeCouponRepo
	notifRepo  *fakeNotificationRepo
	adminRepo  *fakeAdminNotificationRepo
	reviewRepo *fakeReviewRepo
	userRepo   *fakeUserRepo
	settings   *fakeSettingsRepo
	files      *fakeFileStore
	external   *fakeNotifier

	notify  *NotificationService
	orders  *OrderService
	reviews *ReviewService
	auth    *AuthService
	coupons *CouponService
}

func newTestEnv() *testEnv {
	items := &fakeOrderItemRepo{byOrder: map[uuid.UUID][]*domain.OrderItem{}}
	env := &testEnv{
		orderRepo:  &fakeOrderRepo{orders: map[uuid.UUID]*domain.Order{}, items: items},
		itemRepo:   items,
		eventRepo:  &fakeOrderEventRepo{},
		couponRepo: &fakeCouponRepo{byCode: map[string]*domain.Coupon{}},
		notifRepo:  &fakeNotificationRepo{},
		adminRepo:  &fakeAdminNotificationRepo{},
		reviewRepo: &fakeReviewRepo{reviews: map[uuid.UUID]*domain.Review{}},
		userRepo:   &fakeUserRepo{users: map[uuid.UUID]*domain.User{}},
		settings: &fakeSettingsRepo{settings: domain.Settings{
			DeliveryDhaka:   100,
			DeliveryOutside: 150,
			CancelWindowMin: 10,
		}},
		files:    &fakeFileStore{},
		external: &fakeNotifier{},
	}

	env.repos = &repository.Repositories{
		Order:             env.orderRepo,
		OrderItem:         env.itemRepo,
		OrderEvent:        env.eventRepo,
		Coupon:            env.couponRepo,
		Notification:      env.notifRepo,
		AdminNotification: env.adminRepo,
		Review:            env.reviewRepo,
		Message:           &fakeMessageRepo{},
		User:              env.userRepo,
		Settings:          env.settings,
	}

	logger := zap.NewNop()
	env.notify = NewNotificationService(env.repos, env.external, logger)
	env.orders = NewOrderService(env.repos, env.files, env.notify, logger)
	env.reviews = NewReviewService(env.repos, env.notify, logger)
	env.auth = NewAuthService(env.repos, "test-secret", logger)
	env.coupons = NewCouponService(env.repos, logger)
	return env
}

func (e *testEnv) addUser(name, email string, role domain.Role) *domain.User {
	u := &domain.User{
		ID:    uuid.New(),
		Name:  name,
		Email: email,
		Role:  role,
	}
	_ = e.userRepo.Create(context.Background(), u)
	return u
}
