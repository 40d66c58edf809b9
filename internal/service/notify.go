package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roboticsleb/storefront/internal/domain"
	"github.com/roboticsleb/storefront/internal/notifier"
	"github.com/roboticsleb/storefront/internal/repository"
)

// External channels get a bounded window and then fail closed; a slow SMTP
// server must never hang a request.
const externalSendTimeout = 10 * time.Second

// NotificationService is the fan-out for order, payment and review changes.
// Every delivery here is best-effort: failures are logged and swallowed so
// they can never fail the primary operation that triggered them.
type NotificationService struct {
	repos    *repository.Repositories
	external notifier.Notifier
	logger   *zap.Logger
}

// NewNotificationService creates the notification fan-out
func NewNotificationService(repos *repository.Repositories, external notifier.Notifier, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		repos:    repos,
		external: external,
		logger:   logger,
	}
}

// OrderCreated posts the "new order" entry to the admin inbox.
func (s *NotificationService) OrderCreated(ctx context.Context, order *domain.Order) {
	method := string(order.PaymentMethod)
	body := fmt.Sprintf("%s placed an order (%s).", order.Customer.Name, strings.ToUpper(method))
	if order.Payment.Status == domain.PaymentStatusSubmitted {
		body = fmt.Sprintf("%s placed an order via %s (payment proof submitted).", order.Customer.Name, strings.ToUpper(method))
	}
	s.addAdmin(ctx, "order", fmt.Sprintf("New order #%s", order.ID), body, "order", order.ID.String())
}

// StatusChanged fans out a fulfilment-status change: in-app notification for
// the owning user plus external email/SMS to the customer.
func (s *NotificationService) StatusChanged(ctx context.Context, order *domain.Order, status domain.OrderStatus) {
	label := status.Label()

	if userID := order.OwnerUserID(); userID != uuid.Nil {
		s.addUser(ctx, userID, "order",
			fmt.Sprintf("Order #%s updated", order.ID),
			fmt.Sprintf("Your order status is now: %s", label),
		)
	}

	subject := fmt.Sprintf("Your order %s status: %s", order.ID, label)
	text := fmt.Sprintf("Hello %s,\n\nYour order #%s status has been updated to: %s.\n\nThank you for shopping with RoboticsLeb.",
		order.Customer.Name, order.ID, label)
	sms := fmt.Sprintf("RoboticsLeb: Order #%s is now %s.", order.ID, label)
	s.dispatchExternal(order, subject, text, sms)
}

// PaymentSubmitted confirms proof receipt to the user and flags the admin inbox.
func (s *NotificationService) PaymentSubmitted(ctx context.Context, order *domain.Order) {
	if userID := order.OwnerUserID(); userID != uuid.Nil {
		s.addUser(ctx, userID, "order",
			fmt.Sprintf("Payment submitted for #%s", order.ID),
			"We received your payment details. We'll verify and update your order soon.",
		)
	}
	s.addAdmin(ctx, "order",
		fmt.Sprintf("Payment proof for #%s", order.ID),
		fmt.Sprintf("%s submitted payment proof (%s).", order.Customer.Name, strings.ToUpper(string(order.PaymentMethod))),
		"order", order.ID.String(),
	)
}

// PaymentReviewed tells the customer the verification outcome.
func (s *NotificationService) PaymentReviewed(ctx context.Context, order *domain.Order, approved bool, note *string) {
	if userID := order.OwnerUserID(); userID != uuid.Nil {
		if approved {
			s.addUser(ctx, userID, "order",
				fmt.Sprintf("Payment verified for #%s", order.ID),
				"Your payment has been verified. We'll process your order now.",
			)
		} else {
			body := "Payment rejected"
			if note != nil && *note != "" {
				body = *note
			}
			s.addUser(ctx, userID, "order", fmt.Sprintf("Payment rejected for #%s", order.ID), body)
		}
	}

	label := order.Status.Label()
	subject := fmt.Sprintf("Your order %s status: %s", order.ID, label)
	text := fmt.Sprintf("Hello %s,\n\nYour order #%s status has been updated to: %s.\n\nThank you for shopping with RoboticsLeb.",
		order.Customer.Name, order.ID, label)
	sms := fmt.Sprintf("RoboticsLeb: Order #%s is now %s.", order.ID, label)
	s.dispatchExternal(order, subject, text, sms)
}

// OrderCancelled confirms a self-service cancellation to the user.
func (s *NotificationService) OrderCancelled(ctx context.Context, order *domain.Order, windowMin int) {
	if userID := order.OwnerUserID(); userID != uuid.Nil {
		s.addUser(ctx, userID, "order",
			fmt.Sprintf("Order #%s cancelled", order.ID),
			fmt.Sprintf("You cancelled the order within %d minutes.", windowMin),
		)
	}
}

// ReviewModerated tells the review's owner about the approve/hide decision.
func (s *NotificationService) ReviewModerated(ctx context.Context, review *domain.Review) {
	if review.UserID == nil {
		return
	}
	switch review.Status {
	case domain.ReviewStatusApproved:
		s.addUser(ctx, *review.UserID, "review",
			fmt.Sprintf("Your review was %s", review.Status),
			"Your review is now visible on the product page.",
		)
	case domain.ReviewStatusHidden:
		s.addUser(ctx, *review.UserID, "review",
			fmt.Sprintf("Your review was %s", review.Status),
			"Your review has been hidden by admin.",
		)
	}
}

// MessageReceived flags an inbound contact message in the admin inbox.
func (s *NotificationService) MessageReceived(ctx context.Context, msg *domain.Message) {
	subject := "Contact message"
	if msg.Subject != nil && *msg.Subject != "" {
		subject = *msg.Subject
	}
	s.addAdmin(ctx, "message",
		fmt.Sprintf("New message from %s", msg.Name),
		subject, "message", msg.ID.String(),
	)
}

func (s *NotificationService) addUser(ctx context.Context, userID uuid.UUID, typ, title, body string) {
	n := &domain.Notification{UserID: userID, Type: typ, Title: title, Body: &body}
	if err := s.repos.Notification.Create(ctx, n); err != nil {
		s.logger.Warn("Failed to create user notification", zap.Error(err))
	}
}

func (s *NotificationService) addAdmin(ctx context.Context, typ, title, body, refType, refID string) {
	n := &domain.AdminNotification{
		Type:    typ,
		Title:   title,
		Body:    &body,
		RefType: &refType,
		RefID:   &refID,
	}
	if err := s.repos.AdminNotification.Create(ctx, n); err != nil {
		s.logger.Warn("Failed to create admin notification", zap.Error(err))
	}
}

// dispatchExternal sends email and SMS on their own goroutines so neither
// channel blocks the other or the request. Each send gets its own deadline
// and its error is only logged; the order mutation has already committed.
func (s *NotificationService) dispatchExternal(order *domain.Order, subject, text, sms string) {
	email := order.Customer.Email
	phone := order.Customer.Phone

	if email != "" {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), externalSendTimeout)
			defer cancel()
			if err := s.external.SendEmail(ctx, notifier.Email{To: email, Subject: subject, Text: text}); err != nil {
				s.logger.Warn("Email notification failed", zap.String("to", email), zap.Error(err))
			}
		}()
	}
	if phone != "" {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), externalSendTimeout)
			defer cancel()
			if err := s.external.SendSMS(ctx, notifier.SMS{To: phone, Text: sms}); err != nil {
				s.logger.Warn("SMS notification failed", zap.String("to", phone), zap.Error(err))
			}
		}()
	}
}

