// Package notifier delivers customer-facing email and SMS. Delivery is
// best-effort at-most-once: callers discard errors after logging, and a
// missing provider configuration degrades to a dev log line.
package notifier

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/roboticsleb/storefront/internal/config"
)

// Email is an outbound message to the customer's address
type Email struct {
	To      string
	Subject string
	Text    string
}

// SMS is an outbound message to the customer's phone
type SMS struct {
	To   string
	Text string
}

// Notifier sends external customer notifications. Implementations must be
// safe for concurrent use.
type Notifier interface {
	SendEmail(ctx context.Context, e Email) error
	SendSMS(ctx context.Context, s SMS) error
}

type smtpNotifier struct {
	cfg    config.SMTPConfig
	logger *zap.Logger
}

// New creates the default notifier: SMTP for email when configured, dev log
// fallback otherwise. SMS always logs until a provider is wired.
func New(cfg config.SMTPConfig, logger *zap.Logger) Notifier {
	return &smtpNotifier{
		cfg:    cfg,
		logger: logger,
	}
}

func (n *smtpNotifier) SendEmail(ctx context.Context, e Email) error {
	if e.To == "" {
		return nil
	}
	if n.cfg.Host == "" {
		n.logger.Info("Email (dev mode, not sent)",
			zap.String("to", e.To),
			zap.String("subject", e.Subject),
		)
		return nil
	}

	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	var auth smtp.Auth
	if n.cfg.User != "" {
		auth = smtp.PlainAuth("", n.cfg.User, n.cfg.Pass, n.cfg.Host)
	}

	msg := strings.Join([]string{
		"From: " + n.cfg.From,
		"To: " + e.To,
		"Subject: " + e.Subject,
		"",
		e.Text,
	}, "\r\n")

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, n.cfg.From, []string{e.To}, []byte(msg))
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SendSMS is a placeholder: logs the message until an SMS provider is
// configured, so the trace still exists in development.
func (n *smtpNotifier) SendSMS(ctx context.Context, s SMS) error {
	if s.To == "" {
		return nil
	}
	n.logger.Info("SMS (dev mode, not sent)",
		zap.String("to", s.To),
		zap.String("text", s.Text),
	)
	return nil
}
