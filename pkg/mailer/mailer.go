package mailer

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/trampala/trampala-backend/pkg/config"
	"github.com/trampala/trampala-backend/pkg/logger"
)

// Sender delivers a single message. Implementations must be safe for
// concurrent use.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer sends plain-text mail over SMTP.
type Mailer struct {
	cfg    config.SMTPConfig
	dialer dialer
}

// New builds a Mailer from SMTP configuration.
func New(cfg config.SMTPConfig) *Mailer {
	return &Mailer{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// Send delivers the message. When SMTP is not configured the message is
// silently dropped so callers never have to branch on deployment setup.
func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	if !m.cfg.Enabled() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("sending mail to %s: %w", to, err)
	}
	return nil
}

// SendWelcome delivers the post-registration greeting.
func (m *Mailer) SendWelcome(ctx context.Context, to, name string) error {
	subject := "Welcome to Trampala"
	body := fmt.Sprintf("Hi %s,\n\nYour account has been created. You can now publish listings.\n\nThe Trampala team", name)
	return m.Send(ctx, to, subject, body)
}

// Async wraps a Sender so failures are logged instead of propagated. Used for
// fire-and-forget notifications that must never block the request path.
type Async struct {
	sender Sender
	logg   *logger.Logger
}

// NewAsync builds the fire-and-forget wrapper.
func NewAsync(sender Sender, logg *logger.Logger) *Async {
	return &Async{sender: sender, logg: logg}
}

// SendWelcome dispatches the welcome mail on its own goroutine.
func (a *Async) SendWelcome(to, name string) {
	go func() {
		ctx := context.Background()
		subject := "Welcome to Trampala"
		body := fmt.Sprintf("Hi %s,\n\nYour account has been created. You can now publish listings.\n\nThe Trampala team", name)
		if err := a.sender.Send(ctx, to, subject, body); err != nil && a.logg != nil {
			a.logg.Error(ctx, "welcome email delivery failed", err)
		}
	}()
}
