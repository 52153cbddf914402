package mail

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"servicedesk/pkg/config"
	"servicedesk/pkg/logger"
)

// Sender delivers generated reports. The dispatcher only sees this interface;
// tests substitute a fake.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPSender delivers plain-text mail over SMTP.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender creates a sender from mail configuration.
func NewSMTPSender(cfg *config.MailConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// Send delivers one message. A transport failure is returned to the caller;
// the dispatcher treats it as retriable on the next tick.
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}

	logger.InfoCtx(ctx, "mail sent to %s, subject: %s", to, subject)
	return nil
}
