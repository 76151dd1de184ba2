package capabilities

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/albmartin/po-intake/internal/config"
	"github.com/albmartin/po-intake/internal/workflow"
)

// SMTPSender delivers email directly over SMTP for deployments without
// a tool gateway.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender creates a sender for the configured SMTP relay.
func NewSMTPSender(cfg *config.SMTPConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *SMTPSender) Send(ctx context.Context, email workflow.Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email.To)
	m.SetHeader("Subject", email.Subject)

	contentType := "text/plain"
	if email.HTML {
		contentType = "text/html"
	}
	m.SetBody(contentType, email.Body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}
