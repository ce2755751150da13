package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/xyvra/marketplace-api/config"
)

type gomailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewGomailService(cfg config.SMTPConfig) Service {
	return &gomailService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *gomailService) SendVerification(ctx context.Context, email, name, code string) error {
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your verification code is <strong>%s</strong>.</p><p>Enter it to activate your account.</p>",
		name, code,
	)
	return s.send(ctx, email, "Verify your email address", body)
}

func (s *gomailService) SendPasswordReset(ctx context.Context, email, name, code string) error {
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your password reset code is <strong>%s</strong>.</p><p>It expires in one hour. If you did not request this, ignore this email.</p>",
		name, code,
	)
	return s.send(ctx, email, "Password reset code", body)
}

func (s *gomailService) SendWelcome(ctx context.Context, email, name string) error {
	body := fmt.Sprintf("<p>Hi %s,</p><p>Your account is now active. Welcome aboard.</p>", name)
	return s.send(ctx, email, "Welcome", body)
}

func (s *gomailService) SendCustom(ctx context.Context, to, subject, content string) error {
	return s.send(ctx, to, subject, content)
}

func (s *gomailService) send(ctx context.Context, to, subject, body string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
