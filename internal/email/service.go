// Package email sends the registration and password-reset mail. The core
// never depends on delivery succeeding.
package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

type Service interface {
	SendWelcome(ctx context.Context, to, name string) error
	SendPasswordReset(ctx context.Context, to, token string) error
	SendCustom(ctx context.Context, to, subject, body string) error
}

type Config struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPService(cfg Config) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) SendWelcome(ctx context.Context, to, name string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour account has been created.\n", name)
	return s.SendCustom(ctx, to, "Welcome", body)
}

func (s *smtpService) SendPasswordReset(ctx context.Context, to, token string) error {
	body := fmt.Sprintf("Use this token to reset your password: %s\n\nIt expires in one hour.\n", token)
	return s.SendCustom(ctx, to, "Password reset", body)
}

func (s *smtpService) SendCustom(ctx context.Context, to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send %q mail to %s: %w", subject, to, err)
	}
	return nil
}

// NopService discards all mail; used in tests and when SMTP is not
// configured.
type NopService struct{}

func (NopService) SendWelcome(context.Context, string, string) error      { return nil }
func (NopService) SendPasswordReset(context.Context, string, string) error { return nil }
func (NopService) SendCustom(context.Context, string, string, string) error {
	return nil
}
