package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/devtogether/platform-api/internal/config"
)

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPService builds a gomail-backed sender.
func NewSMTPService(cfg config.SMTPConfig) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) send(to, subject, body string) error {
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

func (s *smtpService) SendOrganizationApproved(_ context.Context, to, name string) error {
	body := fmt.Sprintf("<p>Hi %s,</p><p>Your organization has been verified. You can now post projects.</p>", name)
	return s.send(to, "Your organization is approved", body)
}

func (s *smtpService) SendOrganizationRejected(_ context.Context, to, name, reason string, canResubmit bool) error {
	body := fmt.Sprintf("<p>Hi %s,</p><p>Your organization was not approved: %s</p>", name, reason)
	if canResubmit {
		body += "<p>You may update your profile and resubmit for review.</p>"
	}
	return s.send(to, "Your organization was not approved", body)
}

func (s *smtpService) SendOrganizationBlocked(_ context.Context, to, name, reason string) error {
	body := fmt.Sprintf("<p>Hi %s,</p><p>Your organization has been blocked: %s</p>", name, reason)
	return s.send(to, "Your organization has been blocked", body)
}

func (s *smtpService) SendProjectModerated(_ context.Context, to, projectTitle, outcome, reason string) error {
	body := fmt.Sprintf("<p>Your project %q has been %s.</p>", projectTitle, outcome)
	if reason != "" {
		body += fmt.Sprintf("<p>Reason: %s</p>", reason)
	}
	return s.send(to, fmt.Sprintf("Project %s: %s", projectTitle, outcome), body)
}

func (s *smtpService) SendCustom(_ context.Context, to, subject, content string) error {
	return s.send(to, subject, content)
}
