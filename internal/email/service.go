package email

import (
	"context"
)

// Service sends moderation outcome notifications. Calls are fire-and-forget
// from the moderation service; a send failure never fails the moderation
// write.
type Service interface {
	SendOrganizationApproved(ctx context.Context, to, name string) error
	SendOrganizationRejected(ctx context.Context, to, name, reason string, canResubmit bool) error
	SendOrganizationBlocked(ctx context.Context, to, name, reason string) error
	SendProjectModerated(ctx context.Context, to, projectTitle, outcome, reason string) error
	SendCustom(ctx context.Context, to, subject, content string) error
}

// NoopService discards all mail. Used in tests and when SMTP is not
// configured.
type NoopService struct{}

func (NoopService) SendOrganizationApproved(context.Context, string, string) error {
	return nil
}

func (NoopService) SendOrganizationRejected(context.Context, string, string, string, bool) error {
	return nil
}

func (NoopService) SendOrganizationBlocked(context.Context, string, string, string) error {
	return nil
}

func (NoopService) SendProjectModerated(context.Context, string, string, string, string) error {
	return nil
}

func (NoopService) SendCustom(context.Context, string, string, string) error {
	return nil
}
