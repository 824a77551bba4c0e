// Package moderation orchestrates the approve/reject/block/resubmit workflow
// for organizations and projects, and admin role grants. Legality is decided
// by the lifecycle package against freshly loaded state; this service only
// persists the outcome and fires notifications.
package moderation

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/devtogether/platform-api/internal/email"
	"github.com/devtogether/platform-api/internal/lifecycle"
	"github.com/devtogether/platform-api/internal/model"
	"github.com/devtogether/platform-api/internal/repository"
	"github.com/devtogether/platform-api/internal/service/authz"
	apperrors "github.com/devtogether/platform-api/pkg/errors"
	"github.com/devtogether/platform-api/pkg/messaging"
	"github.com/devtogether/platform-api/pkg/metrics"
)

type Service struct {
	accounts repository.AccountRepository
	projects repository.ProjectRepository
	gate     *authz.Service
	emailSvc email.Service
	broker   messaging.Broker
	metrics  *metrics.Metrics
}

func NewService(
	accounts repository.AccountRepository,
	projects repository.ProjectRepository,
	gate *authz.Service,
	emailSvc email.Service,
	broker messaging.Broker,
	m *metrics.Metrics,
) *Service {
	return &Service{
		accounts: accounts,
		projects: projects,
		gate:     gate,
		emailSvc: emailSvc,
		broker:   broker,
		metrics:  m,
	}
}

// loadOrganization fetches current persisted state so the transition check
// never acts on a stale client-side copy.
func (s *Service) loadOrganization(ctx context.Context, adminID, orgID uuid.UUID) (*model.Account, error) {
	if err := s.gate.RequireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	return s.accounts.Get(ctx, orgID)
}

func (s *Service) applyOrgUpdate(ctx context.Context, orgID uuid.UUID, action string, update *model.AccountStatusUpdate) error {
	if err := s.accounts.UpdateStatus(ctx, orgID, update); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.ModerationActions.WithLabelValues("organization", action).Inc()
	}
	s.publish("organization", action, orgID)
	return nil
}

// ApproveOrganization verifies a pending organization.
func (s *Service) ApproveOrganization(ctx context.Context, adminID, orgID uuid.UUID) error {
	org, err := s.loadOrganization(ctx, adminID, orgID)
	if err != nil {
		return err
	}

	update, err := lifecycle.ApproveOrganization(org, time.Now())
	if err != nil {
		s.countRejected("organization", "approve")
		return err
	}
	if err := s.applyOrgUpdate(ctx, orgID, "approve", update); err != nil {
		return err
	}

	s.notify(func(ctx context.Context) error {
		return s.emailSvc.SendOrganizationApproved(ctx, org.Email, org.Name)
	})
	return nil
}

// RejectOrganization declines a pending organization with a reason and a
// resubmission decision.
func (s *Service) RejectOrganization(ctx context.Context, adminID, orgID uuid.UUID, reason string, canResubmit bool) error {
	org, err := s.loadOrganization(ctx, adminID, orgID)
	if err != nil {
		return err
	}

	update, err := lifecycle.RejectOrganization(org, reason, canResubmit)
	if err != nil {
		s.countRejected("organization", "reject")
		return err
	}
	if err := s.applyOrgUpdate(ctx, orgID, "reject", update); err != nil {
		return err
	}

	s.notify(func(ctx context.Context) error {
		return s.emailSvc.SendOrganizationRejected(ctx, org.Email, org.Name, reason, canResubmit)
	})
	return nil
}

// BlockOrganization blocks an approved or rejected organization.
func (s *Service) BlockOrganization(ctx context.Context, adminID, orgID uuid.UUID, reason string) error {
	org, err := s.loadOrganization(ctx, adminID, orgID)
	if err != nil {
		return err
	}

	update, err := lifecycle.BlockOrganization(org, reason)
	if err != nil {
		s.countRejected("organization", "block")
		return err
	}
	if err := s.applyOrgUpdate(ctx, orgID, "block", update); err != nil {
		return err
	}

	s.notify(func(ctx context.Context) error {
		return s.emailSvc.SendOrganizationBlocked(ctx, org.Email, org.Name, reason)
	})
	return nil
}

// UnblockOrganization restores a blocked organization to approved.
func (s *Service) UnblockOrganization(ctx context.Context, adminID, orgID uuid.UUID) error {
	org, err := s.loadOrganization(ctx, adminID, orgID)
	if err != nil {
		return err
	}

	update, err := lifecycle.UnblockOrganization(org)
	if err != nil {
		s.countRejected("organization", "unblock")
		return err
	}
	return s.applyOrgUpdate(ctx, orgID, "unblock", update)
}

// ResubmitOrganization returns a rejected organization to the review queue.
// Called by the organization itself, so no admin gate.
func (s *Service) ResubmitOrganization(ctx context.Context, orgID uuid.UUID) error {
	org, err := s.accounts.Get(ctx, orgID)
	if err != nil {
		return err
	}

	update, err := lifecycle.ResubmitOrganization(org)
	if err != nil {
		s.countRejected("organization", "resubmit")
		return err
	}
	return s.applyOrgUpdate(ctx, orgID, "resubmit", update)
}

func (s *Service) loadProject(ctx context.Context, adminID, projectID uuid.UUID) (*model.Project, error) {
	if err := s.gate.RequireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	return s.projects.Get(ctx, projectID)
}

func (s *Service) applyProjectUpdate(ctx context.Context, projectID uuid.UUID, action string, update *model.ProjectStatusUpdate) error {
	if err := s.projects.UpdateStatus(ctx, projectID, update); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.ModerationActions.WithLabelValues("project", action).Inc()
	}
	s.publish("project", action, projectID)
	return nil
}

// ApproveProject opens a pending project for applications.
func (s *Service) ApproveProject(ctx context.Context, adminID, projectID uuid.UUID) error {
	project, err := s.loadProject(ctx, adminID, projectID)
	if err != nil {
		return err
	}

	update, err := lifecycle.ApproveProject(project, adminID, time.Now())
	if err != nil {
		s.countRejected("project", "approve")
		return err
	}
	if err := s.applyProjectUpdate(ctx, projectID, "approve", update); err != nil {
		return err
	}

	s.notifyProjectOwner(ctx, project, "approved", "")
	return nil
}

// RejectProject declines a pending project with a reason.
func (s *Service) RejectProject(ctx context.Context, adminID, projectID uuid.UUID, reason string, canResubmit bool) error {
	project, err := s.loadProject(ctx, adminID, projectID)
	if err != nil {
		return err
	}

	update, err := lifecycle.RejectProject(project, reason, canResubmit)
	if err != nil {
		s.countRejected("project", "reject")
		return err
	}
	if err := s.applyProjectUpdate(ctx, projectID, "reject", update); err != nil {
		return err
	}

	s.notifyProjectOwner(ctx, project, "rejected", reason)
	return nil
}

// BlockProject demotes an open or in-progress project to rejected with no
// resubmission.
func (s *Service) BlockProject(ctx context.Context, adminID, projectID uuid.UUID, reason string) error {
	project, err := s.loadProject(ctx, adminID, projectID)
	if err != nil {
		return err
	}

	update, err := lifecycle.BlockProject(project, reason)
	if err != nil {
		s.countRejected("project", "block")
		return err
	}
	if err := s.applyProjectUpdate(ctx, projectID, "block", update); err != nil {
		return err
	}

	s.notifyProjectOwner(ctx, project, "blocked", reason)
	return nil
}

// ResubmitProject returns a rejected project to review, optionally with
// content edits. Called by the owning organization; ownership is enforced
// here since no admin gate applies.
func (s *Service) ResubmitProject(ctx context.Context, orgID, projectID uuid.UUID, edits *model.ResubmitProjectRequest) error {
	project, err := s.projects.Get(ctx, projectID)
	if err != nil {
		return err
	}
	if project.OrganizationID != orgID {
		return apperrors.Forbidden("project belongs to another organization")
	}

	update, err := lifecycle.ResubmitProject(project, edits)
	if err != nil {
		s.countRejected("project", "resubmit")
		return err
	}
	return s.applyProjectUpdate(ctx, projectID, "resubmit", update)
}

// PromoteToAdmin grants the admin role to a developer. Super-admin only.
func (s *Service) PromoteToAdmin(ctx context.Context, actorID, targetID uuid.UUID) error {
	if err := s.gate.RequireSuperAdmin(ctx, actorID); err != nil {
		return err
	}
	target, err := s.accounts.Get(ctx, targetID)
	if err != nil {
		return err
	}

	update, err := lifecycle.PromoteToAdmin(actorID, s.gate.SuperAdminID(), target)
	if err != nil {
		s.countRejected("account", "promote")
		return err
	}
	if err := s.accounts.UpdateStatus(ctx, targetID, update); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.ModerationActions.WithLabelValues("account", "promote").Inc()
	}
	s.publish("account", "promote", targetID)
	return nil
}

// DemoteAdmin revokes the admin role. Super-admin only, never self.
func (s *Service) DemoteAdmin(ctx context.Context, actorID, targetID uuid.UUID) error {
	if err := s.gate.RequireSuperAdmin(ctx, actorID); err != nil {
		return err
	}
	target, err := s.accounts.Get(ctx, targetID)
	if err != nil {
		return err
	}

	update, err := lifecycle.DemoteAdmin(actorID, s.gate.SuperAdminID(), target)
	if err != nil {
		s.countRejected("account", "demote")
		return err
	}
	if err := s.accounts.UpdateStatus(ctx, targetID, update); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.ModerationActions.WithLabelValues("account", "demote").Inc()
	}
	s.publish("account", "demote", targetID)
	return nil
}

// notify runs a notification send in the background; failures only log.
func (s *Service) notify(fn func(context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := fn(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to send moderation notification")
		}
	}()
}

func (s *Service) notifyProjectOwner(ctx context.Context, project *model.Project, outcome, reason string) {
	owner, err := s.accounts.Get(ctx, project.OrganizationID)
	if err != nil {
		log.Warn().Err(err).Str("project_id", project.ID.String()).Msg("failed to load project owner for notification")
		return
	}
	s.notify(func(ctx context.Context) error {
		return s.emailSvc.SendProjectModerated(ctx, owner.Email, project.Title, outcome, reason)
	})
}

func (s *Service) publish(entity, action string, id uuid.UUID) {
	if s.broker == nil {
		return
	}
	payload, err := json.Marshal(map[string]string{
		"entity": entity,
		"action": action,
		"id":     id.String(),
	})
	if err != nil {
		return
	}
	go func() {
		if err := s.broker.Publish(context.Background(), messaging.TopicModeration, payload); err != nil {
			log.Warn().Err(err).Msg("failed to publish moderation event")
		}
	}()
}

func (s *Service) countRejected(entity, action string) {
	if s.metrics != nil {
		s.metrics.ModerationRejected.WithLabelValues(entity, action).Inc()
	}
}
