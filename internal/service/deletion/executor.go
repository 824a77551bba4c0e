package deletion

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/devtogether/platform-api/internal/model"
	"github.com/devtogether/platform-api/internal/repository"
	"github.com/devtogether/platform-api/internal/service/authz"
	apperrors "github.com/devtogether/platform-api/pkg/errors"
	"github.com/devtogether/platform-api/pkg/messaging"
	"github.com/devtogether/platform-api/pkg/metrics"
)

// Executor performs confirmed deletions in dependency order. Every attempt,
// including ones that later fail, leaves an audit record: the record is
// written before the destructive step.
type Executor struct {
	analyzer  *Analyzer
	gate      *authz.Service
	accounts  repository.AccountRepository
	projects  repository.ProjectRepository
	apps      repository.ApplicationRepository
	auditRepo repository.AuditRepository
	broker    messaging.Broker
	metrics   *metrics.Metrics
}

func NewExecutor(
	analyzer *Analyzer,
	gate *authz.Service,
	accounts repository.AccountRepository,
	projects repository.ProjectRepository,
	apps repository.ApplicationRepository,
	auditRepo repository.AuditRepository,
	broker messaging.Broker,
	m *metrics.Metrics,
) *Executor {
	return &Executor{
		analyzer:  analyzer,
		gate:      gate,
		accounts:  accounts,
		projects:  projects,
		apps:      apps,
		auditRepo: auditRepo,
		broker:    broker,
		metrics:   m,
	}
}

// Execute runs one deletion end to end: admin re-check, reason validation,
// fresh impact snapshot, audit write, then the ordered destructive cascade.
// All failures come back as a structured result; nothing propagates as a
// panic to the caller.
func (e *Executor) Execute(ctx context.Context, actingAdminID uuid.UUID, targetType model.DeletionTarget, targetID uuid.UUID, reason string) (*model.DeletionResult, error) {
	// The gate is re-checked here even though handlers gate too: role can
	// change between page load and action.
	if err := e.gate.RequireAdmin(ctx, actingAdminID); err != nil {
		return nil, err
	}

	if strings.TrimSpace(reason) == "" {
		return nil, apperrors.Validation("a deletion reason is required")
	}
	if !targetType.Valid() {
		return nil, apperrors.Validationf("unknown deletion target type %q", targetType)
	}

	// Never trust a client-supplied analysis: recompute so the audit snapshot
	// reflects the state at execution time.
	analysis, err := e.analyzer.Analyze(ctx, targetType, targetID)
	if err != nil {
		return nil, err
	}

	snapshot, err := json.Marshal(analysis)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to serialize analysis snapshot: %w", err))
	}

	auditID, err := e.auditRepo.Create(ctx, &model.DeletionAuditRecord{
		DeletionType: targetType,
		TargetID:     targetID,
		AdminID:      actingAdminID,
		Reason:       reason,
		Snapshot:     snapshot,
	})
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to write audit record: %w", err))
	}

	if err := e.destroy(ctx, targetType, targetID); err != nil {
		// The audit record is kept as evidence of the attempt.
		log.Error().Err(err).
			Str("target_type", string(targetType)).
			Str("target_id", targetID.String()).
			Str("audit_id", auditID.String()).
			Msg("deletion failed after audit record was written")

		if e.metrics != nil {
			e.metrics.DeletionsExecuted.WithLabelValues(string(targetType), "failure").Inc()
		}

		return &model.DeletionResult{
			Success: false,
			Message: fmt.Sprintf("failed to delete %s; manual verification required", targetType),
			AuditID: &auditID,
			Errors:  []string{err.Error()},
		}, nil
	}

	if e.metrics != nil {
		e.metrics.DeletionsExecuted.WithLabelValues(string(targetType), "success").Inc()
	}

	e.publishDeleted(targetType, targetID, actingAdminID, auditID)

	log.Info().
		Str("target_type", string(targetType)).
		Str("target_id", targetID.String()).
		Str("admin_id", actingAdminID.String()).
		Str("audit_id", auditID.String()).
		Msg("deletion executed")

	return &model.DeletionResult{
		Success: true,
		Message: fmt.Sprintf("%s deleted", targetType),
		AuditID: &auditID,
	}, nil
}

// destroy runs the destructive steps strictly in dependency order. No
// parallelization: later steps assume earlier steps completed.
func (e *Executor) destroy(ctx context.Context, targetType model.DeletionTarget, targetID uuid.UUID) error {
	switch targetType {
	case model.DeletionTargetProject:
		// Team activities, messages, applications, then the project row,
		// leaf-to-root inside one transaction.
		return e.projects.CascadeDelete(ctx, targetID)

	case model.DeletionTargetDeveloper:
		// History-preserving: applications are withdrawn, not deleted, so
		// project records survive the identity removal.
		if _, err := e.apps.WithdrawActive(ctx, targetID); err != nil {
			return err
		}
		return e.accounts.CascadeDelete(ctx, targetID)

	case model.DeletionTargetOrganization:
		// One composite data-layer call removes the identity with its owned
		// projects, applications, and messages.
		return e.accounts.CascadeDelete(ctx, targetID)

	default:
		return apperrors.Validationf("unknown deletion target type %q", targetType)
	}
}

// publishDeleted emits a fire-and-forget event; broker failures only log.
func (e *Executor) publishDeleted(targetType model.DeletionTarget, targetID, adminID, auditID uuid.UUID) {
	if e.broker == nil {
		return
	}
	payload, err := json.Marshal(map[string]string{
		"target_type": string(targetType),
		"target_id":   targetID.String(),
		"admin_id":    adminID.String(),
		"audit_id":    auditID.String(),
	})
	if err != nil {
		return
	}
	go func() {
		if err := e.broker.Publish(context.Background(), messaging.TopicDeletion, payload); err != nil {
			log.Warn().Err(err).Msg("failed to publish deletion event")
		}
	}()
}
