package deletion

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/devtogether/platform-api/internal/model"
	"github.com/devtogether/platform-api/internal/repository"
	apperrors "github.com/devtogether/platform-api/pkg/errors"
	"github.com/devtogether/platform-api/pkg/metrics"
)

// Volume thresholds for project deletion impact when no team member is
// affected.
const (
	projectVolumeMedium = 20
)

// Analyzer computes the read-only deletion impact report for a candidate
// target. It has no side effects, so cancelling an in-flight analysis leaves
// nothing to undo.
type Analyzer struct {
	impactRepo repository.ImpactRepository
	metrics    *metrics.Metrics
}

func NewAnalyzer(impactRepo repository.ImpactRepository, m *metrics.Metrics) *Analyzer {
	return &Analyzer{
		impactRepo: impactRepo,
		metrics:    m,
	}
}

// Analyze builds the impact report for one candidate deletion. It completes
// even when the target has zero dependents; only a missing target or a failed
// aggregation query is an error.
func (a *Analyzer) Analyze(ctx context.Context, targetType model.DeletionTarget, targetID uuid.UUID) (*model.DeletionAnalysis, error) {
	if !targetType.Valid() {
		return nil, apperrors.Validationf("unknown deletion target type %q", targetType)
	}

	start := time.Now()
	impact, err := a.impactRepo.GetDeletionImpact(ctx, targetType, targetID)
	if err != nil {
		return nil, fmt.Errorf("could not analyze impact: %w", err)
	}
	if impact.NotFound {
		return nil, apperrors.NotFound(string(targetType), nil)
	}
	if impact.QueryError != "" {
		return nil, apperrors.Internal(fmt.Errorf("impact query failed: %s", impact.QueryError))
	}

	analysis := &model.DeletionAnalysis{
		TargetType:   targetType,
		TargetID:     targetID,
		Dependencies: map[string]int{},
		Target: model.TargetInfo{
			Name:        impact.TargetName,
			Email:       impact.TargetEmail,
			Role:        impact.TargetRole,
			MemberSince: impact.MemberSince,
			VerifiedAt:  impact.VerifiedAt,
		},
		AnalyzedAt: time.Now(),
	}

	switch targetType {
	case model.DeletionTargetOrganization:
		a.classifyOrganization(analysis, impact)
	case model.DeletionTargetProject:
		a.classifyProject(analysis, impact)
	case model.DeletionTargetDeveloper:
		if err := a.classifyDeveloper(ctx, analysis, impact); err != nil {
			return nil, err
		}
	}

	if a.metrics != nil {
		a.metrics.AnalyzerLatency.Observe(time.Since(start).Seconds())
		a.metrics.DeletionImpact.WithLabelValues(string(analysis.Impact)).Inc()
	}

	log.Debug().
		Str("target_type", string(targetType)).
		Str("target_id", targetID.String()).
		Str("impact", string(analysis.Impact)).
		Bool("safe", analysis.SafeToDelete).
		Msg("deletion impact analyzed")

	return analysis, nil
}

func (a *Analyzer) classifyOrganization(analysis *model.DeletionAnalysis, impact *model.DeletionImpact) {
	setCount(analysis, "projects", impact.Projects)
	setCount(analysis, "active_projects", impact.ActiveProjects)
	setCount(analysis, "pending_applications", impact.PendingApps)
	setCount(analysis, "messages", impact.Messages)

	switch {
	case impact.ActiveProjects > 0:
		analysis.Impact = model.ImpactHigh
		analysis.Warnings = append(analysis.Warnings,
			fmt.Sprintf("%d active project(s) will be removed and their teams will lose access", impact.ActiveProjects))
	case impact.Projects > 0:
		analysis.Impact = model.ImpactMedium
		analysis.Warnings = append(analysis.Warnings,
			fmt.Sprintf("%d project(s) and their history will be removed", impact.Projects))
	default:
		analysis.Impact = model.ImpactMinimal
	}

	if impact.PendingApps > 0 {
		analysis.Warnings = append(analysis.Warnings,
			fmt.Sprintf("%d pending application(s) will be discarded", impact.PendingApps))
	}
	if impact.Messages > 0 {
		analysis.Warnings = append(analysis.Warnings,
			fmt.Sprintf("%d message(s) will be permanently deleted", impact.Messages))
	}

	analysis.SafeToDelete = impact.ActiveProjects == 0
}

func (a *Analyzer) classifyProject(analysis *model.DeletionAnalysis, impact *model.DeletionImpact) {
	setCount(analysis, "applications", impact.Applications)
	setCount(analysis, "active_applications", impact.ActiveApps)
	setCount(analysis, "messages", impact.Messages)
	setCount(analysis, "team_activities", impact.TeamActivities)

	volume := impact.Applications + impact.Messages
	switch {
	case impact.ActiveApps > 0:
		analysis.Impact = model.ImpactHigh
		analysis.Warnings = append(analysis.Warnings,
			fmt.Sprintf("%d team member(s) with accepted applications will lose access", impact.ActiveApps))
	case volume > projectVolumeMedium:
		analysis.Impact = model.ImpactMedium
	case volume > 0:
		analysis.Impact = model.ImpactLow
	default:
		analysis.Impact = model.ImpactMinimal
	}

	if impact.Applications > 0 {
		analysis.Warnings = append(analysis.Warnings,
			fmt.Sprintf("%d application(s) will be permanently deleted", impact.Applications))
	}
	if impact.Messages > 0 {
		analysis.Warnings = append(analysis.Warnings,
			fmt.Sprintf("%d message(s) will be permanently deleted", impact.Messages))
	}

	analysis.SafeToDelete = impact.ActiveApps == 0
}

func (a *Analyzer) classifyDeveloper(ctx context.Context, analysis *model.DeletionAnalysis, impact *model.DeletionImpact) error {
	setCount(analysis, "applications", impact.Applications)
	setCount(analysis, "active_applications", impact.ActiveApps)
	setCount(analysis, "messages", impact.Messages)

	if impact.ActiveApps > 0 {
		titles, err := a.impactRepo.ActiveProjectTitles(ctx, analysis.TargetID)
		if err != nil {
			return fmt.Errorf("could not analyze impact: %w", err)
		}
		analysis.ActiveProjects = titles
		analysis.Impact = model.ImpactHigh
		analysis.Warnings = append(analysis.Warnings,
			fmt.Sprintf("developer is an active team member on %d project(s)", impact.ActiveApps))
		analysis.ActionRequired = fmt.Sprintf(
			"reassign the developer's role on: %s before deleting", strings.Join(titles, ", "))
	} else if impact.Applications > 0 {
		analysis.Impact = model.ImpactLow
		analysis.Warnings = append(analysis.Warnings,
			fmt.Sprintf("%d historical application(s) will be withdrawn", impact.Applications))
	} else {
		analysis.Impact = model.ImpactMinimal
	}

	analysis.SafeToDelete = impact.ActiveApps == 0
	return nil
}

// setCount records a dependency count only when it is greater than zero, so
// the report never shows empty categories for the target type.
func setCount(analysis *model.DeletionAnalysis, key string, count int) {
	if count > 0 {
		analysis.Dependencies[key] = count
	}
}
