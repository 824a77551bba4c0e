package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/devtogether/platform-api/internal/model"
	"github.com/devtogether/platform-api/internal/repository"
)

type impactRepository struct {
	BaseRepository
}

func NewImpactRepository(base BaseRepository) repository.ImpactRepository {
	return &impactRepository{base}
}

// GetDeletionImpact calls the server-side aggregation procedure. The
// procedure reports "target not found" and query failures through sentinel
// columns rather than raising, so the analyzer can distinguish the two.
func (r *impactRepository) GetDeletionImpact(ctx context.Context, targetType model.DeletionTarget, id uuid.UUID) (*model.DeletionImpact, error) {
	query := `
		SELECT
			not_found, COALESCE(query_error, '') AS query_error,
			COALESCE(target_name, '') AS target_name,
			COALESCE(target_email, '') AS target_email,
			COALESCE(target_role, '') AS target_role,
			member_since, verified_at,
			COALESCE(projects, 0) AS projects,
			COALESCE(active_projects, 0) AS active_projects,
			COALESCE(applications, 0) AS applications,
			COALESCE(pending_applications, 0) AS pending_applications,
			COALESCE(active_applications, 0) AS active_applications,
			COALESCE(messages, 0) AS messages,
			COALESCE(team_members, 0) AS team_members,
			COALESCE(team_activities, 0) AS team_activities
		FROM get_deletion_impact($1, $2)
	`

	var impact model.DeletionImpact
	if err := r.db.GetContext(ctx, &impact, query, string(targetType), id); err != nil {
		return nil, fmt.Errorf("failed to get deletion impact: %w", err)
	}
	return &impact, nil
}

// ActiveProjectTitles lists the titles of projects in which the developer
// currently holds an accepted application. Surfaced to the operator so they
// know which teams need reassignment before deletion.
func (r *impactRepository) ActiveProjectTitles(ctx context.Context, developerID uuid.UUID) ([]string, error) {
	query := `
		SELECT p.title
		FROM projects p
		JOIN applications a ON a.project_id = p.id
		WHERE a.developer_id = $1 AND a.status = 'accepted'
		ORDER BY p.title
	`
	var titles []string
	if err := r.db.SelectContext(ctx, &titles, query, developerID); err != nil {
		return nil, fmt.Errorf("failed to list active project titles: %w", err)
	}
	return titles, nil
}
