package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/devtogether/platform-api/internal/model"
	"github.com/devtogether/platform-api/internal/repository"
	apperrors "github.com/devtogether/platform-api/pkg/errors"
)

type projectRepository struct {
	BaseRepository
}

func NewProjectRepository(base BaseRepository) repository.ProjectRepository {
	return &projectRepository{base}
}

func (r *projectRepository) Create(ctx context.Context, project *model.Project) error {
	query := `
		INSERT INTO projects (
			id, organization_id, title, description, status, can_resubmit,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	project.ID = uuid.New()
	project.CreatedAt = time.Now()
	project.UpdatedAt = time.Now()
	if project.Status == "" {
		project.Status = model.ProjectStatusPending
	}

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, query,
			project.ID,
			project.OrganizationID,
			project.Title,
			project.Description,
			project.Status,
			project.CanResubmit,
			project.CreatedAt,
			project.UpdatedAt,
		)
		return err
	})
}

func (r *projectRepository) Get(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	query := `SELECT * FROM projects WHERE id = $1`

	var project model.Project
	if err := r.db.GetContext(ctx, &project, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("project", err)
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &project, nil
}

func (r *projectRepository) UpdateStatus(ctx context.Context, id uuid.UUID, update *model.ProjectStatusUpdate) error {
	set := "updated_at = $1"
	args := []interface{}{time.Now()}

	add := func(column string, value interface{}) {
		args = append(args, value)
		set += fmt.Sprintf(", %s = $%d", column, len(args))
	}

	if update.Status != nil {
		add("status", *update.Status)
	}
	if update.RejectionReason != nil {
		add("rejection_reason", nullable(update.RejectionReason))
	}
	if update.CanResubmit != nil {
		add("can_resubmit", *update.CanResubmit)
	}
	if update.ApprovedBy != nil {
		add("approved_by", *update.ApprovedBy)
	}
	if update.ApprovedAt != nil {
		add("approved_at", *update.ApprovedAt)
	}
	if update.Title != nil {
		add("title", *update.Title)
	}
	if update.Description != nil {
		add("description", *update.Description)
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE projects SET %s WHERE id = $%d", set, len(args))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update project status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("project", nil)
	}

	return nil
}

func (r *projectRepository) List(ctx context.Context, filters *model.ProjectFilters) ([]*model.Project, error) {
	query := `SELECT * FROM projects WHERE 1=1`
	var args []interface{}

	if filters != nil {
		if filters.OrganizationID != uuid.Nil {
			args = append(args, filters.OrganizationID)
			query += fmt.Sprintf(" AND organization_id = $%d", len(args))
		}
		if filters.Status != "" {
			args = append(args, filters.Status)
			query += fmt.Sprintf(" AND status = $%d", len(args))
		}
		if filters.Search != "" {
			args = append(args, "%"+filters.Search+"%")
			query += fmt.Sprintf(" AND title ILIKE $%d", len(args))
		}
	}
	query += " ORDER BY created_at DESC"

	var projects []*model.Project
	if err := r.db.SelectContext(ctx, &projects, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// CascadeDelete removes everything owned by the project leaf-to-root, then
// the project row itself, inside one transaction. The order matters on
// foreign-key-checked stores: no application row may outlive its project.
func (r *projectRepository) CascadeDelete(ctx context.Context, id uuid.UUID) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		steps := []string{
			`DELETE FROM team_activities WHERE project_id = $1`,
			`DELETE FROM messages WHERE project_id = $1`,
			`DELETE FROM applications WHERE project_id = $1`,
		}
		for _, step := range steps {
			if _, err := tx.ExecContext(ctx, step, id); err != nil {
				return fmt.Errorf("cascade delete project: %w", err)
			}
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("cascade delete project: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return apperrors.NotFound("project", nil)
		}
		return nil
	})
}
