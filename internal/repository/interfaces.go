package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/devtogether/platform-api/internal/model"
)

// All repository interfaces in one file
type (
	// AccountRepository handles account rows for developers, organizations,
	// and admins.
	AccountRepository interface {
		Create(ctx context.Context, account *model.Account) error
		Get(ctx context.Context, id uuid.UUID) (*model.Account, error)
		GetRole(ctx context.Context, id uuid.UUID) (model.Role, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, update *model.AccountStatusUpdate) error
		List(ctx context.Context, filters *model.AccountFilters) ([]*model.Account, error)
		// CascadeDelete performs a complete identity removal: the profile row,
		// the underlying auth identity, and (for organizations) all owned
		// projects with their applications and messages, in one composite
		// data-layer operation.
		CascadeDelete(ctx context.Context, id uuid.UUID) error
	}

	ProjectRepository interface {
		Create(ctx context.Context, project *model.Project) error
		Get(ctx context.Context, id uuid.UUID) (*model.Project, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, update *model.ProjectStatusUpdate) error
		List(ctx context.Context, filters *model.ProjectFilters) ([]*model.Project, error)
		// CascadeDelete removes team activities, then messages, then
		// applications, then the project row, in that order, inside one
		// transaction.
		CascadeDelete(ctx context.Context, id uuid.UUID) error
	}

	ApplicationRepository interface {
		ListByProject(ctx context.Context, projectID uuid.UUID) ([]*model.Application, error)
		ListByDeveloper(ctx context.Context, developerID uuid.UUID) ([]*model.Application, error)
		// WithdrawActive marks every non-terminal application of the developer
		// as withdrawn, preserving the rows for project history.
		WithdrawActive(ctx context.Context, developerID uuid.UUID) (int64, error)
	}

	MessageRepository interface {
		CountByProject(ctx context.Context, projectID uuid.UUID) (int, error)
	}

	// ImpactRepository runs the server-side deletion impact aggregation.
	ImpactRepository interface {
		GetDeletionImpact(ctx context.Context, targetType model.DeletionTarget, id uuid.UUID) (*model.DeletionImpact, error)
		ActiveProjectTitles(ctx context.Context, developerID uuid.UUID) ([]string, error)
	}

	// AuditRepository is append-only; records are never updated or removed by
	// the application.
	AuditRepository interface {
		Create(ctx context.Context, record *model.DeletionAuditRecord) (uuid.UUID, error)
		List(ctx context.Context, filters map[string]interface{}, page *model.Pagination) ([]*model.DeletionAuditRecord, error)
	}
)
