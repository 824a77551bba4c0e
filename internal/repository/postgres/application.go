package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/devtogether/platform-api/internal/model"
	"github.com/devtogether/platform-api/internal/repository"
)

type applicationRepository struct {
	BaseRepository
}

func NewApplicationRepository(base BaseRepository) repository.ApplicationRepository {
	return &applicationRepository{base}
}

func (r *applicationRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*model.Application, error) {
	query := `
		SELECT * FROM applications
		WHERE project_id = $1
		ORDER BY created_at DESC
	`
	var apps []*model.Application
	if err := r.db.SelectContext(ctx, &apps, query, projectID); err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

func (r *applicationRepository) ListByDeveloper(ctx context.Context, developerID uuid.UUID) ([]*model.Application, error) {
	query := `
		SELECT * FROM applications
		WHERE developer_id = $1
		ORDER BY created_at DESC
	`
	var apps []*model.Application
	if err := r.db.SelectContext(ctx, &apps, query, developerID); err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

// WithdrawActive transitions every pending or accepted application of the
// developer to withdrawn. Rows are kept so project history survives the
// developer's removal.
func (r *applicationRepository) WithdrawActive(ctx context.Context, developerID uuid.UUID) (int64, error) {
	query := `
		UPDATE applications
		SET status = $1, updated_at = $2
		WHERE developer_id = $3 AND status IN ($4, $5)
	`
	result, err := r.db.ExecContext(ctx, query,
		model.ApplicationStatusWithdrawn,
		time.Now(),
		developerID,
		model.ApplicationStatusPending,
		model.ApplicationStatusAccepted,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to withdraw applications: %w", err)
	}
	return result.RowsAffected()
}

type messageRepository struct {
	BaseRepository
}

func NewMessageRepository(base BaseRepository) repository.MessageRepository {
	return &messageRepository{base}
}

func (r *messageRepository) CountByProject(ctx context.Context, projectID uuid.UUID) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM messages WHERE project_id = $1`, projectID); err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return count, nil
}
