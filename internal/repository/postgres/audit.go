package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/devtogether/platform-api/internal/model"
	"github.com/devtogether/platform-api/internal/repository"
)

type auditRepository struct {
	BaseRepository
}

func NewAuditRepository(base BaseRepository) repository.AuditRepository {
	return &auditRepository{base}
}

// Create appends one deletion audit record. Each write is a fresh independent
// row, so concurrent admin sessions never contend.
func (r *auditRepository) Create(ctx context.Context, record *model.DeletionAuditRecord) (uuid.UUID, error) {
	query := `
		INSERT INTO deletion_audit (
			id, deletion_type, target_id, admin_id, reason, snapshot, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	record.ID = uuid.New()
	record.CreatedAt = time.Now()

	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, query,
			record.ID,
			record.DeletionType,
			record.TargetID,
			record.AdminID,
			record.Reason,
			record.Snapshot,
			record.CreatedAt,
		)
		return err
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create audit record: %w", err)
	}
	return record.ID, nil
}

func (r *auditRepository) List(ctx context.Context, filters map[string]interface{}, page *model.Pagination) ([]*model.DeletionAuditRecord, error) {
	query := `SELECT * FROM deletion_audit WHERE 1=1`
	var args []interface{}

	if v, ok := filters["admin_id"]; ok {
		args = append(args, v)
		query += fmt.Sprintf(" AND admin_id = $%d", len(args))
	}
	if v, ok := filters["target_id"]; ok {
		args = append(args, v)
		query += fmt.Sprintf(" AND target_id = $%d", len(args))
	}
	if v, ok := filters["deletion_type"]; ok {
		args = append(args, v)
		query += fmt.Sprintf(" AND deletion_type = $%d", len(args))
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT %d OFFSET %d", page.Limit(), page.Offset())

	var records []*model.DeletionAuditRecord
	if err := r.GetDB().SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list audit records: %w", err)
	}
	return records, nil
}
