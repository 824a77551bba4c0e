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

type accountRepository struct {
	BaseRepository
}

func NewAccountRepository(base BaseRepository) repository.AccountRepository {
	return &accountRepository{base}
}

// accountColumns normalizes a NULL organization_status to pending at the
// boundary, so nothing above the repository ever sees NULL.
const accountColumns = `
	id, email, name, password_hash, role, blocked, blocked_reason,
	COALESCE(organization_status, 'pending') AS organization_status,
	organization_rejection_reason, can_resubmit, organization_verified_at,
	created_at, updated_at
`

func (r *accountRepository) Create(ctx context.Context, account *model.Account) error {
	query := `
		INSERT INTO accounts (
			id, email, name, password_hash, role, blocked,
			organization_status, can_resubmit, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	account.ID = uuid.New()
	account.CreatedAt = time.Now()
	account.UpdatedAt = time.Now()
	if account.IsOrganization() && account.OrganizationStatus == "" {
		account.OrganizationStatus = model.OrgStatusPending
	}

	var orgStatus interface{}
	if account.IsOrganization() {
		orgStatus = string(account.OrganizationStatus)
	}

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, query,
			account.ID,
			account.Email,
			account.Name,
			account.PasswordHash,
			account.Role,
			account.Blocked,
			orgStatus,
			account.CanResubmit,
			account.CreatedAt,
			account.UpdatedAt,
		)
		return err
	})
}

func (r *accountRepository) Get(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	var account model.Account
	if err := r.db.GetContext(ctx, &account, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("account", err)
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

// GetRole reads only the persisted role column. Used by the authorization
// gate immediately before destructive operations.
func (r *accountRepository) GetRole(ctx context.Context, id uuid.UUID) (model.Role, error) {
	query := `SELECT role FROM accounts WHERE id = $1`

	var role model.Role
	if err := r.db.GetContext(ctx, &role, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", apperrors.NotFound("account", err)
		}
		return "", fmt.Errorf("failed to get account role: %w", err)
	}
	return role, nil
}

func (r *accountRepository) UpdateStatus(ctx context.Context, id uuid.UUID, update *model.AccountStatusUpdate) error {
	set := "updated_at = $1"
	args := []interface{}{time.Now()}

	add := func(column string, value interface{}) {
		args = append(args, value)
		set += fmt.Sprintf(", %s = $%d", column, len(args))
	}

	if update.Role != nil {
		add("role", *update.Role)
	}
	if update.Blocked != nil {
		add("blocked", *update.Blocked)
	}
	if update.BlockedReason != nil {
		add("blocked_reason", nullable(update.BlockedReason))
	}
	if update.OrganizationStatus != nil {
		add("organization_status", string(*update.OrganizationStatus))
	}
	if update.OrganizationRejectionReason != nil {
		add("organization_rejection_reason", nullable(update.OrganizationRejectionReason))
	}
	if update.CanResubmit != nil {
		add("can_resubmit", *update.CanResubmit)
	}
	if update.OrganizationVerifiedAt != nil {
		add("organization_verified_at", *update.OrganizationVerifiedAt)
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE accounts SET %s WHERE id = $%d", set, len(args))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update account status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("account", nil)
	}

	return nil
}

func (r *accountRepository) List(ctx context.Context, filters *model.AccountFilters) ([]*model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE 1=1`
	var args []interface{}

	if filters != nil {
		if filters.Role != "" {
			args = append(args, filters.Role)
			query += fmt.Sprintf(" AND role = $%d", len(args))
		}
		if filters.OrganizationStatus != "" {
			args = append(args, string(filters.OrganizationStatus))
			query += fmt.Sprintf(" AND COALESCE(organization_status, 'pending') = $%d", len(args))
		}
		if filters.Blocked != nil {
			args = append(args, *filters.Blocked)
			query += fmt.Sprintf(" AND blocked = $%d", len(args))
		}
		if filters.Search != "" {
			args = append(args, "%"+filters.Search+"%")
			query += fmt.Sprintf(" AND (name ILIKE $%d OR email ILIKE $%d)", len(args), len(args))
		}
	}
	query += " ORDER BY created_at DESC"

	var accounts []*model.Account
	if err := r.db.SelectContext(ctx, &accounts, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// CascadeDelete issues the composite identity-removal procedure. The data
// layer removes owned projects, applications, and messages in the same call,
// keeping the operation as close to atomic as the store allows.
func (r *accountRepository) CascadeDelete(ctx context.Context, id uuid.UUID) error {
	var res struct {
		Success bool           `db:"success"`
		Error   sql.NullString `db:"error"`
	}
	if err := r.db.GetContext(ctx, &res, `SELECT success, error FROM cascade_delete_account($1)`, id); err != nil {
		return fmt.Errorf("failed to cascade delete account: %w", err)
	}
	if !res.Success {
		msg := "cascade delete failed"
		if res.Error.Valid {
			msg = res.Error.String
		}
		if msg == "account_not_found" {
			return apperrors.NotFound("account", nil)
		}
		return fmt.Errorf("cascade delete account: %s", msg)
	}
	return nil
}
