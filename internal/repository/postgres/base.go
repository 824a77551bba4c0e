package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	db *sqlx.DB
}

// NewBaseRepository creates a new base repository
func NewBaseRepository(db *sqlx.DB) BaseRepository {
	return BaseRepository{db: db}
}

// GetDB returns the database instance
func (r *BaseRepository) GetDB() *sqlx.DB {
	return r.db
}

// WithTx executes a function within a transaction
func (r *BaseRepository) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// nullable maps the empty-string clear marker to NULL so callers can
// distinguish "leave unchanged" (nil pointer) from "clear the column"
// (pointer to empty string).
func nullable(s *string) interface{} {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}
