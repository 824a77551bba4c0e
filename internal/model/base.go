package model

import (
	"time"

	"github.com/google/uuid"
)

// Base contains common fields for all models
type Base struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Pagination represents common pagination parameters
type Pagination struct {
	Page     int `json:"page" form:"page"`
	PageSize int `json:"page_size" form:"page_size"`
}

const defaultPageSize = 50

// Limit returns the page size, bounded to a sane default.
func (p *Pagination) Limit() int {
	if p == nil || p.PageSize <= 0 || p.PageSize > 200 {
		return defaultPageSize
	}
	return p.PageSize
}

// Offset returns the row offset for the requested page.
func (p *Pagination) Offset() int {
	if p == nil || p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit()
}
