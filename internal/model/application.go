package model

import (
	"time"

	"github.com/google/uuid"
)

// Application statuses
type ApplicationStatus string

const (
	ApplicationStatusPending   ApplicationStatus = "pending"
	ApplicationStatusAccepted  ApplicationStatus = "accepted"
	ApplicationStatusRejected  ApplicationStatus = "rejected"
	ApplicationStatusWithdrawn ApplicationStatus = "withdrawn"
)

// IsTerminal reports whether the application can no longer change state.
func (s ApplicationStatus) IsTerminal() bool {
	return s == ApplicationStatusRejected || s == ApplicationStatusWithdrawn
}

// Application links a developer account to a project.
type Application struct {
	Base
	ProjectID   uuid.UUID         `json:"project_id" db:"project_id"`
	DeveloperID uuid.UUID         `json:"developer_id" db:"developer_id"`
	Status      ApplicationStatus `json:"status" db:"status"`
	CoverLetter *string           `json:"cover_letter,omitempty" db:"cover_letter"`
}

// Message belongs to a project conversation. Only counted here; delivery is
// outside this service.
type Message struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ProjectID uuid.UUID `json:"project_id" db:"project_id"`
	SenderID  uuid.UUID `json:"sender_id" db:"sender_id"`
	Body      string    `json:"body" db:"body"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
