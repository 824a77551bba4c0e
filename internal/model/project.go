package model

import (
	"time"

	"github.com/google/uuid"
)

// Project statuses
type ProjectStatus string

const (
	ProjectStatusPending    ProjectStatus = "pending"
	ProjectStatusOpen       ProjectStatus = "open"
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusCancelled  ProjectStatus = "cancelled"
	ProjectStatusRejected   ProjectStatus = "rejected"
)

// Project is owned by exactly one organization account.
type Project struct {
	Base
	OrganizationID  uuid.UUID     `json:"organization_id" db:"organization_id"`
	Title           string        `json:"title" db:"title"`
	Description     string        `json:"description" db:"description"`
	Status          ProjectStatus `json:"status" db:"status"`
	RejectionReason *string       `json:"rejection_reason,omitempty" db:"rejection_reason"`
	CanResubmit     bool          `json:"can_resubmit" db:"can_resubmit"`
	ApprovedBy      *uuid.UUID    `json:"approved_by,omitempty" db:"approved_by"`
	ApprovedAt      *time.Time    `json:"approved_at,omitempty" db:"approved_at"`

	AdminWorkspaceAccessRequested bool `json:"admin_workspace_access_requested" db:"admin_workspace_access_requested"`
	AdminWorkspaceAccessGranted   bool `json:"admin_workspace_access_granted" db:"admin_workspace_access_granted"`
}

// ProjectStatusUpdate carries the fields a moderation action may touch on a
// project row. Nil pointers are left unchanged.
type ProjectStatusUpdate struct {
	Status          *ProjectStatus
	RejectionReason *string
	CanResubmit     *bool
	ApprovedBy      *uuid.UUID
	ApprovedAt      *time.Time
	Title           *string
	Description     *string
}

// ProjectFilters represents project search parameters.
type ProjectFilters struct {
	OrganizationID uuid.UUID
	Status         ProjectStatus
	Search         string
}

// ResubmitProjectRequest allows a rejected project to return to review,
// optionally with edited content.
type ResubmitProjectRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}
