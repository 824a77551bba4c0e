package model

import (
	"time"
)

// Account roles
type Role string

const (
	RoleDeveloper    Role = "developer"
	RoleOrganization Role = "organization"
	RoleAdmin        Role = "admin"
)

// Organization moderation statuses. A NULL status column means pending; the
// repository normalizes that at scan time so nothing above it sees NULL.
type OrgStatus string

const (
	OrgStatusPending  OrgStatus = "pending"
	OrgStatusApproved OrgStatus = "approved"
	OrgStatusRejected OrgStatus = "rejected"
	OrgStatusBlocked  OrgStatus = "blocked"
)

// Account represents a developer, organization, or admin identity.
type Account struct {
	Base
	Email         string  `json:"email" db:"email"`
	Name          string  `json:"name" db:"name"`
	PasswordHash  string  `json:"-" db:"password_hash"`
	Role          Role    `json:"role" db:"role"`
	Blocked       bool    `json:"blocked" db:"blocked"`
	BlockedReason *string `json:"blocked_reason,omitempty" db:"blocked_reason"`

	// Organization-only moderation fields.
	OrganizationStatus          OrgStatus  `json:"organization_status,omitempty" db:"organization_status"`
	OrganizationRejectionReason *string    `json:"organization_rejection_reason,omitempty" db:"organization_rejection_reason"`
	CanResubmit                 bool       `json:"can_resubmit" db:"can_resubmit"`
	OrganizationVerifiedAt      *time.Time `json:"organization_verified_at,omitempty" db:"organization_verified_at"`
}

// IsOrganization reports whether the account is an organization profile.
func (a *Account) IsOrganization() bool {
	return a.Role == RoleOrganization
}

// AccountStatusUpdate carries the fields a moderation action may touch on an
// account row. Nil pointers are left unchanged.
type AccountStatusUpdate struct {
	Role                        *Role
	Blocked                     *bool
	BlockedReason               *string
	OrganizationStatus          *OrgStatus
	OrganizationRejectionReason *string
	CanResubmit                 *bool
	OrganizationVerifiedAt      *time.Time
}

// CreateAccountRequest represents account provisioning parameters.
type CreateAccountRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Role     Role   `json:"role" binding:"required,oneof=developer organization"`
}

// AccountFilters represents account search parameters.
type AccountFilters struct {
	Role               Role
	OrganizationStatus OrgStatus
	Blocked            *bool
	Search             string
}
