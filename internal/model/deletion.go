package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Deletion target types
type DeletionTarget string

const (
	DeletionTargetOrganization DeletionTarget = "organization"
	DeletionTargetProject      DeletionTarget = "project"
	DeletionTargetDeveloper    DeletionTarget = "developer"
)

// Valid reports whether the target type is one the executor knows how to
// delete.
func (t DeletionTarget) Valid() bool {
	switch t {
	case DeletionTargetOrganization, DeletionTargetProject, DeletionTargetDeveloper:
		return true
	}
	return false
}

// Impact classifications, ordered from least to most disruptive.
type ImpactLevel string

const (
	ImpactMinimal ImpactLevel = "minimal"
	ImpactLow     ImpactLevel = "low"
	ImpactMedium  ImpactLevel = "medium"
	ImpactHigh    ImpactLevel = "high"
)

// DeletionImpact is the raw aggregation returned by the get_deletion_impact
// stored procedure. NotFound and QueryError are sentinels so the analyzer can
// tell a missing target from a failed query without relying on driver errors.
type DeletionImpact struct {
	NotFound   bool   `db:"not_found"`
	QueryError string `db:"query_error"`

	TargetName     string     `db:"target_name"`
	TargetEmail    string     `db:"target_email"`
	TargetRole     string     `db:"target_role"`
	MemberSince    *time.Time `db:"member_since"`
	VerifiedAt     *time.Time `db:"verified_at"`
	Projects       int        `db:"projects"`
	ActiveProjects int        `db:"active_projects"`
	Applications   int        `db:"applications"`
	PendingApps    int        `db:"pending_applications"`
	ActiveApps     int        `db:"active_applications"`
	Messages       int        `db:"messages"`
	TeamMembers    int        `db:"team_members"`
	TeamActivities int        `db:"team_activities"`
}

// TargetInfo is the human-facing metadata shown alongside an analysis.
type TargetInfo struct {
	Name        string     `json:"name"`
	Email       string     `json:"email,omitempty"`
	Role        string     `json:"role,omitempty"`
	MemberSince *time.Time `json:"member_since,omitempty"`
	VerifiedAt  *time.Time `json:"verified_at,omitempty"`
}

// DeletionAnalysis is the computed impact report for one candidate deletion.
// It is transient: a fresh one is recomputed by the executor and snapshotted
// into the audit record, never reused from the client.
type DeletionAnalysis struct {
	TargetType   DeletionTarget `json:"target_type"`
	TargetID     uuid.UUID      `json:"target_id"`
	SafeToDelete bool           `json:"safe_to_delete"`
	Impact       ImpactLevel    `json:"deletion_impact"`

	// Dependency counts, present only when > 0 for the target type.
	Dependencies map[string]int `json:"dependencies"`

	Warnings       []string   `json:"warnings,omitempty"`
	ActionRequired string     `json:"action_required,omitempty"`
	ActiveProjects []string   `json:"active_projects_list,omitempty"`
	Target         TargetInfo `json:"target"`
	AnalyzedAt     time.Time  `json:"analyzed_at"`
}

// DeletionResult is the structured outcome of one executor invocation.
type DeletionResult struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	AuditID *uuid.UUID `json:"audit_id,omitempty"`
	Errors  []string   `json:"errors,omitempty"`
}

// DeletionAuditRecord is written once per executed deletion, before or
// atomically with the destructive step. Never mutated or deleted.
type DeletionAuditRecord struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	DeletionType DeletionTarget  `json:"deletion_type" db:"deletion_type"`
	TargetID     uuid.UUID       `json:"target_id" db:"target_id"`
	AdminID      uuid.UUID       `json:"admin_id" db:"admin_id"`
	Reason       string          `json:"reason" db:"reason"`
	Snapshot     json.RawMessage `json:"snapshot" db:"snapshot"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}
