// Package lifecycle holds the pure moderation state machines for
// organizations, projects, and account roles. Functions here validate a
// requested transition against the entity's current persisted state and
// return the exact field update to apply; they never touch storage, so an
// illegal transition can never produce a partial write.
package lifecycle

import (
	"time"

	"github.com/google/uuid"

	"github.com/devtogether/platform-api/internal/model"
	apperrors "github.com/devtogether/platform-api/pkg/errors"
)

var orgTransitions = map[model.OrgStatus][]model.OrgStatus{
	model.OrgStatusPending:  {model.OrgStatusApproved, model.OrgStatusRejected},
	model.OrgStatusApproved: {model.OrgStatusBlocked},
	model.OrgStatusRejected: {model.OrgStatusBlocked, model.OrgStatusPending},
	model.OrgStatusBlocked:  {model.OrgStatusApproved},
}

var projectTransitions = map[model.ProjectStatus][]model.ProjectStatus{
	model.ProjectStatusPending:    {model.ProjectStatusOpen, model.ProjectStatusRejected},
	model.ProjectStatusOpen:       {model.ProjectStatusInProgress, model.ProjectStatusCompleted, model.ProjectStatusCancelled, model.ProjectStatusRejected},
	model.ProjectStatusInProgress: {model.ProjectStatusCompleted, model.ProjectStatusCancelled, model.ProjectStatusRejected},
	model.ProjectStatusRejected:   {model.ProjectStatusPending},
	model.ProjectStatusCompleted:  {},
	model.ProjectStatusCancelled:  {},
}

// CanTransitionOrg reports whether an organization status transition is legal.
func CanTransitionOrg(from, to model.OrgStatus) bool {
	for _, allowed := range orgTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// CanTransitionProject reports whether a project status transition is legal.
func CanTransitionProject(from, to model.ProjectStatus) bool {
	for _, allowed := range projectTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func orgTransitionErr(from, to model.OrgStatus) error {
	return apperrors.Validationf("organization cannot move from %s to %s", from, to)
}

func projectTransitionErr(from, to model.ProjectStatus) error {
	return apperrors.Validationf("project cannot move from %s to %s", from, to)
}

// ApproveOrganization verifies a pending organization and stamps the
// verification time. Approval is only legal from pending: blocked
// organizations reach approved exclusively through UnblockOrganization, which
// also lifts the blocked flag.
func ApproveOrganization(account *model.Account, now time.Time) (*model.AccountStatusUpdate, error) {
	if !account.IsOrganization() {
		return nil, apperrors.Validation("account is not an organization")
	}
	if account.OrganizationStatus != model.OrgStatusPending {
		return nil, apperrors.Validationf("only pending organizations can be approved, status is %s", account.OrganizationStatus)
	}
	return &model.AccountStatusUpdate{
		OrganizationStatus:          orgStatusPtr(model.OrgStatusApproved),
		OrganizationRejectionReason: nilString(),
		OrganizationVerifiedAt:      &now,
	}, nil
}

// RejectOrganization declines a pending organization with a reason. The
// can_resubmit flag set here gates any later resubmission.
func RejectOrganization(account *model.Account, reason string, canResubmit bool) (*model.AccountStatusUpdate, error) {
	if !account.IsOrganization() {
		return nil, apperrors.Validation("account is not an organization")
	}
	if reason == "" {
		return nil, apperrors.Validation("rejection reason is required")
	}
	if !CanTransitionOrg(account.OrganizationStatus, model.OrgStatusRejected) {
		return nil, orgTransitionErr(account.OrganizationStatus, model.OrgStatusRejected)
	}
	return &model.AccountStatusUpdate{
		OrganizationStatus:          orgStatusPtr(model.OrgStatusRejected),
		OrganizationRejectionReason: &reason,
		CanResubmit:                 &canResubmit,
	}, nil
}

// BlockOrganization blocks an approved or rejected organization. Blocking
// always revokes resubmission.
func BlockOrganization(account *model.Account, reason string) (*model.AccountStatusUpdate, error) {
	if !account.IsOrganization() {
		return nil, apperrors.Validation("account is not an organization")
	}
	if reason == "" {
		return nil, apperrors.Validation("block reason is required")
	}
	if !CanTransitionOrg(account.OrganizationStatus, model.OrgStatusBlocked) {
		return nil, orgTransitionErr(account.OrganizationStatus, model.OrgStatusBlocked)
	}
	blocked := true
	canResubmit := false
	return &model.AccountStatusUpdate{
		OrganizationStatus: orgStatusPtr(model.OrgStatusBlocked),
		Blocked:            &blocked,
		BlockedReason:      &reason,
		CanResubmit:        &canResubmit,
	}, nil
}

// UnblockOrganization restores a blocked organization to approved. Only
// blocked organizations qualify; a pending organization must go through
// ApproveOrganization so verification is stamped.
func UnblockOrganization(account *model.Account) (*model.AccountStatusUpdate, error) {
	if !account.IsOrganization() {
		return nil, apperrors.Validation("account is not an organization")
	}
	if account.OrganizationStatus != model.OrgStatusBlocked {
		return nil, apperrors.Validationf("only blocked organizations can be unblocked, status is %s", account.OrganizationStatus)
	}
	blocked := false
	return &model.AccountStatusUpdate{
		OrganizationStatus: orgStatusPtr(model.OrgStatusApproved),
		Blocked:            &blocked,
		BlockedReason:      nilString(),
	}, nil
}

// ResubmitOrganization returns a rejected organization to pending for
// re-review. Gated by the can_resubmit flag set at rejection time.
func ResubmitOrganization(account *model.Account) (*model.AccountStatusUpdate, error) {
	if !account.IsOrganization() {
		return nil, apperrors.Validation("account is not an organization")
	}
	if account.OrganizationStatus == model.OrgStatusRejected && !account.CanResubmit {
		return nil, apperrors.Validation("organization is not eligible for resubmission")
	}
	if !CanTransitionOrg(account.OrganizationStatus, model.OrgStatusPending) {
		return nil, orgTransitionErr(account.OrganizationStatus, model.OrgStatusPending)
	}
	return &model.AccountStatusUpdate{
		OrganizationStatus:          orgStatusPtr(model.OrgStatusPending),
		OrganizationRejectionReason: nilString(),
	}, nil
}

// ApproveProject opens a pending project, stamping the approver.
func ApproveProject(project *model.Project, approverID uuid.UUID, now time.Time) (*model.ProjectStatusUpdate, error) {
	if !CanTransitionProject(project.Status, model.ProjectStatusOpen) {
		return nil, projectTransitionErr(project.Status, model.ProjectStatusOpen)
	}
	canResubmit := true
	return &model.ProjectStatusUpdate{
		Status:          projectStatusPtr(model.ProjectStatusOpen),
		RejectionReason: nilString(),
		CanResubmit:     &canResubmit,
		ApprovedBy:      &approverID,
		ApprovedAt:      &now,
	}, nil
}

// RejectProject declines a pending project with a reason.
func RejectProject(project *model.Project, reason string, canResubmit bool) (*model.ProjectStatusUpdate, error) {
	if reason == "" {
		return nil, apperrors.Validation("rejection reason is required")
	}
	if project.Status != model.ProjectStatusPending {
		return nil, projectTransitionErr(project.Status, model.ProjectStatusRejected)
	}
	return &model.ProjectStatusUpdate{
		Status:          projectStatusPtr(model.ProjectStatusRejected),
		RejectionReason: &reason,
		CanResubmit:     &canResubmit,
	}, nil
}

// BlockProject demotes an open or in-progress project to rejected with a
// reason and no resubmission. The platform has no distinct blocked status for
// projects; a block is a status-level demotion.
func BlockProject(project *model.Project, reason string) (*model.ProjectStatusUpdate, error) {
	if reason == "" {
		return nil, apperrors.Validation("block reason is required")
	}
	if project.Status != model.ProjectStatusOpen && project.Status != model.ProjectStatusInProgress {
		return nil, projectTransitionErr(project.Status, model.ProjectStatusRejected)
	}
	canResubmit := false
	return &model.ProjectStatusUpdate{
		Status:          projectStatusPtr(model.ProjectStatusRejected),
		RejectionReason: &reason,
		CanResubmit:     &canResubmit,
	}, nil
}

// ResubmitProject returns a rejected project to pending, optionally applying
// content edits in the same update.
func ResubmitProject(project *model.Project, edits *model.ResubmitProjectRequest) (*model.ProjectStatusUpdate, error) {
	if project.Status != model.ProjectStatusRejected {
		return nil, projectTransitionErr(project.Status, model.ProjectStatusPending)
	}
	if !project.CanResubmit {
		return nil, apperrors.Validation("project is not eligible for resubmission")
	}
	update := &model.ProjectStatusUpdate{
		Status:          projectStatusPtr(model.ProjectStatusPending),
		RejectionReason: nilString(),
	}
	if edits != nil {
		update.Title = edits.Title
		update.Description = edits.Description
	}
	return update, nil
}

// PromoteToAdmin grants the admin role to a developer. Only the designated
// super-admin identity may grant it, and organizations are never promoted.
func PromoteToAdmin(actorID, superAdminID uuid.UUID, target *model.Account) (*model.AccountStatusUpdate, error) {
	if actorID != superAdminID {
		return nil, apperrors.Forbidden("only the super admin may grant the admin role")
	}
	if target.Role != model.RoleDeveloper {
		return nil, apperrors.Validationf("only developers may be promoted, account role is %s", target.Role)
	}
	role := model.RoleAdmin
	return &model.AccountStatusUpdate{Role: &role}, nil
}

// DemoteAdmin revokes the admin role. Self-demotion is forbidden so the
// platform can never lose its last administrator by accident.
func DemoteAdmin(actorID, superAdminID uuid.UUID, target *model.Account) (*model.AccountStatusUpdate, error) {
	if actorID != superAdminID {
		return nil, apperrors.Forbidden("only the super admin may revoke the admin role")
	}
	if target.ID == actorID {
		return nil, apperrors.Validation("self-demotion is not allowed")
	}
	if target.Role != model.RoleAdmin {
		return nil, apperrors.Validationf("account is not an admin, role is %s", target.Role)
	}
	role := model.RoleDeveloper
	return &model.AccountStatusUpdate{Role: &role}, nil
}

func orgStatusPtr(s model.OrgStatus) *model.OrgStatus { return &s }

func projectStatusPtr(s model.ProjectStatus) *model.ProjectStatus { return &s }

// nilString is an explicit "clear this column" marker for nullable text
// fields. The repository writes NULL when the pointer points at "".
func nilString() *string {
	s := ""
	return &s
}
