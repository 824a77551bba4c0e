package lifecycle

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devtogether/platform-api/internal/model"
	apperrors "github.com/devtogether/platform-api/pkg/errors"
)

func org(status model.OrgStatus, canResubmit bool) *model.Account {
	return &model.Account{
		Role:               model.RoleOrganization,
		OrganizationStatus: status,
		CanResubmit:        canResubmit,
	}
}

func TestApproveOrganization(t *testing.T) {
	now := time.Now()

	update, err := ApproveOrganization(org(model.OrgStatusPending, false), now)
	require.NoError(t, err)
	assert.Equal(t, model.OrgStatusApproved, *update.OrganizationStatus)
	assert.Equal(t, now, *update.OrganizationVerifiedAt)
	// Rejection reason is cleared on approval.
	require.NotNil(t, update.OrganizationRejectionReason)
	assert.Empty(t, *update.OrganizationRejectionReason)
}

func TestApproveOrganizationIllegal(t *testing.T) {
	tests := []struct {
		name   string
		status model.OrgStatus
	}{
		{"already approved", model.OrgStatusApproved},
		{"rejected", model.OrgStatusRejected},
		// A blocked organization must be unblocked, not approved, so the
		// blocked flag can never survive into an approved state.
		{"blocked", model.OrgStatusBlocked},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			update, err := ApproveOrganization(org(tt.status, false), time.Now())
			assert.Nil(t, update)
			assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
		})
	}
}

func TestApproveOrganizationNotAnOrg(t *testing.T) {
	dev := &model.Account{Role: model.RoleDeveloper}
	_, err := ApproveOrganization(dev, time.Now())
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
}

func TestRejectOrganization(t *testing.T) {
	update, err := RejectOrganization(org(model.OrgStatusPending, false), "incomplete profile", true)
	require.NoError(t, err)
	assert.Equal(t, model.OrgStatusRejected, *update.OrganizationStatus)
	assert.Equal(t, "incomplete profile", *update.OrganizationRejectionReason)
	assert.True(t, *update.CanResubmit)

	_, err = RejectOrganization(org(model.OrgStatusPending, false), "", true)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
}

func TestBlockOrganization(t *testing.T) {
	for _, status := range []model.OrgStatus{model.OrgStatusApproved, model.OrgStatusRejected} {
		update, err := BlockOrganization(org(status, true), "spam")
		require.NoError(t, err)
		assert.Equal(t, model.OrgStatusBlocked, *update.OrganizationStatus)
		assert.True(t, *update.Blocked)
		assert.False(t, *update.CanResubmit)
	}

	_, err := BlockOrganization(org(model.OrgStatusPending, false), "spam")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
}

func TestUnblockOrganization(t *testing.T) {
	update, err := UnblockOrganization(org(model.OrgStatusBlocked, false))
	require.NoError(t, err)
	assert.Equal(t, model.OrgStatusApproved, *update.OrganizationStatus)
	assert.False(t, *update.Blocked)
}

func TestUnblockOrganizationNotBlocked(t *testing.T) {
	// Unblocking must never act as a shortcut approval: a pending
	// organization goes through the review queue and gets its verification
	// stamp there.
	for _, status := range []model.OrgStatus{model.OrgStatusPending, model.OrgStatusApproved, model.OrgStatusRejected} {
		update, err := UnblockOrganization(org(status, false))
		assert.Nil(t, update, "unblock from %s", status)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation), "unblock from %s", status)
	}
}

func TestResubmitOrganization(t *testing.T) {
	update, err := ResubmitOrganization(org(model.OrgStatusRejected, true))
	require.NoError(t, err)
	assert.Equal(t, model.OrgStatusPending, *update.OrganizationStatus)
	require.NotNil(t, update.OrganizationRejectionReason)
	assert.Empty(t, *update.OrganizationRejectionReason)
}

func TestResubmitOrganizationNotEligible(t *testing.T) {
	update, err := ResubmitOrganization(org(model.OrgStatusRejected, false))
	assert.Nil(t, update)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
}

func project(status model.ProjectStatus, canResubmit bool) *model.Project {
	return &model.Project{Status: status, CanResubmit: canResubmit}
}

func TestApproveProject(t *testing.T) {
	approver := uuid.New()
	now := time.Now()

	update, err := ApproveProject(project(model.ProjectStatusPending, false), approver, now)
	require.NoError(t, err)
	assert.Equal(t, model.ProjectStatusOpen, *update.Status)
	assert.Equal(t, approver, *update.ApprovedBy)
	assert.Equal(t, now, *update.ApprovedAt)
	assert.True(t, *update.CanResubmit)
}

func TestProjectTerminalStates(t *testing.T) {
	for _, status := range []model.ProjectStatus{model.ProjectStatusCompleted, model.ProjectStatusCancelled} {
		_, err := ApproveProject(project(status, false), uuid.New(), time.Now())
		assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation), "approve from %s", status)

		_, err = BlockProject(project(status, false), "reason")
		assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation), "block from %s", status)
	}
}

func TestBlockProject(t *testing.T) {
	for _, status := range []model.ProjectStatus{model.ProjectStatusOpen, model.ProjectStatusInProgress} {
		update, err := BlockProject(project(status, true), "violates guidelines")
		require.NoError(t, err)
		assert.Equal(t, model.ProjectStatusRejected, *update.Status)
		assert.Equal(t, "violates guidelines", *update.RejectionReason)
		assert.False(t, *update.CanResubmit)
	}
}

func TestResubmitProjectWithEdits(t *testing.T) {
	title := "Better title"
	update, err := ResubmitProject(project(model.ProjectStatusRejected, true), &model.ResubmitProjectRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, model.ProjectStatusPending, *update.Status)
	assert.Equal(t, "Better title", *update.Title)

	_, err = ResubmitProject(project(model.ProjectStatusRejected, false), nil)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
}

func TestPromoteToAdmin(t *testing.T) {
	super := uuid.New()
	target := &model.Account{Base: model.Base{ID: uuid.New()}, Role: model.RoleDeveloper}

	update, err := PromoteToAdmin(super, super, target)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, *update.Role)

	// Only the super admin may grant the role.
	_, err = PromoteToAdmin(uuid.New(), super, target)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrForbidden))

	// Organizations are never promoted.
	orgAcc := &model.Account{Base: model.Base{ID: uuid.New()}, Role: model.RoleOrganization}
	_, err = PromoteToAdmin(super, super, orgAcc)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
}

func TestDemoteAdmin(t *testing.T) {
	super := uuid.New()
	target := &model.Account{Base: model.Base{ID: uuid.New()}, Role: model.RoleAdmin}

	update, err := DemoteAdmin(super, super, target)
	require.NoError(t, err)
	assert.Equal(t, model.RoleDeveloper, *update.Role)

	// Self-demotion is forbidden.
	self := &model.Account{Base: model.Base{ID: super}, Role: model.RoleAdmin}
	_, err = DemoteAdmin(super, super, self)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
}
