package moderation

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devtogether/platform-api/internal/email"
	"github.com/devtogether/platform-api/internal/model"
	"github.com/devtogether/platform-api/internal/service/authz"
	apperrors "github.com/devtogether/platform-api/pkg/errors"
)

type memAccountRepo struct {
	accounts map[uuid.UUID]*model.Account
	updates  []*model.AccountStatusUpdate
}

func (m *memAccountRepo) Create(_ context.Context, _ *model.Account) error { return nil }

func (m *memAccountRepo) Get(_ context.Context, id uuid.UUID) (*model.Account, error) {
	acc, ok := m.accounts[id]
	if !ok {
		return nil, apperrors.NotFound("account", nil)
	}
	copied := *acc
	return &copied, nil
}

func (m *memAccountRepo) GetRole(_ context.Context, id uuid.UUID) (model.Role, error) {
	acc, ok := m.accounts[id]
	if !ok {
		return "", apperrors.NotFound("account", nil)
	}
	return acc.Role, nil
}

func (m *memAccountRepo) UpdateStatus(_ context.Context, id uuid.UUID, update *model.AccountStatusUpdate) error {
	acc, ok := m.accounts[id]
	if !ok {
		return apperrors.NotFound("account", nil)
	}
	m.updates = append(m.updates, update)
	if update.Role != nil {
		acc.Role = *update.Role
	}
	if update.Blocked != nil {
		acc.Blocked = *update.Blocked
	}
	if update.OrganizationStatus != nil {
		acc.OrganizationStatus = *update.OrganizationStatus
	}
	if update.OrganizationRejectionReason != nil {
		if *update.OrganizationRejectionReason == "" {
			acc.OrganizationRejectionReason = nil
		} else {
			acc.OrganizationRejectionReason = update.OrganizationRejectionReason
		}
	}
	if update.CanResubmit != nil {
		acc.CanResubmit = *update.CanResubmit
	}
	if update.OrganizationVerifiedAt != nil {
		acc.OrganizationVerifiedAt = update.OrganizationVerifiedAt
	}
	return nil
}

func (m *memAccountRepo) List(_ context.Context, _ *model.AccountFilters) ([]*model.Account, error) {
	return nil, nil
}

func (m *memAccountRepo) CascadeDelete(_ context.Context, id uuid.UUID) error {
	delete(m.accounts, id)
	return nil
}

type memProjectRepo struct {
	projects map[uuid.UUID]*model.Project
	updates  []*model.ProjectStatusUpdate
}

func (m *memProjectRepo) Create(_ context.Context, _ *model.Project) error { return nil }

func (m *memProjectRepo) Get(_ context.Context, id uuid.UUID) (*model.Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return nil, apperrors.NotFound("project", nil)
	}
	copied := *p
	return &copied, nil
}

func (m *memProjectRepo) UpdateStatus(_ context.Context, id uuid.UUID, update *model.ProjectStatusUpdate) error {
	p, ok := m.projects[id]
	if !ok {
		return apperrors.NotFound("project", nil)
	}
	m.updates = append(m.updates, update)
	if update.Status != nil {
		p.Status = *update.Status
	}
	if update.RejectionReason != nil {
		p.RejectionReason = update.RejectionReason
	}
	if update.CanResubmit != nil {
		p.CanResubmit = *update.CanResubmit
	}
	if update.Title != nil {
		p.Title = *update.Title
	}
	return nil
}

func (m *memProjectRepo) List(_ context.Context, _ *model.ProjectFilters) ([]*model.Project, error) {
	return nil, nil
}

func (m *memProjectRepo) CascadeDelete(_ context.Context, id uuid.UUID) error {
	delete(m.projects, id)
	return nil
}

type moderationFixture struct {
	svc      *Service
	accounts *memAccountRepo
	projects *memProjectRepo
	adminID  uuid.UUID
	superID  uuid.UUID
}

func newModerationFixture() *moderationFixture {
	f := &moderationFixture{
		adminID: uuid.New(),
		superID: uuid.New(),
		accounts: &memAccountRepo{
			accounts: make(map[uuid.UUID]*model.Account),
		},
		projects: &memProjectRepo{
			projects: make(map[uuid.UUID]*model.Project),
		},
	}
	f.accounts.accounts[f.adminID] = &model.Account{
		Base: model.Base{ID: f.adminID},
		Role: model.RoleAdmin,
	}
	f.accounts.accounts[f.superID] = &model.Account{
		Base: model.Base{ID: f.superID},
		Role: model.RoleAdmin,
	}

	gate := authz.NewService(f.accounts, f.superID)
	f.svc = NewService(f.accounts, f.projects, gate, email.NoopService{}, nil, nil)
	return f
}

func (f *moderationFixture) addOrg(status model.OrgStatus, canResubmit bool) uuid.UUID {
	id := uuid.New()
	reason := "previous reason"
	acc := &model.Account{
		Base:               model.Base{ID: id},
		Email:              "org@example.com",
		Name:               "Helping Hands",
		Role:               model.RoleOrganization,
		OrganizationStatus: status,
		CanResubmit:        canResubmit,
	}
	if status == model.OrgStatusRejected {
		acc.OrganizationRejectionReason = &reason
	}
	f.accounts.accounts[id] = acc
	return id
}

func (f *moderationFixture) addProject(status model.ProjectStatus, canResubmit bool, orgID uuid.UUID) uuid.UUID {
	id := uuid.New()
	f.projects.projects[id] = &model.Project{
		Base:           model.Base{ID: id},
		OrganizationID: orgID,
		Title:          "Food Bank Portal",
		Status:         status,
		CanResubmit:    canResubmit,
	}
	return id
}

func TestApproveOrganization(t *testing.T) {
	f := newModerationFixture()
	orgID := f.addOrg(model.OrgStatusPending, false)

	require.NoError(t, f.svc.ApproveOrganization(context.Background(), f.adminID, orgID))

	org := f.accounts.accounts[orgID]
	assert.Equal(t, model.OrgStatusApproved, org.OrganizationStatus)
	assert.Nil(t, org.OrganizationRejectionReason)
	assert.NotNil(t, org.OrganizationVerifiedAt)
}

func TestApproveOrganizationWrongState(t *testing.T) {
	f := newModerationFixture()
	orgID := f.addOrg(model.OrgStatusApproved, false)

	err := f.svc.ApproveOrganization(context.Background(), f.adminID, orgID)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
	assert.Empty(t, f.accounts.updates)
}

func TestRejectOrganizationRecordsReason(t *testing.T) {
	f := newModerationFixture()
	orgID := f.addOrg(model.OrgStatusPending, false)

	require.NoError(t, f.svc.RejectOrganization(context.Background(), f.adminID, orgID, "incomplete profile", true))

	org := f.accounts.accounts[orgID]
	assert.Equal(t, model.OrgStatusRejected, org.OrganizationStatus)
	require.NotNil(t, org.OrganizationRejectionReason)
	assert.Equal(t, "incomplete profile", *org.OrganizationRejectionReason)
	assert.True(t, org.CanResubmit)
}

func TestModerationRequiresAdmin(t *testing.T) {
	f := newModerationFixture()
	orgID := f.addOrg(model.OrgStatusPending, false)
	developer := uuid.New()
	f.accounts.accounts[developer] = &model.Account{
		Base: model.Base{ID: developer},
		Role: model.RoleDeveloper,
	}

	err := f.svc.ApproveOrganization(context.Background(), developer, orgID)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrForbidden))
	assert.Empty(t, f.accounts.updates)
}

func TestResubmitOrganization(t *testing.T) {
	f := newModerationFixture()
	orgID := f.addOrg(model.OrgStatusRejected, true)

	require.NoError(t, f.svc.ResubmitOrganization(context.Background(), orgID))

	org := f.accounts.accounts[orgID]
	assert.Equal(t, model.OrgStatusPending, org.OrganizationStatus)
	assert.Nil(t, org.OrganizationRejectionReason)
}

func TestResubmitOrganizationNotEligible(t *testing.T) {
	f := newModerationFixture()
	orgID := f.addOrg(model.OrgStatusRejected, false)

	err := f.svc.ResubmitOrganization(context.Background(), orgID)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
	// No write happened.
	assert.Empty(t, f.accounts.updates)
	assert.Equal(t, model.OrgStatusRejected, f.accounts.accounts[orgID].OrganizationStatus)
}

func TestBlockAndUnblockOrganization(t *testing.T) {
	f := newModerationFixture()
	orgID := f.addOrg(model.OrgStatusApproved, true)

	require.NoError(t, f.svc.BlockOrganization(context.Background(), f.adminID, orgID, "spam"))
	org := f.accounts.accounts[orgID]
	assert.Equal(t, model.OrgStatusBlocked, org.OrganizationStatus)
	assert.True(t, org.Blocked)
	assert.False(t, org.CanResubmit)

	require.NoError(t, f.svc.UnblockOrganization(context.Background(), f.adminID, orgID))
	assert.Equal(t, model.OrgStatusApproved, org.OrganizationStatus)
	assert.False(t, org.Blocked)
}

func TestApproveProject(t *testing.T) {
	f := newModerationFixture()
	orgID := f.addOrg(model.OrgStatusApproved, false)
	projectID := f.addProject(model.ProjectStatusPending, false, orgID)

	require.NoError(t, f.svc.ApproveProject(context.Background(), f.adminID, projectID))

	p := f.projects.projects[projectID]
	assert.Equal(t, model.ProjectStatusOpen, p.Status)
}

func TestBlockProjectDemotesToRejected(t *testing.T) {
	f := newModerationFixture()
	orgID := f.addOrg(model.OrgStatusApproved, false)
	projectID := f.addProject(model.ProjectStatusInProgress, true, orgID)

	require.NoError(t, f.svc.BlockProject(context.Background(), f.adminID, projectID, "violates guidelines"))

	p := f.projects.projects[projectID]
	assert.Equal(t, model.ProjectStatusRejected, p.Status)
	assert.False(t, p.CanResubmit)
}

func TestResubmitProjectOwnershipEnforced(t *testing.T) {
	f := newModerationFixture()
	ownerID := f.addOrg(model.OrgStatusApproved, false)
	otherID := f.addOrg(model.OrgStatusApproved, false)
	projectID := f.addProject(model.ProjectStatusRejected, true, ownerID)

	err := f.svc.ResubmitProject(context.Background(), otherID, projectID, nil)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrForbidden))

	title := "Clearer title"
	require.NoError(t, f.svc.ResubmitProject(context.Background(), ownerID, projectID, &model.ResubmitProjectRequest{Title: &title}))
	p := f.projects.projects[projectID]
	assert.Equal(t, model.ProjectStatusPending, p.Status)
	assert.Equal(t, "Clearer title", p.Title)
}

func TestPromoteToAdminSuperOnly(t *testing.T) {
	f := newModerationFixture()
	devID := uuid.New()
	f.accounts.accounts[devID] = &model.Account{
		Base: model.Base{ID: devID},
		Role: model.RoleDeveloper,
	}

	// A regular admin cannot grant the role.
	err := f.svc.PromoteToAdmin(context.Background(), f.adminID, devID)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrForbidden))

	require.NoError(t, f.svc.PromoteToAdmin(context.Background(), f.superID, devID))
	assert.Equal(t, model.RoleAdmin, f.accounts.accounts[devID].Role)
}

func TestDemoteAdmin(t *testing.T) {
	f := newModerationFixture()

	require.NoError(t, f.svc.DemoteAdmin(context.Background(), f.superID, f.adminID))
	assert.Equal(t, model.RoleDeveloper, f.accounts.accounts[f.adminID].Role)

	// The super admin cannot demote itself.
	err := f.svc.DemoteAdmin(context.Background(), f.superID, f.superID)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
}
