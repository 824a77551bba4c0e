package authz

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devtogether/platform-api/internal/model"
	apperrors "github.com/devtogether/platform-api/pkg/errors"
)

type roleRepo struct {
	roles     map[uuid.UUID]model.Role
	roleReads int
}

func (r *roleRepo) Create(_ context.Context, _ *model.Account) error { return nil }

func (r *roleRepo) Get(_ context.Context, id uuid.UUID) (*model.Account, error) {
	role, ok := r.roles[id]
	if !ok {
		return nil, apperrors.NotFound("account", nil)
	}
	return &model.Account{Base: model.Base{ID: id}, Role: role}, nil
}

func (r *roleRepo) GetRole(_ context.Context, id uuid.UUID) (model.Role, error) {
	r.roleReads++
	role, ok := r.roles[id]
	if !ok {
		return "", apperrors.NotFound("account", nil)
	}
	return role, nil
}

func (r *roleRepo) UpdateStatus(_ context.Context, _ uuid.UUID, _ *model.AccountStatusUpdate) error {
	return nil
}

func (r *roleRepo) List(_ context.Context, _ *model.AccountFilters) ([]*model.Account, error) {
	return nil, nil
}

func (r *roleRepo) CascadeDelete(_ context.Context, _ uuid.UUID) error { return nil }

func TestRequireAdminReadsPersistedRole(t *testing.T) {
	adminID := uuid.New()
	repo := &roleRepo{roles: map[uuid.UUID]model.Role{adminID: model.RoleAdmin}}
	gate := NewService(repo, uuid.Nil)

	require.NoError(t, gate.RequireAdmin(context.Background(), adminID))

	// A demotion takes effect on the very next destructive call, cache or
	// not.
	repo.roles[adminID] = model.RoleDeveloper
	err := gate.RequireAdmin(context.Background(), adminID)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrForbidden))
	assert.Equal(t, 2, repo.roleReads)
}

func TestRequireAdminUnknownAccount(t *testing.T) {
	gate := NewService(&roleRepo{roles: map[uuid.UUID]model.Role{}}, uuid.Nil)

	err := gate.RequireAdmin(context.Background(), uuid.New())
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}

func TestIsAdminCachedServesFromCache(t *testing.T) {
	adminID := uuid.New()
	repo := &roleRepo{roles: map[uuid.UUID]model.Role{adminID: model.RoleAdmin}}
	gate := NewService(repo, uuid.Nil)

	ok, err := gate.IsAdminCached(context.Background(), adminID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, repo.roleReads)

	// Second read within the TTL does not hit the store.
	ok, err = gate.IsAdminCached(context.Background(), adminID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, repo.roleReads)
}

func TestRequireSuperAdmin(t *testing.T) {
	superID := uuid.New()
	otherAdmin := uuid.New()
	repo := &roleRepo{roles: map[uuid.UUID]model.Role{
		superID:    model.RoleAdmin,
		otherAdmin: model.RoleAdmin,
	}}
	gate := NewService(repo, superID)

	require.NoError(t, gate.RequireSuperAdmin(context.Background(), superID))

	err := gate.RequireSuperAdmin(context.Background(), otherAdmin)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrForbidden))
}
