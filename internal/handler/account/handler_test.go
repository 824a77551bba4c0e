package account

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devtogether/platform-api/internal/model"
	apperrors "github.com/devtogether/platform-api/pkg/errors"
)

type stubAccountRepo struct {
	account *model.Account
}

func (s *stubAccountRepo) Create(_ context.Context, _ *model.Account) error { return nil }

func (s *stubAccountRepo) Get(_ context.Context, id uuid.UUID) (*model.Account, error) {
	if s.account != nil && s.account.ID == id {
		return s.account, nil
	}
	return nil, apperrors.NotFound("account", nil)
}

func (s *stubAccountRepo) GetRole(_ context.Context, id uuid.UUID) (model.Role, error) {
	if s.account != nil && s.account.ID == id {
		return s.account.Role, nil
	}
	return "", apperrors.NotFound("account", nil)
}

func (s *stubAccountRepo) UpdateStatus(_ context.Context, _ uuid.UUID, _ *model.AccountStatusUpdate) error {
	return nil
}

func (s *stubAccountRepo) List(_ context.Context, _ *model.AccountFilters) ([]*model.Account, error) {
	return nil, nil
}

func (s *stubAccountRepo) CascadeDelete(_ context.Context, _ uuid.UUID) error { return nil }

type stubApplicationRepo struct {
	apps []*model.Application
}

func (s *stubApplicationRepo) ListByProject(_ context.Context, _ uuid.UUID) ([]*model.Application, error) {
	return nil, nil
}

func (s *stubApplicationRepo) ListByDeveloper(_ context.Context, _ uuid.UUID) ([]*model.Application, error) {
	return s.apps, nil
}

func (s *stubApplicationRepo) WithdrawActive(_ context.Context, _ uuid.UUID) (int64, error) {
	return 0, nil
}

func TestListDeveloperApplications(t *testing.T) {
	developer := &model.Account{
		Base: model.Base{ID: uuid.New()},
		Role: model.RoleDeveloper,
	}
	apps := []*model.Application{
		{Base: model.Base{ID: uuid.New()}, DeveloperID: developer.ID, Status: model.ApplicationStatusAccepted},
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(&stubAccountRepo{account: developer}, &stubApplicationRepo{apps: apps})
	h.RegisterAdminRoutes(r.Group("/admin"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/accounts/"+developer.ID.String()+"/applications", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status string              `json:"status"`
		Data   []model.Application `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, model.ApplicationStatusAccepted, resp.Data[0].Status)
}

func TestListDeveloperApplicationsUnknownAccount(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(&stubAccountRepo{}, &stubApplicationRepo{})
	h.RegisterAdminRoutes(r.Group("/admin"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/accounts/"+uuid.NewString()+"/applications", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
