package project

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

type stubProjectRepo struct {
	project *model.Project
}

func (s *stubProjectRepo) Create(_ context.Context, _ *model.Project) error { return nil }

func (s *stubProjectRepo) Get(_ context.Context, id uuid.UUID) (*model.Project, error) {
	if s.project != nil && s.project.ID == id {
		return s.project, nil
	}
	return nil, apperrors.NotFound("project", nil)
}

func (s *stubProjectRepo) UpdateStatus(_ context.Context, _ uuid.UUID, _ *model.ProjectStatusUpdate) error {
	return nil
}

func (s *stubProjectRepo) List(_ context.Context, _ *model.ProjectFilters) ([]*model.Project, error) {
	return nil, nil
}

func (s *stubProjectRepo) CascadeDelete(_ context.Context, _ uuid.UUID) error { return nil }

type stubMessageRepo struct {
	count int
}

func (s *stubMessageRepo) CountByProject(_ context.Context, _ uuid.UUID) (int, error) {
	return s.count, nil
}

type stubApplicationRepo struct {
	apps []*model.Application
}

func (s *stubApplicationRepo) ListByProject(_ context.Context, _ uuid.UUID) ([]*model.Application, error) {
	return s.apps, nil
}

func (s *stubApplicationRepo) ListByDeveloper(_ context.Context, _ uuid.UUID) ([]*model.Application, error) {
	return nil, nil
}

func (s *stubApplicationRepo) WithdrawActive(_ context.Context, _ uuid.UUID) (int64, error) {
	return 0, nil
}

func newTestRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.RegisterRoutes(r.Group("/"))
	return r
}

func TestGetProjectIncludesMessageCount(t *testing.T) {
	project := &model.Project{
		Base:   model.Base{ID: uuid.New()},
		Title:  "Food Bank Portal",
		Status: model.ProjectStatusOpen,
	}
	h := NewHandler(&stubProjectRepo{project: project}, &stubMessageRepo{count: 7}, &stubApplicationRepo{})
	r := newTestRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/projects/"+project.ID.String(), nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Title        string `json:"title"`
			MessageCount int    `json:"message_count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "Food Bank Portal", resp.Data.Title)
	assert.Equal(t, 7, resp.Data.MessageCount)
}

func TestListProjectApplications(t *testing.T) {
	project := &model.Project{
		Base:   model.Base{ID: uuid.New()},
		Status: model.ProjectStatusOpen,
	}
	apps := []*model.Application{
		{Base: model.Base{ID: uuid.New()}, ProjectID: project.ID, Status: model.ApplicationStatusAccepted},
		{Base: model.Base{ID: uuid.New()}, ProjectID: project.ID, Status: model.ApplicationStatusPending},
	}
	h := NewHandler(&stubProjectRepo{project: project}, &stubMessageRepo{}, &stubApplicationRepo{apps: apps})
	r := newTestRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/projects/"+project.ID.String()+"/applications", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status string              `json:"status"`
		Data   []model.Application `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 2)
}

func TestListProjectApplicationsUnknownProject(t *testing.T) {
	h := NewHandler(&stubProjectRepo{}, &stubMessageRepo{}, &stubApplicationRepo{})
	r := newTestRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/projects/"+uuid.NewString()+"/applications", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
