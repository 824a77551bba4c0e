package project

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/devtogether/platform-api/internal/handler"
	"github.com/devtogether/platform-api/internal/middleware"
	"github.com/devtogether/platform-api/internal/model"
	"github.com/devtogether/platform-api/internal/repository"
)

type Handler struct {
	projects repository.ProjectRepository
	messages repository.MessageRepository
	apps     repository.ApplicationRepository
}

func NewHandler(projects repository.ProjectRepository, messages repository.MessageRepository, apps repository.ApplicationRepository) *Handler {
	return &Handler{
		projects: projects,
		messages: messages,
		apps:     apps,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	projects := r.Group("/projects")
	{
		projects.POST("", h.CreateProject)
		projects.GET("/:id", h.GetProject)
		projects.GET("/:id/applications", h.ListApplications)
		projects.GET("", h.ListProjects)
	}
}

type createProjectRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// CreateProject submits a new project for review. Projects always start
// pending; moderation opens them.
func (h *Handler) CreateProject(c *gin.Context) {
	orgID, found := middleware.AccountID(c)
	if !found {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid account ID"))
		return
	}

	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	project := &model.Project{
		OrganizationID: orgID,
		Title:          req.Title,
		Description:    req.Description,
		Status:         model.ProjectStatusPending,
	}

	if err := h.projects.Create(c.Request.Context(), project); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(project))
}

func (h *Handler) GetProject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid project ID"))
		return
	}

	project, err := h.projects.Get(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	count, err := h.messages.CountByProject(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(projectDetail{
		Project:      project,
		MessageCount: count,
	}))
}

type projectDetail struct {
	*model.Project
	MessageCount int `json:"message_count"`
}

// ListApplications returns the applications submitted to a project, newest
// first.
func (h *Handler) ListApplications(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid project ID"))
		return
	}

	if _, err := h.projects.Get(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}

	apps, err := h.apps.ListByProject(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(apps))
}

func (h *Handler) ListProjects(c *gin.Context) {
	filters := &model.ProjectFilters{
		Status: model.ProjectStatus(c.Query("status")),
		Search: c.Query("search"),
	}
	if v := c.Query("organization_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid organization ID"))
			return
		}
		filters.OrganizationID = id
	}

	projects, err := h.projects.List(c.Request.Context(), filters)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(projects))
}
