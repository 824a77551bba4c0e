package account

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/devtogether/platform-api/internal/handler"
	"github.com/devtogether/platform-api/internal/model"
	"github.com/devtogether/platform-api/internal/repository"
	"github.com/devtogether/platform-api/pkg/security"
)

type Handler struct {
	accounts repository.AccountRepository
	apps     repository.ApplicationRepository
}

func NewHandler(accounts repository.AccountRepository, apps repository.ApplicationRepository) *Handler {
	return &Handler{
		accounts: accounts,
		apps:     apps,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	accounts := r.Group("/accounts")
	{
		accounts.POST("", h.CreateAccount)
		accounts.GET("/:id", h.GetAccount)
	}
}

// RegisterAdminRoutes mounts the moderation-queue listing and the
// per-developer application history reviewed ahead of a deletion.
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	r.GET("/accounts", h.ListAccounts)
	r.GET("/accounts/:id/applications", h.ListApplications)
}

func (h *Handler) CreateAccount(c *gin.Context) {
	var req model.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("failed to create account"))
		return
	}

	account := &model.Account{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         req.Role,
	}

	if err := h.accounts.Create(c.Request.Context(), account); err != nil {
		handler.RespondError(c, err)
		return
	}

	account.PasswordHash = ""
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(account))
}

func (h *Handler) GetAccount(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid account ID"))
		return
	}

	account, err := h.accounts.Get(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(account))
}

// ListApplications returns a developer's application history, newest first.
func (h *Handler) ListApplications(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid account ID"))
		return
	}

	if _, err := h.accounts.Get(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}

	apps, err := h.apps.ListByDeveloper(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(apps))
}

// ListAccounts filters by role and organization status. A filter of
// organization_status=pending matches rows whose column is NULL as well; the
// repository treats the two as equivalent.
func (h *Handler) ListAccounts(c *gin.Context) {
	filters := &model.AccountFilters{
		Role:               model.Role(c.Query("role")),
		OrganizationStatus: model.OrgStatus(c.Query("organization_status")),
		Search:             c.Query("search"),
	}

	accounts, err := h.accounts.List(c.Request.Context(), filters)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(accounts))
}
