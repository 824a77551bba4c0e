package moderation

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/devtogether/platform-api/internal/handler"
	"github.com/devtogether/platform-api/internal/middleware"
	"github.com/devtogether/platform-api/internal/model"
	moderationService "github.com/devtogether/platform-api/internal/service/moderation"
)

type Handler struct {
	service *moderationService.Service
}

func NewHandler(service *moderationService.Service) *Handler {
	return &Handler{service: service}
}

// RegisterAdminRoutes mounts moderation actions under the admin group.
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	organizations := r.Group("/organizations")
	{
		organizations.POST("/:id/approve", h.ApproveOrganization)
		organizations.POST("/:id/reject", h.RejectOrganization)
		organizations.POST("/:id/block", h.BlockOrganization)
		organizations.POST("/:id/unblock", h.UnblockOrganization)
	}

	projects := r.Group("/projects")
	{
		projects.POST("/:id/approve", h.ApproveProject)
		projects.POST("/:id/reject", h.RejectProject)
		projects.POST("/:id/block", h.BlockProject)
	}

	roles := r.Group("/roles")
	{
		roles.POST("/:id/promote", h.PromoteToAdmin)
		roles.POST("/:id/demote", h.DemoteAdmin)
	}
}

// RegisterRoutes mounts the self-service resubmission endpoints, available to
// the owning organization without the admin gate.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/organizations/resubmit", h.ResubmitOrganization)
	r.POST("/projects/:id/resubmit", h.ResubmitProject)
}

func parseTarget(c *gin.Context) (adminID, targetID uuid.UUID, ok bool) {
	adminID, found := middleware.AccountID(c)
	if !found {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid account ID"))
		return uuid.Nil, uuid.Nil, false
	}
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid target ID"))
		return uuid.Nil, uuid.Nil, false
	}
	return adminID, targetID, true
}

func (h *Handler) ApproveOrganization(c *gin.Context) {
	adminID, orgID, ok := parseTarget(c)
	if !ok {
		return
	}

	if err := h.service.ApproveOrganization(c.Request.Context(), adminID, orgID); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

type rejectRequest struct {
	Reason      string `json:"reason" binding:"required"`
	CanResubmit bool   `json:"can_resubmit"`
}

func (h *Handler) RejectOrganization(c *gin.Context) {
	adminID, orgID, ok := parseTarget(c)
	if !ok {
		return
	}

	var req rejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.service.RejectOrganization(c.Request.Context(), adminID, orgID, req.Reason, req.CanResubmit); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

type blockRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func (h *Handler) BlockOrganization(c *gin.Context) {
	adminID, orgID, ok := parseTarget(c)
	if !ok {
		return
	}

	var req blockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.service.BlockOrganization(c.Request.Context(), adminID, orgID, req.Reason); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) UnblockOrganization(c *gin.Context) {
	adminID, orgID, ok := parseTarget(c)
	if !ok {
		return
	}

	if err := h.service.UnblockOrganization(c.Request.Context(), adminID, orgID); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) ResubmitOrganization(c *gin.Context) {
	orgID, found := middleware.AccountID(c)
	if !found {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid account ID"))
		return
	}

	if err := h.service.ResubmitOrganization(c.Request.Context(), orgID); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) ApproveProject(c *gin.Context) {
	adminID, projectID, ok := parseTarget(c)
	if !ok {
		return
	}

	if err := h.service.ApproveProject(c.Request.Context(), adminID, projectID); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) RejectProject(c *gin.Context) {
	adminID, projectID, ok := parseTarget(c)
	if !ok {
		return
	}

	var req rejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.service.RejectProject(c.Request.Context(), adminID, projectID, req.Reason, req.CanResubmit); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) BlockProject(c *gin.Context) {
	adminID, projectID, ok := parseTarget(c)
	if !ok {
		return
	}

	var req blockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.service.BlockProject(c.Request.Context(), adminID, projectID, req.Reason); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) ResubmitProject(c *gin.Context) {
	orgID, found := middleware.AccountID(c)
	if !found {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid account ID"))
		return
	}
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid project ID"))
		return
	}

	var req model.ResubmitProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.service.ResubmitProject(c.Request.Context(), orgID, projectID, &req); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) PromoteToAdmin(c *gin.Context) {
	actorID, targetID, ok := parseTarget(c)
	if !ok {
		return
	}

	if err := h.service.PromoteToAdmin(c.Request.Context(), actorID, targetID); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) DemoteAdmin(c *gin.Context) {
	actorID, targetID, ok := parseTarget(c)
	if !ok {
		return
	}

	if err := h.service.DemoteAdmin(c.Request.Context(), actorID, targetID); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}
