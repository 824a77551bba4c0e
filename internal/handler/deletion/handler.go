package deletion

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/devtogether/platform-api/internal/handler"
	"github.com/devtogether/platform-api/internal/middleware"
	"github.com/devtogether/platform-api/internal/model"
	"github.com/devtogether/platform-api/internal/repository"
	deletionService "github.com/devtogether/platform-api/internal/service/deletion"
	"github.com/devtogether/platform-api/pkg/validator"
)

type Handler struct {
	analyzer  *deletionService.Analyzer
	executor  *deletionService.Executor
	auditRepo repository.AuditRepository
}

func NewHandler(analyzer *deletionService.Analyzer, executor *deletionService.Executor, auditRepo repository.AuditRepository) *Handler {
	return &Handler{
		analyzer:  analyzer,
		executor:  executor,
		auditRepo: auditRepo,
	}
}

func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	deletions := r.Group("/deletions")
	{
		deletions.POST("/analyze", h.Analyze)
		deletions.POST("", h.Execute)
		deletions.GET("/audit", h.ListAudit)
	}
}

type analyzeRequest struct {
	TargetType model.DeletionTarget `json:"target_type" binding:"required" validate:"required,oneof=organization project developer"`
	TargetID   string               `json:"target_id" binding:"required" validate:"required,uuid"`
}

// Analyze is read-only: closing the modal mid-analysis leaves nothing behind.
func (h *Handler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	if err := validator.ValidateStruct(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	targetID, err := uuid.Parse(req.TargetID)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid target ID"))
		return
	}

	analysis, err := h.analyzer.Analyze(c.Request.Context(), req.TargetType, targetID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(analysis))
}

type executeRequest struct {
	TargetType model.DeletionTarget `json:"target_type" binding:"required" validate:"required,oneof=organization project developer"`
	TargetID   string               `json:"target_id" binding:"required" validate:"required,uuid"`
	// Reason is mandatory here and re-validated in the executor; it is
	// persisted to the audit record for compliance.
	Reason string `json:"reason" binding:"required" validate:"required"`
}

func (h *Handler) Execute(c *gin.Context) {
	adminID, found := middleware.AccountID(c)
	if !found {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid account ID"))
		return
	}

	var req executeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	if err := validator.ValidateStruct(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	targetID, err := uuid.Parse(req.TargetID)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid target ID"))
		return
	}

	result, err := h.executor.Execute(c.Request.Context(), adminID, req.TargetType, targetID, req.Reason)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	// A failed cascade still returns 200 with a structured result: the admin
	// decides whether to retry or escalate.
	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}

func (h *Handler) ListAudit(c *gin.Context) {
	filters := map[string]interface{}{}
	if v := c.Query("deletion_type"); v != "" {
		filters["deletion_type"] = v
	}
	if v := c.Query("target_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid target ID"))
			return
		}
		filters["target_id"] = id
	}

	var page model.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid pagination"))
		return
	}

	records, err := h.auditRepo.List(c.Request.Context(), filters, &page)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(records))
}
