package handler

import (
	"net/http"

	"leaveflow/internal/middleware"
	"leaveflow/internal/model"
	"leaveflow/internal/service"
	"leaveflow/pkg/pagination"
	"leaveflow/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
	authmw       *middleware.AuthMiddleware
}

func NewAuditHandler(auditService service.AuditService, authmw *middleware.AuthMiddleware) *AuditHandler {
	return &AuditHandler{auditService: auditService, authmw: authmw}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/audit")
	group.Use(h.authmw.Authenticate(), h.authmw.RequireRole(model.RoleAdmin))
	{
		group.GET("", h.GetAuditLogs)
	}
}

// GetAuditLogs handles GET /audit
// @Summary      Get audit logs
// @Description  Retrieves the paginated audit trail (admin only)
// @Tags         audit
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Items per page (default 20)"
// @Success      200    {object}  object
// @Failure      401    {object}  response.ErrorBody
// @Failure      403    {object}  response.ErrorBody
// @Router       /audit [get]
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	params := pagination.Parse(c)

	logs, total, err := h.auditService.GetAuditLogs(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":  logs,
		"total": total,
		"page":  params.Page,
		"limit": params.Limit,
	})
}
