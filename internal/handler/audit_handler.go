package handler

import (
	"net/http"

	"urlaubsplanner/internal/middleware"
	"urlaubsplanner/internal/model"
	"urlaubsplanner/internal/service"
	"urlaubsplanner/pkg/pagination"
	"urlaubsplanner/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/audit")
	group.Use(middleware.RequireRole(model.RoleSuperManager))
	{
		group.GET("/logs", h.List)
		group.GET("/logs/performer/:username", h.ListByPerformer)
		group.GET("/logs/target/:username", h.ListByTarget)
		group.GET("/logs/action/:action", h.ListByAction)
		group.GET("/logs/range", h.ListByTimeRange)
		group.GET("/export/csv", h.ExportCSV)
	}
}

// List returns the audit trail, newest first
// @Summary      List audit logs
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  response.Response{data=[]service.AuditLogResponse}
// @Router       /api/audit/logs [get]
func (h *AuditHandler) List(c *gin.Context) {
	params := pagination.Parse(c)
	logs, total, err := h.auditService.List(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"logs":  logs,
		"total": total,
		"page":  params.Page,
		"limit": params.Limit,
	}))
}

// ListByPerformer filters the trail by acting user
// @Summary      List audit logs by performer
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string  true  "Performer username"
// @Success      200       {object}  response.Response{data=[]service.AuditLogResponse}
// @Router       /api/audit/logs/performer/{username} [get]
func (h *AuditHandler) ListByPerformer(c *gin.Context) {
	logs, err := h.auditService.ListByPerformer(c.Request.Context(), c.Param("username"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, logs))
}

// ListByTarget filters the trail by affected user
// @Summary      List audit logs by target
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string  true  "Target username"
// @Success      200       {object}  response.Response{data=[]service.AuditLogResponse}
// @Router       /api/audit/logs/target/{username} [get]
func (h *AuditHandler) ListByTarget(c *gin.Context) {
	logs, err := h.auditService.ListByTarget(c.Request.Context(), c.Param("username"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, logs))
}

// ListByAction filters the trail by action type
// @Summary      List audit logs by action
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        action  path      string  true  "Action name"
// @Success      200     {object}  response.Response{data=[]service.AuditLogResponse}
// @Router       /api/audit/logs/action/{action} [get]
func (h *AuditHandler) ListByAction(c *gin.Context) {
	logs, err := h.auditService.ListByAction(c.Request.Context(), c.Param("action"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, logs))
}

// ListByTimeRange filters the trail by timestamp window
// @Summary      List audit logs by time range
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        start  query     string  true  "Window start (RFC3339)"
// @Param        end    query     string  true  "Window end (RFC3339)"
// @Success      200    {object}  response.Response{data=[]service.AuditLogResponse}
// @Failure      400    {object}  response.Response
// @Router       /api/audit/logs/range [get]
func (h *AuditHandler) ListByTimeRange(c *gin.Context) {
	logs, err := h.auditService.ListByTimeRange(c.Request.Context(), c.Query("start"), c.Query("end"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, logs))
}

// ExportCSV streams the full audit trail as CSV
// @Summary      Export audit logs as CSV
// @Tags         audit
// @Produce      text/csv
// @Security     BearerAuth
// @Success      200  {string}  string  "CSV content"
// @Router       /api/audit/export/csv [get]
func (h *AuditHandler) ExportCSV(c *gin.Context) {
	csv, err := h.auditService.ExportCSV(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=audit_logs.csv")
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(csv))
}
