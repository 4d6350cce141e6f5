package handler

import (
	"net/http"

	"urlaubsplanner/internal/middleware"
	"urlaubsplanner/internal/model"
	"urlaubsplanner/internal/service"
	"urlaubsplanner/pkg/response"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminService service.AdminService
}

func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

func (h *AdminHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/admin")
	group.Use(middleware.RequireRole(model.RoleSuperManager))
	{
		group.GET("/users", h.ListUsers)
		group.GET("/users/:id", h.GetUser)
		group.POST("/users", h.CreateUser)
		group.PUT("/users/:id", h.UpdateUser)
		group.PUT("/users/:id/deactivate", h.DeactivateUser)
		group.DELETE("/users/:id", h.DeleteUser)
		group.PUT("/users/:id/quota", h.UpdateVacationQuota)
		group.GET("/statistics", h.SystemStatistics)
		group.GET("/reports/vacation-usage", h.VacationUsageReport)
	}
}

// ListUsers returns all users in the system
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.UserResponse}
// @Router       /api/admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.adminService.ListUsers(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, users))
}

// GetUser returns a single user by id
// @Summary      Get user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  response.Response{data=service.UserResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/admin/users/{id} [get]
func (h *AdminHandler) GetUser(c *gin.Context) {
	user, err := h.adminService.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, user))
}

// CreateUser creates a new user account
// @Summary      Create user
// @Description  Creates a user with a hashed password and optional region assignment
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateUserDTO  true  "Create User Payload"
// @Success      201      {object}  response.Response{data=service.UserResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/admin/users [post]
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var dto service.CreateUserDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	ctx := service.ContextWithClientIP(c.Request.Context(), c.ClientIP())
	user, err := h.adminService.CreateUser(ctx, dto, middleware.Username(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, user))
}

// UpdateUser updates an existing user
// @Summary      Update user
// @Description  Updates profile, role, quota and region; password is rehashed only when provided
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                 true  "User ID"
// @Param        payload  body      service.UpdateUserDTO  true  "Update User Payload"
// @Success      200      {object}  response.Response{data=service.UserResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/admin/users/{id} [put]
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	var dto service.UpdateUserDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	ctx := service.ContextWithClientIP(c.Request.Context(), c.ClientIP())
	user, err := h.adminService.UpdateUser(ctx, c.Param("id"), dto, middleware.Username(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, user))
}

// DeactivateUser soft-disables a user account
// @Summary      Deactivate user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/admin/users/{id}/deactivate [put]
func (h *AdminHandler) DeactivateUser(c *gin.Context) {
	ctx := service.ContextWithClientIP(c.Request.Context(), c.ClientIP())
	if err := h.adminService.DeactivateUser(ctx, c.Param("id"), middleware.Username(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "User deactivated"))
}

// DeleteUser removes a user account
// @Summary      Delete user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	ctx := service.ContextWithClientIP(c.Request.Context(), c.ClientIP())
	if err := h.adminService.DeleteUser(ctx, c.Param("id"), middleware.Username(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "User deleted"))
}

type updateQuotaDTO struct {
	TotalVacationDays int `json:"total_vacation_days" binding:"min=0"`
}

// UpdateVacationQuota overwrites a user's annual quota
// @Summary      Update vacation quota
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string          true  "User ID"
// @Param        payload  body      updateQuotaDTO  true  "New quota"
// @Success      200      {object}  response.Response{data=service.UserResponse}
// @Router       /api/admin/users/{id}/quota [put]
func (h *AdminHandler) UpdateVacationQuota(c *gin.Context) {
	var dto updateQuotaDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	ctx := service.ContextWithClientIP(c.Request.Context(), c.ClientIP())
	user, err := h.adminService.UpdateVacationQuota(ctx, c.Param("id"), dto.TotalVacationDays, middleware.Username(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, user))
}

// SystemStatistics returns system-wide counters and averages
// @Summary      Get system statistics
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.SystemStatistics}
// @Router       /api/admin/statistics [get]
func (h *AdminHandler) SystemStatistics(c *gin.Context) {
	stats, err := h.adminService.SystemStatistics(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}

// VacationUsageReport returns per-employee usage percentages
// @Summary      Get vacation usage report
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=object}
// @Router       /api/admin/reports/vacation-usage [get]
func (h *AdminHandler) VacationUsageReport(c *gin.Context) {
	report, err := h.adminService.VacationUsageReport(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}
