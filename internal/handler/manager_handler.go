package handler

import (
	"net/http"

	"urlaubsplanner/internal/middleware"
	"urlaubsplanner/internal/model"
	"urlaubsplanner/internal/service"
	"urlaubsplanner/pkg/response"

	"github.com/gin-gonic/gin"
)

type ManagerHandler struct {
	managerService service.ManagerService
}

func NewManagerHandler(managerService service.ManagerService) *ManagerHandler {
	return &ManagerHandler{managerService: managerService}
}

func (h *ManagerHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/manager")
	group.Use(middleware.RequireRole(model.RoleManager, model.RoleSuperManager))
	{
		group.GET("/team", h.Team)
		group.GET("/team/statistics", h.TeamStatistics)
		group.GET("/team/calendar", h.TeamCalendar)
		group.GET("/team/overload", h.OverloadWarnings)
	}
}

// Team returns the members of the manager's region
// @Summary      Get team members
// @Tags         manager
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.UserResponse}
// @Router       /api/manager/team [get]
func (h *ManagerHandler) Team(c *gin.Context) {
	team, err := h.managerService.EmployeesInRegion(c.Request.Context(), middleware.Username(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, team))
}

// TeamStatistics returns per-employee day breakdowns for the team
// @Summary      Get team statistics
// @Description  Approved days per absence type plus quota/used/remaining per team member
// @Tags         manager
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.TeamStatisticsEntry}
// @Router       /api/manager/team/statistics [get]
func (h *ManagerHandler) TeamStatistics(c *gin.Context) {
	stats, err := h.managerService.TeamStatistics(c.Request.Context(), middleware.Username(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}

// TeamCalendar returns approved and pending absences in a date window
// @Summary      Get team calendar
// @Tags         manager
// @Produce      json
// @Security     BearerAuth
// @Param        start_date  query     string  false  "Window start (YYYY-MM-DD)"
// @Param        end_date    query     string  false  "Window end (YYYY-MM-DD)"
// @Success      200         {object}  response.Response{data=[]service.TeamCalendarEvent}
// @Router       /api/manager/team/calendar [get]
func (h *ManagerHandler) TeamCalendar(c *gin.Context) {
	events, err := h.managerService.TeamCalendar(c.Request.Context(), middleware.Username(c),
		c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, events))
}

// OverloadWarnings returns days where too much of the team is absent
// @Summary      Get team overload warnings
// @Description  Days where absent employees meet or exceed half the team size
// @Tags         manager
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=object}
// @Router       /api/manager/team/overload [get]
func (h *ManagerHandler) OverloadWarnings(c *gin.Context) {
	warnings, err := h.managerService.OverloadWarnings(c.Request.Context(), middleware.Username(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, warnings))
}
