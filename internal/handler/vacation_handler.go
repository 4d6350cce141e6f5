package handler

import (
	"context"
	"net/http"

	"urlaubsplanner/internal/middleware"
	"urlaubsplanner/internal/model"
	"urlaubsplanner/internal/service"
	"urlaubsplanner/pkg/response"

	"github.com/gin-gonic/gin"
)

type VacationHandler struct {
	vacationService service.VacationService
	managerService  service.ManagerService
}

func NewVacationHandler(vacationService service.VacationService, managerService service.ManagerService) *VacationHandler {
	return &VacationHandler{vacationService: vacationService, managerService: managerService}
}

func (h *VacationHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/vacations")
	{
		group.POST("", middleware.RequireRole(model.RoleEmployee, model.RoleManager, model.RoleSuperManager), h.Create)
		group.GET("", middleware.RequireRole(model.RoleManager, model.RoleSuperManager), h.ListForRegion)
		group.GET("/employee/:name", middleware.RequireRole(model.RoleEmployee, model.RoleManager, model.RoleSuperManager), h.ListByEmployee)
		group.PUT("/:id/approve", middleware.RequireRole(model.RoleManager, model.RoleSuperManager), h.Approve)
		group.PUT("/:id/reject", middleware.RequireRole(model.RoleManager, model.RoleSuperManager), h.Reject)
	}
}

// Create submits a new vacation request
// @Summary      Create vacation request
// @Description  Creates a PENDING vacation request after checking the remaining balance
// @Tags         vacations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateVacationRequestDTO  true  "Vacation Request"
// @Success      201      {object}  response.Response{data=service.VacationRequestResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/vacations [post]
func (h *VacationHandler) Create(c *gin.Context) {
	var dto service.CreateVacationRequestDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	// Employees can only file for themselves; the employee name in the
	// payload is overridden by the authenticated identity.
	if role, _ := c.Get(middleware.CtxUserRole); role == model.RoleEmployee {
		dto.EmployeeName = middleware.Username(c)
	}

	ctx := service.ContextWithClientIP(c.Request.Context(), c.ClientIP())
	request, err := h.vacationService.Create(ctx, dto)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, request))
}

// ListForRegion returns the requests visible to the calling manager
// @Summary      List vacation requests
// @Description  Regular managers see their region's requests, super managers see all
// @Tags         vacations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.VacationRequestResponse}
// @Router       /api/vacations [get]
func (h *VacationHandler) ListForRegion(c *gin.Context) {
	requests, err := h.managerService.RequestsForRegion(c.Request.Context(), middleware.Username(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, requests))
}

// ListByEmployee returns all requests for one employee
// @Summary      List requests by employee
// @Tags         vacations
// @Produce      json
// @Security     BearerAuth
// @Param        name  path      string  true  "Employee username"
// @Success      200   {object}  response.Response{data=[]service.VacationRequestResponse}
// @Router       /api/vacations/employee/{name} [get]
func (h *VacationHandler) ListByEmployee(c *gin.Context) {
	requests, err := h.vacationService.ListByEmployee(c.Request.Context(), c.Param("name"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, requests))
}

// Approve transitions a request from PENDING to APPROVED
// @Summary      Approve vacation request
// @Description  Approves a pending request and books the days against the employee's balance
// @Tags         vacations
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      string  true   "Request ID"
// @Param        reason  query     string  false  "Approval reason"
// @Success      200     {object}  response.Response{data=service.VacationRequestResponse}
// @Failure      400     {object}  response.Response
// @Failure      403     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Router       /api/vacations/{id}/approve [put]
func (h *VacationHandler) Approve(c *gin.Context) {
	h.transition(c, h.vacationService.Approve)
}

// Reject transitions a request from PENDING to REJECTED
// @Summary      Reject vacation request
// @Tags         vacations
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      string  true   "Request ID"
// @Param        reason  query     string  false  "Rejection reason"
// @Success      200     {object}  response.Response{data=service.VacationRequestResponse}
// @Failure      400     {object}  response.Response
// @Failure      403     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Router       /api/vacations/{id}/reject [put]
func (h *VacationHandler) Reject(c *gin.Context) {
	h.transition(c, h.vacationService.Reject)
}

func (h *VacationHandler) transition(c *gin.Context, op func(ctx context.Context, id, actor, reason string) (service.VacationRequestResponse, error)) {
	id := c.Param("id")
	username := middleware.Username(c)

	// Region scope is checked before the ledger is ever touched.
	allowed, err := h.managerService.HasAccessToRequest(c.Request.Context(), username, id)
	if err != nil {
		fail(c, err)
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden,
			"Sie haben keinen Zugriff auf diese Anfrage (außerhalb Ihrer Region)"))
		return
	}

	ctx := service.ContextWithClientIP(c.Request.Context(), c.ClientIP())
	request, err := op(ctx, id, username, c.Query("reason"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}
