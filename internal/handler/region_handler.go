package handler

import (
	"net/http"

	"urlaubsplanner/internal/middleware"
	"urlaubsplanner/internal/model"
	"urlaubsplanner/internal/service"
	"urlaubsplanner/pkg/response"

	"github.com/gin-gonic/gin"
)

type RegionHandler struct {
	regionService service.RegionService
}

func NewRegionHandler(regionService service.RegionService) *RegionHandler {
	return &RegionHandler{regionService: regionService}
}

func (h *RegionHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/regions")
	{
		group.GET("", middleware.RequireRole(model.RoleEmployee, model.RoleManager, model.RoleSuperManager), h.List)
		group.GET("/:id", middleware.RequireRole(model.RoleManager, model.RoleSuperManager), h.Get)
		group.POST("", middleware.RequireRole(model.RoleSuperManager), h.Create)
	}
}

// List returns all regions
// @Summary      List regions
// @Tags         regions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.RegionResponse}
// @Router       /api/regions [get]
func (h *RegionHandler) List(c *gin.Context) {
	regions, err := h.regionService.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, regions))
}

// Get returns one region by id
// @Summary      Get region
// @Tags         regions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Region ID"
// @Success      200  {object}  response.Response{data=service.RegionResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/regions/{id} [get]
func (h *RegionHandler) Get(c *gin.Context) {
	region, err := h.regionService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, region))
}

// Create adds a new region
// @Summary      Create region
// @Tags         regions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateRegionDTO  true  "Region"
// @Success      201      {object}  response.Response{data=service.RegionResponse}
// @Failure      409      {object}  response.Response
// @Router       /api/regions [post]
func (h *RegionHandler) Create(c *gin.Context) {
	var dto service.CreateRegionDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	region, err := h.regionService.Create(c.Request.Context(), dto)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, region))
}
