package handler

import (
	"net/http"

	"caterops/internal/middleware"
	"caterops/internal/service"
	"caterops/pkg/pagination"
	"caterops/pkg/response"

	"github.com/gin-gonic/gin"
)

type MachineryHandler struct {
	machineryService service.MachineryService
}

func NewMachineryHandler(machineryService service.MachineryService) *MachineryHandler {
	return &MachineryHandler{machineryService: machineryService}
}

func (h *MachineryHandler) RegisterRoutes(router *gin.RouterGroup) {
	machinery := router.Group("/api/machinery")
	{
		machinery.GET("", middleware.RequirePermission("machinery.read"), h.ListMachinery)
		machinery.GET("/:id", middleware.RequirePermission("machinery.read"), h.GetMachinery)
		machinery.POST("", middleware.RequirePermission("machinery.write"), h.CreateMachinery)
		machinery.PUT("/:id", middleware.RequirePermission("machinery.write"), h.UpdateMachinery)
		machinery.DELETE("/:id", middleware.RequirePermission("machinery.write"), h.DeleteMachinery)
	}
}

// ListMachinery returns paginated machinery with optional search
// @Summary      List machinery
// @Tags         machinery
// @Security     BearerAuth
// @Produce      json
// @Param        page    query  int     false  "Page number (default: 1)"
// @Param        limit   query  int     false  "Items per page (default: 20)"
// @Param        search  query  string  false  "Search by name or code"
// @Success      200  {object}  response.Response
// @Router       /api/machinery [get]
func (h *MachineryHandler) ListMachinery(c *gin.Context) {
	params := pagination.Parse(c)
	search := c.Query("search")

	machines, total, err := h.machineryService.GetMachineries(c.Request.Context(), search, params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, machines, params.Page, params.Limit, total))
}

// GetMachinery returns one machine
// @Summary      Get machinery
// @Tags         machinery
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Machinery ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/machinery/{id} [get]
func (h *MachineryHandler) GetMachinery(c *gin.Context) {
	machinery, err := h.machineryService.GetMachinery(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, machinery))
}

// CreateMachinery registers a machine with hourly and daily rates
// @Summary      Create machinery
// @Tags         machinery
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateMachineryRequest  true  "Machinery payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/machinery [post]
func (h *MachineryHandler) CreateMachinery(c *gin.Context) {
	var req service.CreateMachineryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	machinery, err := h.machineryService.CreateMachinery(c.Request.Context(), req, currentUserID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, machinery))
}

// UpdateMachinery updates a machine's rates or operator config
// @Summary      Update machinery
// @Tags         machinery
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                          true  "Machinery ID"
// @Param        payload  body  service.UpdateMachineryRequest  true  "Update payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/machinery/{id} [put]
func (h *MachineryHandler) UpdateMachinery(c *gin.Context) {
	id := c.Param("id")

	var req service.UpdateMachineryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	machinery, err := h.machineryService.UpdateMachinery(c.Request.Context(), id, req, currentUserID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, machinery))
}

// DeleteMachinery deletes a machine (soft delete)
// @Summary      Delete machinery
// @Tags         machinery
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Machinery ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/machinery/{id} [delete]
func (h *MachineryHandler) DeleteMachinery(c *gin.Context) {
	if err := h.machineryService.DeleteMachinery(c.Request.Context(), c.Param("id"), currentUserID(c)); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Machinery deleted successfully"}))
}
