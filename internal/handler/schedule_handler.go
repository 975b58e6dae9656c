package handler

import (
	"net/http"

	"caterops/internal/middleware"
	"caterops/internal/service"
	"caterops/pkg/pagination"
	"caterops/pkg/response"

	"github.com/gin-gonic/gin"
)

type ScheduleHandler struct {
	scheduleService service.ScheduleService
}

func NewScheduleHandler(scheduleService service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

func (h *ScheduleHandler) RegisterRoutes(router *gin.RouterGroup) {
	schedules := router.Group("/api/price-schedules")
	{
		schedules.GET("", middleware.RequirePermission("schedules.read"), h.ListSchedules)
		schedules.GET("/:id", middleware.RequirePermission("schedules.read"), h.GetSchedule)
		schedules.POST("", middleware.RequirePermission("schedules.write"), h.CreateSchedule)
		schedules.PUT("/:id", middleware.RequirePermission("schedules.write"), h.UpdateSchedule)
		schedules.DELETE("/:id", middleware.RequirePermission("schedules.write"), h.DeleteSchedule)
	}
}

// ListSchedules returns paginated price schedules with their tiers
// @Summary      List price schedules
// @Tags         price-schedules
// @Security     BearerAuth
// @Produce      json
// @Param        page   query  int  false  "Page number (default: 1)"
// @Param        limit  query  int  false  "Items per page (default: 20)"
// @Success      200  {object}  response.Response
// @Router       /api/price-schedules [get]
func (h *ScheduleHandler) ListSchedules(c *gin.Context) {
	params := pagination.Parse(c)

	schedules, total, err := h.scheduleService.GetSchedules(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, schedules, params.Page, params.Limit, total))
}

// GetSchedule returns one price schedule with ordered tiers
// @Summary      Get price schedule
// @Tags         price-schedules
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Schedule ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/price-schedules/{id} [get]
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	schedule, err := h.scheduleService.GetSchedule(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, schedule))
}

// CreateSchedule creates a price schedule; the tier set must be contiguous
// @Summary      Create price schedule
// @Tags         price-schedules
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateScheduleRequest  true  "Schedule payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/price-schedules [post]
func (h *ScheduleHandler) CreateSchedule(c *gin.Context) {
	var req service.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	schedule, err := h.scheduleService.CreateSchedule(c.Request.Context(), req, currentUserID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, schedule))
}

// UpdateSchedule updates a price schedule and optionally replaces its tiers
// @Summary      Update price schedule
// @Tags         price-schedules
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                         true  "Schedule ID"
// @Param        payload  body  service.UpdateScheduleRequest  true  "Update payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/price-schedules/{id} [put]
func (h *ScheduleHandler) UpdateSchedule(c *gin.Context) {
	id := c.Param("id")

	var req service.UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	schedule, err := h.scheduleService.UpdateSchedule(c.Request.Context(), id, req, currentUserID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, schedule))
}

// DeleteSchedule deletes a schedule unless employee types or products reference it
// @Summary      Delete price schedule
// @Tags         price-schedules
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Schedule ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/price-schedules/{id} [delete]
func (h *ScheduleHandler) DeleteSchedule(c *gin.Context) {
	if err := h.scheduleService.DeleteSchedule(c.Request.Context(), c.Param("id"), currentUserID(c)); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Price schedule deleted successfully"}))
}
