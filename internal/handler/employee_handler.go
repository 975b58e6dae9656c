package handler

import (
	"net/http"

	"caterops/internal/middleware"
	"caterops/internal/service"
	"caterops/pkg/pagination"
	"caterops/pkg/response"

	"github.com/gin-gonic/gin"
)

type EmployeeHandler struct {
	employeeService service.EmployeeService
}

func NewEmployeeHandler(employeeService service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

func (h *EmployeeHandler) RegisterRoutes(router *gin.RouterGroup) {
	employees := router.Group("/api/employees")
	{
		employees.GET("", middleware.RequirePermission("employees.read"), h.ListEmployees)
		employees.GET("/:id", middleware.RequirePermission("employees.read"), h.GetEmployee)
		employees.POST("", middleware.RequirePermission("employees.write"), h.CreateEmployee)
		employees.PUT("/:id", middleware.RequirePermission("employees.write"), h.UpdateEmployee)
		employees.DELETE("/:id", middleware.RequirePermission("employees.write"), h.DeleteEmployee)
	}

	types := router.Group("/api/employee-types")
	{
		types.GET("", middleware.RequirePermission("employees.read"), h.ListEmployeeTypes)
		types.POST("", middleware.RequirePermission("employees.write"), h.CreateEmployeeType)
		types.PUT("/:id", middleware.RequirePermission("employees.write"), h.UpdateEmployeeType)
		types.DELETE("/:id", middleware.RequirePermission("employees.write"), h.DeleteEmployeeType)
	}
}

// ListEmployees returns paginated employees with optional search
// @Summary      List employees
// @Tags         employees
// @Security     BearerAuth
// @Produce      json
// @Param        page    query  int     false  "Page number (default: 1)"
// @Param        limit   query  int     false  "Items per page (default: 20)"
// @Param        search  query  string  false  "Search by name or document ID"
// @Success      200  {object}  response.Response
// @Router       /api/employees [get]
func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	params := pagination.Parse(c)
	search := c.Query("search")

	employees, total, err := h.employeeService.GetEmployees(c.Request.Context(), search, params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, employees, params.Page, params.Limit, total))
}

// GetEmployee returns one employee with its type and schedule
// @Summary      Get employee
// @Tags         employees
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Employee ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/employees/{id} [get]
func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	employee, err := h.employeeService.GetEmployee(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, employee))
}

// CreateEmployee creates a new employee
// @Summary      Create employee
// @Tags         employees
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateEmployeeRequest  true  "Employee payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/employees [post]
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var req service.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	employee, err := h.employeeService.CreateEmployee(c.Request.Context(), req, currentUserID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, employee))
}

// UpdateEmployee updates an existing employee
// @Summary      Update employee
// @Tags         employees
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                         true  "Employee ID"
// @Param        payload  body  service.UpdateEmployeeRequest  true  "Update payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/employees/{id} [put]
func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	id := c.Param("id")

	var req service.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	employee, err := h.employeeService.UpdateEmployee(c.Request.Context(), id, req, currentUserID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, employee))
}

// DeleteEmployee deletes an employee (soft delete)
// @Summary      Delete employee
// @Tags         employees
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Employee ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/employees/{id} [delete]
func (h *EmployeeHandler) DeleteEmployee(c *gin.Context) {
	if err := h.employeeService.DeleteEmployee(c.Request.Context(), c.Param("id"), currentUserID(c)); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Employee deleted successfully"}))
}

// ListEmployeeTypes returns all employee types with their pricing config
// @Summary      List employee types
// @Tags         employee-types
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/employee-types [get]
func (h *EmployeeHandler) ListEmployeeTypes(c *gin.Context) {
	types, err := h.employeeService.GetEmployeeTypes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, types))
}

// CreateEmployeeType creates an employee type with flat or tiered pricing
// @Summary      Create employee type
// @Tags         employee-types
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.EmployeeTypeRequest  true  "Type payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/employee-types [post]
func (h *EmployeeHandler) CreateEmployeeType(c *gin.Context) {
	var req service.EmployeeTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	employeeType, err := h.employeeService.CreateEmployeeType(c.Request.Context(), req, currentUserID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, employeeType))
}

// UpdateEmployeeType updates an employee type's pricing config
// @Summary      Update employee type
// @Tags         employee-types
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                       true  "Type ID"
// @Param        payload  body  service.EmployeeTypeRequest  true  "Type payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/employee-types/{id} [put]
func (h *EmployeeHandler) UpdateEmployeeType(c *gin.Context) {
	id := c.Param("id")

	var req service.EmployeeTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	employeeType, err := h.employeeService.UpdateEmployeeType(c.Request.Context(), id, req, currentUserID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, employeeType))
}

// DeleteEmployeeType deletes an employee type
// @Summary      Delete employee type
// @Tags         employee-types
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Type ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/employee-types/{id} [delete]
func (h *EmployeeHandler) DeleteEmployeeType(c *gin.Context) {
	if err := h.employeeService.DeleteEmployeeType(c.Request.Context(), c.Param("id"), currentUserID(c)); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Employee type deleted successfully"}))
}
