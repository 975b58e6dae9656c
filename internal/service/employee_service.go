package service

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"caterops/internal/model"
	"caterops/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- Employee type DTOs ---

type EmployeeTypeRequest struct {
	Name            string           `json:"name" binding:"required"`
	PricingMode     string           `json:"pricing_mode" binding:"required"`
	FlatRate        *decimal.Decimal `json:"flat_rate"`
	PriceScheduleID *string          `json:"price_schedule_id"`
}

type EmployeeTypeResponse struct {
	ID            uuid.UUID         `json:"id"`
	Name          string            `json:"name"`
	PricingMode   string            `json:"pricing_mode"`
	FlatRate      *decimal.Decimal  `json:"flat_rate"`
	PriceSchedule *ScheduleResponse `json:"price_schedule,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// --- Employee DTOs ---

type CreateEmployeeRequest struct {
	FullName       string `json:"full_name" binding:"required"`
	DocumentID     string `json:"document_id" binding:"required"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	EmployeeTypeID string `json:"employee_type_id" binding:"required"`
}

type UpdateEmployeeRequest struct {
	FullName       *string `json:"full_name"`
	DocumentID     *string `json:"document_id"`
	Phone          *string `json:"phone"`
	Email          *string `json:"email"`
	EmployeeTypeID *string `json:"employee_type_id"`
	IsActive       *bool   `json:"is_active"`
}

type EmployeeResponse struct {
	ID           uuid.UUID             `json:"id"`
	FullName     string                `json:"full_name"`
	DocumentID   string                `json:"document_id"`
	Phone        string                `json:"phone"`
	Email        string                `json:"email"`
	EmployeeType *EmployeeTypeResponse `json:"employee_type,omitempty"`
	IsActive     bool                  `json:"is_active"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// --- Interface ---

type EmployeeService interface {
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest, userID string) (EmployeeResponse, error)
	UpdateEmployee(ctx context.Context, id string, req UpdateEmployeeRequest, userID string) (EmployeeResponse, error)
	DeleteEmployee(ctx context.Context, id string, userID string) error
	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)
	GetEmployees(ctx context.Context, search string, page, limit int) ([]EmployeeResponse, int64, error)

	CreateEmployeeType(ctx context.Context, req EmployeeTypeRequest, userID string) (EmployeeTypeResponse, error)
	UpdateEmployeeType(ctx context.Context, id string, req EmployeeTypeRequest, userID string) (EmployeeTypeResponse, error)
	DeleteEmployeeType(ctx context.Context, id string, userID string) error
	GetEmployeeTypes(ctx context.Context) ([]EmployeeTypeResponse, error)
}

type employeeService struct {
	employeeRepo repository.EmployeeRepository
	scheduleRepo repository.ScheduleRepository
	auditRepo    repository.AuditRepository
}

func NewEmployeeService(employeeRepo repository.EmployeeRepository, scheduleRepo repository.ScheduleRepository, auditRepo repository.AuditRepository) EmployeeService {
	return &employeeService{employeeRepo: employeeRepo, scheduleRepo: scheduleRepo, auditRepo: auditRepo}
}

// resolvePricingFields enforces the flat-vs-tiered invariant shared by
// employee types and products: FLAT requires a positive flat rate, TIERED
// requires an existing schedule reference.
func (s *employeeService) resolvePricingFields(ctx context.Context, mode string, flatRate *decimal.Decimal, scheduleID *string) (*decimal.Decimal, *uuid.UUID, error) {
	switch mode {
	case model.PricingModeFlat:
		if flatRate == nil || flatRate.Sign() < 0 {
			return nil, nil, fmt.Errorf("FLAT pricing requires a non-negative flat_rate")
		}
		return flatRate, nil, nil
	case model.PricingModeTiered:
		if scheduleID == nil {
			return nil, nil, fmt.Errorf("TIERED pricing requires a price_schedule_id")
		}
		sid, err := uuid.Parse(*scheduleID)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid price_schedule_id")
		}
		if _, err := s.scheduleRepo.FindByID(ctx, sid); err != nil {
			return nil, nil, fmt.Errorf("price schedule not found: %w", err)
		}
		return nil, &sid, nil
	default:
		return nil, nil, fmt.Errorf("pricing_mode must be one of: FLAT, TIERED")
	}
}

// --- Employee types ---

func (s *employeeService) CreateEmployeeType(ctx context.Context, req EmployeeTypeRequest, userID string) (EmployeeTypeResponse, error) {
	flatRate, scheduleID, err := s.resolvePricingFields(ctx, req.PricingMode, req.FlatRate, req.PriceScheduleID)
	if err != nil {
		return EmployeeTypeResponse{}, err
	}

	employeeType := &model.EmployeeType{
		Name:            req.Name,
		PricingMode:     req.PricingMode,
		FlatRate:        flatRate,
		PriceScheduleID: scheduleID,
	}
	if err := s.employeeRepo.CreateType(ctx, employeeType); err != nil {
		return EmployeeTypeResponse{}, fmt.Errorf("failed to create employee type: %w", err)
	}

	writeAudit(ctx, s.auditRepo, userID, model.ActionCreateEmployee, employeeType.ID.String(), employeeType.Name, req)

	return toEmployeeTypeResponse(*employeeType), nil
}

func (s *employeeService) UpdateEmployeeType(ctx context.Context, id string, req EmployeeTypeRequest, userID string) (EmployeeTypeResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return EmployeeTypeResponse{}, fmt.Errorf("invalid employee type ID")
	}

	employeeType, err := s.employeeRepo.FindTypeByID(ctx, uid)
	if err != nil {
		return EmployeeTypeResponse{}, fmt.Errorf("employee type not found: %w", err)
	}

	flatRate, scheduleID, err := s.resolvePricingFields(ctx, req.PricingMode, req.FlatRate, req.PriceScheduleID)
	if err != nil {
		return EmployeeTypeResponse{}, err
	}

	employeeType.Name = req.Name
	employeeType.PricingMode = req.PricingMode
	employeeType.FlatRate = flatRate
	employeeType.PriceScheduleID = scheduleID
	employeeType.PriceSchedule = nil

	if err := s.employeeRepo.UpdateType(ctx, employeeType); err != nil {
		return EmployeeTypeResponse{}, fmt.Errorf("failed to update employee type: %w", err)
	}

	writeAudit(ctx, s.auditRepo, userID, model.ActionUpdateEmployee, employeeType.ID.String(), employeeType.Name, req)

	return toEmployeeTypeResponse(*employeeType), nil
}

func (s *employeeService) DeleteEmployeeType(ctx context.Context, id string, userID string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid employee type ID")
	}
	if err := s.employeeRepo.DeleteType(ctx, uid); err != nil {
		return err
	}
	writeAudit(ctx, s.auditRepo, userID, model.ActionDeleteEmployee, id, "", map[string]string{"deleted_type_id": id})
	return nil
}

func (s *employeeService) GetEmployeeTypes(ctx context.Context) ([]EmployeeTypeResponse, error) {
	types, err := s.employeeRepo.ListTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch employee types: %w", err)
	}
	res := make([]EmployeeTypeResponse, 0, len(types))
	for _, t := range types {
		res = append(res, toEmployeeTypeResponse(t))
	}
	return res, nil
}

// --- Employees ---

func (s *employeeService) CreateEmployee(ctx context.Context, req CreateEmployeeRequest, userID string) (EmployeeResponse, error) {
	typeID, err := uuid.Parse(req.EmployeeTypeID)
	if err != nil {
		return EmployeeResponse{}, fmt.Errorf("invalid employee_type_id")
	}
	if _, err := s.employeeRepo.FindTypeByID(ctx, typeID); err != nil {
		return EmployeeResponse{}, fmt.Errorf("employee type not found: %w", err)
	}
	if req.Email != "" {
		if _, err := mail.ParseAddress(req.Email); err != nil {
			return EmployeeResponse{}, fmt.Errorf("invalid email format")
		}
	}

	employee := &model.Employee{
		FullName:       req.FullName,
		DocumentID:     req.DocumentID,
		Phone:          req.Phone,
		Email:          req.Email,
		EmployeeTypeID: typeID,
		IsActive:       true,
	}
	if err := s.employeeRepo.Create(ctx, employee); err != nil {
		return EmployeeResponse{}, fmt.Errorf("failed to create employee: %w", err)
	}

	writeAudit(ctx, s.auditRepo, userID, model.ActionCreateEmployee, employee.ID.String(), employee.FullName, req)

	return toEmployeeResponse(*employee), nil
}

func (s *employeeService) UpdateEmployee(ctx context.Context, id string, req UpdateEmployeeRequest, userID string) (EmployeeResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return EmployeeResponse{}, fmt.Errorf("invalid employee ID")
	}

	employee, err := s.employeeRepo.FindByID(ctx, uid)
	if err != nil {
		return EmployeeResponse{}, fmt.Errorf("employee not found: %w", err)
	}

	if req.FullName != nil {
		if *req.FullName == "" {
			return EmployeeResponse{}, fmt.Errorf("full_name cannot be empty")
		}
		employee.FullName = *req.FullName
	}
	if req.DocumentID != nil {
		employee.DocumentID = *req.DocumentID
	}
	if req.Phone != nil {
		employee.Phone = *req.Phone
	}
	if req.Email != nil {
		if *req.Email != "" {
			if _, err := mail.ParseAddress(*req.Email); err != nil {
				return EmployeeResponse{}, fmt.Errorf("invalid email format")
			}
		}
		employee.Email = *req.Email
	}
	if req.EmployeeTypeID != nil {
		typeID, err := uuid.Parse(*req.EmployeeTypeID)
		if err != nil {
			return EmployeeResponse{}, fmt.Errorf("invalid employee_type_id")
		}
		if _, err := s.employeeRepo.FindTypeByID(ctx, typeID); err != nil {
			return EmployeeResponse{}, fmt.Errorf("employee type not found: %w", err)
		}
		employee.EmployeeTypeID = typeID
		employee.EmployeeType = nil
	}
	if req.IsActive != nil {
		employee.IsActive = *req.IsActive
	}

	if err := s.employeeRepo.Update(ctx, employee); err != nil {
		return EmployeeResponse{}, fmt.Errorf("failed to update employee: %w", err)
	}

	writeAudit(ctx, s.auditRepo, userID, model.ActionUpdateEmployee, employee.ID.String(), employee.FullName, req)

	return toEmployeeResponse(*employee), nil
}

func (s *employeeService) DeleteEmployee(ctx context.Context, id string, userID string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid employee ID")
	}
	if err := s.employeeRepo.Delete(ctx, uid); err != nil {
		return err
	}
	writeAudit(ctx, s.auditRepo, userID, model.ActionDeleteEmployee, id, "", map[string]string{"deleted_id": id})
	return nil
}

func (s *employeeService) GetEmployee(ctx context.Context, id string) (EmployeeResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return EmployeeResponse{}, fmt.Errorf("invalid employee ID")
	}
	employee, err := s.employeeRepo.FindByID(ctx, uid)
	if err != nil {
		return EmployeeResponse{}, fmt.Errorf("employee not found: %w", err)
	}
	return toEmployeeResponse(*employee), nil
}

func (s *employeeService) GetEmployees(ctx context.Context, search string, page, limit int) ([]EmployeeResponse, int64, error) {
	employees, total, err := s.employeeRepo.List(ctx, search, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch employees: %w", err)
	}
	res := make([]EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		res = append(res, toEmployeeResponse(e))
	}
	return res, total, nil
}

// --- Mappers ---

func toEmployeeTypeResponse(t model.EmployeeType) EmployeeTypeResponse {
	res := EmployeeTypeResponse{
		ID:          t.ID,
		Name:        t.Name,
		PricingMode: t.PricingMode,
		FlatRate:    t.FlatRate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.PriceSchedule != nil {
		sc := toScheduleResponse(*t.PriceSchedule)
		res.PriceSchedule = &sc
	}
	return res
}

func toEmployeeResponse(e model.Employee) EmployeeResponse {
	res := EmployeeResponse{
		ID:         e.ID,
		FullName:   e.FullName,
		DocumentID: e.DocumentID,
		Phone:      e.Phone,
		Email:      e.Email,
		IsActive:   e.IsActive,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
	if e.EmployeeType != nil {
		t := toEmployeeTypeResponse(*e.EmployeeType)
		res.EmployeeType = &t
	}
	return res
}
