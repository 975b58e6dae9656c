package service

import (
	"context"
	"fmt"
	"time"

	"caterops/internal/model"
	"caterops/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreateMachineryRequest struct {
	Code               string           `json:"code" binding:"required"`
	Name               string           `json:"name" binding:"required"`
	HourlyRate         decimal.Decimal  `json:"hourly_rate" binding:"required"`
	DailyRate          decimal.Decimal  `json:"daily_rate" binding:"required"`
	RequiresOperator   bool             `json:"requires_operator"`
	OperatorHourlyRate *decimal.Decimal `json:"operator_hourly_rate"`
}

type UpdateMachineryRequest struct {
	Code               *string          `json:"code"`
	Name               *string          `json:"name"`
	HourlyRate         *decimal.Decimal `json:"hourly_rate"`
	DailyRate          *decimal.Decimal `json:"daily_rate"`
	RequiresOperator   *bool            `json:"requires_operator"`
	OperatorHourlyRate *decimal.Decimal `json:"operator_hourly_rate"`
	IsActive           *bool            `json:"is_active"`
}

type MachineryResponse struct {
	ID                 uuid.UUID        `json:"id"`
	Code               string           `json:"code"`
	Name               string           `json:"name"`
	HourlyRate         decimal.Decimal  `json:"hourly_rate"`
	DailyRate          decimal.Decimal  `json:"daily_rate"`
	RequiresOperator   bool             `json:"requires_operator"`
	OperatorHourlyRate *decimal.Decimal `json:"operator_hourly_rate"`
	IsActive           bool             `json:"is_active"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// --- Interface ---

type MachineryService interface {
	CreateMachinery(ctx context.Context, req CreateMachineryRequest, userID string) (MachineryResponse, error)
	UpdateMachinery(ctx context.Context, id string, req UpdateMachineryRequest, userID string) (MachineryResponse, error)
	DeleteMachinery(ctx context.Context, id string, userID string) error
	GetMachinery(ctx context.Context, id string) (MachineryResponse, error)
	GetMachineries(ctx context.Context, search string, page, limit int) ([]MachineryResponse, int64, error)
}

type machineryService struct {
	machineryRepo repository.MachineryRepository
	auditRepo     repository.AuditRepository
}

func NewMachineryService(machineryRepo repository.MachineryRepository, auditRepo repository.AuditRepository) MachineryService {
	return &machineryService{machineryRepo: machineryRepo, auditRepo: auditRepo}
}

func validateMachineryRates(hourly, daily decimal.Decimal, requiresOperator bool, operatorRate *decimal.Decimal) error {
	if hourly.Sign() <= 0 {
		return fmt.Errorf("hourly_rate must be positive")
	}
	if daily.Sign() <= 0 {
		return fmt.Errorf("daily_rate must be positive")
	}
	if requiresOperator {
		if operatorRate == nil || operatorRate.Sign() <= 0 {
			return fmt.Errorf("operator_hourly_rate is required when requires_operator is set")
		}
	}
	return nil
}

func (s *machineryService) CreateMachinery(ctx context.Context, req CreateMachineryRequest, userID string) (MachineryResponse, error) {
	if err := validateMachineryRates(req.HourlyRate, req.DailyRate, req.RequiresOperator, req.OperatorHourlyRate); err != nil {
		return MachineryResponse{}, err
	}

	machinery := &model.Machinery{
		Code:               req.Code,
		Name:               req.Name,
		HourlyRate:         req.HourlyRate,
		DailyRate:          req.DailyRate,
		RequiresOperator:   req.RequiresOperator,
		OperatorHourlyRate: req.OperatorHourlyRate,
		IsActive:           true,
	}
	if err := s.machineryRepo.Create(ctx, machinery); err != nil {
		return MachineryResponse{}, fmt.Errorf("failed to create machinery: %w", err)
	}

	writeAudit(ctx, s.auditRepo, userID, model.ActionCreateMachinery, machinery.ID.String(), machinery.Name, req)

	return toMachineryResponse(*machinery), nil
}

func (s *machineryService) UpdateMachinery(ctx context.Context, id string, req UpdateMachineryRequest, userID string) (MachineryResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return MachineryResponse{}, fmt.Errorf("invalid machinery ID")
	}

	machinery, err := s.machineryRepo.FindByID(ctx, uid)
	if err != nil {
		return MachineryResponse{}, fmt.Errorf("machinery not found: %w", err)
	}

	if req.Code != nil {
		machinery.Code = *req.Code
	}
	if req.Name != nil {
		if *req.Name == "" {
			return MachineryResponse{}, fmt.Errorf("name cannot be empty")
		}
		machinery.Name = *req.Name
	}
	if req.HourlyRate != nil {
		machinery.HourlyRate = *req.HourlyRate
	}
	if req.DailyRate != nil {
		machinery.DailyRate = *req.DailyRate
	}
	if req.RequiresOperator != nil {
		machinery.RequiresOperator = *req.RequiresOperator
	}
	if req.OperatorHourlyRate != nil {
		machinery.OperatorHourlyRate = req.OperatorHourlyRate
	}

	if err := validateMachineryRates(machinery.HourlyRate, machinery.DailyRate, machinery.RequiresOperator, machinery.OperatorHourlyRate); err != nil {
		return MachineryResponse{}, err
	}
	if req.IsActive != nil {
		machinery.IsActive = *req.IsActive
	}

	if err := s.machineryRepo.Update(ctx, machinery); err != nil {
		return MachineryResponse{}, fmt.Errorf("failed to update machinery: %w", err)
	}

	writeAudit(ctx, s.auditRepo, userID, model.ActionUpdateMachinery, machinery.ID.String(), machinery.Name, req)

	return toMachineryResponse(*machinery), nil
}

func (s *machineryService) DeleteMachinery(ctx context.Context, id string, userID string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid machinery ID")
	}
	if err := s.machineryRepo.Delete(ctx, uid); err != nil {
		return err
	}
	writeAudit(ctx, s.auditRepo, userID, model.ActionDeleteMachinery, id, "", map[string]string{"deleted_id": id})
	return nil
}

func (s *machineryService) GetMachinery(ctx context.Context, id string) (MachineryResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return MachineryResponse{}, fmt.Errorf("invalid machinery ID")
	}
	machinery, err := s.machineryRepo.FindByID(ctx, uid)
	if err != nil {
		return MachineryResponse{}, fmt.Errorf("machinery not found: %w", err)
	}
	return toMachineryResponse(*machinery), nil
}

func (s *machineryService) GetMachineries(ctx context.Context, search string, page, limit int) ([]MachineryResponse, int64, error) {
	machines, total, err := s.machineryRepo.List(ctx, search, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch machinery: %w", err)
	}
	res := make([]MachineryResponse, 0, len(machines))
	for _, m := range machines {
		res = append(res, toMachineryResponse(m))
	}
	return res, total, nil
}

// --- Mappers ---

func toMachineryResponse(m model.Machinery) MachineryResponse {
	return MachineryResponse{
		ID:                 m.ID,
		Code:               m.Code,
		Name:               m.Name,
		HourlyRate:         m.HourlyRate,
		DailyRate:          m.DailyRate,
		RequiresOperator:   m.RequiresOperator,
		OperatorHourlyRate: m.OperatorHourlyRate,
		IsActive:           m.IsActive,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}
