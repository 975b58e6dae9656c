package service

import (
	"context"
	"fmt"
	"time"

	"caterops/internal/model"
	"caterops/internal/pricing"
	"caterops/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type TierPayload struct {
	MinHours    decimal.Decimal  `json:"min_hours"`
	MaxHours    *decimal.Decimal `json:"max_hours"` // null = open-ended last tier
	Rate        decimal.Decimal  `json:"rate"`
	Description string           `json:"description"`
}

type CreateScheduleRequest struct {
	Name        string        `json:"name" binding:"required"`
	Description string        `json:"description"`
	Tiers       []TierPayload `json:"tiers" binding:"required"`
}

type UpdateScheduleRequest struct {
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	Tiers       *[]TierPayload `json:"tiers"`
}

type TierResponse struct {
	ID          uuid.UUID        `json:"id"`
	Position    int              `json:"position"`
	MinHours    decimal.Decimal  `json:"min_hours"`
	MaxHours    *decimal.Decimal `json:"max_hours"`
	Rate        decimal.Decimal  `json:"rate"`
	Description string           `json:"description"`
}

type ScheduleResponse struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Tiers       []TierResponse `json:"tiers"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// --- Interface ---

type ScheduleService interface {
	CreateSchedule(ctx context.Context, req CreateScheduleRequest, userID string) (ScheduleResponse, error)
	UpdateSchedule(ctx context.Context, id string, req UpdateScheduleRequest, userID string) (ScheduleResponse, error)
	DeleteSchedule(ctx context.Context, id string, userID string) error
	GetSchedule(ctx context.Context, id string) (ScheduleResponse, error)
	GetSchedules(ctx context.Context, page, limit int) ([]ScheduleResponse, int64, error)
}

type scheduleService struct {
	scheduleRepo repository.ScheduleRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
}

func NewScheduleService(scheduleRepo repository.ScheduleRepository, auditRepo repository.AuditRepository, txManager repository.TransactionManager) ScheduleService {
	return &scheduleService{scheduleRepo: scheduleRepo, auditRepo: auditRepo, txManager: txManager}
}

// validateTiers runs the payload through the pricing engine's table
// constructor. A schedule that the engine would reject at compute time
// never reaches the database.
func validateTiers(payloads []TierPayload) error {
	tiers := make([]pricing.RateTier, 0, len(payloads))
	for _, p := range payloads {
		tiers = append(tiers, pricing.RateTier{
			MinHours:    p.MinHours,
			MaxHours:    p.MaxHours,
			Rate:        p.Rate,
			Description: p.Description,
		})
	}
	if _, err := pricing.NewRateTable(tiers); err != nil {
		return fmt.Errorf("invalid tier set: %w", err)
	}
	return nil
}

func toTierModels(scheduleID uuid.UUID, payloads []TierPayload) []model.PriceTier {
	tiers := make([]model.PriceTier, 0, len(payloads))
	for i, p := range payloads {
		tiers = append(tiers, model.PriceTier{
			PriceScheduleID: scheduleID,
			Position:        i,
			MinHours:        p.MinHours,
			MaxHours:        p.MaxHours,
			Rate:            p.Rate,
			Description:     p.Description,
		})
	}
	return tiers
}

func (s *scheduleService) CreateSchedule(ctx context.Context, req CreateScheduleRequest, userID string) (ScheduleResponse, error) {
	if req.Name == "" {
		return ScheduleResponse{}, fmt.Errorf("name is required")
	}
	if err := validateTiers(req.Tiers); err != nil {
		return ScheduleResponse{}, err
	}

	schedule := &model.PriceSchedule{
		Name:        req.Name,
		Description: req.Description,
		Tiers:       toTierModels(uuid.Nil, req.Tiers), // GORM fills PriceScheduleID on cascade create
	}
	for i := range schedule.Tiers {
		schedule.Tiers[i].Position = i
	}

	if err := s.scheduleRepo.Create(ctx, schedule); err != nil {
		return ScheduleResponse{}, fmt.Errorf("failed to create price schedule: %w", err)
	}

	writeAudit(ctx, s.auditRepo, userID, model.ActionCreateSchedule, schedule.ID.String(), schedule.Name, req)

	return toScheduleResponse(*schedule), nil
}

func (s *scheduleService) UpdateSchedule(ctx context.Context, id string, req UpdateScheduleRequest, userID string) (ScheduleResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ScheduleResponse{}, fmt.Errorf("invalid schedule ID")
	}

	schedule, err := s.scheduleRepo.FindByID(ctx, uid)
	if err != nil {
		return ScheduleResponse{}, fmt.Errorf("price schedule not found: %w", err)
	}

	if req.Name != nil {
		if *req.Name == "" {
			return ScheduleResponse{}, fmt.Errorf("name cannot be empty")
		}
		schedule.Name = *req.Name
	}
	if req.Description != nil {
		schedule.Description = *req.Description
	}
	if req.Tiers != nil {
		if err := validateTiers(*req.Tiers); err != nil {
			return ScheduleResponse{}, err
		}
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		// Clear the association so Save does not upsert stale tiers
		tiers := schedule.Tiers
		schedule.Tiers = nil
		if err := s.scheduleRepo.Update(txCtx, schedule); err != nil {
			return fmt.Errorf("failed to update price schedule: %w", err)
		}
		schedule.Tiers = tiers

		if req.Tiers != nil {
			newTiers := toTierModels(uid, *req.Tiers)
			if err := s.scheduleRepo.ReplaceTiers(txCtx, uid, newTiers); err != nil {
				return fmt.Errorf("failed to replace tiers: %w", err)
			}
			schedule.Tiers = newTiers
		}
		return nil
	})
	if err != nil {
		return ScheduleResponse{}, err
	}

	writeAudit(ctx, s.auditRepo, userID, model.ActionUpdateSchedule, schedule.ID.String(), schedule.Name, req)

	return toScheduleResponse(*schedule), nil
}

func (s *scheduleService) DeleteSchedule(ctx context.Context, id string, userID string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid schedule ID")
	}

	refs, err := s.scheduleRepo.CountReferences(ctx, uid)
	if err != nil {
		return fmt.Errorf("failed to check schedule references: %w", err)
	}
	if refs > 0 {
		return fmt.Errorf("price schedule is referenced by %d employee types or products", refs)
	}

	if err := s.scheduleRepo.Delete(ctx, uid); err != nil {
		return err
	}
	writeAudit(ctx, s.auditRepo, userID, model.ActionDeleteSchedule, id, "", map[string]string{"deleted_id": id})
	return nil
}

func (s *scheduleService) GetSchedule(ctx context.Context, id string) (ScheduleResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ScheduleResponse{}, fmt.Errorf("invalid schedule ID")
	}
	schedule, err := s.scheduleRepo.FindByID(ctx, uid)
	if err != nil {
		return ScheduleResponse{}, fmt.Errorf("price schedule not found: %w", err)
	}
	return toScheduleResponse(*schedule), nil
}

func (s *scheduleService) GetSchedules(ctx context.Context, page, limit int) ([]ScheduleResponse, int64, error) {
	schedules, total, err := s.scheduleRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch price schedules: %w", err)
	}

	res := make([]ScheduleResponse, 0, len(schedules))
	for _, sc := range schedules {
		res = append(res, toScheduleResponse(sc))
	}
	return res, total, nil
}

// --- Mappers ---

func toScheduleResponse(sc model.PriceSchedule) ScheduleResponse {
	tiers := make([]TierResponse, 0, len(sc.Tiers))
	for _, t := range sc.Tiers {
		tiers = append(tiers, TierResponse{
			ID:          t.ID,
			Position:    t.Position,
			MinHours:    t.MinHours,
			MaxHours:    t.MaxHours,
			Rate:        t.Rate,
			Description: t.Description,
		})
	}

	return ScheduleResponse{
		ID:          sc.ID,
		Name:        sc.Name,
		Description: sc.Description,
		Tiers:       tiers,
		CreatedAt:   sc.CreatedAt,
		UpdatedAt:   sc.UpdatedAt,
	}
}

// toRateTable converts a stored schedule into the pricing engine's rate table.
// Stored schedules were validated on write, so a constructor failure here
// means the row was tampered with outside the API.
func toRateTable(sc *model.PriceSchedule) (*pricing.RateTable, error) {
	tiers := make([]pricing.RateTier, 0, len(sc.Tiers))
	for _, t := range sc.Tiers {
		tiers = append(tiers, pricing.RateTier{
			MinHours:    t.MinHours,
			MaxHours:    t.MaxHours,
			Rate:        t.Rate,
			Description: t.Description,
		})
	}
	table, err := pricing.NewRateTable(tiers)
	if err != nil {
		return nil, fmt.Errorf("stored schedule %q is corrupt: %w", sc.Name, err)
	}
	return table, nil
}
