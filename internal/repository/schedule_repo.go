package repository

import (
	"context"

	"caterops/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ScheduleRepository interface {
	Create(ctx context.Context, schedule *model.PriceSchedule) error
	Update(ctx context.Context, schedule *model.PriceSchedule) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.PriceSchedule, error)
	List(ctx context.Context, page, limit int) ([]model.PriceSchedule, int64, error)
	ReplaceTiers(ctx context.Context, scheduleID uuid.UUID, tiers []model.PriceTier) error
	CountReferences(ctx context.Context, scheduleID uuid.UUID) (int64, error)
}

type scheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

func (r *scheduleRepository) Create(ctx context.Context, schedule *model.PriceSchedule) error {
	return GetDB(ctx, r.db).Create(schedule).Error
}

func (r *scheduleRepository) Update(ctx context.Context, schedule *model.PriceSchedule) error {
	return GetDB(ctx, r.db).Save(schedule).Error
}

func (r *scheduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.PriceSchedule{}).Error
}

func (r *scheduleRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.PriceSchedule, error) {
	var schedule model.PriceSchedule
	if err := GetDB(ctx, r.db).
		Preload("Tiers", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&schedule, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *scheduleRepository) List(ctx context.Context, page, limit int) ([]model.PriceSchedule, int64, error) {
	var schedules []model.PriceSchedule
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.PriceSchedule{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Tiers", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("name ASC").Offset(offset).Limit(limit).Find(&schedules).Error; err != nil {
		return nil, 0, err
	}

	return schedules, total, nil
}

func (r *scheduleRepository) ReplaceTiers(ctx context.Context, scheduleID uuid.UUID, tiers []model.PriceTier) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("price_schedule_id = ?", scheduleID).Delete(&model.PriceTier{}).Error; err != nil {
		return err
	}
	if len(tiers) == 0 {
		return nil
	}
	return db.Create(&tiers).Error
}

// CountReferences reports how many employee types and products still point at
// the schedule, so deletion can be refused while it is in use.
func (r *scheduleRepository) CountReferences(ctx context.Context, scheduleID uuid.UUID) (int64, error) {
	db := GetDB(ctx, r.db)

	var employeeTypes int64
	if err := db.Model(&model.EmployeeType{}).Where("price_schedule_id = ?", scheduleID).Count(&employeeTypes).Error; err != nil {
		return 0, err
	}

	var products int64
	if err := db.Model(&model.Product{}).Where("price_schedule_id = ?", scheduleID).Count(&products).Error; err != nil {
		return 0, err
	}

	return employeeTypes + products, nil
}
