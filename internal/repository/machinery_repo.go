package repository

import (
	"context"

	"caterops/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MachineryRepository interface {
	Create(ctx context.Context, machinery *model.Machinery) error
	Update(ctx context.Context, machinery *model.Machinery) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Machinery, error)
	List(ctx context.Context, search string, page, limit int) ([]model.Machinery, int64, error)
}

type machineryRepository struct {
	db *gorm.DB
}

func NewMachineryRepository(db *gorm.DB) MachineryRepository {
	return &machineryRepository{db: db}
}

func (r *machineryRepository) Create(ctx context.Context, machinery *model.Machinery) error {
	return GetDB(ctx, r.db).Create(machinery).Error
}

func (r *machineryRepository) Update(ctx context.Context, machinery *model.Machinery) error {
	return GetDB(ctx, r.db).Save(machinery).Error
}

func (r *machineryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Machinery{}).Error
}

func (r *machineryRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Machinery, error) {
	var machinery model.Machinery
	if err := GetDB(ctx, r.db).First(&machinery, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &machinery, nil
}

func (r *machineryRepository) List(ctx context.Context, search string, page, limit int) ([]model.Machinery, int64, error) {
	var machines []model.Machinery
	var total int64

	db := GetDB(ctx, r.db)
	applyFilter := func(q *gorm.DB) *gorm.DB {
		if search != "" {
			q = q.Where("name ILIKE ? OR code ILIKE ?", "%"+search+"%", "%"+search+"%")
		}
		return q
	}

	if err := applyFilter(db.Model(&model.Machinery{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := applyFilter(db.Model(&model.Machinery{})).
		Order("name ASC").Offset(offset).Limit(limit).Find(&machines).Error; err != nil {
		return nil, 0, err
	}

	return machines, total, nil
}
