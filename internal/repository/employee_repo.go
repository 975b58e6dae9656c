package repository

import (
	"context"

	"caterops/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EmployeeRepository interface {
	Create(ctx context.Context, employee *model.Employee) error
	Update(ctx context.Context, employee *model.Employee) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Employee, error)
	List(ctx context.Context, search string, page, limit int) ([]model.Employee, int64, error)

	CreateType(ctx context.Context, employeeType *model.EmployeeType) error
	UpdateType(ctx context.Context, employeeType *model.EmployeeType) error
	DeleteType(ctx context.Context, id uuid.UUID) error
	FindTypeByID(ctx context.Context, id uuid.UUID) (*model.EmployeeType, error)
	ListTypes(ctx context.Context) ([]model.EmployeeType, error)
}

type employeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, employee *model.Employee) error {
	return GetDB(ctx, r.db).Create(employee).Error
}

func (r *employeeRepository) Update(ctx context.Context, employee *model.Employee) error {
	return GetDB(ctx, r.db).Save(employee).Error
}

func (r *employeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Employee{}).Error
}

func (r *employeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Employee, error) {
	var employee model.Employee
	if err := GetDB(ctx, r.db).
		Preload("EmployeeType").
		Preload("EmployeeType.PriceSchedule").
		Preload("EmployeeType.PriceSchedule.Tiers", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&employee, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepository) List(ctx context.Context, search string, page, limit int) ([]model.Employee, int64, error) {
	var employees []model.Employee
	var total int64

	db := GetDB(ctx, r.db)
	applyFilter := func(q *gorm.DB) *gorm.DB {
		if search != "" {
			q = q.Where("full_name ILIKE ? OR document_id ILIKE ?", "%"+search+"%", "%"+search+"%")
		}
		return q
	}

	if err := applyFilter(db.Model(&model.Employee{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := applyFilter(db.Model(&model.Employee{}).Preload("EmployeeType")).
		Order("full_name ASC").Offset(offset).Limit(limit).Find(&employees).Error; err != nil {
		return nil, 0, err
	}

	return employees, total, nil
}

func (r *employeeRepository) CreateType(ctx context.Context, employeeType *model.EmployeeType) error {
	return GetDB(ctx, r.db).Create(employeeType).Error
}

func (r *employeeRepository) UpdateType(ctx context.Context, employeeType *model.EmployeeType) error {
	return GetDB(ctx, r.db).Save(employeeType).Error
}

func (r *employeeRepository) DeleteType(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.EmployeeType{}).Error
}

func (r *employeeRepository) FindTypeByID(ctx context.Context, id uuid.UUID) (*model.EmployeeType, error) {
	var employeeType model.EmployeeType
	if err := GetDB(ctx, r.db).
		Preload("PriceSchedule").
		Preload("PriceSchedule.Tiers", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&employeeType, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &employeeType, nil
}

func (r *employeeRepository) ListTypes(ctx context.Context) ([]model.EmployeeType, error) {
	var types []model.EmployeeType
	if err := GetDB(ctx, r.db).
		Preload("PriceSchedule").
		Preload("PriceSchedule.Tiers", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("name ASC").Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}
