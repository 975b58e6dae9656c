package repository

import (
	"context"

	"caterops/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuoteListFilter struct {
	Status   string
	QuoteNo  string
	ClientID *uuid.UUID
	Page     int
	Limit    int
}

type QuoteRepository interface {
	Create(ctx context.Context, quote *model.Quote) error
	Update(ctx context.Context, quote *model.Quote) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Quote, error)
	FindByIDWithDetails(ctx context.Context, id uuid.UUID) (*model.Quote, error)
	List(ctx context.Context, filter QuoteListFilter) ([]model.Quote, int64, error)
	CountByPrefix(ctx context.Context, prefix string) (int64, error)
	ReplaceSelections(ctx context.Context, quote *model.Quote) error
	ReplaceLineItems(ctx context.Context, quoteID uuid.UUID, items []model.QuoteLineItem) error
	FindLineItems(ctx context.Context, quoteID uuid.UUID) ([]model.QuoteLineItem, error)
}

type quoteRepository struct {
	db *gorm.DB
}

func NewQuoteRepository(db *gorm.DB) QuoteRepository {
	return &quoteRepository{db: db}
}

func (r *quoteRepository) Create(ctx context.Context, quote *model.Quote) error {
	return GetDB(ctx, r.db).Create(quote).Error
}

func (r *quoteRepository) Update(ctx context.Context, quote *model.Quote) error {
	return GetDB(ctx, r.db).Save(quote).Error
}

func (r *quoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Quote{}).Error
}

func (r *quoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Quote, error) {
	var quote model.Quote
	if err := GetDB(ctx, r.db).First(&quote, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &quote, nil
}

func (r *quoteRepository) FindByIDWithDetails(ctx context.Context, id uuid.UUID) (*model.Quote, error) {
	var quote model.Quote
	if err := GetDB(ctx, r.db).
		Preload("Client").
		Preload("Employees.Employee.EmployeeType").
		Preload("Products.Product").
		Preload("Machines.Machinery").
		Preload("LineItems", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&quote, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &quote, nil
}

func (r *quoteRepository) List(ctx context.Context, filter QuoteListFilter) ([]model.Quote, int64, error) {
	var quotes []model.Quote
	var total int64

	db := GetDB(ctx, r.db)
	applyFilter := func(q *gorm.DB) *gorm.DB {
		if filter.Status != "" {
			q = q.Where("status = ?", filter.Status)
		}
		if filter.QuoteNo != "" {
			q = q.Where("quote_no ILIKE ?", "%"+filter.QuoteNo+"%")
		}
		if filter.ClientID != nil {
			q = q.Where("client_id = ?", *filter.ClientID)
		}
		return q
	}

	if err := applyFilter(db.Model(&model.Quote{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := applyFilter(db.Model(&model.Quote{}).Preload("Client")).
		Order("created_at DESC").Offset(offset).Limit(filter.Limit).Find(&quotes).Error; err != nil {
		return nil, 0, err
	}

	return quotes, total, nil
}

func (r *quoteRepository) CountByPrefix(ctx context.Context, prefix string) (int64, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.Quote{}).Where("quote_no LIKE ?", prefix+"%").Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ReplaceSelections rewrites the draft's employee/product/machine selections
// from the quote's in-memory associations.
func (r *quoteRepository) ReplaceSelections(ctx context.Context, quote *model.Quote) error {
	db := GetDB(ctx, r.db)

	if err := db.Where("quote_id = ?", quote.ID).Delete(&model.QuoteEmployee{}).Error; err != nil {
		return err
	}
	if err := db.Where("quote_id = ?", quote.ID).Delete(&model.QuoteProduct{}).Error; err != nil {
		return err
	}
	if err := db.Where("quote_id = ?", quote.ID).Delete(&model.QuoteMachine{}).Error; err != nil {
		return err
	}

	if len(quote.Employees) > 0 {
		if err := db.Create(&quote.Employees).Error; err != nil {
			return err
		}
	}
	if len(quote.Products) > 0 {
		if err := db.Create(&quote.Products).Error; err != nil {
			return err
		}
	}
	if len(quote.Machines) > 0 {
		if err := db.Create(&quote.Machines).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *quoteRepository) ReplaceLineItems(ctx context.Context, quoteID uuid.UUID, items []model.QuoteLineItem) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("quote_id = ?", quoteID).Delete(&model.QuoteLineItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return db.Create(&items).Error
}

func (r *quoteRepository) FindLineItems(ctx context.Context, quoteID uuid.UUID) ([]model.QuoteLineItem, error) {
	var items []model.QuoteLineItem
	if err := GetDB(ctx, r.db).Where("quote_id = ?", quoteID).Order("position ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
