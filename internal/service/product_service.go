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

type CreateProductRequest struct {
	SKU             string           `json:"sku" binding:"required"`
	Name            string           `json:"name" binding:"required"`
	Unit            string           `json:"unit"`
	TierBasis       string           `json:"tier_basis"`
	PricingMode     string           `json:"pricing_mode" binding:"required"`
	FlatRate        *decimal.Decimal `json:"flat_rate"`
	PriceScheduleID *string          `json:"price_schedule_id"`
}

type UpdateProductRequest struct {
	SKU             *string          `json:"sku"`
	Name            *string          `json:"name"`
	Unit            *string          `json:"unit"`
	TierBasis       *string          `json:"tier_basis"`
	PricingMode     *string          `json:"pricing_mode"`
	FlatRate        *decimal.Decimal `json:"flat_rate"`
	PriceScheduleID *string          `json:"price_schedule_id"`
	IsActive        *bool            `json:"is_active"`
}

type ProductResponse struct {
	ID            uuid.UUID         `json:"id"`
	SKU           string            `json:"sku"`
	Name          string            `json:"name"`
	Unit          string            `json:"unit"`
	TierBasis     string            `json:"tier_basis"`
	PricingMode   string            `json:"pricing_mode"`
	FlatRate      *decimal.Decimal  `json:"flat_rate"`
	PriceSchedule *ScheduleResponse `json:"price_schedule,omitempty"`
	IsActive      bool              `json:"is_active"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// --- Interface ---

type ProductService interface {
	CreateProduct(ctx context.Context, req CreateProductRequest, userID string) (ProductResponse, error)
	UpdateProduct(ctx context.Context, id string, req UpdateProductRequest, userID string) (ProductResponse, error)
	DeleteProduct(ctx context.Context, id string, userID string) error
	GetProduct(ctx context.Context, id string) (ProductResponse, error)
	GetProducts(ctx context.Context, search string, page, limit int) ([]ProductResponse, int64, error)
}

type productService struct {
	productRepo  repository.ProductRepository
	scheduleRepo repository.ScheduleRepository
	auditRepo    repository.AuditRepository
}

func NewProductService(productRepo repository.ProductRepository, scheduleRepo repository.ScheduleRepository, auditRepo repository.AuditRepository) ProductService {
	return &productService{productRepo: productRepo, scheduleRepo: scheduleRepo, auditRepo: auditRepo}
}

var validTierBases = map[string]bool{
	model.TierBasisQuantity: true,
	model.TierBasisDuration: true,
}

func (s *productService) resolvePricingFields(ctx context.Context, mode string, flatRate *decimal.Decimal, scheduleID *string) (*decimal.Decimal, *uuid.UUID, error) {
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

func (s *productService) CreateProduct(ctx context.Context, req CreateProductRequest, userID string) (ProductResponse, error) {
	tierBasis := req.TierBasis
	if tierBasis == "" {
		tierBasis = model.TierBasisQuantity
	}
	if !validTierBases[tierBasis] {
		return ProductResponse{}, fmt.Errorf("tier_basis must be one of: QUANTITY, DURATION")
	}

	flatRate, scheduleID, err := s.resolvePricingFields(ctx, req.PricingMode, req.FlatRate, req.PriceScheduleID)
	if err != nil {
		return ProductResponse{}, err
	}

	product := &model.Product{
		SKU:             req.SKU,
		Name:            req.Name,
		Unit:            req.Unit,
		TierBasis:       tierBasis,
		PricingMode:     req.PricingMode,
		FlatRate:        flatRate,
		PriceScheduleID: scheduleID,
		IsActive:        true,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return ProductResponse{}, fmt.Errorf("failed to create product: %w", err)
	}

	writeAudit(ctx, s.auditRepo, userID, model.ActionCreateProduct, product.ID.String(), product.Name, req)

	return toProductResponse(*product), nil
}

func (s *productService) UpdateProduct(ctx context.Context, id string, req UpdateProductRequest, userID string) (ProductResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ProductResponse{}, fmt.Errorf("invalid product ID")
	}

	product, err := s.productRepo.FindByID(ctx, uid)
	if err != nil {
		return ProductResponse{}, fmt.Errorf("product not found: %w", err)
	}

	if req.SKU != nil {
		product.SKU = *req.SKU
	}
	if req.Name != nil {
		if *req.Name == "" {
			return ProductResponse{}, fmt.Errorf("name cannot be empty")
		}
		product.Name = *req.Name
	}
	if req.Unit != nil {
		product.Unit = *req.Unit
	}
	if req.TierBasis != nil {
		if !validTierBases[*req.TierBasis] {
			return ProductResponse{}, fmt.Errorf("tier_basis must be one of: QUANTITY, DURATION")
		}
		product.TierBasis = *req.TierBasis
	}
	if req.PricingMode != nil {
		flatRate := req.FlatRate
		if flatRate == nil {
			flatRate = product.FlatRate
		}
		scheduleID := req.PriceScheduleID
		if scheduleID == nil && product.PriceScheduleID != nil {
			sid := product.PriceScheduleID.String()
			scheduleID = &sid
		}
		newFlat, newSchedule, err := s.resolvePricingFields(ctx, *req.PricingMode, flatRate, scheduleID)
		if err != nil {
			return ProductResponse{}, err
		}
		product.PricingMode = *req.PricingMode
		product.FlatRate = newFlat
		product.PriceScheduleID = newSchedule
		product.PriceSchedule = nil
	} else if req.FlatRate != nil && product.PricingMode == model.PricingModeFlat {
		if req.FlatRate.Sign() < 0 {
			return ProductResponse{}, fmt.Errorf("flat_rate cannot be negative")
		}
		product.FlatRate = req.FlatRate
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return ProductResponse{}, fmt.Errorf("failed to update product: %w", err)
	}

	writeAudit(ctx, s.auditRepo, userID, model.ActionUpdateProduct, product.ID.String(), product.Name, req)

	return toProductResponse(*product), nil
}

func (s *productService) DeleteProduct(ctx context.Context, id string, userID string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid product ID")
	}
	if err := s.productRepo.Delete(ctx, uid); err != nil {
		return err
	}
	writeAudit(ctx, s.auditRepo, userID, model.ActionDeleteProduct, id, "", map[string]string{"deleted_id": id})
	return nil
}

func (s *productService) GetProduct(ctx context.Context, id string) (ProductResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ProductResponse{}, fmt.Errorf("invalid product ID")
	}
	product, err := s.productRepo.FindByID(ctx, uid)
	if err != nil {
		return ProductResponse{}, fmt.Errorf("product not found: %w", err)
	}
	return toProductResponse(*product), nil
}

func (s *productService) GetProducts(ctx context.Context, search string, page, limit int) ([]ProductResponse, int64, error) {
	products, total, err := s.productRepo.List(ctx, search, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}
	res := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		res = append(res, toProductResponse(p))
	}
	return res, total, nil
}

// --- Mappers ---

func toProductResponse(p model.Product) ProductResponse {
	res := ProductResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Unit:        p.Unit,
		TierBasis:   p.TierBasis,
		PricingMode: p.PricingMode,
		FlatRate:    p.FlatRate,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.PriceSchedule != nil {
		sc := toScheduleResponse(*p.PriceSchedule)
		res.PriceSchedule = &sc
	}
	return res
}
