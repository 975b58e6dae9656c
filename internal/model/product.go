package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TierBasis enum constants — what a tiered product resolves its tier against
const (
	TierBasisQuantity = "QUANTITY"
	TierBasisDuration = "DURATION"
)

// Product is a catalog item offered on quotes (menus, decoration sets,
// service packages). Tiered products resolve their rate against either the
// quoted unit count or the elapsed event hours, per TierBasis.
type Product struct {
	ID              uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SKU             string           `gorm:"type:varchar(100);uniqueIndex;not null" json:"sku"`
	Name            string           `gorm:"type:varchar(255);not null" json:"name"`
	Unit            string           `gorm:"type:varchar(50)" json:"unit"` // person, tray, set...
	TierBasis       string           `gorm:"type:varchar(10);not null;default:'QUANTITY'" json:"tier_basis"`
	PricingMode     string           `gorm:"type:varchar(10);not null;default:'FLAT'" json:"pricing_mode"`
	FlatRate        *decimal.Decimal `gorm:"type:decimal(18,4)" json:"flat_rate"`
	PriceScheduleID *uuid.UUID       `gorm:"type:uuid;index" json:"price_schedule_id"`
	PriceSchedule   *PriceSchedule   `gorm:"foreignKey:PriceScheduleID" json:"price_schedule,omitempty"`
	IsActive        bool             `gorm:"default:true" json:"is_active"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	DeletedAt       gorm.DeletedAt   `gorm:"index" json:"-"`
}
