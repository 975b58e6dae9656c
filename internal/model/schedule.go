package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PricingMode enum constants shared by employee types and products
const (
	PricingModeFlat   = "FLAT"
	PricingModeTiered = "TIERED"
)

// PriceSchedule is a persisted rate table: an ordered, gap-free set of
// hour-or-quantity tiers. Writes go through the pricing engine's table
// constructor, so a schedule with gaps or overlaps can never reach the
// database.
type PriceSchedule struct {
	ID          uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string      `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Tiers       []PriceTier `gorm:"foreignKey:PriceScheduleID;constraint:OnDelete:CASCADE" json:"tiers"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// PriceTier is one row of a schedule. MaxHours NULL marks the open-ended
// last tier.
type PriceTier struct {
	ID              uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PriceScheduleID uuid.UUID        `gorm:"type:uuid;not null;index" json:"price_schedule_id"`
	Position        int              `gorm:"type:int;not null" json:"position"`
	MinHours        decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"min_hours"`
	MaxHours        *decimal.Decimal `gorm:"type:decimal(10,2)" json:"max_hours"`
	Rate            decimal.Decimal  `gorm:"type:decimal(18,4);not null" json:"rate"`
	Description     string           `gorm:"type:varchar(255)" json:"description"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}
