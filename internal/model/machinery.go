package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Machinery is a rentable machine in the inventory (ovens, sound rigs,
// generators). Quotes bill it hourly or daily, whichever is cheaper once the
// booking reaches a full day.
type Machinery struct {
	ID                 uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code               string           `gorm:"type:varchar(100);uniqueIndex;not null" json:"code"`
	Name               string           `gorm:"type:varchar(255);not null" json:"name"`
	HourlyRate         decimal.Decimal  `gorm:"type:decimal(18,4);not null" json:"hourly_rate"`
	DailyRate          decimal.Decimal  `gorm:"type:decimal(18,4);not null" json:"daily_rate"`
	RequiresOperator   bool             `gorm:"default:false" json:"requires_operator"`
	OperatorHourlyRate *decimal.Decimal `gorm:"type:decimal(18,4)" json:"operator_hourly_rate"`
	IsActive           bool             `gorm:"default:true" json:"is_active"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
	DeletedAt          gorm.DeletedAt   `gorm:"index" json:"-"`
}
