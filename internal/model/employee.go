package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EmployeeType is a staffing category (chef, waiter, coordinator...) carrying
// the pricing mode applied to every employee of that type: either a flat
// hourly rate or a reference to a tiered price schedule.
type EmployeeType struct {
	ID              uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name            string           `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	PricingMode     string           `gorm:"type:varchar(10);not null;default:'FLAT'" json:"pricing_mode"` // FLAT, TIERED
	FlatRate        *decimal.Decimal `gorm:"type:decimal(18,4)" json:"flat_rate"`
	PriceScheduleID *uuid.UUID       `gorm:"type:uuid;index" json:"price_schedule_id"`
	PriceSchedule   *PriceSchedule   `gorm:"foreignKey:PriceScheduleID" json:"price_schedule,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// Employee represents a worker who can be staffed on quotes
type Employee struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FullName       string         `gorm:"type:varchar(255);not null" json:"full_name"`
	DocumentID     string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"document_id"`
	Phone          string         `gorm:"type:varchar(50)" json:"phone"`
	Email          string         `gorm:"type:varchar(255)" json:"email"`
	EmployeeTypeID uuid.UUID      `gorm:"type:uuid;not null;index" json:"employee_type_id"`
	EmployeeType   *EmployeeType  `gorm:"foreignKey:EmployeeTypeID" json:"employee_type,omitempty"`
	IsActive       bool           `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
