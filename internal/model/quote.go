package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// QuoteStatus enum constants
const (
	QuoteStatusDraft    = "DRAFT"
	QuoteStatusPending  = "PENDING"
	QuoteStatusApproved = "APPROVED"
	QuoteStatusRejected = "REJECTED"
)

// Quote is a priced proposal for one event. The rounded money fields are the
// persisted output of the pricing engine; LineItems hold the unrounded
// amounts so the engine can replay the assembly and reproduce Total exactly.
// List views and PDFs must read Total verbatim or replay the assembly —
// never sum the rounded subtotal columns.
type Quote struct {
	ID               uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	QuoteNo          string          `gorm:"type:varchar(30);uniqueIndex;not null" json:"quote_no"`
	ClientID         *uuid.UUID      `gorm:"type:uuid;index" json:"client_id"`
	Client           *Client         `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	EventDate        *time.Time      `gorm:"type:date" json:"event_date"`
	EventHours       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"event_hours"`
	MarginPercent    decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0" json:"margin_percent"`
	RetentionPercent decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0" json:"retention_percent"`
	EngineVersion    int             `gorm:"type:int;not null;default:1" json:"engine_version"`

	// Rounded display values in integer currency units.
	LaborSubtotal     int64 `gorm:"type:bigint;not null;default:0" json:"labor_subtotal"`
	ProductsSubtotal  int64 `gorm:"type:bigint;not null;default:0" json:"products_subtotal"`
	MachinerySubtotal int64 `gorm:"type:bigint;not null;default:0" json:"machinery_subtotal"`
	BaseSubtotal      int64 `gorm:"type:bigint;not null;default:0" json:"base_subtotal"`
	MarginAmount      int64 `gorm:"type:bigint;not null;default:0" json:"margin_amount"`
	RetentionAmount   int64 `gorm:"type:bigint;not null;default:0" json:"retention_amount"`
	Total             int64 `gorm:"type:bigint;not null;default:0" json:"total"`

	Status     string     `gorm:"type:varchar(20);not null;default:'DRAFT';index" json:"status"`
	ApprovedBy *uuid.UUID `gorm:"type:uuid" json:"approved_by"`
	Approver   *User      `gorm:"foreignKey:ApprovedBy" json:"approver,omitempty"`
	ApprovedAt *time.Time `json:"approved_at"`
	Note       string     `gorm:"type:text" json:"note"`

	Employees []QuoteEmployee `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE" json:"employees"`
	Products  []QuoteProduct  `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE" json:"products"`
	Machines  []QuoteMachine  `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE" json:"machines"`
	LineItems []QuoteLineItem `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE" json:"line_items"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// QuoteEmployee is one staffed employee on a quote draft
type QuoteEmployee struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	QuoteID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"quote_id"`
	EmployeeID uuid.UUID       `gorm:"type:uuid;not null;index" json:"employee_id"`
	Employee   *Employee       `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	Hours      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"hours"`
	// ProductIDs is a JSON array of product UUIDs this employee attends.
	ProductIDs string `gorm:"type:jsonb;default:'[]'" json:"product_ids"`
}

// QuoteProduct is one product line on a quote draft
type QuoteProduct struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	QuoteID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"quote_id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product   *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	UnitCount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_count"`
}

// QuoteMachine is one machinery booking on a quote draft
type QuoteMachine struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	QuoteID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"quote_id"`
	MachineryID uuid.UUID       `gorm:"type:uuid;not null;index" json:"machinery_id"`
	Machinery   *Machinery      `gorm:"foreignKey:MachineryID" json:"machinery,omitempty"`
	Hours       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"hours"`
}

// QuoteLineItem is one persisted line of the computed breakdown. Amount is
// stored unrounded (decimal) — it is the replay input, not a display value.
type QuoteLineItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	QuoteID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"quote_id"`
	Position    int             `gorm:"type:int;not null" json:"position"`
	Category    string          `gorm:"type:varchar(20);not null" json:"category"` // labor, product, machinery
	RefID       string          `gorm:"type:varchar(50);not null" json:"ref_id"`
	Description string          `gorm:"type:varchar(255)" json:"description"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity"`
	UnitRate    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_rate"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	CreatedAt   time.Time       `json:"created_at"`
}
