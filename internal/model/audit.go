package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateClient = "CREATE_CLIENT"
	ActionUpdateClient = "UPDATE_CLIENT"
	ActionDeleteClient = "DELETE_CLIENT"

	ActionCreateSchedule = "CREATE_PRICE_SCHEDULE"
	ActionUpdateSchedule = "UPDATE_PRICE_SCHEDULE"
	ActionDeleteSchedule = "DELETE_PRICE_SCHEDULE"

	ActionCreateEmployee  = "CREATE_EMPLOYEE"
	ActionUpdateEmployee  = "UPDATE_EMPLOYEE"
	ActionDeleteEmployee  = "DELETE_EMPLOYEE"
	ActionCreateMachinery = "CREATE_MACHINERY"
	ActionUpdateMachinery = "UPDATE_MACHINERY"
	ActionDeleteMachinery = "DELETE_MACHINERY"
	ActionCreateProduct   = "CREATE_PRODUCT"
	ActionUpdateProduct   = "UPDATE_PRODUCT"
	ActionDeleteProduct   = "DELETE_PRODUCT"

	// Quote lifecycle actions
	ActionCreateQuote  = "CREATE_QUOTE"
	ActionUpdateQuote  = "UPDATE_QUOTE"
	ActionDeleteQuote  = "DELETE_QUOTE"
	ActionApproveQuote = "APPROVE_QUOTE"
	ActionRejectQuote  = "REJECT_QUOTE"
	ActionVerifyQuote  = "VERIFY_QUOTE"
)

// AuditLog tracks Who, What, and When for critical system changes
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // Nullable gracefully if automated job
	User       *User      `gorm:"foreignKey:UserID" json:"user"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`        // Reference string (uuid/code)
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"` // Human readable name
	Details    string     `gorm:"type:jsonb" json:"details"`                      // Serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
