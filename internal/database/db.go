package database

import (
	"log"

	"caterops/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Role{},
		&model.Permission{},
		&model.AuditLog{},
		&model.Client{},
		&model.ClientAddress{},
		&model.PriceSchedule{},
		&model.PriceTier{},
		&model.EmployeeType{},
		&model.Employee{},
		&model.Product{},
		&model.Machinery{},
		&model.Quote{},
		&model.QuoteEmployee{},
		&model.QuoteProduct{},
		&model.QuoteMachine{},
		&model.QuoteLineItem{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}
