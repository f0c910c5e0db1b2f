package db

import (
	"fintrack/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// Migrate creates or updates the transactions table and its indexes
func Migrate(db *gorm.DB) error {
	// AutoMigrate will create tables, missing columns and indexes
	return db.AutoMigrate(&domain.Transaction{})
}
