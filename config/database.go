package config

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

// ConnectDatabase establishes a connection to the PostgreSQL database
func ConnectDatabase(databaseURL string) error {
	conn, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	db = conn
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return db
}

// SetDB sets the database instance (primarily for testing)
func SetDB(conn *gorm.DB) {
	db = conn
}
