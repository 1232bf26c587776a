package models

import (
	"time"

	"gorm.io/gorm"
)

// Package represents a priced design service tier
type Package struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	NameAr        string         `gorm:"not null" json:"name_ar"`
	NameEn        string         `gorm:"not null" json:"name_en"`
	Price         float64        `gorm:"not null" json:"price"`
	Revisions     int            `gorm:"not null;check:revisions >= 0" json:"revisions"` // included revision credits
	ExecutionDays int            `gorm:"not null;check:execution_days > 0" json:"execution_days"`
	Active        bool           `gorm:"not null;default:true" json:"active"`
	FeaturesJSON  string         `gorm:"type:text" json:"features_json"` // serialized feature list
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Package model
func (Package) TableName() string {
	return "packages"
}
