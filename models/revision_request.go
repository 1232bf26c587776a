package models

import (
	"time"

	"gorm.io/gorm"
)

// RevisionRequest represents one revision round requested by a client,
// with its modification points serialized as a JSON array in PinsJSON.
type RevisionRequest struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	OrderID   uint           `gorm:"not null;index" json:"order_id"`
	Order     Order          `gorm:"foreignKey:OrderID" json:"-"`
	PinsJSON  string         `gorm:"type:text" json:"pins_json"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the RevisionRequest model
func (RevisionRequest) TableName() string {
	return "revision_requests"
}
