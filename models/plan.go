package models

import (
	"time"

	"gorm.io/gorm"
)

// Plan represents a deliverable file attached to an order.
//
// The stored file reference survives a purge (soft tombstone): once PurgedAt
// is set, or no file key was ever recorded, the surfaced URL must be null.
type Plan struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	OrderID   uint           `gorm:"not null;index" json:"order_id"`
	Order     Order          `gorm:"foreignKey:OrderID" json:"-"`
	FileKey   *string        `json:"-"` // S3 key, never surfaced directly
	FileURL   *string        `gorm:"-" json:"file_url"` // computed presigned URL, nil when purged
	Active    bool           `gorm:"not null;default:true" json:"active"`
	PurgedAt  *time.Time     `json:"purged_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Plan model
func (Plan) TableName() string {
	return "plans"
}

// Purged reports whether the plan's file reference must be withheld.
func (p *Plan) Purged() bool {
	return p.PurgedAt != nil || p.FileKey == nil || *p.FileKey == ""
}
