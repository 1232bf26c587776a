package models

import (
	"time"

	"gorm.io/gorm"
)

// Message kinds. Legacy rows carry an empty kind and are classified on read
// by parsing the prose template in Content.
const (
	MessageKindText              = "text"
	MessageKindModificationPoint = "modification_point"
)

// Message represents a message in an order conversation
type Message struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	OrderID     uint           `gorm:"not null;index" json:"order_id"` // foreign key to orders table
	Order       Order          `gorm:"foreignKey:OrderID" json:"-"`    // don't include full order in JSON
	SenderID    uint           `gorm:"not null;index" json:"sender_id"` // foreign key to users table
	Sender      User           `gorm:"foreignKey:SenderID" json:"sender"`
	Kind        string         `gorm:"not null;default:'text'" json:"kind"`
	Content     string         `gorm:"type:text;not null" json:"content"`
	PinIndex    *int           `json:"pin_index,omitempty"`
	PinLocation *string        `json:"pin_location,omitempty"`
	PinNote     *string        `json:"pin_note,omitempty"`
	IsRead      bool           `gorm:"not null;default:false" json:"is_read"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Message model
func (Message) TableName() string {
	return "messages"
}
