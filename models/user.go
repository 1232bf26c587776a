package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an account in the system (client, engineer or admin)
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"not null" json:"name"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	Phone        string         `json:"phone"`
	PasswordHash string         `gorm:"not null" json:"-"` // bcrypt hash, never serialized
	Role         Role           `gorm:"not null;default:'CLIENT'" json:"role"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}
