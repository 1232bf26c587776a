package models

import (
	"time"

	"gorm.io/gorm"
)

// EngineerApplication statuses.
const (
	ApplicationPending  = "pending"
	ApplicationApproved = "approved"
	ApplicationRejected = "rejected"
)

// EngineerApplication represents an invitation to join as an engineer.
//
// The token is capability-bearing: whoever holds the link may fill in the
// applicant fields. Applicant fields stay nil until the invitee applies,
// which keeps "not yet filled" distinct from "filled with an empty value".
type EngineerApplication struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Token      string         `gorm:"uniqueIndex;not null" json:"token"`
	Name       *string        `json:"name,omitempty"`
	Email      *string        `json:"email,omitempty"`
	Phone      *string        `json:"phone,omitempty"`
	PasswordHash *string      `json:"-"` // bcrypt hash set when the invitee applies
	Status     string         `gorm:"not null;default:'pending'" json:"status"` // pending, approved, rejected
	Notes      *string        `json:"notes,omitempty"`
	ReviewedBy *uint          `json:"reviewed_by,omitempty"` // admin user id
	ReviewedAt *time.Time     `json:"reviewed_at,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the EngineerApplication model
func (EngineerApplication) TableName() string {
	return "engineer_applications"
}
