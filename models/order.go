package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderStatus is the closed set of order lifecycle states.
type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderInProgress OrderStatus = "IN_PROGRESS"
	OrderReview     OrderStatus = "REVIEW"
	OrderCompleted  OrderStatus = "COMPLETED"
	OrderClosed     OrderStatus = "CLOSED"
	OrderArchived   OrderStatus = "ARCHIVED"
)

// CanTransition reports whether the lifecycle allows moving from s to next.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	switch s {
	case OrderPending:
		return next == OrderInProgress
	case OrderInProgress:
		return next == OrderReview
	case OrderReview:
		return next == OrderCompleted
	case OrderCompleted:
		return next == OrderClosed || next == OrderArchived
	}
	return false
}

// Order represents one design engagement between a client and an engineer
type Order struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	OrderNumber        string         `gorm:"uniqueIndex;not null" json:"order_number"`
	ClientID           uint           `gorm:"not null;index" json:"client_id"` // foreign key to users table
	Client             User           `gorm:"foreignKey:ClientID" json:"client"`
	EngineerID         *uint          `gorm:"index" json:"engineer_id"` // nil until an engineer claims the order
	Engineer           *User          `gorm:"foreignKey:EngineerID" json:"engineer,omitempty"`
	PackageID          uint           `gorm:"not null;index" json:"package_id"`
	Package            Package        `gorm:"foreignKey:PackageID" json:"package"`
	FormDataJSON       string         `gorm:"type:text" json:"form_data_json"` // serialized intake form
	Status             OrderStatus    `gorm:"not null;default:'PENDING'" json:"status"`
	RemainingRevisions int            `gorm:"not null;check:remaining_revisions >= 0" json:"remaining_revisions"`
	Deadline           time.Time      `json:"deadline"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}
