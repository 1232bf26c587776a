package models

import (
	"time"
)

// Defaults used when no RevisionsPurchaseConfig row exists.
const (
	DefaultPricePerRevision       = 100.0
	DefaultMaxRevisionsPerPurchase = 20
)

// RevisionsPurchaseConfig prices the paid "buy more revisions" flow.
// Read-latest semantics: the newest row wins, absence falls back to defaults.
type RevisionsPurchaseConfig struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	PricePerRevision float64   `gorm:"not null" json:"price_per_revision"`
	MaxPerPurchase   int       `gorm:"not null" json:"max_per_purchase"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TableName specifies the table name for the RevisionsPurchaseConfig model
func (RevisionsPurchaseConfig) TableName() string {
	return "revisions_purchase_configs"
}

// EffectiveRevisionsPurchaseConfig returns cfg with defaults substituted for
// missing or out-of-range values. A nil cfg yields the documented defaults.
func EffectiveRevisionsPurchaseConfig(cfg *RevisionsPurchaseConfig) RevisionsPurchaseConfig {
	out := RevisionsPurchaseConfig{
		PricePerRevision: DefaultPricePerRevision,
		MaxPerPurchase:   DefaultMaxRevisionsPerPurchase,
	}
	if cfg == nil {
		return out
	}
	out.ID = cfg.ID
	if cfg.PricePerRevision > 0 {
		out.PricePerRevision = cfg.PricePerRevision
	}
	if cfg.MaxPerPurchase > 0 {
		out.MaxPerPurchase = cfg.MaxPerPurchase
	}
	return out
}
