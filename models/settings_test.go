package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveRevisionsPurchaseConfigDefaults(t *testing.T) {
	cfg := EffectiveRevisionsPurchaseConfig(nil)
	assert.Equal(t, 100.0, cfg.PricePerRevision)
	assert.Equal(t, 20, cfg.MaxPerPurchase)
}

func TestEffectiveRevisionsPurchaseConfigOverrides(t *testing.T) {
	cfg := EffectiveRevisionsPurchaseConfig(&RevisionsPurchaseConfig{PricePerRevision: 250, MaxPerPurchase: 5})
	assert.Equal(t, 250.0, cfg.PricePerRevision)
	assert.Equal(t, 5, cfg.MaxPerPurchase)
}

func TestEffectiveRevisionsPurchaseConfigPartialRow(t *testing.T) {
	// Out-of-range values fall back field by field.
	cfg := EffectiveRevisionsPurchaseConfig(&RevisionsPurchaseConfig{PricePerRevision: 0, MaxPerPurchase: -3})
	assert.Equal(t, 100.0, cfg.PricePerRevision)
	assert.Equal(t, 20, cfg.MaxPerPurchase)
}
