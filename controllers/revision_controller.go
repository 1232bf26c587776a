package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tasmeem-studio/tasmeem-api/config"
	"github.com/tasmeem-studio/tasmeem-api/models"
	"github.com/tasmeem-studio/tasmeem-api/pins"
)

// CreateRevisionRequestBody represents the request body for requesting a revision
type CreateRevisionRequestBody struct {
	Pins []pins.Pin `json:"pins" binding:"omitempty"`
}

// PurchaseRevisionsRequest represents the request body for buying revision credit
type PurchaseRevisionsRequest struct {
	Count int `json:"count" binding:"required,gt=0"`
}

// RevisionRequestView is a revision request with its pins decoded
type RevisionRequestView struct {
	ID        uint       `json:"id"`
	OrderID   uint       `json:"order_id"`
	Pins      []pins.Pin `json:"pins"`
	CreatedAt string     `json:"created_at"`
}

// CreateRevisionRequest handles POST /api/v1/orders/:id/revisions - the
// client spends one revision credit and records the modification points.
//
// The credit decrement is guarded inside the store: the counter never goes
// below zero no matter how many requests race, and exactly N requests can
// succeed starting from N credits.
func CreateRevisionRequest(c *gin.Context) {
	principal, order, ok := loadOrderForPrincipal(c)
	if !ok {
		return
	}
	if principal.Role != models.RoleClient || order.ClientID != principal.UserID {
		respondForbidden(c)
		return
	}

	var req CreateRevisionRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "بيانات طلب التعديل غير صحيحة")
		return
	}

	db := config.GetDB()
	var revision models.RevisionRequest
	err := db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Order{}).
			Where("id = ? AND remaining_revisions > 0", order.ID).
			Update("remaining_revisions", gorm.Expr("remaining_revisions - 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errInsufficientCredit
		}

		revision = models.RevisionRequest{
			OrderID:  order.ID,
			PinsJSON: pins.EncodePins(req.Pins),
		}
		return tx.Create(&revision).Error
	})
	if err == errInsufficientCredit {
		respondError(c, http.StatusConflict, "NO_REVISION_CREDIT", "لا يوجد رصيد تعديلات متبقٍ، يمكنك شراء تعديلات إضافية")
		return
	}
	if err != nil {
		respondDatabaseError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, RevisionRequestView{
		ID:        revision.ID,
		OrderID:   revision.OrderID,
		Pins:      pins.DecodePins(revision.PinsJSON),
		CreatedAt: revision.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// ListRevisionRequests handles GET /api/v1/orders/:id/revisions - lists the
// order's revision rounds with pins decoded. Malformed stored pin payloads
// decode to an empty list rather than failing the fetch.
func ListRevisionRequests(c *gin.Context) {
	_, order, ok := loadOrderForPrincipal(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var revisions []models.RevisionRequest
	if err := db.Where("order_id = ?", order.ID).Order("created_at ASC").Find(&revisions).Error; err != nil {
		respondDatabaseError(c, err)
		return
	}

	views := make([]RevisionRequestView, 0, len(revisions))
	for _, rev := range revisions {
		views = append(views, RevisionRequestView{
			ID:        rev.ID,
			OrderID:   rev.OrderID,
			Pins:      pins.DecodePins(rev.PinsJSON),
			CreatedAt: rev.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	respondOK(c, http.StatusOK, views)
}

// PurchaseRevisions handles POST /api/v1/orders/:id/revisions/purchase -
// the client buys extra revision credit, priced by the latest purchase
// config (documented defaults apply when no config row exists).
func PurchaseRevisions(c *gin.Context) {
	principal, order, ok := loadOrderForPrincipal(c)
	if !ok {
		return
	}
	if principal.Role != models.RoleClient || order.ClientID != principal.UserID {
		respondForbidden(c)
		return
	}

	var req PurchaseRevisionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "عدد التعديلات المطلوب غير صحيح")
		return
	}

	cfg := loadRevisionsPurchaseConfig()
	if req.Count > cfg.MaxPerPurchase {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "عدد التعديلات المطلوب يتجاوز الحد المسموح")
		return
	}

	db := config.GetDB()
	result := db.Model(&models.Order{}).
		Where("id = ?", order.ID).
		Update("remaining_revisions", gorm.Expr("remaining_revisions + ?", req.Count))
	if result.Error != nil {
		respondDatabaseError(c, result.Error)
		return
	}

	if err := db.First(order, order.ID).Error; err != nil {
		respondDatabaseError(c, err)
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"order_id":            order.ID,
		"remaining_revisions": order.RemainingRevisions,
		"purchased":           req.Count,
		"total_price":         float64(req.Count) * cfg.PricePerRevision,
	})
}

// GetRevisionSettings handles GET /api/v1/revision-settings - exposes the
// effective purchase pricing
func GetRevisionSettings(c *gin.Context) {
	respondOK(c, http.StatusOK, loadRevisionsPurchaseConfig())
}

// loadRevisionsPurchaseConfig reads the latest config row, falling back to
// the documented defaults when none exists.
func loadRevisionsPurchaseConfig() models.RevisionsPurchaseConfig {
	db := config.GetDB()
	var row models.RevisionsPurchaseConfig
	if err := db.Order("id DESC").First(&row).Error; err != nil {
		return models.EffectiveRevisionsPurchaseConfig(nil)
	}
	return models.EffectiveRevisionsPurchaseConfig(&row)
}

var errInsufficientCredit = errors.New("insufficient revision credit")
