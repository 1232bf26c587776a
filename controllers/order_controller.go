package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tasmeem-studio/tasmeem-api/config"
	"github.com/tasmeem-studio/tasmeem-api/middleware"
	"github.com/tasmeem-studio/tasmeem-api/models"
	"github.com/tasmeem-studio/tasmeem-api/policy"
	"github.com/tasmeem-studio/tasmeem-api/services"
)

// CreateOrderRequest represents the request body for creating an order
type CreateOrderRequest struct {
	PackageID    uint   `json:"package_id" binding:"required"`
	FormDataJSON string `json:"form_data_json" binding:"omitempty"`
}

// UpdateOrderStatusRequest represents the request body for a status transition
type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// CreateOrder handles POST /api/v1/orders - creates a new order (clients only).
// Only active packages are orderable; the package seeds the revision credit
// and the deadline.
func CreateOrder(c *gin.Context) {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}
	if principal.Role != models.RoleClient {
		respondForbidden(c)
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "بيانات الطلب غير صحيحة")
		return
	}

	db := config.GetDB()
	var pkg models.Package
	if err := db.First(&pkg, req.PackageID).Error; err != nil || !pkg.Active {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "الباقة المختارة غير متاحة")
		return
	}

	order := models.Order{
		OrderNumber:        generateOrderNumber(),
		ClientID:           principal.UserID,
		PackageID:          pkg.ID,
		FormDataJSON:       req.FormDataJSON,
		Status:             models.OrderPending,
		RemainingRevisions: pkg.Revisions,
		Deadline:           time.Now().AddDate(0, 0, pkg.ExecutionDays),
	}

	if err := db.Create(&order).Error; err != nil {
		respondDatabaseError(c, err)
		return
	}

	if err := db.Preload("Client").Preload("Package").First(&order, order.ID).Error; err != nil {
		respondDatabaseError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, order)
}

// ListOrders handles GET /api/v1/orders - lists orders visible to the caller.
// The role implies the scope: clients see their own orders, engineers see
// assigned plus unclaimed ones, admins see everything. The caller never
// supplies its own filter.
func ListOrders(c *gin.Context) {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	db := config.GetDB()
	var orders []models.Order
	query := policy.OrderScope(principal, db.Model(&models.Order{})).
		Preload("Client").
		Preload("Engineer").
		Preload("Package").
		Order("created_at DESC")
	if err := query.Find(&orders).Error; err != nil {
		respondDatabaseError(c, err)
		return
	}

	respondOK(c, http.StatusOK, orders)
}

// GetOrder handles GET /api/v1/orders/:id - fetches one order
func GetOrder(c *gin.Context) {
	_, order, ok := loadOrderForPrincipal(c)
	if !ok {
		return
	}

	db := config.GetDB()
	if err := db.Preload("Client").Preload("Engineer").Preload("Package").First(order, order.ID).Error; err != nil {
		respondDatabaseError(c, err)
		return
	}

	cfg := config.GetConfig()
	whatsappLink := ""
	if cfg != nil {
		whatsappLink = services.WhatsAppLink(cfg.WhatsAppNumber, order.OrderNumber)
	}

	respondOK(c, http.StatusOK, gin.H{
		"order":         order,
		"whatsapp_link": whatsappLink,
	})
}

// ClaimOrder handles POST /api/v1/orders/:id/claim - an engineer claims an
// unclaimed order, binding themselves to it and moving it to IN_PROGRESS.
//
// The bind is a conditional update evaluated by the store, never a
// read-then-write: two engineers racing on the same order resolve to
// exactly one winner. Re-claiming by the already-bound engineer is a no-op
// success so the operation stays idempotent.
func ClaimOrder(c *gin.Context) {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}
	if principal.Role != models.RoleEngineer {
		respondForbidden(c)
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.First(&order, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "ORDER_NOT_FOUND", "الطلب غير موجود")
		} else {
			respondDatabaseError(c, err)
		}
		return
	}

	if !policy.CanClaimOrder(principal, &order) {
		respondForbidden(c)
		return
	}

	result := db.Model(&models.Order{}).
		Where("id = ? AND (engineer_id IS NULL OR engineer_id = ?) AND status IN ?",
			order.ID, principal.UserID, []models.OrderStatus{models.OrderPending, models.OrderInProgress}).
		Updates(map[string]interface{}{
			"engineer_id": principal.UserID,
			"status":      models.OrderInProgress,
		})
	if result.Error != nil {
		respondDatabaseError(c, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		// Lost the race: another engineer bound the order between the
		// policy check and the update.
		respondForbidden(c)
		return
	}

	if err := db.Preload("Client").Preload("Engineer").Preload("Package").First(&order, order.ID).Error; err != nil {
		respondDatabaseError(c, err)
		return
	}

	respondOK(c, http.StatusOK, order)
}

// UpdateOrderStatus handles POST /api/v1/orders/:id/status - moves an order
// through its lifecycle. Which transitions a caller may make depends on
// their role: the assigned engineer submits for review, the client accepts
// the review, admins close or archive completed orders.
func UpdateOrderStatus(c *gin.Context) {
	principal, order, ok := loadOrderForPrincipal(c)
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "الحالة المطلوبة غير معروفة")
		return
	}

	if !transitionAllowedFor(principal, order, req.Status) {
		respondForbidden(c)
		return
	}

	if !order.Status.CanTransition(req.Status) {
		respondError(c, http.StatusConflict, "CONFLICT", "لا يمكن نقل الطلب إلى هذه الحالة")
		return
	}

	db := config.GetDB()
	result := db.Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, order.Status).
		Update("status", req.Status)
	if result.Error != nil {
		respondDatabaseError(c, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		respondError(c, http.StatusConflict, "CONFLICT", "لا يمكن نقل الطلب إلى هذه الحالة")
		return
	}

	if err := db.Preload("Client").Preload("Engineer").Preload("Package").First(order, order.ID).Error; err != nil {
		respondDatabaseError(c, err)
		return
	}

	respondOK(c, http.StatusOK, order)
}

// transitionAllowedFor maps each target status to the role that may request
// it. IN_PROGRESS is reachable only through the claim endpoint.
func transitionAllowedFor(p policy.Principal, order *models.Order, target models.OrderStatus) bool {
	if p.Role == models.RoleAdmin {
		return target == models.OrderClosed || target == models.OrderArchived
	}
	switch target {
	case models.OrderReview:
		return p.Role == models.RoleEngineer && order.EngineerID != nil && *order.EngineerID == p.UserID
	case models.OrderCompleted:
		return p.Role == models.RoleClient && order.ClientID == p.UserID
	}
	return false
}

// generateOrderNumber produces a human-readable unique order number,
// e.g. TSM-20260829-1A2B3C.
func generateOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("TSM-%s-%s", time.Now().Format("20060102"), suffix)
}
