package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tasmeem-studio/tasmeem-api/config"
	"github.com/tasmeem-studio/tasmeem-api/logger"
	"github.com/tasmeem-studio/tasmeem-api/models"
	"github.com/tasmeem-studio/tasmeem-api/services"
)

// UploadPlan handles POST /api/v1/orders/:id/plans - the assigned engineer
// uploads a deliverable file for the order.
func UploadPlan(c *gin.Context) {
	principal, order, ok := loadOrderForPrincipal(c)
	if !ok {
		return
	}

	// Unclaimed orders are visible to engineers but only the bound
	// engineer may deliver files.
	if principal.Role != models.RoleAdmin {
		if principal.Role != models.RoleEngineer || order.EngineerID == nil || *order.EngineerID != principal.UserID {
			respondForbidden(c)
			return
		}
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "ملف المخطط مطلوب")
		return
	}

	s3Service := services.GetS3Service()
	if s3Service == nil {
		respondError(c, http.StatusServiceUnavailable, "DEPENDENCY_UNAVAILABLE", "خدمة الملفات غير متاحة حالياً")
		return
	}

	s3Key, err := s3Service.UploadPlanFile(order.ID, fileHeader)
	if err != nil {
		log := logger.Get()
		log.Error().Err(err).Uint("order_id", order.ID).Msg("plan upload failed")
		respondError(c, http.StatusServiceUnavailable, "DEPENDENCY_UNAVAILABLE", "تعذّر رفع الملف، يرجى المحاولة لاحقاً")
		return
	}

	plan := models.Plan{
		OrderID: order.ID,
		FileKey: &s3Key,
		Active:  true,
	}

	db := config.GetDB()
	if err := db.Create(&plan).Error; err != nil {
		respondDatabaseError(c, err)
		return
	}

	presentPlan(&plan)

	// Data the notification layer needs after a successful upload. The
	// core does not depend on delivery succeeding.
	cfg := config.GetConfig()
	whatsappLink := ""
	if cfg != nil {
		whatsappLink = services.WhatsAppLink(cfg.WhatsAppNumber, order.OrderNumber)
	}

	respondOK(c, http.StatusCreated, gin.H{
		"plan": plan,
		"notify": gin.H{
			"order_id":      order.ID,
			"client_id":     order.ClientID,
			"whatsapp_link": whatsappLink,
		},
	})
}

// ListPlans handles GET /api/v1/orders/:id/plans - lists the order's
// deliverables. Purged plans keep their rows but never surface a file URL.
func ListPlans(c *gin.Context) {
	_, order, ok := loadOrderForPrincipal(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var plans []models.Plan
	if err := db.Where("order_id = ?", order.ID).Order("created_at ASC").Find(&plans).Error; err != nil {
		respondDatabaseError(c, err)
		return
	}

	for i := range plans {
		presentPlan(&plans[i])
	}

	respondOK(c, http.StatusOK, plans)
}

// presentPlan fills the computed FileURL field. A purged or key-less plan
// always surfaces a null URL regardless of what the row still stores.
func presentPlan(plan *models.Plan) {
	plan.FileURL = nil
	if plan.Purged() {
		return
	}

	s3Service := services.GetS3Service()
	if s3Service == nil {
		return
	}

	url, err := s3Service.GetPresignedURL(*plan.FileKey)
	if err != nil || url == "" {
		log := logger.Get()
		log.Warn().Err(err).Uint("plan_id", plan.ID).Msg("failed to presign plan URL")
		return
	}
	plan.FileURL = &url
}
