package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tasmeem-studio/tasmeem-api/config"
	"github.com/tasmeem-studio/tasmeem-api/logger"
	"github.com/tasmeem-studio/tasmeem-api/middleware"
	"github.com/tasmeem-studio/tasmeem-api/models"
	"github.com/tasmeem-studio/tasmeem-api/policy"
	"github.com/tasmeem-studio/tasmeem-api/services"
)

// InviteEngineerRequest represents the request body for an invitation
type InviteEngineerRequest struct {
	Email string `json:"email" binding:"omitempty,email"`
	Notes string `json:"notes" binding:"omitempty"`
}

// ApplyRequest represents the request body filled in by an invitee
type ApplyRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"omitempty"`
	Password string `json:"password" binding:"required,min=8"`
}

// ReviewApplicationRequest represents the request body for an admin review
type ReviewApplicationRequest struct {
	Action string `json:"action" binding:"required,oneof=approve reject"`
	Notes  string `json:"notes" binding:"omitempty"`
}

// InviteEngineer handles POST /api/v1/admin/applications/invite - an admin
// generates a token-bearing pending application and a shareable link.
// When an email is given the invitation is also mailed; mail failure does
// not fail the invite.
func InviteEngineer(c *gin.Context) {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}
	if !policy.CanReviewApplications(principal) {
		respondForbidden(c)
		return
	}

	var req InviteEngineerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "بيانات الدعوة غير صحيحة")
		return
	}

	application := models.EngineerApplication{
		Token:  uuid.NewString(),
		Status: models.ApplicationPending,
	}
	if req.Notes != "" {
		application.Notes = &req.Notes
	}

	db := config.GetDB()
	if err := db.Create(&application).Error; err != nil {
		respondDatabaseError(c, err)
		return
	}

	inviteLink := fmt.Sprintf("%s/applications/%s", strings.TrimRight(config.GetConfig().AppBaseURL, "/"), application.Token)

	if req.Email != "" {
		if mailer := services.GetMailService(); mailer != nil {
			if err := mailer.SendEngineerInvitation(req.Email, inviteLink); err != nil {
				log := logger.Get()
				log.Warn().Err(err).Str("email", req.Email).Msg("failed to send invitation email")
			}
		}
	}

	respondOK(c, http.StatusCreated, gin.H{
		"application": application,
		"invite_link": inviteLink,
	})
}

// ListApplications handles GET /api/v1/admin/applications - lists
// applications (admins only)
func ListApplications(c *gin.Context) {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}
	if !policy.CanReviewApplications(principal) {
		respondForbidden(c)
		return
	}

	db := config.GetDB()
	var applications []models.EngineerApplication
	query := db.Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&applications).Error; err != nil {
		respondDatabaseError(c, err)
		return
	}

	respondOK(c, http.StatusOK, applications)
}

// Apply handles POST /api/v1/applications/:token/apply - the invitee fills
// in their application. The token is the capability; no session is needed.
func Apply(c *gin.Context) {
	var req ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "بيانات الطلب غير صحيحة")
		return
	}

	db := config.GetDB()
	var application models.EngineerApplication
	if err := db.Where("token = ?", c.Param("token")).First(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "APPLICATION_NOT_FOUND", "الدعوة غير موجودة")
		} else {
			respondDatabaseError(c, err)
		}
		return
	}

	if application.Status != models.ApplicationPending {
		respondError(c, http.StatusConflict, "ALREADY_REVIEWED", "تمت مراجعة هذا الطلب مسبقاً")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log := logger.Get()
		log.Error().Err(err).Msg("failed to hash password")
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "حدث خطأ غير متوقع، يرجى المحاولة لاحقاً")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	hashStr := string(hash)
	application.Name = &req.Name
	application.Email = &email
	application.PasswordHash = &hashStr
	if req.Phone != "" {
		application.Phone = &req.Phone
	}

	if err := db.Save(&application).Error; err != nil {
		respondDatabaseError(c, err)
		return
	}

	respondOK(c, http.StatusOK, application)
}

// ReviewApplication handles POST /api/v1/admin/applications/:id/review -
// an admin approves or rejects a pending application. Reviewing happens
// exactly once: a second review of the same application conflicts.
// Approval provisions the engineer account from the applicant fields.
func ReviewApplication(c *gin.Context) {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}
	if !policy.CanReviewApplications(principal) {
		respondForbidden(c)
		return
	}

	var req ReviewApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "بيانات المراجعة غير صحيحة")
		return
	}

	db := config.GetDB()
	var application models.EngineerApplication
	if err := db.First(&application, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "APPLICATION_NOT_FOUND", "الطلب غير موجود")
		} else {
			respondDatabaseError(c, err)
		}
		return
	}

	if application.Status != models.ApplicationPending {
		respondError(c, http.StatusConflict, "ALREADY_REVIEWED", "تمت مراجعة هذا الطلب مسبقاً")
		return
	}

	status := models.ApplicationRejected
	if req.Action == "approve" {
		status = models.ApplicationApproved
		if application.Email == nil || application.PasswordHash == nil || application.Name == nil {
			respondError(c, http.StatusConflict, "APPLICATION_INCOMPLETE", "لا يمكن قبول طلب لم يكتمل بعد")
			return
		}
	}

	now := time.Now()
	reviewer := principal.UserID

	err = db.Transaction(func(tx *gorm.DB) error {
		// Guarded flip: only a still-pending row transitions, so two
		// concurrent reviews resolve to exactly one.
		updates := map[string]interface{}{
			"status":      status,
			"reviewed_by": reviewer,
			"reviewed_at": now,
		}
		if req.Notes != "" {
			updates["notes"] = req.Notes
		}
		result := tx.Model(&models.EngineerApplication{}).
			Where("id = ? AND status = ?", application.ID, models.ApplicationPending).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errAlreadyReviewed
		}

		if status != models.ApplicationApproved {
			return nil
		}

		phone := ""
		if application.Phone != nil {
			phone = *application.Phone
		}
		engineer := models.User{
			Name:         *application.Name,
			Email:        *application.Email,
			Phone:        phone,
			PasswordHash: *application.PasswordHash,
			Role:         models.RoleEngineer,
		}
		return tx.Create(&engineer).Error
	})
	if errors.Is(err, errAlreadyReviewed) {
		respondError(c, http.StatusConflict, "ALREADY_REVIEWED", "تمت مراجعة هذا الطلب مسبقاً")
		return
	}
	if err != nil {
		if isUniqueViolation(err) {
			respondError(c, http.StatusConflict, "EMAIL_EXISTS", "البريد الإلكتروني مسجل مسبقاً")
			return
		}
		respondDatabaseError(c, err)
		return
	}

	if err := db.First(&application, application.ID).Error; err != nil {
		respondDatabaseError(c, err)
		return
	}

	respondOK(c, http.StatusOK, application)
}

var errAlreadyReviewed = errors.New("application already reviewed")
