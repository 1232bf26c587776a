package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/tasmeem-studio/tasmeem-api/config"
	"github.com/tasmeem-studio/tasmeem-api/logger"
	"github.com/tasmeem-studio/tasmeem-api/models"
	"github.com/tasmeem-studio/tasmeem-api/services"
)

// RegisterRequest represents the request body for client registration
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"omitempty"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register handles POST /api/v1/auth/register - creates a client account.
// The role is always CLIENT here; engineers join via applications and
// admins are provisioned out of band.
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "بيانات التسجيل غير صحيحة")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log := logger.Get()
		log.Error().Err(err).Msg("failed to hash password")
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "حدث خطأ غير متوقع، يرجى المحاولة لاحقاً")
		return
	}

	user := models.User{
		Name:         req.Name,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:        req.Phone,
		PasswordHash: string(hash),
		Role:         models.RoleClient,
	}

	db := config.GetDB()
	if err := db.Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			respondError(c, http.StatusConflict, "EMAIL_EXISTS", "البريد الإلكتروني مسجل مسبقاً")
			return
		}
		respondDatabaseError(c, err)
		return
	}

	token, err := services.GetTokenService().Generate(&user)
	if err != nil {
		log := logger.Get()
		log.Error().Err(err).Uint("user_id", user.ID).Msg("failed to mint session token")
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "حدث خطأ غير متوقع، يرجى المحاولة لاحقاً")
		return
	}

	respondOK(c, http.StatusCreated, gin.H{"user": user, "token": token})
}

// Login handles POST /api/v1/auth/login - exchanges credentials for a session token
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "بيانات الدخول غير صحيحة")
		return
	}

	db := config.GetDB()
	var user models.User
	err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error
	// A wrong email and a wrong password produce the same response.
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		respondError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "البريد الإلكتروني أو كلمة المرور غير صحيحة")
		return
	}

	token, err := services.GetTokenService().Generate(&user)
	if err != nil {
		log := logger.Get()
		log.Error().Err(err).Uint("user_id", user.ID).Msg("failed to mint session token")
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "حدث خطأ غير متوقع، يرجى المحاولة لاحقاً")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"user": user, "token": token})
}

// isUniqueViolation detects duplicate-key failures from both PostgreSQL and
// the SQLite driver used in tests.
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique")
}
