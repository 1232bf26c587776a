package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tasmeem-studio/tasmeem-api/config"
	"github.com/tasmeem-studio/tasmeem-api/middleware"
	"github.com/tasmeem-studio/tasmeem-api/models"
	"github.com/tasmeem-studio/tasmeem-api/policy"
)

// UpdateUserRequest represents the request body for updating a profile
type UpdateUserRequest struct {
	Name  string `json:"name" binding:"omitempty"`
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone" binding:"omitempty"`
}

// UpdateRoleRequest represents the request body for an admin role change
type UpdateRoleRequest struct {
	Role models.Role `json:"role" binding:"required"`
}

// GetMyProfile handles GET /api/v1/users/me - gets current user's profile
func GetMyProfile(c *gin.Context) {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	db := config.GetDB()
	var user models.User
	if err := db.First(&user, principal.UserID).Error; err != nil {
		respondError(c, http.StatusNotFound, "USER_NOT_FOUND", "الحساب غير موجود")
		return
	}

	respondOK(c, http.StatusOK, user)
}

// UpdateMyProfile handles PUT /api/v1/users/me - updates current user's profile
func UpdateMyProfile(c *gin.Context) {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "بيانات غير صحيحة")
		return
	}

	db := config.GetDB()
	var user models.User
	if err := db.First(&user, principal.UserID).Error; err != nil {
		respondError(c, http.StatusNotFound, "USER_NOT_FOUND", "الحساب غير موجود")
		return
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Email != "" {
		updates["email"] = strings.ToLower(strings.TrimSpace(req.Email))
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}

	if len(updates) == 0 {
		respondOK(c, http.StatusOK, user)
		return
	}

	if err := db.Model(&user).Updates(updates).Error; err != nil {
		if isUniqueViolation(err) {
			respondError(c, http.StatusConflict, "EMAIL_EXISTS", "البريد الإلكتروني مسجل مسبقاً")
			return
		}
		respondDatabaseError(c, err)
		return
	}

	if err := db.First(&user, principal.UserID).Error; err != nil {
		respondDatabaseError(c, err)
		return
	}

	respondOK(c, http.StatusOK, user)
}

// ListUsers handles GET /api/v1/admin/users - lists accounts (admins only)
func ListUsers(c *gin.Context) {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}
	if !policy.CanManageUsers(principal) {
		respondForbidden(c)
		return
	}

	db := config.GetDB()
	query := db.Order("created_at DESC")
	if role := models.Role(c.Query("role")); role != "" {
		if !role.Valid() {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "الدور المطلوب غير معروف")
			return
		}
		query = query.Where("role = ?", role)
	}

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		respondDatabaseError(c, err)
		return
	}

	respondOK(c, http.StatusOK, users)
}

// UpdateUserRole handles PUT /api/v1/admin/users/:id/role - changes a user's
// role. Only admins may move an account between roles.
func UpdateUserRole(c *gin.Context) {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}
	if !policy.CanManageUsers(principal) {
		respondForbidden(c)
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Role.Valid() {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "الدور المطلوب غير معروف")
		return
	}

	db := config.GetDB()
	var user models.User
	if err := db.First(&user, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "USER_NOT_FOUND", "الحساب غير موجود")
		} else {
			respondDatabaseError(c, err)
		}
		return
	}

	if err := db.Model(&user).Update("role", req.Role).Error; err != nil {
		respondDatabaseError(c, err)
		return
	}

	user.Role = req.Role
	respondOK(c, http.StatusOK, user)
}
