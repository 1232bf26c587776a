package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tasmeem-studio/tasmeem-api/config"
	"github.com/tasmeem-studio/tasmeem-api/middleware"
	"github.com/tasmeem-studio/tasmeem-api/models"
	"github.com/tasmeem-studio/tasmeem-api/policy"
)

// respondOK writes the success envelope.
func respondOK(c *gin.Context, status int, data interface{}) {
	c.PureJSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

// respondError writes the failure envelope. Messages are user-facing and
// Arabic; internal detail stays in logs.
func respondError(c *gin.Context, status int, code, message string) {
	c.PureJSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func respondUnauthorized(c *gin.Context) {
	respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "يجب تسجيل الدخول أولاً")
}

func respondForbidden(c *gin.Context) {
	respondError(c, http.StatusForbidden, "FORBIDDEN", "ليس لديك صلاحية للوصول إلى هذا المورد")
}

func respondDatabaseError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := "INTERNAL_ERROR"
	if errors.Is(err, gorm.ErrInvalidDB) {
		status = http.StatusServiceUnavailable
		code = "DEPENDENCY_UNAVAILABLE"
	}
	respondError(c, status, code, "حدث خطأ غير متوقع، يرجى المحاولة لاحقاً")
}

// loadOrderForPrincipal resolves the principal, loads the order named in
// the :id route param and applies the access policy, in that order:
// no principal → 401 before any lookup, missing order → 404, present but
// disallowed → 403. Returns ok=false after writing the response.
func loadOrderForPrincipal(c *gin.Context) (policy.Principal, *models.Order, bool) {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		respondUnauthorized(c)
		return policy.Principal{}, nil, false
	}

	orderID := c.Param("id")
	if orderID == "" {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "رقم الطلب مطلوب")
		return policy.Principal{}, nil, false
	}

	db := config.GetDB()
	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "ORDER_NOT_FOUND", "الطلب غير موجود")
		} else {
			respondDatabaseError(c, err)
		}
		return policy.Principal{}, nil, false
	}

	if !policy.CanAccessOrder(principal, &order) {
		respondForbidden(c)
		return policy.Principal{}, nil, false
	}

	return principal, &order, true
}
