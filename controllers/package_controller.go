package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tasmeem-studio/tasmeem-api/config"
	"github.com/tasmeem-studio/tasmeem-api/models"
	"github.com/tasmeem-studio/tasmeem-api/services"
)

// PackageRequest represents the request body for creating or updating a package
type PackageRequest struct {
	NameAr        string  `json:"name_ar" binding:"required"`
	NameEn        string  `json:"name_en" binding:"required"`
	Price         float64 `json:"price" binding:"required,gt=0"`
	Revisions     int     `json:"revisions" binding:"gte=0"`
	ExecutionDays int     `json:"execution_days" binding:"required,gt=0"`
	Active        *bool   `json:"active"`
	FeaturesJSON  string  `json:"features_json" binding:"omitempty"`
}

// ListPackages handles GET /api/v1/packages - lists orderable packages.
// The list is read on every order form render, so it is served from the
// short-TTL cache when possible.
func ListPackages(c *gin.Context) {
	cache := services.GetPackageCache()
	if cached := cache.GetActive(c.Request.Context()); cached != nil {
		respondOK(c, http.StatusOK, cached)
		return
	}

	db := config.GetDB()
	var packages []models.Package
	if err := db.Where("active = ?", true).Order("price ASC").Find(&packages).Error; err != nil {
		respondDatabaseError(c, err)
		return
	}

	cache.SetActive(c.Request.Context(), packages)
	respondOK(c, http.StatusOK, packages)
}

// CreatePackage handles POST /api/v1/admin/packages - creates a package (admins only)
func CreatePackage(c *gin.Context) {
	var req PackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "بيانات الباقة غير صحيحة")
		return
	}

	pkg := models.Package{
		NameAr:        req.NameAr,
		NameEn:        req.NameEn,
		Price:         req.Price,
		Revisions:     req.Revisions,
		ExecutionDays: req.ExecutionDays,
		Active:        true,
		FeaturesJSON:  req.FeaturesJSON,
	}
	if req.Active != nil {
		pkg.Active = *req.Active
	}

	db := config.GetDB()
	if err := db.Create(&pkg).Error; err != nil {
		respondDatabaseError(c, err)
		return
	}

	services.GetPackageCache().Invalidate(c.Request.Context())
	respondOK(c, http.StatusCreated, pkg)
}

// UpdatePackage handles PUT /api/v1/admin/packages/:id - updates a package (admins only)
func UpdatePackage(c *gin.Context) {
	var req PackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "بيانات الباقة غير صحيحة")
		return
	}

	db := config.GetDB()
	var pkg models.Package
	if err := db.First(&pkg, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "PACKAGE_NOT_FOUND", "الباقة غير موجودة")
		} else {
			respondDatabaseError(c, err)
		}
		return
	}

	updates := map[string]interface{}{
		"name_ar":        req.NameAr,
		"name_en":        req.NameEn,
		"price":          req.Price,
		"revisions":      req.Revisions,
		"execution_days": req.ExecutionDays,
		"features_json":  req.FeaturesJSON,
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}

	if err := db.Model(&pkg).Updates(updates).Error; err != nil {
		respondDatabaseError(c, err)
		return
	}

	services.GetPackageCache().Invalidate(c.Request.Context())

	if err := db.First(&pkg, pkg.ID).Error; err != nil {
		respondDatabaseError(c, err)
		return
	}
	respondOK(c, http.StatusOK, pkg)
}
