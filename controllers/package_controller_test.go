package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasmeem-studio/tasmeem-api/models"
)

func TestListPackages(t *testing.T) {
	db := setupTestDB(t)
	createTestPackage(t, db, 2, true)
	createTestPackage(t, db, 5, true)
	createTestPackage(t, db, 1, false)

	router := setupTestRouter()
	router.GET("/packages", ListPackages)

	w := doJSON(t, router, http.MethodGet, "/packages", nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := parseResponse(t, w)["data"].([]interface{})
	assert.Len(t, data, 2, "inactive packages stay off the order form")
}

func TestCreatePackage(t *testing.T) {
	db := setupTestDB(t)

	router := setupTestRouter()
	router.POST("/admin/packages", CreatePackage)

	t.Run("creates an active package by default", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/admin/packages", map[string]interface{}{
			"name_ar":        "الباقة الذهبية",
			"name_en":        "Gold Package",
			"price":          1500,
			"revisions":      5,
			"execution_days": 14,
		})
		require.Equal(t, http.StatusCreated, w.Code)

		data := parseResponse(t, w)["data"].(map[string]interface{})
		assert.Equal(t, true, data["active"])
		assert.Equal(t, "الباقة الذهبية", data["name_ar"])

		var stored models.Package
		require.NoError(t, db.Where("name_en = ?", "Gold Package").First(&stored).Error)
		assert.Equal(t, 5, stored.Revisions)
	})

	t.Run("zero execution days fails validation", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/admin/packages", map[string]interface{}{
			"name_ar":        "باقة",
			"name_en":        "Package",
			"price":          100,
			"execution_days": 0,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
	})
}

func TestUpdatePackage(t *testing.T) {
	db := setupTestDB(t)
	pkg := createTestPackage(t, db, 2, true)

	router := setupTestRouter()
	router.PUT("/admin/packages/:id", UpdatePackage)

	t.Run("deactivates a package", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPut, fmt.Sprintf("/admin/packages/%d", pkg.ID), map[string]interface{}{
			"name_ar":        pkg.NameAr,
			"name_en":        pkg.NameEn,
			"price":          pkg.Price,
			"revisions":      pkg.Revisions,
			"execution_days": pkg.ExecutionDays,
			"active":         false,
		})
		require.Equal(t, http.StatusOK, w.Code)

		var reloaded models.Package
		require.NoError(t, db.First(&reloaded, pkg.ID).Error)
		assert.False(t, reloaded.Active)
	})

	t.Run("unknown package is 404", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPut, "/admin/packages/9999", map[string]interface{}{
			"name_ar":        "باقة",
			"name_en":        "Package",
			"price":          100,
			"execution_days": 7,
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "PACKAGE_NOT_FOUND", errorCode(t, w))
	})
}
