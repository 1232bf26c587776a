package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tasmeem-studio/tasmeem-api/config"
	"github.com/tasmeem-studio/tasmeem-api/middleware"
	"github.com/tasmeem-studio/tasmeem-api/models"
	"github.com/tasmeem-studio/tasmeem-api/policy"
	"github.com/tasmeem-studio/tasmeem-api/services"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Package{},
		&models.Order{},
		&models.Plan{},
		&models.RevisionRequest{},
		&models.Message{},
		&models.EngineerApplication{},
		&models.RevisionsPurchaseConfig{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	config.SetDB(db)
	config.SetConfig(&config.Config{
		GoEnv:      "test",
		AppBaseURL: "https://app.test",
	})
	services.SetPackageCache(nil)
	services.SetTokenService(services.NewTokenService("test-secret"))
	return db
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// principalMiddleware injects a resolved principal the same way RequireAuth
// does, bypassing token validation for handler tests.
func principalMiddleware(userID uint, role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetPrincipal(c, policy.Principal{UserID: userID, Role: role})
		c.Next()
	}
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	response := parseResponse(t, w)
	require.False(t, response["success"].(bool))
	errorData, ok := response["error"].(map[string]interface{})
	require.True(t, ok, "error payload missing")
	return errorData["code"].(string)
}

func createTestUser(t *testing.T, db *gorm.DB, role models.Role, email string) models.User {
	t.Helper()

	user := models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		Role:         role,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createTestPackage(t *testing.T, db *gorm.DB, revisions int, active bool) models.Package {
	t.Helper()

	pkg := models.Package{
		NameAr:        "باقة أساسية",
		NameEn:        "Basic",
		Price:         1500,
		Revisions:     revisions,
		ExecutionDays: 14,
		Active:        active,
	}
	require.NoError(t, db.Create(&pkg).Error)
	return pkg
}

func createTestOrder(t *testing.T, db *gorm.DB, client models.User, pkg models.Package, engineerID *uint, status models.OrderStatus) models.Order {
	t.Helper()

	order := models.Order{
		OrderNumber:        generateOrderNumber(),
		ClientID:           client.ID,
		EngineerID:         engineerID,
		PackageID:          pkg.ID,
		Status:             status,
		RemainingRevisions: pkg.Revisions,
		Deadline:           time.Now().AddDate(0, 0, pkg.ExecutionDays),
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}
