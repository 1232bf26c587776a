package jobs

import (
	"errors"
	"fmt"
	"mime/multipart"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tasmeem-studio/tasmeem-api/models"
	"github.com/tasmeem-studio/tasmeem-api/services"
)

func setupPurgeDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Package{},
		&models.Order{},
		&models.Plan{},
	))
	return db
}

func seedOrder(t *testing.T, db *gorm.DB, number string, status models.OrderStatus) models.Order {
	t.Helper()

	client := models.User{Name: "عميل", Email: number + "@example.com", PasswordHash: "x", Role: models.RoleClient}
	require.NoError(t, db.Create(&client).Error)
	pkg := models.Package{NameAr: "باقة", NameEn: "Package", Price: 100, Revisions: 2, ExecutionDays: 7, Active: true}
	require.NoError(t, db.Create(&pkg).Error)

	order := models.Order{
		OrderNumber: number,
		ClientID:    client.ID,
		PackageID:   pkg.ID,
		Status:      status,
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func seedPlan(t *testing.T, db *gorm.DB, orderID uint, key string, age time.Duration) models.Plan {
	t.Helper()

	plan := models.Plan{OrderID: orderID, FileKey: &key, Active: true}
	require.NoError(t, db.Create(&plan).Error)
	require.NoError(t, db.Model(&plan).Update("created_at", time.Now().Add(-age)).Error)
	return plan
}

func TestPurgeExpiredPlans(t *testing.T) {
	db := setupPurgeDB(t)
	mockS3 := services.NewMockS3Service()
	mockS3.SetAsMockForTesting()

	closed := seedOrder(t, db, "TSM-CLOSED", models.OrderClosed)
	archived := seedOrder(t, db, "TSM-ARCHIVED", models.OrderArchived)
	open := seedOrder(t, db, "TSM-OPEN", models.OrderInProgress)

	old := 120 * 24 * time.Hour
	fresh := 10 * 24 * time.Hour

	expired := seedPlan(t, db, closed.ID, "plans/closed/old.pdf", old)
	expiredArchived := seedPlan(t, db, archived.ID, "plans/archived/old.pdf", old)
	recent := seedPlan(t, db, closed.ID, "plans/closed/recent.pdf", fresh)
	openOld := seedPlan(t, db, open.ID, "plans/open/old.pdf", old)
	for _, key := range []string{"plans/closed/old.pdf", "plans/archived/old.pdf", "plans/closed/recent.pdf", "plans/open/old.pdf"} {
		mockS3.SeedFile(key, []byte("content"))
	}

	scheduler := NewScheduler(db, 90)
	scheduler.PurgeExpiredPlans()

	reload := func(id uint) models.Plan {
		var plan models.Plan
		require.NoError(t, db.First(&plan, id).Error)
		return plan
	}

	// Plans on closed or archived orders past retention are tombstoned and
	// their files removed.
	assert.NotNil(t, reload(expired.ID).PurgedAt)
	assert.False(t, mockS3.FileExists("plans/closed/old.pdf"))
	assert.NotNil(t, reload(expiredArchived.ID).PurgedAt)
	assert.False(t, mockS3.FileExists("plans/archived/old.pdf"))

	// Plans inside the window or on live orders are untouched.
	assert.Nil(t, reload(recent.ID).PurgedAt)
	assert.True(t, mockS3.FileExists("plans/closed/recent.pdf"))
	assert.Nil(t, reload(openOld.ID).PurgedAt)
	assert.True(t, mockS3.FileExists("plans/open/old.pdf"))

	// A second run finds nothing new to do.
	scheduler.PurgeExpiredPlans()
	assert.Nil(t, reload(recent.ID).PurgedAt)
}

// failingS3 refuses deletes so a purge run has to leave the row for retry.
type failingS3 struct{}

func (failingS3) UploadPlanFile(orderID uint, fileHeader *multipart.FileHeader) (string, error) {
	return "", errors.New("unavailable")
}

func (failingS3) GetPresignedURL(s3Key string) (string, error) {
	return "", errors.New("unavailable")
}

func (failingS3) DeleteFile(s3Key string) error {
	return fmt.Errorf("delete %s: unavailable", s3Key)
}

func TestPurgeSkipsPlanWhenDeleteFails(t *testing.T) {
	db := setupPurgeDB(t)
	services.SetS3Service(failingS3{})

	closed := seedOrder(t, db, "TSM-CLOSED", models.OrderClosed)
	plan := seedPlan(t, db, closed.ID, "plans/closed/stuck.pdf", 120*24*time.Hour)

	scheduler := NewScheduler(db, 90)
	scheduler.PurgeExpiredPlans()

	var reloaded models.Plan
	require.NoError(t, db.First(&reloaded, plan.ID).Error)
	assert.Nil(t, reloaded.PurgedAt, "row stays live until the file is actually gone")
}
