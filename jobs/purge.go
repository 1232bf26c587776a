// Package jobs holds the scheduled maintenance work. The only job today is
// the plan purge: deliverable files on closed orders are expensive to keep
// in S3 forever, so after the retention window the file is deleted and the
// plan row is tombstoned (PurgedAt set) while the record itself survives.
package jobs

import (
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/tasmeem-studio/tasmeem-api/logger"
	"github.com/tasmeem-studio/tasmeem-api/models"
	"github.com/tasmeem-studio/tasmeem-api/services"
)

// Scheduler runs the recurring jobs.
type Scheduler struct {
	cron          *cron.Cron
	db            *gorm.DB
	retentionDays int
}

// NewScheduler creates a scheduler with seconds-precision cron entries in UTC.
func NewScheduler(db *gorm.DB, retentionDays int) *Scheduler {
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithSeconds(),
		),
		db:            db,
		retentionDays: retentionDays,
	}
}

// Start registers the purge job on the given cron spec and starts the loop.
func (s *Scheduler) Start(purgeSpec string) error {
	if _, err := s.cron.AddFunc(purgeSpec, s.PurgeExpiredPlans); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop halts the cron loop.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// PurgeExpiredPlans tombstones plan files on closed or archived orders past
// the retention window. The S3 object is deleted; the plan row stays with
// PurgedAt set so history is preserved while the file reference is never
// surfaced again.
func (s *Scheduler) PurgeExpiredPlans() {
	log := logger.Get()
	cutoff := time.Now().AddDate(0, 0, -s.retentionDays)

	var plans []models.Plan
	err := s.db.
		Joins("JOIN orders ON orders.id = plans.order_id").
		Where("plans.purged_at IS NULL AND plans.file_key IS NOT NULL").
		Where("orders.status IN ?", []models.OrderStatus{models.OrderClosed, models.OrderArchived}).
		Where("plans.created_at < ?", cutoff).
		Find(&plans).Error
	if err != nil {
		log.Error().Err(err).Msg("purge: failed to list expired plans")
		return
	}

	s3Service := services.GetS3Service()
	purged := 0
	for i := range plans {
		plan := &plans[i]

		if s3Service != nil && plan.FileKey != nil {
			if err := s3Service.DeleteFile(*plan.FileKey); err != nil {
				log.Warn().Err(err).Uint("plan_id", plan.ID).Msg("purge: failed to delete plan file, will retry next run")
				continue
			}
		}

		now := time.Now()
		if err := s.db.Model(plan).Update("purged_at", now).Error; err != nil {
			log.Error().Err(err).Uint("plan_id", plan.ID).Msg("purge: failed to tombstone plan")
			continue
		}
		purged++
	}

	if purged > 0 || len(plans) > 0 {
		log.Info().Int("candidates", len(plans)).Int("purged", purged).Msg("plan purge run finished")
	}
}
