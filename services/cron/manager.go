package cron

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/rsichomba/portfolio-lms/model"
)

// CronManager runs the scheduled maintenance jobs
type CronManager struct {
	cron *cron.Cron
	db   *gorm.DB
}

// NewCronManager creates a new cron manager
func NewCronManager(db *gorm.DB) *CronManager {
	return &CronManager{
		cron: cron.New(cron.WithSeconds()),
		db:   db,
	}
}

// Start registers and starts all jobs
func (m *CronManager) Start() error {
	log.Println("Starting cron jobs...")

	if err := m.registerJobs(); err != nil {
		return err
	}
	m.cron.Start()

	log.Println("Cron jobs started successfully")
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (m *CronManager) Stop() {
	log.Println("Stopping cron jobs...")
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Println("Cron jobs stopped")
}

func (m *CronManager) registerJobs() error {
	// Hourly: purge expired verification codes
	_, err := m.cron.AddFunc("0 0 * * * *", func() {
		m.logJobStart("purge_expired_verifications")
		m.PurgeExpiredVerifications()
	})
	if err != nil {
		return err
	}

	// Every 6 hours: refresh denormalized course ratings from reviews
	_, err = m.cron.AddFunc("0 0 */6 * * *", func() {
		m.logJobStart("refresh_course_ratings")
		m.RefreshCourseRatings()
	})
	if err != nil {
		return err
	}

	// Daily at 3 AM: reconcile enrollment counters against actual rows
	_, err = m.cron.AddFunc("0 0 3 * * *", func() {
		m.logJobStart("reconcile_enrollment_counts")
		m.ReconcileEnrollmentCounts()
	})
	if err != nil {
		return err
	}

	// Daily at 4 AM: trim old cron logs and read contact messages
	_, err = m.cron.AddFunc("0 0 4 * * *", func() {
		m.logJobStart("cleanup_old_data")
		m.CleanupOldData()
	})
	if err != nil {
		return err
	}

	log.Println("All cron jobs registered successfully")
	return nil
}

func (m *CronManager) logJobStart(jobName string) {
	log.Printf("[CRON] Starting job: %s at %s", jobName, time.Now().Format(time.RFC3339))
	m.db.Create(&model.CronJobLog{
		JobName:   jobName,
		Status:    model.CronStatusRunning,
		StartedAt: time.Now(),
	})
}

func (m *CronManager) logJobComplete(jobName, detail string) {
	log.Printf("[CRON] Completed job: %s - %s", jobName, detail)
	now := time.Now()
	m.db.Model(&model.CronJobLog{}).
		Where("job_name = ? AND status = ?", jobName, model.CronStatusRunning).
		Order("started_at DESC").
		Limit(1).
		Updates(map[string]interface{}{
			"status":      model.CronStatusSuccess,
			"finished_at": now,
			"detail":      detail,
		})
}

func (m *CronManager) logJobError(jobName string, err error) {
	log.Printf("[CRON] Error in job: %s - %v", jobName, err)
	now := time.Now()
	m.db.Model(&model.CronJobLog{}).
		Where("job_name = ? AND status = ?", jobName, model.CronStatusRunning).
		Order("started_at DESC").
		Limit(1).
		Updates(map[string]interface{}{
			"status":      model.CronStatusFailed,
			"finished_at": now,
			"error":       err.Error(),
		})
}
