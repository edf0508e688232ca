package cron

import (
	"fmt"
	"time"

	"github.com/rsichomba/portfolio-lms/model"
)

// PurgeExpiredVerifications deletes verification codes past their window
// plus anything already used
func (m *CronManager) PurgeExpiredVerifications() {
	jobName := "purge_expired_verifications"

	cutoff := time.Now().Add(-model.VerificationTTL)
	result := m.db.
		Where("created_at < ? OR is_used = ?", cutoff, true).
		Delete(&model.EmailVerification{})
	if result.Error != nil {
		m.logJobError(jobName, result.Error)
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Deleted %d verification codes", result.RowsAffected))
}

// RefreshCourseRatings recomputes each course's denormalized rating from
// its approved reviews
func (m *CronManager) RefreshCourseRatings() {
	jobName := "refresh_course_ratings"

	err := m.db.Exec(`
		UPDATE courses SET rating = COALESCE(sub.avg_rating, 0)
		FROM (
			SELECT course_id, AVG(rating) AS avg_rating
			FROM course_reviews
			WHERE is_approved = true
			GROUP BY course_id
		) sub
		WHERE courses.id = sub.course_id
	`).Error
	if err != nil {
		m.logJobError(jobName, err)
		return
	}

	m.logJobComplete(jobName, "Course ratings refreshed")
}

// ReconcileEnrollmentCounts repairs drift in the denormalized enrollment
// counters caused by the non-transactional enroll path
func (m *CronManager) ReconcileEnrollmentCounts() {
	jobName := "reconcile_enrollment_counts"

	err := m.db.Exec(`
		UPDATE courses SET enrollment_count = COALESCE(sub.cnt, 0)
		FROM (
			SELECT course_id, COUNT(*) AS cnt
			FROM enrollments
			WHERE status IN ('active', 'completed')
			GROUP BY course_id
		) sub
		WHERE courses.id = sub.course_id
	`).Error
	if err != nil {
		m.logJobError(jobName, err)
		return
	}

	m.logJobComplete(jobName, "Enrollment counters reconciled")
}

// CleanupOldData trims cron logs older than 30 days and contact messages
// that were read and responded to over a year ago
func (m *CronManager) CleanupOldData() {
	jobName := "cleanup_old_data"

	logCutoff := time.Now().AddDate(0, 0, -30)
	logs := m.db.Where("started_at < ?", logCutoff).Delete(&model.CronJobLog{})
	if logs.Error != nil {
		m.logJobError(jobName, logs.Error)
		return
	}

	msgCutoff := time.Now().AddDate(-1, 0, 0)
	msgs := m.db.
		Where("created_at < ? AND is_read = ? AND is_responded = ?", msgCutoff, true, true).
		Delete(&model.ContactMessage{})
	if msgs.Error != nil {
		m.logJobError(jobName, msgs.Error)
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Deleted %d cron logs, %d contact messages",
		logs.RowsAffected, msgs.RowsAffected))
}
