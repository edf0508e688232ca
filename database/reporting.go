package database

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/lib/pq"

	"github.com/rsichomba/portfolio-lms/config"
)

// ReportingStore runs the aggregate queries behind the stats endpoints
// over a plain database/sql connection. Keeping them as raw SQL avoids
// dragging GORM preloads into wide joins.
type ReportingStore struct {
	db *sql.DB
}

// StartReporting opens a read-only style connection for reporting queries
func StartReporting() (*ReportingStore, error) {
	env, err := config.Get()
	if err != nil {
		return nil, err
	}

	connectStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		env.DB_HOST, env.DB_PORT, env.DB_USER_NAME, env.DB_PASSWORD, env.DB_NAME, env.DB_SSL_MODE,
	)

	db, err := sql.Open("postgres", connectStr)
	if err != nil {
		log.Println("Unable to open reporting connection:", err)
		return nil, err
	}

	db.SetMaxOpenConns(5)

	return &ReportingStore{db: db}, nil
}

// Close closes the reporting connection
func (s *ReportingStore) Close() error {
	return s.db.Close()
}

// SiteStats is the public stats snapshot
type SiteStats struct {
	Users           int64 `json:"users"`
	Courses         int64 `json:"courses"`
	Enrollments     int64 `json:"enrollments"`
	BlogPosts       int64 `json:"blog_posts"`
	Documents       int64 `json:"documents"`
	CertificatesIssued int64 `json:"certificates_issued"`
}

// GetSiteStats returns headline counts for the public stats endpoint
func (s *ReportingStore) GetSiteStats() (*SiteStats, error) {
	stats := &SiteStats{}
	row := s.db.QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM users WHERE deleted_at IS NULL),
			(SELECT COUNT(*) FROM courses WHERE deleted_at IS NULL AND is_active = true),
			(SELECT COUNT(*) FROM enrollments),
			(SELECT COUNT(*) FROM blog_posts WHERE deleted_at IS NULL AND is_published = true),
			(SELECT COUNT(*) FROM documents WHERE deleted_at IS NULL AND is_published = true),
			(SELECT COUNT(*) FROM certificates)
	`)
	err := row.Scan(&stats.Users, &stats.Courses, &stats.Enrollments,
		&stats.BlogPosts, &stats.Documents, &stats.CertificatesIssued)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// CourseStatsRow is one course in the per-course report
type CourseStatsRow struct {
	CourseID        uint    `json:"course_id"`
	Title           string  `json:"title"`
	EnrollmentCount int64   `json:"enrollment_count"`
	CompletedCount  int64   `json:"completed_count"`
	AverageRating   float64 `json:"average_rating"`
	AverageProgress float64 `json:"average_progress"`
}

// ProgressStatsRow is one course in a student's own progress report
type ProgressStatsRow struct {
	CourseID          uint    `json:"course_id"`
	Title             string  `json:"title"`
	ChaptersCompleted int     `json:"chapters_completed"`
	TotalChapters     int     `json:"total_chapters"`
	Percent           float64 `json:"percent"`
	Completed         bool    `json:"completed"`
}

// GetUserProgressStats returns per-course progress for one student,
// feeding the dashboard chart.
func (s *ReportingStore) GetUserProgressStats(userID uint) ([]ProgressStatsRow, error) {
	rows, err := s.db.Query(`
		SELECT
			c.id,
			c.title,
			COALESCE(p.chapters_completed, 0),
			COALESCE(p.total_chapters, 0),
			COALESCE(p.chapters_completed::float / NULLIF(p.total_chapters, 0) * 100, 0),
			e.completed
		FROM enrollments e
		JOIN courses c ON c.id = e.course_id
		LEFT JOIN user_progresses p ON p.course_id = e.course_id AND p.user_id = e.user_id
		WHERE e.user_id = $1 AND c.deleted_at IS NULL
		ORDER BY e.enrolled_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ProgressStatsRow
	for rows.Next() {
		var r ProgressStatsRow
		if err := rows.Scan(&r.CourseID, &r.Title, &r.ChaptersCompleted,
			&r.TotalChapters, &r.Percent, &r.Completed); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetCourseStats aggregates enrollments, completions, ratings, and
// average progress per active course.
func (s *ReportingStore) GetCourseStats() ([]CourseStatsRow, error) {
	rows, err := s.db.Query(`
		SELECT
			c.id,
			c.title,
			COUNT(DISTINCT e.id),
			COUNT(DISTINCT e.id) FILTER (WHERE e.completed),
			COALESCE(AVG(r.rating), 0),
			COALESCE(AVG(p.chapters_completed::float / NULLIF(p.total_chapters, 0) * 100), 0)
		FROM courses c
		LEFT JOIN enrollments e ON e.course_id = c.id
		LEFT JOIN course_reviews r ON r.course_id = c.id AND r.is_approved
		LEFT JOIN user_progresses p ON p.course_id = c.id
		WHERE c.deleted_at IS NULL AND c.is_active = true
		GROUP BY c.id, c.title
		ORDER BY COUNT(DISTINCT e.id) DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CourseStatsRow
	for rows.Next() {
		var r CourseStatsRow
		if err := rows.Scan(&r.CourseID, &r.Title, &r.EnrollmentCount,
			&r.CompletedCount, &r.AverageRating, &r.AverageProgress); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
