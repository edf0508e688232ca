package model

import (
	"time"

	"gorm.io/datatypes"
)

// Enrollment statuses
const (
	EnrollmentActive    = "active"
	EnrollmentPaused    = "paused"
	EnrollmentDropped   = "dropped"
	EnrollmentCompleted = "completed"
)

// Enrollment links a user to a course, one row per (user, course)
type Enrollment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	EnrolledAt time.Time `gorm:"autoCreateTime" json:"enrolled_at"`

	UserID   uint `gorm:"not null;uniqueIndex:idx_user_course_enrollment" json:"user_id"`
	CourseID uint `gorm:"not null;uniqueIndex:idx_user_course_enrollment" json:"course_id"`

	Status             string     `gorm:"type:varchar(20);default:'active'" json:"status"`
	Completed          bool       `gorm:"default:false" json:"completed"`
	CompletionDate     *time.Time `json:"completion_date,omitempty"`
	ProgressPercentage float64    `gorm:"default:0" json:"progress_percentage"` // 0-100

	CertificateIssued    bool       `gorm:"default:false" json:"certificate_issued"`
	CertificateIssueDate *time.Time `json:"certificate_issue_date,omitempty"`
	CertificateID        string     `gorm:"uniqueIndex;type:varchar(36)" json:"certificate_id"`

	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Course Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"course,omitempty"`
}

// UserProgress tracks a user's position within a course, one row per (user, course)
type UserProgress struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID   uint `gorm:"not null;uniqueIndex:idx_user_course_progress" json:"user_id"`
	CourseID uint `gorm:"not null;uniqueIndex:idx_user_course_progress" json:"course_id"`

	ChaptersCompleted    int   `gorm:"default:0" json:"chapters_completed"`
	TotalChapters        int   `gorm:"default:0" json:"total_chapters"`
	AssignmentsSubmitted int   `gorm:"default:0" json:"assignments_submitted"`
	TotalAssignments     int   `gorm:"default:0" json:"total_assignments"`
	CurrentChapter       uint  `gorm:"default:1" json:"current_chapter"`
	TimeSpent            int   `gorm:"default:0" json:"time_spent"` // minutes
	Grade                float64 `gorm:"default:0" json:"grade"`
	StreakDays           int   `gorm:"default:0" json:"streak_days"`

	LastAccessed time.Time `gorm:"autoUpdateTime" json:"last_accessed"`

	QuizScores       datatypes.JSON `json:"quiz_scores,omitempty"`
	CompletedModules datatypes.JSON `json:"completed_modules,omitempty"`
	CompletedLessons datatypes.JSON `json:"completed_lessons,omitempty"`
	CompletedQuizzes datatypes.JSON `json:"completed_quizzes,omitempty"`

	AverageQuizScore  float64 `gorm:"default:0" json:"average_quiz_score"`
	AssignmentAverage float64 `gorm:"default:0" json:"assignment_average"`

	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Course Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
}

// CalculateProgress returns the completion percentage, 0 when no chapters exist
func (p *UserProgress) CalculateProgress() float64 {
	if p.TotalChapters == 0 {
		return 0
	}
	return float64(p.ChaptersCompleted) / float64(p.TotalChapters) * 100
}

// Certificate is a course completion certificate, one per (user, course)
type Certificate struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	IssuedDate time.Time `gorm:"autoCreateTime" json:"issued_date"`

	UserID       uint `gorm:"not null;uniqueIndex:idx_user_course_certificate" json:"user_id"`
	CourseID     uint `gorm:"not null;uniqueIndex:idx_user_course_certificate" json:"course_id"`
	EnrollmentID uint `gorm:"uniqueIndex;not null" json:"enrollment_id"`

	CertificateID    string `gorm:"uniqueIndex;type:varchar(36);not null" json:"certificate_id"`
	DownloadURL      string `gorm:"type:text" json:"download_url,omitempty"`
	IsVerified       bool   `gorm:"default:true" json:"is_verified"`
	VerificationCode string `gorm:"type:varchar(20)" json:"verification_code,omitempty"`
	Grade            string `gorm:"type:varchar(10)" json:"grade,omitempty"`
	CompletionHours  int    `gorm:"default:0" json:"completion_hours"`

	User       User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Course     Course     `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"course,omitempty"`
	Enrollment Enrollment `gorm:"foreignKey:EnrollmentID;constraint:OnDelete:CASCADE" json:"-"`
}

// CourseReview is a star rating plus text, one per (user, course)
type CourseReview struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID   uint `gorm:"not null;uniqueIndex:idx_user_course_review" json:"user_id"`
	CourseID uint `gorm:"not null;uniqueIndex:idx_user_course_review" json:"course_id"`

	Rating       int    `gorm:"not null" json:"rating"` // 1-5
	Review       string `gorm:"type:text" json:"review,omitempty"`
	IsApproved   bool   `gorm:"default:true" json:"is_approved"`
	HelpfulCount int    `gorm:"default:0" json:"helpful_count"`

	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Course Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
}
