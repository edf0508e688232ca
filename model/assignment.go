package model

import (
	"time"

	"gorm.io/gorm"
)

// Assignment types
const (
	AssignmentHomework = "homework"
	AssignmentQuiz     = "quiz"
	AssignmentProject  = "project"
	AssignmentExam     = "exam"
	AssignmentLab      = "lab"
)

// Assignment is coursework attached to a course, optionally to a module
type Assignment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	AssignmentID string `gorm:"uniqueIndex;type:varchar(20);not null" json:"assignment_id"` // external identifier, e.g. "ASG-4821"
	CourseID     uint   `gorm:"not null;index" json:"course_id"`
	ModuleID     *uint  `gorm:"index" json:"module_id,omitempty"`

	Title        string `gorm:"type:varchar(200);not null" json:"title"`
	Description  string `gorm:"type:text;not null" json:"description"`
	Instructions string `gorm:"type:text" json:"instructions,omitempty"`
	Type         string `gorm:"type:varchar(20);default:'homework'" json:"type"`

	MaxPoints   float64    `gorm:"default:100" json:"max_points"`
	DueDate     *time.Time `gorm:"index" json:"due_date,omitempty"`
	IsPublished bool       `gorm:"default:false;index" json:"is_published"`
	AllowLate   bool       `gorm:"default:false" json:"allow_late"`
	CreatedByID uint       `gorm:"not null;index" json:"created_by_id"`

	AttachmentURL string `gorm:"type:text" json:"attachment_url,omitempty"`
	AttachmentKey string `gorm:"type:varchar(500)" json:"-"`

	Course      Course       `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"course,omitempty"`
	Module      *CourseModule `gorm:"foreignKey:ModuleID;constraint:OnDelete:SET NULL" json:"-"`
	CreatedBy   User         `gorm:"foreignKey:CreatedByID;constraint:OnDelete:CASCADE" json:"-"`
	Submissions []Submission `gorm:"foreignKey:AssignmentID;constraint:OnDelete:CASCADE" json:"-"`
}

// Submission is a student's answer to an assignment, one per (user, assignment).
// Resubmitting overwrites the existing row and clears any grade.
type Submission struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SubmittedAt time.Time `gorm:"autoCreateTime" json:"submitted_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	UserID       uint `gorm:"not null;uniqueIndex:idx_user_assignment" json:"user_id"`
	AssignmentID uint `gorm:"not null;uniqueIndex:idx_user_assignment" json:"assignment_id"`

	Content  string `gorm:"type:text" json:"content,omitempty"`
	FileURL  string `gorm:"type:text" json:"file_url,omitempty"`
	FileKey  string `gorm:"type:varchar(500)" json:"-"`
	Filename string `gorm:"type:varchar(255)" json:"filename,omitempty"`
	IsLate   bool   `gorm:"default:false" json:"is_late"`

	Grade      *float64   `json:"grade,omitempty"` // points awarded, nil until graded
	Feedback   string     `gorm:"type:text" json:"feedback,omitempty"`
	IsGraded   bool       `gorm:"default:false" json:"is_graded"`
	GradedAt   *time.Time `json:"graded_at,omitempty"`
	GradedByID *uint      `gorm:"index" json:"graded_by_id,omitempty"`

	User       User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Assignment Assignment `gorm:"foreignKey:AssignmentID;constraint:OnDelete:CASCADE" json:"assignment,omitempty"`
	GradedBy   *User      `gorm:"foreignKey:GradedByID;constraint:OnDelete:SET NULL" json:"-"`
}

// IsPastDue reports whether the parent assignment's due date has passed
func (a *Assignment) IsPastDue(now time.Time) bool {
	return a.DueDate != nil && now.After(*a.DueDate)
}
