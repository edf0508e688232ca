package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Course difficulty levels
const (
	DifficultyIntroductory = "introductory"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
	DifficultyExpert       = "expert"
)

// Course levels
const (
	LevelHighSchool    = "highschool"
	LevelUndergraduate = "undergraduate"
	LevelPostgraduate  = "postgraduate"
	LevelCertificate   = "certificate"
	LevelProfessional  = "professional"
)

// Course is a course offered through the portfolio, taught by an instructor
type Course struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	CourseID            string `gorm:"uniqueIndex;type:varchar(20);not null" json:"course_id"` // external identifier, e.g. "CS101-4821"
	CourseCode          string `gorm:"type:varchar(20);not null" json:"course_code"`
	Title               string `gorm:"type:varchar(200);not null" json:"title"`
	Slug                string `gorm:"uniqueIndex;not null" json:"slug"`
	Description         string `gorm:"type:text;not null" json:"description"`
	DetailedDescription string `gorm:"type:text" json:"detailed_description,omitempty"`

	School       string `gorm:"type:varchar(50)" json:"school"`
	Department   string `gorm:"type:varchar(100)" json:"department"`
	InstructorID uint   `gorm:"not null;index" json:"instructor_id"`

	Credits    int    `gorm:"default:3" json:"credits"`
	Level      string `gorm:"type:varchar(20);default:'undergraduate'" json:"level"`
	Duration   string `gorm:"type:varchar(50);default:'14 weeks'" json:"duration"`
	Difficulty string `gorm:"type:varchar(20);default:'intermediate'" json:"difficulty"`

	// Denormalized counters, maintained with plain read-modify-write updates
	EnrollmentCount int     `gorm:"default:0" json:"enrollment_count"`
	Rating          float64 `gorm:"default:0" json:"rating"` // 0-5, refreshed from reviews
	Views           int     `gorm:"default:0" json:"views"`

	Prerequisites    datatypes.JSON `json:"prerequisites,omitempty"`
	LearningOutcomes datatypes.JSON `json:"learning_outcomes,omitempty"`
	Syllabus         datatypes.JSON `json:"syllabus,omitempty"`

	ThumbnailURL string `gorm:"type:text" json:"thumbnail_url,omitempty"`
	ThumbnailKey string `gorm:"type:varchar(500)" json:"-"`
	PromoVideo   string `gorm:"type:text" json:"promo_video,omitempty"`

	IsActive            bool `gorm:"default:true;index" json:"is_active"`
	IsFeatured          bool `gorm:"default:false" json:"is_featured"`
	IsOpenForEnrollment bool `gorm:"default:true" json:"is_open_for_enrollment"`

	Price  float64 `gorm:"default:0" json:"price"`
	IsFree bool    `gorm:"default:true" json:"is_free"`

	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`

	Instructor  User           `gorm:"foreignKey:InstructorID;constraint:OnDelete:CASCADE" json:"instructor,omitempty"`
	Modules     []CourseModule `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"modules,omitempty"`
	Enrollments []Enrollment   `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
	Assignments []Assignment   `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
	Reviews     []CourseReview `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
	Skills      []Skill        `gorm:"many2many:course_skills" json:"skills,omitempty"`
}

// CourseModule is an ordered chapter within a course
type CourseModule struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CourseID    uint   `gorm:"not null;index:idx_course_order,unique" json:"course_id"`
	Title       string `gorm:"type:varchar(200);not null" json:"title"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	Order       int    `gorm:"not null;default:0;index:idx_course_order,unique" json:"order"`
	IsPublished bool   `gorm:"default:true" json:"is_published"`

	Course  Course   `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
	Lessons []Lesson `gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE" json:"lessons,omitempty"`
}

// Lesson is an ordered unit within a module
type Lesson struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ModuleID           uint   `gorm:"not null;index:idx_module_order,unique" json:"module_id"`
	Title              string `gorm:"type:varchar(200);not null" json:"title"`
	Slug               string `gorm:"index;not null" json:"slug"`
	Content            string `gorm:"type:text" json:"content,omitempty"`
	VideoURL           string `gorm:"type:text" json:"video_url,omitempty"`
	DurationMinutes    int    `gorm:"default:0" json:"duration_minutes"`
	Order              int    `gorm:"not null;default:0;index:idx_module_order,unique" json:"order"`
	IsPublished        bool   `gorm:"default:true" json:"is_published"`
	RequiresCompletion bool   `gorm:"default:true" json:"requires_completion"`

	Module    CourseModule `gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE" json:"-"`
	Documents []Document   `gorm:"many2many:lesson_documents" json:"documents,omitempty"`
}
