package model

import (
	"time"

	"gorm.io/gorm"
)

// AccessLevel is the visibility tier on a content row
type AccessLevel string

const (
	AccessPublic         AccessLevel = "public"
	AccessRegistered     AccessLevel = "registered"
	AccessPrivate        AccessLevel = "private"
	AccessCourseStudents AccessLevel = "course_students"
)

// BlogPost categories
const (
	BlogCategoryWebDev        = "web_dev"
	BlogCategoryDesign        = "design"
	BlogCategoryCareer        = "career"
	BlogCategoryTutorial      = "tutorial"
	BlogCategoryPersonal      = "personal"
	BlogCategoryTechReview    = "tech_review"
	BlogCategoryCourseRelated = "course_related"
)

// BlogPost is a long-form article, optionally tied to a course
type BlogPost struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Title       string      `gorm:"type:varchar(200);not null" json:"title"`
	Slug        string      `gorm:"uniqueIndex;not null" json:"slug"`
	Content     string      `gorm:"type:text;not null" json:"content"`
	AuthorID    *uint       `gorm:"index" json:"author_id,omitempty"`
	Category    string      `gorm:"type:varchar(50);default:'web_dev'" json:"category"`
	ImageURL    string      `gorm:"type:text" json:"image_url,omitempty"`
	IsPublished bool        `gorm:"default:false;index" json:"is_published"`
	Tags        string      `gorm:"type:varchar(200)" json:"tags,omitempty"`
	AccessLevel AccessLevel `gorm:"type:varchar(20);default:'public'" json:"access_level"`
	ReadTime    int         `gorm:"default:5" json:"read_time"` // minutes
	Views       int         `gorm:"default:0" json:"views"`
	CourseID    *uint       `gorm:"index" json:"course_id,omitempty"`

	Author *User   `gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL" json:"author,omitempty"`
	Course *Course `gorm:"foreignKey:CourseID;constraint:OnDelete:SET NULL" json:"course,omitempty"`
}

// Note is a short article; defaults to registered-only visibility
type Note struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Title       string      `gorm:"type:varchar(200);not null" json:"title"`
	Slug        string      `gorm:"uniqueIndex;not null" json:"slug"`
	Content     string      `gorm:"type:text;not null" json:"content"`
	AuthorID    uint        `gorm:"not null;index" json:"author_id"`
	IsPublished bool        `gorm:"default:false;index" json:"is_published"`
	AccessLevel AccessLevel `gorm:"type:varchar(20);default:'registered'" json:"access_level"`
	CourseID    *uint       `gorm:"index" json:"course_id,omitempty"`
	Tags        string      `gorm:"type:varchar(200)" json:"tags,omitempty"`

	Author User    `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Course *Course `gorm:"foreignKey:CourseID;constraint:OnDelete:SET NULL" json:"course,omitempty"`
}

// DocumentType classifies an uploaded file
type DocumentType string

const (
	DocumentTypePDF          DocumentType = "pdf"
	DocumentTypeSlides       DocumentType = "slides"
	DocumentTypeEbook        DocumentType = "ebook"
	DocumentTypeAssignment   DocumentType = "assignment"
	DocumentTypeLectureNotes DocumentType = "lecture_notes"
	DocumentTypeOther        DocumentType = "other"
)

// Document is an uploaded file (PDF, slides, lecture notes) stored in Spaces
type Document struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Title       string       `gorm:"type:varchar(200);not null" json:"title"`
	Slug        string       `gorm:"uniqueIndex;not null" json:"slug"`
	Description string       `gorm:"type:text" json:"description,omitempty"`
	Type        DocumentType `gorm:"type:varchar(20);default:'pdf'" json:"type"`
	Filename    string       `gorm:"not null" json:"filename"`
	SpacesURL   string       `gorm:"not null" json:"spaces_url"` // public URL in Spaces
	SpacesKey   string       `gorm:"not null" json:"-"`          // S3-style object key
	FileSize    int64        `gorm:"default:0" json:"file_size"` // bytes
	PageCount   int          `gorm:"default:0" json:"page_count"`

	OwnerID       *uint       `gorm:"index" json:"owner_id,omitempty"`
	IsPublished   bool        `gorm:"default:false;index" json:"is_published"`
	AccessLevel   AccessLevel `gorm:"type:varchar(20);default:'registered'" json:"access_level"`
	CourseID      *uint       `gorm:"index" json:"course_id,omitempty"`
	DownloadCount int         `gorm:"default:0" json:"download_count"`

	Owner  *User   `gorm:"foreignKey:OwnerID;constraint:OnDelete:SET NULL" json:"owner,omitempty"`
	Course *Course `gorm:"foreignKey:CourseID;constraint:OnDelete:SET NULL" json:"course,omitempty"`
}
