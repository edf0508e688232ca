package model

import (
	"time"

	"gorm.io/gorm"
)

// Skill is a portfolio skill with a 0-100 proficiency
type Skill struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `gorm:"uniqueIndex;type:varchar(100);not null" json:"name"`
	Proficiency int       `gorm:"not null" json:"proficiency"` // 0-100
	Icon        string    `gorm:"type:varchar(50)" json:"icon,omitempty"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
}

// Project statuses
const (
	ProjectCompleted  = "completed"
	ProjectInProgress = "in_progress"
	ProjectPlanned    = "planned"
	ProjectArchived   = "archived"
)

// Project is a personal portfolio project
type Project struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Title       string `gorm:"type:varchar(200);not null" json:"title"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Description string `gorm:"type:text;not null" json:"description"`
	ImageURL    string `gorm:"type:text" json:"image_url,omitempty"`
	URL         string `gorm:"type:text" json:"url,omitempty"` // live demo or repository
	Status      string `gorm:"type:varchar(20);default:'completed'" json:"status"`
	Tags        string `gorm:"type:varchar(200)" json:"tags,omitempty"`
	IsFeatured  bool   `gorm:"default:false" json:"is_featured"`

	Skills []Skill `gorm:"many2many:project_skills" json:"skills,omitempty"`
}

// Testimonial is a quote from a client, colleague, or student
type Testimonial struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	Author     string    `gorm:"type:varchar(100);not null" json:"author"`
	Role       string    `gorm:"type:varchar(100)" json:"role,omitempty"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	ImageURL   string    `gorm:"type:text" json:"image_url,omitempty"`
	IsFeatured bool      `gorm:"default:false" json:"is_featured"`
	UserID     *uint     `gorm:"index" json:"user_id,omitempty"`
	Rating     int       `gorm:"default:5" json:"rating"` // 1-5

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`
}

// Book is a recommended or authored book
type Book struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Title           string      `gorm:"type:varchar(255);not null" json:"title"`
	Author          string      `gorm:"type:varchar(255);not null" json:"author"`
	ISBN            *string     `gorm:"uniqueIndex;type:varchar(13)" json:"isbn,omitempty"`
	Genre           string      `gorm:"type:varchar(100)" json:"genre,omitempty"`
	Description     string      `gorm:"type:text" json:"description,omitempty"`
	CoverImageURL   string      `gorm:"type:text" json:"cover_image_url,omitempty"`
	PurchaseLink    string      `gorm:"type:text" json:"purchase_link,omitempty"`
	RecommendedByID *uint       `gorm:"index" json:"recommended_by_id,omitempty"`
	PublishedDate   *time.Time  `json:"published_date,omitempty"`
	IsFeatured      bool        `gorm:"default:false" json:"is_featured"`
	AccessLevel     AccessLevel `gorm:"type:varchar(20);default:'public'" json:"access_level"`

	RecommendedBy *User `gorm:"foreignKey:RecommendedByID;constraint:OnDelete:SET NULL" json:"-"`
}

// Contact message types
const (
	MessageGeneral   = "general"
	MessageCourse    = "course"
	MessageTechnical = "technical"
	MessageFeedback  = "feedback"
	MessageOther     = "other"
)

// ContactMessage is a message submitted through the contact form
type ContactMessage struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	Email       string    `gorm:"not null" json:"email"`
	Subject     string    `gorm:"type:varchar(200);not null" json:"subject"`
	Message     string    `gorm:"type:text;not null" json:"message"`
	MessageType string    `gorm:"type:varchar(20);default:'general'" json:"message_type"`
	IsRead      bool      `gorm:"default:false" json:"is_read"`
	IsResponded bool      `gorm:"default:false" json:"is_responded"`
	UserID      *uint     `gorm:"index" json:"user_id,omitempty"`
	CourseID    *uint     `gorm:"index" json:"course_id,omitempty"`

	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`
	Course *Course `gorm:"foreignKey:CourseID;constraint:OnDelete:SET NULL" json:"-"`
}

// Meeting types
const (
	MeetingOneOnOne      = "1-on-1"
	MeetingGroupLecture  = "group_lecture"
	MeetingDiscoveryCall = "discovery_call"
	MeetingOfficeHours   = "course_office_hours"
	MeetingCourseLecture = "course_lecture"
)

// Meeting is a bookable consultation or lecture slot
type Meeting struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Title        string    `gorm:"type:varchar(200);not null" json:"title"`
	Slug         string    `gorm:"uniqueIndex;not null" json:"slug"`
	Description  string    `gorm:"type:text;not null" json:"description"`
	MeetingType  string    `gorm:"type:varchar(20);default:'1-on-1'" json:"meeting_type"`
	StartsAt     time.Time `gorm:"not null;index" json:"starts_at"`
	EndsAt       *time.Time `json:"ends_at,omitempty"`
	OwnerID      uint      `gorm:"not null;index" json:"owner_id"`
	MeetingLink  string    `gorm:"type:text" json:"meeting_link,omitempty"`
	MaxAttendees *int      `json:"max_attendees,omitempty"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CourseID     *uint     `gorm:"index" json:"course_id,omitempty"`

	Owner    User             `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	Course   *Course          `gorm:"foreignKey:CourseID;constraint:OnDelete:SET NULL" json:"-"`
	Bookings []MeetingBooking `gorm:"foreignKey:MeetingID;constraint:OnDelete:CASCADE" json:"-"`
}

// MeetingBooking records a user's seat in a meeting, one per (meeting, user)
type MeetingBooking struct {
	MeetingID uint      `gorm:"primaryKey" json:"meeting_id"`
	UserID    uint      `gorm:"primaryKey" json:"user_id"`
	BookedAt  time.Time `gorm:"autoCreateTime" json:"booked_at"`

	Meeting Meeting `gorm:"foreignKey:MeetingID;constraint:OnDelete:CASCADE" json:"-"`
	User    User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
