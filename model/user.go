package model

import (
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User roles
const (
	RoleVisitor    = "visitor"
	RoleStudent    = "student"
	RoleInstructor = "instructor"
	RoleParent     = "parent"
	RoleAdmin      = "admin"
)

// Schools
const (
	SchoolMathNaturalSciences = "school_mathematics_natural_sciences"
	SchoolBuiltEnvironment    = "school_built_environment"
	SchoolBusinessHumanities  = "school_business_humanities"
	SchoolNone                = "none"
)

// User represents a registered user. Email is the login key. A visitor is a
// plain portfolio reader; student/instructor/parent/admin belong to the
// course-management side.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"` // Never expose password in JSON
	Username     string `gorm:"type:varchar(150)" json:"username"`
	FirstName    string `gorm:"type:varchar(100)" json:"first_name"`
	LastName     string `gorm:"type:varchar(100)" json:"last_name"`
	Phone        string `gorm:"type:varchar(20)" json:"phone,omitempty"`

	Role          string `gorm:"type:varchar(20);default:'visitor'" json:"role"`
	School        string `gorm:"type:varchar(50)" json:"school,omitempty"`
	Department    string `gorm:"type:varchar(100)" json:"department,omitempty"`
	YearOfStudy   int    `json:"year_of_study,omitempty"`
	StudentID     string `gorm:"type:varchar(20)" json:"student_id,omitempty"`
	ParentEmail   string `json:"parent_email,omitempty"`
	Institution   string `gorm:"type:varchar(200)" json:"institution,omitempty"`
	EmailVerified bool   `gorm:"default:false" json:"email_verified"`
	IsStaff       bool   `gorm:"default:false" json:"is_staff"`

	// Portfolio profile
	Bio               string         `gorm:"type:text" json:"bio,omitempty"`
	ProfilePictureURL string         `gorm:"type:text" json:"profile_picture_url,omitempty"`
	ProfilePictureKey string         `gorm:"type:varchar(500)" json:"-"`
	Website           string         `gorm:"type:text" json:"website,omitempty"`
	Location          string         `gorm:"type:varchar(100)" json:"location,omitempty"`
	ProfileData       datatypes.JSON `json:"profile_data,omitempty"`

	TokenVersion int `gorm:"default:0" json:"-"` // Increment to invalidate all user tokens

	// Relationships
	Enrollments        []Enrollment       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	BlogPosts          []BlogPost         `gorm:"foreignKey:AuthorID" json:"-"`
	Notes              []Note             `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	Documents          []Document         `gorm:"foreignKey:OwnerID" json:"-"`
	Submissions        []Submission       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Certificates       []Certificate      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	EmailVerifications []EmailVerification `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	InstructedCourses  []Course            `gorm:"foreignKey:InstructorID" json:"-"`
	ParentConnections  []ParentConnection  `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"-"`
}

func (User) TableName() string { return "users" }

// IsInstructor reports whether the user teaches courses
func (u *User) IsInstructor() bool { return u.Role == RoleInstructor }

// IsStudent reports whether the user is a course student
func (u *User) IsStudent() bool { return u.Role == RoleStudent }

// Staff users bypass access-level checks (admins and flagged accounts)
func (u *User) Staff() bool { return u.IsStaff || u.Role == RoleAdmin }

// DisplayName prefers full name, then username, then the email local part
func (u *User) DisplayName() string {
	full := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if full != "" {
		return full
	}
	if u.Username != "" {
		return u.Username
	}
	if i := strings.IndexByte(u.Email, '@'); i > 0 {
		return u.Email[:i]
	}
	return u.Email
}

// Email verification purposes
const (
	VerificationEmail      = "email_verification"
	VerificationPassword   = "password_reset"
	VerificationEnrollment = "enrollment_confirmation"
)

// EmailVerification stores a short-lived 6-digit code sent to the user
type EmailVerification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Code      string    `gorm:"type:varchar(6);not null" json:"-"`
	IsUsed    bool      `gorm:"default:false" json:"is_used"`
	Purpose   string    `gorm:"type:varchar(30);default:'email_verification'" json:"purpose"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// VerificationTTL is how long a code stays valid
const VerificationTTL = 24 * time.Hour

// IsExpired reports whether the code is past its 24h window
func (v *EmailVerification) IsExpired() bool {
	return time.Now().After(v.CreatedAt.Add(VerificationTTL))
}
