package model

import "time"

// ParentConnection links a parent account to a student account, one row per
// (parent, student). Created unverified; the student's side is confirmed with
// an emailed code.
type ParentConnection struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ParentID  uint `gorm:"not null;uniqueIndex:idx_parent_student" json:"parent_id"`
	StudentID uint `gorm:"not null;uniqueIndex:idx_parent_student" json:"student_id"`

	IsVerified       bool       `gorm:"default:false" json:"is_verified"`
	VerifiedAt       *time.Time `json:"verified_at,omitempty"`
	VerificationCode string     `gorm:"type:varchar(6)" json:"-"`

	CanViewGrades           bool `gorm:"default:true" json:"can_view_grades"`
	CanViewAttendance       bool `gorm:"default:true" json:"can_view_attendance"`
	CanReceiveNotifications bool `gorm:"default:true" json:"can_receive_notifications"`

	Parent  User `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"-"`
	Student User `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"student,omitempty"`
}
