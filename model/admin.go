package model

import (
	"time"

	"gorm.io/datatypes"
)

// Admin audit actions
const (
	AuditCreate = "create"
	AuditUpdate = "update"
	AuditDelete = "delete"
	AuditLogin  = "login"
)

// AdminAuditLog records a staff action against a model row
type AdminAuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	AdminID    uint           `gorm:"not null;index" json:"admin_id"`
	Action     string         `gorm:"type:varchar(20);not null" json:"action"`
	ObjectType string         `gorm:"type:varchar(50);not null;index" json:"object_type"`
	ObjectID   uint           `json:"object_id"`
	Changes    datatypes.JSON `json:"changes,omitempty"`
	IPAddress  string         `gorm:"type:varchar(45)" json:"ip_address,omitempty"`

	Admin User `gorm:"foreignKey:AdminID;constraint:OnDelete:CASCADE" json:"-"`
}

// AppSetting is a key/value runtime setting editable from the admin area
type AppSetting struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UpdatedAt   time.Time `json:"updated_at"`
	Key         string    `gorm:"uniqueIndex;type:varchar(100);not null" json:"key"`
	Value       string    `gorm:"type:text" json:"value"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
}

// Cron job statuses
const (
	CronStatusSuccess = "success"
	CronStatusFailed  = "failed"
	CronStatusRunning = "running"
)

// CronJobLog records one run of a scheduled job
type CronJobLog struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	JobName    string     `gorm:"type:varchar(100);not null;index" json:"job_name"`
	Status     string     `gorm:"type:varchar(20);not null" json:"status"`
	StartedAt  time.Time  `gorm:"not null" json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Detail     string     `gorm:"type:text" json:"detail,omitempty"`
	Error      string     `gorm:"type:text" json:"error,omitempty"`
}
