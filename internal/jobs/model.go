package jobs

import (
	"time"

	"gorm.io/datatypes"
)

const (
	StatusPending = "PENDING"
	StatusRunning = "RUNNING"
	StatusDone    = "DONE"
	StatusFailed  = "FAILED"

	DefaultMaxAttempts = 8
)

type Job struct {
	ID     uint64 `gorm:"primaryKey"`
	UserID string `gorm:"size:64;index;not null"`

	Type    string         `gorm:"size:64;not null"` // CROP_INDEX_REPAIR
	Payload datatypes.JSON `gorm:"not null"`

	RunAt  time.Time `gorm:"index:idx_jobs_due,priority:2;not null"`
	Status string    `gorm:"size:16;index:idx_jobs_due,priority:1;index:idx_jobs_lock,priority:1;not null;default:'PENDING'"`

	Attempts    int `gorm:"not null;default:0"`
	MaxAttempts int `gorm:"not null;default:8"`

	LockedBy *string `gorm:"size:64"`
	LockedAt *time.Time `gorm:"index:idx_jobs_lock,priority:2"`

	LastError *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
