package model

import "time"

// BlockedUser is a directed block relation. The pair is unique.
type BlockedUser struct {
	ID        uint      `gorm:"primaryKey"`
	BlockerID uint      `gorm:"column:blocker_id;not null;uniqueIndex:idx_blocker_blocked"`
	BlockedID uint      `gorm:"column:blocked_id;not null;uniqueIndex:idx_blocker_blocked;index"`
	CreatedAt time.Time
}

func (BlockedUser) TableName() string {
	return "blocked_users"
}

// Report is one complaint about a user. Repeated reports are kept.
type Report struct {
	ID         uint      `gorm:"primaryKey"`
	ReporterID uint      `gorm:"column:reporter_id;not null"`
	ReportedID uint      `gorm:"column:reported_id;not null;index"`
	CreatedAt  time.Time
}

func (Report) TableName() string {
	return "reports"
}

// Setting is a key/value pair edited from the admin panel.
type Setting struct {
	Key       string    `gorm:"column:key;primaryKey;type:varchar(100)" json:"key"`
	Value     string    `gorm:"column:value;type:text" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}
