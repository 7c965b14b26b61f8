// Package repository is the data access layer of the identity directory.
// Interfaces live here; gorm implementations live in the sibling files.
package repository

import (
	"bsu_chat_server/internal/model"

	"gorm.io/gorm"
)

// UserRepository manages student accounts.
type UserRepository interface {
	FindById(id uint) (*model.UserInfo, error)
	FindByEmail(email string) (*model.UserInfo, error)
	// ExistsByEmailOrPhone reports whether either value is already taken.
	ExistsByEmailOrPhone(email, phone string) (bool, error)
	FindAll() ([]model.UserInfo, error)
	Create(user *model.UserInfo) error
	// ToggleActive flips is_active and returns the updated row.
	ToggleActive(id uint) (*model.UserInfo, error)
}

// AdminRepository manages sub-admin accounts.
type AdminRepository interface {
	FindById(id uint) (*model.AdminUser, error)
	FindByUsername(username string) (*model.AdminUser, error)
	FindSubAdmins() ([]model.AdminUser, error)
	Create(admin *model.AdminUser) error
	// DeleteSubAdmin never removes a row flagged as super admin.
	DeleteSubAdmin(id uint) error
}

// BlockRepository manages directed block relations.
type BlockRepository interface {
	// Create is idempotent.
	Create(blockerID, blockedID uint) error
	// FindBlockedIds lists the users blockerID has blocked.
	FindBlockedIds(blockerID uint) ([]uint, error)
	// FindBlockerIds lists the users that have blocked blockedID.
	FindBlockerIds(blockedID uint) ([]uint, error)
	// ExistsBetween reports a block in either direction.
	ExistsBetween(a, b uint) (bool, error)
}

// ReportedUser is a user with its report count.
type ReportedUser struct {
	ID          uint   `json:"id"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	FullName    string `json:"full_name"`
	Faculty     string `json:"faculty"`
	Degree      string `json:"degree"`
	Course      int    `json:"course"`
	IsActive    bool   `json:"is_active"`
	ReportCount int64  `json:"report_count"`
}

// ReportRepository manages user reports.
type ReportRepository interface {
	Create(reporterID, reportedID uint) error
	// FindReportedUsers returns users with at least threshold reports,
	// most reported first.
	FindReportedUsers(threshold int) ([]ReportedUser, error)
}

// SettingRepository manages admin-editable key/value settings.
type SettingRepository interface {
	// Get returns "" for an unknown key.
	Get(key string) (string, error)
	// GetMany omits unknown keys from the result.
	GetMany(keys []string) (map[string]string, error)
	Upsert(key, value string) error
}

// Repositories aggregates every repository for injection into services.
type Repositories struct {
	db      *gorm.DB
	User    UserRepository
	Admin   AdminRepository
	Block   BlockRepository
	Report  ReportRepository
	Setting SettingRepository
}

// NewRepositories builds all repositories over db.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:      db,
		User:    NewUserRepository(db),
		Admin:   NewAdminRepository(db),
		Block:   NewBlockRepository(db),
		Report:  NewReportRepository(db),
		Setting: NewSettingRepository(db),
	}
}

// Transaction runs fn with repositories bound to one transaction.
func (r *Repositories) Transaction(fn func(txRepos *Repositories) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
