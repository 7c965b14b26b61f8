// Package service is the business layer behind the HTTP handlers.
// Interfaces live here; implementations live in the sub packages.
package service

import (
	"context"

	"bsu_chat_server/internal/dao/mysql/repository"
	"bsu_chat_server/internal/dto/request"
	"bsu_chat_server/internal/dto/respond"
	"bsu_chat_server/pkg/constants"
)

// UserService covers student registration, login and the admin views of
// student accounts.
type UserService interface {
	// VerificationQuestions picks a random subset of the question pool.
	VerificationQuestions() []constants.VerificationQuestion
	Register(req request.RegisterRequest) (*respond.RegisterRespond, error)
	Login(req request.LoginRequest) (*respond.LoginRespond, error)
	GetUserList() ([]respond.UserListItem, error)
	// ToggleActive flips the account state; actorID is the acting admin.
	ToggleActive(actorID string, userID uint) (*respond.ToggleRespond, error)
	GetReportedUsers() ([]repository.ReportedUser, error)
}

// AdminService covers admin login and sub-admin management.
type AdminService interface {
	Login(req request.AdminLoginRequest) (*respond.AdminLoginRespond, error)
	GetSubAdmins() ([]respond.SubAdminItem, error)
	CreateSubAdmin(req request.CreateSubAdminRequest) error
	DeleteSubAdmin(id uint) error
}

// SettingService reads and writes key/value settings.
type SettingService interface {
	// Get returns "" for an unset key.
	Get(ctx context.Context, key string) (string, error)
	// GetValues returns an entry for every key, "" when unset.
	GetValues(ctx context.Context, keys ...string) (map[string]string, error)
	Update(ctx context.Context, key, value string) error
}
