// Package admin implements admin login and sub-admin management.
package admin

import (
	"crypto/subtle"
	"strconv"
	"strings"

	"bsu_chat_server/internal/config"
	"bsu_chat_server/internal/dao/mysql/repository"
	"bsu_chat_server/internal/dto/request"
	"bsu_chat_server/internal/dto/respond"
	"bsu_chat_server/internal/model"
	"bsu_chat_server/pkg/errorx"
	"bsu_chat_server/pkg/util/jwt"

	"go.uber.org/zap"
)

// SuperAdminSubject is the token subject of the configured super admin.
const SuperAdminSubject = "super"

type adminService struct {
	repos *repository.Repositories
	super config.SuperAdminConfig
}

// NewAdminService injects the repositories and the super admin credentials.
func NewAdminService(repos *repository.Repositories, super config.SuperAdminConfig) *adminService {
	return &adminService{repos: repos, super: super}
}

func (s *adminService) isSuperAdmin(username, password string) bool {
	if s.super.Username == "" || s.super.Password == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.super.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.super.Password)) == 1
	return userOK && passOK
}

// Login checks the configured super admin first, then the sub-admin table.
func (s *adminService) Login(req request.AdminLoginRequest) (*respond.AdminLoginRespond, error) {
	invalid := errorx.New(errorx.CodeInvalidPassword, "İstifadəçi adı və ya şifrə yanlışdır")

	if s.isSuperAdmin(req.Username, req.Password) {
		token, err := jwt.GenerateAccessToken(SuperAdminSubject, jwt.RoleSuperAdmin)
		if err != nil {
			zap.L().Error("generate admin token failed", zap.Error(err))
			return nil, errorx.ErrServerBusy
		}
		return &respond.AdminLoginRespond{IsSuperAdmin: true, Token: token}, nil
	}

	admin, err := s.repos.Admin.FindByUsername(strings.TrimSpace(req.Username))
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, invalid
		}
		zap.L().Error("admin login query failed", zap.Error(err))
		return nil, errorx.New(errorx.CodeServerBusy, "Giriş zamanı xəta baş verdi")
	}
	if !admin.CheckPassword(req.Password) {
		return nil, invalid
	}

	role := jwt.RoleAdmin
	if admin.IsSuperAdmin {
		role = jwt.RoleSuperAdmin
	}
	token, err := jwt.GenerateAccessToken(strconv.FormatUint(uint64(admin.ID), 10), role)
	if err != nil {
		zap.L().Error("generate admin token failed", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	return &respond.AdminLoginRespond{IsSuperAdmin: admin.IsSuperAdmin, Token: token}, nil
}

func (s *adminService) GetSubAdmins() ([]respond.SubAdminItem, error) {
	admins, err := s.repos.Admin.FindSubAdmins()
	if err != nil {
		zap.L().Error("list sub-admins failed", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	out := make([]respond.SubAdminItem, 0, len(admins))
	for _, a := range admins {
		out = append(out, respond.SubAdminItem{ID: a.ID, Username: a.Username, CreatedAt: a.CreatedAt})
	}
	return out, nil
}

func (s *adminService) CreateSubAdmin(req request.CreateSubAdminRequest) error {
	username := strings.TrimSpace(req.Username)
	if username == s.super.Username {
		return errorx.New(errorx.CodeUserExist, "Bu istifadəçi adı artıq mövcuddur")
	}
	if _, err := s.repos.Admin.FindByUsername(username); err == nil {
		return errorx.New(errorx.CodeUserExist, "Bu istifadəçi adı artıq mövcuddur")
	} else if !errorx.IsNotFound(err) {
		zap.L().Error("sub-admin lookup failed", zap.Error(err))
		return errorx.ErrServerBusy
	}

	admin := &model.AdminUser{Username: username, RawPassword: req.Password}
	if err := s.repos.Admin.Create(admin); err != nil {
		zap.L().Error("create sub-admin failed", zap.Error(err))
		return errorx.ErrServerBusy
	}
	zap.L().Info("sub-admin created", zap.Uint("id", admin.ID), zap.String("username", username))
	return nil
}

func (s *adminService) DeleteSubAdmin(id uint) error {
	if err := s.repos.Admin.DeleteSubAdmin(id); err != nil {
		if errorx.IsNotFound(err) {
			return errorx.New(errorx.CodeNotFound, "Admin tapılmadı")
		}
		zap.L().Error("delete sub-admin failed", zap.Uint("id", id), zap.Error(err))
		return errorx.ErrServerBusy
	}
	return nil
}
