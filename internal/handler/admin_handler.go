package handler

import (
	"strconv"

	"bsu_chat_server/internal/dto/request"
	"bsu_chat_server/internal/infrastructure/middleware"
	"bsu_chat_server/internal/service"
	"bsu_chat_server/pkg/errorx"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves the token protected admin panel API.
type AdminHandler struct {
	adminSvc   service.AdminService
	userSvc    service.UserService
	settingSvc service.SettingService
}

func NewAdminHandler(adminSvc service.AdminService, userSvc service.UserService, settingSvc service.SettingService) *AdminHandler {
	return &AdminHandler{
		adminSvc:   adminSvc,
		userSvc:    userSvc,
		settingSvc: settingSvc,
	}
}

// Login POST /api/admin/login
func (h *AdminHandler) Login(c *gin.Context) {
	var req request.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.adminSvc.Login(req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetUsers GET /api/admin/users
func (h *AdminHandler) GetUsers(c *gin.Context) {
	data, err := h.userSvc.GetUserList()
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// ToggleUser flips a student's active flag.
// POST /api/admin/users/:id/toggle
func (h *AdminHandler) ToggleUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	data, err := h.userSvc.ToggleActive(c.GetString(middleware.CtxSubjectID), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetReportedUsers GET /api/admin/reported-users
func (h *AdminHandler) GetReportedUsers(c *gin.Context) {
	data, err := h.userSvc.GetReportedUsers()
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetSubAdmins GET /api/admin/sub-admins
func (h *AdminHandler) GetSubAdmins(c *gin.Context) {
	data, err := h.adminSvc.GetSubAdmins()
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// CreateSubAdmin POST /api/admin/sub-admins
func (h *AdminHandler) CreateSubAdmin(c *gin.Context) {
	var req request.CreateSubAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.adminSvc.CreateSubAdmin(req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// DeleteSubAdmin DELETE /api/admin/sub-admins/:id
func (h *AdminHandler) DeleteSubAdmin(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.adminSvc.DeleteSubAdmin(id); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// UpdateSetting POST /api/admin/settings
func (h *AdminHandler) UpdateSetting(c *gin.Context) {
	var req request.UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.settingSvc.Update(c.Request.Context(), req.Key, req.Value); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// pathID parses the :id parameter, answering the request itself when it
// is not a positive integer.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		HandleError(c, errorx.ErrInvalidParam)
		return 0, false
	}
	return uint(id), true
}
