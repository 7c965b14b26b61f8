package request

// AdminLoginRequest is the body of POST /api/admin/login.
type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CreateSubAdminRequest is the body of POST /api/admin/sub-admins.
type CreateSubAdminRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6,max=64"`
}

// UpdateSettingRequest is the body of POST /api/admin/settings.
type UpdateSettingRequest struct {
	Key   string `json:"key" binding:"required,max=100"`
	Value string `json:"value"`
}
