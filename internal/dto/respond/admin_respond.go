package respond

import "time"

// AdminLoginRespond is returned by POST /api/admin/login.
type AdminLoginRespond struct {
	IsSuperAdmin bool   `json:"isSuperAdmin"`
	Token        string `json:"token"`
}

// SubAdminItem is one row of GET /api/admin/sub-admins.
type SubAdminItem struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// SettingRespond is returned by GET /api/settings/:key.
type SettingRespond struct {
	Value string `json:"value"`
}
