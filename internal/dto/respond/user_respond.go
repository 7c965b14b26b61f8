package respond

import "time"

// UserProfile is the public part of a user returned after login.
type UserProfile struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Faculty  string `json:"faculty"`
	Degree   string `json:"degree"`
	Course   int    `json:"course"`
	AvatarID int    `json:"avatar_id"`
}

// LoginRespond is returned by POST /api/login.
type LoginRespond struct {
	User  UserProfile `json:"user"`
	Token string      `json:"token"`
}

// RegisterRespond is returned by POST /api/register.
type RegisterRespond struct {
	UserID uint `json:"userId"`
}

// UserListItem is one row of GET /api/admin/users.
type UserListItem struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	FullName  string    `json:"full_name"`
	Faculty   string    `json:"faculty"`
	Degree    string    `json:"degree"`
	Course    int       `json:"course"`
	AvatarID  int       `json:"avatar_id"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// ToggleRespond is returned by POST /api/admin/users/:id/toggle.
type ToggleRespond struct {
	ID       uint `json:"id"`
	IsActive bool `json:"is_active"`
}
