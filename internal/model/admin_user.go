package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AdminUser is a sub-admin account. The super admin is not stored here.
type AdminUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Username     string    `gorm:"column:username;uniqueIndex;type:varchar(50);not null" json:"username"`
	Password     string    `gorm:"column:password;type:varchar(100);not null" json:"-"`
	IsSuperAdmin bool      `gorm:"column:is_super_admin;default:false" json:"is_super_admin"`

	RawPassword string `gorm:"-" json:"-"`
}

func (AdminUser) TableName() string {
	return "admin_users"
}

// BeforeSave hashes RawPassword when set.
func (a *AdminUser) BeforeSave(tx *gorm.DB) error {
	hash, err := hashRawPassword(a.RawPassword)
	if err != nil {
		return err
	}
	if hash != "" {
		a.Password = hash
		a.RawPassword = ""
	}
	return nil
}

func (a *AdminUser) CheckPassword(plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.Password), []byte(plaintext)) == nil
}
