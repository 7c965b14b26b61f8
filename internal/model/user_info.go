// Package model defines the persisted entities of the identity directory.
package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserInfo is a registered student account. Table "users".
type UserInfo struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`

	Email    string `gorm:"column:email;uniqueIndex;type:varchar(100);not null" json:"email"`
	Phone    string `gorm:"column:phone;uniqueIndex;type:varchar(20);not null" json:"phone"`
	Password string `gorm:"column:password;type:varchar(100);not null" json:"-"`
	FullName string `gorm:"column:full_name;type:varchar(100);not null" json:"full_name"`
	Faculty  string `gorm:"column:faculty;type:varchar(100);not null" json:"faculty"`
	Degree   string `gorm:"column:degree;type:varchar(50);not null" json:"degree"`
	Course   int    `gorm:"column:course;not null" json:"course"`
	AvatarID int    `gorm:"column:avatar_id;default:1" json:"avatar_id"`
	IsActive bool   `gorm:"column:is_active;default:true;index" json:"is_active"`

	// RawPassword is hashed into Password by BeforeSave.
	RawPassword string `gorm:"-" json:"-"`
}

// TableName overrides the gorm default.
func (UserInfo) TableName() string {
	return "users"
}

// BeforeSave hashes RawPassword when set.
func (u *UserInfo) BeforeSave(tx *gorm.DB) error {
	hash, err := hashRawPassword(u.RawPassword)
	if err != nil {
		return err
	}
	if hash != "" {
		u.Password = hash
		u.RawPassword = ""
	}
	return nil
}

// CheckPassword compares plaintext against the stored hash.
func (u *UserInfo) CheckPassword(plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plaintext)) == nil
}

// Sender is the profile snapshot embedded in chat messages.
func (u *UserInfo) Sender() Sender {
	return Sender{
		ID:       u.ID,
		FullName: u.FullName,
		Faculty:  u.Faculty,
		Degree:   u.Degree,
		Course:   u.Course,
		AvatarID: u.AvatarID,
	}
}

// Sender is a denormalized copy of a user's public profile.
type Sender struct {
	ID       uint   `json:"id"`
	FullName string `json:"full_name"`
	Faculty  string `json:"faculty"`
	Degree   string `json:"degree"`
	Course   int    `json:"course"`
	AvatarID int    `json:"avatar_id"`
}

func hashRawPassword(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
