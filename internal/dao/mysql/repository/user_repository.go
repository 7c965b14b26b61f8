package repository

import (
	"bsu_chat_server/internal/model"

	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns the gorm UserRepository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindById(id uint) (*model.UserInfo, error) {
	var user model.UserInfo
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, wrapDBErrorf(err, "query user id=%d", id)
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*model.UserInfo, error) {
	var user model.UserInfo
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		return nil, wrapDBErrorf(err, "query user email=%s", email)
	}
	return &user, nil
}

func (r *userRepository) ExistsByEmailOrPhone(email, phone string) (bool, error) {
	var count int64
	err := r.db.Model(&model.UserInfo{}).
		Where("email = ? OR phone = ?", email, phone).
		Count(&count).Error
	if err != nil {
		return false, wrapDBError(err, "check user uniqueness")
	}
	return count > 0, nil
}

// FindAll lists users, newest first.
func (r *userRepository) FindAll() ([]model.UserInfo, error) {
	var users []model.UserInfo
	if err := r.db.Order("created_at DESC, id DESC").Find(&users).Error; err != nil {
		return nil, wrapDBError(err, "query user list")
	}
	return users, nil
}

func (r *userRepository) Create(user *model.UserInfo) error {
	if err := r.db.Create(user).Error; err != nil {
		return wrapDBError(err, "create user")
	}
	return nil
}

func (r *userRepository) ToggleActive(id uint) (*model.UserInfo, error) {
	var user model.UserInfo
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			return err
		}
		user.IsActive = !user.IsActive
		return tx.Model(&user).Update("is_active", user.IsActive).Error
	})
	if err != nil {
		return nil, wrapDBErrorf(err, "toggle user id=%d", id)
	}
	return &user, nil
}
