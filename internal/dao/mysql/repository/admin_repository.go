package repository

import (
	"bsu_chat_server/internal/model"

	"gorm.io/gorm"
)

type adminRepository struct {
	db *gorm.DB
}

// NewAdminRepository returns the gorm AdminRepository.
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) FindById(id uint) (*model.AdminUser, error) {
	var admin model.AdminUser
	if err := r.db.First(&admin, id).Error; err != nil {
		return nil, wrapDBErrorf(err, "query admin id=%d", id)
	}
	return &admin, nil
}

func (r *adminRepository) FindByUsername(username string) (*model.AdminUser, error) {
	var admin model.AdminUser
	if err := r.db.First(&admin, "username = ?", username).Error; err != nil {
		return nil, wrapDBErrorf(err, "query admin username=%s", username)
	}
	return &admin, nil
}

func (r *adminRepository) FindSubAdmins() ([]model.AdminUser, error) {
	var admins []model.AdminUser
	if err := r.db.Where("is_super_admin = ?", false).Order("created_at DESC, id DESC").Find(&admins).Error; err != nil {
		return nil, wrapDBError(err, "query sub-admins")
	}
	return admins, nil
}

func (r *adminRepository) Create(admin *model.AdminUser) error {
	if err := r.db.Create(admin).Error; err != nil {
		return wrapDBError(err, "create admin")
	}
	return nil
}

func (r *adminRepository) DeleteSubAdmin(id uint) error {
	res := r.db.Where("id = ? AND is_super_admin = ?", id, false).Delete(&model.AdminUser{})
	if res.Error != nil {
		return wrapDBErrorf(res.Error, "delete admin id=%d", id)
	}
	if res.RowsAffected == 0 {
		return wrapDBErrorf(gorm.ErrRecordNotFound, "delete admin id=%d", id)
	}
	return nil
}
