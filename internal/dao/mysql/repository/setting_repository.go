package repository

import (
	"errors"

	"bsu_chat_server/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type settingRepository struct {
	db *gorm.DB
}

// NewSettingRepository returns the gorm SettingRepository.
func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

func (r *settingRepository) Get(key string) (string, error) {
	var s model.Setting
	err := r.db.First(&s, "`key` = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", wrapDBErrorf(err, "query setting %s", key)
	}
	return s.Value, nil
}

func (r *settingRepository) GetMany(keys []string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	var rows []model.Setting
	if err := r.db.Where("`key` IN ?", keys).Find(&rows).Error; err != nil {
		return nil, wrapDBError(err, "query settings")
	}
	for _, s := range rows {
		out[s.Key] = s.Value
	}
	return out, nil
}

func (r *settingRepository) Upsert(key, value string) error {
	row := model.Setting{Key: key, Value: value}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return wrapDBErrorf(err, "upsert setting %s", key)
	}
	return nil
}
