package repository

import (
	"bsu_chat_server/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type blockRepository struct {
	db *gorm.DB
}

// NewBlockRepository returns the gorm BlockRepository.
func NewBlockRepository(db *gorm.DB) BlockRepository {
	return &blockRepository{db: db}
}

func (r *blockRepository) Create(blockerID, blockedID uint) error {
	row := model.BlockedUser{BlockerID: blockerID, BlockedID: blockedID}
	err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
	if err != nil {
		return wrapDBErrorf(err, "block %d -> %d", blockerID, blockedID)
	}
	return nil
}

func (r *blockRepository) FindBlockedIds(blockerID uint) ([]uint, error) {
	ids := make([]uint, 0)
	err := r.db.Model(&model.BlockedUser{}).
		Where("blocker_id = ?", blockerID).
		Pluck("blocked_id", &ids).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "query blocked by %d", blockerID)
	}
	return ids, nil
}

func (r *blockRepository) FindBlockerIds(blockedID uint) ([]uint, error) {
	ids := make([]uint, 0)
	err := r.db.Model(&model.BlockedUser{}).
		Where("blocked_id = ?", blockedID).
		Pluck("blocker_id", &ids).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "query blockers of %d", blockedID)
	}
	return ids, nil
}

func (r *blockRepository) ExistsBetween(a, b uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.BlockedUser{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)", a, b, b, a).
		Count(&count).Error
	if err != nil {
		return false, wrapDBErrorf(err, "check block between %d and %d", a, b)
	}
	return count > 0, nil
}
