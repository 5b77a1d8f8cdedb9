package repositories

import (
	"time"

	"gorm.io/gorm"

	"github.com/ColdByDefault/Portfolio-sub001/model"
)

type BlocklistRepository struct {
	BaseRepository
}

func NewBlocklistRepository(db *gorm.DB) *BlocklistRepository {
	return &BlocklistRepository{NewBaseRepository(db)}
}

func (r *BlocklistRepository) SaveIP(entry *model.BlockedIP) error {
	return r.db.Create(entry).Error
}

func (r *BlocklistRepository) SaveEmail(entry *model.BlockedEmail) error {
	return r.db.Create(entry).Error
}

func (r *BlocklistRepository) DeleteIP(ip string) error {
	return r.db.Where("ip = ?", ip).Delete(&model.BlockedIP{}).Error
}

func (r *BlocklistRepository) DeleteEmail(email string) error {
	return r.db.Where("email = ?", email).Delete(&model.BlockedEmail{}).Error
}

// ActiveIPs returns entries that are permanent or not yet expired.
func (r *BlocklistRepository) ActiveIPs(now time.Time) ([]model.BlockedIP, error) {
	var entries []model.BlockedIP
	err := r.db.Where("expires_at IS NULL OR expires_at > ?", now).Find(&entries).Error
	return entries, err
}

func (r *BlocklistRepository) ActiveEmails(now time.Time) ([]model.BlockedEmail, error) {
	var entries []model.BlockedEmail
	err := r.db.Where("expires_at IS NULL OR expires_at > ?", now).Find(&entries).Error
	return entries, err
}

func (r *BlocklistRepository) DeleteExpired(now time.Time) error {
	if err := r.db.Where("expires_at IS NOT NULL AND expires_at <= ?", now).Delete(&model.BlockedIP{}).Error; err != nil {
		return err
	}
	return r.db.Where("expires_at IS NOT NULL AND expires_at <= ?", now).Delete(&model.BlockedEmail{}).Error
}
