package repositories

import (
	"time"

	"gorm.io/gorm"

	"github.com/ColdByDefault/Portfolio-sub001/model"
)

type AdminRepository struct {
	BaseRepository
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{NewBaseRepository(db)}
}

func (r *AdminRepository) GetByUsername(username string) (*model.AdminUser, error) {
	var admin model.AdminUser
	if err := r.db.Where("username = ?", username).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *AdminRepository) GetByID(id string) (*model.AdminUser, error) {
	var admin model.AdminUser
	if err := r.db.Where("id = ?", id).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *AdminRepository) RecordLogin(id, ip string, at time.Time) error {
	return r.db.Model(&model.AdminUser{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_login_at": at,
			"last_login_ip": ip,
		}).Error
}
