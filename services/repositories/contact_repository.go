package repositories

import (
	"time"

	"gorm.io/gorm"

	"github.com/ColdByDefault/Portfolio-sub001/model"
)

type ContactRepository struct {
	BaseRepository
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{NewBaseRepository(db)}
}

func (r *ContactRepository) Create(submission *model.ContactSubmission) error {
	return r.db.Create(submission).Error
}

// List returns audit trail rows newest first. outcome filters by acceptance:
// "accepted", "rejected" or "" for all.
func (r *ContactRepository) List(page, limit int, outcome string) ([]model.ContactSubmission, int64, error) {
	query := r.db.Model(&model.ContactSubmission{})

	switch outcome {
	case "accepted":
		query = query.Where("accepted = ?", true)
	case "rejected":
		query = query.Where("accepted = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var submissions []model.ContactSubmission
	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&submissions).Error
	if err != nil {
		return nil, 0, err
	}

	return submissions, total, nil
}

func (r *ContactRepository) DeleteOlderThan(cutoff time.Time) error {
	return r.db.Where("created_at < ?", cutoff).Delete(&model.ContactSubmission{}).Error
}
